package store

import (
	"encoding/json"
	"fmt"
)

// marshalFloats stores a vector as a JSON array in a TEXT column.
func marshalFloats(values []float64) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal vector: %w", err)
	}
	return string(data), nil
}

// unmarshalFloats parses a TEXT column written by marshalFloats and checks
// its length when want > 0.
func unmarshalFloats(data string, want int) ([]float64, error) {
	var values []float64
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal vector: %w", err)
	}
	if want > 0 && len(values) != want {
		return nil, fmt.Errorf("unmarshal vector: got %d values, want %d", len(values), want)
	}
	return values, nil
}
