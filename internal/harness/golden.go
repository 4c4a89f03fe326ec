package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the golden-file form of a scenario run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// MarshalTrace renders a scenario trace as indented JSON without HTML
// escaping, the format used for golden files.
func MarshalTrace(name string, trace []TraceEvent) ([]byte, error) {
	if trace == nil {
		trace = []TraceEvent{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(TraceSnapshot{ScenarioName: name, Trace: trace}); err != nil {
		return nil, fmt.Errorf("marshal trace: %w", err)
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := MarshalTrace(scenario.Name, result.Trace)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}

// GoldenPath returns the golden file path for a scenario under dir.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, "golden", name+".golden")
}

// CheckGolden compares data with the golden file for name under dir, outside
// of go test. With update set, the file is (re)written instead. A missing
// golden file is not an error; found reports whether one was compared.
func CheckGolden(dir, name string, data []byte, update bool) (found bool, err error) {
	path := GoldenPath(dir, name)
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return false, fmt.Errorf("write golden: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return false, fmt.Errorf("write golden: %w", err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read golden: %w", err)
	}
	if !bytes.Equal(want, data) {
		return true, fmt.Errorf("trace does not match %s", path)
	}
	return true, nil
}
