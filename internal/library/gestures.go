package library

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/pose"
)

// Record is one stored gesture.
type Record struct {
	Side  bones.Side `json:"hand_side"`
	Bones pose.Bones `json:"bones_data"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	return Record{Side: r.Side, Bones: r.Bones.Clone()}
}

// NormalizeName returns the NFC form of a gesture name. Stored names are kept
// byte-exact; NFC is only used to match a lookup against a differently
// composed spelling.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// Gestures is an insertion-ordered mapping from gesture name to Record.
// Names are stored exactly as given. The zero value is an empty mapping
// ready to use.
type Gestures struct {
	names   []string
	records map[string]Record
}

// NewGestures returns an empty mapping.
func NewGestures() *Gestures {
	return &Gestures{records: make(map[string]Record)}
}

// Len returns the number of gestures.
func (g *Gestures) Len() int {
	return len(g.names)
}

// Names returns gesture names in insertion order.
func (g *Gestures) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Resolve returns the stored name that name refers to: the exact name when
// present, otherwise the first stored name with the same NFC form.
func (g *Gestures) Resolve(name string) (string, bool) {
	if _, ok := g.records[name]; ok {
		return name, true
	}
	want := NormalizeName(name)
	for _, n := range g.names {
		if NormalizeName(n) == want {
			return n, true
		}
	}
	return "", false
}

// Get returns a copy of the named record.
func (g *Gestures) Get(name string) (Record, bool) {
	key, ok := g.Resolve(name)
	if !ok {
		return Record{}, false
	}
	return g.records[key].Clone(), true
}

// Has reports whether name is present.
func (g *Gestures) Has(name string) bool {
	_, ok := g.Resolve(name)
	return ok
}

// Set stores rec under exactly name. Overwriting keeps the original position.
func (g *Gestures) Set(name string, rec Record) {
	if g.records == nil {
		g.records = make(map[string]Record)
	}
	if _, exists := g.records[name]; !exists {
		g.names = append(g.names, name)
	}
	rec = rec.Clone()
	if rec.Bones == nil {
		rec.Bones = pose.Bones{}
	}
	g.records[name] = rec
}

// Delete removes name and reports whether it was present.
func (g *Gestures) Delete(name string) bool {
	key, ok := g.Resolve(name)
	if !ok {
		return false
	}
	delete(g.records, key)
	for i, n := range g.names {
		if n == key {
			g.names = append(g.names[:i:i], g.names[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of g.
func (g *Gestures) Clone() *Gestures {
	out := NewGestures()
	for _, name := range g.names {
		out.Set(name, g.records[name])
	}
	return out
}

// MarshalJSON writes gestures in insertion order without HTML escaping.
func (g *Gestures) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range g.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeNoEscape(name)
		if err != nil {
			return nil, fmt.Errorf("encode gesture name %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		rec, err := encodeNoEscape(g.records[name])
		if err != nil {
			return nil, fmt.Errorf("encode gesture %q: %w", name, err)
		}
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. Any content other
// than an object of records is an error.
func (g *Gestures) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	next := NewGestures()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected gesture name, got %v", tok)
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("gesture %q: %w", name, err)
		}
		next.Set(name, rec)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = *next
	return nil
}

func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
