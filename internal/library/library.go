package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultFileName is the library file name used when none is configured.
const DefaultFileName = "hand_gestures.json"

// ErrMalformed wraps parse failures reported by Load.
var ErrMalformed = errors.New("malformed gesture library")

// Load reads the library file at path. It always returns a usable mapping:
// a missing file yields an empty mapping and a nil error; an unreadable or
// unparsable file yields an empty mapping together with the error.
func Load(path string) (*Gestures, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewGestures(), nil
	}
	if err != nil {
		return NewGestures(), fmt.Errorf("read gesture library: %w", err)
	}

	g := NewGestures()
	if err := json.Unmarshal(data, g); err != nil {
		return NewGestures(), fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return g, nil
}

// Encode renders g in the library file format.
func Encode(g *Gestures) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("encode gesture library: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes g to path, replacing previous content. The data is written to a
// temporary file in the same directory and renamed over path.
func Save(path string, g *Gestures) error {
	data, err := Encode(g)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save gesture library: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save gesture library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save gesture library: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("save gesture library: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("save gesture library: %w", err)
	}
	return nil
}

// Library is the owned gesture store: an in-memory cache loaded once at
// construction and mirrored to a JSON file.
//
// Not safe for concurrent use.
type Library struct {
	path    string
	logger  *slog.Logger
	cache   *Gestures
	loadErr error
}

// Open loads the library at path. It never fails: load problems leave the
// library empty and are reported through LoadErr and the logger.
// A nil logger uses slog.Default().
func Open(path string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	g, err := Load(path)
	if err != nil {
		logger.Warn("gesture library unreadable, starting empty", "path", path, "error", err)
	} else {
		logger.Debug("gesture library loaded", "path", path, "gestures", g.Len())
	}
	return &Library{
		path:    path,
		logger:  logger,
		cache:   g,
		loadErr: err,
	}
}

// Path returns the backing file path.
func (l *Library) Path() string {
	return l.path
}

// LoadErr returns the error encountered when the library was opened, if any.
func (l *Library) LoadErr() error {
	return l.loadErr
}

// Get returns a read-only view of the cached mapping. The returned value is a
// copy; changing it does not affect the library.
func (l *Library) Get() *Gestures {
	return l.cache.Clone()
}

// Update saves next and, once it is on disk, makes it the cache. A failed
// save leaves the cache unchanged.
func (l *Library) Update(next *Gestures) error {
	next = next.Clone()
	if err := Save(l.path, next); err != nil {
		l.logger.Error("gesture library save failed", "path", l.path, "error", err)
		return err
	}
	l.cache = next
	l.logger.Debug("gesture library saved", "path", l.path, "gestures", next.Len())
	return nil
}

// Save writes the cache to the backing file.
func (l *Library) Save() error {
	if err := Save(l.path, l.cache); err != nil {
		l.logger.Error("gesture library save failed", "path", l.path, "error", err)
		return err
	}
	l.logger.Debug("gesture library saved", "path", l.path, "gestures", l.cache.Len())
	return nil
}

// Lookup returns a copy of the named record.
func (l *Library) Lookup(name string) (Record, bool) {
	return l.cache.Get(name)
}

// Names returns gesture names in stored order.
func (l *Library) Names() []string {
	return l.cache.Names()
}

// Len returns the number of stored gestures.
func (l *Library) Len() int {
	return l.cache.Len()
}

// Put stores rec under name, overwriting any existing record, and saves.
func (l *Library) Put(name string, rec Record) error {
	next := l.cache.Clone()
	next.Set(name, rec)
	return l.Update(next)
}

// Delete removes name and saves. Deleting an absent name does nothing and
// leaves the file untouched.
func (l *Library) Delete(name string) (removed bool, err error) {
	if !l.cache.Has(name) {
		return false, nil
	}
	next := l.cache.Clone()
	next.Delete(name)
	return true, l.Update(next)
}
