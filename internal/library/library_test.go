package library

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/pose"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func peaceRecord() Record {
	return Record{
		Side: bones.Right,
		Bones: pose.Bones{
			"人指１.R": {
				Location: pose.Vec3{0, 0.5, -1.25},
				Rotation: pose.Quat{0.9, 0.1, 0.2, 0.3},
				Scale:    pose.Vec3{1, 1, 1},
			},
		},
	}
}

func TestGestures_InsertionOrder(t *testing.T) {
	g := NewGestures()
	g.Set("b", Record{Side: bones.Left})
	g.Set("a", Record{Side: bones.Right})
	g.Set("c", Record{Side: bones.Left})
	g.Set("a", Record{Side: bones.Left}) // overwrite keeps position

	assert.Equal(t, []string{"b", "a", "c"}, g.Names())
	rec, ok := g.Get("a")
	require.True(t, ok)
	assert.Equal(t, bones.Left, rec.Side)

	assert.True(t, g.Delete("a"))
	assert.False(t, g.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, g.Names())
}

func TestGestures_ZeroValue(t *testing.T) {
	var g Gestures
	assert.Equal(t, 0, g.Len())
	g.Set("x", Record{Side: bones.Left})
	assert.True(t, g.Has("x"))
}

func TestGestures_NamesStoredExactly(t *testing.T) {
	g := NewGestures()
	composed := "\u30b0\u30fc"
	decomposed := "\u30af\u3099\u30fc"
	require.NotEqual(t, composed, decomposed)

	g.Set(decomposed, Record{Side: bones.Left})

	assert.Equal(t, []string{decomposed}, g.Names())
	rec, ok := g.Get(composed)
	require.True(t, ok, "differently composed lookup falls back to NFC match")
	assert.Equal(t, bones.Left, rec.Side)

	key, ok := g.Resolve(composed)
	require.True(t, ok)
	assert.Equal(t, decomposed, key)
}

func TestGestures_ComposedAndDecomposedCoexist(t *testing.T) {
	g := NewGestures()
	composed := "\u30d1\u30fc"
	decomposed := "\u30cf\u309a\u30fc"

	g.Set(decomposed, Record{Side: bones.Left})
	g.Set(composed, Record{Side: bones.Right})

	assert.Equal(t, []string{decomposed, composed}, g.Names())
	left, _ := g.Get(decomposed)
	right, _ := g.Get(composed)
	assert.Equal(t, bones.Left, left.Side)
	assert.Equal(t, bones.Right, right.Side)

	assert.True(t, g.Delete(composed))
	assert.Equal(t, []string{decomposed}, g.Names(), "exact match is deleted first")
}

func TestGestures_GetReturnsCopy(t *testing.T) {
	g := NewGestures()
	g.Set("Peace", peaceRecord())

	rec, _ := g.Get("Peace")
	rec.Bones["人指１.R"] = pose.Snapshot{}

	again, _ := g.Get("Peace")
	assert.Equal(t, peaceRecord(), again)
}

func TestGestures_NilBonesEncodeAsObject(t *testing.T) {
	g := NewGestures()
	g.Set("empty", Record{Side: bones.Left})

	data, err := Encode(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bones_data": {}`)
	assert.NotContains(t, string(data), "null")
}

func TestEncode_Golden(t *testing.T) {
	g := NewGestures()
	g.Set("Peace", peaceRecord())
	g.Set("グー<fist>", Record{Side: bones.Left, Bones: pose.Bones{}})

	data, err := Encode(g)
	require.NoError(t, err)

	gd := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gd.Assert(t, "library", data)
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(NewGestures())
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestLoad_MissingFile(t *testing.T) {
	g, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, 0, g.Len())
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"Peace": {"hand_side": "RIGHT"`},
		{"not_json", "hello"},
		{"array", `[1, 2, 3]`},
		{"null", `null`},
		{"wrong_types", `{"Peace": {"hand_side": "RIGHT", "bones_data": {"a": {"location": "x"}}}}`},
		{"empty_file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			g, err := Load(path)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			require.NotNil(t, g)
			assert.Equal(t, 0, g.Len())
		})
	}
}

func TestLoad_AcceptsPythonFloats(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := `{
  "Peace": {
    "hand_side": "RIGHT",
    "bones_data": {
      "人指１.R": {
        "location": [0.0, 0.5, -1.25],
        "rotation_quaternion": [0.9, 0.1, 0.2, 0.3],
        "scale": [1.0, 1.0, 1.0]
      }
    }
  },
  "Rock": {"hand_side": "LEFT", "bones_data": {}}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Peace", "Rock"}, g.Names())
	rec, ok := g.Get("Peace")
	require.True(t, ok)
	assert.Equal(t, peaceRecord(), rec)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	g := NewGestures()
	g.Set("Peace", peaceRecord())
	g.Set("グー", Record{Side: bones.Left, Bones: pose.Bones{}})

	require.NoError(t, Save(path, g))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, g.Names(), loaded.Names())
	for _, name := range g.Names() {
		want, _ := g.Get(name)
		got, _ := loaded.Get(name)
		assert.Equal(t, want, got)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "グー", "non-ASCII names are written literally")

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", DefaultFileName)
	err := Save(path, NewGestures())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save gesture library")
}

func TestOpen_MalformedIsEmptyAndReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	var logs bytes.Buffer
	lib := Open(path, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Equal(t, 0, lib.Len())
	require.Error(t, lib.LoadErr())
	assert.True(t, errors.Is(lib.LoadErr(), ErrMalformed))
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "gesture library unreadable")
}

func TestOpen_Missing(t *testing.T) {
	lib := Open(filepath.Join(t.TempDir(), DefaultFileName), quietLogger())
	assert.Equal(t, 0, lib.Len())
	assert.NoError(t, lib.LoadErr())
}

func TestLibrary_PutPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	lib := Open(path, quietLogger())

	require.NoError(t, lib.Put("Peace", peaceRecord()))

	reopened := Open(path, quietLogger())
	rec, ok := reopened.Lookup("Peace")
	require.True(t, ok)
	assert.Equal(t, peaceRecord(), rec)
}

func TestLibrary_DeleteAbsentLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	lib := Open(path, quietLogger())
	require.NoError(t, lib.Put("Peace", peaceRecord()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)

	removed, err := lib.Delete("Missing")

	require.NoError(t, err)
	assert.False(t, removed)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), info2.ModTime())
}

func TestLibrary_DeleteAbsentWithoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	lib := Open(path, quietLogger())

	removed, err := lib.Delete("Missing")
	require.NoError(t, err)
	assert.False(t, removed)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "deleting from an empty library must not create the file")
}

func TestLibrary_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	lib := Open(path, quietLogger())
	require.NoError(t, lib.Put("Peace", peaceRecord()))
	require.NoError(t, lib.Put("Rock", Record{Side: bones.Left}))

	removed, err := lib.Delete("Peace")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"Rock"}, lib.Names())

	reopened := Open(path, quietLogger())
	assert.Equal(t, []string{"Rock"}, reopened.Names())
}

func TestLibrary_GetIsReadOnlyView(t *testing.T) {
	lib := Open(filepath.Join(t.TempDir(), DefaultFileName), quietLogger())
	require.NoError(t, lib.Put("Peace", peaceRecord()))

	view := lib.Get()
	view.Delete("Peace")

	assert.Equal(t, 1, lib.Len())
}

func TestLibrary_UpdateReplacesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	lib := Open(path, quietLogger())
	require.NoError(t, lib.Put("Old", Record{Side: bones.Left}))

	next := NewGestures()
	next.Set("New", Record{Side: bones.Right})
	require.NoError(t, lib.Update(next))

	assert.Equal(t, []string{"New"}, lib.Names())
	assert.Equal(t, []string{"New"}, Open(path, quietLogger()).Names())
}

func TestLibrary_MalformedOverwrittenOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	lib := Open(path, quietLogger())

	require.NoError(t, lib.Put("Peace", peaceRecord()))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Peace"}, g.Names())
}

func TestLibrary_ComposedAndDecomposedSurviveSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	composed := "\u30d1\u30fc"
	decomposed := "\u30cf\u309a\u30fc"
	content := `{"` + decomposed + `": {"hand_side": "LEFT", "bones_data": {}}, "` +
		composed + `": {"hand_side": "RIGHT", "bones_data": {}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lib := Open(path, quietLogger())
	require.NoError(t, lib.LoadErr())
	assert.Equal(t, []string{decomposed, composed}, lib.Names())

	require.NoError(t, lib.Put("Other", Record{Side: bones.Left}))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{decomposed, composed, "Other"}, g.Names())
	left, ok := g.Get(decomposed)
	require.True(t, ok)
	assert.Equal(t, bones.Left, left.Side)
	right, ok := g.Get(composed)
	require.True(t, ok)
	assert.Equal(t, bones.Right, right.Side)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"`+decomposed+`"`, "decomposed spelling written byte-exact")
}

func TestLibrary_FailedSaveKeepsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", DefaultFileName)
	lib := Open(path, quietLogger())

	err := lib.Put("Peace", peaceRecord())
	require.Error(t, err)

	assert.Equal(t, 0, lib.Len())
	_, ok := lib.Lookup("Peace")
	assert.False(t, ok)
}
