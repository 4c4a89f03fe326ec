package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// workspace is a temp library file and scene database.
type workspace struct {
	Library string
	Scene   string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	return workspace{
		Library: filepath.Join(dir, "hand_gestures.json"),
		Scene:   filepath.Join(dir, "scene.db"),
	}
}

// run executes the root command against the workspace and returns stdout.
func (w workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return execute(t, append([]string{"--library", w.Library, "--scene", w.Scene}, args...)...)
}

// mustRun is run that requires success.
func (w workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := w.run(t, args...)
	require.NoError(t, err, "gesturesnap %v\n%s", args, out)
	return out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse parses a single JSON CLIResponse whose data decodes into
// data (which may be nil).
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.CLIResponse
}

// decodeErrorDetails parses an error CLIResponse whose error details decode
// into details.
func decodeErrorDetails(t *testing.T, out string, details any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string `json:"status"`
		Error  struct {
			Code    string          `json:"code"`
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		} `json:"error"`
		TraceID string `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	require.NoError(t, json.Unmarshal(raw.Error.Details, details))
	return CLIResponse{
		Status:  raw.Status,
		Error:   &CLIError{Code: raw.Error.Code, Message: raw.Error.Message},
		TraceID: raw.TraceID,
	}
}
