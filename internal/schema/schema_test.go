package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLibrary = `{
  "Peace": {
    "hand_side": "RIGHT",
    "bones_data": {
      "人指１.R": {
        "location": [0, 0.5, 0],
        "rotation_quaternion": [0.9, 0.1, 0.2, 0.3],
        "scale": [1, 1, 1]
      }
    }
  },
  "Rock": {"hand_side": "LEFT", "bones_data": {}}
}`

func TestValidate_Valid(t *testing.T) {
	vs := Validate("hand_gestures.json", []byte(validLibrary))
	assert.Empty(t, vs)
	assert.False(t, HasErrors(vs))
}

func TestValidate_EmptyObject(t *testing.T) {
	assert.Empty(t, Validate("hand_gestures.json", []byte(`{}`)))
}

func TestValidate_Syntax(t *testing.T) {
	vs := Validate("hand_gestures.json", []byte(`{"Peace": `))
	require.Len(t, vs, 1)
	assert.Equal(t, CodeSyntax, vs[0].Code)
	assert.True(t, HasErrors(vs))
}

func TestValidate_SchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantPath string
	}{
		{
			name:     "bad_side",
			content:  `{"G": {"hand_side": "UP", "bones_data": {}}}`,
			wantPath: "G.hand_side",
		},
		{
			name:     "short_location",
			content:  `{"G": {"hand_side": "LEFT", "bones_data": {"親指０.L": {"location": [1, 2], "rotation_quaternion": [1, 0, 0, 0], "scale": [1, 1, 1]}}}}`,
			wantPath: "G.bones_data",
		},
		{
			name:     "missing_hand_side",
			content:  `{"G": {"bones_data": {}}}`,
			wantPath: "G.hand_side",
		},
		{
			name:     "unknown_field",
			content:  `{"G": {"hand_side": "LEFT", "bones_data": {}, "extra": 1}}`,
			wantPath: "G.extra",
		},
		{
			name:     "string_number",
			content:  `{"G": {"hand_side": "LEFT", "bones_data": {"親指０.L": {"location": ["1", 2, 3], "rotation_quaternion": [1, 0, 0, 0], "scale": [1, 1, 1]}}}}`,
			wantPath: "G.bones_data",
		},
		{
			name:     "top_level_array",
			content:  `[1, 2]`,
			wantPath: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := Validate("hand_gestures.json", []byte(tt.content))

			require.NotEmpty(t, vs)
			assert.True(t, HasErrors(vs))
			found := false
			for _, v := range vs {
				assert.Equal(t, CodeSchema, v.Code)
				assert.NotEmpty(t, v.Message)
				if len(tt.wantPath) == 0 || len(v.Path) >= len(tt.wantPath) && v.Path[:len(tt.wantPath)] == tt.wantPath {
					found = true
				}
			}
			assert.True(t, found, "expected a violation under %q, got %v", tt.wantPath, vs)
		})
	}
}

func TestValidate_RegistryWarnings(t *testing.T) {
	content := `{
  "G": {
    "hand_side": "LEFT",
    "bones_data": {
      "親指０.R": {"location": [0, 0, 0], "rotation_quaternion": [1, 0, 0, 0], "scale": [1, 1, 1]},
      "親指０.L": {"location": [0, 0, 0], "rotation_quaternion": [1, 0, 0, 0], "scale": [1, 1, 1]}
    }
  }
}`
	vs := Validate("hand_gestures.json", []byte(content))

	require.Len(t, vs, 1)
	assert.Equal(t, CodeBoneSide, vs[0].Code)
	assert.Equal(t, SeverityWarning, vs[0].Severity)
	assert.Equal(t, "G.bones_data.親指０.R", vs[0].Path)
	assert.False(t, HasErrors(vs))
}

func TestValidate_NotNFCWarning(t *testing.T) {
	content := "{\"グ\": {\"hand_side\": \"LEFT\", \"bones_data\": {}}}"
	vs := Validate("hand_gestures.json", []byte(content))

	require.Len(t, vs, 1)
	assert.Equal(t, CodeNotNFC, vs[0].Code)
}

func TestViolationError(t *testing.T) {
	v := Violation{Code: CodeSchema, Path: "G.hand_side", Message: "bad", Line: 3}
	assert.Equal(t, "[V002] line 3: G.hand_side: bad", v.Error())
	assert.Equal(t, "[V001] oops", Violation{Code: CodeSyntax, Message: "oops"}.Error())
}
