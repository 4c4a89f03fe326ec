// Package schema validates gesture library files against an embedded CUE
// schema and reports registry mismatches that the schema cannot express.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/gesturesnap/internal/bones"
)

//go:embed library.cue
var librarySchema string

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation codes.
const (
	CodeSyntax      = "V001" // file is not JSON
	CodeSchema      = "V002" // value does not match the schema
	CodeBoneSide    = "V101" // bone is not a registry bone for the recorded side
	CodeNotNFC      = "V102" // gesture name is not NFC normalized
	CodeSchemaBuild = "V900" // embedded schema failed to compile
)

// Violation is one problem found in a library file.
type Violation struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	loc := v.Path
	if v.Line > 0 {
		loc = fmt.Sprintf("line %d: %s", v.Line, v.Path)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", v.Code, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", v.Code, loc, v.Message)
}

// HasErrors reports whether any violation is an error rather than a warning.
func HasErrors(vs []Violation) bool {
	for _, v := range vs {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks library file content. filename is used in positions only.
// Structural violations are errors. Registry mismatches are warnings: such
// entries load and apply fine.
func Validate(filename string, data []byte) []Violation {
	ctx := cuecontext.New()
	schema := ctx.CompileString(librarySchema, cue.Filename("library.cue"))
	if err := schema.Err(); err != nil {
		return []Violation{{Code: CodeSchemaBuild, Severity: SeverityError, Message: err.Error()}}
	}
	def := schema.LookupPath(cue.ParsePath("#Library"))

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return []Violation{{Code: CodeSyntax, Severity: SeverityError, Message: err.Error()}}
	}
	value := ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return cueViolations(CodeSyntax, err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return cueViolations(CodeSchema, err)
	}

	return registryWarnings(data)
}

// cueViolations flattens a CUE error list, one violation per error, keeping
// the first position of each.
func cueViolations(code string, err error) []Violation {
	var out []Violation
	for _, e := range errors.Errors(err) {
		v := Violation{
			Code:     code,
			Severity: SeverityError,
			Path:     strings.Join(e.Path(), "."),
			Message:  errorMessage(e),
		}
		if positions := errors.Positions(e); len(positions) > 0 && positions[0].IsValid() {
			v.Line = positions[0].Line()
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		out = append(out, Violation{Code: code, Severity: SeverityError, Message: err.Error()})
	}
	return out
}

func errorMessage(e errors.Error) string {
	format, args := e.Msg()
	return fmt.Sprintf(format, args...)
}

type fileRecord struct {
	Side  bones.Side                 `json:"hand_side"`
	Bones map[string]json.RawMessage `json:"bones_data"`
}

// registryWarnings runs after the schema passed, so decoding cannot fail on
// shape.
func registryWarnings(data []byte) []Violation {
	var lib map[string]fileRecord
	if err := json.Unmarshal(data, &lib); err != nil {
		return []Violation{{Code: CodeSyntax, Severity: SeverityError, Message: err.Error()}}
	}

	names := make([]string, 0, len(lib))
	for name := range lib {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Violation
	for _, name := range names {
		if !norm.NFC.IsNormalString(name) {
			out = append(out, Violation{
				Code:     CodeNotNFC,
				Severity: SeverityWarning,
				Path:     name,
				Message:  "gesture name is not NFC normalized and will be renamed on next save",
			})
		}
		rec := lib[name]
		boneNames := make([]string, 0, len(rec.Bones))
		for b := range rec.Bones {
			boneNames = append(boneNames, b)
		}
		sort.Strings(boneNames)
		for _, b := range boneNames {
			if !bones.Contains(rec.Side, b) {
				out = append(out, Violation{
					Code:     CodeBoneSide,
					Severity: SeverityWarning,
					Path:     name + ".bones_data." + b,
					Message:  fmt.Sprintf("bone is not a %s hand bone", rec.Side),
				})
			}
		}
	}
	return out
}
