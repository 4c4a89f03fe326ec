package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gesturesnap/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	File       string             `json:"file"`
	Valid      bool               `json:"valid"`
	Violations []schema.Violation `json:"violations,omitempty"`
}

func (r ValidationResult) Text() string {
	var b strings.Builder
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "%s: %s\n", v.Severity, v.Error())
	}
	if r.Valid {
		fmt.Fprintf(&b, "✓ %s is valid\n", r.File)
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a gesture library file",
		Long: `Check a gesture library file against the library schema: JSON syntax,
hand sides, and 3/4/3-number location, rotation and scale arrays.

Bones that do not belong to a gesture's recorded hand and gesture names
that are not NFC normalized are reported as warnings.

Defaults to the --library file when no file is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Library
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("library file not found: %s", path), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLibrary, fmt.Sprintf("read %s: %v", path, err), nil)
	}

	violations := schema.Validate(path, data)
	formatter.VerboseLog("Checked %s: %d violation(s)", path, len(violations))

	result := ValidationResult{
		File:       path,
		Valid:      !schema.HasErrors(violations),
		Violations: violations,
	}
	if result.Valid {
		return formatter.Success(result)
	}

	if formatter.Format == "json" {
		return formatter.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("%s failed validation", path), result)
	}
	fmt.Fprint(formatter.Writer, result.Text())
	return formatter.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("%s failed validation", path), nil)
}
