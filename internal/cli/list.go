package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/gesture"
	"github.com/roach88/gesturesnap/internal/pose"
)

// listOutput is the payload of the list command.
type listOutput struct {
	Gestures []gesture.Entry `json:"gestures"`
}

func (l listOutput) Text() string {
	if len(l.Gestures) == 0 {
		return "No gestures saved.\n"
	}
	var b strings.Builder
	for _, e := range l.Gestures {
		fmt.Fprintf(&b, "%s (%s, %d bones)\n", e.Name, e.Side, e.BoneCount)
	}
	return b.String()
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored gestures in library order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			svc := openLibrary(rootOpts)
			if err := svc.Library().LoadErr(); err != nil {
				formatter.VerboseLog("Library unreadable, listing empty: %v", err)
			}
			return formatter.Success(listOutput{Gestures: svc.List()})
		},
	}
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Side string
}

// showOutput is one gesture as it would be applied.
type showOutput struct {
	Name         string     `json:"name" yaml:"name"`
	Side         bones.Side `json:"hand_side" yaml:"hand_side"`
	RecordedSide bones.Side `json:"recorded_side" yaml:"recorded_side"`
	Mirrored     bool       `json:"mirrored" yaml:"mirrored"`
	Bones        pose.Bones `json:"bones_data" yaml:"bones_data"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored gesture",
		Long: `Print a stored gesture's bone data. With --side set to the other hand,
the data is shown mirrored, exactly as apply would write it.

Text output is YAML; --format json prints the standard response.

Examples:
  gesturesnap show Peace
  gesturesnap show Peace --side LEFT`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Side, "side", "", "show as applied to this hand (LEFT|RIGHT)")

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions, name string) error {
	formatter := opts.formatter(cmd)
	svc := openLibrary(opts.RootOptions)

	rec, ok := svc.Library().Lookup(name)
	if !ok {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("Gesture not found: %s", name), nil)
	}

	out := showOutput{
		Name:         name,
		Side:         rec.Side,
		RecordedSide: rec.Side,
		Bones:        rec.Bones,
	}
	if opts.Side != "" {
		side, err := bones.ParseSide(opts.Side)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
		}
		if !rec.Side.Valid() {
			return formatter.Fail(ExitFailure, ErrCodeOperation, fmt.Sprintf("Gesture %s has invalid hand side %q", name, rec.Side), nil)
		}
		if side != rec.Side {
			out.Side = side
			out.Bones = pose.Mirror(rec.Bones, rec.Side, side)
			out.Mirrored = true
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	data, err := renderYAML(out)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// renderYAML encodes v as two-space indented YAML. Map keys come out sorted.
func renderYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("render yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("render yaml: %w", err)
	}
	return buf.Bytes(), nil
}
