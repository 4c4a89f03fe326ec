package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/gesture"
)

// GestureOptions holds flags for record and apply.
type GestureOptions struct {
	*RootOptions
	Side       string
	NoKeyframe bool
}

// opOutput is a gesture operation result; its text form is the message.
type opOutput struct {
	gesture.Result
}

func (o opOutput) Text() string {
	return o.Message + "\n"
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GestureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <name>",
		Short: "Record the active armature's hand pose as a gesture",
		Long: `Capture location, rotation and scale of every finger bone of one hand
on the active armature and store them under <name>, replacing any gesture
with the same name.

Examples:
  gesturesnap record Peace --side RIGHT
  gesturesnap record グー --side LEFT --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE:       requireFlags("side"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, opts, func(side bones.Side) gesture.Operation {
				return gesture.RecordOp{Gesture: args[0], Side: side}
			})
		},
	}

	cmd.Flags().StringVar(&opts.Side, "side", "", "hand side (LEFT|RIGHT, required)")

	return cmd
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GestureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <name>",
		Short: "Apply a stored gesture to one hand",
		Long: `Write a stored gesture onto the active armature's hand. A gesture
recorded on the other hand is mirrored. Written bones are keyframed at the
current frame unless --no-keyframe is given.

Examples:
  gesturesnap apply Peace --side LEFT
  gesturesnap apply Peace --side RIGHT --no-keyframe`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE:       requireFlags("side"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, opts, func(side bones.Side) gesture.Operation {
				return gesture.ApplyOp{Gesture: args[0], Side: side, InsertKeyframe: !opts.NoKeyframe}
			})
		},
	}

	cmd.Flags().StringVar(&opts.Side, "side", "", "hand side (LEFT|RIGHT, required)")
	cmd.Flags().BoolVar(&opts.NoKeyframe, "no-keyframe", false, "do not insert keyframes")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored gesture",
		Long: `Remove a gesture from the library. Deleting a gesture that does not
exist succeeds without touching the file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			svc := openLibrary(rootOpts)
			res := svc.Do(gesture.DeleteOp{Gesture: args[0]})
			return report(formatter, res)
		},
	}
	return cmd
}

// runOperation runs a record or apply against the scene database and saves
// the scene when the operation succeeds.
func runOperation(cmd *cobra.Command, opts *GestureOptions, build func(bones.Side) gesture.Operation) error {
	formatter := opts.formatter(cmd)

	side, err := bones.ParseSide(opts.Side)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, err.Error(), nil)
	}

	ctx := commandContext(cmd)

	sess, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScene, err.Error(), nil)
	}
	defer sess.Close()

	res := sess.svc.Do(build(side))
	if res.OK {
		if err := sess.save(ctx); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeScene, fmt.Sprintf("save scene: %v", err), nil)
		}
	}
	if len(res.Bones) > 0 {
		formatter.VerboseLog("Bones: %s", strings.Join(res.Bones, ", "))
	}
	return report(formatter, res)
}

// report prints an operation result. A failed operation exits with
// ExitFailure, or ExitCommandError when the library could not be saved.
func report(formatter *OutputFormatter, res gesture.Result) error {
	if res.OK {
		return formatter.Success(opOutput{res})
	}
	exitCode := ExitFailure
	code := ErrCodeOperation
	if errors.Is(res.Err, gesture.ErrStore) {
		exitCode = ExitCommandError
		code = ErrCodeLibrary
	}
	return formatter.Fail(exitCode, code, res.Message, opOutput{res})
}
