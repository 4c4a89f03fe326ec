package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gesturesnap/internal/library"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvLibrary = "GESTURESNAP_LIBRARY"
	EnvScene   = "GESTURESNAP_SCENE"
)

// DefaultScenePath is the scene database used when neither --scene nor
// GESTURESNAP_SCENE is set.
const DefaultScenePath = "scene.db"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Library string // gesture library file
	Scene   string // scene database file

	// Logger is configured in PersistentPreRunE.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gesturesnap CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gesturesnap",
		Short: "gesturesnap - MMD hand gesture library",
		Long: `Capture finger poses of an MMD armature as named gestures, store them
in a JSON library, and apply them to either hand with automatic mirroring.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			applyEnv(cmd, "library", EnvLibrary, &opts.Library)
			applyEnv(cmd, "scene", EnvScene, &opts.Scene)
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Library, "library", library.DefaultFileName, "gesture library file (env "+EnvLibrary+")")
	cmd.PersistentFlags().StringVar(&opts.Scene, "scene", DefaultScenePath, "scene database file (env "+EnvScene+")")

	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSceneCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})
	usageArgs(cmd)

	return cmd
}

// usageArgs makes argument count errors of cmd and its subcommands exit
// with ExitCommandError.
func usageArgs(cmd *cobra.Command) {
	if check := cmd.Args; check != nil {
		cmd.Args = func(c *cobra.Command, args []string) error {
			if err := check(c, args); err != nil {
				return WrapExitError(ExitCommandError, "invalid arguments", err)
			}
			return nil
		}
	}
	for _, sub := range cmd.Commands() {
		usageArgs(sub)
	}
}

// requireFlags fails with ExitCommandError unless every named flag was set.
// Flags are checked here so the error carries an exit code.
func requireFlags(names ...string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		var missing []string
		for _, name := range names {
			if f := cmd.Flags().Lookup(name); f == nil || !f.Changed {
				missing = append(missing, strconv.Quote(name))
			}
		}
		if len(missing) > 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("required flag(s) %s not set", strings.Join(missing, ", ")))
		}
		return nil
	}
}

// applyEnv fills *dst from the environment unless the flag was given.
func applyEnv(cmd *cobra.Command, flag, env string, dst *string) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

// newLogger returns a text logger on w: INFO by default, DEBUG when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logger returns the configured logger, or a discarding one when a command
// runs without the root command.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
