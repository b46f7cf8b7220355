package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var verbose bool

// logger writes debug lines to stderr. It stays at warn level unless
// --verbose is set.
var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:          os.Stderr,
	PartsExclude: []string{zerolog.TimestampFieldName},
}).Level(zerolog.WarnLevel)

var rootCmd = &cobra.Command{
	Use:   "attrm",
	Short: "attrm - Summarize what a developer did each day",
	Long: `attrm reads the git history of your tracked repositories and asks an
LLM to summarize, in one non-technical sentence, what an author did on a day.

Use 'attrm config' to choose which repositories to track, 'attrm login' to
store an API key and 'attrm tattletale <author>' to get the summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:          cmd.ErrOrStderr(),
			NoColor:      !isTerminal(cmd.ErrOrStderr()),
			PartsExclude: []string{zerolog.TimestampFieldName},
		}).Level(level)
	},
}

// Execute runs the command tree. The returned error is meant for ExitCode.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UserError{Err: err}
	})
}

func IsVerbose() bool {
	return verbose
}

func VerboseLog(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// userArgs turns cobra's argument validation failures into user errors.
func userArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UserError{Err: err}
		}
		return nil
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
