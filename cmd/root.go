package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Memrise/mypy-json-report/internal/config"
	"github.com/Memrise/mypy-json-report/internal/exitcode"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "mypy-json-report",
	Short:         "Turn mypy output into structured JSON and track newly introduced errors",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return &exitError{
			code: exitcode.NoCommand,
			msg:  "A subcommand is required. Pass --help for usage info.",
		}
	},
}

func init() {
	// Bad flags get their own exit code so CI can tell a usage mistake from
	// a failed run.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &exitError{
			code: exitcode.FlagParsingError,
			msg:  fmt.Sprintf("%v\nRun '%s --help' for usage.", err, cmd.CommandPath()),
		}
	})
}

// exitError carries a specific process exit code out of a command.
// An empty msg means the command already printed whatever the user
// needs to see.
type exitError struct {
	code exitcode.Code
	msg  string
}

func (e *exitError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.msg
}

// Execute runs the root command and exits the process with the appropriate
// status code.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(rootCmd.ErrOrStderr(), ee.msg)
		}
		os.Exit(int(ee.code))
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	os.Exit(int(exitcode.UncaughtError))
}
