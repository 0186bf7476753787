// Package exitcode defines the process exit codes reported to callers.
// CI pipelines key off these values, so they are part of the public contract.
package exitcode

// Code is a process exit status.
type Code int

const (
	// Success means the run completed and, if a diff was requested, no
	// changes relative to the baseline were found.
	Success Code = 0

	// UncaughtError is returned when the run aborts on an unexpected error.
	UncaughtError Code = 1

	// FlagParsingError means the command line had bad flags or flag values.
	FlagParsingError Code = 2

	// ErrorDiff means a baseline comparison found new or fixed errors.
	ErrorDiff Code = 3

	// NoCommand means the program was invoked without a subcommand.
	NoCommand Code = 4
)
