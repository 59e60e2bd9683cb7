package commands

import "github.com/spf13/cobra"

// UsageError is a command line that could not be parsed into a run.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// UsageArgs wraps a positional argument validator so its failures are
// reported as usage errors.
func UsageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Usage: cmd.UseLine(), Err: err}
		}
		return nil
	}
}

// UsageFlags is a cobra flag error func that reports usage errors.
func UsageFlags(cmd *cobra.Command, err error) error {
	return &UsageError{Usage: cmd.UseLine(), Err: err}
}
