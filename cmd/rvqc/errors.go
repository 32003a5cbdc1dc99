package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// MissingInputError reports a required input file that is absent or
// unreadable.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("cannot read input %s: %v", e.Path, e.Err)
}

func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports missing arguments or invalid settings.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ExitUsage
	}
	return ExitError
}

// requireArgs accepts exactly the named positional arguments.
func requireArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < len(names) {
			return &ConfigurationError{Message: fmt.Sprintf("missing argument <%s>", names[len(args)])}
		}
		if len(args) > len(names) {
			return &ConfigurationError{Message: fmt.Sprintf("expected %d arguments, got %d", len(names), len(args))}
		}
		return nil
	}
}

// checkInputs opens every path once so that a missing file fails the
// command before any output is created.
func checkInputs(paths ...string) error {
	for _, p := range paths {
		if p == "-" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return &MissingInputError{Path: p, Err: err}
		}
		info, err := f.Stat()
		f.Close()
		if err != nil {
			return &MissingInputError{Path: p, Err: err}
		}
		if info.IsDir() {
			return &MissingInputError{Path: p, Err: errors.New("is a directory")}
		}
	}
	return nil
}
