package cli

import (
	"errors"
	"fmt"
)

const (
	exitUserError = 1
	exitFailure   = 2
)

// UserError is a fatal problem with what the user asked for, such as a bad
// flag value or a missing configuration. It is reported without a stack of
// wrapped causes and exits with status 1.
type UserError struct {
	Msg string
	Err error
}

func (e *UserError) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "invalid usage"
	}
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func userErrorf(format string, args ...any) *UserError {
	return &UserError{Msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return exitUserError
	}
	return exitFailure
}
