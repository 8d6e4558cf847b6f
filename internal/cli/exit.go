package cli

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
	"github.com/tartampluch/go-bday/internal/interop"
	"github.com/tartampluch/go-bday/internal/render"
	"github.com/tartampluch/go-bday/internal/store"
)

// ErrUsage marks invalid invocations: unknown commands, bad flags or flag values.
var ErrUsage = errors.New(config.ErrMsgUsage)

// ExitError carries the process exit code of a failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit code. main checks for this on returned errors.
func (e *ExitError) ExitCode() int { return e.Code }

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: config.ExitCodeUsage, Err: fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)}
}

func usageError(err error) error {
	return &ExitError{Code: config.ExitCodeUsage, Err: err}
}

func dataError(err error) error {
	return &ExitError{Code: config.ExitCodeData, Err: err}
}

// ExitCode maps err onto the process exit code:
// 0 success, 1 runtime error, 2 usage error, 3 data-file error.
func ExitCode(err error) int {
	if err == nil {
		return config.ExitCodeSuccess
	}

	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}

	switch {
	case errors.Is(err, ErrUsage),
		errors.Is(err, engine.ErrEmptyName),
		errors.Is(err, engine.ErrInvalidDate),
		errors.Is(err, engine.ErrInvalidTimezone),
		errors.Is(err, engine.ErrInvalidArgument),
		errors.Is(err, engine.ErrInvalidRange),
		errors.Is(err, interop.ErrInvalidReminder),
		errors.Is(err, render.ErrUnknownFormat),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrAmbiguous):
		return config.ExitCodeUsage
	case errors.Is(err, store.ErrInvalid):
		return config.ExitCodeData
	default:
		return config.ExitCodeError
	}
}
