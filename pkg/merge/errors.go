package merge

import (
	"errors"

	"github.com/sdejongh/phodime/pkg/models"
)

// ErrUserAborted is returned when the operator declines to continue.
// Run reports it as a successful no-op.
var ErrUserAborted = errors.New("aborted by user")

// ErrInconsistentCopy marks a copy that reported success while its
// destination does not hold the source content
var ErrInconsistentCopy = errors.New("copy reported success but destination is inconsistent")

// FatalError aborts a merge run
type FatalError struct {
	// Code is the process exit code the run ends with
	Code int

	// Reason describes the condition in operator terms
	Reason string

	// Path1 and Path2 are the filesystem paths involved, if any
	Path1 string
	Path2 string

	// Err is the underlying platform error, if any
	Err error
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Paths returns the paths involved in the failure
func (e *FatalError) Paths() (string, string) {
	return e.Path1, e.Path2
}

func fatal(code int, reason, path1, path2 string, err error) *FatalError {
	return &FatalError{Code: code, Reason: reason, Path1: path1, Path2: path2, Err: err}
}

// ExitCode maps the error returned by Run to a process exit code
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrUserAborted) {
		return models.ExitOK
	}
	var fe *FatalError
	if errors.As(err, &fe) && fe.Code != models.ExitOK {
		return fe.Code
	}
	return models.ExitError
}
