package im

import (
	"errors"
	"fmt"
)

// InstallFailedMsg is printed when acquiring an npm-backed minifier fails.
const InstallFailedMsg = "package manager failed to run, is it installed?"

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrInputTooLarge  = errors.New("input too large")
	ErrInvalidUTF8    = errors.New("input is not valid UTF-8")
)

// InstallError reports that a minifier could not be acquired.
// ExitCode is the package manager's exit code, or 1 if it never ran.
type InstallError struct {
	Package  string
	ExitCode int
	Err      error
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error installing %s (exit code %d): %v", e.Package, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("error installing %s: package manager exited with code %d", e.Package, e.ExitCode)
}

func (e *InstallError) Unwrap() error { return e.Err }

type TransformError struct {
	Backend string
	Err     error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("error minifying with %s: %v", e.Backend, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("error reading input: %v", e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by this package to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ie *InstallError
	if errors.As(err, &ie) {
		if ie.ExitCode == 0 {
			return 1
		}
		return ie.ExitCode
	}
	return 1
}

// Diagnose returns the single line to print on the error stream for err.
func Diagnose(err error) string {
	var ie *InstallError
	if errors.As(err, &ie) {
		return InstallFailedMsg
	}
	return "mincss: " + err.Error()
}
