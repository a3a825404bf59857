package im

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

type Command struct {
	Name   string
	Args   []string
	Env    []string // nil inherits the current environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner runs child processes to completion. Run returns the exit code
// of a process that ran, or a non-nil error if it could not be started.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
	LookPath(file string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = c.Env
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func (execRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
