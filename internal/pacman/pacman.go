// Package pacman wraps the external programs Pacsea shells out to:
// pacman itself, the paru/yay AUR helpers, and the AUR RPC v5 HTTP
// endpoint. Every package/resolver component that needs system state
// goes through here so the shelling-out convention (LC_ALL=C LANG=C,
// context-bounded, stdout/stderr captured) lives in one place.
package pacman

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes pacman/paru/yay and can be swapped in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, err error)
	LookPath(name string) bool
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(cmd.Environ(), "LC_ALL=C", "LANG=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{Name: name, Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

func (ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CommandError wraps a failed external-command invocation with its
// captured stderr, so callers can log a useful message without
// re-running the command.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return e.Name + ": " + e.Err.Error() + ": " + e.Stderr
	}
	return e.Name + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }
