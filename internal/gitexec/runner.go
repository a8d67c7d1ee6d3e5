// Package gitexec provides command execution for git operations.
//
// All git interaction in arbor flows through the Runner interface so that
// higher layers (worktree management, conflict detection) never spawn
// processes directly. Tests substitute a mock Runner and replay canned
// output; production code uses CLIRunner.
package gitexec

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts git command execution for testability.
type Runner interface {
	// Run executes git with the given arguments in dir and returns stdout.
	// On non-zero exit the returned error is a *CommandError carrying the
	// exit code and captured stdout/stderr.
	Run(dir string, args ...string) (string, error)

	// Quiet executes git and discards output, returning only the error.
	Quiet(dir string, args ...string) error
}

// CommandError is returned when a git command exits non-zero. It preserves
// the exit code and captured output so callers can branch on the failure
// mode instead of string-matching error text.
type CommandError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Error returns the formatted error message.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Stderr); out != "" {
		msg += ": " + truncateOutput(out, 200)
	}
	return msg
}

// CLIRunner executes git using os/exec.
type CLIRunner struct{}

// NewCLIRunner creates a new CLI runner.
func NewCLIRunner() *CLIRunner {
	return &CLIRunner{}
}

// Run executes git and returns stdout. Non-zero exits produce a
// *CommandError; failures to start the process (git not installed,
// bad directory) are returned as-is.
func (r *CLIRunner) Run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &CommandError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}
		}
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// Quiet executes git and discards stdout.
func (r *CLIRunner) Quiet(dir string, args ...string) error {
	_, err := r.Run(dir, args...)
	return err
}

// Output runs git via r and returns stdout with surrounding whitespace
// trimmed. Single-value queries like rev-parse end with a trailing
// newline that callers never want.
func Output(r Runner, dir string, args ...string) (string, error) {
	out, err := r.Run(dir, args...)
	return strings.TrimSpace(out), err
}

// truncateOutput shortens command output for error messages.
func truncateOutput(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Ensure CLIRunner satisfies Runner at compile time.
var _ Runner = (*CLIRunner)(nil)
