// Package errors provides centralized error definitions and error handling
// utilities for the arbor codebase. It defines domain-specific error types
// with context-carrying builders, sentinel errors for matching with Is, and
// convenience wrappers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - GitError: errors related to git operations (worktrees, branches, merges)
//   - VersionError: failure to resolve the installed git version
//   - TmuxError: errors related to terminal multiplexer integration
//   - NotFoundError: a named resource could not be found
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewGitError("failed to create worktree", cause).
//		WithWorktree("/path/to/wt").WithGitOutput(output)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNotGitRepository) { ... }
//
//	var gitErr *errors.GitError
//	if errors.As(err, &gitErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotGitRepository indicates that the directory is not a git repository.
	ErrNotGitRepository = New("not a git repository")
	// ErrDirtyWorktree indicates that the worktree has uncommitted changes.
	ErrDirtyWorktree = New("worktree has uncommitted changes")
	// ErrVersionParse indicates that the installed git version could not be parsed.
	ErrVersionParse = New("unable to parse git version")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message string
	cause   error
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// GitError represents errors related to git operations.
//
// Example:
//
//	err := errors.NewGitError("failed to create worktree", cause)
//	err = err.WithBranch("feature-x").WithWorktree("/path/to/worktree")
type GitError struct {
	baseError
	Branch     string
	Worktree   string
	Repository string
	GitOutput  string // Captured git command output
}

// NewGitError creates a new GitError.
func NewGitError(message string, cause error) *GitError {
	return &GitError{
		baseError: baseError{
			message: message,
			cause:   cause,
		},
	}
}

// WithBranch adds a branch name to the error context.
func (e *GitError) WithBranch(branch string) *GitError {
	e.Branch = branch
	return e
}

// WithWorktree adds a worktree path to the error context.
func (e *GitError) WithWorktree(path string) *GitError {
	e.Worktree = path
	return e
}

// WithRepository adds a repository path to the error context.
func (e *GitError) WithRepository(path string) *GitError {
	e.Repository = path
	return e
}

// WithGitOutput adds git command output to the error context.
func (e *GitError) WithGitOutput(output string) *GitError {
	e.GitOutput = output
	return e
}

// Error returns the formatted error message.
func (e *GitError) Error() string {
	var parts []string
	if e.Branch != "" {
		parts = append(parts, fmt.Sprintf("branch=%s", e.Branch))
	}
	if e.Worktree != "" {
		parts = append(parts, fmt.Sprintf("worktree=%s", e.Worktree))
	}
	if e.Repository != "" {
		parts = append(parts, fmt.Sprintf("repo=%s", e.Repository))
	}

	prefix := "git error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("git error [%s]", strings.Join(parts, ", "))
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.GitOutput != "" {
		msg = fmt.Sprintf("%s\ngit output: %s", msg, e.GitOutput)
	}

	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *GitError) Is(target error) bool {
	if _, ok := target.(*GitError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// VersionError represents a failure to resolve the installed git version.
// It is the one hard error the conflict engine can surface: without a
// version, no detection strategy is safe to select.
type VersionError struct {
	baseError
	RawOutput string // The unparseable `git version` output
}

// NewVersionError creates a new VersionError.
func NewVersionError(message string, rawOutput string) *VersionError {
	return &VersionError{
		baseError: baseError{
			message: message,
			cause:   ErrVersionParse,
		},
		RawOutput: rawOutput,
	}
}

// WithCause adds an underlying cause to the error.
func (e *VersionError) WithCause(cause error) *VersionError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *VersionError) Error() string {
	msg := fmt.Sprintf("version error: %s", e.message)
	if e.cause != nil && e.cause != ErrVersionParse {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.RawOutput != "" {
		msg = fmt.Sprintf("%s (output: %q)", msg, strings.TrimSpace(e.RawOutput))
	}
	return msg
}

// Is checks if this error matches the target.
func (e *VersionError) Is(target error) bool {
	if _, ok := target.(*VersionError); ok {
		return true
	}
	if errors.Is(target, ErrVersionParse) {
		return true
	}
	return e.baseError.Is(target)
}

// TmuxError represents errors related to terminal multiplexer integration.
type TmuxError struct {
	baseError
	Session string
	Window  string
}

// NewTmuxError creates a new TmuxError.
func NewTmuxError(message string, cause error) *TmuxError {
	return &TmuxError{
		baseError: baseError{
			message: message,
			cause:   cause,
		},
	}
}

// WithSession adds a tmux session name to the error context.
func (e *TmuxError) WithSession(session string) *TmuxError {
	e.Session = session
	return e
}

// WithWindow adds a tmux window name to the error context.
func (e *TmuxError) WithWindow(window string) *TmuxError {
	e.Window = window
	return e
}

// Error returns the formatted error message.
func (e *TmuxError) Error() string {
	var parts []string
	if e.Session != "" {
		parts = append(parts, fmt.Sprintf("session=%s", e.Session))
	}
	if e.Window != "" {
		parts = append(parts, fmt.Sprintf("window=%s", e.Window))
	}

	prefix := "tmux error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("tmux error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *TmuxError) Is(target error) bool {
	if _, ok := target.(*TmuxError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("worktree", "feature-x")
//	fmt.Println(err) // "worktree 'feature-x' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message: fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Convenience Helpers
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to probe worktree")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
