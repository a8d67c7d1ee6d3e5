package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "watch.debounce_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// branchPrefixRegex validates branch prefix characters.
// Prefixes start with an alphanumeric and may contain alphanumerics,
// hyphens, and underscores.
var branchPrefixRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// socketNameRegex validates tmux socket names. tmux rejects path
// separators in socket names passed via -L.
var socketNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidColorModes returns the list of valid status color modes
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateWorktree()...)
	errors = append(errors, c.validateConflict()...)
	errors = append(errors, c.validateWatch()...)
	errors = append(errors, c.validateTmux()...)
	errors = append(errors, c.validateStatus()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateWorktree() []ValidationError {
	var errors []ValidationError

	if c.Worktree.BranchPrefix != "" && !branchPrefixRegex.MatchString(c.Worktree.BranchPrefix) {
		errors = append(errors, ValidationError{
			Field:   "worktree.branch_prefix",
			Value:   c.Worktree.BranchPrefix,
			Message: "must start with a letter and contain only letters, digits, hyphens, and underscores",
		})
	}

	return errors
}

func (c *Config) validateConflict() []ValidationError {
	var errors []ValidationError

	if strings.ContainsAny(c.Conflict.TargetBranch, " \t") {
		errors = append(errors, ValidationError{
			Field:   "conflict.target_branch",
			Value:   c.Conflict.TargetBranch,
			Message: "must not contain whitespace",
		})
	}

	if strings.ContainsAny(c.Conflict.StashLabel, "\n") {
		errors = append(errors, ValidationError{
			Field:   "conflict.stash_label",
			Value:   c.Conflict.StashLabel,
			Message: "must be a single line",
		})
	}

	return errors
}

func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	if c.Watch.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateTmux() []ValidationError {
	var errors []ValidationError

	if c.Tmux.SocketName != "" && !socketNameRegex.MatchString(c.Tmux.SocketName) {
		errors = append(errors, ValidationError{
			Field:   "tmux.socket_name",
			Value:   c.Tmux.SocketName,
			Message: "must contain only letters, digits, hyphens, and underscores",
		})
	}

	return errors
}

func (c *Config) validateStatus() []ValidationError {
	var errors []ValidationError

	if c.Status.Color != "" && !slices.Contains(ValidColorModes(), c.Status.Color) {
		errors = append(errors, ValidationError{
			Field:   "status.color",
			Value:   c.Status.Color,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
