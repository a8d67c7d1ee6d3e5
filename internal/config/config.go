package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete arbor configuration
type Config struct {
	Worktree WorktreeConfig `mapstructure:"worktree"`
	Conflict ConflictConfig `mapstructure:"conflict"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Tmux     TmuxConfig     `mapstructure:"tmux"`
	Status   StatusConfig   `mapstructure:"status"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// WorktreeConfig controls where and how git worktrees are created
type WorktreeConfig struct {
	// Dir is the directory where worktrees are created.
	// If empty, defaults to ".arbor/worktrees" relative to the repository root.
	// Can be an absolute path to store worktrees outside the repository.
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir"`

	// BranchPrefix is prepended to branch names created for new worktrees
	// (default: "arbor"). Resulting branches look like <prefix>/<name>.
	BranchPrefix string `mapstructure:"branch_prefix"`
}

// ConflictConfig controls conflict detection behavior
type ConflictConfig struct {
	// Enabled controls whether conflict detection runs at all (default: true)
	Enabled bool `mapstructure:"enabled"`

	// TargetBranch is the branch worktrees are checked against for
	// potential merge conflicts (default: "main")
	TargetBranch string `mapstructure:"target_branch"`

	// StashLabel is the message used when the legacy probe stashes
	// uncommitted changes. Useful for identifying leftover stash entries
	// if a restore ever fails.
	StashLabel string `mapstructure:"stash_label"`
}

// WatchConfig controls filesystem watching for continuous re-detection
type WatchConfig struct {
	// Enabled controls whether `arbor watch` is allowed to run (default: true)
	Enabled bool `mapstructure:"enabled"`

	// DebounceMs is how long to wait after the last filesystem event
	// before re-running detection (default: 500)
	DebounceMs int `mapstructure:"debounce_ms"`

	// Ignore lists glob patterns for paths that should not trigger
	// re-detection. The .git directory is always ignored.
	Ignore []string `mapstructure:"ignore"`
}

// TmuxConfig controls the optional tmux window integration
type TmuxConfig struct {
	// Enabled controls whether worktree creation opens a tmux window (default: false)
	Enabled bool `mapstructure:"enabled"`

	// SocketName is the tmux socket arbor uses, keeping its windows
	// separate from the user's own tmux server (default: "arbor")
	SocketName string `mapstructure:"socket_name"`
}

// StatusConfig controls status rendering
type StatusConfig struct {
	// Color controls ANSI color output: "auto", "always", or "never" (default: "auto")
	Color string `mapstructure:"color"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether file logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// ResolveDir returns the resolved worktree directory path.
// If Dir is empty, it returns the default path relative to baseDir.
// If Dir starts with ~, it expands to the user's home directory.
// A relative Dir is resolved relative to baseDir.
func (w *WorktreeConfig) ResolveDir(baseDir string) string {
	if w.Dir == "" {
		return filepath.Join(baseDir, ".arbor", "worktrees")
	}

	path := w.Dir

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// Debounce returns the watch debounce interval as a time.Duration
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Worktree: WorktreeConfig{
			Dir:          "", // Empty means use default: .arbor/worktrees
			BranchPrefix: "arbor",
		},
		Conflict: ConflictConfig{
			Enabled:      true,
			TargetBranch: "main",
			StashLabel:   "arbor-conflict-probe",
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 500,
			Ignore:     []string{"node_modules/**", "vendor/**", "*.log"},
		},
		Tmux: TmuxConfig{
			Enabled:    false,
			SocketName: "arbor",
		},
		Status: StatusConfig{
			Color: "auto",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Worktree defaults
	viper.SetDefault("worktree.dir", defaults.Worktree.Dir)
	viper.SetDefault("worktree.branch_prefix", defaults.Worktree.BranchPrefix)

	// Conflict defaults
	viper.SetDefault("conflict.enabled", defaults.Conflict.Enabled)
	viper.SetDefault("conflict.target_branch", defaults.Conflict.TargetBranch)
	viper.SetDefault("conflict.stash_label", defaults.Conflict.StashLabel)

	// Watch defaults
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("watch.ignore", defaults.Watch.Ignore)

	// Tmux defaults
	viper.SetDefault("tmux.enabled", defaults.Tmux.Enabled)
	viper.SetDefault("tmux.socket_name", defaults.Tmux.SocketName)

	// Status defaults
	viper.SetDefault("status.color", defaults.Status.Color)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "arbor")
	}
	// Fall back to ~/.config/arbor
	home, err := os.UserHomeDir()
	if err != nil {
		return ".arbor"
	}
	return filepath.Join(home, ".config", "arbor")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
