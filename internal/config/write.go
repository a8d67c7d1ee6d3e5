package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// yamlDoc maps a Config to the YAML layout of the config file. Kept
// separate from Config so the file keys stay stable even if the
// mapstructure tags move.
type yamlDoc struct {
	Worktree struct {
		Dir          string `yaml:"dir"`
		BranchPrefix string `yaml:"branch_prefix"`
	} `yaml:"worktree"`
	Conflict struct {
		Enabled      bool   `yaml:"enabled"`
		TargetBranch string `yaml:"target_branch"`
		StashLabel   string `yaml:"stash_label"`
	} `yaml:"conflict"`
	Watch struct {
		Enabled    bool     `yaml:"enabled"`
		DebounceMs int      `yaml:"debounce_ms"`
		Ignore     []string `yaml:"ignore"`
	} `yaml:"watch"`
	Tmux struct {
		Enabled    bool   `yaml:"enabled"`
		SocketName string `yaml:"socket_name"`
	} `yaml:"tmux"`
	Status struct {
		Color string `yaml:"color"`
	} `yaml:"status"`
	Logging struct {
		Enabled    bool   `yaml:"enabled"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logging"`
}

func toYAMLDoc(cfg *Config) yamlDoc {
	var doc yamlDoc
	doc.Worktree.Dir = cfg.Worktree.Dir
	doc.Worktree.BranchPrefix = cfg.Worktree.BranchPrefix
	doc.Conflict.Enabled = cfg.Conflict.Enabled
	doc.Conflict.TargetBranch = cfg.Conflict.TargetBranch
	doc.Conflict.StashLabel = cfg.Conflict.StashLabel
	doc.Watch.Enabled = cfg.Watch.Enabled
	doc.Watch.DebounceMs = cfg.Watch.DebounceMs
	doc.Watch.Ignore = cfg.Watch.Ignore
	doc.Tmux.Enabled = cfg.Tmux.Enabled
	doc.Tmux.SocketName = cfg.Tmux.SocketName
	doc.Status.Color = cfg.Status.Color
	doc.Logging.Enabled = cfg.Logging.Enabled
	doc.Logging.Level = cfg.Logging.Level
	doc.Logging.MaxSizeMB = cfg.Logging.MaxSizeMB
	doc.Logging.MaxBackups = cfg.Logging.MaxBackups
	return doc
}

const fileHeader = "# arbor configuration\n# See `arbor config --help` for documentation of each setting.\n\n"

// Write serializes cfg as YAML to the given path, creating parent
// directories as needed. Existing files are overwritten.
func Write(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(toYAMLDoc(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration to the user's config
// file path. It refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	path := ConfigFile()
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists: %s", path)
	}
	if err := Write(Default(), path); err != nil {
		return "", err
	}
	return path, nil
}
