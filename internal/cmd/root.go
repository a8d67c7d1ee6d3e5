// Package cmd wires up the arbor command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arbor-cli/arbor/internal/config"
	"github.com/arbor-cli/arbor/internal/errors"
	"github.com/arbor-cli/arbor/internal/logging"
	"github.com/arbor-cli/arbor/internal/worktree"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Git worktree manager with merge-conflict prediction",
	Long: `Arbor manages git worktrees for parallel development and warns about
merge conflicts before they happen: it scans worktrees for active
conflicts and runs side-effect-free dry-run merges against a target
branch to predict conflicts ahead of time.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/arbor/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ARBOR")
	// ARBOR_CONFLICT_TARGET_BRANCH overrides conflict.target_branch
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig returns the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// newLogger builds a logger from the logging configuration. Logs go to
// {repo}/.arbor/logs when enabled; a disabled config yields a NopLogger.
func newLogger(cfg *config.Config, repoRoot string) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	logDir := ""
	if repoRoot != "" {
		logDir = repoRoot + "/.arbor/logs"
	}

	log, err := logging.NewLoggerWithRotation(logDir, strings.ToUpper(cfg.Logging.Level), logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return log
}

// repoManager locates the enclosing repository and builds a worktree
// manager for it.
func repoManager() (*worktree.Manager, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current directory")
	}

	// The error already carries ErrNotGitRepository and the searched path.
	return worktree.New(cwd)
}

// resolveTarget picks the conflict target branch: flag first, then
// config, then the repository's primary branch.
func resolveTarget(flagValue string, cfg *config.Config, manager *worktree.Manager) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Conflict.TargetBranch != "" {
		return cfg.Conflict.TargetBranch
	}
	return manager.FindMainBranch()
}
