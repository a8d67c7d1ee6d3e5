package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage arbor configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Write the default configuration to the user config directory. Refuses to overwrite an existing file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault()
		if err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("worktree:")
		fmt.Printf("  dir: %q\n", cfg.Worktree.Dir)
		fmt.Printf("  branch_prefix: %q\n", cfg.Worktree.BranchPrefix)
		fmt.Println("conflict:")
		fmt.Printf("  enabled: %v\n", cfg.Conflict.Enabled)
		fmt.Printf("  target_branch: %q\n", cfg.Conflict.TargetBranch)
		fmt.Printf("  stash_label: %q\n", cfg.Conflict.StashLabel)
		fmt.Println("watch:")
		fmt.Printf("  enabled: %v\n", cfg.Watch.Enabled)
		fmt.Printf("  debounce_ms: %d\n", cfg.Watch.DebounceMs)
		fmt.Printf("  ignore: %v\n", cfg.Watch.Ignore)
		fmt.Println("tmux:")
		fmt.Printf("  enabled: %v\n", cfg.Tmux.Enabled)
		fmt.Printf("  socket_name: %q\n", cfg.Tmux.SocketName)
		fmt.Println("status:")
		fmt.Printf("  color: %q\n", cfg.Status.Color)
		fmt.Println("logging:")
		fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
		fmt.Printf("  level: %q\n", cfg.Logging.Level)
		fmt.Printf("  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
		fmt.Printf("  max_backups: %d\n", cfg.Logging.MaxBackups)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.ConfigFile())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
