package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/conflict"
	"github.com/arbor-cli/arbor/internal/gitexec"
	"github.com/arbor-cli/arbor/internal/tmux"
	"github.com/arbor-cli/arbor/internal/worktree"
)

var (
	addBase     string
	addExisting bool
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new worktree",
	Long: `Create a new worktree with its own branch.
The branch is named <prefix>/<name> using the configured branch prefix
and starts from HEAD unless --base is given. After creation the new
worktree is checked for potential conflicts against the target branch.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addBase, "base", "", "branch to start the new worktree from (default: HEAD)")
	addCmd.Flags().BoolVar(&addExisting, "existing", false, "check out an existing branch instead of creating one")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager, err := repoManager()
	if err != nil {
		return err
	}

	log := newLogger(cfg, manager.RepoDir())
	defer log.Close()
	manager.WithLogger(log)

	path := filepath.Join(cfg.Worktree.ResolveDir(manager.RepoDir()), name)

	switch {
	case addExisting:
		if err := manager.CreateFromExisting(path, name); err != nil {
			return err
		}
	case addBase != "":
		if err := manager.CreateFromBranch(path, worktree.BranchName(cfg.Worktree.BranchPrefix, name), addBase); err != nil {
			return err
		}
	default:
		if err := manager.Create(path, worktree.BranchName(cfg.Worktree.BranchPrefix, name)); err != nil {
			return err
		}
	}

	branch, err := manager.GetBranch(path)
	if err != nil {
		branch = ""
	}

	fmt.Printf("Created worktree %s\n", name)
	if branch != "" {
		fmt.Printf("Branch: %s\n", branch)
	}
	fmt.Printf("Path: %s\n", path)

	if cfg.Tmux.Enabled && tmux.Available() {
		if err := tmux.NewClient(cfg.Tmux.SocketName).OpenWindow(name, path); err != nil {
			log.Warn("failed to open tmux window", "worktree", name, "error", err.Error())
		} else {
			fmt.Printf("Opened tmux window %s on socket %s\n", tmux.WindowName(name), cfg.Tmux.SocketName)
		}
	}

	if cfg.Conflict.Enabled {
		target := resolveTarget("", cfg, manager)
		detector := conflict.NewDetectorWithRunner(gitexec.NewCLIRunner()).
			WithLogger(log).
			WithStashLabel(cfg.Conflict.StashLabel)
		result := detector.DetectConflicts(path, target)
		if info := result.Potential; info != nil {
			fmt.Printf("\nWarning: %d potential conflict(s) with %s\n", info.Count, target)
			for _, file := range info.Files {
				fmt.Printf("  %s\n", file)
			}
		}
	}

	return nil
}
