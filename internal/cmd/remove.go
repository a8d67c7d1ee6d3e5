package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/errors"
	"github.com/arbor-cli/arbor/internal/tmux"
)

var (
	removeKeepBranch bool
	removeForce      bool
)

var removeCmd = &cobra.Command{
	Use:     "remove [name]",
	Aliases: []string{"rm"},
	Short:   "Remove a worktree",
	Long: `Remove a worktree and, unless --keep-branch is given, delete its branch.
Removal is refused while the worktree has uncommitted changes; pass
--force to discard them.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeKeepBranch, "keep-branch", false, "keep the worktree's branch after removal")
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "remove even with uncommitted changes")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	// Accept a worktree path too, matching it against the list.
	trees, err := manager.List()
	if err != nil {
		return err
	}
	var branch string
	found := false
	for _, tree := range trees {
		if tree.Main {
			continue
		}
		if tree.Path == path || tree.Path == name || filepath.Base(tree.Path) == name {
			path = tree.Path
			branch = tree.Branch
			found = true
			break
		}
	}
	if !found {
		return errors.NewNotFoundError("worktree", name)
	}

	if !removeForce {
		dirty, err := manager.HasUncommittedChanges(path)
		if err == nil && dirty {
			return errors.NewGitError("refusing to remove worktree with uncommitted changes (use --force to discard)",
				errors.ErrDirtyWorktree).WithWorktree(path)
		}
	}

	if cfg.Tmux.Enabled && tmux.Available() {
		if err := tmux.NewClient(cfg.Tmux.SocketName).CloseWindow(filepath.Base(path)); err != nil {
			log.Warn("failed to close tmux window", "worktree", name, "error", err.Error())
		}
	}

	if err := manager.Remove(path); err != nil {
		return err
	}
	fmt.Printf("Removed worktree %s\n", name)

	if !removeKeepBranch && branch != "" && !strings.EqualFold(branch, manager.FindMainBranch()) {
		if err := manager.DeleteBranch(branch); err != nil {
			log.Warn("failed to delete branch", "branch", branch, "error", err.Error())
			fmt.Printf("Branch %s was kept: %v\n", branch, err)
		} else {
			fmt.Printf("Deleted branch %s\n", branch)
		}
	}

	return nil
}
