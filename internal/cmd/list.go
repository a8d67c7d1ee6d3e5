package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List worktrees",
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := repoManager()
	if err != nil {
		return err
	}

	trees, err := manager.List()
	if err != nil {
		return err
	}

	for _, tree := range trees {
		branch := tree.Branch
		if branch == "" {
			branch = "(detached)"
		}
		if tree.Main {
			fmt.Printf("%-30s %s  [main]\n", branch, tree.Path)
		} else {
			fmt.Printf("%-30s %s\n", branch, tree.Path)
		}
	}
	return nil
}
