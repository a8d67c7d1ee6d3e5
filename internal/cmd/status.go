package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arbor-cli/arbor/internal/conflict"
	"github.com/arbor-cli/arbor/internal/gitexec"
	"github.com/arbor-cli/arbor/internal/status"
)

var (
	statusTarget string
	statusJSON   bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show conflict status for every worktree",
	Long: `Check every worktree for active merge conflicts and probe each one
for potential conflicts against the target branch. The probe never
modifies the worktree: on git 2.38+ it uses a dry-run merge, on older
versions it stashes, attempts the merge, and restores everything.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusTarget, "target", "t", "", "branch to check conflicts against (default: configured target)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	target := resolveTarget(statusTarget, cfg, manager)

	var det status.Detector
	if cfg.Conflict.Enabled {
		det = conflict.NewDetectorWithRunner(gitexec.NewCLIRunner()).
			WithLogger(log).
			WithStashLabel(cfg.Conflict.StashLabel)
	}

	report, err := status.Collect(manager, det, target)
	if err != nil {
		return err
	}

	if statusJSON {
		out, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	fmt.Print(report.Render(width))
	return nil
}
