package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/config"
	"github.com/arbor-cli/arbor/internal/conflict"
	"github.com/arbor-cli/arbor/internal/errors"
	"github.com/arbor-cli/arbor/internal/gitexec"
	"github.com/arbor-cli/arbor/internal/logging"
	"github.com/arbor-cli/arbor/internal/status"
	"github.com/arbor-cli/arbor/internal/watch"
	"github.com/arbor-cli/arbor/internal/worktree"
)

var watchTarget string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch worktrees and re-check conflicts on change",
	Long: `Continuously display conflict status for every worktree. File changes
in any worktree trigger a re-check after a short debounce. Press q to quit.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchTarget, "target", "t", "", "branch to check conflicts against (default: configured target)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Watch.Enabled {
		return fmt.Errorf("watching is disabled in the configuration")
	}

	manager, err := repoManager()
	if err != nil {
		return err
	}

	log := newLogger(cfg, manager.RepoDir())
	defer log.Close()
	manager.WithLogger(log)

	target := resolveTarget(watchTarget, cfg, manager)

	m := newWatchModel(manager, target, cfg)
	p := tea.NewProgram(m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := startWorktreeWatchers(ctx, p, manager, cfg, log); err != nil {
		return err
	}

	_, err = p.Run()
	return err
}

// startWorktreeWatchers launches one filesystem watcher per linked
// worktree, each forwarding debounced change notifications to the
// bubbletea program.
func startWorktreeWatchers(ctx context.Context, p *tea.Program, manager *worktree.Manager, cfg *config.Config, log *logging.Logger) error {
	trees, err := manager.List()
	if err != nil {
		return err
	}

	for _, tree := range trees {
		if tree.Main {
			continue
		}

		w, err := watch.New(tree.Path, cfg.Watch.Debounce(), cfg.Watch.Ignore, log.WithWorktree(tree.Path))
		if err != nil {
			return errors.Wrapf(err, "failed to watch %s", tree.Path)
		}
		w.OnDirty(func(paths []string) {
			p.Send(worktreeDirtyMsg{})
		})

		go func() {
			if err := w.Start(ctx); err != nil {
				log.Warn("watcher stopped", "error", err.Error())
			}
		}()
	}
	return nil
}

type (
	worktreeDirtyMsg struct{}
	reportMsg        struct {
		report *status.Report
		err    error
	}
)

var watchHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

type watchModel struct {
	manager *worktree.Manager
	target  string
	cfg     *config.Config

	spinner    spinner.Model
	report     *status.Report
	err        error
	collecting bool
	width      int
}

func newWatchModel(manager *worktree.Manager, target string, cfg *config.Config) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	return watchModel{
		manager: manager,
		target:  target,
		cfg:     cfg,
		spinner: s,
		width:   80,
	}
}

// collectCmd runs a fresh detection batch. A new Detector per batch
// means the git version is re-resolved after upgrades.
func (m watchModel) collectCmd() tea.Cmd {
	manager, target, cfg := m.manager, m.target, m.cfg
	return func() tea.Msg {
		var det status.Detector
		if cfg.Conflict.Enabled {
			det = conflict.NewDetectorWithRunner(gitexec.NewCLIRunner()).
				WithStashLabel(cfg.Conflict.StashLabel)
		}
		report, err := status.Collect(manager, det, target)
		return reportMsg{report: report, err: err}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.collectCmd())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.collecting {
				m.collecting = true
				return m, m.collectCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case worktreeDirtyMsg:
		if !m.collecting {
			m.collecting = true
			return m, m.collectCmd()
		}

	case reportMsg:
		m.collecting = false
		m.report = msg.report
		m.err = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	var body string
	switch {
	case m.err != nil:
		body = fmt.Sprintf("error: %v\n", m.err)
	case m.report == nil:
		body = m.spinner.View() + " checking worktrees...\n"
	default:
		body = m.report.Render(m.width)
		if m.collecting {
			body += m.spinner.View() + " re-checking...\n"
		}
	}

	return body + watchHelpStyle.Render("r: re-check  q: quit") + "\n"
}
