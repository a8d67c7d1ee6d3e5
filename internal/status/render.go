package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arbor-cli/arbor/internal/conflict"
	"github.com/arbor-cli/arbor/internal/util"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A78BFA"))

	branchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB"))

	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	potenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).PaddingLeft(4)
)

// Render formats the report for a terminal of the given width. Width 0
// disables wrapping of the summary line.
func (r *Report) Render(width int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Worktree status against %s", r.TargetBranch)))
	sb.WriteString("\n\n")

	if len(r.Entries) == 0 {
		sb.WriteString(mutedStyle.Render("no worktrees"))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, entry := range r.Entries {
		sb.WriteString(renderEntry(entry, width))
	}

	return sb.String()
}

func renderEntry(entry Entry, width int) string {
	var sb strings.Builder

	name := entry.Branch
	if name == "" {
		name = "(detached)"
	}

	header := "  " + marker(entry) + " " + branchStyle.Render(name)
	if entry.Main {
		header += mutedStyle.Render("  [main worktree]")
	}
	if entry.Dirty {
		header += mutedStyle.Render("  (uncommitted changes)")
	}
	sb.WriteString(header)
	sb.WriteString("\n")
	path := entry.Path
	if width > 7 {
		path = util.TruncateString(path, width-4)
	}
	sb.WriteString(mutedStyle.Render("    " + path))
	sb.WriteString("\n")

	if info := entry.Conflicts.Active; info != nil {
		sb.WriteString(activeStyle.Render(fmt.Sprintf("    %d active conflict%s", info.Count, plural(info.Count))))
		sb.WriteString("\n")
		sb.WriteString(renderFiles(info))
	}
	if info := entry.Conflicts.Potential; info != nil {
		sb.WriteString(potenStyle.Render(fmt.Sprintf("    %d potential conflict%s", info.Count, plural(info.Count))))
		sb.WriteString("\n")
		sb.WriteString(renderFiles(info))
	}

	sb.WriteString("\n")
	return sb.String()
}

func marker(entry Entry) string {
	switch {
	case entry.Conflicts.Active != nil:
		return activeStyle.Render("✗")
	case entry.Conflicts.Potential != nil:
		return potenStyle.Render("!")
	default:
		return okStyle.Render("✓")
	}
}

func renderFiles(info *conflict.Info) string {
	if len(info.Files) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, file := range info.Files {
		sb.WriteString(fileStyle.Render(file))
		sb.WriteString("\n")
	}
	return sb.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
