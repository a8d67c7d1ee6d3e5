// Package util holds small string helpers shared by the CLI renderers.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TruncateString shortens s to at most maxLen runes, appending "..." when
// anything was cut. It counts runes, not columns, so it is only suitable for
// plain text; styled terminal output should go through TruncateANSI.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateANSI shortens s to at most maxWidth visual columns, appending "..."
// when anything was cut. ANSI escape sequences and wide characters are
// accounted for, so styled strings keep their styling after truncation.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}
