// ABOUTME: Compact stat block widget for the dashboard
// ABOUTME: Bordered panel with a title in the border, a value and a subtitle

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/quillnet/quill-cli/internal/tui/icons"
	"github.com/quillnet/quill-cli/internal/tui/styles"
)

// StatBlockWidth is the fixed width of a stat block panel.
const StatBlockWidth = 22

// StatBlock renders a bordered panel with the title embedded in the top
// border, a bold value line and a muted subtitle line.
func StatBlock(icon icons.Icon, title, value, subtitle string) string {
	innerWidth := StatBlockWidth - 4

	titleStr := fmt.Sprintf("%s %s", icon.String(), title)
	if len(titleStr) > innerWidth {
		titleStr = titleStr[:innerWidth]
	}
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	topBorder := fmt.Sprintf("┌─ %s %s┐",
		titleStyle.Render(titleStr),
		strings.Repeat("─", max(0, innerWidth-len(titleStr)-1)))

	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Bold(true)
	valueLine := fmt.Sprintf("│  %-*s│", innerWidth, valueStyle.Render(value))

	subtitleStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	subtitleLine := fmt.Sprintf("│  %-*s│", innerWidth, subtitleStyle.Render(truncate(subtitle, innerWidth)))

	bottomBorder := fmt.Sprintf("└%s┘", strings.Repeat("─", StatBlockWidth-2))

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	return strings.Join([]string{
		borderStyle.Render(topBorder),
		borderStyle.Render(valueLine),
		borderStyle.Render(subtitleLine),
		borderStyle.Render(bottomBorder),
	}, "\n")
}

// StatBlockWithSparkline is StatBlock with a small trend chart next to the
// value, scaled to the given series.
func StatBlockWithSparkline(icon icons.Icon, title, value string, series []float64, subtitle string) string {
	innerWidth := StatBlockWidth - 4
	sparkWidth := 8

	titleStr := fmt.Sprintf("%s %s", icon.String(), title)
	if len(titleStr) > innerWidth {
		titleStr = titleStr[:innerWidth]
	}
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	topBorder := fmt.Sprintf("┌─ %s %s┐",
		titleStyle.Render(titleStr),
		strings.Repeat("─", max(0, innerWidth-len(titleStr)-1)))

	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Bold(true)
	spark := Sparkline(series, sparkWidth, styles.Primary)
	padding := max(0, innerWidth-len(value)-2-sparkWidth)
	valueLine := fmt.Sprintf("│  %s  %s%s│",
		valueStyle.Render(value), spark, strings.Repeat(" ", padding))

	subtitleStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	subtitleLine := fmt.Sprintf("│  %-*s│", innerWidth, subtitleStyle.Render(truncate(subtitle, innerWidth)))

	bottomBorder := fmt.Sprintf("└%s┘", strings.Repeat("─", StatBlockWidth-2))

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	return strings.Join([]string{
		borderStyle.Render(topBorder),
		borderStyle.Render(valueLine),
		borderStyle.Render(subtitleLine),
		borderStyle.Render(bottomBorder),
	}, "\n")
}

// truncate shortens a string to maxLen with ellipsis if needed
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
