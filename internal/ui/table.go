package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskpulse/taskpulse/internal/engine"
)

// Table renders data in a compact markdown-style table format.
// This is optimized for terminal display with fixed-width columns.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // Max width per column (0 = auto)
}

// ColumnWidths calculates optimal column widths based on content.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))

	for i, h := range t.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	if t.MaxWidth > 0 {
		for i := range widths {
			if widths[i] > t.MaxWidth {
				widths[i] = t.MaxWidth
			}
		}
	}

	return widths
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	cellStyle := lipgloss.NewStyle().Foreground(ColorText)

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Render(pad(h, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")

	for i := range t.Headers {
		sb.WriteString(StyleSubtle.Render(strings.Repeat("-", widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			sb.WriteString(cellStyle.Render(pad(truncate(cell, widths[i]), widths[i])))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// MovementArrow formats a rank movement as an arrow with magnitude. Zero
// movement renders as a dim dot.
func MovementArrow(movement int) string {
	switch {
	case movement > 0:
		return StyleSuccess.Render(fmt.Sprintf("↑%d", movement))
	case movement < 0:
		return StyleError.Render(fmt.Sprintf("↓%d", -movement))
	default:
		return StyleSubtle.Render("·")
	}
}

// FormatDue renders the distance to a due time relative to now.
func FormatDue(dueAt *time.Time, now time.Time) string {
	if dueAt == nil {
		return "-"
	}
	remaining := dueAt.Sub(now)
	if remaining < 0 {
		return StyleError.Render(fmt.Sprintf("overdue %s", formatDuration(-remaining)))
	}
	if remaining < 30*time.Minute {
		return StyleWarning.Render(fmt.Sprintf("in %s", formatDuration(remaining)))
	}
	return fmt.Sprintf("in %s", formatDuration(remaining))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// RenderRanked renders the ranked task list as a table.
func RenderRanked(ranked []engine.RankedTask, now time.Time) string {
	table := &Table{
		Headers:  []string{"#", "", "Title", "Priority", "Freq", "Due", "Score"},
		MaxWidth: 40,
	}
	for _, rt := range ranked {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", rt.Rank),
			MovementArrow(rt.Movement),
			rt.Task.Title,
			string(rt.Task.BasePriority),
			string(rt.Task.Frequency),
			FormatDue(rt.Task.DueAt, now),
			fmt.Sprintf("%.1f", rt.Score),
		})
	}
	return table.Render()
}

// RenderDangerZone renders the danger-zone subset in an attention-grabbing
// box, or an all-clear line when empty.
func RenderDangerZone(danger []engine.RankedTask, now time.Time) string {
	if len(danger) == 0 {
		return StyleSuccess.Render("Danger zone clear.") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(StyleError.Render(fmt.Sprintf("⚠ %d task(s) need attention now", len(danger))))
	sb.WriteString("\n")
	for _, rt := range danger {
		sb.WriteString(fmt.Sprintf("  %s %s (%s)\n",
			StyleWarning.Render("•"),
			StyleTitle.Render(rt.Task.Title),
			FormatDue(rt.Task.DueAt, now),
		))
	}
	return StyleDangerBox.Render(sb.String()) + "\n"
}
