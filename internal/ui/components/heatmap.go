package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

var heatShades = []string{"·", "░", "▒", "▓", "█"}

var weekdayLabels = []string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}

// Heatmap renders days as a week-per-column grid, Monday on top, the way
// contribution calendars look.
func Heatmap(days []progression.HeatmapDay) string {
	if len(days) == 0 {
		return ""
	}
	first, err := time.Parse(time.DateOnly, days[0].Day)
	if err != nil {
		return ""
	}
	// Monday = 0
	offset := (int(first.Weekday()) + 6) % 7
	weeks := (offset + len(days) + 6) / 7

	grid := make([][]string, 7)
	for r := range grid {
		grid[r] = make([]string, weeks)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	empty := lipgloss.NewStyle().Foreground(theme.Border)
	active := lipgloss.NewStyle().Foreground(theme.Success)
	for i, d := range days {
		pos := offset + i
		level := min(max(d.Intensity, 0), len(heatShades)-1)
		style := active
		if level == 0 {
			style = empty
		}
		grid[pos%7][pos/7] = style.Render(heatShades[level])
	}

	var b strings.Builder
	for r, row := range grid {
		b.WriteString(theme.Dim.Render(weekdayLabels[r]) + " ")
		b.WriteString(strings.Join(row, " "))
		if r < len(grid)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + theme.Dim.Render("    less ") + strings.Join(heatShades, " ") + theme.Dim.Render(" more"))
	return b.String()
}
