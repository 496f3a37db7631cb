package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/ui/theme"
)

// ProgressBar draws "label  ████░░░░  42%" in Width cells. Percent is a
// fraction in [0, 1]; values outside are clamped.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	Fill        color.Color
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width, Fill: theme.Secondary}
}

func (p ProgressBar) View() string {
	pct := max(0, min(p.Percent, 1))

	var prefix, suffix string
	if p.Label != "" {
		prefix = theme.Body.Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = theme.Dim.Render(fmt.Sprintf("  %3d%%", int(pct*100)))
	}

	cells := max(4, p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix))
	filled := int(float64(cells) * pct)
	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	return prefix +
		theme.Fg(fill).Render(strings.Repeat("█", filled)) +
		theme.Fg(theme.Border).Render(strings.Repeat("░", cells-filled)) +
		suffix
}
