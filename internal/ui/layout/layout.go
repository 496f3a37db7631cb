// Package layout composes the header, body and footer of every frame.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/ui/theme"
)

// Terminal size limits. Below Min* nothing but a resize notice is drawn;
// below Compact* screens drop decoration.
const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats is the learner state shown on the right of the header.
type HeaderStats struct {
	Level  int
	XP     int
	Streak int
	Hearts int
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("EduQuest needs at least %d×%d.\n\nYour terminal is %d×%d.\nMake it a little bigger to keep questing.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

// Hearts renders n filled hearts followed by total-n empty ones.
func Hearts(n, total int) string {
	n = max(n, 0)
	total = max(total, n)
	return theme.Fg(theme.Heart).Render(strings.Repeat("♥", n)) +
		theme.Fg(theme.Border).Render(strings.Repeat("♥", total-n))
}

var bar = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)

// RenderHeader draws the brand on the left, title centered and the
// learner's level, streak and hearts on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	left := theme.Fg(theme.Primary).Bold(true).Render("  EduQuest")
	right := strings.Join([]string{
		theme.Fg(theme.XP).Render(fmt.Sprintf("Lv %d · %d XP", stats.Level, stats.XP)),
		theme.Fg(theme.Streak).Render(fmt.Sprintf("🔥 %d", stats.Streak)),
		theme.Fg(theme.Heart).Render(fmt.Sprintf("♥ %d", stats.Hearts)),
	}, "   ")
	return bar.Width(width).Render(spread(width-4, left, theme.Body.Render(title), right))
}

// spread lays out three segments so mid sits as close to the center as
// the side segments allow, keeping at least one space between them.
func spread(width int, left, mid, right string) string {
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(mid), lipgloss.Width(right)
	gapL := max((max(width, 0)-mw)/2-lw, 1)
	gapR := max(width-lw-gapL-mw-rw, 1)
	return left + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + right
}

func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.Body.Bold(true).Render(h.Key) + " " + theme.Dim.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, sizing content to fill
// whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Center places s horizontally in the middle of width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
