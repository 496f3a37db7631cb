package components

import (
	"image/color"

	"github.com/eduquest/eduquest/internal/ui/theme"
)

// Cards never grow past a comfortable reading width.
const (
	minCardWidth = 20
	maxCardWidth = 72
)

// ContentWidth is the inner card width for a frame, shared by every card
// on a screen so their borders line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, minCardWidth), maxCardWidth)
}

func card(content string, cw int, border color.Color) string {
	return theme.Card.Padding(0, 1).BorderForeground(border).Width(cw).Render(content)
}

func Card(content string, cw int) string { return card(content, cw, theme.Border) }

// HighlightCard draws attention to the card in focus.
func HighlightCard(content string, cw int) string { return card(content, cw, theme.Primary) }
