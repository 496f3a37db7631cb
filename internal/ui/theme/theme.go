// Package theme holds the EduQuest colors and shared lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Base palette.
var (
	Primary   = lipgloss.Color("#7C3AED") // quest violet
	Secondary = lipgloss.Color("#0EA5E9") // sky
	Accent    = lipgloss.Color("#F97316") // ember
	Success   = lipgloss.Color("#10B981")
	Error     = lipgloss.Color("#E11D48")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#8B95A7")
	BgDark    = lipgloss.Color("#111827")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#374151")
)

// Game stat colors, one per resource shown in the header.
var (
	Heart  = lipgloss.Color("#F43F5E")
	XP     = lipgloss.Color("#FBBF24")
	Streak = Accent
)

// Fg is a plain style with only a foreground color.
func Fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	Title    = Fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = Fg(TextDim).Align(lipgloss.Center)
	Body     = Fg(Text)
	Dim      = Fg(TextDim)
	Hint     = Fg(TextDim).Italic(true)

	Selected   = Fg(Primary).Bold(true)
	Unselected = Fg(Text)
	Correct    = Fg(Success).Bold(true)
	Incorrect  = Fg(Error).Bold(true)
	Warning    = Fg(Accent).Bold(true)
)

var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = Card.Padding(0, 2)
)
