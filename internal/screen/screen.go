// Package screen defines what the router needs from a screen, plus the
// optional hooks a screen can implement to customise its behaviour.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/ui/layout"
)

// Screen is one page of the app. View draws only the body; the header
// and footer belong to the app frame.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer reloads data when the screen above is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// EscapeCapturer keeps Esc from popping the screen while it returns true,
// for example while a lesson asks to confirm leaving.
type EscapeCapturer interface {
	CapturesEscape() bool
}
