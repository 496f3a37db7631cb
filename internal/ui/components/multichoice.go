package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector component. It does not know
// the answer; Reveal marks it once the choice was checked.
type MultiChoice struct {
	Options  []string
	Selected int

	// Chosen is the submitted option, or -1.
	Chosen   int
	revealed bool
	correct  int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options: options,
		Chosen:  -1,
		correct: -1,
	}
}

// Update handles arrow navigation. Enter and the number keys pick an
// option; the caller reads Chosen to submit it.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.Chosen >= 0 {
		return m, false
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Chosen = m.Selected
		return m, true
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.Options) {
			m.Selected = int(key[0] - '1')
			m.Chosen = m.Selected
			return m, true
		}
	}

	return m, false
}

// Retract clears a choice the caller could not submit.
func (m *MultiChoice) Retract() {
	m.Chosen = -1
}

// Reveal marks the correct option for feedback.
func (m *MultiChoice) Reveal(correct int) {
	m.revealed = true
	m.correct = correct
}

// View renders the options.
func (m MultiChoice) View() string {
	var s string
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.revealed && i == m.correct:
			style = theme.Correct
		case m.revealed && i == m.Chosen:
			style = theme.Incorrect
		case m.revealed:
			style = theme.Dim
		case i == m.Selected:
			style = theme.Selected
		}
		s += style.Render(line) + "\n"
	}
	return s
}
