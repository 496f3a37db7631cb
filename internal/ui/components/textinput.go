package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/ui/theme"
)

type verdict int

const (
	pending verdict = iota
	accepted
	rejected
)

// TextInput is a single-line answer box. Once Submit is called it locks
// and shows a check or cross until Reset.
type TextInput struct {
	Model   textinput.Model
	verdict verdict
}

// NewTextInput returns a focused input; limit <= 0 means no cap.
func NewTextInput(placeholder string, limit int) TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	m.CharLimit = max(limit, 0)
	m.Prompt = "› "
	m.Focus()
	return TextInput{Model: m}
}

func (t TextInput) Init() tea.Cmd { return t.Model.Focus() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.verdict != pending {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	switch t.verdict {
	case accepted:
		return t.Model.View() + " " + theme.Correct.Render("✓")
	case rejected:
		return t.Model.View() + " " + theme.Incorrect.Render("✗")
	}
	return t.Model.View()
}

// Value is the typed text with surrounding blanks trimmed.
func (t TextInput) Value() string { return strings.TrimSpace(t.Model.Value()) }

func (t *TextInput) Submit(ok bool) {
	t.verdict = rejected
	if ok {
		t.verdict = accepted
	}
}

func (t *TextInput) Reset() {
	t.Model.Reset()
	t.verdict = pending
}
