package components

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/ui/theme"
)

// Button fires OnPress when its key is pressed while enabled.
type Button struct {
	Label   string
	Binding key.Binding
	OnPress func() tea.Cmd
}

func NewButton(label, k string, enabled bool, onPress func() tea.Cmd) Button {
	b := Button{
		Label:   label,
		Binding: key.NewBinding(key.WithKeys(k), key.WithHelp(k, label)),
		OnPress: onPress,
	}
	b.Binding.SetEnabled(enabled)
	return b
}

// SetEnabled toggles whether the button reacts to its key.
func (b *Button) SetEnabled(on bool) { b.Binding.SetEnabled(on) }

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || b.OnPress == nil || !key.Matches(kmsg, b.Binding) {
		return b, nil
	}
	return b, b.OnPress()
}

func (b Button) View() string {
	label := b.Label + " [" + b.Binding.Help().Key + "]"
	if b.Binding.Enabled() {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
