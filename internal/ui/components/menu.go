package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Detail is shown dimmed after Label.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// MenuKeys are the bindings a Menu responds to.
type MenuKeys struct {
	Up, Down, Choose key.Binding
}

var DefaultMenuKeys = MenuKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "choose")),
}

// Menu is a vertical list of actions. The cursor skips disabled items
// and wraps at both ends. Digits 1-9 jump to and run an item directly.
type Menu struct {
	Items    []MenuItem
	Selected int
	Keys     MenuKeys
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1, Keys: DefaultMenuKeys}
	m.Selected = m.next(-1, 1)
	return m
}

// next walks from i in direction step to the nearest enabled item,
// returning i itself when nothing else is enabled.
func (m Menu) next(i, step int) int {
	n := len(m.Items)
	for k := 1; k <= n; k++ {
		j := ((i+step*k)%n + n) % n
		if !m.Items[j].Disabled {
			return j
		}
	}
	return i
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	it := m.Items[i]
	if it.Disabled || it.Action == nil {
		return nil
	}
	return it.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.Keys.Up):
		m.Selected = m.next(m.Selected, -1)
	case key.Matches(kmsg, m.Keys.Down):
		m.Selected = m.next(m.Selected, 1)
	case key.Matches(kmsg, m.Keys.Choose):
		return m, m.run(m.Selected)
	default:
		if d, err := strconv.Atoi(kmsg.String()); err == nil && d >= 1 && d <= len(m.Items) && !m.Items[d-1].Disabled {
			m.Selected = d - 1
			return m, m.run(m.Selected)
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		var line string
		switch {
		case it.Disabled:
			line = theme.Fg(theme.Border).Render("    " + it.Label)
		case i == m.Selected:
			line = theme.Selected.Render("  ▸ " + it.Label)
		default:
			line = theme.Unselected.Render("    " + it.Label)
		}
		if it.Detail != "" {
			line += "  " + theme.Dim.Render(it.Detail)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
