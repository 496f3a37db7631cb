package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

type picked int

func testMenu() Menu {
	pick := func(i int) func() tea.Cmd {
		return func() tea.Cmd { return func() tea.Msg { return picked(i) } }
	}
	return NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "a", Action: pick(1)},
		{Label: "also off", Disabled: true},
		{Label: "b", Action: pick(3)},
	})
}

func TestMenu_SkipsDisabledAndWraps(t *testing.T) {
	m := testMenu()
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want first enabled item", m.Selected)
	}

	steps := []struct {
		key  string
		want int
	}{
		{"down", 3},
		{"down", 1},
		{"up", 3},
		{"k", 1},
	}
	for _, s := range steps {
		m, _ = m.Update(press(s.key))
		if m.Selected != s.want {
			t.Errorf("after %s: selected = %d, want %d", s.key, m.Selected, s.want)
		}
	}
}

func TestMenu_Choose(t *testing.T) {
	m := testMenu()
	m, cmd := m.Update(press("enter"))
	if cmd == nil || cmd() != picked(1) {
		t.Error("enter did not run the selected item")
	}

	m, cmd = m.Update(press("4"))
	if m.Selected != 3 || cmd == nil || cmd() != picked(3) {
		t.Errorf("digit shortcut: selected %d", m.Selected)
	}

	if _, cmd = m.Update(press("1")); cmd != nil {
		t.Error("digit ran a disabled item")
	}
}

func TestMenu_Empty(t *testing.T) {
	m := NewMenu(nil)
	if _, cmd := m.Update(press("enter")); cmd != nil {
		t.Error("empty menu produced a command")
	}
	if m.View() != "" {
		t.Errorf("empty menu view = %q", m.View())
	}
}

func TestButton(t *testing.T) {
	var pressed int
	b := NewButton("Refill", "r", true, func() tea.Cmd { pressed++; return nil })

	b.Update(press("x"))
	b.Update(press("r"))
	if pressed != 1 {
		t.Fatalf("pressed %d times, want 1", pressed)
	}

	b.SetEnabled(false)
	b.Update(press("r"))
	if pressed != 1 {
		t.Error("disabled button fired")
	}
	if !strings.Contains(b.View(), "Refill [r]") {
		t.Errorf("view = %q", b.View())
	}
}

func TestProgressBar_Width(t *testing.T) {
	for _, pct := range []float64{-1, 0, 0.5, 1, 3} {
		bar := NewProgressBar("XP", pct, true, 40).View()
		if w := lipgloss.Width(bar); w != 40 {
			t.Errorf("percent %v: width %d, want 40", pct, w)
		}
	}
	if got := NewProgressBar("", 3, true, 20).View(); !strings.Contains(got, "100%") {
		t.Errorf("overfull bar not clamped: %q", got)
	}
}

func TestTextInput_LocksAfterSubmit(t *testing.T) {
	in := NewTextInput("answer", 10)
	in, _ = in.Update(press("h"))
	in, _ = in.Update(press("i"))
	if in.Value() != "hi" {
		t.Fatalf("value = %q", in.Value())
	}

	in.Submit(false)
	in, _ = in.Update(press("x"))
	if in.Value() != "hi" {
		t.Error("input accepted keys after submit")
	}
	if !strings.Contains(in.View(), "✗") {
		t.Error("no rejection mark")
	}

	in.Reset()
	if in.Value() != "" || strings.Contains(in.View(), "✗") {
		t.Error("reset kept state")
	}
}

func TestContentWidth(t *testing.T) {
	for frame, want := range map[int]int{10: 20, 26: 20, 50: 44, 78: 72, 200: 72} {
		if got := ContentWidth(frame); got != want {
			t.Errorf("ContentWidth(%d) = %d, want %d", frame, got, want)
		}
	}
}
