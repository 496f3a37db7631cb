package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/screens/courses"
	"github.com/eduquest/eduquest/internal/screens/screentest"
)

func step(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestAppModel_HeaderAndEscape(t *testing.T) {
	env := screentest.New(t)
	m := newAppModel(env.Deps)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	var loaded bool
	for _, msg := range screentest.Drain(m.loadHeader()) {
		if _, ok := msg.(headerLoadedMsg); ok {
			loaded = true
		}
		m, _ = step(t, m, msg)
	}
	if !loaded || m.stats.Hearts != 5 || m.stats.Level != 1 {
		t.Fatalf("header stats = %+v", m.stats)
	}
	if hints := m.footerHints(); len(hints) == 0 || hints[len(hints)-1].Key != "Ctrl+C" {
		t.Errorf("home hints = %+v", hints)
	}

	if _, cmd := step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("Esc on the home screen should do nothing")
	}

	m, _ = step(t, m, router.PushScreenMsg{Screen: courses.New(env.Deps)})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d", m.router.Depth())
	}
	_, cmd := step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	msgs := screentest.Drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("esc produced %v", msgs)
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("esc produced %T", msgs[0])
	}
}

func TestAppModel_HintsFromActiveScreen(t *testing.T) {
	env := screentest.New(t)
	m := newAppModel(env.Deps)
	m, _ = step(t, m, router.PushScreenMsg{Screen: courses.New(env.Deps)})

	var keys []string
	for _, h := range m.footerHints() {
		keys = append(keys, h.Key)
	}
	if got := strings.Join(keys, " "); got != "↑↓ Enter Esc" {
		t.Errorf("hints = %q", got)
	}
}
