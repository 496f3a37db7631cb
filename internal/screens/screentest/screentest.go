// Package screentest provides a seeded store and key helpers for screen
// tests.
package screentest

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/evaluator"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/store"
)

// UserID is the learner every Deps is built for.
const UserID = "test-user"

// Env is a seeded in-memory store with a service on top.
type Env struct {
	Store *store.Store
	Deps  screens.Deps
}

// New opens a private in-memory store, seeds the sample course and
// creates UserID.
func New(t *testing.T) *Env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	seed, err := course.Seed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	ctx := context.Background()
	if _, err := st.CourseRepo().EnsureCourse(ctx, seed); err != nil {
		t.Fatalf("ensure course: %v", err)
	}

	svc := progression.NewService(st.ProgressRepo(), st.CourseRepo(),
		progression.WithShuffler(func() *evaluator.Shuffler { return evaluator.NewShuffler(1) }),
	)
	if _, err := svc.EnsureUser(ctx, UserID, "Ana"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	return &Env{Store: st, Deps: screens.Deps{Service: svc, UserID: UserID}}
}

// Key builds a key press for a printable key or a named one such as
// "enter", "esc", "up", "down", "backspace" and "ctrl+<letter>".
func Key(name string) tea.KeyPressMsg {
	switch name {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok && len(rest) == 1 {
		return tea.KeyPressMsg{Code: rune(rest[0]), Mod: tea.ModCtrl}
	}
	r := []rune(name)[0]
	return tea.KeyPressMsg{Code: r, Text: name}
}

// Drain runs cmd and every command batched inside it, returning the
// messages produced. Tick-style commands must not be passed in.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
