package welcome

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/screens/screentest"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome(deps screens.Deps) (*WelcomeScreen, *int) {
	calls := 0
	return New(deps, func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

// loadProfile delivers the learner's progression the way Init would.
func loadProfile(w *WelcomeScreen) {
	w.Update(w.deps.LoadProgress()())
}

func TestPhaseTransitions(t *testing.T) {
	w, _ := newTestWelcome(screens.Deps{})

	if strings.Contains(w.View(100, 40), "every day") {
		t.Error("tagline should not be visible at start")
	}
	sendTicks(w, 5)
	if w.elapsed != phase1End {
		t.Errorf("elapsed = %v, want %v", w.elapsed, phase1End)
	}
	sendTicks(w, 10)
	if !strings.Contains(w.View(100, 40), "every day") {
		t.Error("tagline should be visible after phase 2")
	}
	sendTicks(w, 40)
	if w.elapsed != totalDur {
		t.Errorf("elapsed not capped: %v", w.elapsed)
	}
}

func TestKeypressSkipsAnimation(t *testing.T) {
	w, calls := newTestWelcome(screens.Deps{})
	sendTicks(w, 3)

	if _, cmd := w.Update(tea.KeyPressMsg{Code: ' '}); cmd != nil {
		t.Error("first keypress should only finish the animation")
	}
	if w.elapsed != totalDur || *calls != 0 {
		t.Fatalf("elapsed %v, factory calls %d", w.elapsed, *calls)
	}

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("second keypress should replace the screen")
	}
	if _, cmd := w.Update(tea.KeyPressMsg{Code: 'b'}); cmd != nil || *calls != 1 {
		t.Errorf("factory called %d times", *calls)
	}
}

func TestKnownLearnerSkipsNamePrompt(t *testing.T) {
	env := screentest.New(t)
	w, calls := newTestWelcome(env.Deps)
	loadProfile(w)
	sendTicks(w, 30)

	if !strings.Contains(w.View(100, 40), "Welcome back, Ana!") {
		t.Error("known learner not greeted")
	}
	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil || w.naming || *calls != 1 {
		t.Errorf("naming %v, calls %d", w.naming, *calls)
	}
}

func TestNewLearnerIsAskedForName(t *testing.T) {
	env := screentest.New(t)
	if _, err := env.Deps.Service.EnsureUser(context.Background(), "fresh", ""); err != nil {
		t.Fatal(err)
	}
	deps := env.Deps
	deps.UserID = "fresh"
	w, calls := newTestWelcome(deps)
	loadProfile(w)
	sendTicks(w, 30)

	w.Update(tea.KeyPressMsg{Code: ' '})
	if !w.naming {
		t.Fatal("name prompt not shown")
	}
	if !strings.Contains(w.View(100, 40), "What should QuestBot call you?") {
		t.Error("prompt not rendered")
	}

	if _, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil || w.errMsg == "" {
		t.Error("blank name accepted")
	}

	w.input.Model.SetValue("  Bea ")
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("no save command")
	}
	_, cmd = w.Update(cmd())
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok || *calls != 1 {
		t.Fatalf("save did not hand over, calls %d", *calls)
	}

	p, err := env.Deps.Service.Load(context.Background(), "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if p.User.Name != "Bea" {
		t.Errorf("saved name = %q", p.User.Name)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome(screens.Deps{})
	if w.Title() != "" {
		t.Errorf("title = %q", w.Title())
	}
}
