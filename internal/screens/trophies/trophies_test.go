package trophies

import (
	"context"
	"strings"
	"testing"

	"github.com/eduquest/eduquest/internal/screens/screentest"
)

func TestTrophyScreen_UnlockedFirst(t *testing.T) {
	env := screentest.New(t)
	ctx := context.Background()
	a, err := env.Deps.Service.Start(ctx, screentest.UserID, "course-1", "lesson-5")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Deps.Service.QuickComplete(ctx, a); err != nil {
		t.Fatal(err)
	}

	s := New(env.Deps)
	for _, msg := range screentest.Drain(s.Init()) {
		s.Update(msg)
	}
	view := s.View(100, 80)
	if !strings.Contains(view, "1 of 12 unlocked") {
		t.Fatalf("header wrong:\n%s", view)
	}
	first := strings.Index(view, "First Steps")
	locked := strings.Index(view, "🔒")
	if first < 0 || locked < 0 || first > locked {
		t.Errorf("unlocked achievement should precede locked ones:\n%s", view)
	}
	if strings.Contains(view, "🔒 First Steps") {
		t.Error("First Steps still shown as locked")
	}
}

func TestTrophyScreen_Scroll(t *testing.T) {
	env := screentest.New(t)
	s := New(env.Deps)
	for _, msg := range screentest.Drain(s.Init()) {
		s.Update(msg)
	}
	s.Update(screentest.Key("up"))
	if s.offset != 0 {
		t.Errorf("offset = %d", s.offset)
	}
	for i := 0; i < 20; i++ {
		s.Update(screentest.Key("down"))
	}
	if s.offset != 11 {
		t.Errorf("offset clamped to %d, want 11", s.offset)
	}
	if !strings.Contains(s.View(100, 10), "0 of 12 unlocked") {
		t.Error("header missing after scroll")
	}
}
