package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/achievements"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/session"
	"github.com/eduquest/eduquest/internal/store"
)

func testReport() *progression.Report {
	first, _ := achievements.Lookup("first-lesson")
	return &progression.Report{
		LessonID:    "lesson-1",
		LessonTitle: "Greetings",
		CourseID:    "course-1",
		Reward:      scoring.Reward{Mode: scoring.FirstCompletion, Base: 30, Multiplier: 1.2, XP: 36},
		FirstTime:   true,
		Perfect:     true,
		LevelBefore: scoring.Level(90),
		LevelAfter:  scoring.Level(176),
		Stats:       store.Stats{XP: 176, Streak: 8, Hearts: 5},
		CompletedQuests: []quests.Quest{
			{ID: "complete-lessons", Title: "Lesson Learner", Reward: 50, Completed: true},
		},
		QuestBonusXP:       50,
		Unlocked:           []achievements.Achievement{first},
		AchievementBonusXP: first.Reward,
		Summary: &session.Summary{
			LessonID: "lesson-1", TotalQuestions: 3, Answers: 3, FirstTry: 3, Accuracy: 1, Perfect: true,
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testReport())
	if s.Title() != "Lesson Complete" {
		t.Errorf("Title = %q, want %q", s.Title(), "Lesson Complete")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testReport())
	view := s.View(100, 30)
	for _, want := range []string{"Perfect score!", "+36 XP", "Level up!", "Lesson Learner", "First Steps"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_QuickComplete(t *testing.T) {
	r := testReport()
	r.Reward = scoring.Reward{Mode: scoring.QuickComplete}
	r.Perfect = false
	r.Summary = nil
	view := New(r).View(100, 30)
	if !strings.Contains(view, "Marked as read") {
		t.Error("quick completion not described")
	}
}

func TestSummaryScreen_NilReport(t *testing.T) {
	if New(nil).View(80, 24) != "" {
		t.Error("expected empty view for nil report")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeyEscape}} {
		s := New(testReport())
		_, cmd := s.Update(key)
		if cmd == nil {
			t.Fatalf("expected a command on %s", key.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("%s did not pop", key.String())
		}
	}

	_, cmd := New(testReport()).Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if cmd == nil {
		t.Fatal("h produced no command")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("h did not return home")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testReport())
	if hints := s.KeyHints(); len(hints) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(hints))
	}
}
