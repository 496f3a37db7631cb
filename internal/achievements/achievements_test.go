package achievements

import (
	"testing"

	"github.com/eduquest/eduquest/internal/course"
)

func TestTable(t *testing.T) {
	all := All()
	if len(all) != 12 {
		t.Fatalf("expected 12 achievements, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, a := range all {
		if seen[a.ID] {
			t.Errorf("duplicate id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Reward <= 0 || a.Title == "" {
			t.Errorf("incomplete achievement %+v", a)
		}
	}
	a, ok := Lookup("streak-100")
	if !ok || a.Reward != 2000 || a.Title != "Century Scholar" {
		t.Errorf("Lookup(streak-100) = %+v, %v", a, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup found an unknown id")
	}
}

func TestSatisfied(t *testing.T) {
	tests := []struct {
		cond Condition
		snap Snapshot
		want bool
	}{
		{FirstLesson, Snapshot{}, false},
		{FirstLesson, Snapshot{LessonsCompleted: 1}, true},
		{CourseComplete, Snapshot{CoursesCompleted: 1}, true},
		{PerfectScore, Snapshot{PerfectScores: 1}, true},
		{Streak7, Snapshot{Streak: 6}, false},
		{Streak7, Snapshot{Streak: 7}, true},
		{Streak30, Snapshot{Streak: 29}, false},
		{Streak30, Snapshot{Streak: 30}, true},
		{Streak100, Snapshot{Streak: 100}, true},
		{Lessons10, Snapshot{LessonsCompleted: 9}, false},
		{Lessons50, Snapshot{LessonsCompleted: 50}, true},
		{Lessons100, Snapshot{LessonsCompleted: 99}, false},
		{XP1000, Snapshot{XP: 1000}, true},
		{XP5000, Snapshot{XP: 4999}, false},
		{AllQuestionTypes, Snapshot{QuestionTypesAnswered: map[course.QuestionType]bool{
			course.MultipleChoice: true, course.FillInTheBlank: true, course.Matching: true,
		}}, false},
		{AllQuestionTypes, Snapshot{QuestionTypesAnswered: map[course.QuestionType]bool{
			course.MultipleChoice: true, course.FillInTheBlank: true, course.Matching: true, course.Sequencing: true,
		}}, true},
		{Condition("BOGUS"), Snapshot{LessonsCompleted: 1000}, false},
	}
	for _, tt := range tests {
		if got := Satisfied(tt.cond, tt.snap); got != tt.want {
			t.Errorf("Satisfied(%s, %+v) = %v, want %v", tt.cond, tt.snap, got, tt.want)
		}
	}
}

func TestNewlyUnlocked_Idempotent(t *testing.T) {
	snap := Snapshot{LessonsCompleted: 1}
	first := NewlyUnlocked(nil, snap)
	if len(first) != 1 || first[0].ID != "first-lesson" {
		t.Fatalf("first pass = %+v", first)
	}

	unlocked := map[string]bool{}
	for _, a := range first {
		unlocked[a.ID] = true
	}
	if again := NewlyUnlocked(unlocked, snap); len(again) != 0 {
		t.Errorf("second pass unlocked %+v", again)
	}
}

func TestNewlyUnlocked_TableOrder(t *testing.T) {
	snap := Snapshot{LessonsCompleted: 10, Streak: 7, XP: 1200, PerfectScores: 1}
	got := NewlyUnlocked(map[string]bool{"perfect-score": true}, snap)
	var ids []string
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	want := []string{"first-lesson", "streak-7", "lessons-10", "xp-1000"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("got %v, want %v", ids, want)
			break
		}
	}
	if TotalReward(got) != 50+150+100+100 {
		t.Errorf("TotalReward = %d", TotalReward(got))
	}
}
