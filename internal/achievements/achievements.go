// Package achievements evaluates the fixed achievement table against a
// learner's cumulative metrics. It is pure: paying rewards and persisting
// unlocks is up to the caller.
package achievements

import (
	"time"

	"github.com/eduquest/eduquest/internal/course"
)

// Condition names the predicate an achievement unlocks on.
type Condition string

const (
	FirstLesson      Condition = "FIRST_LESSON"
	CourseComplete   Condition = "COURSE_COMPLETE"
	PerfectScore     Condition = "PERFECT_SCORE"
	Streak7          Condition = "STREAK_7"
	Streak30         Condition = "STREAK_30"
	Streak100        Condition = "STREAK_100"
	Lessons10        Condition = "LESSONS_10"
	Lessons50        Condition = "LESSONS_50"
	Lessons100       Condition = "LESSONS_100"
	XP1000           Condition = "XP_1000"
	XP5000           Condition = "XP_5000"
	AllQuestionTypes Condition = "ALL_QUESTION_TYPES"
)

// Achievement is a permanent one-time milestone.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Condition   Condition `json:"condition"`
	Reward      int       `json:"reward"`
}

// Unlocked is an achievement together with its unlock time.
type Unlocked struct {
	Achievement
	UnlockedAt time.Time `json:"unlockedAt"`
}

// Snapshot is the cumulative state the predicates read.
type Snapshot struct {
	LessonsCompleted      int
	CoursesCompleted      int
	Streak                int
	XP                    int
	PerfectScores         int
	QuestionTypesAnswered map[course.QuestionType]bool
}

var table = []Achievement{
	{"first-lesson", "First Steps", "Complete your first lesson", "🎯", FirstLesson, 50},
	{"course-complete", "Course Master", "Complete an entire course", "🏆", CourseComplete, 200},
	{"perfect-score", "Perfectionist", "Get all questions correct in a quiz", "💯", PerfectScore, 100},
	{"streak-7", "Week Warrior", "Maintain a 7-day learning streak", "🔥", Streak7, 150},
	{"streak-30", "Monthly Master", "Maintain a 30-day learning streak", "⚡", Streak30, 500},
	{"streak-100", "Century Scholar", "Maintain a 100-day learning streak", "👑", Streak100, 2000},
	{"lessons-10", "Knowledge Seeker", "Complete 10 lessons", "📚", Lessons10, 100},
	{"lessons-50", "Dedicated Learner", "Complete 50 lessons", "🎓", Lessons50, 500},
	{"lessons-100", "Knowledge Master", "Complete 100 lessons", "🌟", Lessons100, 1000},
	{"xp-1000", "Rising Star", "Earn 1,000 XP", "⭐", XP1000, 100},
	{"xp-5000", "XP Legend", "Earn 5,000 XP", "💫", XP5000, 500},
	{"all-question-types", "Question Master", "Answer all 4 types of questions correctly", "🎪", AllQuestionTypes, 200},
}

// All returns every achievement in display order.
func All() []Achievement {
	return append([]Achievement(nil), table...)
}

// Lookup finds an achievement by id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range table {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Satisfied evaluates one condition against s. Unknown conditions are
// never satisfied.
func Satisfied(c Condition, s Snapshot) bool {
	switch c {
	case FirstLesson:
		return s.LessonsCompleted >= 1
	case CourseComplete:
		return s.CoursesCompleted >= 1
	case PerfectScore:
		return s.PerfectScores >= 1
	case Streak7:
		return s.Streak >= 7
	case Streak30:
		return s.Streak >= 30
	case Streak100:
		return s.Streak >= 100
	case Lessons10:
		return s.LessonsCompleted >= 10
	case Lessons50:
		return s.LessonsCompleted >= 50
	case Lessons100:
		return s.LessonsCompleted >= 100
	case XP1000:
		return s.XP >= 1000
	case XP5000:
		return s.XP >= 5000
	case AllQuestionTypes:
		return answeredTypes(s) >= len(course.AllQuestionTypes)
	}
	return false
}

func answeredTypes(s Snapshot) int {
	n := 0
	for _, ok := range s.QuestionTypesAnswered {
		if ok {
			n++
		}
	}
	return n
}

// NewlyUnlocked returns, in table order, the achievements not in unlocked
// whose condition holds for s.
func NewlyUnlocked(unlocked map[string]bool, s Snapshot) []Achievement {
	var out []Achievement
	for _, a := range table {
		if unlocked[a.ID] {
			continue
		}
		if Satisfied(a.Condition, s) {
			out = append(out, a)
		}
	}
	return out
}

// TotalReward sums the rewards of achievements.
func TotalReward(as []Achievement) int {
	total := 0
	for _, a := range as {
		total += a.Reward
	}
	return total
}
