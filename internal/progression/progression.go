// Package progression owns the per-user progression aggregate: it loads
// stats, completions, answers, quests and achievements as a unit and
// applies every lesson event to them through the Progress Store.
package progression

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/eduquest/eduquest/internal/achievements"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/store"
)

var (
	// ErrNoHearts rejects starting a first-time quiz with zero hearts.
	ErrNoHearts = errors.New("no hearts left: refill to start a new quiz")

	// ErrUnknownLesson is returned when the course has no such lesson.
	ErrUnknownLesson = errors.New("unknown lesson")
)

// Store is the Progress Store as the progression service uses it.
type Store interface {
	EnsureUser(ctx context.Context, u store.User) (store.User, error)
	GetUser(ctx context.Context, userID string) (store.User, error)
	UpdateProfile(ctx context.Context, userID, name, avatar string) (store.User, error)

	GetStats(ctx context.Context, userID string) (store.Stats, error)
	GetCompletedLessonIDs(ctx context.Context, userID string) ([]string, error)
	GetAnswerHistory(ctx context.Context, userID string) (map[string]bool, error)
	RecordAnswer(ctx context.Context, userID, questionID string, qt course.QuestionType, correct bool) (map[string]bool, error)
	QuestionTypesAnswered(ctx context.Context, userID string) (map[course.QuestionType]bool, error)
	CompleteLesson(ctx context.Context, c store.Completion) (store.CompletionResult, error)
	RefillHearts(ctx context.Context, userID string) (store.Stats, error)
	LoseHeart(ctx context.Context, userID string) (store.Stats, error)
	AddBonusXP(ctx context.Context, userID string, amount int) (store.Stats, error)

	GetQuests(ctx context.Context, userID string) ([]quests.Quest, error)
	SaveQuests(ctx context.Context, userID string, qs []quests.Quest) error
	GetUnlocked(ctx context.Context, userID string) ([]store.UnlockedAchievement, error)
	Unlock(ctx context.Context, userID string, ids []string, at time.Time) error

	RecordActivity(ctx context.Context, a store.Activity) (store.Activity, error)
	ActivityCounts(ctx context.Context, userID, fromDay string) ([]store.DayActivity, error)
}

// Catalog serves courses and accepts appended review lessons.
type Catalog interface {
	GetCourse(ctx context.Context, id string) (*course.Course, error)
	ListCourses(ctx context.Context) ([]store.CourseSummary, error)
	AppendLesson(ctx context.Context, courseID string, l course.Lesson) (*course.Course, error)
}

// Progression is the aggregate root of one learner's progress.
type Progression struct {
	User          store.User
	Stats         store.Stats
	Level         scoring.LevelInfo
	Completed     []string
	Answers       map[string]bool
	QuestionTypes map[course.QuestionType]bool
	Quests        []quests.Quest
	Unlocked      []achievements.Unlocked
}

// CompletedSet returns the completed lesson ids as a set.
func (p *Progression) CompletedSet() map[string]bool {
	return toSet(p.Completed)
}

// UnlockedSet returns the unlocked achievement ids as a set.
func (p *Progression) UnlockedSet() map[string]bool {
	out := make(map[string]bool, len(p.Unlocked))
	for _, u := range p.Unlocked {
		out[u.ID] = true
	}
	return out
}

// Milestone returns the current streak milestone, if any.
func (p *Progression) Milestone() (scoring.Milestone, bool) {
	return scoring.CurrentMilestone(p.Stats.Streak)
}

// Locked returns the achievements not yet unlocked, in table order.
func (p *Progression) Locked() []achievements.Achievement {
	have := p.UnlockedSet()
	var out []achievements.Achievement
	for _, a := range achievements.All() {
		if !have[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// unlockedFromRows resolves stored ids against the achievement table,
// skipping ids the table no longer has.
func unlockedFromRows(rows []store.UnlockedAchievement) []achievements.Unlocked {
	out := make([]achievements.Unlocked, 0, len(rows))
	for _, row := range rows {
		a, ok := achievements.Lookup(row.ID)
		if !ok {
			continue
		}
		out = append(out, achievements.Unlocked{Achievement: a, UnlockedAt: row.UnlockedAt})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnlockedAt.Before(out[j].UnlockedAt) })
	return out
}
