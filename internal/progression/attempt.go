package progression

import (
	"time"

	"github.com/eduquest/eduquest/internal/achievements"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/session"
	"github.com/eduquest/eduquest/internal/store"
)

// Attempt is one learner's run through one lesson. It is not safe for
// concurrent use.
type Attempt struct {
	ID        string
	UserID    string
	CourseID  string
	Course    *course.Course
	Session   *session.Session
	Hearts    int
	StartedAt time.Time
}

// Outcome is the result of submitting one answer.
type Outcome struct {
	session.Outcome

	Hearts          int
	LockedOut       bool
	CompletedQuests []quests.Quest
	BonusXP         int
}

// Report describes a completed lesson and everything it triggered.
type Report struct {
	LessonID    string
	LessonTitle string
	CourseID    string

	Reward    scoring.Reward
	FirstTime bool
	Perfect   bool

	LevelBefore scoring.LevelInfo
	LevelAfter  scoring.LevelInfo
	Stats       store.Stats

	CompletedQuests    []quests.Quest
	QuestBonusXP       int
	Unlocked           []achievements.Achievement
	AchievementBonusXP int

	Summary *session.Summary
}

// TotalXP is everything the completion added to the learner's XP.
func (r *Report) TotalXP() int {
	return r.Reward.XP + r.QuestBonusXP + r.AchievementBonusXP
}

// LeveledUp reports whether the completion crossed a level boundary.
func (r *Report) LeveledUp() bool {
	return r.LevelAfter.Level > r.LevelBefore.Level
}
