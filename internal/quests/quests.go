// Package quests tracks the fixed set of daily quests.
package quests

import (
	"math"
	"time"
)

// Type identifies what advances a quest.
type Type string

const (
	CompleteLessons Type = "COMPLETE_LESSONS"
	AnswerQuestions Type = "ANSWER_QUESTIONS"
	MaintainStreak  Type = "MAINTAIN_STREAK"
	EarnXP          Type = "EARN_XP"
	PerfectScores   Type = "PERFECT_SCORES"
)

// DateLayout is the calendar-day format of Quest.Date.
const DateLayout = "2006-01-02"

// Quest is one daily objective. Progress never exceeds Target and a
// completed quest stays completed for the rest of its day.
type Quest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        Type   `json:"type"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	Reward      int    `json:"reward"`
	Completed   bool   `json:"completed"`
	Date        string `json:"date"`
}

type template struct {
	slug        string
	title       string
	description string
	typ         Type
	target      int
	reward      int
}

var catalog = []template{
	{"lessons", "Complete 3 Lessons", "Finish any 3 lessons today", CompleteLessons, 3, 50},
	{"questions", "Answer 10 Questions", "Answer 10 questions correctly", AnswerQuestions, 10, 30},
	{"streak", "Maintain Your Streak", "Keep your learning streak alive", MaintainStreak, 1, 20},
	{"xp", "Earn 100 XP", "Collect 100 XP today", EarnXP, 100, 50},
	{"perfect", "Get 2 Perfect Scores", "Complete 2 lessons with 100% accuracy", PerfectScores, 2, 80},
}

// Day formats t as the local calendar day.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// Generate returns the five quests for the calendar day of now, in the
// location now carries.
func Generate(now time.Time) []Quest {
	day := Day(now)
	out := make([]Quest, len(catalog))
	for i, t := range catalog {
		out[i] = Quest{
			ID:          "quest-" + t.slug + "-" + day,
			Title:       t.title,
			Description: t.description,
			Type:        t.typ,
			Target:      t.target,
			Reward:      t.reward,
			Date:        day,
		}
	}
	return out
}

// NeedsReset reports whether stored quests belong to a different day than
// now, or are missing.
func NeedsReset(stored []Quest, now time.Time) bool {
	if len(stored) == 0 {
		return true
	}
	return stored[0].Date != Day(now)
}

// Load returns stored unchanged when it is current, otherwise a fresh set.
// The boolean reports whether a new set was generated.
func Load(stored []Quest, now time.Time) ([]Quest, bool) {
	if NeedsReset(stored, now) {
		return Generate(now), true
	}
	return stored, false
}

// Advance adds amount to every unfinished quest of type typ and returns a
// new slice; quests is not modified.
func Advance(quests []Quest, typ Type, amount int) []Quest {
	out := make([]Quest, len(quests))
	copy(out, quests)
	if amount <= 0 {
		return out
	}
	for i := range out {
		q := &out[i]
		if q.Type != typ || q.Completed {
			continue
		}
		q.Progress = min(q.Progress+amount, q.Target)
		q.Completed = q.Progress >= q.Target
	}
	return out
}

// NewlyCompleted returns the quests that are completed in after but were
// not in before. Quests are matched by id.
func NewlyCompleted(before, after []Quest) []Quest {
	was := make(map[string]bool, len(before))
	for _, q := range before {
		was[q.ID] = q.Completed
	}
	var out []Quest
	for _, q := range after {
		if q.Completed && !was[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// CompletedRewards sums the rewards of completed quests.
func CompletedRewards(quests []Quest) int {
	total := 0
	for _, q := range quests {
		if q.Completed {
			total += q.Reward
		}
	}
	return total
}

// CompletionPercentage is the rounded share of completed quests.
func CompletionPercentage(quests []Quest) int {
	if len(quests) == 0 {
		return 0
	}
	done := len(ByStatus(quests, true))
	return int(math.Round(float64(done) / float64(len(quests)) * 100))
}

// ByStatus filters quests by completion.
func ByStatus(quests []Quest, completed bool) []Quest {
	var out []Quest
	for _, q := range quests {
		if q.Completed == completed {
			out = append(out, q)
		}
	}
	return out
}

// Percent is the quest's own progress as a whole percentage.
func (q Quest) Percent() int {
	if q.Target <= 0 {
		return 0
	}
	return q.Progress * 100 / q.Target
}
