// Package scoring computes lesson XP, streak multipliers and levels.
package scoring

import (
	"github.com/eduquest/eduquest/internal/course"
)

const (
	QuizXPPerQuestion = 10
	ContentLessonXP   = 15
	QuickCompleteXP   = 0
	ReviewDivisor     = 4
)

// Mode says how a lesson was finished.
type Mode int

const (
	// FirstCompletion is a lesson finished for the first time.
	FirstCompletion Mode = iota
	// Review is a repeat of an already completed lesson.
	Review
	// QuickComplete is the "mark as read" shortcut for content lessons.
	QuickComplete
)

func (m Mode) String() string {
	switch m {
	case FirstCompletion:
		return "first"
	case Review:
		return "review"
	case QuickComplete:
		return "quick"
	default:
		return "unknown"
	}
}

// Reward is the XP outcome of finishing a lesson.
type Reward struct {
	Mode       Mode
	Base       int
	Multiplier float64
	XP         int
}

// BaseXP is 10 per question for a quiz and a flat 15 for reading and
// video lessons.
func BaseXP(l *course.Lesson) int {
	if l.IsQuiz() {
		return QuizXPPerQuestion * len(l.Questions)
	}
	return ContentLessonXP
}

// AwardedXP applies the streak multiplier to base, rounding down.
func AwardedXP(base, streak int) int {
	if base <= 0 {
		return 0
	}
	return base * multiplierTenths(streak) / 10
}

// ReviewXP is the reduced award for re-completing a lesson.
func ReviewXP(base int) int {
	if base <= 0 {
		return 0
	}
	return base / ReviewDivisor
}

// Award computes the reward for finishing l in the given mode. Only first
// completions are multiplied by the streak.
func Award(l *course.Lesson, streak int, mode Mode) Reward {
	base := BaseXP(l)
	switch mode {
	case FirstCompletion:
		return Reward{Mode: mode, Base: base, Multiplier: Multiplier(streak), XP: AwardedXP(base, streak)}
	case Review:
		return Reward{Mode: mode, Base: base, Multiplier: 1, XP: ReviewXP(base)}
	default:
		return Reward{Mode: mode, Base: base, Multiplier: 1, XP: QuickCompleteXP}
	}
}
