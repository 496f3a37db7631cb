package session

import (
	"errors"

	"github.com/eduquest/eduquest/internal/course"
)

// Phase is the state of a lesson attempt.
type Phase int

const (
	PhasePresenting Phase = iota // Waiting for an answer to the current question
	PhaseChecked                 // Answer evaluated, feedback showing
	PhaseCompleted               // Terminal
)

func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseChecked:
		return "checked"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	// ErrLockedOut blocks advancing after the last heart was lost on a
	// first-time quiz. It clears when HeartsChanged reports hearts again.
	ErrLockedOut = errors.New("out of hearts: refill to continue")

	// ErrNotPresenting is returned by Submit outside PhasePresenting.
	ErrNotPresenting = errors.New("no question is awaiting an answer")

	// ErrNotChecked is returned by Advance before the current answer was
	// checked.
	ErrNotChecked = errors.New("current question has not been checked")

	// ErrCompleted is returned by every transition once the attempt is
	// complete.
	ErrCompleted = errors.New("lesson attempt already completed")

	// ErrQuickCompleteQuiz rejects the mark-as-read shortcut on quizzes.
	ErrQuickCompleteQuiz = errors.New("quizzes cannot be quick-completed")
)

// Outcome is the result of one Submit, the onAnswer event.
type Outcome struct {
	QuestionID   string
	QuestionType course.QuestionType
	Correct      bool

	// DeductHeart is set for a wrong answer on a first-time quiz. The
	// session does not own hearts; the caller deducts and reports back
	// through HeartsChanged.
	DeductHeart bool
}

// Transition is the result of Advance or QuickComplete. Completed carries
// the onComplete event.
type Transition struct {
	LessonID  string
	Completed bool
	Quick     bool
	Retry     bool // a wrong inline answer is presented again
}

// Result tracks one question within the attempt.
type Result struct {
	QuestionID   string
	QuestionType course.QuestionType
	Attempts     int
	Correct      bool // last answer
	FirstTry     bool // correct on the first attempt
}
