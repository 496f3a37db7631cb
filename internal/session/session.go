// Package session runs a single lesson attempt: it presents questions in
// order, checks answers through the evaluator and reports heart
// deductions and completion to its caller.
package session

import (
	"fmt"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/evaluator"
)

// Options configures a Session.
type Options struct {
	// Review marks a repeat of an already completed lesson. Reviews never
	// deduct hearts and can never lock out.
	Review bool

	// Shuffler orders matching answers and sequencing pools. Nil uses the
	// runtime random source.
	Shuffler *evaluator.Shuffler
}

// Session is the state machine of one lesson attempt. It is not safe for
// concurrent use.
type Session struct {
	// lesson is the lesson being attempted; validated at construction.
	lesson *course.Lesson

	// review is true when the lesson was already completed before.
	review bool

	shuffler *evaluator.Shuffler

	// phase and index together are Presenting(i), Checked(i) or Completed.
	phase Phase
	index int

	// lastCorrect is the verdict of the most recent Submit.
	lastCorrect bool

	// deducted is true when the answer now in Checked asked for a heart.
	deducted bool

	// lockedOut blocks Advance until hearts are refilled.
	lockedOut bool

	// results by question id, plus their first-answer order.
	results map[string]*Result
	order   []string

	answers int
	wrong   int

	// answers in presentation order for the current question
	shuffledAnswers []course.Pair
}

// New starts an attempt at lesson in Presenting(0).
func New(lesson *course.Lesson, opts Options) (*Session, error) {
	if lesson == nil {
		return nil, fmt.Errorf("start session: nil lesson")
	}
	if err := course.ValidateLesson(lesson); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s := &Session{
		lesson:   lesson,
		review:   opts.Review,
		shuffler: opts.Shuffler,
		phase:    PhasePresenting,
		results:  make(map[string]*Result, len(lesson.Questions)),
	}
	s.present()
	return s, nil
}

func (s *Session) present() {
	s.shuffledAnswers = nil
	if m, ok := s.Current().(*course.MatchingQuestion); ok {
		s.shuffledAnswers = s.shuffler.Pairs(m.Answers)
	}
}

// Lesson returns the lesson being attempted.
func (s *Session) Lesson() *course.Lesson { return s.lesson }

// Review reports whether this is a review attempt.
func (s *Session) Review() bool { return s.review }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the position of the current question.
func (s *Session) Index() int { return s.index }

// LastCorrect reports the verdict of the most recent answer.
func (s *Session) LastCorrect() bool { return s.lastCorrect }

// LockedOut reports whether Advance is blocked for lack of hearts.
func (s *Session) LockedOut() bool { return s.lockedOut }

// Current returns the question at the current index, or nil for a lesson
// without questions and once completed.
func (s *Session) Current() course.Question {
	if s.phase == PhaseCompleted || s.index >= len(s.lesson.Questions) {
		return nil
	}
	return s.lesson.Questions[s.index]
}

// MatchingAnswers returns the current matching question's answers in
// shuffled presentation order.
func (s *Session) MatchingAnswers() []course.Pair {
	return append([]course.Pair(nil), s.shuffledAnswers...)
}

// NewSequenceBoard returns a shuffled board for the current sequencing
// question, or nil if the current question is not one.
func (s *Session) NewSequenceBoard() *evaluator.SequenceBoard {
	q, ok := s.Current().(*course.SequencingQuestion)
	if !ok {
		return nil
	}
	return evaluator.NewSequenceBoard(q, s.shuffler)
}

// Progress returns how many questions are behind the learner and the total.
func (s *Session) Progress() (done, total int) {
	total = len(s.lesson.Questions)
	if s.phase == PhaseCompleted {
		return total, total
	}
	return s.index, total
}

// Results returns per-question results in the order first answered.
func (s *Session) Results() []Result {
	out := make([]Result, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.results[id])
	}
	return out
}

// Perfect reports a completed quiz with no wrong answer.
func (s *Session) Perfect() bool {
	return s.phase == PhaseCompleted && s.lesson.IsQuiz() && s.wrong == 0 && s.answers > 0
}

// Submit checks sub against the current question and moves to
// PhaseChecked. Incomplete or mismatched submissions are returned as
// errors from the evaluator and leave the state unchanged.
func (s *Session) Submit(sub evaluator.Submission) (Outcome, error) {
	switch {
	case s.phase == PhaseCompleted:
		return Outcome{}, ErrCompleted
	case s.phase != PhasePresenting:
		return Outcome{}, ErrNotPresenting
	}
	q := s.Current()
	if q == nil {
		return Outcome{}, ErrNotPresenting
	}

	correct, err := evaluator.Evaluate(q, sub)
	if err != nil {
		return Outcome{}, err
	}

	r, ok := s.results[q.QuestionID()]
	if !ok {
		r = &Result{QuestionID: q.QuestionID(), QuestionType: q.Type(), FirstTry: correct}
		s.results[q.QuestionID()] = r
		s.order = append(s.order, q.QuestionID())
	}
	r.Attempts++
	r.Correct = correct

	s.answers++
	if !correct {
		s.wrong++
	}
	s.lastCorrect = correct
	s.deducted = !correct && s.lesson.IsQuiz() && !s.review
	s.phase = PhaseChecked

	return Outcome{
		QuestionID:   q.QuestionID(),
		QuestionType: q.Type(),
		Correct:      correct,
		DeductHeart:  s.deducted,
	}, nil
}

// HeartsChanged reports the learner's hearts after a deduction or refill.
// Reaching zero on the answer that deducted a heart locks the attempt;
// any positive count lifts the lock.
func (s *Session) HeartsChanged(remaining int) {
	if remaining > 0 {
		s.lockedOut = false
		return
	}
	if s.phase == PhaseChecked && s.deducted {
		s.lockedOut = true
	}
}

// Advance leaves PhaseChecked. Quizzes always move to the next question;
// a wrong inline answer in a reading or video lesson is presented again.
// Lessons without questions complete directly from PhasePresenting.
func (s *Session) Advance() (Transition, error) {
	if s.phase == PhaseCompleted {
		return Transition{}, ErrCompleted
	}
	if s.lockedOut {
		return Transition{}, ErrLockedOut
	}
	if len(s.lesson.Questions) == 0 {
		return s.complete(false), nil
	}
	if s.phase != PhaseChecked {
		return Transition{}, ErrNotChecked
	}

	s.deducted = false
	if !s.lesson.IsQuiz() && !s.lastCorrect {
		s.phase = PhasePresenting
		s.present()
		return Transition{LessonID: s.lesson.ID, Retry: true}, nil
	}
	if s.index+1 < len(s.lesson.Questions) {
		s.index++
		s.phase = PhasePresenting
		s.present()
		return Transition{LessonID: s.lesson.ID}, nil
	}
	return s.complete(false), nil
}

// QuickComplete finishes a reading or video lesson without answering its
// questions.
func (s *Session) QuickComplete() (Transition, error) {
	if s.phase == PhaseCompleted {
		return Transition{}, ErrCompleted
	}
	if s.lesson.IsQuiz() {
		return Transition{}, ErrQuickCompleteQuiz
	}
	return s.complete(true), nil
}

func (s *Session) complete(quick bool) Transition {
	s.phase = PhaseCompleted
	s.shuffledAnswers = nil
	return Transition{LessonID: s.lesson.ID, Completed: true, Quick: quick}
}
