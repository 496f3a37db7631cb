// Package lesson runs one lesson attempt in the terminal.
package lesson

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/evaluator"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/screens/summary"
	"github.com/eduquest/eduquest/internal/screens/tutorchat"
	sess "github.com/eduquest/eduquest/internal/session"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/layout"
)

// LessonScreen implements screen.Screen for an active lesson attempt.
// Service calls that move the attempt run inside Update so that the
// session is never read and written concurrently.
type LessonScreen struct {
	deps     screens.Deps
	courseID string
	lessonID string

	attempt *progression.Attempt
	outcome *progression.Outcome

	// one widget per question type; only the current one is live
	mc          components.MultiChoice
	input       components.TextInput
	matching    *evaluator.MatchingBoard
	matchAnswer []course.Pair
	matchCursor int
	sequence    *evaluator.SequenceBoard

	refillBtn   components.Button
	confirmQuit bool
	notice      string
	errMsg      string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.EscapeCapturer = (*LessonScreen)(nil)

// New creates a LessonScreen for one lesson of a course.
func New(deps screens.Deps, courseID, lessonID string) *LessonScreen {
	return &LessonScreen{
		deps:      deps,
		courseID:  courseID,
		lessonID:  lessonID,
		input:     components.NewTextInput("Type your answer...", 80),
		refillBtn: components.NewButton("Refill hearts", "r", true, requestRefill),
	}
}

// refillRequestedMsg is emitted by the refill button.
type refillRequestedMsg struct{}

func requestRefill() tea.Cmd {
	return func() tea.Msg { return refillRequestedMsg{} }
}

func (s *LessonScreen) Init() tea.Cmd {
	deps, courseID, lessonID := s.deps, s.courseID, s.lessonID
	return func() tea.Msg {
		ctx, cancel := screens.Context()
		defer cancel()
		a, err := deps.Service.Start(ctx, deps.UserID, courseID, lessonID)
		return attemptStartedMsg{Attempt: a, Err: err}
	}
}

func (s *LessonScreen) Title() string {
	if s.attempt != nil {
		return s.attempt.Session.Lesson().Title
	}
	return "Lesson"
}

// CapturesEscape asks for confirmation before leaving a running attempt.
func (s *LessonScreen) CapturesEscape() bool {
	return s.attempt != nil && s.errMsg == ""
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.attempt == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave lesson"},
			{Key: "N", Description: "Keep going"},
		}
	}
	hints := s.questionHints()
	if !s.lesson().IsQuiz() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+D", Description: "Mark as read"})
	}
	if s.deps.NewTutor != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+T", Description: "QuestBot"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *LessonScreen) questionHints() []layout.KeyHint {
	switch {
	case s.attempt.Session.LockedOut():
		return []layout.KeyHint{{Key: "R", Description: "Refill hearts"}}
	case s.attempt.Session.Phase() == sess.PhaseChecked || s.current() == nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
	switch s.current().(type) {
	case *course.MultipleChoiceQuestion:
		return []layout.KeyHint{{Key: "1-4", Description: "Answer"}, {Key: "↑↓ Enter", Description: "Select"}}
	case *course.MatchingQuestion:
		return []layout.KeyHint{{Key: "↑↓", Description: "Prompt"}, {Key: "1-9", Description: "Match"}, {Key: "X", Description: "Clear"}, {Key: "Enter", Description: "Check"}}
	case *course.SequencingQuestion:
		return []layout.KeyHint{{Key: "1-9", Description: "Place"}, {Key: "Backspace", Description: "Undo"}, {Key: "Enter", Description: "Check"}}
	default:
		return []layout.KeyHint{{Key: "Enter", Description: "Check"}}
	}
}

func (s *LessonScreen) lesson() *course.Lesson {
	return s.attempt.Session.Lesson()
}

func (s *LessonScreen) current() course.Question {
	return s.attempt.Session.Current()
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case attemptStartedMsg:
		if msg.Err != nil {
			s.errMsg = startError(msg.Err)
			return s, nil
		}
		s.attempt = msg.Attempt
		return s, s.present()

	case refillRequestedMsg:
		if s.attempt == nil || !s.attempt.Session.LockedOut() {
			return s, nil
		}
		return s.refill()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.attempt != nil && s.textActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func startError(err error) string {
	switch {
	case errors.Is(err, progression.ErrNoHearts):
		return "You are out of hearts. Refill them from the home screen to start a new quiz."
	case errors.Is(err, progression.ErrUnknownLesson):
		return "This lesson no longer exists."
	}
	return err.Error()
}

// present resets the widgets for the current question.
func (s *LessonScreen) present() tea.Cmd {
	s.outcome = nil
	s.matching, s.matchAnswer, s.matchCursor, s.sequence = nil, nil, 0, nil

	switch q := s.current().(type) {
	case *course.MultipleChoiceQuestion:
		s.mc = components.NewMultiChoice(q.Options)
	case *course.FillInTheBlankQuestion:
		s.input = components.NewTextInput("Type your answer...", 80)
		return s.input.Init()
	case *course.MatchingQuestion:
		s.matching = evaluator.NewMatchingBoard(q)
		s.matchAnswer = s.attempt.Session.MatchingAnswers()
	case *course.SequencingQuestion:
		s.sequence = s.attempt.Session.NewSequenceBoard()
	}
	return nil
}

func (s *LessonScreen) textActive() bool {
	_, ok := s.current().(*course.FillInTheBlankQuestion)
	return ok && s.attempt.Session.Phase() == sess.PhasePresenting
}

func (s *LessonScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.attempt == nil {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "ctrl+t":
		if s.deps.NewTutor == nil {
			return s, nil
		}
		chat := tutorchat.New(s.deps, s.lesson())
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: chat} }
	case "ctrl+d":
		if !s.lesson().IsQuiz() {
			return s.finish(s.deps.Service.QuickComplete(context.Background(), s.attempt))
		}
		return s, nil
	}

	s.notice = ""
	if s.attempt.Session.LockedOut() {
		var cmd tea.Cmd
		s.refillBtn, cmd = s.refillBtn.Update(msg)
		return s, cmd
	}
	if s.attempt.Session.Phase() == sess.PhaseChecked || s.current() == nil {
		if key == "enter" || key == "space" {
			return s.finish(s.deps.Service.Advance(context.Background(), s.attempt))
		}
		return s, nil
	}
	return s.answerKey(msg)
}

// answerKey edits the answer widget of the current question.
func (s *LessonScreen) answerKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch q := s.current().(type) {
	case *course.MultipleChoiceQuestion:
		var chosen bool
		s.mc, chosen = s.mc.Update(msg)
		if chosen {
			return s.submit(evaluator.Choice{Index: s.mc.Chosen})
		}

	case *course.FillInTheBlankQuestion:
		if key == "enter" {
			return s.submit(evaluator.Text{Value: s.input.Value()})
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case *course.MatchingQuestion:
		switch key {
		case "up", "k":
			s.matchCursor = max(s.matchCursor-1, 0)
		case "down", "j":
			s.matchCursor = min(s.matchCursor+1, len(q.Prompts)-1)
		case "x", "backspace":
			s.matching.Unassign(q.Prompts[s.matchCursor].ID)
		case "enter":
			return s.submit(s.matching)
		default:
			if n, ok := digit(key); ok && n < len(s.matchAnswer) {
				s.matching.Assign(q.Prompts[s.matchCursor].ID, s.matchAnswer[n].ID)
				s.matchCursor = min(s.matchCursor+1, len(q.Prompts)-1)
			}
		}

	case *course.SequencingQuestion:
		switch key {
		case "backspace", "x":
			s.sequence.Remove(len(s.sequence.Placed()) - 1)
		case "enter":
			return s.submit(s.sequence)
		default:
			if n, ok := digit(key); ok {
				s.sequence.Place(n)
			}
		}
	}
	return s, nil
}

// digit maps "1".."9" to 0..8.
func digit(key string) (int, bool) {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '1'), true
	}
	return 0, false
}

func (s *LessonScreen) submit(sub evaluator.Submission) (screen.Screen, tea.Cmd) {
	out, err := s.deps.Service.Submit(context.Background(), s.attempt, sub)
	if err != nil && out.QuestionID == "" {
		s.mc.Retract()
		if errors.Is(err, evaluator.ErrIncomplete) {
			s.notice = "Finish your answer first."
		} else {
			s.notice = err.Error()
		}
		return s, nil
	}
	if err != nil {
		// The answer was checked; only bookkeeping failed.
		s.deps.Log().Warn("answer side effects failed", zap.String("lesson", s.lessonID), zap.Error(err))
	}

	s.outcome = &out
	if q, ok := s.current().(*course.MultipleChoiceQuestion); ok {
		s.mc.Reveal(q.CorrectAnswerIndex)
	}
	s.input.Submit(out.Correct)
	if len(out.CompletedQuests) > 0 {
		s.notice = fmt.Sprintf("Quest complete: %s (+%d XP)", out.CompletedQuests[0].Title, out.BonusXP)
	}
	return s, progressChanged
}

func (s *LessonScreen) refill() (screen.Screen, tea.Cmd) {
	st, err := s.deps.Service.RefillAttempt(context.Background(), s.attempt)
	if err != nil {
		s.notice = "Refill failed: " + err.Error()
		return s, nil
	}
	s.notice = fmt.Sprintf("Hearts refilled to %d. Keep going!", st.Hearts)
	return s, progressChanged
}

// finish handles the result of Advance and QuickComplete.
func (s *LessonScreen) finish(report *progression.Report, err error) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(err, sess.ErrLockedOut):
		s.notice = "Out of hearts. Refill to continue."
		return s, nil
	case err != nil:
		s.notice = err.Error()
		return s, nil
	case report == nil:
		return s, s.present()
	}
	next := summary.New(report)
	return s, tea.Batch(
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
		progressChanged,
	)
}

func progressChanged() tea.Msg {
	return router.ProgressChangedMsg{}
}
