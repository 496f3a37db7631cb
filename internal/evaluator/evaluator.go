// Package evaluator decides whether a submission answers a question
// correctly. Everything here is pure except the interactive boards, which
// only hold UI state.
package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eduquest/eduquest/internal/course"
)

// ErrIncomplete is returned when a submission is not yet checkable.
var ErrIncomplete = errors.New("submission is incomplete")

// MismatchError reports a submission whose variant does not fit the
// question.
type MismatchError struct {
	QuestionType course.QuestionType
	Submission   Submission
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%T cannot answer a %s question", e.Submission, e.QuestionType)
}

// Normalize is the comparison form of free-text answers.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Complete reports whether sub is checkable for q. Mismatched or nil
// submissions are never complete.
func Complete(q course.Question, sub Submission) bool {
	switch s := sub.(type) {
	case Choice:
		mc, ok := q.(*course.MultipleChoiceQuestion)
		return ok && s.Index >= 0 && s.Index < len(mc.Options)
	case Text:
		_, ok := q.(*course.FillInTheBlankQuestion)
		return ok && strings.TrimSpace(s.Value) != ""
	case *MatchingBoard:
		return s != nil && matchingComplete(q, s.Mapping())
	case Matching:
		return matchingComplete(q, s)
	case *SequenceBoard:
		if s == nil {
			return false
		}
		sq, ok := q.(*course.SequencingQuestion)
		return ok && s.total == len(sq.Items) && len(s.placed) == s.total
	case Sequence:
		sq, ok := q.(*course.SequencingQuestion)
		return ok && len(s) == len(sq.Items)
	}
	return false
}

func matchingComplete(q course.Question, m Matching) bool {
	mq, ok := q.(*course.MatchingQuestion)
	if !ok {
		return false
	}
	used := make(map[string]bool, len(m))
	for _, p := range mq.Prompts {
		a, ok := m[p.ID]
		if !ok || a == "" || used[a] {
			return false
		}
		used[a] = true
	}
	return true
}

// Evaluate checks sub against q. It validates q first so that malformed
// catalog data surfaces as a *course.MalformedError instead of an
// incorrect answer. An uncheckable submission yields ErrIncomplete and a
// submission of the wrong variant yields *MismatchError.
func Evaluate(q course.Question, sub Submission) (bool, error) {
	if err := course.ValidateQuestion(q); err != nil {
		return false, err
	}
	if !fits(q, sub) {
		return false, &MismatchError{QuestionType: q.Type(), Submission: sub}
	}
	if !Complete(q, sub) {
		return false, ErrIncomplete
	}

	switch v := q.(type) {
	case *course.MultipleChoiceQuestion:
		return sub.(Choice).Index == v.CorrectAnswerIndex, nil
	case *course.FillInTheBlankQuestion:
		return Normalize(sub.(Text).Value) == Normalize(v.CorrectAnswer), nil
	case *course.MatchingQuestion:
		m := matchingOf(sub)
		for _, p := range v.Prompts {
			if m[p.ID] != p.ID {
				return false, nil
			}
		}
		return true, nil
	case *course.SequencingQuestion:
		order := sequenceOf(sub)
		for i, item := range v.Items {
			if order[i] != item {
				return false, nil
			}
		}
		return true, nil
	}
	return false, &MismatchError{QuestionType: q.Type(), Submission: sub}
}

func fits(q course.Question, sub Submission) bool {
	switch sub.(type) {
	case Choice:
		return q.Type() == course.MultipleChoice
	case Text:
		return q.Type() == course.FillInTheBlank
	case *MatchingBoard, Matching:
		return q.Type() == course.Matching
	case *SequenceBoard, Sequence:
		return q.Type() == course.Sequencing
	}
	return false
}

func matchingOf(sub Submission) Matching {
	if b, ok := sub.(*MatchingBoard); ok {
		return b.Mapping()
	}
	return sub.(Matching)
}

func sequenceOf(sub Submission) []string {
	if b, ok := sub.(*SequenceBoard); ok {
		return b.Placed()
	}
	return sub.(Sequence)
}
