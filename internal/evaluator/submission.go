package evaluator

import (
	"github.com/eduquest/eduquest/internal/course"
)

// Submission is a learner's answer to one question. The concrete type
// must fit the question variant: Choice for multiple choice, Text for fill
// in the blank, *MatchingBoard for matching and *SequenceBoard (or
// Sequence) for sequencing.
type Submission interface {
	isSubmission()
}

// Choice selects an option by index.
type Choice struct {
	Index int
}

// Text is a free-text answer.
type Text struct {
	Value string
}

// Matching is a finished prompt id to answer id mapping, used where the
// interactive board is not needed (API requests, tests).
type Matching map[string]string

// Sequence is a finished ordering of item values.
type Sequence []string

func (Choice) isSubmission()   {}
func (Text) isSubmission()     {}
func (Matching) isSubmission() {}
func (Sequence) isSubmission() {}

// NewMatchingBoard returns an empty board for q.
func NewMatchingBoard(q *course.MatchingQuestion) *MatchingBoard {
	return &MatchingBoard{
		question: q,
		byPrompt: make(map[string]string, len(q.Prompts)),
		byAnswer: make(map[string]string, len(q.Answers)),
	}
}

// MatchingBoard is the interactive state of a matching answer. Answers are
// single use: assigning an answer that is already taken moves it.
type MatchingBoard struct {
	question *course.MatchingQuestion
	byPrompt map[string]string // prompt id -> answer id
	byAnswer map[string]string // answer id -> prompt id
}

func (*MatchingBoard) isSubmission() {}

// Assign pairs promptID with answerID. Any answer previously held by the
// prompt is released, and answerID is taken away from any other prompt.
// Unknown ids are ignored and reported as false.
func (b *MatchingBoard) Assign(promptID, answerID string) bool {
	if !b.hasPrompt(promptID) || !b.hasAnswer(answerID) {
		return false
	}
	if prev, ok := b.byAnswer[answerID]; ok {
		delete(b.byPrompt, prev)
	}
	if prev, ok := b.byPrompt[promptID]; ok {
		delete(b.byAnswer, prev)
	}
	b.byPrompt[promptID] = answerID
	b.byAnswer[answerID] = promptID
	return true
}

// Unassign clears the answer held by promptID.
func (b *MatchingBoard) Unassign(promptID string) {
	if a, ok := b.byPrompt[promptID]; ok {
		delete(b.byAnswer, a)
		delete(b.byPrompt, promptID)
	}
}

// Assignment returns the answer id held by promptID.
func (b *MatchingBoard) Assignment(promptID string) (string, bool) {
	a, ok := b.byPrompt[promptID]
	return a, ok
}

// AssignedTo returns the prompt currently holding answerID.
func (b *MatchingBoard) AssignedTo(answerID string) (string, bool) {
	p, ok := b.byAnswer[answerID]
	return p, ok
}

// Mapping returns a copy of the current assignment.
func (b *MatchingBoard) Mapping() Matching {
	m := make(Matching, len(b.byPrompt))
	for p, a := range b.byPrompt {
		m[p] = a
	}
	return m
}

// Reset clears every assignment.
func (b *MatchingBoard) Reset() {
	clear(b.byPrompt)
	clear(b.byAnswer)
}

func (b *MatchingBoard) hasPrompt(id string) bool {
	for _, p := range b.question.Prompts {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (b *MatchingBoard) hasAnswer(id string) bool {
	for _, a := range b.question.Answers {
		if a.ID == id {
			return true
		}
	}
	return false
}

// SequenceBoard is the interactive state of a sequencing answer: a
// shuffled pool of available items and the list placed so far. Every item
// is in exactly one of the two.
type SequenceBoard struct {
	total     int
	available []string
	placed    []string
}

func (*SequenceBoard) isSubmission() {}

// NewSequenceBoard shuffles q's items into the available pool.
func NewSequenceBoard(q *course.SequencingQuestion, s *Shuffler) *SequenceBoard {
	return &SequenceBoard{
		total:     len(q.Items),
		available: s.Strings(q.Items),
	}
}

// Available returns the items not yet placed, in presentation order.
func (b *SequenceBoard) Available() []string {
	return append([]string(nil), b.available...)
}

// Placed returns the items placed so far, in order.
func (b *SequenceBoard) Placed() []string {
	return append([]string(nil), b.placed...)
}

// Place moves the i-th available item to the end of the placed list.
func (b *SequenceBoard) Place(i int) bool {
	if i < 0 || i >= len(b.available) {
		return false
	}
	item := b.available[i]
	b.available = append(b.available[:i], b.available[i+1:]...)
	b.placed = append(b.placed, item)
	return true
}

// Remove moves the i-th placed item back to the end of the pool.
func (b *SequenceBoard) Remove(i int) bool {
	if i < 0 || i >= len(b.placed) {
		return false
	}
	item := b.placed[i]
	b.placed = append(b.placed[:i], b.placed[i+1:]...)
	b.available = append(b.available, item)
	return true
}

// Reset returns every placed item to the pool.
func (b *SequenceBoard) Reset() {
	b.available = append(b.available, b.placed...)
	b.placed = nil
}
