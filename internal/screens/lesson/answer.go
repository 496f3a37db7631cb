package lesson

import (
	"strings"

	"github.com/eduquest/eduquest/internal/course"
)

// correctAnswer renders the expected answer of q for feedback.
func correctAnswer(q course.Question) string {
	switch q := q.(type) {
	case *course.MultipleChoiceQuestion:
		if q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < len(q.Options) {
			return q.Options[q.CorrectAnswerIndex]
		}
	case *course.FillInTheBlankQuestion:
		return q.CorrectAnswer
	case *course.MatchingQuestion:
		answers := make(map[string]string, len(q.Answers))
		for _, a := range q.Answers {
			answers[a.ID] = a.Content
		}
		pairs := make([]string, 0, len(q.Prompts))
		for _, p := range q.Prompts {
			pairs = append(pairs, p.Content+" → "+answers[p.ID])
		}
		return strings.Join(pairs, ", ")
	case *course.SequencingQuestion:
		return strings.Join(q.Items, " → ")
	}
	return ""
}

// videoURL returns the watch link of a video lesson.
func videoURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + id
}
