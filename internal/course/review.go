package course

import (
	"fmt"
	"strings"
)

// ReviewLessonPrefix starts the id of every generated review lesson.
const ReviewLessonPrefix = "review-"

// IsReviewLesson reports whether l was produced by BuildReviewLesson.
func IsReviewLesson(l *Lesson) bool {
	return strings.HasPrefix(l.ID, ReviewLessonPrefix)
}

// BuildReviewLesson collects every question of c whose last recorded
// answer was wrong into a new QUIZ lesson. Questions keep their ids so the
// answer history they update is the one they were selected from. It
// returns false when there is nothing to review.
func BuildReviewLesson(c *Course, history map[string]bool) (Lesson, bool) {
	var (
		picked   []Question
		seen     = make(map[string]bool)
		previous int
	)
	for i := range c.Lessons {
		l := &c.Lessons[i]
		if IsReviewLesson(l) {
			previous++
			continue
		}
		for _, q := range l.Questions {
			id := q.QuestionID()
			correct, answered := history[id]
			if !answered || correct || seen[id] {
				continue
			}
			seen[id] = true
			picked = append(picked, q)
		}
	}
	if len(picked) == 0 {
		return Lesson{}, false
	}
	return Lesson{
		ID:        fmt.Sprintf("%s%s-%d", ReviewLessonPrefix, c.ID, previous+1),
		Title:     "Personalized Review",
		Type:      LessonQuiz,
		Questions: picked,
	}, true
}
