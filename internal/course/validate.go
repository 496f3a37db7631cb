package course

import (
	"reflect"
	"strings"
)

// Validate checks every catalog invariant of c and returns the first
// violation as a *MalformedError.
//
// Question ids must be unique within a lesson. The same id may appear in
// several lessons only when every occurrence is the identical question;
// review lessons rely on that to share answer history with the lessons
// they were built from.
func Validate(c *Course) error {
	if strings.TrimSpace(c.ID) == "" {
		return &MalformedError{Reason: "course id is empty"}
	}
	if strings.TrimSpace(c.Title) == "" {
		return &MalformedError{CourseID: c.ID, Reason: "course title is empty"}
	}
	if len(c.Lessons) == 0 {
		return &MalformedError{CourseID: c.ID, Reason: "course has no lessons"}
	}

	lessonIDs := make(map[string]bool, len(c.Lessons))
	questions := make(map[string]Question)
	for i := range c.Lessons {
		l := &c.Lessons[i]
		if lessonIDs[l.ID] {
			return &MalformedError{CourseID: c.ID, LessonID: l.ID, Reason: "duplicate lesson id"}
		}
		lessonIDs[l.ID] = true

		if err := ValidateLesson(l); err != nil {
			return inLesson(err, c.ID, l.ID)
		}
		for _, q := range l.Questions {
			prev, seen := questions[q.QuestionID()]
			if seen && !reflect.DeepEqual(prev, q) {
				return &MalformedError{
					CourseID:   c.ID,
					LessonID:   l.ID,
					QuestionID: q.QuestionID(),
					Reason:     "question id reused with different content",
				}
			}
			questions[q.QuestionID()] = q
		}
	}
	return nil
}

// ValidateLesson checks a single lesson in isolation.
func ValidateLesson(l *Lesson) error {
	if strings.TrimSpace(l.ID) == "" {
		return &MalformedError{Reason: "lesson id is empty"}
	}
	if strings.TrimSpace(l.Title) == "" {
		return &MalformedError{LessonID: l.ID, Reason: "lesson title is empty"}
	}

	switch l.Type {
	case LessonQuiz:
		if len(l.Questions) == 0 {
			return &MalformedError{LessonID: l.ID, Reason: "quiz lesson has no questions"}
		}
		if l.VideoID != "" {
			return &MalformedError{LessonID: l.ID, Reason: "quiz lesson carries a video id"}
		}
	case LessonReading:
		if strings.TrimSpace(l.Content) == "" {
			return &MalformedError{LessonID: l.ID, Reason: "reading lesson has no content"}
		}
		if l.VideoID != "" {
			return &MalformedError{LessonID: l.ID, Reason: "reading lesson carries a video id"}
		}
	case LessonVideo:
		if strings.TrimSpace(l.VideoID) == "" {
			return &MalformedError{LessonID: l.ID, Reason: "video lesson has no video id"}
		}
	default:
		return &MalformedError{LessonID: l.ID, Reason: "unknown lesson type " + string(l.Type)}
	}

	seen := make(map[string]bool, len(l.Questions))
	for _, q := range l.Questions {
		if err := ValidateQuestion(q); err != nil {
			return inLesson(err, "", l.ID)
		}
		if seen[q.QuestionID()] {
			return &MalformedError{LessonID: l.ID, QuestionID: q.QuestionID(), Reason: "duplicate question id"}
		}
		seen[q.QuestionID()] = true
	}
	return nil
}

// ValidateQuestion checks the variant-specific invariants of q.
func ValidateQuestion(q Question) error {
	if q == nil || reflect.ValueOf(q).IsNil() {
		return malformed("", "question is nil")
	}
	if strings.TrimSpace(q.QuestionID()) == "" {
		return malformed("", "question id is empty")
	}
	if strings.TrimSpace(q.QuestionText()) == "" {
		return malformed(q.QuestionID(), "question text is empty")
	}

	switch v := q.(type) {
	case *MultipleChoiceQuestion:
		if len(v.Options) < 2 {
			return malformed(v.ID, "multiple choice needs at least 2 options, has %d", len(v.Options))
		}
		for i, o := range v.Options {
			if strings.TrimSpace(o) == "" {
				return malformed(v.ID, "option %d is empty", i)
			}
		}
		if v.CorrectAnswerIndex < 0 || v.CorrectAnswerIndex >= len(v.Options) {
			return malformed(v.ID, "correct answer index %d out of range [0,%d)", v.CorrectAnswerIndex, len(v.Options))
		}
	case *FillInTheBlankQuestion:
		if strings.TrimSpace(v.CorrectAnswer) == "" {
			return malformed(v.ID, "correct answer is empty")
		}
	case *MatchingQuestion:
		return validateMatching(v)
	case *SequencingQuestion:
		if len(v.Items) < 2 {
			return malformed(v.ID, "sequencing needs at least 2 items, has %d", len(v.Items))
		}
		seen := make(map[string]bool, len(v.Items))
		for _, item := range v.Items {
			if strings.TrimSpace(item) == "" {
				return malformed(v.ID, "sequencing item is empty")
			}
			if seen[item] {
				return malformed(v.ID, "duplicate sequencing item %q", item)
			}
			seen[item] = true
		}
	}
	return nil
}

func validateMatching(q *MatchingQuestion) error {
	if len(q.Prompts) == 0 {
		return malformed(q.ID, "matching question has no prompts")
	}
	if len(q.Answers) != len(q.Prompts) {
		return malformed(q.ID, "matching question has %d prompts but %d answers", len(q.Prompts), len(q.Answers))
	}
	answers := make(map[string]bool, len(q.Answers))
	for _, a := range q.Answers {
		if a.ID == "" || strings.TrimSpace(a.Content) == "" {
			return malformed(q.ID, "matching answer has empty id or content")
		}
		if answers[a.ID] {
			return malformed(q.ID, "duplicate answer id %q", a.ID)
		}
		answers[a.ID] = true
	}
	prompts := make(map[string]bool, len(q.Prompts))
	for _, p := range q.Prompts {
		if p.ID == "" || strings.TrimSpace(p.Content) == "" {
			return malformed(q.ID, "matching prompt has empty id or content")
		}
		if prompts[p.ID] {
			return malformed(q.ID, "duplicate prompt id %q", p.ID)
		}
		prompts[p.ID] = true
		if !answers[p.ID] {
			return malformed(q.ID, "prompt %q has no answer with the same id", p.ID)
		}
	}
	return nil
}
