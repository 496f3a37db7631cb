package course

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is matched by every *MalformedError via errors.Is.
var ErrMalformed = errors.New("malformed catalog data")

// MalformedError reports catalog data whose shape disagrees with its
// discriminant or breaks a catalog invariant.
type MalformedError struct {
	CourseID   string
	LessonID   string
	QuestionID string
	Reason     string
}

func (e *MalformedError) Error() string {
	var loc []string
	if e.CourseID != "" {
		loc = append(loc, "course "+e.CourseID)
	}
	if e.LessonID != "" {
		loc = append(loc, "lesson "+e.LessonID)
	}
	if e.QuestionID != "" {
		loc = append(loc, "question "+e.QuestionID)
	}
	if len(loc) == 0 {
		return fmt.Sprintf("%s: %s", ErrMalformed, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformed, strings.Join(loc, " "), e.Reason)
}

// Is makes errors.Is(err, ErrMalformed) true.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func malformed(questionID, format string, args ...any) *MalformedError {
	return &MalformedError{QuestionID: questionID, Reason: fmt.Sprintf(format, args...)}
}

// inLesson fills the lesson (and course) location of a MalformedError that
// was raised without it.
func inLesson(err error, courseID, lessonID string) error {
	var me *MalformedError
	if errors.As(err, &me) {
		if me.LessonID == "" {
			me.LessonID = lessonID
		}
		if me.CourseID == "" {
			me.CourseID = courseID
		}
	}
	return err
}
