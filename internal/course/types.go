package course

// LessonType determines which payload a lesson carries.
type LessonType string

const (
	LessonQuiz    LessonType = "QUIZ"
	LessonReading LessonType = "READING"
	LessonVideo   LessonType = "VIDEO"
)

// Valid reports whether t is one of the known lesson types.
func (t LessonType) Valid() bool {
	switch t {
	case LessonQuiz, LessonReading, LessonVideo:
		return true
	}
	return false
}

// QuestionType is the discriminant of the Question union.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	FillInTheBlank QuestionType = "FILL_IN_THE_BLANK"
	Matching       QuestionType = "MATCHING"
	Sequencing     QuestionType = "SEQUENCING"
)

// AllQuestionTypes lists every question variant in display order.
var AllQuestionTypes = []QuestionType{MultipleChoice, FillInTheBlank, Matching, Sequencing}

// DisplayName returns a human-readable name for the question type.
func (t QuestionType) DisplayName() string {
	switch t {
	case MultipleChoice:
		return "Multiple choice"
	case FillInTheBlank:
		return "Fill in the blank"
	case Matching:
		return "Matching"
	case Sequencing:
		return "Sequencing"
	default:
		return string(t)
	}
}

// Question is a closed union over the four question variants. The
// unexported marker keeps other packages from adding variants, so a type
// switch over the four concrete types is exhaustive.
type Question interface {
	QuestionID() string
	QuestionText() string
	Type() QuestionType
	isQuestion()
}

// MultipleChoiceQuestion asks the learner to pick one of Options.
type MultipleChoiceQuestion struct {
	ID                 string
	Text               string
	Options            []string
	CorrectAnswerIndex int
}

// FillInTheBlankQuestion is answered with free text compared after
// trimming and case folding.
type FillInTheBlankQuestion struct {
	ID            string
	Text          string
	CorrectAnswer string
}

// Pair is one side of a matching question. Answer ids double as the
// ground-truth key: prompt p is matched correctly by the answer whose id
// equals p.ID.
type Pair struct {
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// MatchingQuestion pairs every prompt with exactly one answer.
type MatchingQuestion struct {
	ID      string
	Text    string
	Prompts []Pair
	Answers []Pair
}

// SequencingQuestion holds Items in their correct order.
type SequencingQuestion struct {
	ID    string
	Text  string
	Items []string
}

func (q *MultipleChoiceQuestion) QuestionID() string   { return q.ID }
func (q *MultipleChoiceQuestion) QuestionText() string { return q.Text }
func (q *MultipleChoiceQuestion) Type() QuestionType   { return MultipleChoice }
func (q *MultipleChoiceQuestion) isQuestion()          {}

func (q *FillInTheBlankQuestion) QuestionID() string   { return q.ID }
func (q *FillInTheBlankQuestion) QuestionText() string { return q.Text }
func (q *FillInTheBlankQuestion) Type() QuestionType   { return FillInTheBlank }
func (q *FillInTheBlankQuestion) isQuestion()          {}

func (q *MatchingQuestion) QuestionID() string   { return q.ID }
func (q *MatchingQuestion) QuestionText() string { return q.Text }
func (q *MatchingQuestion) Type() QuestionType   { return Matching }
func (q *MatchingQuestion) isQuestion()          {}

func (q *SequencingQuestion) QuestionID() string   { return q.ID }
func (q *SequencingQuestion) QuestionText() string { return q.Text }
func (q *SequencingQuestion) Type() QuestionType   { return Sequencing }
func (q *SequencingQuestion) isQuestion()          {}

// Lesson is one unit of a course. Type decides which of Questions,
// Content and VideoID are meaningful; READING and VIDEO lessons may also
// carry inline questions.
type Lesson struct {
	ID        string
	Title     string
	Type      LessonType
	Questions []Question
	Content   string
	VideoID   string
}

// IsQuiz reports whether the lesson is a scored quiz.
func (l *Lesson) IsQuiz() bool {
	return l.Type == LessonQuiz
}

// Question returns the question with the given id.
func (l *Lesson) Question(id string) (Question, bool) {
	for _, q := range l.Questions {
		if q != nil && q.QuestionID() == id {
			return q, true
		}
	}
	return nil, false
}

// Course is an ordered sequence of lessons. Once stored, a course only
// changes by appending lessons.
type Course struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Lessons     []Lesson `json:"lessons" yaml:"lessons"`
}

// Lesson returns a pointer to the lesson with the given id.
func (c *Course) Lesson(id string) (*Lesson, bool) {
	for i := range c.Lessons {
		if c.Lessons[i].ID == id {
			return &c.Lessons[i], true
		}
	}
	return nil, false
}

// LessonIDs returns lesson ids in course order.
func (c *Course) LessonIDs() []string {
	ids := make([]string, len(c.Lessons))
	for i, l := range c.Lessons {
		ids[i] = l.ID
	}
	return ids
}

// CompletedBy reports whether every lesson of the course is in completed.
// A course without lessons is never complete.
func (c *Course) CompletedBy(completed map[string]bool) bool {
	if len(c.Lessons) == 0 {
		return false
	}
	for _, l := range c.Lessons {
		if !completed[l.ID] {
			return false
		}
	}
	return true
}

// AppendLesson adds l to the end of the course after validating it
// against the existing lessons.
func (c *Course) AppendLesson(l Lesson) error {
	next := *c
	next.Lessons = append(append([]Lesson(nil), c.Lessons...), l)
	if err := Validate(&next); err != nil {
		return err
	}
	c.Lessons = next.Lessons
	return nil
}
