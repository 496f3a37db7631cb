package course

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// QuestionDoc is the flat wire form of a Question. Exactly the fields of
// the variant named by Type may be populated; anything else is rejected
// on decode. An empty Type is read as MULTIPLE_CHOICE so that catalogs
// written before the other variants existed keep loading.
type QuestionDoc struct {
	ID                 string       `json:"id" yaml:"id"`
	Type               QuestionType `json:"type,omitempty" yaml:"type,omitempty"`
	Text               string       `json:"text" yaml:"text"`
	Options            []string     `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswerIndex *int         `json:"correctAnswerIndex,omitempty" yaml:"correct_answer_index,omitempty"`
	CorrectAnswer      string       `json:"correctAnswer,omitempty" yaml:"correct_answer,omitempty"`
	Prompts            []Pair       `json:"prompts,omitempty" yaml:"prompts,omitempty"`
	Answers            []Pair       `json:"answers,omitempty" yaml:"answers,omitempty"`
	Items              []string     `json:"items,omitempty" yaml:"items,omitempty"`
}

// allowed payload fields per variant
var variantFields = map[QuestionType]map[string]bool{
	MultipleChoice: {"options": true, "correctAnswerIndex": true},
	FillInTheBlank: {"correctAnswer": true},
	Matching:       {"prompts": true, "answers": true},
	Sequencing:     {"items": true},
}

func (d *QuestionDoc) populated() []string {
	var out []string
	if d.Options != nil {
		out = append(out, "options")
	}
	if d.CorrectAnswerIndex != nil {
		out = append(out, "correctAnswerIndex")
	}
	if d.CorrectAnswer != "" {
		out = append(out, "correctAnswer")
	}
	if d.Prompts != nil {
		out = append(out, "prompts")
	}
	if d.Answers != nil {
		out = append(out, "answers")
	}
	if d.Items != nil {
		out = append(out, "items")
	}
	return out
}

// ToQuestion converts the wire form into its variant, failing with a
// *MalformedError when the payload does not match the discriminant.
func (d QuestionDoc) ToQuestion() (Question, error) {
	typ := d.Type
	if typ == "" {
		typ = MultipleChoice
	}
	allowed, ok := variantFields[typ]
	if !ok {
		return nil, malformed(d.ID, "unknown question type %q", d.Type)
	}
	var foreign []string
	for _, f := range d.populated() {
		if !allowed[f] {
			foreign = append(foreign, f)
		}
	}
	if len(foreign) > 0 {
		sort.Strings(foreign)
		return nil, malformed(d.ID, "%s question carries foreign fields %v", typ, foreign)
	}

	switch typ {
	case MultipleChoice:
		if d.CorrectAnswerIndex == nil {
			return nil, malformed(d.ID, "multiple choice question has no correct answer index")
		}
		return &MultipleChoiceQuestion{
			ID:                 d.ID,
			Text:               d.Text,
			Options:            d.Options,
			CorrectAnswerIndex: *d.CorrectAnswerIndex,
		}, nil
	case FillInTheBlank:
		return &FillInTheBlankQuestion{ID: d.ID, Text: d.Text, CorrectAnswer: d.CorrectAnswer}, nil
	case Matching:
		return &MatchingQuestion{ID: d.ID, Text: d.Text, Prompts: d.Prompts, Answers: d.Answers}, nil
	default:
		return &SequencingQuestion{ID: d.ID, Text: d.Text, Items: d.Items}, nil
	}
}

// DocOf returns the wire form of q.
func DocOf(q Question) QuestionDoc {
	switch v := q.(type) {
	case *MultipleChoiceQuestion:
		idx := v.CorrectAnswerIndex
		return QuestionDoc{ID: v.ID, Type: MultipleChoice, Text: v.Text, Options: v.Options, CorrectAnswerIndex: &idx}
	case *FillInTheBlankQuestion:
		return QuestionDoc{ID: v.ID, Type: FillInTheBlank, Text: v.Text, CorrectAnswer: v.CorrectAnswer}
	case *MatchingQuestion:
		return QuestionDoc{ID: v.ID, Type: Matching, Text: v.Text, Prompts: v.Prompts, Answers: v.Answers}
	case *SequencingQuestion:
		return QuestionDoc{ID: v.ID, Type: Sequencing, Text: v.Text, Items: v.Items}
	}
	return QuestionDoc{}
}

// lessonDoc is the wire form of a Lesson.
type lessonDoc struct {
	ID        string        `json:"id" yaml:"id"`
	Title     string        `json:"title" yaml:"title"`
	Type      LessonType    `json:"type" yaml:"type"`
	Questions []QuestionDoc `json:"questions,omitempty" yaml:"questions,omitempty"`
	Content   string        `json:"content,omitempty" yaml:"content,omitempty"`
	VideoID   string        `json:"videoId,omitempty" yaml:"video_id,omitempty"`
}

func (l Lesson) toDoc() lessonDoc {
	doc := lessonDoc{ID: l.ID, Title: l.Title, Type: l.Type, Content: l.Content, VideoID: l.VideoID}
	for _, q := range l.Questions {
		doc.Questions = append(doc.Questions, DocOf(q))
	}
	return doc
}

func (l *Lesson) fromDoc(doc lessonDoc) error {
	typ := doc.Type
	if typ == "" {
		typ = LessonQuiz
	}
	out := Lesson{ID: doc.ID, Title: doc.Title, Type: typ, Content: doc.Content, VideoID: doc.VideoID}
	for _, qd := range doc.Questions {
		q, err := qd.ToQuestion()
		if err != nil {
			return inLesson(err, "", doc.ID)
		}
		out.Questions = append(out.Questions, q)
	}
	*l = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lesson) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.toDoc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lesson) UnmarshalJSON(data []byte) error {
	var doc lessonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return l.fromDoc(doc)
}

// MarshalYAML implements yaml.Marshaler.
func (l Lesson) MarshalYAML() (any, error) {
	return l.toDoc(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Lesson) UnmarshalYAML(node *yaml.Node) error {
	var doc lessonDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	return l.fromDoc(doc)
}

// DecodeJSON parses and validates a course document.
func DecodeJSON(data []byte) (*Course, error) {
	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, inCourse(err, c.ID)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func inCourse(err error, courseID string) error {
	return inLesson(err, courseID, "")
}
