// Package coursegen turns free text or a PDF into a quiz course with an
// LLM.
package coursegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
)

// MaxPDFBytes caps uploaded documents.
const MaxPDFBytes = 10 << 20

var (
	ErrEmptyContent = errors.New("content is empty: paste text or provide a PDF with text")
	ErrNotPDF       = errors.New("file is not a PDF document")
	ErrPDFTooLarge  = fmt.Errorf("PDF exceeds %d MB", MaxPDFBytes>>20)
)

// GenerationError wraps a provider failure or an unusable model response.
// Generation is never retried beyond what the provider itself does.
type GenerationError struct {
	Stage string // "generate", "parse" or "validate"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("course generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ProviderConfig disables retries on cfg; a failed generation is reported
// to the author instead.
func ProviderConfig(cfg llm.Config) llm.Config {
	cfg.Retry.MaxAttempts = 1
	return cfg
}

// Generator builds courses through an llm.Provider.
type Generator struct {
	provider llm.Provider
	cfg      Config
	newID    func() string
}

// New creates a Generator.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg, newID: uuid.NewString}
}

// FromText generates a course from the first MaxContentChars of text.
func (g *Generator) FromText(ctx context.Context, text string) (*course.Course, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyContent
	}
	msg := llm.Message{Role: llm.RoleUser, Content: buildTextMessage(truncate(text, MaxContentChars))}
	return g.generate(ctx, msg)
}

// FromPDF sends the document itself to the model. Providers without
// document support fail with llm.ErrUnsupportedAttachment.
func (g *Generator) FromPDF(ctx context.Context, data []byte) (*course.Course, error) {
	switch {
	case len(bytes.TrimSpace(data)) == 0:
		return nil, ErrEmptyContent
	case len(data) > MaxPDFBytes:
		return nil, ErrPDFTooLarge
	case !bytes.HasPrefix(data, []byte("%PDF-")):
		return nil, ErrNotPDF
	}
	msg := llm.Message{
		Role:        llm.RoleUser,
		Content:     buildPDFMessage(),
		Attachments: []llm.Attachment{{MIMEType: llm.MIMETypePDF, Data: data}},
	}
	return g.generate(ctx, msg)
}

type courseOutput struct {
	Title   string         `json:"title"`
	Lessons []lessonOutput `json:"lessons"`
}

type lessonOutput struct {
	Title     string           `json:"title"`
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

func (g *Generator) generate(ctx context.Context, msg llm.Message) (*course.Course, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCourseGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{msg},
		Schema:      CourseSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, &GenerationError{Stage: "generate", Err: err}
	}

	var out courseOutput
	if err := llm.Decode(resp, CourseSchema, &out); err != nil {
		return nil, &GenerationError{Stage: "parse", Err: err}
	}

	c := g.toCourse(out)
	if err := course.Validate(c); err != nil {
		return nil, &GenerationError{Stage: "validate", Err: err}
	}
	return c, nil
}

// toCourse assigns ids of the form course-<id>, lesson-<id>-<l> and
// q-<id>-<l>-<q>; every generated lesson is a QUIZ.
func (g *Generator) toCourse(out courseOutput) *course.Course {
	id := g.newID()
	c := &course.Course{
		ID:    "course-" + id,
		Title: strings.TrimSpace(out.Title),
	}
	for li, lo := range out.Lessons {
		l := course.Lesson{
			ID:    fmt.Sprintf("lesson-%s-%d", id, li),
			Title: strings.TrimSpace(lo.Title),
			Type:  course.LessonQuiz,
		}
		for qi, qo := range lo.Questions {
			l.Questions = append(l.Questions, &course.MultipleChoiceQuestion{
				ID:                 fmt.Sprintf("q-%s-%d-%d", id, li, qi),
				Text:               strings.TrimSpace(qo.Text),
				Options:            qo.Options,
				CorrectAnswerIndex: qo.CorrectAnswerIndex,
			})
		}
		c.Lessons = append(c.Lessons, l)
	}
	return c
}
