package coursegen

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
)

func validCourseJSON() json.RawMessage {
	return json.RawMessage(`{
		"title": "Photosynthesis Basics",
		"lessons": [
			{
				"title": "Light Reactions",
				"questions": [
					{"text": "Where do light reactions happen?", "options": ["Thylakoid", "Stroma", "Nucleus", "Cell wall"], "correctAnswerIndex": 0},
					{"text": "Which gas is released?", "options": ["CO2", "O2", "N2", "H2"], "correctAnswerIndex": 1},
					{"text": "Which pigment absorbs light?", "options": ["Keratin", "Melanin", "Chlorophyll", "Hemoglobin"], "correctAnswerIndex": 2}
				]
			},
			{
				"title": "Calvin Cycle",
				"questions": [
					{"text": "What does the Calvin cycle fix?", "options": ["Oxygen", "Nitrogen", "Water", "Carbon"], "correctAnswerIndex": 3},
					{"text": "Which enzyme fixes CO2?", "options": ["RuBisCO", "Amylase", "Lipase", "Pepsin"], "correctAnswerIndex": 0},
					{"text": "Where does it happen?", "options": ["Thylakoid", "Stroma", "Mitochondria", "Golgi"], "correctAnswerIndex": 1}
				]
			}
		]
	}`)
}

func newTestGenerator(responses ...llm.MockResponse) (*Generator, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	g := New(mock, DefaultConfig())
	g.newID = func() string { return "abc" }
	return g, mock
}

func TestFromText_BuildsQuizCourse(t *testing.T) {
	g, mock := newTestGenerator(llm.MockResponse{Content: validCourseJSON()})

	c, err := g.FromText(t.Context(), "Plants turn light into chemical energy.")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if c.ID != "course-abc" || c.Title != "Photosynthesis Basics" {
		t.Errorf("course = %s %q", c.ID, c.Title)
	}
	if len(c.Lessons) != 2 {
		t.Fatalf("lessons = %d", len(c.Lessons))
	}
	l := c.Lessons[1]
	if l.ID != "lesson-abc-1" || l.Type != course.LessonQuiz || len(l.Questions) != 3 {
		t.Errorf("lesson = %+v", l)
	}
	q, ok := l.Questions[0].(*course.MultipleChoiceQuestion)
	if !ok || q.ID != "q-abc-1-0" || q.CorrectAnswerIndex != 3 {
		t.Errorf("question = %+v", l.Questions[0])
	}

	req := mock.Calls[0]
	if req.Purpose != llm.PurposeCourseGen {
		t.Errorf("purpose = %s", req.Purpose)
	}
	if req.Schema != CourseSchema {
		t.Error("course schema not requested")
	}
	if !strings.Contains(req.Messages[0].Content, "Plants turn light into chemical energy.") {
		t.Error("content missing from prompt")
	}
}

func TestFromText_TruncatesContent(t *testing.T) {
	g, mock := newTestGenerator(llm.MockResponse{Content: validCourseJSON()})

	long := strings.Repeat("á", MaxContentChars) + "TAIL"
	if _, err := g.FromText(t.Context(), long); err != nil {
		t.Fatal(err)
	}
	prompt := mock.Calls[0].Messages[0].Content
	if strings.Contains(prompt, "TAIL") {
		t.Error("content beyond the limit was sent")
	}
	if strings.Count(prompt, "á") != MaxContentChars {
		t.Errorf("sent %d runes of content", strings.Count(prompt, "á"))
	}
}

func TestFromText_Empty(t *testing.T) {
	g, mock := newTestGenerator()
	if _, err := g.FromText(t.Context(), "  \n\t"); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Error("provider called for empty content")
	}
}

func TestFromPDF(t *testing.T) {
	g, mock := newTestGenerator(llm.MockResponse{Content: validCourseJSON()})
	pdf := []byte("%PDF-1.7\n...")

	if _, err := g.FromPDF(t.Context(), pdf); err != nil {
		t.Fatalf("FromPDF: %v", err)
	}
	atts := mock.Calls[0].Messages[0].Attachments
	if len(atts) != 1 || atts[0].MIMEType != llm.MIMETypePDF || string(atts[0].Data) != string(pdf) {
		t.Errorf("attachments = %+v", atts)
	}

	if _, err := g.FromPDF(t.Context(), nil); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("empty pdf: %v", err)
	}
	if _, err := g.FromPDF(t.Context(), []byte("hello")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("not a pdf: %v", err)
	}
}

func TestGenerate_ErrorsAreGenerationErrors(t *testing.T) {
	const q3 = `{"text":"q","options":["a","b","c","d"],"correctAnswerIndex":0}`
	tests := []struct {
		name  string
		resp  llm.MockResponse
		stage string
	}{
		{"provider", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}, "generate"},
		{"not an object", llm.MockResponse{Content: json.RawMessage(`[1,2]`)}, "parse"},
		{"no lessons", llm.MockResponse{Content: json.RawMessage(`{"title":"Empty","lessons":[]}`)}, "parse"},
		{"bad index", llm.MockResponse{Content: json.RawMessage(`{"title":"T","lessons":[{"title":"L","questions":[` + q3 + `,` + q3 + `,{"text":"q","options":["a","b","c","d"],"correctAnswerIndex":7}]}]}`)}, "parse"},
		{"blank title", llm.MockResponse{Content: json.RawMessage(`{"title":"  ","lessons":[{"title":"L","questions":[` + q3 + `,` + q3 + `,` + q3 + `]}]}`)}, "validate"},
		{"blank option", llm.MockResponse{Content: json.RawMessage(`{"title":"T","lessons":[{"title":"L","questions":[` + q3 + `,` + q3 + `,{"text":"q","options":["a","","c","d"],"correctAnswerIndex":0}]}]}`)}, "validate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, mock := newTestGenerator(tt.resp)
			_, err := g.FromText(t.Context(), "content")
			var ge *GenerationError
			if !errors.As(err, &ge) || ge.Stage != tt.stage {
				t.Fatalf("expected GenerationError at %s, got %v", tt.stage, err)
			}
			var inv *llm.ErrInvalidResponse
			if tt.stage == "parse" && !errors.As(err, &inv) {
				t.Errorf("schema failure should be ErrInvalidResponse: %v", err)
			}
			if tt.stage == "validate" && !errors.Is(err, course.ErrMalformed) {
				t.Errorf("validation failure should be ErrMalformed: %v", err)
			}
			if mock.CallCount() != 1 {
				t.Errorf("expected exactly one call, got %d", mock.CallCount())
			}
		})
	}
}

func TestProviderConfig_DisablesRetry(t *testing.T) {
	cfg := ProviderConfig(llm.DefaultConfig())
	if cfg.Retry.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d", cfg.Retry.MaxAttempts)
	}
}
