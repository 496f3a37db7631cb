package tutor

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
)

func lesson() *course.Lesson {
	return &course.Lesson{
		ID: "l1", Title: "Greetings & Basics", Type: course.LessonQuiz,
		Questions: []course.Question{
			&course.MultipleChoiceQuestion{ID: "q1", Text: `Which of these means "Hello"?`, Options: []string{"Adiós", "Hola"}, CorrectAnswerIndex: 1},
		},
	}
}

func TestGreeting(t *testing.T) {
	b := New(llm.NewMockProvider(), Options{Lesson: lesson()})
	if !strings.Contains(b.Greeting(), `"Greetings & Basics"`) {
		t.Errorf("greeting = %q", b.Greeting())
	}
	if g := New(llm.NewMockProvider(), Options{}).Greeting(); !strings.Contains(g, "QuestBot") {
		t.Errorf("generic greeting = %q", g)
	}
	h := b.History()
	if len(h) != 1 || h[0].Role != llm.RoleAssistant {
		t.Errorf("history = %+v", h)
	}
}

func TestAsk_KeepsConversation(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`Think about how you greet a friend.`)},
		llm.MockResponse{Content: json.RawMessage(`"Exactly, well done!"`)},
	)
	b := New(mock, Options{Lesson: lesson(), Learner: "ana"})

	reply, err := b.Ask(t.Context(), "  what does hola mean? ")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Think about how you greet a friend." {
		t.Errorf("reply = %q", reply)
	}
	reply, err = b.Ask(t.Context(), "hello?")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Exactly, well done!" {
		t.Errorf("string reply not unwrapped: %q", reply)
	}

	second := mock.Calls[1]
	if second.Purpose != llm.PurposeTutor || second.Learner != "ana" {
		t.Errorf("request attributed to %s/%q", second.Purpose, second.Learner)
	}
	if len(second.Messages) != 3 || second.Messages[0].Role != llm.RoleUser || second.Messages[2].Content != "hello?" {
		t.Errorf("second request messages = %+v", second.Messages)
	}
	if !strings.Contains(second.System, "without giving away direct answers") || !strings.Contains(second.System, `"Hello"`) {
		t.Errorf("system prompt = %q", second.System)
	}
	if len(b.History()) != 5 {
		t.Errorf("history len = %d", len(b.History()))
	}
}

func TestAsk_FailureLeavesHistory(t *testing.T) {
	b := New(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}), Options{})
	_, err := b.Ask(t.Context(), "help")
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if len(b.History()) != 1 {
		t.Errorf("failed question kept in history: %+v", b.History())
	}
	if _, err := b.Ask(t.Context(), " "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("empty question: %v", err)
	}
}

func TestReset(t *testing.T) {
	b := New(llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`"hi"`)}), Options{})
	if _, err := b.Ask(t.Context(), "hello"); err != nil {
		t.Fatal(err)
	}
	b.Reset()
	if h := b.History(); len(h) != 1 || h[0].Text != b.Greeting() {
		t.Errorf("history after reset = %+v", h)
	}
}

func TestAsk_Concurrent(t *testing.T) {
	mock := llm.NewMockProvider()
	for range 8 {
		mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`"ok"`)})
	}
	b := New(mock, Options{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Ask(t.Context(), "q"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if got := len(b.History()); got != 17 {
		t.Errorf("history len = %d, want 17", got)
	}
}

func TestWindow(t *testing.T) {
	var h []Turn
	for i := 0; i < MaxTurns+5; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		h = append(h, Turn{Role: role})
	}
	w := window(h)
	if len(w) > MaxTurns || w[0].Role != llm.RoleUser {
		t.Errorf("window len %d first %s", len(w), w[0].Role)
	}
}
