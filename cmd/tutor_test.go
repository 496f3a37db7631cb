package cmd

import (
	"strings"
	"testing"

	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/tutor"
)

func TestChat(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText("Think of how you greet a friend."),
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
	)
	bot := tutor.New(mock, tutor.Options{})

	in := strings.NewReader("what is hola?\n\n/reset\nagain?\n/quit\nnever sent\n")
	var out strings.Builder
	if err := chat(t.Context(), bot, in, &out); err != nil {
		t.Fatalf("chat: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "QuestBot: Think of how you greet a friend.") {
		t.Errorf("reply missing:\n%s", got)
	}
	if !strings.Contains(got, "busy") {
		t.Errorf("rate limit not reported:\n%s", got)
	}
	if len(mock.Calls) != 2 {
		t.Fatalf("provider called %d times, want 2", len(mock.Calls))
	}
	// /reset drops the first exchange.
	if n := len(mock.Calls[1].Messages); n != 1 {
		t.Errorf("messages after reset = %d, want 1", n)
	}
}

func TestChat_EOF(t *testing.T) {
	bot := tutor.New(llm.NewMockProvider(), tutor.Options{})
	var out strings.Builder
	if err := chat(t.Context(), bot, strings.NewReader(""), &out); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(out.String(), "QuestBot") {
		t.Errorf("no greeting:\n%s", out.String())
	}
}
