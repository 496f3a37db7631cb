package tutorchat

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/screens/screentest"
	"github.com/eduquest/eduquest/internal/tutor"
)

func withBot(mock *llm.MockProvider) screens.Deps {
	return screens.Deps{NewTutor: func(l *course.Lesson) *tutor.Bot {
		return tutor.New(mock, tutor.Options{Lesson: l})
	}}
}

// send types text and presses enter, then delivers the reply.
func send(t *testing.T, c *ChatScreen, text string) {
	t.Helper()
	c.input.Model.SetValue(text)
	_, cmd := c.Update(screentest.Key("enter"))
	if !c.thinking {
		t.Fatal("not thinking after enter")
	}
	for _, msg := range screentest.Drain(cmd) {
		if _, ok := msg.(replyMsg); ok {
			c.Update(msg)
		}
	}
	if c.thinking {
		t.Fatal("still thinking after reply")
	}
}

func TestChatScreen_Conversation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`"Think of how you greet a friend."`)})
	c := New(withBot(mock), nil)

	send(t, c, "what does hola mean?")
	view := c.View(100, 40)
	for _, want := range []string{"what does hola mean?", "Think of how you greet a friend."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if c.input.Value() != "" {
		t.Error("input not cleared after reply")
	}

	c.Update(screentest.Key("ctrl+r"))
	if len(c.bot.History()) != 1 {
		t.Errorf("reset kept %d turns", len(c.bot.History()))
	}
}

func TestChatScreen_Errors(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("slow down")}})
	c := New(withBot(mock), nil)

	send(t, c, "hi")
	if !strings.Contains(c.errMsg, "busy") {
		t.Errorf("errMsg = %q", c.errMsg)
	}
	if c.input.Value() != "hi" {
		t.Error("failed question should stay in the input")
	}

	c.input.Model.SetValue("")
	if _, cmd := c.Update(screentest.Key("enter")); cmd != nil || c.thinking {
		t.Error("empty question was sent")
	}
}

func TestChatScreen_NoProvider(t *testing.T) {
	c := New(screens.Deps{}, nil)
	if _, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter without a bot produced a command")
	}
	if !strings.Contains(c.View(80, 20), "needs an LLM provider") {
		t.Error("missing provider hint")
	}
}
