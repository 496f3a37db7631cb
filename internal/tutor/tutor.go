// Package tutor implements QuestBot, a chat tutor that helps with the
// current lesson without giving answers away.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
)

const systemPrompt = `You are QuestBot, a friendly and encouraging AI tutor for the EduQuest learning platform. Help the learner understand the course material without giving away direct answers to quiz questions. Explain concepts clearly, give examples and ask guiding questions so the learner reaches the answer themselves. Keep a positive, supportive tone and answer in plain text.`

// MaxTurns bounds the history sent to the provider.
const MaxTurns = 20

var ErrEmptyQuestion = errors.New("ask QuestBot something first")

// Options configures a Bot.
type Options struct {
	// Lesson is the lesson the learner is working on, if any.
	Lesson *course.Lesson

	// Learner is recorded with every request in the LLM event log.
	Learner string

	MaxTokens   int
	Temperature float64
}

// Turn is one message of the conversation.
type Turn struct {
	Role llm.Role
	Text string
}

// Bot keeps one conversation. It is safe for concurrent use.
type Bot struct {
	provider llm.Provider
	opts     Options

	mu      sync.Mutex
	history []Turn
}

// New creates a Bot whose history starts with the greeting.
func New(provider llm.Provider, opts Options) *Bot {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 600
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	b := &Bot{provider: provider, opts: opts}
	b.Reset()
	return b
}

// Greeting is the bot's opening line.
func (b *Bot) Greeting() string {
	if b.opts.Lesson != nil {
		return fmt.Sprintf("Hi! I see you're working on the lesson %q. Ask me anything about it!", b.opts.Lesson.Title)
	}
	return "Hi there! I'm QuestBot. How can I help you today?"
}

// Ask sends text and returns the reply. On failure the question is kept
// out of the history so it can be asked again.
func (b *Bot) Ask(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyQuestion
	}

	b.mu.Lock()
	msgs := make([]llm.Message, 0, len(b.history)+1)
	for _, t := range window(b.history) {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Text})
	}
	b.mu.Unlock()
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: text})

	ctx = llm.WithPurpose(ctx, llm.PurposeTutor)
	if b.opts.Learner != "" {
		ctx = llm.WithLearner(ctx, b.opts.Learner)
	}
	resp, err := b.provider.Generate(ctx, llm.Request{
		System:      b.system(),
		Messages:    msgs,
		MaxTokens:   b.opts.MaxTokens,
		Temperature: b.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("ask tutor: %w", err)
	}
	reply := replyText(resp.Content)

	b.mu.Lock()
	b.history = append(b.history,
		Turn{Role: llm.RoleUser, Text: text},
		Turn{Role: llm.RoleAssistant, Text: reply},
	)
	b.mu.Unlock()
	return reply, nil
}

// History returns a copy of the conversation, greeting first.
func (b *Bot) History() []Turn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Turn(nil), b.history...)
}

// Reset clears the conversation back to the greeting.
func (b *Bot) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = []Turn{{Role: llm.RoleAssistant, Text: b.Greeting()}}
}

func (b *Bot) system() string {
	l := b.opts.Lesson
	if l == nil {
		return systemPrompt
	}
	var s strings.Builder
	s.WriteString(systemPrompt)
	fmt.Fprintf(&s, "\n\nThe learner is on the lesson %q.", l.Title)
	if l.Content != "" {
		fmt.Fprintf(&s, " Lesson material:\n%s", l.Content)
	}
	if len(l.Questions) > 0 {
		s.WriteString("\nQuestions in this lesson (never reveal their answers):")
		for _, q := range l.Questions {
			fmt.Fprintf(&s, "\n- %s", q.QuestionText())
		}
	}
	return s.String()
}

// window drops the oldest turns beyond MaxTurns. Providers expect the
// conversation to start with a user turn, so a leading assistant turn is
// skipped.
func window(h []Turn) []Turn {
	if len(h) > MaxTurns {
		h = h[len(h)-MaxTurns:]
	}
	for len(h) > 0 && h[0].Role == llm.RoleAssistant {
		h = h[1:]
	}
	return h
}

// replyText unwraps a JSON string reply; providers without a schema
// return the raw text.
func replyText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}
