// Package tutorchat is the QuestBot chat screen.
package tutorchat

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/tutor"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/layout"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

// askTimeout bounds one provider round trip.
const askTimeout = 60 * time.Second

type replyMsg struct {
	reply string
	err   error
}

// ChatScreen lets the learner talk to QuestBot.
type ChatScreen struct {
	bot      *tutor.Bot
	input    components.TextInput
	spinner  spinner.Model
	thinking bool
	errMsg   string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a chat about lesson, which may be nil.
func New(deps screens.Deps, lesson *course.Lesson) *ChatScreen {
	c := &ChatScreen{
		input: components.NewTextInput("Ask QuestBot a question...", 500),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
	if deps.NewTutor != nil {
		c.bot = deps.NewTutor(lesson)
	}
	return c
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *ChatScreen) Title() string {
	return "QuestBot"
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+R", Description: "New chat"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChatScreen) ask(text string) tea.Cmd {
	bot := c.bot
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		reply, err := bot.Ask(ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

func spinnerTick(m spinner.Model) tea.Cmd {
	return func() tea.Msg { return m.Tick() }
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		c.thinking = false
		if msg.err != nil {
			c.errMsg = describe(msg.err)
			return c, nil
		}
		c.input.Reset()
		return c, nil

	case spinner.TickMsg:
		if !c.thinking {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case tea.KeyPressMsg:
		if c.bot == nil || c.thinking {
			return c, nil
		}
		switch msg.String() {
		case "enter":
			text := c.input.Value()
			if text == "" {
				return c, nil
			}
			c.errMsg = ""
			c.thinking = true
			return c, tea.Batch(c.ask(text), spinnerTick(c.spinner))
		case "ctrl+r":
			c.bot.Reset()
			c.input.Reset()
			c.errMsg = ""
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func describe(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "QuestBot took too long to answer. Try again."
	case llm.Transient(err):
		return "QuestBot is busy right now. Try again in a moment."
	}
	return "QuestBot could not answer: " + err.Error()
}

func (c *ChatScreen) View(width, height int) string {
	if c.bot == nil {
		return lipgloss.NewStyle().
			Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.Warning.Render("QuestBot needs an LLM provider.") + "\n\n" +
				theme.Dim.Render("Set EDUQUEST_LLM_PROVIDER and an API key, then restart."))
	}

	cw := components.ContentWidth(width)
	var turns []string
	for _, t := range c.bot.History() {
		if t.Role == llm.RoleUser {
			turns = append(turns, theme.Selected.Render("You: ")+theme.Body.Width(cw-5).Render(t.Text))
			continue
		}
		turns = append(turns, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("QuestBot: ")+
			theme.Body.Width(cw-10).Render(t.Text))
	}

	// keep the latest turns that fit above the input
	room := height - 6
	chat := strings.Join(turns, "\n\n")
	if lines := strings.Split(chat, "\n"); room > 0 && len(lines) > room {
		chat = strings.Join(lines[len(lines)-room:], "\n")
	}

	footer := "> " + c.input.View()
	if c.thinking {
		footer = c.spinner.View() + theme.Dim.Render(" QuestBot is thinking...")
	}
	if c.errMsg != "" {
		footer += "\n" + theme.Incorrect.Render(c.errMsg)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(chat + "\n\n" + footer)
}
