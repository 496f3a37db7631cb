// Package welcome is the splash screen. On first launch it also asks the
// learner for a display name.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/store"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const mascotArt = `  ╭───────────╮
  │  ┌─────┐  │
  │  │ ◉ ◉ │  │
  │  │  ▽  │  │
  │  ├─────┤  │
  │  │ A→Z │  │
  │  └─────┘  │
  ╰───────────╯`

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

type profileSavedMsg struct {
	user store.User
	err  error
}

// WelcomeScreen plays a short animation, then hands over to the screen
// produced by next.
type WelcomeScreen struct {
	deps      screens.Deps
	next      func() screen.Screen
	elapsed   time.Duration
	tickCount int

	// loaded is set once the learner's profile is known; naming is true
	// while the name prompt is showing.
	loaded bool
	naming bool
	name   string
	input  components.TextInput
	errMsg string

	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next().
func New(deps screens.Deps, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		deps:  deps,
		next:  next,
		input: components.NewTextInput("Your name", 40),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(tick(), w.deps.LoadProgress())
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		if w.transitioned {
			return w, nil
		}
		return w, tick()

	case screens.ProgressLoadedMsg:
		w.loaded = true
		if msg.Err != nil {
			w.deps.Log().Warn("load profile", zap.Error(msg.Err))
			return w, nil
		}
		w.name = msg.Progress.User.Name
		return w, nil

	case profileSavedMsg:
		if msg.err != nil {
			w.errMsg = "Could not save your name: " + msg.err.Error()
			w.input.Reset()
			return w, nil
		}
		w.name = msg.user.Name
		w.naming = false
		return w, w.transition()

	case tea.KeyPressMsg:
		if w.naming {
			return w.handleName(msg)
		}
		if w.elapsed < totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		if w.loaded && w.name == "" && w.deps.Service != nil {
			w.naming = true
			return w, w.input.Init()
		}
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) handleName(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() != "enter" {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	name := w.input.Value()
	if name == "" {
		w.errMsg = "Type a name, or anything you like to be called."
		return w, nil
	}
	w.errMsg = ""
	w.input.Submit(true)
	deps := w.deps
	return w, func() tea.Msg {
		ctx, cancel := screens.Context()
		defer cancel()
		u, err := deps.Service.UpdateProfile(ctx, deps.UserID, name, "")
		return profileSavedMsg{user: u, err: err}
	}
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt)
	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		for _, i := range []int{0, 3, 6} {
			if i < len(lines) {
				lines[i] = s1 + "  " + lines[i] + "  " + s2
			}
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render("Learn a little every day."))
		sections = append(sections, "")

		switch {
		case w.naming:
			sections = append(sections,
				theme.Body.Render("What should QuestBot call you?"),
				w.input.View())
		case w.name != "":
			sections = append(sections, theme.Selected.Render("Welcome back, "+w.name+"!"))
		}
		if w.errMsg != "" {
			sections = append(sections, theme.Incorrect.Render(w.errMsg))
		}
		if !w.naming {
			sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("press any key to continue"))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
