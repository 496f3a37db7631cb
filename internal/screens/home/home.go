package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/screens/courses"
	"github.com/eduquest/eduquest/internal/screens/history"
	"github.com/eduquest/eduquest/internal/screens/questlog"
	"github.com/eduquest/eduquest/internal/screens/trophies"
	"github.com/eduquest/eduquest/internal/screens/tutorchat"
	"github.com/eduquest/eduquest/internal/store"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/layout"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

const titleArt = `╔═╗┌┬┐┬ ┬╔═╗ ┬ ┬┌─┐┌─┐┌┬┐
║╣  │││ │║═╬╗│ │├┤ └─┐ │
╚═╝─┴┘└─┘╚═╝╚└─┘└─┘└─┘ ┴ `

type refilledMsg struct {
	stats store.Stats
	err   error
}

// HomeScreen is the main menu with the learner's dashboard.
type HomeScreen struct {
	deps     screens.Deps
	menu     components.Menu
	progress *progression.Progression
	notice   string
	err      error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "CONTINUE LEARNING", Action: push(func() screen.Screen { return courses.New(deps) })},
		{Label: "DAILY QUESTS", Action: push(func() screen.Screen { return questlog.New(deps) })},
		{Label: "ACHIEVEMENTS", Action: push(func() screen.Screen { return trophies.New(deps) })},
		{Label: "ACTIVITY", Action: push(func() screen.Screen { return history.New(deps) })},
		{
			Label:    "ASK QUESTBOT",
			Action:   push(func() screen.Screen { return tutorchat.New(deps, nil) }),
			Disabled: deps.NewTutor == nil,
		},
		{Label: "REFILL HEARTS", Action: h.refill},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.deps.LoadProgress()
}

func (h *HomeScreen) Resume() tea.Cmd {
	return h.deps.LoadProgress()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) refill() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx, cancel := screens.Context()
		defer cancel()
		st, err := deps.Service.Refill(ctx, deps.UserID)
		return refilledMsg{stats: st, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ProgressLoadedMsg:
		h.progress, h.err = msg.Progress, msg.Err
		return h, nil
	case refilledMsg:
		if msg.err != nil {
			h.err = msg.err
			return h, nil
		}
		h.notice = fmt.Sprintf("Hearts refilled: %d", msg.stats.Hearts)
		return h, tea.Batch(
			h.deps.LoadProgress(),
			func() tea.Msg { return router.ProgressChangedMsg{} },
		)
	case tea.KeyPressMsg:
		h.notice = ""
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || height+6 < layout.CompactHeightThreshold
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, layout.Center(RenderMascot(mascotFor(h.progress)), cw))
	}

	switch {
	case h.err != nil:
		sections = append(sections, theme.Incorrect.Render("Could not load progress: "+h.err.Error()))
	case h.progress != nil:
		sections = append(sections, renderDashboard(h.progress, cw))
	}
	if h.notice != "" {
		sections = append(sections, layout.Center(theme.Correct.Render(h.notice), cw))
	}
	sections = append(sections, renderMenu(h.menu, cw, compact))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.XP).Bold(true)
	if compact {
		return layout.Center(style.Render("E · D · U · Q · U · E · S · T"), cw)
	}
	return layout.Center(style.Render(titleArt), cw)
}

// renderDashboard shows level, streak, hearts and today's quests.
func renderDashboard(p *progression.Progression, cw int) string {
	name := p.User.Name
	if name == "" {
		name = "learner"
	}
	greeting := theme.Body.Render("Welcome back, ") + theme.Selected.Render(name) + theme.Body.Render("!")

	bar := components.NewProgressBar(fmt.Sprintf("Level %d", p.Level.Level), float64(p.Level.Progress)/100, false, cw-16)
	bar.Fill = theme.XP
	level := bar.View() + theme.Dim.Render(fmt.Sprintf("  %d/%d XP", p.Level.XPInLevel, p.Level.XPForNextLevel))

	streak := theme.Fg(theme.Streak).Bold(true).
		Render(fmt.Sprintf("🔥 %d day streak", p.Stats.Streak))
	if m, ok := p.Milestone(); ok {
		streak += theme.Dim.Render(fmt.Sprintf("  %s %s ×%.1f", m.Badge, m.Title, m.Multiplier()))
	}

	hearts := layout.Hearts(p.Stats.Hearts, 5)
	if p.Stats.Hearts <= 0 {
		hearts += "  " + theme.Warning.Render("refill to start new quizzes")
	}

	done := len(quests.ByStatus(p.Quests, true))
	daily := theme.Dim.Render(fmt.Sprintf("Daily quests %d/%d", done, len(p.Quests)))

	return components.Card(strings.Join([]string{greeting, "", level, streak, hearts, daily}, "\n"), cw)
}

const buttonWidth = 24

func renderMenu(m components.Menu, cw int, compact bool) string {
	if compact {
		return layout.Center(m.View(), cw)
	}

	selected := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.XP).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.XP)
	normal := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
	disabled := normal.Foreground(theme.TextDim)

	buttons := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			buttons = append(buttons, disabled.Render(item.Label))
		case i == m.Selected:
			buttons = append(buttons, selected.Render("▸ "+item.Label))
		default:
			buttons = append(buttons, normal.Render(item.Label))
		}
	}
	return layout.Center(strings.Join(buttons, "\n"), cw)
}
