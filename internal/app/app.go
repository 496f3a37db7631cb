package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/screens/home"
	"github.com/eduquest/eduquest/internal/screens/welcome"
	"github.com/eduquest/eduquest/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   screens.Deps
	stats  layout.HeaderStats
	width  int
	height int
}

// newAppModel creates a new AppModel that opens on the welcome screen.
func newAppModel(deps screens.Deps) AppModel {
	first := welcome.New(deps, func() screen.Screen { return home.New(deps) })
	return AppModel{
		router: router.New(first),
		deps:   deps,
		stats:  layout.HeaderStats{Level: 1},
	}
}

// headerLoadedMsg refreshes the header stats.
type headerLoadedMsg struct {
	stats layout.HeaderStats
}

func (m AppModel) loadHeader() tea.Cmd {
	load := m.deps.LoadProgress()
	return func() tea.Msg {
		msg, _ := load().(screens.ProgressLoadedMsg)
		if msg.Err != nil || msg.Progress == nil {
			return nil
		}
		p := msg.Progress
		return headerLoadedMsg{stats: layout.HeaderStats{
			Level:  p.Level.Level,
			XP:     p.Stats.XP,
			Streak: p.Stats.Streak,
			Hearts: p.Stats.Hearts,
		}}
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadHeader())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerLoadedMsg:
		m.stats = msg.stats
		return m, nil

	case router.ProgressChangedMsg:
		return m, m.loadHeader()

	case router.PopScreenMsg, router.PopToRootMsg:
		return m, tea.Batch(m.router.Update(msg), m.loadHeader())

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscapeCapturer); ok && c.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := m.router.Trail()
	if title == "" {
		title = m.router.Active().Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(deps screens.Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
