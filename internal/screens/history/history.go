// Package history shows the learner's recent activity as a calendar
// heatmap.
package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/layout"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

// Days is how far back the heatmap reaches.
const Days = 12 * 7

type heatmapLoadedMsg struct {
	days []progression.HeatmapDay
	err  error
}

// HistoryScreen displays activity per day for the last Days days.
type HistoryScreen struct {
	deps   screens.Deps
	days   []progression.HeatmapDay
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screens.Deps) *HistoryScreen {
	return &HistoryScreen{deps: deps}
}

func (s *HistoryScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := screens.Context()
		defer cancel()
		days, err := deps.Service.Heatmap(ctx, deps.UserID, Days)
		return heatmapLoadedMsg{days: days, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Activity"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(heatmapLoadedMsg); ok {
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.days = msg.days
	}
	return s, nil
}

// totals sums the window and finds its busiest day.
func totals(days []progression.HeatmapDay) (active, events, xp int, best progression.HeatmapDay) {
	for _, d := range days {
		if d.Count > 0 {
			active++
		}
		events += d.Count
		xp += d.XP
		if d.Count > best.Count {
			best = d
		}
	}
	return active, events, xp, best
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading activity...")
	}

	active, events, xp, best := totals(s.days)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Last %d weeks", Days/7)))
	b.WriteString("\n\n")
	b.WriteString(components.Heatmap(s.days))
	b.WriteString("\n\n")
	if events == 0 {
		b.WriteString(theme.Dim.Italic(true).Render("No activity yet. Finish a lesson to light up today!"))
	} else {
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d active days · %d activities · %d XP", active, events, xp)))
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render(fmt.Sprintf("Busiest day: %s (%d activities)", best.Day, best.Count)))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
