// Package trophies shows unlocked and locked achievements.
package trophies

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/achievements"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/ui/layout"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

// TrophyScreen lists achievements, unlocked first.
type TrophyScreen struct {
	deps     screens.Deps
	progress *progression.Progression
	err      error
	offset   int
}

var _ screen.Screen = (*TrophyScreen)(nil)
var _ screen.KeyHintProvider = (*TrophyScreen)(nil)

// New creates a TrophyScreen.
func New(deps screens.Deps) *TrophyScreen {
	return &TrophyScreen{deps: deps}
}

func (t *TrophyScreen) Init() tea.Cmd {
	return t.deps.LoadProgress()
}

func (t *TrophyScreen) Title() string {
	return "Achievements"
}

func (t *TrophyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (t *TrophyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ProgressLoadedMsg:
		t.progress, t.err = msg.Progress, msg.Err
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			t.offset = max(t.offset-1, 0)
		case "down", "j":
			t.offset = min(t.offset+1, len(achievements.All())-1)
		}
	}
	return t, nil
}

func (t *TrophyScreen) View(width, height int) string {
	switch {
	case t.err != nil:
		return theme.Incorrect.Render("Could not load achievements: " + t.err.Error())
	case t.progress == nil:
		return theme.Dim.Render("Loading...")
	}

	unlocked := t.progress.Unlocked
	var lines []string
	for _, u := range unlocked {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%s %s", u.Icon, u.Title))+
				theme.Dim.Render(fmt.Sprintf("  +%d XP · %s", u.Reward, u.UnlockedAt.Local().Format("Jan 2, 2006"))),
			theme.Body.Render("   "+u.Description),
		)
	}
	for _, a := range t.progress.Locked() {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.Border).Render("🔒 "+a.Title)+
				theme.Dim.Render(fmt.Sprintf("  +%d XP", a.Reward)),
			theme.Dim.Render("   "+a.Description),
		)
	}

	// two lines per achievement
	start := min(t.offset*2, len(lines))
	visible := lines[start:]
	if room := height - 5; room > 0 && len(visible) > room {
		visible = visible[:room]
	}

	header := theme.Title.Render(fmt.Sprintf("%d of %d unlocked", len(unlocked), len(achievements.All())))
	return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n\n" + strings.Join(visible, "\n"))
}
