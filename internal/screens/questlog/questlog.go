// Package questlog shows today's daily quests.
package questlog

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

// QuestLogScreen lists the daily quests with progress bars.
type QuestLogScreen struct {
	deps     screens.Deps
	progress *progression.Progression
	err      error
}

var _ screen.Screen = (*QuestLogScreen)(nil)

// New creates a QuestLogScreen.
func New(deps screens.Deps) *QuestLogScreen {
	return &QuestLogScreen{deps: deps}
}

func (q *QuestLogScreen) Init() tea.Cmd {
	return q.deps.LoadProgress()
}

func (q *QuestLogScreen) Title() string {
	return "Daily Quests"
}

func (q *QuestLogScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(screens.ProgressLoadedMsg); ok {
		q.progress, q.err = m.Progress, m.Err
	}
	return q, nil
}

func (q *QuestLogScreen) View(width, height int) string {
	switch {
	case q.err != nil:
		return theme.Incorrect.Render("Could not load quests: " + q.err.Error())
	case q.progress == nil:
		return theme.Dim.Render("Loading...")
	}

	cw := components.ContentWidth(width)
	qs := q.progress.Quests

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Today's quests"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf("%d%% complete · new quests every day", quests.CompletionPercentage(qs))))
	b.WriteString("\n\n")

	for _, quest := range qs {
		b.WriteString(renderQuest(quest, cw))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func renderQuest(q quests.Quest, cw int) string {
	title := theme.Body.Bold(true).Render(q.Title)
	if q.Completed {
		title = theme.Correct.Render("✓ " + q.Title)
	}
	reward := lipgloss.NewStyle().Foreground(theme.XP).Render(fmt.Sprintf("+%d XP", q.Reward))
	pad := max(cw-4-lipgloss.Width(title)-lipgloss.Width(reward), 1)

	bar := components.NewProgressBar(
		fmt.Sprintf("%d/%d", q.Progress, q.Target),
		float64(q.Percent())/100,
		false,
		cw-4,
	)
	body := title + strings.Repeat(" ", pad) + reward + "\n" +
		theme.Dim.Render(q.Description) + "\n" +
		bar.View()
	return components.Card(body, cw)
}
