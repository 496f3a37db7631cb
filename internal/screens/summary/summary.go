package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/ui/layout"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

// SummaryScreen displays the report of a completed lesson.
type SummaryScreen struct {
	report *progression.Report
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(report *progression.Report) *SummaryScreen {
	return &SummaryScreen{report: report}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Lesson Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "h", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "h":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.report
	if r == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Inherit(style).Render(text)
	}

	var b strings.Builder

	headline := "Lesson complete!"
	switch {
	case r.Perfect:
		headline = "Perfect score!"
	case r.Reward.Mode == scoring.Review:
		headline = "Review complete!"
	}
	b.WriteString(center(theme.Title, headline))
	b.WriteString("\n")
	b.WriteString(center(theme.Dim, r.LessonTitle))
	b.WriteString("\n\n")

	if sum := r.Summary; sum != nil && sum.Answers > 0 {
		b.WriteString(center(theme.Body, fmt.Sprintf("Answers: %d        Wrong: %d        First try: %d/%d        Accuracy: %.0f%%",
			sum.Answers, sum.WrongAnswers, sum.FirstTry, sum.TotalQuestions, sum.Accuracy*100)))
		b.WriteString("\n\n")
	}

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.XP).Bold(true), xpLine(r)))
	b.WriteString("\n")
	if r.LeveledUp() {
		b.WriteString(center(theme.Correct, fmt.Sprintf("Level up! You reached level %d", r.LevelAfter.Level)))
		b.WriteString("\n")
	}
	b.WriteString(center(theme.Dim, fmt.Sprintf("🔥 %d day streak   ♥ %d   %d XP total",
		r.Stats.Streak, r.Stats.Hearts, r.Stats.XP)))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))

	if len(r.CompletedQuests) > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Dim, "Quests"))
		b.WriteString("\n")
		b.WriteString(layout.Center(divider, width))
		b.WriteString("\n")
		for _, q := range r.CompletedQuests {
			b.WriteString(center(theme.Correct, fmt.Sprintf("✓ %s  +%d XP", q.Title, q.Reward)))
			b.WriteString("\n")
		}
	}

	if len(r.Unlocked) > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Dim, "Achievements"))
		b.WriteString("\n")
		b.WriteString(layout.Center(divider, width))
		b.WriteString("\n")
		for _, a := range r.Unlocked {
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent), fmt.Sprintf("%s %s  +%d XP", a.Icon, a.Title, a.Reward)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// xpLine describes the lesson reward.
func xpLine(r *progression.Report) string {
	switch r.Reward.Mode {
	case scoring.QuickComplete:
		return "Marked as read (no XP)"
	case scoring.Review:
		return fmt.Sprintf("+%d XP (review)", r.Reward.XP)
	}
	if r.Reward.Multiplier > 1 {
		return fmt.Sprintf("+%d XP (%d × %.1f streak bonus)", r.Reward.XP, r.Reward.Base, r.Reward.Multiplier)
	}
	return fmt.Sprintf("+%d XP", r.Reward.XP)
}
