package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/course"
	sess "github.com/eduquest/eduquest/internal/session"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/layout"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.Incorrect.Render(s.errMsg) + "\n\n" + theme.Hint.Render("Press any key to go back"))
	}
	if s.attempt == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading lesson...")
	}
	if s.confirmQuit {
		return lipgloss.NewStyle().
			Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(theme.Warning.Render("Leave this lesson?") + "\n\n" +
				theme.Dim.Render("Progress in this attempt will be lost.") + "\n\n" +
				theme.Body.Render("[Y] Leave    [N] Keep going"))
	}

	cw := components.ContentWidth(width)
	sections := []string{s.renderInfoLine(cw)}

	l := s.lesson()
	switch l.Type {
	case course.LessonReading:
		if l.Content != "" {
			sections = append(sections, components.Card(theme.Body.Width(cw-2).Render(l.Content), cw))
		}
	case course.LessonVideo:
		sections = append(sections, components.Card(
			theme.Body.Render("▶ Watch: ")+theme.Selected.Render(videoURL(l.VideoID)), cw))
	}

	if q := s.current(); q != nil {
		sections = append(sections, s.renderQuestion(q, cw))
	} else {
		sections = append(sections, theme.Hint.Render("Press Enter when you are done."))
	}

	if s.outcome != nil {
		sections = append(sections, s.renderFeedback(cw))
	}
	if s.notice != "" {
		sections = append(sections, theme.Warning.Render(s.notice))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(sections, "\n\n"))
}

// renderInfoLine shows the lesson type, position and hearts.
func (s *LessonScreen) renderInfoLine(cw int) string {
	done, total := s.attempt.Session.Progress()

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(string(s.lesson().Type))
	if s.attempt.Session.Review() {
		left += theme.Dim.Render("  REVIEW · no hearts at stake")
	}

	right := ""
	if total > 0 {
		right = theme.Dim.Render(fmt.Sprintf("Q %d/%d  ", min(done+1, total), total))
	}
	if s.lesson().IsQuiz() && !s.attempt.Session.Review() {
		right += layout.Hearts(s.attempt.Hearts, 5)
	}

	pad := cw - lipgloss.Width(left) - lipgloss.Width(right)
	line := left + strings.Repeat(" ", max(pad, 1)) + right
	if total == 0 {
		return line
	}
	return line + "\n" + components.NewProgressBar("", float64(done)/float64(total), false, cw).View()
}

func (s *LessonScreen) renderQuestion(q course.Question, cw int) string {
	text := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Render(q.QuestionText())

	var widget string
	switch q := q.(type) {
	case *course.MultipleChoiceQuestion:
		widget = s.mc.View()
	case *course.FillInTheBlankQuestion:
		widget = "Answer: " + s.input.View()
	case *course.MatchingQuestion:
		widget = s.renderMatching(q)
	case *course.SequencingQuestion:
		widget = s.renderSequencing()
	}
	return text + "\n" + theme.Dim.Render(q.Type().DisplayName()) + "\n\n" + widget
}

func (s *LessonScreen) renderMatching(q *course.MatchingQuestion) string {
	if s.matching == nil {
		return ""
	}
	content := make(map[string]string, len(s.matchAnswer))
	for _, a := range s.matchAnswer {
		content[a.ID] = a.Content
	}

	var left []string
	for i, p := range q.Prompts {
		slot := theme.Dim.Render("____")
		if a, ok := s.matching.Assignment(p.ID); ok {
			slot = theme.Selected.Render(content[a])
		}
		line := fmt.Sprintf("%s → %s", p.Content, slot)
		if i == s.matchCursor && s.attempt.Session.Phase() == sess.PhasePresenting {
			left = append(left, theme.Selected.Render("▸ ")+line)
		} else {
			left = append(left, "  "+line)
		}
	}

	var right []string
	for i, a := range s.matchAnswer {
		line := fmt.Sprintf("%d) %s", i+1, a.Content)
		if _, taken := s.matching.AssignedTo(a.ID); taken {
			right = append(right, theme.Dim.Render(line))
		} else {
			right = append(right, theme.Body.Render(line))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"),
		"      ",
		strings.Join(right, "\n"),
	)
}

func (s *LessonScreen) renderSequencing() string {
	if s.sequence == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.Dim.Render("Your order: "))
	placed := s.sequence.Placed()
	if len(placed) == 0 {
		b.WriteString(theme.Hint.Render("nothing placed yet"))
	}
	for i, item := range placed {
		if i > 0 {
			b.WriteString(theme.Dim.Render(" → "))
		}
		b.WriteString(theme.Selected.Render(item))
	}
	b.WriteString("\n\n")
	for i, item := range s.sequence.Available() {
		b.WriteString(fmt.Sprintf("  %d) %s\n", i+1, item))
	}
	return b.String()
}

func (s *LessonScreen) renderFeedback(cw int) string {
	out := s.outcome
	var lines []string
	if out.Correct {
		lines = append(lines, theme.Correct.Render("Correct!"))
	} else {
		lines = append(lines, theme.Incorrect.Render("Not quite"))
		switch {
		case !s.lesson().IsQuiz():
			lines = append(lines, theme.Dim.Render("Read the passage again and give it another try."))
		default:
			if q := s.current(); q != nil {
				lines = append(lines, theme.Dim.Render("Correct answer: "+correctAnswer(q)))
			}
		}
		if out.DeductHeart {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Heart).Render("-1 ♥"))
		}
	}

	if s.attempt.Session.LockedOut() {
		lines = append(lines, "",
			theme.Warning.Render("You ran out of hearts!"),
			theme.Dim.Render("Refill them to finish this quiz."),
			"", s.refillBtn.View())
	} else {
		lines = append(lines, "", theme.Hint.Render("Press Enter to continue"))
	}

	if out.Correct {
		return components.HighlightCard(strings.Join(lines, "\n"), cw)
	}
	return components.Card(strings.Join(lines, "\n"), cw)
}
