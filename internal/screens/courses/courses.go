// Package courses lists the catalog and the lessons of one course.
package courses

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/router"
	"github.com/eduquest/eduquest/internal/screen"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/screens/lesson"
	"github.com/eduquest/eduquest/internal/store"
	"github.com/eduquest/eduquest/internal/ui/components"
	"github.com/eduquest/eduquest/internal/ui/layout"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

type catalogLoadedMsg struct {
	courses []store.CourseSummary
	err     error
}

type courseLoadedMsg struct {
	course    *course.Course
	completed map[string]bool
	err       error
}

type reviewBuiltMsg struct {
	lesson course.Lesson
	ok     bool
	err    error
}

// CoursesScreen shows the catalog and, once a course is picked, its
// lessons with completion marks.
type CoursesScreen struct {
	deps    screens.Deps
	catalog []store.CourseSummary
	cursor  int

	course       *course.Course
	completed    map[string]bool
	lessonCursor int

	loading bool
	notice  string
	err     error
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)
var _ screen.Resumer = (*CoursesScreen)(nil)
var _ screen.EscapeCapturer = (*CoursesScreen)(nil)

// New creates a CoursesScreen.
func New(deps screens.Deps) *CoursesScreen {
	return &CoursesScreen{deps: deps, loading: true}
}

func (c *CoursesScreen) Init() tea.Cmd {
	return c.loadCatalog()
}

// Resume refreshes completion marks after a lesson.
func (c *CoursesScreen) Resume() tea.Cmd {
	if c.course == nil {
		return c.loadCatalog()
	}
	return c.loadCourse(c.course.ID)
}

func (c *CoursesScreen) Title() string {
	if c.course != nil {
		return c.course.Title
	}
	return "Courses"
}

// CapturesEscape keeps Esc inside the screen while a course is open so
// that it returns to the catalog.
func (c *CoursesScreen) CapturesEscape() bool {
	return c.course != nil
}

func (c *CoursesScreen) KeyHints() []layout.KeyHint {
	if c.course == nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Open course"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start lesson"},
		{Key: "R", Description: "Build review"},
		{Key: "Esc", Description: "All courses"},
	}
}

func (c *CoursesScreen) loadCatalog() tea.Cmd {
	svc := c.deps.Service
	return func() tea.Msg {
		ctx, cancel := screens.Context()
		defer cancel()
		list, err := svc.Catalog().ListCourses(ctx)
		return catalogLoadedMsg{courses: list, err: err}
	}
}

func (c *CoursesScreen) loadCourse(id string) tea.Cmd {
	deps := c.deps
	return func() tea.Msg {
		ctx, cancel := screens.Context()
		defer cancel()
		crs, err := deps.Service.Catalog().GetCourse(ctx, id)
		if err != nil {
			return courseLoadedMsg{err: err}
		}
		p, err := deps.Service.Load(ctx, deps.UserID)
		if err != nil {
			return courseLoadedMsg{err: err}
		}
		return courseLoadedMsg{course: crs, completed: p.CompletedSet()}
	}
}

func (c *CoursesScreen) buildReview() tea.Cmd {
	deps, courseID := c.deps, c.course.ID
	return func() tea.Msg {
		ctx, cancel := screens.Context()
		defer cancel()
		l, ok, err := deps.Service.ReviewLesson(ctx, deps.UserID, courseID)
		return reviewBuiltMsg{lesson: l, ok: ok, err: err}
	}
}

func (c *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		c.loading = false
		c.catalog, c.err = msg.courses, msg.err
		c.cursor = min(c.cursor, max(len(c.catalog)-1, 0))
		return c, nil

	case courseLoadedMsg:
		c.loading = false
		if msg.err != nil {
			c.err = msg.err
			return c, nil
		}
		c.err = nil
		c.course, c.completed = msg.course, msg.completed
		c.lessonCursor = min(c.lessonCursor, max(len(c.course.Lessons)-1, 0))
		return c, nil

	case reviewBuiltMsg:
		switch {
		case msg.err != nil:
			c.notice = "Could not build a review: " + msg.err.Error()
			return c, nil
		case !msg.ok:
			c.notice = "Nothing to review. Every answer is correct!"
			return c, nil
		}
		c.notice = fmt.Sprintf("Added %q with %d questions", msg.lesson.Title, len(msg.lesson.Questions))
		c.lessonCursor = len(c.course.Lessons) // the appended lesson
		return c, c.loadCourse(c.course.ID)

	case tea.KeyPressMsg:
		return c.handleKey(msg)
	}
	return c, nil
}

func (c *CoursesScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if c.loading {
		return c, nil
	}
	c.notice = ""

	if c.course == nil {
		switch msg.String() {
		case "up", "k":
			c.cursor = max(c.cursor-1, 0)
		case "down", "j":
			c.cursor = min(c.cursor+1, max(len(c.catalog)-1, 0))
		case "enter":
			if len(c.catalog) == 0 {
				return c, nil
			}
			c.loading = true
			c.lessonCursor = 0
			return c, c.loadCourse(c.catalog[c.cursor].ID)
		}
		return c, nil
	}

	switch msg.String() {
	case "esc":
		c.course, c.completed = nil, nil
		return c, nil
	case "up", "k":
		c.lessonCursor = max(c.lessonCursor-1, 0)
	case "down", "j":
		c.lessonCursor = min(c.lessonCursor+1, max(len(c.course.Lessons)-1, 0))
	case "r", "R":
		return c, c.buildReview()
	case "enter":
		if len(c.course.Lessons) == 0 {
			return c, nil
		}
		l := c.course.Lessons[c.lessonCursor]
		next := lesson.New(c.deps, c.course.ID, l.ID)
		return c, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
	return c, nil
}

func (c *CoursesScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case c.err != nil:
		body = theme.Incorrect.Render("Error: " + c.err.Error())
	case c.loading:
		body = theme.Dim.Render("Loading...")
	case c.course == nil:
		body = c.renderCatalog(cw)
	default:
		body = c.renderLessons(cw)
	}
	if c.notice != "" {
		body += "\n\n" + theme.Warning.Render(c.notice)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (c *CoursesScreen) renderCatalog(cw int) string {
	if len(c.catalog) == 0 {
		return theme.Dim.Render("No courses yet. Import one with `eduquest courses import`.")
	}
	var b strings.Builder
	b.WriteString(theme.Title.Render("Choose a course") + "\n\n")
	for i, cs := range c.catalog {
		line := fmt.Sprintf("%s  (%d lessons)", cs.Title, cs.LessonCount)
		if i == c.cursor {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
			if cs.Description != "" {
				b.WriteString(theme.Hint.Width(cw).Render("    "+cs.Description) + "\n")
			}
			continue
		}
		b.WriteString(theme.Unselected.Render("  "+line) + "\n")
	}
	return b.String()
}

func (c *CoursesScreen) renderLessons(cw int) string {
	done := 0
	for _, l := range c.course.Lessons {
		if c.completed[l.ID] {
			done++
		}
	}
	total := len(c.course.Lessons)

	var b strings.Builder
	b.WriteString(theme.Title.Render(c.course.Title) + "\n")
	if total > 0 {
		b.WriteString(components.NewProgressBar("", float64(done)/float64(total), true, cw).View() + "\n")
	}
	b.WriteString("\n")

	for i, l := range c.course.Lessons {
		mark := theme.Dim.Render("○")
		if c.completed[l.ID] {
			mark = theme.Correct.Render("✓")
		}
		kind := string(l.Type)
		if course.IsReviewLesson(&l) {
			kind = "REVIEW"
		}
		line := fmt.Sprintf("%d. %s", i+1, l.Title)
		tag := theme.Dim.Render(fmt.Sprintf("  %s · %d questions", kind, len(l.Questions)))
		if i == c.lessonCursor {
			b.WriteString(mark + " " + theme.Selected.Render("▸ "+line) + tag + "\n")
		} else {
			b.WriteString(mark + " " + theme.Unselected.Render("  "+line) + tag + "\n")
		}
	}
	return b.String()
}
