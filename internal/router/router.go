// Package router keeps the stack of screens the learner has walked
// through and turns navigation messages into stack operations.
package router

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/screen"
)

// Navigation messages. Screens return them from commands; the router
// consumes them before anything reaches the active screen.
type (
	PushScreenMsg struct{ Screen screen.Screen }
	PopScreenMsg  struct{}
	// PopToRootMsg unwinds to the bottom screen, usually home.
	PopToRootMsg struct{}
	// ReplaceScreenMsg swaps the active screen in place, so Esc on the
	// new screen goes back to whatever was under the old one.
	ReplaceScreenMsg struct{ Screen screen.Screen }
)

// ProgressChangedMsg tells the application that the learner's stats
// changed and the header needs reloading.
type ProgressChangedMsg struct{}

// Router is a screen stack. It never becomes empty.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop drops the active screen unless it is the root, then resumes the
// screen it uncovers.
func (r *Router) Pop() tea.Cmd {
	return r.unwind(r.top() - 1)
}

// PopToRoot drops everything above the root screen.
func (r *Router) PopToRoot() tea.Cmd {
	return r.unwind(0)
}

func (r *Router) unwind(to int) tea.Cmd {
	if to < 0 || to >= r.top() {
		return nil
	}
	clear(r.stack[to+1:])
	r.stack = r.stack[:to+1]
	if res, ok := r.Active().(screen.Resumer); ok {
		return res.Resume()
	}
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[r.top()] = s
	return s.Init()
}

func (r *Router) Active() screen.Screen { return r.stack[r.top()] }

func (r *Router) Depth() int { return len(r.stack) }

// Trail joins the titles of every screen above the root, for example
// "Courses › Greetings". It is empty at the root.
func (r *Router) Trail() string {
	titles := make([]string, 0, r.top())
	for _, s := range r.stack[1:] {
		if t := s.Title(); t != "" {
			titles = append(titles, t)
		}
	}
	return strings.Join(titles, " › ")
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case PopToRootMsg:
		return r.PopToRoot()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	next, cmd := r.Active().Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
