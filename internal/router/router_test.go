package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eduquest/eduquest/internal/screen"
)

type stubScreen struct {
	title   string
	inits   int
	resumes int
}

func (s *stubScreen) Init() tea.Cmd                           { s.inits++; return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

type resumingScreen struct{ *stubScreen }

func (s resumingScreen) Resume() tea.Cmd { s.resumes++; return nil }

func titles(r *Router) []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{"push", []tea.Msg{PushScreenMsg{&stubScreen{title: "courses"}}}, []string{"home", "courses"}},
		{"pop", []tea.Msg{PushScreenMsg{&stubScreen{title: "courses"}}, PopScreenMsg{}}, []string{"home"}},
		{"pop at root", []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}, []string{"home"}},
		{"replace root", []tea.Msg{ReplaceScreenMsg{&stubScreen{title: "welcome"}}}, []string{"welcome"}},
		{
			"replace keeps depth",
			[]tea.Msg{PushScreenMsg{&stubScreen{title: "lesson"}}, ReplaceScreenMsg{&stubScreen{title: "summary"}}},
			[]string{"home", "summary"},
		},
		{
			"pop to root",
			[]tea.Msg{
				PushScreenMsg{&stubScreen{title: "courses"}},
				PushScreenMsg{&stubScreen{title: "lesson"}},
				PopToRootMsg{},
			},
			[]string{"home"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&stubScreen{title: "home"})
			for _, m := range tt.msgs {
				r.Update(m)
			}
			if got := titles(r); !equal(got, tt.want) {
				t.Errorf("stack = %v, want %v", got, tt.want)
			}
			if r.Depth() != len(tt.want) || r.Active().Title() != tt.want[len(tt.want)-1] {
				t.Errorf("depth %d, active %q", r.Depth(), r.Active().Title())
			}
		})
	}
}

func TestInitRunsOnNewScreens(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	pushed := &stubScreen{title: "courses"}
	replaced := &stubScreen{title: "lesson"}

	r.Push(pushed)
	r.Replace(replaced)

	if pushed.inits != 1 || replaced.inits != 1 {
		t.Errorf("inits: pushed %d, replaced %d", pushed.inits, replaced.inits)
	}
}

func TestResume(t *testing.T) {
	home := resumingScreen{&stubScreen{title: "home"}}
	r := New(home)

	r.Push(&stubScreen{title: "courses"})
	r.Pop()
	if home.resumes != 1 {
		t.Fatalf("resumes after pop = %d", home.resumes)
	}

	r.Pop()
	if home.resumes != 1 {
		t.Errorf("pop at root resumed again")
	}

	r.Push(&stubScreen{title: "courses"})
	r.Push(&stubScreen{title: "lesson"})
	r.PopToRoot()
	if home.resumes != 2 {
		t.Errorf("pop to root resumed %d times in total, want 2", home.resumes)
	}
}

func TestTrail(t *testing.T) {
	r := New(&stubScreen{title: "Home"})
	if r.Trail() != "" {
		t.Errorf("root trail = %q", r.Trail())
	}
	r.Push(&stubScreen{title: "Courses"})
	r.Push(&stubScreen{})
	r.Push(&stubScreen{title: "Greetings"})
	if got, want := r.Trail(), "Courses › Greetings"; got != want {
		t.Errorf("trail = %q, want %q", got, want)
	}
}
