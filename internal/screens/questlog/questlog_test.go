package questlog

import (
	"strings"
	"testing"

	"github.com/eduquest/eduquest/internal/screens/screentest"
)

func TestQuestLogScreen(t *testing.T) {
	env := screentest.New(t)
	q := New(env.Deps)
	if !strings.Contains(q.View(100, 40), "Loading") {
		t.Error("expected loading state before progress arrives")
	}
	for _, msg := range screentest.Drain(q.Init()) {
		q.Update(msg)
	}
	if q.err != nil {
		t.Fatal(q.err)
	}
	view := q.View(100, 40)
	if !strings.Contains(view, "0% complete") {
		t.Errorf("view:\n%s", view)
	}
	for _, quest := range q.progress.Quests {
		if !strings.Contains(view, quest.Title) {
			t.Errorf("quest %q not listed", quest.Title)
		}
	}

}
