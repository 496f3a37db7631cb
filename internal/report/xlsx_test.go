package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eduquest/eduquest/internal/achievements"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/store"
)

var now = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

func sampleReport() ProgressReport {
	first, _ := achievements.Lookup("first-lesson")
	p := &progression.Progression{
		User:      store.User{ID: "u1", Name: "Ana"},
		Stats:     store.Stats{UserID: "u1", XP: 250, Streak: 8, Hearts: 4, PerfectScores: 1, LastActiveOn: "2026-05-01"},
		Level:     scoring.Level(250),
		Completed: []string{"lesson-1", "lesson-x"},
		Quests:    quests.Generate(now),
		Unlocked:  []achievements.Unlocked{{Achievement: first, UnlockedAt: now.Add(-time.Hour)}},
	}
	return ProgressReport{
		GeneratedAt:  now,
		Progress:     p,
		LessonTitles: map[string]string{"lesson-1": "Basic Greetings"},
		Activity: []store.Activity{
			{Kind: store.ActivityLesson, Ref: "lesson-1", XP: 30, Day: "2026-05-01", Timestamp: now.Add(-20 * time.Hour)},
			{Kind: store.ActivityRefill, Day: "2026-05-02", Timestamp: now},
		},
	}
}

func TestExportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStats, SheetCompleted, SheetQuests, SheetAchievements, SheetActivity}, f.GetSheetList())

	stats, err := f.GetRows(SheetStats)
	require.NoError(t, err)
	values := map[string]string{}
	for _, row := range stats[1:] {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "Ana", values["Learner"])
	assert.Equal(t, "250", values["XP"])
	assert.Equal(t, "8", values["Streak"])
	assert.Equal(t, "1.2", values["Streak multiplier"])
	assert.Contains(t, values["Milestone"], "Week Warrior")

	completed, err := f.GetRows(SheetCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 3)
	assert.Equal(t, []string{"lesson-1", "Basic Greetings"}, completed[1])
	assert.Equal(t, []string{"lesson-x"}, completed[2])

	qs, err := f.GetRows(SheetQuests)
	require.NoError(t, err)
	assert.Len(t, qs, 1+5)

	ach, err := f.GetRows(SheetAchievements)
	require.NoError(t, err)
	require.Len(t, ach, 1+len(achievements.All()))
	assert.Equal(t, "first-lesson", ach[1][0])
	assert.Equal(t, "TRUE", ach[1][4])

	act, err := f.GetRows(SheetActivity)
	require.NoError(t, err)
	require.Len(t, act, 3)
	assert.Equal(t, store.ActivityLesson, act[1][2])
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.xlsx")
	require.NoError(t, SaveXLSX(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 5)
}

func TestExportRequiresProgress(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, ExportXLSX(&buf, ProgressReport{}))
}
