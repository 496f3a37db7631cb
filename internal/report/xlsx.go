// Package report exports a learner's progress as a spreadsheet.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/scoring"
	"github.com/eduquest/eduquest/internal/store"
)

// Sheet names, in workbook order.
const (
	SheetStats        = "Stats"
	SheetCompleted    = "Completed"
	SheetQuests       = "Quests"
	SheetAchievements = "Achievements"
	SheetActivity     = "Activity"
)

// ProgressReport is everything one export contains.
type ProgressReport struct {
	GeneratedAt time.Time
	Progress    *progression.Progression

	// LessonTitles resolves completed lesson ids; unknown ids are
	// exported without a title.
	LessonTitles map[string]string

	Activity []store.Activity
}

// ExportXLSX writes r as a workbook to w.
func ExportXLSX(w io.Writer, r ProgressReport) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes r as a workbook at path.
func SaveXLSX(path string, r ProgressReport) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func build(r ProgressReport) (*excelize.File, error) {
	if r.Progress == nil {
		return nil, fmt.Errorf("export: no progress to export")
	}
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0EBF5"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	w := &sheetWriter{f: f, header: header}

	if err := f.SetSheetName("Sheet1", SheetStats); err != nil {
		f.Close()
		return nil, err
	}
	w.stats(r)
	w.completed(r)
	w.quests(r)
	w.achievements(r)
	w.activity(r)
	if w.err != nil {
		f.Close()
		return nil, fmt.Errorf("build workbook: %w", w.err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// sheetWriter keeps the first error so the sheet builders read straight.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) sheet(name string, widths map[string]float64, header ...any) {
	if w.err != nil {
		return
	}
	if idx, _ := w.f.GetSheetIndex(name); idx < 0 {
		if _, w.err = w.f.NewSheet(name); w.err != nil {
			return
		}
	}
	for col, width := range widths {
		if w.err = w.f.SetColWidth(name, col, col, width); w.err != nil {
			return
		}
	}
	w.row(name, 1, header...)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(name, "A1", last, w.header)
}

func (w *sheetWriter) row(name string, n int, values ...any) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetSheetRow(name, fmt.Sprintf("A%d", n), &values)
}

func (w *sheetWriter) stats(r ProgressReport) {
	p := r.Progress
	st := p.Stats
	milestone := ""
	if m, ok := scoring.CurrentMilestone(st.Streak); ok {
		milestone = m.Badge + " " + m.Title
	}
	w.sheet(SheetStats, map[string]float64{"A": 22, "B": 32}, "Metric", "Value")
	rows := [][]any{
		{"Learner", p.User.Name},
		{"User ID", p.User.ID},
		{"XP", st.XP},
		{"Level", p.Level.Level},
		{"Level progress %", p.Level.Progress},
		{"XP to next level", p.Level.XPForNextLevel},
		{"Streak", st.Streak},
		{"Streak multiplier", scoring.Multiplier(st.Streak)},
		{"Milestone", milestone},
		{"Hearts", st.Hearts},
		{"Perfect scores", st.PerfectScores},
		{"Lessons completed", len(p.Completed)},
		{"Achievements", len(p.Unlocked)},
		{"Last active", st.LastActiveOn},
		{"Generated", r.GeneratedAt.Format(time.RFC3339)},
	}
	for i, row := range rows {
		w.row(SheetStats, i+2, row...)
	}
}

func (w *sheetWriter) completed(r ProgressReport) {
	w.sheet(SheetCompleted, map[string]float64{"A": 28, "B": 36}, "Lesson ID", "Title")
	for i, id := range r.Progress.Completed {
		w.row(SheetCompleted, i+2, id, r.LessonTitles[id])
	}
}

func (w *sheetWriter) quests(r ProgressReport) {
	w.sheet(SheetQuests, map[string]float64{"A": 26, "B": 18}, "Quest", "Type", "Progress", "Target", "Reward", "Completed", "Date")
	for i, q := range r.Progress.Quests {
		w.row(SheetQuests, i+2, q.Title, string(q.Type), q.Progress, q.Target, q.Reward, q.Completed, q.Date)
	}
}

func (w *sheetWriter) achievements(r ProgressReport) {
	w.sheet(SheetAchievements, map[string]float64{"A": 18, "B": 24, "C": 40, "F": 22}, "ID", "Title", "Description", "Reward", "Unlocked", "Unlocked At")
	n := 2
	for _, u := range r.Progress.Unlocked {
		w.row(SheetAchievements, n, u.ID, u.Title, u.Description, u.Reward, true, u.UnlockedAt.Format(time.RFC3339))
		n++
	}
	for _, a := range r.Progress.Locked() {
		w.row(SheetAchievements, n, a.ID, a.Title, a.Description, a.Reward, false, "")
		n++
	}
}

func (w *sheetWriter) activity(r ProgressReport) {
	w.sheet(SheetActivity, map[string]float64{"A": 22, "B": 12, "D": 28}, "Timestamp", "Day", "Kind", "Ref", "XP")
	for i, a := range r.Activity {
		w.row(SheetActivity, i+2, a.Timestamp.Format(time.RFC3339), a.Day, a.Kind, a.Ref, a.XP)
	}
}
