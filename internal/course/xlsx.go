package course

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet columns, one row per question:
//
//	A lesson title (blank repeats the previous lesson)
//	B lesson type (QUIZ, READING, VIDEO; blank means QUIZ)
//	C question type (blank on a content-only row)
//	D question text
//	E options / items / prompt=answer pairs, separated by "|"
//	F answer: option index or option text for multiple choice, text for fill in the blank
//	G reading content, or the video id of a VIDEO lesson
const (
	colLesson = iota
	colLessonType
	colQuestionType
	colText
	colChoices
	colAnswer
	colContent
)

// XLSXOptions configures ImportXLSX.
type XLSXOptions struct {
	Sheet    string // defaults to the first sheet
	CourseID string // defaults to a generated course-<uuid>
	Title    string // defaults to the sheet name
	StartRow int    // 1-based first data row, defaults to 2
}

// ImportXLSX reads one course from a workbook. Every bad row is reported;
// the course is returned only when all rows parse and it validates.
func ImportXLSX(r io.Reader, opts XLSXOptions) (*Course, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if opts.StartRow <= 0 {
		opts.StartRow = 2
	}
	if opts.CourseID == "" {
		opts.CourseID = "course-" + uuid.NewString()
	}
	if opts.Title == "" {
		opts.Title = sheet
	}

	c := &Course{ID: opts.CourseID, Title: opts.Title}
	var (
		rowErrs []error
		current *Lesson
	)
	for i, row := range rows {
		if i < opts.StartRow-1 || blankRow(row) {
			continue
		}
		title := cell(row, colLesson)
		if title != "" && (current == nil || current.Title != title) {
			lt := LessonType(strings.ToUpper(cell(row, colLessonType)))
			if lt == "" {
				lt = LessonQuiz
			}
			c.Lessons = append(c.Lessons, Lesson{
				ID:    fmt.Sprintf("%s-l%d", c.ID, len(c.Lessons)+1),
				Title: title,
				Type:  lt,
			})
			current = &c.Lessons[len(c.Lessons)-1]
		}
		if current == nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: no lesson title", i+1))
			continue
		}
		if err := applyRow(current, row); err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", i+1, err))
		}
	}
	if len(rowErrs) > 0 {
		return nil, errors.Join(rowErrs...)
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyRow(l *Lesson, row []string) error {
	if content := cell(row, colContent); content != "" {
		if l.Type == LessonVideo {
			l.VideoID = content
		} else {
			l.Content = content
		}
	}
	qt := QuestionType(strings.ToUpper(cell(row, colQuestionType)))
	if qt == "" {
		return nil
	}

	id := fmt.Sprintf("%s-q%d", l.ID, len(l.Questions)+1)
	text := cell(row, colText)
	choices := splitChoices(cell(row, colChoices))
	answer := cell(row, colAnswer)

	var q Question
	switch qt {
	case MultipleChoice:
		idx, err := choiceIndex(choices, answer)
		if err != nil {
			return err
		}
		q = &MultipleChoiceQuestion{ID: id, Text: text, Options: choices, CorrectAnswerIndex: idx}
	case FillInTheBlank:
		q = &FillInTheBlankQuestion{ID: id, Text: text, CorrectAnswer: answer}
	case Matching:
		m := &MatchingQuestion{ID: id, Text: text}
		for n, pair := range choices {
			left, right, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("matching pair %q is not prompt=answer", pair)
			}
			pid := fmt.Sprintf("m%d", n+1)
			m.Prompts = append(m.Prompts, Pair{ID: pid, Content: strings.TrimSpace(left)})
			m.Answers = append(m.Answers, Pair{ID: pid, Content: strings.TrimSpace(right)})
		}
		q = m
	case Sequencing:
		q = &SequencingQuestion{ID: id, Text: text, Items: choices}
	default:
		return fmt.Errorf("unknown question type %q", qt)
	}
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	l.Questions = append(l.Questions, q)
	return nil
}

func choiceIndex(options []string, answer string) (int, error) {
	if n, err := strconv.Atoi(answer); err == nil {
		return n, nil
	}
	for i, o := range options {
		if strings.EqualFold(o, answer) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("answer %q matches no option", answer)
}

func splitChoices(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
