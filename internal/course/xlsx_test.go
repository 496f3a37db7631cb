package course

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := []any{"lesson", "lesson_type", "question_type", "prompt", "choices", "answer", "content"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+2), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportXLSX(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Colors", "QUIZ", "MULTIPLE_CHOICE", "What is rojo?", "Red|Blue|Green", "Red"},
		{"", "", "MULTIPLE_CHOICE", "What is azul?", "Red|Blue|Green", "1"},
		{"", "", "MATCHING", "Match them", "verde=Green|negro=Black"},
		{"Reading", "READING", "", "", "", "", "Colors are colores."},
		{"", "", "FILL_IN_THE_BLANK", "Type blanco", "", "white"},
		{"Order", "", "SEQUENCING", "Order", "uno|dos|tres"},
	})

	c, err := ImportXLSX(buf, XLSXOptions{CourseID: "course-colors", Title: "Colors"})
	require.NoError(t, err)

	assert.Equal(t, "course-colors", c.ID)
	require.Len(t, c.Lessons, 3)
	assert.Equal(t, []string{"course-colors-l1", "course-colors-l2", "course-colors-l3"}, c.LessonIDs())

	quiz := c.Lessons[0]
	require.Len(t, quiz.Questions, 3)
	first := quiz.Questions[0].(*MultipleChoiceQuestion)
	assert.Equal(t, 0, first.CorrectAnswerIndex)
	assert.Equal(t, 1, quiz.Questions[1].(*MultipleChoiceQuestion).CorrectAnswerIndex)
	match := quiz.Questions[2].(*MatchingQuestion)
	assert.Equal(t, []Pair{{"m1", "verde"}, {"m2", "negro"}}, match.Prompts)
	assert.Equal(t, []Pair{{"m1", "Green"}, {"m2", "Black"}}, match.Answers)

	reading := c.Lessons[1]
	assert.Equal(t, LessonReading, reading.Type)
	assert.Equal(t, "Colors are colores.", reading.Content)
	require.Len(t, reading.Questions, 1)
	assert.Equal(t, FillInTheBlank, reading.Questions[0].Type())

	assert.Equal(t, LessonQuiz, c.Lessons[2].Type)
	assert.Equal(t, []string{"uno", "dos", "tres"}, c.Lessons[2].Questions[0].(*SequencingQuestion).Items)
}

func TestImportXLSX_RowErrors(t *testing.T) {
	buf := workbook(t, [][]any{
		{"", "", "MULTIPLE_CHOICE", "orphan", "a|b", "0"},
		{"L", "", "MULTIPLE_CHOICE", "bad answer", "a|b", "c"},
		{"", "", "MATCHING", "bad pair", "a-b"},
		{"", "", "SEQUENCING", "dup", "a|a"},
	})

	_, err := ImportXLSX(buf, XLSXOptions{CourseID: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2: no lesson title")
	assert.Contains(t, err.Error(), `row 3: answer "c" matches no option`)
	assert.Contains(t, err.Error(), "row 4: matching pair")
	assert.Contains(t, err.Error(), "row 5:")
	assert.True(t, errors.Is(err, ErrMalformed), "sequencing row error should be malformed")
}

func TestImportXLSX_DefaultsTitleAndID(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Only", "", "FILL_IN_THE_BLANK", "Say hi", "", "hola"},
	})
	c, err := ImportXLSX(buf, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", c.Title)
	assert.Regexp(t, `^course-[0-9a-f-]{36}$`, c.ID)
}
