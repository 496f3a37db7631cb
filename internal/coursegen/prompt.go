package coursegen

import (
	"strings"
)

const systemPrompt = `You are an expert instructional designer converting raw material into a structured mini-course for a gamified learning app.`

const instructions = `Analyze the content and identify its main sections or chapters. Create a course that follows that structure:
1. A concise, engaging title for the entire course.
2. One lesson per major section, each with a clear, descriptive title.
3. Each lesson has 3 to 5 multiple-choice questions testing the key concepts of its section.
4. Each question has its text, exactly 4 options and the 0-based index of the correct option.
Do not wrap the JSON in markdown.`

func buildTextMessage(content string) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nContent to analyze:\n---\n")
	b.WriteString(content)
	b.WriteString("\n---\n")
	return b.String()
}

func buildPDFMessage() string {
	return instructions + "\n\nThe content to analyze is the attached PDF document."
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
