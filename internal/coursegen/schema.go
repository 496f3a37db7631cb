package coursegen

import "github.com/eduquest/eduquest/internal/llm"

// CourseSchema is the structured output requested from the model.
var CourseSchema = &llm.Schema{
	Name:        "generated-course",
	Description: "A mini-course of multiple-choice quiz lessons",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A concise, engaging title for the entire course",
			},
			"lessons": map[string]any{
				"type":        "array",
				"description": "One lesson for each major section or chapter of the content",
				"minItems":    1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "A clear, descriptive title for this lesson",
						},
						"questions": map[string]any{
							"type":        "array",
							"description": "3 to 5 multiple-choice questions for this lesson",
							"minItems":    3,
							"maxItems":    5,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text": map[string]any{
										"type":        "string",
										"description": "The text of the question",
									},
									"options": map[string]any{
										"type":        "array",
										"description": "Exactly 4 answer options",
										"items":       map[string]any{"type": "string"},
										"minItems":    4,
										"maxItems":    4,
									},
									"correctAnswerIndex": map[string]any{
										"type":        "integer",
										"description": "0-based index of the correct option",
										"minimum":     0,
										"maximum":     3,
									},
								},
								"required":             []any{"text", "options", "correctAnswerIndex"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"title", "questions"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "lessons"},
		"additionalProperties": false,
	},
}
