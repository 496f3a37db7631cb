package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func questionSchema() *Schema {
	return &Schema{
		Name:        "test-question",
		Description: "A multiple choice question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"correctAnswerIndex": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
				"difficulty":         map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			},
			"required": []any{"text", "options", "correctAnswerIndex"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"text":"Hola means?","options":["hi","bye","yes","no"],"correctAnswerIndex":0,"difficulty":"easy"}`, false},
		{"valid without optional", `{"text":"Adiós means?","options":["hi","bye","yes","no"],"correctAnswerIndex":1}`, false},
		{"missing required", `{"text":"Gracias means?"}`, true},
		{"wrong type", `{"text":"t","options":["a","b","c","d"],"correctAnswerIndex":"zero"}`, true},
		{"index out of range", `{"text":"t","options":["a","b","c","d"],"correctAnswerIndex":4}`, true},
		{"too few options", `{"text":"t","options":["a","b"],"correctAnswerIndex":0}`, true},
		{"invalid enum", `{"text":"t","options":["a","b","c","d"],"correctAnswerIndex":0,"difficulty":"brutal"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(questionSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedLessons(t *testing.T) {
	schema := &Schema{
		Name: "test-course",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"lessons": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title": map[string]any{"type": "string"},
						},
						"required": []any{"title"},
					},
				},
			},
			"required": []any{"title", "lessons"},
		},
	}

	valid := json.RawMessage(`{"title":"Spanish","lessons":[{"title":"Greetings"},{"title":"Numbers"}]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"title":"Spanish","lessons":[{"name":"Greetings"}]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for lesson without title")
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}
	resp := &Response{Content: json.RawMessage(`{"text":"Hola means?","options":["hi","bye","yes","no"],"correctAnswerIndex":0}`)}
	if err := Decode(resp, questionSchema(), &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Text != "Hola means?" || len(out.Options) != 4 {
		t.Errorf("decoded %+v", out)
	}

	var invErr *ErrInvalidResponse
	bad := &Response{Content: json.RawMessage(`{"text":"t"}`)}
	if err := Decode(bad, questionSchema(), &out); !errors.As(err, &invErr) {
		t.Errorf("schema violation: %v", err)
	}
	if err := Decode(nil, questionSchema(), &out); !errors.As(err, &invErr) {
		t.Errorf("nil response: %v", err)
	}
	// Without a schema only the JSON shape is checked.
	var n int
	if err := Decode(&Response{Content: json.RawMessage(`"seven"`)}, nil, &n); !errors.As(err, &invErr) {
		t.Errorf("type mismatch: %v", err)
	}
}
