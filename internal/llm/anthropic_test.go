package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicMessage(stop string, texts ...string) map[string]any {
	blocks := make([]map[string]any, len(texts))
	for i, s := range texts {
		blocks[i] = map[string]any{"type": "text", "text": s}
	}
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     blocks,
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicFailure(kind, msg string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": msg}}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	hint := Request{
		System:    "You are QuestBot.",
		Messages:  []Message{{Role: RoleUser, Content: "Hint please"}},
		MaxTokens: 128,
	}
	structured := hint
	structured.Schema = questionSchema()
	valid := `{"text":"Adiós means?","options":["bye","hi","yes","no"],"correctAnswerIndex":0}`

	tests := []struct {
		name    string
		req     Request
		status  int
		body    any
		content string
		check   func(error) bool
	}{
		{
			name:    "text blocks are joined",
			req:     hint,
			status:  http.StatusOK,
			body:    anthropicMessage("end_turn", "Think of ", "a greeting."),
			content: `"Think of a greeting."`,
		},
		{
			name:    "structured reply",
			req:     structured,
			status:  http.StatusOK,
			body:    anthropicMessage("end_turn", valid),
			content: valid,
		},
		{
			name:   "cut off at max tokens",
			req:    structured,
			status: http.StatusOK,
			body:   anthropicMessage("max_tokens", `{"text":"Adi`),
			check:  func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
		{
			name:   "no text",
			req:    hint,
			status: http.StatusOK,
			body:   anthropicMessage("end_turn"),
			check:  func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
		{
			name:   "rate limited",
			req:    hint,
			status: http.StatusTooManyRequests,
			body:   anthropicFailure("rate_limit_error", "slow down"),
			check:  func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) },
		},
		{
			name:   "bad key",
			req:    hint,
			status: http.StatusUnauthorized,
			body:   anthropicFailure("authentication_error", "invalid x-api-key"),
			check:  func(err error) bool { return errors.Is(err, ErrUnauthorized) },
		},
		{
			name:   "overloaded",
			req:    hint,
			status: 529,
			body:   anthropicFailure("overloaded_error", "overloaded"),
			check:  func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, stubAPI(tt.status, tt.body))
			resp, err := p.Generate(context.Background(), tt.req)
			if tt.check != nil {
				if err == nil || !tt.check(err) {
					t.Fatalf("unexpected error: %T %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if string(resp.Content) != tt.content {
				t.Errorf("content = %s, want %s", resp.Content, tt.content)
			}
			if resp.StopReason != StopEnd {
				t.Errorf("stop = %q", resp.StopReason)
			}
			if resp.Usage.TotalTokens != 80 {
				t.Errorf("usage = %+v", resp.Usage)
			}
		})
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	for in, want := range map[string]string{
		"claude-sonnet":            "claude-sonnet-4-20250514",
		"claude-haiku":             "claude-haiku-4-5-20251001",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	} {
		if got := resolveModel(in, anthropicModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAnthropicProvider_SendsPDFAsDocumentBlock(t *testing.T) {
	type block struct {
		Type   string `json:"type"`
		Text   string `json:"text"`
		Source struct {
			Type      string `json:"type"`
			MediaType string `json:"media_type"`
			Data      string `json:"data"`
		} `json:"source"`
	}
	var sent struct {
		System   []block `json:"system"`
		Messages []struct {
			Role    string  `json:"role"`
			Content []block `json:"content"`
		} `json:"messages"`
	}
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode request: %v", err)
		}
		stubAPI(http.StatusOK, anthropicMessage("end_turn", "ok"))(w, r)
	})

	_, err := p.Generate(context.Background(), Request{
		System: "Author a course.",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "Build a course from this document.",
			Attachments: []Attachment{{MIMEType: MIMETypePDF, Data: []byte("%PDF")}},
		}},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sent.System) != 1 || sent.System[0].Text != "Author a course." {
		t.Errorf("system = %+v", sent.System)
	}
	if len(sent.Messages) != 1 || sent.Messages[0].Role != "user" || len(sent.Messages[0].Content) != 2 {
		t.Fatalf("messages = %+v", sent.Messages)
	}
	doc, text := sent.Messages[0].Content[0], sent.Messages[0].Content[1]
	if doc.Type != "document" || doc.Source.Type != "base64" || doc.Source.MediaType != MIMETypePDF {
		t.Errorf("document block = %+v", doc)
	}
	if doc.Source.Data != base64.StdEncoding.EncodeToString([]byte("%PDF")) {
		t.Errorf("data = %q", doc.Source.Data)
	}
	if text.Type != "text" || text.Text != "Build a course from this document." {
		t.Errorf("text block = %+v", text)
	}
}

func TestAnthropicProvider_RejectsNonPDFAttachment(t *testing.T) {
	p := &AnthropicProvider{model: "claude-haiku-4-5-20251001"}
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "x", Attachments: []Attachment{{MIMEType: "image/png"}}}},
	})
	if !errors.Is(err, ErrUnsupportedAttachment) {
		t.Fatalf("expected ErrUnsupportedAttachment, got %v", err)
	}
}

func TestNewAnthropicProvider(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Error("missing key should fail")
	}
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-sonnet"})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	if p.ModelID() != "claude-sonnet-4-20250514" {
		t.Errorf("model = %q", p.ModelID())
	}
}
