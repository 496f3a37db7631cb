package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// stubAPI answers every request with status and body encoded as JSON.
func stubAPI(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func newTestOpenAIProvider(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), model: "gpt-4o-mini"}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": finish}},
		"usage":   map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	greet := Request{
		System:    "You are QuestBot.",
		Messages:  []Message{{Role: RoleUser, Content: "How do I say hello?"}},
		MaxTokens: 256,
	}
	structured := greet
	structured.Schema = questionSchema()

	tests := []struct {
		name    string
		req     Request
		status  int
		body    any
		content string
		stop    string
		check   func(error) bool
	}{
		{
			name:    "plain reply is quoted",
			req:     greet,
			status:  http.StatusOK,
			body:    chatCompletion("Say ¡Hola!", "stop"),
			content: `"Say ¡Hola!"`,
			stop:    StopEnd,
		},
		{
			name:    "structured reply passes validation",
			req:     structured,
			status:  http.StatusOK,
			body:    chatCompletion(`{"text":"Hola means?","options":["hi","bye","yes","no"],"correctAnswerIndex":0}`, "stop"),
			content: `{"text":"Hola means?","options":["hi","bye","yes","no"],"correctAnswerIndex":0}`,
			stop:    StopEnd,
		},
		{
			name:   "truncated structured reply",
			req:    structured,
			status: http.StatusOK,
			body:   chatCompletion(`{"text":"Hol`, "length"),
			check:  func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
		{
			name:   "reply breaking the schema",
			req:    structured,
			status: http.StatusOK,
			body:   chatCompletion(`{"text":"x"}`, "stop"),
			check:  func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
		{
			name:   "rate limited",
			req:    greet,
			status: http.StatusTooManyRequests,
			body:   map[string]any{"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"}},
			check:  func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) },
		},
		{
			name:   "bad key",
			req:    greet,
			status: http.StatusUnauthorized,
			body:   map[string]any{"error": map[string]any{"type": "invalid_request_error", "message": "bad key"}},
			check:  func(err error) bool { return errors.Is(err, ErrUnauthorized) },
		},
		{
			name:   "server error",
			req:    greet,
			status: http.StatusInternalServerError,
			body:   map[string]any{"error": map[string]any{"type": "server_error", "message": "boom"}},
			check:  func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
		{
			name:   "no choices",
			req:    greet,
			status: http.StatusOK,
			body:   map[string]any{"id": "x", "object": "chat.completion", "choices": []any{}},
			check:  func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, stubAPI(tt.status, tt.body))
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
			if resp.StopReason != tt.stop {
				t.Errorf("stop = %q, want %q", resp.StopReason, tt.stop)
			}
			if resp.Usage != (Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}) {
				t.Errorf("usage = %+v", resp.Usage)
			}
			if resp.Model != "gpt-4o-mini-2024-07-18" {
				t.Errorf("model = %q", resp.Model)
			}
		})
	}
}

func TestOpenAIProvider_SendsSystemAndSchema(t *testing.T) {
	var sent openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode request: %v", err)
		}
		stubAPI(http.StatusOK, chatCompletion(`{"text":"p","options":["a","b","c","d"],"correctAnswerIndex":1}`, "stop"))(w, r)
	})

	_, err := p.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}},
		Schema:   questionSchema(),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	roles := make([]string, len(sent.Messages))
	for i, m := range sent.Messages {
		roles[i] = m.Role
	}
	if len(roles) != 3 || roles[0] != "system" || roles[1] != "user" || roles[2] != "assistant" {
		t.Errorf("roles = %v", roles)
	}
	if sent.ResponseFormat == nil || sent.ResponseFormat.JSONSchema == nil || sent.ResponseFormat.JSONSchema.Name != questionSchema().Name {
		t.Errorf("response format = %+v", sent.ResponseFormat)
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Error("missing key should fail")
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "https://gateway.example/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Errorf("model = %q", p.ModelID())
	}
}

func TestOpenAIProvider_RejectsAttachments(t *testing.T) {
	called := false
	p := newTestOpenAIProvider(t, func(http.ResponseWriter, *http.Request) { called = true })
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "x", Attachments: []Attachment{{MIMEType: MIMETypePDF, Data: []byte("%PDF")}}}},
	})
	if !errors.Is(err, ErrUnsupportedAttachment) {
		t.Fatalf("expected ErrUnsupportedAttachment, got %v", err)
	}
	if called {
		t.Error("request reached the server")
	}
}
