package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

var pairSchema = &Schema{
	Name: "pair",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"es": map[string]any{"type": "string"}},
		"required":   []any{"es"},
	},
}

func TestFinish(t *testing.T) {
	t.Run("plain text is quoted", func(t *testing.T) {
		resp, err := finish(Request{}, `Say "hola"`, "m", StopEnd, Usage{InputTokens: 3, OutputTokens: 4})
		if err != nil {
			t.Fatal(err)
		}
		if string(resp.Content) != `"Say \"hola\""` {
			t.Errorf("content = %s", resp.Content)
		}
		if resp.Usage.TotalTokens != 7 {
			t.Errorf("total = %d", resp.Usage.TotalTokens)
		}
	})

	t.Run("plain text may be truncated", func(t *testing.T) {
		resp, err := finish(Request{}, "Hol", "m", StopMaxTokens, Usage{})
		if err != nil || resp.StopReason != StopMaxTokens {
			t.Errorf("resp %+v err %v", resp, err)
		}
	})

	t.Run("structured reply is validated", func(t *testing.T) {
		if _, err := finish(Request{Schema: pairSchema}, `{"es":"hola"}`, "m", StopEnd, Usage{}); err != nil {
			t.Errorf("valid reply rejected: %v", err)
		}
		_, err := finish(Request{Schema: pairSchema}, `{"en":"hi"}`, "m", StopEnd, Usage{})
		var invalid *ErrInvalidResponse
		if !errors.As(err, &invalid) {
			t.Errorf("err = %v, want ErrInvalidResponse", err)
		}
	})

	t.Run("truncated structured reply", func(t *testing.T) {
		_, err := finish(Request{Schema: pairSchema}, `{"es":"ho`, "m", StopMaxTokens, Usage{})
		var maxTok *ErrMaxTokensExceeded
		if !errors.As(err, &maxTok) || string(maxTok.Content) != `{"es":"ho` {
			t.Errorf("err = %v", err)
		}
	})
}

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("boom")
	h := http.Header{}
	h.Set("Retry-After", "12")

	var rl *ErrRateLimit
	if err := classifyStatus(http.StatusTooManyRequests, h, cause); !errors.As(err, &rl) || rl.RetryAfter != 12*time.Second {
		t.Errorf("429: %v", err)
	}
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		err := classifyStatus(code, nil, cause)
		if !errors.Is(err, ErrUnauthorized) || !errors.Is(err, cause) {
			t.Errorf("%d: %v", code, err)
		}
		if Transient(err) {
			t.Errorf("%d counted as transient", code)
		}
	}
	var down *ErrProviderUnavailable
	if err := classifyStatus(http.StatusBadGateway, nil, cause); !errors.As(err, &down) {
		t.Errorf("502: %v", err)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := map[string]time.Duration{
		"":                              0,
		"3":                             3 * time.Second,
		"-1":                            0,
		"Wed, 21 Oct 2026 07:28:00 GMT": 0,
	}
	for v, want := range tests {
		h := http.Header{}
		if v != "" {
			h.Set("Retry-After", v)
		}
		if got := retryAfter(h); got != want {
			t.Errorf("retryAfter(%q) = %v, want %v", v, got, want)
		}
	}
	if retryAfter(nil) != 0 {
		t.Error("nil header")
	}
}
