package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOf(t *testing.T) {
	cause := errors.New("row missing")
	wrapped := fmt.Errorf("load course: %w", New(CodeNotFound, "course not found", cause))

	if got := CodeOf(wrapped); got != CodeNotFound {
		t.Errorf("CodeOf = %s", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause lost")
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Errorf("plain error code = %s", got)
	}
}

func TestStatus(t *testing.T) {
	tests := map[Code]int{
		CodeNotFound:             http.StatusNotFound,
		CodeMalformedCatalog:     http.StatusBadRequest,
		CodeIncompleteSubmission: http.StatusBadRequest,
		CodeNoHearts:             http.StatusForbidden,
		CodeConflict:             http.StatusConflict,
		CodeLLMUnavailable:       http.StatusServiceUnavailable,
		CodeInternal:             http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := New(code, "m", nil).Status(); got != want {
			t.Errorf("%s status = %d, want %d", code, got, want)
		}
	}
}

func TestMarshalHidesCause(t *testing.T) {
	b, err := json.Marshal(Internal("something went wrong", errors.New("secret dsn")))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"code":"INTERNAL","message":"something went wrong"}` {
		t.Errorf("json = %s", b)
	}
}
