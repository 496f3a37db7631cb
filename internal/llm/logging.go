package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/store"
)

// EventRecorder persists one row per LLM call. store.EventRepo satisfies it.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type recorded struct {
	Provider
	name   string
	events EventRecorder
	log    *zap.Logger
}

// WithLogging records every call through p: a zap line always, and an
// llm_request event when events is non-nil. Recording failures are logged
// and never surface to the caller.
func WithLogging(p Provider, providerName string, events EventRecorder, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &recorded{Provider: p, name: providerName, events: events, log: log.Named("llm")}
}

func (r *recorded) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.Provider.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		UserID:      LearnerFrom(ctx),
		Provider:    r.name,
		Model:       r.ModelID(),
		Purpose:     string(PurposeFrom(ctx)),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens, ev.OutputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	log := r.log.With(
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Int64("latency_ms", ev.LatencyMs),
	)
	if ev.UserID != "" {
		log = log.With(zap.String("user", ev.UserID))
	}
	if err != nil {
		log.Warn("request failed", zap.Error(err))
	} else {
		log.Debug("request", zap.Int("in", ev.InputTokens), zap.Int("out", ev.OutputTokens))
	}

	if r.events != nil {
		if werr := r.events.AppendLLMRequest(ctx, ev); werr != nil {
			log.Warn("record event", zap.Error(werr))
		}
	}
	return resp, err
}

// transcript flattens a request into the text shown by `eduquest llm view`.
// Attachments appear as a size note only.
func transcript(req Request) string {
	var b strings.Builder
	section := func(tag, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", tag, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		var notes strings.Builder
		for _, a := range m.Attachments {
			fmt.Fprintf(&notes, "[attachment %s, %d bytes]\n", a.MIMEType, len(a.Data))
		}
		section(string(m.Role), notes.String()+m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
