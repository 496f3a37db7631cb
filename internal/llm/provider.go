// Package llm is the single door to language models. Course generation
// and QuestBot build a Request, a Provider answers it, and decorators add
// retries, timeouts and event logging around any Provider.
package llm

import (
	"context"
	"encoding/json"
)

type Provider interface {
	// Generate answers req. With req.Schema set the reply Content is a
	// JSON document that already passed schema validation; without it
	// Content is the reply text encoded as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System   string
	Messages []Message
	Schema   *Schema

	MaxTokens int
	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
	// Attachments go ahead of Content. OpenAI-compatible providers
	// reject them with ErrUnsupportedAttachment.
	Attachments []Attachment
}

// Attachment is an inline document.
type Attachment struct {
	MIMEType string
	Data     []byte
}

const MIMETypePDF = "application/pdf"

func hasAttachments(msgs []Message) bool {
	for _, m := range msgs {
		if len(m.Attachments) > 0 {
			return true
		}
	}
	return false
}

// Schema is a named JSON Schema. Name doubles as the cache key for the
// compiled validator, so one name must always mean one definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
