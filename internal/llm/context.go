package llm

import "context"

// Purpose labels what a request was made for in the event log.
type Purpose string

const (
	PurposeTutor     Purpose = "tutor"
	PurposeCourseGen Purpose = "course-gen"
	PurposeUnknown   Purpose = "unknown"
)

type ctxKey int

const (
	purposeKey ctxKey = iota
	learnerKey
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, p)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}

// WithLearner attributes requests made with ctx to a learner.
func WithLearner(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, learnerKey, userID)
}

// LearnerFrom returns the learner set by WithLearner, or "".
func LearnerFrom(ctx context.Context) string {
	id, _ := ctx.Value(learnerKey).(string)
	return id
}
