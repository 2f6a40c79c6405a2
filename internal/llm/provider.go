// Package llm is the transport to hosted language models. A Provider turns
// one prompt into one completion; middleware adds deadlines, retries and
// the audit trail on top of the vendor clients.
package llm

import "context"

// Provider completes single-turn prompts.
type Provider interface {
	// Complete sends req and returns the model's text. When req.Schema is
	// set the provider asks for a JSON object of that shape, and a reply
	// that does not match is reported as *ErrInvalidResponse carrying the
	// raw text.
	Complete(ctx context.Context, req Request) (*Completion, error)

	// Model returns the model identifier requests are sent to.
	Model() string
}

// Request is one prompt.
type Request struct {
	// Purpose labels the request in the audit log, e.g. "question-gen".
	Purpose string

	System string
	Prompt string

	// Schema, when set, asks for a JSON object in the given shape.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// StopReason is why the model stopped producing output.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Completion is the model's reply.
type Completion struct {
	Text  string
	Usage Usage

	// Model is the model that served the request, which may be more
	// specific than the one asked for.
	Model string
	Stop  StopReason
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is InputTokens plus OutputTokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
