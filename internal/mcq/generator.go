// Package mcq generates multiple-choice questions through an LLM provider
// and checks their structure before they are shown.
package mcq

import "context"

// Generator produces one raw question payload per call. Generators do not
// validate; callers run Validate on the payload before using it.
type Generator interface {
	// Generate returns the decoded JSON object produced for input, or a
	// *GenerationError when the response cannot be parsed as one.
	Generate(ctx context.Context, input GenerateInput) (Payload, error)
}
