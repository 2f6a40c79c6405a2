package mcq

import "fmt"

// GenerationError reports a generator response that could not be parsed
// into a JSON object.
type GenerationError struct {
	Content string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to parse JSON from LLM response: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
