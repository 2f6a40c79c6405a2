package mcq

// Purpose labels LLM requests made by the generator in the audit log.
const Purpose = "question-gen"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the number of most recent prior questions
	// included in the prompt.
	MaxPriorQuestions int
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         512,
		Temperature:       0.6,
		MaxPriorQuestions: 10,
	}
}
