package mcq

import "github.com/quizadv/quizadv/internal/llm"

// QuestionSchema describes the JSON object requested from the LLM. Counts
// and ranges are checked by the validator chain, not here.
var QuestionSchema = &llm.Schema{
	Name:        "mcq-question",
	Description: "A single multiple-choice question with four options and an explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question text, 30 words or fewer",
			},
			"choices": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Exactly 4 distinct answer options",
			},
			"answer_index": map[string]any{
				"type":        "integer",
				"description": "Zero-based index of the correct option (0-3)",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct option is right",
			},
			"difficulty_score": map[string]any{
				"type":        "integer",
				"description": "Self-assessed difficulty from 1 (very easy) to 10 (very hard)",
			},
		},
		"required":             []any{"question", "choices", "answer_index", "explanation", "difficulty_score"},
		"additionalProperties": false,
	},
}
