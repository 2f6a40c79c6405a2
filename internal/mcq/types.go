package mcq

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/subject"
)

// Payload keys.
const (
	KeyQuestion        = "question"
	KeyChoices         = "choices"
	KeyAnswerIndex     = "answer_index"
	KeyExplanation     = "explanation"
	KeyDifficultyScore = "difficulty_score"
)

// RequiredKeys lists every key a payload must carry.
var RequiredKeys = []string{KeyQuestion, KeyChoices, KeyAnswerIndex, KeyExplanation, KeyDifficultyScore}

// NumChoices is the exact number of options in a question.
const NumChoices = 4

// Payload is a generated question as decoded from JSON. Numbers are kept
// as json.Number so integer-ness can be checked.
type Payload map[string]any

// QuestionText returns the question field as text, or "" when absent.
func (p Payload) QuestionText() string {
	v, ok := p[KeyQuestion]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ParsePayload decodes a JSON object into a Payload.
func ParsePayload(data []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	return p, nil
}

// GenerateInput holds the context for one question.
type GenerateInput struct {
	Subject subject.Subject
	Level   difficulty.Tier
	Topic   string

	// PriorQuestions are question texts already asked in this session,
	// oldest first. Only the most recent ones are sent.
	PriorQuestions []string
}

// Question is a validated question ready to present.
type Question struct {
	Text            string
	Choices         []string
	AnswerIndex     int
	Explanation     string
	DifficultyScore int

	Subject subject.Subject
	Topic   string
	Level   difficulty.Tier
}

// CorrectChoice returns the text of the correct option.
func (q *Question) CorrectChoice() string {
	return q.Choices[q.AnswerIndex]
}

// IsCorrect reports whether the zero-based choice is the answer.
func (q *Question) IsCorrect(choice int) bool {
	return choice == q.AnswerIndex
}

// Decode validates p with the default chain and converts it to a
// Question tagged with input's context.
func Decode(p Payload, input GenerateInput) (*Question, error) {
	if verr := Validate(p); verr != nil {
		return nil, verr
	}

	choices := p[KeyChoices].([]any)
	q := &Question{
		Text:        p.QuestionText(),
		Choices:     make([]string, len(choices)),
		Explanation: stringOf(p[KeyExplanation]),
		Subject:     input.Subject,
		Topic:       input.Topic,
		Level:       input.Level,
	}
	for i, c := range choices {
		q.Choices[i] = stringOf(c)
	}
	q.AnswerIndex, _ = asInt(p[KeyAnswerIndex])
	q.DifficultyScore, _ = coerceInt(p[KeyDifficultyScore])
	return q, nil
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
