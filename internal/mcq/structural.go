package mcq

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// KeysValidator requires every key in RequiredKeys.
type KeysValidator struct{}

func (KeysValidator) Name() string { return "keys" }

func (v KeysValidator) Validate(p Payload) *ValidationError {
	for _, k := range RequiredKeys {
		if _, ok := p[k]; !ok {
			return &ValidationError{Validator: v.Name(), Reason: "Missing keys"}
		}
	}
	return nil
}

// ChoicesValidator requires choices to be a list of exactly four items.
type ChoicesValidator struct{}

func (ChoicesValidator) Name() string { return "choices" }

func (v ChoicesValidator) Validate(p Payload) *ValidationError {
	choices, ok := p[KeyChoices].([]any)
	if !ok || len(choices) != NumChoices {
		return &ValidationError{Validator: v.Name(), Reason: "Choices must be list of 4"}
	}
	return nil
}

// AnswerIndexValidator requires an integer answer index in 0..3.
type AnswerIndexValidator struct{}

func (AnswerIndexValidator) Name() string { return "answer-index" }

func (v AnswerIndexValidator) Validate(p Payload) *ValidationError {
	n, ok := asInt(p[KeyAnswerIndex])
	if !ok || n < 0 || n >= NumChoices {
		return &ValidationError{Validator: v.Name(), Reason: "answer_index must be 0..3"}
	}
	return nil
}

// DistinctChoicesValidator rejects repeated options.
type DistinctChoicesValidator struct{}

func (DistinctChoicesValidator) Name() string { return "distinct-choices" }

func (v DistinctChoicesValidator) Validate(p Payload) *ValidationError {
	choices, _ := p[KeyChoices].([]any)
	texts := lo.Map(choices, func(c any, _ int) string { return choiceKey(c) })
	if len(lo.Uniq(texts)) < len(texts) {
		return &ValidationError{Validator: v.Name(), Reason: "Duplicate choices"}
	}
	return nil
}

// DifficultyScoreValidator requires a score that coerces to an integer in
// 1..10. Fractional numbers are truncated.
type DifficultyScoreValidator struct{}

func (DifficultyScoreValidator) Name() string { return "difficulty-score" }

func (v DifficultyScoreValidator) Validate(p Payload) *ValidationError {
	n, ok := coerceInt(p[KeyDifficultyScore])
	if !ok || n < 1 || n > 10 {
		return &ValidationError{Validator: v.Name(), Reason: "difficulty_score must be 1..10"}
	}
	return nil
}

// asInt accepts only integral JSON numbers and Go integers.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// coerceInt converts numbers and numeric strings to an int, truncating
// fractions.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case float64:
		return truncate(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// choiceKey identifies a choice by type and value, so the number 1 and
// the string "1" are different options.
func choiceKey(c any) string {
	return fmt.Sprintf("%T:%v", c, c)
}
