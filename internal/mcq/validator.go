package mcq

import "fmt"

// Validator checks one structural property of a payload.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "keys" or "choices".
	Name() string

	// Validate returns nil if the payload passes.
	Validate(p Payload) *ValidationError
}

// ValidationError describes why a payload was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Reason    string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Reason)
}

// DefaultValidators returns the standard chain. Order matters: later
// validators assume the earlier ones passed.
func DefaultValidators() []Validator {
	return []Validator{
		KeysValidator{},
		ChoicesValidator{},
		AnswerIndexValidator{},
		DistinctChoicesValidator{},
		DifficultyScoreValidator{},
	}
}

// Validate runs the default chain and returns the first failure.
func Validate(p Payload) *ValidationError {
	return ValidateWith(p, DefaultValidators())
}

// ValidateWith runs validators in order and returns the first failure.
func ValidateWith(p Payload, validators []Validator) *ValidationError {
	for _, v := range validators {
		if verr := v.Validate(p); verr != nil {
			return verr
		}
	}
	return nil
}
