package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema for a structured reply. Vendors that support
// structured output receive it natively; every reply is checked against
// it locally as well. A Schema must not be copied after first use.
type Schema struct {
	// Name identifies the schema to the vendor, e.g. "mcq-question".
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// JSON returns the definition as JSON text.
func (s *Schema) JSON() ([]byte, error) {
	b, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", s.Name, err)
	}
	return b, nil
}

// Check reports whether text is a JSON value matching the schema. It
// returns *ErrInvalidResponse carrying text when it does not.
func (s *Schema) Check(text string) error {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return &ErrInvalidResponse{Text: text, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	compiled, err := s.compile()
	if err != nil {
		return &ErrInvalidResponse{Text: text, Err: err}
	}
	if err := compiled.Validate(v); err != nil {
		return &ErrInvalidResponse{Text: text, Err: fmt.Errorf("schema %q: %w", s.Name, err)}
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		raw, err := s.JSON()
		if err != nil {
			s.err = err
			return
		}
		// The compiler needs a decoded JSON document, not the Go map.
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			s.err = fmt.Errorf("parse schema %q: %w", s.Name, err)
			return
		}
		url := "schema://" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = fmt.Errorf("add schema %q: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}

// check validates text against schema when one is set.
func check(schema *Schema, text string) error {
	if schema == nil {
		return nil
	}
	return schema.Check(text)
}
