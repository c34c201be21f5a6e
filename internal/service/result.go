package service

import (
	"encoding/json"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// ResultExtractor pulls the human-facing result string out of a raw run
// payload using a JMESPath expression.
type ResultExtractor struct {
	expr string
}

// NewResultExtractor validates the expression up front so a bad configuration
// fails at startup rather than on the first completed run.
func NewResultExtractor(expr string) (*ResultExtractor, error) {
	if expr == "" {
		return nil, fmt.Errorf("result expression is required")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile result expression %q: %w", expr, err)
	}
	return &ResultExtractor{expr: expr}, nil
}

// Extract evaluates the expression against the stored run payload. A missing
// path yields (nil, nil) so callers can fall back to the raw payload.
func (e *ResultExtractor) Extract(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode run payload: %w", err)
	}

	value, err := jmespath.Search(e.expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate result expression: %w", err)
	}
	if value == nil {
		return nil, nil
	}

	switch typed := value.(type) {
	case string:
		return &typed, nil
	default:
		rendered := fmt.Sprint(typed)
		return &rendered, nil
	}
}
