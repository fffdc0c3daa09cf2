package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Default token budgets when a request leaves MaxTokens unset.
const (
	DefaultTextTokens       = 4096
	DefaultStructuredTokens = 8192
)

// ErrNoOutput is returned when a completion carries no text or no tool call.
var ErrNoOutput = errors.New("llm: no output returned")

// Client abstracts the completion service so stages can be tested with fakes.
type Client interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error)
}

// TextRequest asks for free-form text.
type TextRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// StructuredRequest asks for one JSON object conforming to Schema.
type StructuredRequest struct {
	System     string
	Prompt     string
	Schema     map[string]any
	SchemaName string
	MaxTokens  int
}

// Settings configures a concrete client.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// SchemaValidationError reports a structured response that does not match its schema.
type SchemaValidationError struct {
	Schema string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("llm: %s output failed validation: %v", e.Schema, e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }
