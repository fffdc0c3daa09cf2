package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SchemaFor reflects the JSON schema of T into the plain map form tool
// definitions expect.
func SchemaFor[T any]() (map[string]any, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	raw, err := json.Marshal(r.Reflect(new(T)))
	if err != nil {
		return nil, fmt.Errorf("llm: marshal schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("llm: decode schema: %w", err)
	}
	delete(schema, "$schema")
	delete(schema, "$id")
	return schema, nil
}

// Structured runs a structured completion and decodes it into T. A response that
// does not decode or fails T's validate tags yields *SchemaValidationError.
func Structured[T any](ctx context.Context, c Client, system, prompt, schemaName string) (T, error) {
	var out T
	schema, err := SchemaFor[T]()
	if err != nil {
		return out, err
	}
	raw, err := c.GenerateStructured(ctx, StructuredRequest{
		System:     system,
		Prompt:     prompt,
		Schema:     schema,
		SchemaName: schemaName,
	})
	if err != nil {
		return out, err
	}
	return Decode[T](raw, schemaName)
}

// Decode parses raw into T and validates it.
func Decode[T any](raw json.RawMessage, schemaName string) (T, error) {
	var out T
	if !gjson.ValidBytes(raw) {
		return out, &SchemaValidationError{Schema: schemaName, Err: errors.New("invalid json")}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return out, &SchemaValidationError{Schema: schemaName, Err: err}
	}
	if err := validate.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return out, nil
		}
		return out, &SchemaValidationError{Schema: schemaName, Err: err}
	}
	return out, nil
}
