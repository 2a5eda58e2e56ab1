package collector

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiDocument []byte

// SchemaName is the component schema submissions are validated against.
const SchemaName = "LeadSubmission"

var (
	schemaOnce sync.Once
	schemaRef  *openapi3.Schema
	schemaErr  error
)

// LeadSchema loads and validates the embedded OpenAPI document once and
// returns the LeadSubmission schema.
func LeadSchema() (*openapi3.Schema, error) {
	schemaOnce.Do(func() {
		schemaRef, schemaErr = loadSchema(context.Background(), openapiDocument, SchemaName)
	})
	return schemaRef, schemaErr
}

func loadSchema(ctx context.Context, raw []byte, name string) (*openapi3.Schema, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("collector: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("collector: validate openapi document: %w", err)
	}
	if doc.Components == nil {
		return nil, errors.New("collector: openapi document has no components")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("collector: schema %q not found", name)
	}
	return ref.Value, nil
}

// schemaViolations validates record and groups the failures by top-level
// property. Failures without a property path are keyed by "".
func schemaViolations(schema *openapi3.Schema, record map[string]any) map[string][]string {
	err := schema.VisitJSON(record, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	out := make(map[string][]string)
	collectViolations(err, out)
	return out
}

func collectViolations(err error, out map[string][]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			collectViolations(item, out)
		}
		return
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		key := ""
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			key = pointer[0]
		}
		out[key] = append(out[key], schemaErr.Reason)
		return
	}
	out[""] = append(out[""], err.Error())
}
