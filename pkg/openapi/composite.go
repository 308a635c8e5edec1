// Package openapi extracts polymorphic composite descriptors from OpenAPI 3
// documents, keeping the kin-openapi dependency hidden from consumers.
package openapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemaform/pkg/multischema"
)

// Composite is a polymorphic component schema lifted out of an OpenAPI
// document: the composite payload, its raw alternatives in declaration order,
// the composition kind, and the discriminator property when declared.
type Composite struct {
	Schema        map[string]any
	Options       []map[string]any
	Kind          multischema.CompositionKind
	Discriminator string
}

// CompositeFromDocument loads an OpenAPI document and extracts the named
// component schema's composition. The component must declare oneOf, anyOf, or
// allOf.
func CompositeFromDocument(ctx context.Context, raw []byte, component string) (Composite, error) {
	if len(raw) == 0 {
		return Composite{}, errors.New("openapi: document payload is empty")
	}
	if component == "" {
		return Composite{}, errors.New("openapi: component name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Composite{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Components == nil {
		return Composite{}, errors.New("openapi: document has no components")
	}
	ref, ok := spec.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return Composite{}, fmt.Errorf("openapi: component %q not found", component)
	}

	value := ref.Value
	var kind multischema.CompositionKind
	var branches openapi3.SchemaRefs
	switch {
	case len(value.OneOf) > 0:
		kind, branches = multischema.KindOneOf, value.OneOf
	case len(value.AnyOf) > 0:
		kind, branches = multischema.KindAnyOf, value.AnyOf
	case len(value.AllOf) > 0:
		kind, branches = multischema.KindAllOf, value.AllOf
	default:
		return Composite{}, fmt.Errorf("openapi: component %q is not a composite", component)
	}

	payload, err := schemaPayload(value)
	if err != nil {
		return Composite{}, fmt.Errorf("openapi: component %q: %w", component, err)
	}

	options := make([]map[string]any, 0, len(branches))
	for idx, branch := range branches {
		if branch == nil || branch.Value == nil {
			return Composite{}, fmt.Errorf("openapi: component %q alternative %d is unresolved", component, idx)
		}
		option, err := schemaPayload(branch.Value)
		if err != nil {
			return Composite{}, fmt.Errorf("openapi: component %q alternative %d: %w", component, idx, err)
		}
		options = append(options, option)
	}

	composite := Composite{
		Schema:  payload,
		Options: options,
		Kind:    kind,
	}
	if value.Discriminator != nil {
		composite.Discriminator = value.Discriminator.PropertyName
	}
	return composite, nil
}

// schemaPayload round-trips a kin-openapi schema into the raw payload form
// the resolver operates on.
func schemaPayload(s *openapi3.Schema) (map[string]any, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return payload, nil
}
