package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/multischema"
)

const petsDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "Pets", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Pet": {
        "oneOf": [
          {"$ref": "#/components/schemas/Cat"},
          {"$ref": "#/components/schemas/Dog"}
        ],
        "discriminator": {"propertyName": "petType"}
      },
      "Cat": {
        "type": "object",
        "required": ["petType"],
        "properties": {
          "petType": {"type": "string", "enum": ["cat"]},
          "purrs": {"type": "boolean"}
        }
      },
      "Dog": {
        "type": "object",
        "required": ["petType"],
        "properties": {
          "petType": {"type": "string", "enum": ["dog"]},
          "barks": {"type": "boolean"}
        }
      },
      "Flat": {"type": "object"}
    }
  }
}`

func TestCompositeFromDocument(t *testing.T) {
	composite, err := CompositeFromDocument(context.Background(), []byte(petsDocument), "Pet")
	if err != nil {
		t.Fatalf("extract composite: %v", err)
	}

	if composite.Kind != multischema.KindOneOf {
		t.Fatalf("expected oneOf kind, got %q", composite.Kind)
	}
	if composite.Discriminator != "petType" {
		t.Fatalf("expected petType discriminator, got %q", composite.Discriminator)
	}
	if len(composite.Options) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(composite.Options))
	}

	props, _ := composite.Options[0]["properties"].(map[string]any)
	if props == nil {
		t.Fatalf("expected first alternative dereferenced, got %v", composite.Options[0])
	}
	if _, ok := props["purrs"]; !ok {
		t.Fatalf("expected Cat schema first, got %v", props)
	}
}

func TestCompositeFromDocument_MissingComponent(t *testing.T) {
	_, err := CompositeFromDocument(context.Background(), []byte(petsDocument), "Nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected missing component error, got %v", err)
	}
}

func TestCompositeFromDocument_NotComposite(t *testing.T) {
	_, err := CompositeFromDocument(context.Background(), []byte(petsDocument), "Flat")
	if err == nil {
		t.Fatalf("expected error for non-composite component")
	}
}

func TestCompositeFromDocument_EmptyInputs(t *testing.T) {
	if _, err := CompositeFromDocument(context.Background(), nil, "Pet"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := CompositeFromDocument(context.Background(), []byte(petsDocument), ""); err == nil {
		t.Fatalf("expected error for empty component name")
	}
}
