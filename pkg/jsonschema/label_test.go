package jsonschema

import (
	"testing"

	"github.com/goliatone/go-schemaform/pkg/uischema"
)

func TestDisplayLabel(t *testing.T) {
	opts := NewGlobalOptions()

	if !DisplayLabel(mustPayload(t, `{"type":"string"}`), nil, opts) {
		t.Fatalf("expected scalar fields to show labels")
	}
	if DisplayLabel(mustPayload(t, `{"type":"object"}`), nil, opts) {
		t.Fatalf("expected objects to hide labels by default")
	}
	if DisplayLabel(mustPayload(t, `{"type":"array"}`), nil, opts) {
		t.Fatalf("expected bare arrays to hide labels")
	}

	withWidget := uischema.UISchema{"ui:widget": "checkboxes"}
	if !DisplayLabel(mustPayload(t, `{"type":"array"}`), withWidget, opts) {
		t.Fatalf("expected widgeted arrays to show labels")
	}

	hidden := uischema.UISchema{"ui:options": map[string]any{"label": false}}
	if DisplayLabel(mustPayload(t, `{"type":"string"}`), hidden, opts) {
		t.Fatalf("expected hint to hide the label")
	}

	forced := uischema.UISchema{"ui:options": map[string]any{"label": true}}
	if !DisplayLabel(mustPayload(t, `{"type":"object"}`), forced, opts) {
		t.Fatalf("expected hint to force the label on")
	}

	if DisplayLabel(mustPayload(t, `{"type":"string"}`), nil, GlobalOptions{Label: false}) {
		t.Fatalf("expected global policy to win")
	}
}
