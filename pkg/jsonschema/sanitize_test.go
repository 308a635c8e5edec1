package jsonschema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeForNewSchema_DropsIncompatibleOldProperties(t *testing.T) {
	oldSchema := mustPayload(t, `{"type":"object","properties":{"kind":{"const":"a"},"size":{"type":"number"}}}`)
	newSchema := mustPayload(t, `{"type":"object","properties":{"kind":{"const":"b"},"size":{"type":"number"}}}`)
	data := mustValue(t, `{"kind":"a","size":4,"note":"keep me"}`)

	got := SanitizeForNewSchema(newSchema, oldSchema, data)
	want := mustValue(t, `{"size":4,"note":"keep me"}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitized data mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeForNewSchema_DropsOldOnlyProperties(t *testing.T) {
	oldSchema := mustPayload(t, `{"type":"object","properties":{"name":{"type":"string"}}}`)
	newSchema := mustPayload(t, `{"type":"object","properties":{"email":{"type":"string"}}}`)
	data := mustValue(t, `{"name":"A"}`)

	got := SanitizeForNewSchema(newSchema, oldSchema, data)
	want := mustValue(t, `{}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expected old-only property dropped (-want +got):\n%s", diff)
	}
}

func TestSanitizeForNewSchema_TypeMismatchDrops(t *testing.T) {
	oldSchema := mustPayload(t, `{"type":"object","properties":{"value":{"type":"string"}}}`)
	newSchema := mustPayload(t, `{"type":"object","properties":{"value":{"type":"number"}}}`)
	data := mustValue(t, `{"value":"text"}`)

	got := SanitizeForNewSchema(newSchema, oldSchema, data)
	want := mustValue(t, `{}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expected type-mismatched property dropped (-want +got):\n%s", diff)
	}
}

func TestSanitizeForNewSchema_RecursesSharedObjects(t *testing.T) {
	oldSchema := mustPayload(t, `{"type":"object","properties":{"address":{"type":"object","properties":{"street":{"type":"string"},"zip":{"type":"string"}}}}}`)
	newSchema := mustPayload(t, `{"type":"object","properties":{"address":{"type":"object","properties":{"street":{"type":"string"}}}}}`)
	data := mustValue(t, `{"address":{"street":"Main","zip":"10001","extra":true}}`)

	got := SanitizeForNewSchema(newSchema, oldSchema, data)
	want := mustValue(t, `{"address":{"street":"Main","extra":true}}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("nested sanitize mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeForNewSchema_NilNewSchemaDropsAllDeclared(t *testing.T) {
	oldSchema := mustPayload(t, `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"number"}}}`)
	data := mustValue(t, `{"a":"x","b":1,"c":true}`)

	got := SanitizeForNewSchema(nil, oldSchema, data)
	want := mustValue(t, `{"c":true}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expected every old-declared property dropped (-want +got):\n%s", diff)
	}
}

func TestSanitizeForNewSchema_NonObjectDataPassesThrough(t *testing.T) {
	if got := SanitizeForNewSchema(nil, nil, "scalar"); got != "scalar" {
		t.Fatalf("expected scalar passthrough, got %v", got)
	}
	if got := SanitizeForNewSchema(nil, nil, nil); got != nil {
		t.Fatalf("expected nil passthrough, got %v", got)
	}
}
