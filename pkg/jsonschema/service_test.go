package jsonschema

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

func TestNewService_RequiresDocument(t *testing.T) {
	if _, err := NewService(schema.Document{}); err == nil {
		t.Fatalf("expected error for zero document")
	}
}

func TestService_RetrieveResolvesAgainstBoundDocument(t *testing.T) {
	fsys := fstest.MapFS{
		"root.json": &fstest.MapFile{Data: []byte(`{
			"$defs": {"person": {"type": "object", "properties": {"name": {"type": "string"}}}}
		}`)},
	}
	doc := schema.MustNewDocument(schema.SourceFromFS("root.json"), fsys["root.json"].Data)

	service, err := NewService(doc, WithLoader(NewFSLoader(fsys)))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := service.Retrieve(context.Background(), mustPayload(t, `{"$ref":"#/$defs/person"}`), nil)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	want := mustPayload(t, `{"type":"object","properties":{"name":{"type":"string"}}}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("service retrieve mismatch (-want +got):\n%s", diff)
	}
}

func TestService_DelegatesUtilities(t *testing.T) {
	doc := schema.MustNewDocument(schema.SourceFromInline("test"), []byte(`{"type":"object"}`))
	service, err := NewService(doc)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	options := []map[string]any{
		mustPayload(t, `{"type":"object","properties":{"kind":{"const":"a"}}}`),
		mustPayload(t, `{"type":"object","properties":{"kind":{"const":"b"}}}`),
	}
	if got := service.ClosestMatchingOption(mustValue(t, `{"kind":"b"}`), options, 0, ""); got != 1 {
		t.Fatalf("expected delegated match, got %d", got)
	}

	sanitized := service.SanitizeForNewSchema(options[1], options[0], mustValue(t, `{"kind":"a"}`))
	want := mustValue(t, `{}`)
	if diff := cmp.Diff(want, sanitized); diff != "" {
		t.Fatalf("delegated sanitize mismatch (-want +got):\n%s", diff)
	}

	defaulted := service.DefaultState(mustPayload(t, `{"type":"object","properties":{"n":{"default":1}}}`), map[string]any{}, IncludeObjectChildren)
	wantDefault := mustValue(t, `{"n":1}`)
	if diff := cmp.Diff(wantDefault, defaulted); diff != "" {
		t.Fatalf("delegated defaults mismatch (-want +got):\n%s", diff)
	}
}
