package multischema

import (
	"reflect"
	"testing"
)

func TestErrorSchema_Messages(t *testing.T) {
	errs := ErrorSchema{ErrorsKey: []any{"first", "second", 42}}
	got := errs.Messages()
	if !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Fatalf("expected malformed entries skipped, got %v", got)
	}

	typed := ErrorSchema{ErrorsKey: []string{"only"}}
	if !reflect.DeepEqual(typed.Messages(), []string{"only"}) {
		t.Fatalf("expected typed slice passthrough")
	}

	if msgs := (ErrorSchema{ErrorsKey: "oops"}).Messages(); msgs != nil {
		t.Fatalf("expected nil for malformed messages, got %v", msgs)
	}
	if msgs := (ErrorSchema)(nil).Messages(); msgs != nil {
		t.Fatalf("expected nil for nil schema, got %v", msgs)
	}
}

func TestErrorSchema_Field(t *testing.T) {
	errs := ErrorSchema{
		"name": map[string]any{ErrorsKey: []any{"required"}},
	}
	child := errs.Field("name")
	if child == nil || !reflect.DeepEqual(child.Messages(), []string{"required"}) {
		t.Fatalf("unexpected child fragment %v", child)
	}
	if errs.Field(ErrorsKey) != nil {
		t.Fatalf("the reserved key must not resolve as a child")
	}
	if errs.Field("missing") != nil {
		t.Fatalf("expected nil for missing child")
	}
}

func TestErrorSchema_Split(t *testing.T) {
	errs := ErrorSchema{
		ErrorsKey: []any{"pick one"},
		"name":    map[string]any{ErrorsKey: []any{"required"}},
	}

	composite, branch := errs.Split()
	if !reflect.DeepEqual(composite, []string{"pick one"}) {
		t.Fatalf("unexpected composite messages %v", composite)
	}
	if branch == nil || branch.Field("name") == nil {
		t.Fatalf("expected branch fragment preserved, got %v", branch)
	}
	if _, stillThere := branch[ErrorsKey]; stillThere {
		t.Fatalf("reserved key must not leak into the branch fragment")
	}
	if _, ok := errs[ErrorsKey]; !ok {
		t.Fatalf("split must not mutate its input")
	}

	onlyOwn := ErrorSchema{ErrorsKey: []any{"x"}}
	if _, branch := onlyOwn.Split(); branch != nil {
		t.Fatalf("expected nil branch when only own messages exist, got %v", branch)
	}
}
