package multischema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/uischema"
)

func TestSelectorSuffix_Tokens(t *testing.T) {
	if got := KindOneOf.SelectorSuffix(); got != "__oneof_select" {
		t.Fatalf("unexpected oneOf suffix %q", got)
	}
	if got := KindAnyOf.SelectorSuffix(); got != "__anyof_select" {
		t.Fatalf("unexpected anyOf suffix %q", got)
	}
	if got := KindAllOf.SelectorSuffix(); got != "__oneof_select" {
		t.Fatalf("expected allOf to reuse the oneOf suffix, got %q", got)
	}

	props := Props{ID: "payment", Kind: KindAnyOf}
	if got := props.SelectorID(); got != "payment__anyof_select" {
		t.Fatalf("unexpected selector id %q", got)
	}
}

func TestSelector_LabelPrecedence(t *testing.T) {
	props := shapeProps(t, nil)
	props.Options = append(props.Options, map[string]any{"type": "object"})
	props.UISchema = uischema.UISchema{
		"ui:options": map[string]any{"optionLabels": []any{"Round thing"}},
	}

	resolver, err := New(context.Background(), &fakeUtils{}, props)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	spec := resolver.Selector()
	if spec.ID != "shape__oneof_select" {
		t.Fatalf("unexpected selector id %q", spec.ID)
	}
	want := []SelectorOption{
		{Label: "Round thing", Value: 0}, // hint override
		{Label: "Square", Value: 1},      // schema title
		{Label: "Option 3", Value: 2},    // generated ordinal
	}
	if diff := cmp.Diff(want, spec.Options); diff != "" {
		t.Fatalf("selector options mismatch (-want +got):\n%s", diff)
	}
	if spec.Selected != NoSelection {
		t.Fatalf("expected no selection for nil data, got %d", spec.Selected)
	}
}

func TestSelector_SanitizesLabels(t *testing.T) {
	props := shapeProps(t, nil)
	props.UISchema = uischema.UISchema{
		"ui:options": map[string]any{"optionLabels": []any{`<script>x()</script><b>Circle</b>`}},
	}

	resolver, err := New(context.Background(), &fakeUtils{}, props)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	spec := resolver.Selector()
	if spec.Options[0].Label != "<b>Circle</b>" {
		t.Fatalf("expected sanitized label, got %q", spec.Options[0].Label)
	}
}

func TestBranchSchema_MergesCompositeRequired(t *testing.T) {
	props := Props{
		ID:     "plan",
		Kind:   KindOneOf,
		Schema: mustPayload(t, `{"required":["tier","name"],"oneOf":[]}`),
		Options: []map[string]any{
			mustPayload(t, `{"type":"object","required":["tier"],"properties":{"tier":{"const":"pro"}}}`),
		},
		Data: mustValue(t, `{"tier":"pro"}`),
	}
	resolver, err := New(context.Background(), &fakeUtils{}, props)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	branch, ok := resolver.BranchSchema()
	if !ok {
		t.Fatalf("expected a selected branch")
	}
	want := mustValue(t, `["tier","name"]`)
	if diff := cmp.Diff(want, branch["required"]); diff != "" {
		t.Fatalf("required union mismatch (-want +got):\n%s", diff)
	}
}

func TestBranchSchema_NoSelection(t *testing.T) {
	resolver, err := New(context.Background(), &fakeUtils{}, shapeProps(t, nil))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := resolver.BranchSchema(); ok {
		t.Fatalf("expected no branch without a selection")
	}
}

func TestBranchSchema_DoesNotMutateCache(t *testing.T) {
	props := shapeProps(t, mustValue(t, `{"kind":"circle"}`))
	props.Schema = mustPayload(t, `{"required":["kind"],"oneOf":[]}`)
	resolver, err := New(context.Background(), &fakeUtils{}, props)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	branch, ok := resolver.BranchSchema()
	if !ok {
		t.Fatalf("expected a selected branch")
	}
	branch["mutated"] = true

	cached := resolver.State().RetrievedOptions[0]
	if _, leaked := cached["mutated"]; leaked {
		t.Fatalf("branch schema must be a copy of the cached option")
	}
	if _, hasRequired := cached["required"]; hasRequired {
		t.Fatalf("required union must not write back into the cache")
	}
}
