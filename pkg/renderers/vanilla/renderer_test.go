package vanilla

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/multischema"
	"github.com/goliatone/go-schemaform/pkg/render"
)

func sampleSpec() multischema.SelectorSpec {
	return multischema.SelectorSpec{
		ID: "shape__oneof_select",
		Options: []multischema.SelectorOption{
			{Label: "Circle", Value: 0},
			{Label: "<b>Square</b>", Value: 1},
		},
		Selected: 1,
	}
}

func TestNew_CompilesTemplate(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("New panicked: %v", r)
		}
	}()

	renderer, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if renderer.template == nil {
		t.Fatalf("expected compiled template")
	}
}

func TestRender_SelectedOption(t *testing.T) {
	renderer := MustNew()

	out, err := renderer.Render(context.Background(), sampleSpec(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `id="shape__oneof_select"`) {
		t.Fatalf("expected selector id in output:\n%s", html)
	}
	if !strings.Contains(html, `name="shape__oneof_select"`) {
		t.Fatalf("expected selector name in output:\n%s", html)
	}
	if !strings.Contains(html, `<option value="1" selected><b>Square</b></option>`) {
		t.Fatalf("expected selected option markup:\n%s", html)
	}
	if !strings.Contains(html, `<option value="0">Circle</option>`) {
		t.Fatalf("expected unselected option markup:\n%s", html)
	}
	if strings.Contains(html, "Choose an option") {
		t.Fatalf("placeholder must not render when an option is selected:\n%s", html)
	}
}

func TestRender_PlaceholderWhenUnselected(t *testing.T) {
	renderer := MustNew()
	spec := sampleSpec()
	spec.Selected = multischema.NoSelection

	out, err := renderer.Render(context.Background(), spec, render.Options{Placeholder: "Pick a shape"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `<option value="" selected disabled>Pick a shape</option>`) {
		t.Fatalf("expected placeholder option:\n%s", html)
	}
	if strings.Contains(html, `<option value="0" selected>`) || strings.Contains(html, `<option value="1" selected>`) {
		t.Fatalf("no real option may be selected:\n%s", html)
	}
}

func TestRender_ErrorsAndAttributes(t *testing.T) {
	renderer := MustNew()

	out, err := renderer.Render(context.Background(), sampleSpec(), render.Options{
		Errors:     []string{"pick exactly one"},
		Attributes: map[string]string{"data-field": "shape"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `data-invalid="true"`) {
		t.Fatalf("expected invalid marker:\n%s", html)
	}
	if !strings.Contains(html, "<li>pick exactly one</li>") {
		t.Fatalf("expected error message list:\n%s", html)
	}
	if !strings.Contains(html, `data-field="shape"`) {
		t.Fatalf("expected extra attribute:\n%s", html)
	}
}

func TestRender_RequiresID(t *testing.T) {
	renderer := MustNew()
	if _, err := renderer.Render(context.Background(), multischema.SelectorSpec{}, render.Options{}); err == nil {
		t.Fatalf("expected error for missing selector id")
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := MustNew()
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}
