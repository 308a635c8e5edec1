package vanilla

import (
	"bytes"
	"context"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-schemaform/pkg/multischema"
	"github.com/goliatone/go-schemaform/pkg/render"
)

// selectorTemplate renders the branch selector as a plain <select> control.
// Option values are slot indices; labels arrive pre-sanitised so they are
// emitted verbatim.
const selectorTemplate = `<div class="sf-selector"{% if errors %} data-invalid="true"{% endif %}>
<select id="{{ id }}" name="{{ id }}"{% for key, value in attributes sorted %} {{ key }}="{{ value }}"{% endfor %}>
{% if selected < 0 %}<option value="" selected disabled>{{ placeholder }}</option>
{% endif %}{% for option in options %}<option value="{{ option.Value }}"{% if option.Value == selected %} selected{% endif %}>{{ option.Label|safe }}</option>
{% endfor %}</select>
{% if errors %}<ul class="sf-selector-errors">{% for message in errors %}<li>{{ message }}</li>{% endfor %}</ul>
{% endif %}</div>
`

const defaultPlaceholder = "Choose an option"

// Renderer emits standalone HTML selector controls without framework
// dependencies on the consuming page.
type Renderer struct {
	template *pongo2.Template
}

// Ensure Renderer satisfies the render contract.
var _ render.Renderer = (*Renderer)(nil)

// New compiles the selector template and returns a ready renderer.
func New() (*Renderer, error) {
	tmpl, err := pongo2.FromString(selectorTemplate)
	if err != nil {
		return nil, fmt.Errorf("vanilla: parse selector template: %w", err)
	}
	return &Renderer{template: tmpl}, nil
}

// MustNew panics when template compilation fails. Useful for init-time wiring.
func MustNew() *Renderer {
	renderer, err := New()
	if err != nil {
		panic(err)
	}
	return renderer
}

func (r *Renderer) Name() string { return "vanilla" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the selector markup for a single composite field.
func (r *Renderer) Render(ctx context.Context, spec multischema.SelectorSpec, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("vanilla: selector id is required")
	}

	placeholder := options.Placeholder
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}

	viewContext := pongo2.Context{
		"id":          spec.ID,
		"options":     spec.Options,
		"selected":    spec.Selected,
		"placeholder": placeholder,
		"errors":      options.Errors,
		"attributes":  options.Attributes,
	}

	var buf bytes.Buffer
	if err := r.template.ExecuteWriter(viewContext, &buf); err != nil {
		return nil, fmt.Errorf("vanilla: execute selector template: %w", err)
	}
	return buf.Bytes(), nil
}
