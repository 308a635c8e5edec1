package tui

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goliatone/go-schemaform/pkg/multischema"
	"github.com/goliatone/go-schemaform/pkg/render"
)

// Renderer prints a selector as plain terminal text. The interactive flow
// lives in Picker; this non-interactive view is what gets logged or piped.
type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

// New returns the terminal text renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string { return "tui" }

func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes one line per option, marking the active selection.
func (r *Renderer) Render(ctx context.Context, spec multischema.SelectorSpec, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("tui: selector id is required")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s:\n", spec.ID)
	for _, option := range spec.Options {
		marker := " "
		if option.Value == spec.Selected {
			marker = ">"
		}
		fmt.Fprintf(&buf, "%s [%d] %s\n", marker, option.Value, plainLabel(option.Label))
	}
	for _, message := range options.Errors {
		fmt.Fprintf(&buf, "! %s\n", message)
	}
	return buf.Bytes(), nil
}
