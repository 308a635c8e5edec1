package render

import (
	"context"

	"github.com/goliatone/go-schemaform/pkg/multischema"
)

// Renderer converts a selector specification into a byte representation
// (HTML, terminal text, etc.). Implementations must be safe for concurrent
// use; Render is called once per selector control.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, spec multischema.SelectorSpec, options Options) ([]byte, error)
}
