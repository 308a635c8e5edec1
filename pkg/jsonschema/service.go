package jsonschema

import (
	"context"
	"errors"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Service bundles the schema utilities against a single root document so
// consumers resolve refs, match alternatives, and migrate data through one
// handle. Option configures its construction.
type Service struct {
	doc       schema.Document
	retriever *Retriever
}

// Option customises Service construction.
type Option func(*serviceConfig)

type serviceConfig struct {
	loader    Loader
	retriever *Retriever
	opts      RetrieveOptions
}

// WithLoader injects the loader used for external refs.
func WithLoader(loader Loader) Option {
	return func(cfg *serviceConfig) {
		cfg.loader = loader
	}
}

// WithRetriever injects a fully configured retriever, bypassing the defaults.
func WithRetriever(retriever *Retriever) Option {
	return func(cfg *serviceConfig) {
		cfg.retriever = retriever
	}
}

// WithRetrieveOptions supplies guardrail options to the default retriever.
func WithRetrieveOptions(opts RetrieveOptions) Option {
	return func(cfg *serviceConfig) {
		cfg.opts = opts
	}
}

// NewService constructs a Service bound to the supplied root document.
func NewService(doc schema.Document, options ...Option) (*Service, error) {
	if doc.Source() == nil {
		return nil, errors.New("jsonschema service: document source is nil")
	}
	cfg := serviceConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	retriever := cfg.retriever
	if retriever == nil {
		retriever = NewRetriever(cfg.loader, cfg.opts)
	}
	return &Service{doc: doc, retriever: retriever}, nil
}

// Retrieve dereferences node against the bound document for the given data.
func (s *Service) Retrieve(ctx context.Context, node map[string]any, data any) (map[string]any, error) {
	if s == nil || s.retriever == nil {
		return nil, errors.New("jsonschema service: retriever is nil")
	}
	return s.retriever.Retrieve(ctx, s.doc, node, data)
}

// ClosestMatchingOption delegates to the package-level matcher.
func (s *Service) ClosestMatchingOption(data any, options []map[string]any, preferred int, discriminatorField string) int {
	return ClosestMatchingOption(data, options, preferred, discriminatorField)
}

// SanitizeForNewSchema delegates to the package-level sanitizer.
func (s *Service) SanitizeForNewSchema(newSchema, oldSchema map[string]any, data any) any {
	return SanitizeForNewSchema(newSchema, oldSchema, data)
}

// DefaultState delegates to the package-level defaults engine.
func (s *Service) DefaultState(payload map[string]any, data any, mode DefaultsMode) any {
	return DefaultState(payload, data, mode)
}
