// Package multischema resolves which alternative of a disjunctive schema
// composition (oneOf/anyOf/allOf treated as a list) currently applies to a
// field's data, keeps that selection stable across external updates, and
// migrates data safely when the user switches branches.
package multischema

import (
	"context"

	"github.com/goliatone/go-schemaform/pkg/jsonschema"
	"github.com/goliatone/go-schemaform/pkg/uischema"
)

// CompositionKind names the disjunctive keyword the composite field carries.
type CompositionKind string

const (
	KindOneOf CompositionKind = "oneOf"
	KindAnyOf CompositionKind = "anyOf"
	KindAllOf CompositionKind = "allOf"
)

// SelectorSuffix distinguishes the oneOf-style selector from the anyOf-style
// selector in the field identity token. The two suffixes are part of the
// externally observable identity contract and must not change.
func (k CompositionKind) SelectorSuffix() string {
	if k == KindAnyOf {
		return "__anyof_select"
	}
	return "__oneof_select"
}

// ChangeNotifier receives the new data snapshot after a user-driven branch
// switch. This notification is the sole channel by which the snapshot becomes
// authoritative; errs is nil unless the caller attached an error schema.
type ChangeNotifier func(data any, errs ErrorSchema, fieldID string)

// Props is the composite field descriptor supplied externally on every
// update. The resolver never mutates it.
type Props struct {
	// ID is the stable field identity. A different ID in the same position
	// means a structurally different field; selection state never carries
	// across IDs.
	ID string
	// Schema is the composite schema payload (carries the composition
	// keyword, any discriminator declaration, and composite-level required).
	Schema map[string]any
	// Options holds the raw alternative sub-schemas in declaration order.
	Options []map[string]any
	// Kind names which composition keyword produced Options.
	Kind CompositionKind
	// UISchema overlays presentation hints for the field.
	UISchema uischema.UISchema
	// Data is the field's current value.
	Data any
	// OnChange is invoked with the migrated data snapshot when the user
	// switches branches.
	OnChange ChangeNotifier
}

// SelectorID returns the field identity token for the alternative selector:
// "<fieldID>__oneof_select" or "<fieldID>__anyof_select".
func (p Props) SelectorID() string {
	return p.ID + p.Kind.SelectorSuffix()
}

// Utilities is the schema-utilities contract the resolver consumes.
// *jsonschema.Service satisfies it.
type Utilities interface {
	Retrieve(ctx context.Context, node map[string]any, data any) (map[string]any, error)
	ClosestMatchingOption(data any, options []map[string]any, preferred int, discriminatorField string) int
	SanitizeForNewSchema(newSchema, oldSchema map[string]any, data any) any
	DefaultState(payload map[string]any, data any, mode jsonschema.DefaultsMode) any
}
