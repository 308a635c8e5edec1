package multischema

import (
	"context"
	"errors"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/jsonschema"
)

// NoSelection mirrors the sentinel used by the matcher: no alternative
// currently applies.
const NoSelection = jsonschema.NoSelection

// State is the resolver's selection state. SelectedOption is NoSelection or a
// valid index into RetrievedOptions; the cache is replace-only so callers can
// rely on slice identity for change detection.
type State struct {
	SelectedOption   int
	RetrievedOptions []map[string]any
}

// Resolver tracks which alternative of a composite field applies to the
// current data and reconciles that selection as data, alternatives, or field
// identity change. All work is synchronous; the resolver owns no goroutines
// and must only be driven from a single update pipeline.
type Resolver struct {
	utils Utilities
	props Props
	state State
}

// New initializes a resolver for a freshly mounted field: every alternative
// is dereferenced against the initial data and the best match is computed
// with index 0 as the tie-break seed.
func New(ctx context.Context, utils Utilities, props Props) (*Resolver, error) {
	if utils == nil {
		return nil, errors.New("multischema: utilities are required")
	}
	if props.ID == "" {
		return nil, errors.New("multischema: field id is required")
	}
	r := &Resolver{utils: utils}
	r.reinitialize(ctx, props)
	return r, nil
}

// State returns the current selection state.
func (r *Resolver) State() State {
	return r.state
}

// Props returns the descriptor from the most recent update.
func (r *Resolver) Props() Props {
	return r.props
}

// Update applies an external update and reports whether the selection state
// changed. Two independent triggers run on every call: a deep structural
// difference in the raw alternative set replaces the retrieved cache
// wholesale, and a deep difference in the data value recomputes the best
// match preferring the current selection. A changed field identity abandons
// the old state entirely; carrying a selection across identities would
// silently mis-select. Calling Update twice with identical inputs is a no-op
// the second time.
func (r *Resolver) Update(ctx context.Context, next Props) bool {
	if next.ID != r.props.ID {
		r.reinitialize(ctx, next)
		return true
	}

	prev := r.props
	state := r.state
	changed := false

	if !cmp.Equal(prev.Options, next.Options) {
		state.RetrievedOptions = r.retrieveAll(ctx, next)
		changed = true
	}

	dataChanged := !cmp.Equal(prev.Data, next.Data)
	if dataChanged {
		selected := r.utils.ClosestMatchingOption(
			next.Data,
			state.RetrievedOptions,
			state.SelectedOption,
			jsonschema.DiscriminatorField(next.Schema),
		)
		if selected != state.SelectedOption {
			state.SelectedOption = selected
			changed = true
		}
	} else if state.SelectedOption >= len(state.RetrievedOptions) {
		// The alternative set shrank under an unchanged value; re-match so
		// the selection invariant holds.
		state.SelectedOption = r.utils.ClosestMatchingOption(
			next.Data,
			state.RetrievedOptions,
			state.SelectedOption,
			jsonschema.DiscriminatorField(next.Schema),
		)
		changed = true
	}

	r.props = next
	if changed {
		r.state = state
	}
	return changed
}

// SelectOption applies a user-driven selection change. Selecting the current
// index is a no-op. The current data is sanitized for the new branch, the new
// branch's structural defaults are applied without populating nested optional
// children, and the owning form is notified before the local selection
// updates; the two effects are deliberately not transactional. Out-of-range
// targets degrade to clearing the selection.
func (r *Resolver) SelectOption(ctx context.Context, index int) {
	_ = ctx
	if index < 0 || index >= len(r.state.RetrievedOptions) {
		index = NoSelection
	}
	if index == r.state.SelectedOption {
		return
	}

	var oldSchema, newSchema map[string]any
	if current := r.state.SelectedOption; current != NoSelection {
		oldSchema = r.state.RetrievedOptions[current]
	}
	if index != NoSelection {
		newSchema = r.state.RetrievedOptions[index]
	}

	data := r.utils.SanitizeForNewSchema(newSchema, oldSchema, r.props.Data)
	if newSchema != nil {
		data = r.utils.DefaultState(newSchema, data, jsonschema.ExcludeObjectChildren)
	}

	if r.props.OnChange != nil {
		r.props.OnChange(data, nil, r.props.SelectorID())
	}

	state := r.state
	state.SelectedOption = index
	r.state = state
}

// reinitialize rebuilds the full state for a (new) field identity.
func (r *Resolver) reinitialize(ctx context.Context, props Props) {
	retrieved := r.retrieveAll(ctx, props)
	selected := r.utils.ClosestMatchingOption(
		props.Data,
		retrieved,
		0,
		jsonschema.DiscriminatorField(props.Schema),
	)
	r.props = props
	r.state = State{SelectedOption: selected, RetrievedOptions: retrieved}
}

// retrieveAll dereferences every raw alternative against the current data. A
// failed retrieval keeps the raw alternative in its slot so indexes stay
// stable; the selection degrades rather than shifting.
func (r *Resolver) retrieveAll(ctx context.Context, props Props) []map[string]any {
	out := make([]map[string]any, len(props.Options))
	for idx, option := range props.Options {
		retrieved, err := r.utils.Retrieve(ctx, option, props.Data)
		if err != nil || retrieved == nil {
			out[idx] = option
			continue
		}
		out[idx] = retrieved
	}
	return out
}
