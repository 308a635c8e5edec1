package multischema

import (
	"fmt"

	"github.com/goliatone/go-schemaform/pkg/uischema"
)

// SelectorOption is one entry of the alternative-selector control. Value is
// the alternative's index; index identity is the contract, not schema
// content, so entries must never be filtered or reordered.
type SelectorOption struct {
	Label string
	Value int
}

// SelectorSpec is everything a renderer needs to draw the selector control.
type SelectorSpec struct {
	// ID is the field identity token of the selector control.
	ID string
	// Options carries one entry per alternative, in declaration order.
	Options []SelectorOption
	// Selected is the active index, NoSelection when unselected.
	Selected int
}

// Selector builds the selector control description from the cached retrieved
// alternatives. Labels come from UI-hint overrides, then the alternative's
// own title, then a generated ordinal; all pass through markup sanitization.
func (r *Resolver) Selector() SelectorSpec {
	overrides := r.props.UISchema.OptionLabels()
	options := make([]SelectorOption, len(r.state.RetrievedOptions))
	for idx, option := range r.state.RetrievedOptions {
		label := ""
		if idx < len(overrides) {
			label = overrides[idx]
		}
		if label == "" {
			label, _ = option["title"].(string)
		}
		if label == "" {
			label = fmt.Sprintf("Option %d", idx+1)
		}
		options[idx] = SelectorOption{
			Label: uischema.SanitizeLabelMarkup(label),
			Value: idx,
		}
	}
	return SelectorSpec{
		ID:       r.props.SelectorID(),
		Options:  options,
		Selected: r.state.SelectedOption,
	}
}

// BranchSchema returns the currently selected alternative merged with the
// composite schema's own required list, so composite-level required
// validation survives delegation to a single branch. The second result is
// false when no alternative is selected.
func (r *Resolver) BranchSchema() (map[string]any, bool) {
	selected := r.state.SelectedOption
	if selected == NoSelection || selected >= len(r.state.RetrievedOptions) {
		return nil, false
	}
	branch := clonePayload(r.state.RetrievedOptions[selected])

	compositeRequired, _ := r.props.Schema["required"].([]any)
	if len(compositeRequired) == 0 {
		return branch, true
	}
	branchRequired, _ := branch["required"].([]any)
	branch["required"] = unionRequired(branchRequired, compositeRequired)
	return branch, true
}

func unionRequired(base, extra []any) []any {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]any, 0, len(base)+len(extra))
	for _, entry := range append(append([]any(nil), base...), extra...) {
		name, ok := entry.(string)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, entry)
	}
	return out
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return clonePayload(typed)
	case []any:
		out := make([]any, len(typed))
		for idx, entry := range typed {
			out[idx] = cloneValue(entry)
		}
		return out
	default:
		return typed
	}
}
