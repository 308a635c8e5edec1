package jsonschema

import "github.com/goliatone/go-schemaform/pkg/uischema"

// GlobalOptions carries form-wide rendering policy shared by every field.
type GlobalOptions struct {
	// Label globally enables or disables field labels.
	Label bool
}

// NewGlobalOptions returns the default policy (labels enabled).
func NewGlobalOptions() GlobalOptions {
	return GlobalOptions{Label: true}
}

// DisplayLabel reports whether a visible label should render for the field.
// Containers (objects, and arrays without an explicit widget) render their own
// chrome, so labels default off for them; UI hints can override either way.
func DisplayLabel(payload map[string]any, ui uischema.UISchema, opts GlobalOptions) bool {
	if !opts.Label {
		return false
	}

	visible := true
	switch schemaType(payload) {
	case "object":
		visible = false
	case "array":
		visible = ui.Widget() != ""
	}
	return ui.LabelVisible(visible)
}
