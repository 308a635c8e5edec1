// Package uischema carries the presentation hints that overlay a JSON Schema
// field: widget choices, label overrides, and per-option display settings.
// Hints never influence which schema branch matches a data value; they only
// shape how the selector and its branches render.
package uischema

import "strings"

// UISchema is the raw hint payload for a single field. Reserved keys use the
// "ui:" prefix; everything else addresses a nested field by name.
type UISchema map[string]any

// Title returns the "ui:title" override, empty when absent.
func (u UISchema) Title() string {
	return strings.TrimSpace(readString(u, "ui:title"))
}

// Widget returns the widget hint from "ui:widget" or the options bag.
func (u UISchema) Widget() string {
	if widget := strings.TrimSpace(readString(u, "ui:widget")); widget != "" {
		return widget
	}
	options := u.Options()
	if widget, ok := options["widget"].(string); ok {
		return strings.TrimSpace(widget)
	}
	return ""
}

// Options merges the "ui:options" bag with bare "ui:<key>" entries, the bag
// taking precedence. Reserved structural keys (ui:title, ui:widget) are not
// duplicated into the result.
func (u UISchema) Options() map[string]any {
	if u == nil {
		return nil
	}
	out := make(map[string]any)
	for key, value := range u {
		if !strings.HasPrefix(key, "ui:") {
			continue
		}
		name := strings.TrimPrefix(key, "ui:")
		switch name {
		case "options", "title", "widget":
			continue
		}
		out[name] = value
	}
	if bag, ok := u["ui:options"].(map[string]any); ok {
		for key, value := range bag {
			out[key] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// LabelVisible reports whether a visible label should render, falling back to
// the supplied default when no hint is present.
func (u UISchema) LabelVisible(fallback bool) bool {
	options := u.Options()
	if value, ok := options["label"].(bool); ok {
		return value
	}
	return fallback
}

// OptionLabels returns the per-alternative label overrides declared under
// ui:options.optionLabels, nil when absent or malformed.
func (u UISchema) OptionLabels() []string {
	options := u.Options()
	raw, ok := options["optionLabels"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		label, _ := entry.(string)
		out = append(out, label)
	}
	return out
}

// Field returns the hint payload for a nested field, nil when absent.
func (u UISchema) Field(name string) UISchema {
	if u == nil {
		return nil
	}
	nested, ok := u[name].(map[string]any)
	if !ok {
		return nil
	}
	return UISchema(nested)
}

func readString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	value, ok := payload[key]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}
