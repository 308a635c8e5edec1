package jsonschema

import "strings"

// DiscriminatorField walks the composite schema's discriminator declaration
// and returns the designated property name, or empty when none is declared.
// Both the OpenAPI object form ({"propertyName": "kind"}) and a bare string
// shorthand are accepted. The result depends only on the static schema.
func DiscriminatorField(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	switch disc := payload["discriminator"].(type) {
	case map[string]any:
		return strings.TrimSpace(readString(disc, "propertyName"))
	case string:
		return strings.TrimSpace(disc)
	default:
		return ""
	}
}
