package jsonschema

// DefaultsMode controls how DefaultState materializes nested objects.
type DefaultsMode int

const (
	// IncludeObjectChildren recurses into every object property, creating
	// nested objects and filling their defaults all the way down.
	IncludeObjectChildren DefaultsMode = iota
	// ExcludeObjectChildren creates only the root shape of required nested
	// objects without populating their optional children.
	ExcludeObjectChildren
)

// DefaultState fills structural defaults for slots the data leaves empty.
// Existing data always wins over declared defaults.
func DefaultState(payload map[string]any, data any, mode DefaultsMode) any {
	if payload == nil {
		return data
	}

	switch schemaType(payload) {
	case "object":
		return objectDefaults(payload, data, mode)
	default:
		if data != nil {
			return data
		}
		if value, ok := payload["default"]; ok {
			return cloneAny(value)
		}
		return data
	}
}

func objectDefaults(payload map[string]any, data any, mode DefaultsMode) any {
	out, ok := data.(map[string]any)
	if !ok {
		if data != nil {
			return data
		}
		out, _ = payload["default"].(map[string]any)
		out = cloneMap(out)
	}
	result := make(map[string]any, len(out))
	for key, value := range out {
		result[key] = value
	}

	props := properties(payload)
	required := requiredList(payload)
	for _, name := range sortedPropNames(props) {
		prop := props[name]
		existing, present := result[name]
		if present {
			if _, isObj := existing.(map[string]any); isObj && schemaType(prop) == "object" {
				result[name] = DefaultState(prop, existing, mode)
			}
			continue
		}

		if value, ok := prop["default"]; ok {
			result[name] = cloneAny(value)
			continue
		}
		if schemaType(prop) != "object" || !containsString(required, name) {
			continue
		}
		if mode == ExcludeObjectChildren {
			result[name] = map[string]any{}
			continue
		}
		result[name] = DefaultState(prop, nil, mode)
	}
	return result
}

func sortedPropNames(props map[string]map[string]any) []string {
	raw := make(map[string]any, len(props))
	for key := range props {
		raw[key] = struct{}{}
	}
	return sortedKeys(raw)
}
