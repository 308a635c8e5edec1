package jsonschema

// SanitizeForNewSchema strips data properties that originate from the old
// branch schema and do not validate under the new branch schema. Properties
// the old schema never declared are preserved untouched, as are properties
// common to both branches. Passing a nil newSchema (selection cleared) drops
// every old-branch property.
func SanitizeForNewSchema(newSchema, oldSchema map[string]any, data any) any {
	dataMap, ok := data.(map[string]any)
	if !ok {
		return data
	}

	oldProps := properties(oldSchema)
	newProps := properties(newSchema)

	out := make(map[string]any, len(dataMap))
	for key, value := range dataMap {
		oldProp, declaredByOld := oldProps[key]
		if !declaredByOld {
			out[key] = value
			continue
		}
		newProp, declaredByNew := newProps[key]
		if !declaredByNew {
			continue
		}
		if pinned, ok := newProp["const"]; ok && !literalEqual(value, pinned) {
			continue
		}
		declared := schemaType(newProp)
		if !typeMatches(value, declared) {
			continue
		}
		if declared == "object" {
			out[key] = SanitizeForNewSchema(newProp, oldProp, value)
			continue
		}
		out[key] = value
	}
	return out
}
