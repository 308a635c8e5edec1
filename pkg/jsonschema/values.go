package jsonschema

import (
	"math"
	"sort"
	"strings"
)

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

// schemaType returns the declared "type" keyword, empty when absent.
func schemaType(payload map[string]any) string {
	return strings.TrimSpace(readString(payload, "type"))
}

// requiredList returns the "required" keyword as a string slice, tolerating
// malformed entries by skipping them.
func requiredList(payload map[string]any) []string {
	if payload == nil {
		return nil
	}
	raw, ok := payload["required"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if name, ok := item.(string); ok && strings.TrimSpace(name) != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// properties returns the "properties" keyword as a map of sub-schemas.
func properties(payload map[string]any) map[string]map[string]any {
	if payload == nil {
		return nil
	}
	raw, ok := payload["properties"].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]map[string]any, len(raw))
	for key, value := range raw {
		prop, ok := value.(map[string]any)
		if !ok {
			continue
		}
		out[key] = prop
	}
	return out
}

// pinnedLiteral extracts the literal a schema pins a value to: an explicit
// const, a single-entry enum, or a declared default, in that order.
func pinnedLiteral(payload map[string]any) (any, bool) {
	if payload == nil {
		return nil, false
	}
	if value, ok := payload["const"]; ok {
		return value, true
	}
	if list, ok := payload["enum"].([]any); ok && len(list) == 1 {
		return list[0], true
	}
	if value, ok := payload["default"]; ok {
		return value, true
	}
	return nil, false
}

// literalEqual compares JSON scalar literals, treating integral floats and
// ints as interchangeable the way JSON decoding produces them.
func literalEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, okb := toFloat(b); okb {
			return fa == fb
		}
		return false
	}
	return a == b
}

// typeMatches reports whether a decoded JSON value is compatible with the
// declared schema type. An empty declared type matches anything.
func typeMatches(value any, declared string) bool {
	switch declared {
	case "":
		return true
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "number":
		_, ok := toFloat(value)
		return ok
	case "integer":
		number, ok := toFloat(value)
		return ok && number == math.Trunc(number)
	case "null":
		return value == nil
	default:
		return false
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func cloneAny(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = cloneAny(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, val := range typed {
			out[idx] = cloneAny(val)
		}
		return out
	default:
		return typed
	}
}

func cloneMap(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out, _ := cloneAny(payload).(map[string]any)
	return out
}

func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
