package multischema

// ErrorsKey is the reserved key that addresses error messages to the node
// itself rather than to one of its children.
const ErrorsKey = "__errors"

// ErrorSchema mirrors the data shape: every key except ErrorsKey addresses a
// child node, and ErrorsKey holds the messages for the node itself.
type ErrorSchema map[string]any

// Messages returns the node's own error messages. Malformed fragments
// (missing key, wrong element types) degrade to an empty slice rather than
// failing.
func (e ErrorSchema) Messages() []string {
	if e == nil {
		return nil
	}
	switch raw := e[ErrorsKey].(type) {
	case []string:
		return raw
	case []any:
		out := make([]string, 0, len(raw))
		for _, entry := range raw {
			if msg, ok := entry.(string); ok {
				out = append(out, msg)
			}
		}
		return out
	default:
		return nil
	}
}

// Field returns the error schema fragment for a child node, nil when absent
// or malformed.
func (e ErrorSchema) Field(name string) ErrorSchema {
	if e == nil || name == ErrorsKey {
		return nil
	}
	child, ok := e[name].(map[string]any)
	if !ok {
		return nil
	}
	return ErrorSchema(child)
}

// Split separates the messages addressed to the composite field itself from
// the fragments addressed to the selected branch's nested fields. The input
// is never mutated.
func (e ErrorSchema) Split() ([]string, ErrorSchema) {
	composite := e.Messages()
	if e == nil {
		return composite, nil
	}
	branch := make(ErrorSchema, len(e))
	for key, value := range e {
		if key == ErrorsKey {
			continue
		}
		branch[key] = value
	}
	if len(branch) == 0 {
		branch = nil
	}
	return composite, branch
}
