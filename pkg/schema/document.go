package schema

import "errors"

// Document pairs a raw schema payload with the Source it was loaded from.
// Loaders produce Documents and the retriever resolves refs against them;
// the payload is copied on the way in and on the way out so neither side
// can alias the stored bytes.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument validates and wraps a loaded payload.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests
// and init-time fixtures.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns where the document came from.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Size reports the payload length without copying. Guardrail checks use it
// before deciding whether to parse.
func (d Document) Size() int {
	return len(d.raw)
}

// Location returns the string identifier for the origin, or "" for the zero
// Document.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
