package uischema

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Store keeps parsed UI schema documents keyed by field identifier. It is
// safe for concurrent readers when treated as immutable after construction.
type Store struct {
	fields map[string]UISchema
}

// LoadFS walks the provided filesystem and parses JSON/YAML UI schema files.
// When fsys is nil or no schema files are present, the returned store is
// empty. A field identifier appearing in two files is an error.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{fields: make(map[string]UISchema)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}
		doc, err := parseDocument(raw, path)
		if err != nil {
			return err
		}
		for fieldID, hints := range doc.Fields {
			id := strings.TrimSpace(fieldID)
			if id == "" {
				return DocumentError{Path: path, Message: "empty field id"}
			}
			if _, exists := store.fields[id]; exists {
				return DocumentError{Path: path, Message: fmt.Sprintf("duplicate field %q", id)}
			}
			store.fields[id] = UISchema(hints)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Field returns the hints for the supplied field identifier.
func (s *Store) Field(id string) (UISchema, bool) {
	if s == nil {
		return nil, false
	}
	hints, ok := s.fields[id]
	return hints, ok
}

// Empty reports whether the store holds any field hints.
func (s *Store) Empty() bool {
	return s == nil || len(s.fields) == 0
}

type documentFile struct {
	Fields map[string]map[string]any `json:"fields" yaml:"fields"`
}

func parseDocument(raw []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return documentFile{}, DocumentError{Path: source, Message: "document is empty"}
	}

	var doc documentFile
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return documentFile{}, DocumentError{Path: source, Message: fmt.Sprintf("parse document: %v", err)}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return documentFile{}, DocumentError{Path: source, Message: fmt.Sprintf("parse document: %v", err)}
		}
	default:
		return documentFile{}, DocumentError{Path: source, Message: "unsupported file type"}
	}

	if doc.Fields == nil {
		return documentFile{}, DocumentError{Path: source, Message: "no fields section"}
	}
	return doc, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
