package jsonschema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Loader fetches raw schema documents addressed by a Source.
type Loader interface {
	Load(ctx context.Context, src schema.Source) (schema.Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, src schema.Source) (schema.Document, error)

// Load implements Loader.
func (fn LoaderFunc) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	return fn(ctx, src)
}

// NewFSLoader returns a Loader that reads fs.FS-addressed documents.
func NewFSLoader(fsys fs.FS) Loader {
	return LoaderFunc(func(ctx context.Context, src schema.Source) (schema.Document, error) {
		if err := ctx.Err(); err != nil {
			return schema.Document{}, err
		}
		if fsys == nil {
			return schema.Document{}, errors.New("jsonschema loader: fs is nil")
		}
		if src == nil || src.Kind() != schema.SourceKindFS {
			return schema.Document{}, errors.New("jsonschema loader: expected fs source")
		}
		raw, err := fs.ReadFile(fsys, src.Location())
		if err != nil {
			return schema.Document{}, fmt.Errorf("jsonschema loader: read %s: %w", src.Location(), err)
		}
		return schema.NewDocument(src, raw)
	})
}

// NewFileLoader returns a Loader that reads documents from disk.
func NewFileLoader() Loader {
	return LoaderFunc(func(ctx context.Context, src schema.Source) (schema.Document, error) {
		if err := ctx.Err(); err != nil {
			return schema.Document{}, err
		}
		if src == nil || src.Kind() != schema.SourceKindFile {
			return schema.Document{}, errors.New("jsonschema loader: expected file source")
		}
		raw, err := os.ReadFile(src.Location())
		if err != nil {
			return schema.Document{}, fmt.Errorf("jsonschema loader: read %s: %w", src.Location(), err)
		}
		return schema.NewDocument(src, raw)
	})
}

// NewHTTPLoader returns a Loader that fetches URL-addressed documents over
// HTTP. A nil client falls back to a plain client carrying the timeout; a
// positive timeout also bounds each request through its context.
func NewHTTPLoader(client *http.Client, timeout time.Duration) Loader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return LoaderFunc(func(ctx context.Context, src schema.Source) (schema.Document, error) {
		if src == nil || src.Kind() != schema.SourceKindURL {
			return schema.Document{}, errors.New("jsonschema loader: expected url source")
		}
		if src.Location() == "" {
			return schema.Document{}, errors.New("jsonschema loader: url is required")
		}

		reqCtx := ctx
		var cancel context.CancelFunc
		if timeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, src.Location(), nil)
		if err != nil {
			return schema.Document{}, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return schema.Document{}, fmt.Errorf("jsonschema loader: fetch %s: %w", src.Location(), err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return schema.Document{}, errors.New("jsonschema loader: unexpected status " + resp.Status)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return schema.Document{}, fmt.Errorf("jsonschema loader: read %s: %w", src.Location(), err)
		}
		return schema.NewDocument(src, raw)
	})
}

// ParsePayload decodes a raw JSON Schema document into a schema payload.
func ParsePayload(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("jsonschema: raw schema is empty")
	}
	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("jsonschema: parse schema: %w", err)
	}
	if payload == nil {
		return nil, errors.New("jsonschema: schema is nil")
	}
	return payload, nil
}
