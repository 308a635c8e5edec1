package jsonschema

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

const (
	defaultMaxDocumentBytes = int64(5 << 20)
	defaultMaxDocuments     = 128
	defaultMaxRefDepth      = 64
)

// RetrieveOptions configures data-aware schema retrieval.
type RetrieveOptions struct {
	// AllowHTTPRefs toggles HTTP/HTTPS ref resolution.
	AllowHTTPRefs bool
	// AllowPathTraversal permits refs to escape the root directory.
	AllowPathTraversal bool
	// MaxDocumentBytes caps the size of any single referenced document.
	MaxDocumentBytes int64
	// MaxDocuments caps the number of unique documents loaded during retrieval.
	MaxDocuments int
	// MaxRefDepth caps the depth of $ref resolution chains.
	MaxRefDepth int
}

// Retriever turns a raw schema node into its fully dereferenced form for a
// given data value: $ref chains are inlined (with guardrails), allOf branches
// are merged, and if/then/else conditionals are applied against the data.
type Retriever struct {
	loader Loader
	opts   RetrieveOptions
}

// NewRetriever constructs a retriever with the supplied loader and options.
func NewRetriever(loader Loader, opts RetrieveOptions) *Retriever {
	if opts.MaxDocumentBytes <= 0 {
		opts.MaxDocumentBytes = defaultMaxDocumentBytes
	}
	if opts.MaxDocuments <= 0 {
		opts.MaxDocuments = defaultMaxDocuments
	}
	if opts.MaxRefDepth <= 0 {
		opts.MaxRefDepth = defaultMaxRefDepth
	}
	return &Retriever{loader: loader, opts: opts}
}

// Retrieve dereferences node against the root document and applies the
// conditional keywords that depend on the current data value. The node must
// belong to (or reference into) doc; callers pass the field's raw alternative
// schema and its current value.
func (r *Retriever) Retrieve(ctx context.Context, doc schema.Document, node map[string]any, data any) (map[string]any, error) {
	if r == nil {
		return nil, errors.New("jsonschema retriever: retriever is nil")
	}
	if node == nil {
		return nil, errors.New("jsonschema retriever: node is nil")
	}
	if doc.Source() == nil {
		return nil, errors.New("jsonschema retriever: source is nil")
	}

	session := &retrieveSession{
		loader: r.loader,
		opts:   r.opts,
		cache:  make(map[string]*retrievedDocument),
	}
	root, err := session.prepareRoot(doc)
	if err != nil {
		return nil, err
	}

	state := &refState{stack: make([]string, 0, 4), inStack: make(map[string]struct{})}
	resolved, err := session.retrieveNode(ctx, root, node, data, state)
	if err != nil {
		return nil, err
	}

	output, ok := resolved.(map[string]any)
	if !ok {
		return nil, errors.New("jsonschema retriever: retrieved node is not an object")
	}
	return output, nil
}

type retrieveSession struct {
	loader Loader
	opts   RetrieveOptions
	cache  map[string]*retrievedDocument
	root   *retrievedDocument
}

type retrievedDocument struct {
	key      string
	kind     schema.SourceKind
	location string
	baseDir  string
	data     map[string]any
	anchors  map[string]string
}

func (s *retrieveSession) prepareRoot(doc schema.Document) (*retrievedDocument, error) {
	src := doc.Source()
	key, location, baseDir, err := s.canonicalLocation(src)
	if err != nil {
		return nil, err
	}
	if int64(doc.Size()) > s.opts.MaxDocumentBytes {
		return nil, fmt.Errorf("jsonschema retriever: document too large (%d bytes)", doc.Size())
	}

	payload, err := ParsePayload(doc.Raw())
	if err != nil {
		return nil, err
	}
	anchors := make(map[string]string)
	if err := indexAnchors(payload, "#", anchors); err != nil {
		return nil, err
	}

	root := &retrievedDocument{
		key:      key,
		kind:     src.Kind(),
		location: location,
		baseDir:  baseDir,
		data:     payload,
		anchors:  anchors,
	}
	s.root = root
	s.cache[key] = root
	return root, nil
}

// retrieveNode walks a schema node, inlining refs and threading the data value
// that governs conditional keywords. Object properties narrow the data
// context; array items and composition branches keep the parent value.
func (s *retrieveSession) retrieveNode(ctx context.Context, doc *retrievedDocument, node any, data any, state *refState) (any, error) {
	typed, ok := node.(map[string]any)
	if !ok {
		if list, ok := node.([]any); ok {
			out := make([]any, 0, len(list))
			for _, entry := range list {
				child, err := s.retrieveNode(ctx, doc, entry, data, state)
				if err != nil {
					return nil, err
				}
				out = append(out, child)
			}
			return out, nil
		}
		return node, nil
	}

	if ref := strings.TrimSpace(readString(typed, "$ref")); ref != "" {
		refKey, refDoc, target, err := s.resolveRefTarget(ctx, doc, ref)
		if err != nil {
			return nil, err
		}
		if len(state.stack) >= s.opts.MaxRefDepth {
			return nil, fmt.Errorf("jsonschema retriever: ref depth exceeds %d", s.opts.MaxRefDepth)
		}
		if state.contains(refKey) {
			return nil, fmt.Errorf("jsonschema retriever: ref cycle detected at %s", ref)
		}
		merged, err := mergeRefTarget(target, typed)
		if err != nil {
			return nil, err
		}
		state.push(refKey)
		resolved, err := s.retrieveNode(ctx, refDoc, merged, data, state)
		state.pop(refKey)
		if err != nil {
			return nil, err
		}
		return resolved, nil
	}

	dataMap, _ := data.(map[string]any)
	resolved := make(map[string]any, len(typed))
	for key, value := range typed {
		switch key {
		case "$defs", "properties":
			items, ok := value.(map[string]any)
			if !ok {
				resolved[key] = value
				continue
			}
			child := make(map[string]any, len(items))
			for childKey, childValue := range items {
				var childData any
				if key == "properties" && dataMap != nil {
					childData = dataMap[childKey]
				}
				resolvedChild, err := s.retrieveNode(ctx, doc, childValue, childData, state)
				if err != nil {
					return nil, err
				}
				child[childKey] = resolvedChild
			}
			resolved[key] = child
		case "items":
			resolvedChild, err := s.retrieveNode(ctx, doc, value, nil, state)
			if err != nil {
				return nil, err
			}
			resolved[key] = resolvedChild
		case "oneOf", "anyOf", "allOf":
			list, ok := value.([]any)
			if !ok {
				resolved[key] = value
				continue
			}
			out := make([]any, 0, len(list))
			for _, entry := range list {
				resolvedChild, err := s.retrieveNode(ctx, doc, entry, data, state)
				if err != nil {
					return nil, err
				}
				out = append(out, resolvedChild)
			}
			resolved[key] = out
		case "if", "then", "else":
			resolvedChild, err := s.retrieveNode(ctx, doc, value, data, state)
			if err != nil {
				return nil, err
			}
			resolved[key] = resolvedChild
		default:
			resolved[key] = value
		}
	}

	resolved = applyAllOf(resolved)
	resolved = applyConditional(resolved, data)
	return resolved, nil
}

// applyAllOf folds already-resolved allOf branches into the parent schema.
func applyAllOf(payload map[string]any) map[string]any {
	list, ok := payload["allOf"].([]any)
	if !ok {
		return payload
	}
	delete(payload, "allOf")
	for _, entry := range list {
		branch, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		payload = mergeSchemas(payload, branch)
	}
	return payload
}

// applyConditional resolves if/then/else against the data value. The chosen
// branch is folded into the parent; the conditional keywords are dropped
// either way so downstream consumers see a plain schema.
func applyConditional(payload map[string]any, data any) map[string]any {
	condition, ok := payload["if"].(map[string]any)
	if !ok {
		if _, present := payload["if"]; !present {
			return payload
		}
		delete(payload, "if")
		delete(payload, "then")
		delete(payload, "else")
		return payload
	}

	branchKey := "else"
	if conforms(data, condition) {
		branchKey = "then"
	}
	branch, _ := payload[branchKey].(map[string]any)

	delete(payload, "if")
	delete(payload, "then")
	delete(payload, "else")

	if branch != nil {
		payload = mergeSchemas(payload, branch)
	}
	return payload
}

// mergeSchemas overlays one schema onto another: properties merge per key,
// required lists union, scalar keywords from the overlay win.
func mergeSchemas(base, overlay map[string]any) map[string]any {
	if base == nil {
		return cloneMap(overlay)
	}
	out := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		switch key {
		case "properties":
			overlayProps, ok := value.(map[string]any)
			if !ok {
				out[key] = value
				continue
			}
			baseProps, _ := out[key].(map[string]any)
			merged := make(map[string]any, len(baseProps)+len(overlayProps))
			for propKey, propValue := range baseProps {
				merged[propKey] = propValue
			}
			for propKey, propValue := range overlayProps {
				overlaySchema, okOverlay := propValue.(map[string]any)
				baseSchema, okBase := merged[propKey].(map[string]any)
				if okOverlay && okBase {
					merged[propKey] = mergeSchemas(baseSchema, overlaySchema)
					continue
				}
				merged[propKey] = propValue
			}
			out[key] = merged
		case "required":
			overlayReq, ok := value.([]any)
			if !ok {
				out[key] = value
				continue
			}
			baseReq, _ := out[key].([]any)
			seen := make(map[string]struct{}, len(baseReq)+len(overlayReq))
			union := make([]any, 0, len(baseReq)+len(overlayReq))
			for _, entry := range append(append([]any(nil), baseReq...), overlayReq...) {
				name, ok := entry.(string)
				if !ok {
					continue
				}
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				union = append(union, entry)
			}
			out[key] = union
		default:
			out[key] = value
		}
	}
	return out
}

// conforms performs a shallow structural check of data against a schema:
// const/enum pinning, declared type, required membership, and per-property
// recursion. It is intentionally weaker than full validation; the external
// validator owns correctness.
func conforms(data any, payload map[string]any) bool {
	if payload == nil {
		return true
	}
	if constValue, ok := payload["const"]; ok {
		return literalEqual(data, constValue)
	}
	if declared := schemaType(payload); declared != "" {
		if data == nil && declared != "null" {
			return false
		}
		if !typeMatches(data, declared) {
			return false
		}
	}
	if list, ok := payload["enum"].([]any); ok {
		found := false
		for _, entry := range list {
			if literalEqual(data, entry) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	dataMap, isMap := data.(map[string]any)
	for _, name := range requiredList(payload) {
		if !isMap {
			return false
		}
		if _, ok := dataMap[name]; !ok {
			return false
		}
	}
	if isMap {
		for name, prop := range properties(payload) {
			value, present := dataMap[name]
			if !present {
				continue
			}
			if !conforms(value, prop) {
				return false
			}
		}
	}
	return true
}

func (s *retrieveSession) resolveRefTarget(ctx context.Context, doc *retrievedDocument, ref string) (string, *retrievedDocument, any, error) {
	refPath, fragment := splitRef(ref)
	if refPath == "" {
		refKey := doc.key + "#" + fragment
		resolved, err := s.resolveFragment(doc, fragment)
		return refKey, doc, resolved, err
	}

	parsed, err := url.Parse(refPath)
	if err != nil {
		return "", nil, nil, fmt.Errorf("jsonschema retriever: invalid ref %q", ref)
	}

	var target *retrievedDocument
	switch {
	case parsed.Scheme == "http" || parsed.Scheme == "https":
		if !s.opts.AllowHTTPRefs {
			return "", nil, nil, fmt.Errorf("jsonschema retriever: http refs disabled (%s)", ref)
		}
		target, err = s.loadDocument(ctx, schema.SourceFromURL(parsed.String()))
	case parsed.Scheme == "file":
		target, err = s.loadDocument(ctx, schema.SourceFromFile(parsed.Path))
	case parsed.Scheme != "":
		return "", nil, nil, fmt.Errorf("jsonschema retriever: unsupported ref scheme %q", parsed.Scheme)
	default:
		src, srcErr := s.resolveRelativeSource(doc, parsed.Path)
		if srcErr != nil {
			return "", nil, nil, srcErr
		}
		target, err = s.loadDocument(ctx, src)
	}
	if err != nil {
		return "", nil, nil, err
	}
	refKey := target.key + "#" + fragment
	resolved, err := s.resolveFragment(target, fragment)
	return refKey, target, resolved, err
}

func (s *retrieveSession) resolveFragment(doc *retrievedDocument, fragment string) (any, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return cloneAny(doc.data), nil
	}
	if strings.HasPrefix(fragment, "/") {
		return resolveJSONPointer(doc.data, fragment)
	}
	pointer, ok := doc.anchors[fragment]
	if !ok {
		return nil, fmt.Errorf("jsonschema retriever: anchor %q not found", fragment)
	}
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" {
		return cloneAny(doc.data), nil
	}
	return resolveJSONPointer(doc.data, pointer)
}

func (s *retrieveSession) loadDocument(ctx context.Context, src schema.Source) (*retrievedDocument, error) {
	key, location, baseDir, err := s.canonicalLocation(src)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache[key]; ok {
		return cached, nil
	}
	if len(s.cache) >= s.opts.MaxDocuments {
		return nil, fmt.Errorf("jsonschema retriever: exceeded max documents (%d)", s.opts.MaxDocuments)
	}
	if s.loader == nil {
		return nil, errors.New("jsonschema retriever: loader is nil")
	}

	doc, err := s.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	if int64(doc.Size()) > s.opts.MaxDocumentBytes {
		return nil, fmt.Errorf("jsonschema retriever: document too large (%d bytes)", doc.Size())
	}
	payload, err := ParsePayload(doc.Raw())
	if err != nil {
		return nil, err
	}
	anchors := make(map[string]string)
	if err := indexAnchors(payload, "#", anchors); err != nil {
		return nil, err
	}

	resolved := &retrievedDocument{
		key:      key,
		kind:     src.Kind(),
		location: location,
		baseDir:  baseDir,
		data:     payload,
		anchors:  anchors,
	}
	s.cache[key] = resolved
	return resolved, nil
}

func (s *retrieveSession) resolveRelativeSource(doc *retrievedDocument, refPath string) (schema.Source, error) {
	switch doc.kind {
	case schema.SourceKindFile:
		resolved, err := s.cleanFilePath(doc.baseDir, refPath)
		if err != nil {
			return nil, err
		}
		return schema.SourceFromFile(resolved), nil
	case schema.SourceKindFS:
		resolved, err := s.cleanFSPath(doc.baseDir, refPath)
		if err != nil {
			return nil, err
		}
		return schema.SourceFromFS(resolved), nil
	case schema.SourceKindURL:
		if !s.opts.AllowHTTPRefs {
			return nil, fmt.Errorf("jsonschema retriever: http refs disabled (%s)", refPath)
		}
		base, err := url.Parse(doc.location)
		if err != nil {
			return nil, err
		}
		rel, err := url.Parse(refPath)
		if err != nil {
			return nil, err
		}
		return schema.SourceFromURL(base.ResolveReference(rel).String()), nil
	case schema.SourceKindInline:
		return nil, fmt.Errorf("jsonschema retriever: relative ref %q from inline schema", refPath)
	default:
		return nil, errors.New("jsonschema retriever: unsupported source kind")
	}
}

func (s *retrieveSession) canonicalLocation(src schema.Source) (string, string, string, error) {
	if src == nil {
		return "", "", "", errors.New("jsonschema retriever: source is nil")
	}
	location := src.Location()
	switch src.Kind() {
	case schema.SourceKindFile:
		abs, err := filepath.Abs(location)
		if err != nil {
			return "", "", "", err
		}
		return "file:" + abs, abs, filepath.Dir(abs), nil
	case schema.SourceKindFS:
		cleaned := path.Clean(strings.TrimPrefix(location, "/"))
		return "fs:" + cleaned, cleaned, path.Dir(cleaned), nil
	case schema.SourceKindURL:
		return "url:" + location, location, path.Dir(location), nil
	case schema.SourceKindInline:
		return "inline:" + location, location, "", nil
	default:
		return "", "", "", errors.New("jsonschema retriever: unsupported source kind")
	}
}

func (s *retrieveSession) cleanFilePath(baseDir, refPath string) (string, error) {
	candidate := refPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(baseDir, refPath)
	}
	candidate = filepath.Clean(candidate)
	if s.opts.AllowPathTraversal {
		return candidate, nil
	}
	root := baseDir
	if s.root != nil {
		root = s.root.baseDir
	}
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("jsonschema retriever: ref path escapes root (%s)", refPath)
	}
	return candidate, nil
}

func (s *retrieveSession) cleanFSPath(baseDir, refPath string) (string, error) {
	candidate := path.Clean(path.Join(baseDir, refPath))
	candidate = strings.TrimPrefix(candidate, "/")
	if s.opts.AllowPathTraversal {
		return candidate, nil
	}
	root := baseDir
	if s.root != nil {
		root = s.root.baseDir
	}
	root = strings.TrimPrefix(path.Clean(root), "/")
	if root == "." {
		root = ""
	}
	if root == "" {
		if strings.HasPrefix(candidate, "..") {
			return "", fmt.Errorf("jsonschema retriever: ref path escapes root (%s)", refPath)
		}
		return candidate, nil
	}
	if candidate == root || strings.HasPrefix(candidate, root+"/") {
		return candidate, nil
	}
	return "", fmt.Errorf("jsonschema retriever: ref path escapes root (%s)", refPath)
}

func splitRef(ref string) (string, string) {
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func resolveJSONPointer(root any, pointer string) (any, error) {
	if pointer == "" || pointer == "#" {
		return cloneAny(root), nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("jsonschema retriever: invalid json pointer %q", pointer)
	}

	current := root
	for _, part := range strings.Split(pointer, "/")[1:] {
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return nil, err
		}
		decoded = strings.ReplaceAll(decoded, "~1", "/")
		decoded = strings.ReplaceAll(decoded, "~0", "~")

		switch typed := current.(type) {
		case map[string]any:
			value, ok := typed[decoded]
			if !ok {
				return nil, fmt.Errorf("jsonschema retriever: pointer %q not found", pointer)
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(decoded)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, fmt.Errorf("jsonschema retriever: pointer %q out of range", pointer)
			}
			current = typed[idx]
		default:
			return nil, fmt.Errorf("jsonschema retriever: pointer %q invalid", pointer)
		}
	}

	return cloneAny(current), nil
}

func indexAnchors(node any, pointer string, anchors map[string]string) error {
	switch typed := node.(type) {
	case map[string]any:
		if raw, ok := typed["$anchor"]; ok {
			name, ok := raw.(string)
			name = strings.TrimSpace(name)
			if ok && name != "" {
				if _, exists := anchors[name]; exists {
					return fmt.Errorf("jsonschema retriever: duplicate anchor %q", name)
				}
				anchors[name] = pointer
			}
		}
		for _, key := range sortedKeys(typed) {
			if err := indexAnchors(typed[key], joinPointer(pointer, key), anchors); err != nil {
				return err
			}
		}
	case []any:
		for idx, value := range typed {
			if err := indexAnchors(value, joinPointer(pointer, strconv.Itoa(idx)), anchors); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPointer(pointer, segment string) string {
	if pointer == "" {
		pointer = "#"
	}
	replacer := strings.NewReplacer("~", "~0", "/", "~1")
	return pointer + "/" + replacer.Replace(segment)
}

func mergeRefTarget(target any, refObj map[string]any) (any, error) {
	merged := cloneAny(target)
	if mergedMap, ok := merged.(map[string]any); ok {
		for key, value := range refObj {
			if key == "$ref" {
				continue
			}
			mergedMap[key] = value
		}
		return mergedMap, nil
	}
	for key := range refObj {
		if key != "$ref" {
			return nil, errors.New("jsonschema retriever: $ref target is not an object")
		}
	}
	return merged, nil
}

type refState struct {
	stack   []string
	inStack map[string]struct{}
}

func (s *refState) push(ref string) {
	s.stack = append(s.stack, ref)
	s.inStack[ref] = struct{}{}
}

func (s *refState) pop(ref string) {
	if len(s.stack) == 0 {
		return
	}
	last := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	delete(s.inStack, last)
	if ref != last {
		delete(s.inStack, ref)
	}
}

func (s *refState) contains(ref string) bool {
	_, ok := s.inStack[ref]
	return ok
}
