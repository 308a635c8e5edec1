package render

// Options describe per-request data renderers can use to customise output
// without touching the resolver pipeline.
type Options struct {
	// Placeholder labels the unselected entry shown when the selector has no
	// active choice. Renderers fall back to their own default when empty.
	Placeholder string
	// Errors carries composite-level validation messages for the selector,
	// typically the direct messages split off an error schema.
	Errors []string
	// Attributes adds extra markup attributes keyed by name. Terminal
	// renderers may ignore these.
	Attributes map[string]string
}
