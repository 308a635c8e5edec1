package tui

import "errors"

var (
	// ErrAborted signals the user aborted the prompt (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is returned when a selector has nothing to offer.
	ErrNoOptions = errors.New("tui: selector has no options")
)
