package tui

import (
	"context"
	"fmt"
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-schemaform/pkg/multischema"
)

// PickerOption configures a Picker before construction.
type PickerOption func(*Picker)

// WithDriver replaces the default survey-backed driver.
func WithDriver(driver PromptDriver) PickerOption {
	return func(p *Picker) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// WithNoneLabel enables an explicit "no selection" entry with the given label.
func WithNoneLabel(label string) PickerOption {
	return func(p *Picker) {
		p.noneLabel = label
	}
}

// WithMessage overrides the prompt message shown above the options.
func WithMessage(message string) PickerOption {
	return func(p *Picker) {
		p.message = message
	}
}

// Picker drives an interactive single-select prompt for a selector
// specification and reports the chosen slot index.
type Picker struct {
	driver    PromptDriver
	message   string
	noneLabel string
}

// NewPicker builds a picker with the survey driver unless overridden.
func NewPicker(options ...PickerOption) *Picker {
	picker := &Picker{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(picker)
		}
	}
	return picker
}

// Pick prompts for one of the selector's options and returns the chosen slot
// index. When a none entry is configured and chosen, it returns NoSelection.
func (p *Picker) Pick(ctx context.Context, spec multischema.SelectorSpec) (int, error) {
	if len(spec.Options) == 0 {
		return multischema.NoSelection, ErrNoOptions
	}

	labels := make([]string, 0, len(spec.Options)+1)
	if p.noneLabel != "" {
		labels = append(labels, p.noneLabel)
	}
	for _, option := range spec.Options {
		labels = append(labels, plainLabel(option.Label))
	}

	offset := 0
	if p.noneLabel != "" {
		offset = 1
	}

	defaultIndex := 0
	if spec.Selected >= 0 && spec.Selected < len(spec.Options) {
		defaultIndex = spec.Selected + offset
	}

	message := p.message
	if message == "" {
		message = fmt.Sprintf("Select a variant for %s", spec.ID)
	}

	chosen, err := p.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return multischema.NoSelection, err
	}
	if chosen < offset {
		return multischema.NoSelection, nil
	}
	return chosen - offset, nil
}

var (
	stripOnce   sync.Once
	stripPolicy *bluemonday.Policy
)

// plainLabel strips the inline markup allowed in web labels so terminal
// prompts show readable text.
func plainLabel(label string) string {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(stripPolicy.Sanitize(label))
}
