package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemaform/pkg/jsonschema"
	"github.com/goliatone/go-schemaform/pkg/multischema"
	"github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/renderers/tui"
	"github.com/goliatone/go-schemaform/pkg/renderers/vanilla"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/uischema"
)

func main() {
	schemaPath := flag.String("schema", "", "JSON Schema or OpenAPI document path")
	component := flag.String("component", "", "OpenAPI component schema name (treats -schema as an OpenAPI document)")
	dataPath := flag.String("data", "", "JSON data file for the field value")
	uiDir := flag.String("ui", "", "directory of UI hint documents")
	fieldID := flag.String("field", "root", "field identity for the composite")
	rendererName := flag.String("renderer", "vanilla", "renderer to use (vanilla, tui)")
	output := flag.String("output", "", "output file for rendered selector (stdout if empty)")
	interactive := flag.Bool("interactive", false, "drive branch selection through terminal prompts")
	flag.Parse()

	if *schemaPath == "" {
		log.Fatal("missing -schema")
	}

	ctx := context.Background()

	props, utils, err := buildField(ctx, *schemaPath, *component, *dataPath, *uiDir, *fieldID)
	if err != nil {
		log.Fatalf("Failed to prepare field: %v", err)
	}

	var latest any = props.Data
	props.OnChange = func(data any, _ multischema.ErrorSchema, fieldID string) {
		latest = data
		fmt.Fprintf(os.Stderr, "%s changed\n", fieldID)
	}

	resolver, err := multischema.New(ctx, utils, props)
	if err != nil {
		log.Fatalf("Failed to initialize resolver: %v", err)
	}

	if *interactive {
		if err := runInteractive(ctx, resolver, &latest); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
	}

	rendered, err := renderSelector(ctx, resolver, *rendererName)
	if err != nil {
		log.Fatalf("Failed to render selector: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Selector written to %s\n", *output)
	} else {
		fmt.Print(string(rendered))
	}

	report(resolver, latest)
}

// buildField assembles the composite descriptor and the schema utilities from
// the command line inputs.
func buildField(ctx context.Context, schemaPath, component, dataPath, uiDir, fieldID string) (multischema.Props, multischema.Utilities, error) {
	loader := jsonschema.NewFileLoader()

	var doc schema.Document
	var payload map[string]any
	var options []map[string]any
	var kind multischema.CompositionKind

	if component != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return multischema.Props{}, nil, err
		}
		composite, err := openapi.CompositeFromDocument(ctx, raw, component)
		if err != nil {
			return multischema.Props{}, nil, err
		}
		payload, options, kind = composite.Schema, composite.Options, composite.Kind
		encoded, err := json.Marshal(payload)
		if err != nil {
			return multischema.Props{}, nil, fmt.Errorf("encode component %s: %w", component, err)
		}
		doc, err = schema.NewDocument(schema.SourceFromInline(component), encoded)
		if err != nil {
			return multischema.Props{}, nil, err
		}
	} else {
		loaded, err := loader.Load(ctx, schema.SourceFromFile(schemaPath))
		if err != nil {
			return multischema.Props{}, nil, err
		}
		doc = loaded
		payload, err = jsonschema.ParsePayload(doc.Raw())
		if err != nil {
			return multischema.Props{}, nil, err
		}
		kind, options = compositionOf(payload)
		if kind == "" {
			return multischema.Props{}, nil, fmt.Errorf("schema %s declares no oneOf, anyOf, or allOf", schemaPath)
		}
	}

	var data any
	if dataPath != "" {
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return multischema.Props{}, nil, err
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return multischema.Props{}, nil, fmt.Errorf("parse data %s: %w", dataPath, err)
		}
	}

	var hints uischema.UISchema
	if uiDir != "" {
		store, err := uischema.LoadFS(os.DirFS(uiDir))
		if err != nil {
			return multischema.Props{}, nil, err
		}
		if field, ok := store.Field(fieldID); ok {
			hints = field
		}
	}

	utils, err := jsonschema.NewService(doc, jsonschema.WithLoader(loader))
	if err != nil {
		return multischema.Props{}, nil, err
	}

	return multischema.Props{
		ID:       fieldID,
		Schema:   payload,
		Options:  options,
		Kind:     kind,
		UISchema: hints,
		Data:     data,
	}, utils, nil
}

// compositionOf inspects a schema payload for its composition keyword.
func compositionOf(payload map[string]any) (multischema.CompositionKind, []map[string]any) {
	for _, kind := range []multischema.CompositionKind{multischema.KindOneOf, multischema.KindAnyOf, multischema.KindAllOf} {
		raw, ok := payload[string(kind)].([]any)
		if !ok || len(raw) == 0 {
			continue
		}
		options := make([]map[string]any, 0, len(raw))
		for _, entry := range raw {
			option, ok := entry.(map[string]any)
			if !ok {
				option = map[string]any{}
			}
			options = append(options, option)
		}
		return kind, options
	}
	return "", nil
}

// runInteractive loops terminal prompts, applying each pick and feeding the
// migrated data back into the resolver, until the user aborts.
func runInteractive(ctx context.Context, resolver *multischema.Resolver, latest *any) error {
	picker := tui.NewPicker(tui.WithNoneLabel("(clear selection)"))
	for {
		index, err := picker.Pick(ctx, resolver.Selector())
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		resolver.SelectOption(ctx, index)

		next := resolver.Props()
		next.Data = *latest
		resolver.Update(ctx, next)
		report(resolver, *latest)
	}
}

func renderSelector(ctx context.Context, resolver *multischema.Resolver, name string) ([]byte, error) {
	registry := render.NewRegistry()
	registry.MustRegister(vanilla.MustNew())
	registry.MustRegister(tui.New())

	renderer, err := registry.Get(name)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, resolver.Selector(), render.Options{})
}

// report prints the selection state as JSON on stderr.
func report(resolver *multischema.Resolver, data any) {
	branch, _ := resolver.BranchSchema()
	state := resolver.State()
	summary := map[string]any{
		"selectorId":     resolver.Selector().ID,
		"selectedOption": state.SelectedOption,
		"optionCount":    len(state.RetrievedOptions),
		"branchSchema":   branch,
		"data":           data,
	}
	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Printf("encode report: %v", err)
		return
	}
	fmt.Fprintln(os.Stderr, string(encoded))
}
