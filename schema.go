package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// puzzleSchema is the strict output contract sent to the model: the grid
// as rows of single-character strings, the solution as word/coordinate
// records, and the list of words actually placed. All fields required.
var puzzleSchema = &Schema{
	Name:        "word-search-puzzle",
	Description: "A word-search letter grid with the exact location of every placed word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grid": map[string]any{
				"type":        "array",
				"description": "The full grid, one array per row, one single uppercase letter per cell",
				"items": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":      "string",
						"minLength": 1,
						"maxLength": 1,
					},
				},
			},
			"solution": map[string]any{
				"type":        "array",
				"description": "One record per placed word with its exact 0-indexed start and end coordinates",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word":     map[string]any{"type": "string"},
						"startRow": map[string]any{"type": "integer"},
						"startCol": map[string]any{"type": "integer"},
						"endRow":   map[string]any{"type": "integer"},
						"endCol":   map[string]any{"type": "integer"},
					},
					"required":             []any{"word", "startRow", "startCol", "endRow", "endCol"},
					"additionalProperties": false,
				},
			},
			"wordsUsed": map[string]any{
				"type":        "array",
				"description": "The words that were actually placed in the grid, spelled exactly",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []any{"grid", "solution", "wordsUsed"},
		"additionalProperties": false,
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse checks raw model output against the declared schema.
// Returns *ErrInvalidResponse when the payload is not valid JSON or does
// not conform.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value, not a Go map
	// containing arbitrary types. Round-trip through encoding/json.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
