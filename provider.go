package main

import (
	"context"
	"encoding/json"
)

// Provider abstracts a generative model capable of constrained JSON output.
// Any backend that can honor the declared response schema is substitutable.
type Provider interface {
	// Generate sends the request to the model and returns its structured
	// response. When req.Schema is set the provider must use its native
	// constrained-output mechanism and validate the result against the
	// schema before returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the user message. Generation is single-turn.
	Prompt string

	// Schema is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 to 1.0.
	Temperature float64
}

// Schema declares the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema (kebab-case).
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the schema-validated JSON payload.
	Content json.RawMessage

	// Usage reports token consumption for this call.
	Usage Usage

	// Model is the model that actually served the request.
	Model string
}

// Usage tracks token consumption for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
