package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// GeneratorConfig tunes puzzle generation.
type GeneratorConfig struct {
	// MaxAttempts bounds the sequential generate/validate attempts.
	MaxAttempts int

	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns the standard generation settings.
// Three attempts is usually enough for small grids; large grids with
// long word lists may need more (WORDSEARCH_MAX_ATTEMPTS).
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxAttempts: 3,
		MaxTokens:   8192,
		Temperature: 0.4,
	}
}

// Generator turns a word list into a validated puzzle through a bounded
// number of sequential model attempts. Any failure along the way
// (transport, parse, validation) consumes one attempt.
type Generator struct {
	provider Provider
	cfg      GeneratorConfig
	log      *zap.SugaredLogger
}

// NewGenerator creates a Generator on top of a Provider.
func NewGenerator(provider Provider, cfg GeneratorConfig, log *zap.SugaredLogger) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultGeneratorConfig().MaxAttempts
	}
	return &Generator{provider: provider, cfg: cfg, log: log}
}

// Generate requests a word-search puzzle from the model and returns the
// validated, corrected result. Input problems fail immediately with an
// *InputError; generation problems are retried up to MaxAttempts times
// and then surface as an *ExhaustedRetriesError.
func (g *Generator) Generate(ctx context.Context, words []string, size int, directions []Direction) (*Puzzle, error) {
	words, err := normalizeWords(words)
	if err != nil {
		return nil, err
	}
	if size < MinSize || size > MaxSize {
		return nil, &InputError{Msg: fmt.Sprintf("size must be between %d and %d, got %d", MinSize, MaxSize, size)}
	}
	if len(directions) == 0 {
		return nil, &InputError{Msg: "at least one direction is required"}
	}

	req := Request{
		System:      generateSystemPrompt,
		Prompt:      buildGenerateMessage(words, size, directions),
		Schema:      puzzleSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		puzzle, err := g.attempt(ctx, req, size)
		if err == nil {
			g.log.Infow("puzzle generated",
				"attempt", attempt,
				"size", size,
				"words", len(words),
				"placed", len(puzzle.Solution))
			return puzzle, nil
		}

		lastErr = err
		g.log.Warnw("puzzle attempt failed",
			"attempt", attempt,
			"max_attempts", g.cfg.MaxAttempts,
			"error", err)
	}

	return nil, &ExhaustedRetriesError{Attempts: g.cfg.MaxAttempts, LastErr: lastErr}
}

// attempt runs one formulate/call/parse/validate cycle.
func (g *Generator) attempt(ctx context.Context, req Request, size int) (*Puzzle, error) {
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	g.log.Debugw("model response",
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens)

	var candidate Puzzle
	if err := json.Unmarshal(resp.Content, &candidate); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	return ValidatePuzzle(&candidate, size)
}
