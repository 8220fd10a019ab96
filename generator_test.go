package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGenerator(provider Provider) *Generator {
	return NewGenerator(provider, DefaultGeneratorConfig(), zap.NewNop().Sugar())
}

// validPayload marshals a well-formed 5x5 candidate with "CAT" at (1,1)-(1,3).
func validPayload(t *testing.T) json.RawMessage {
	t.Helper()
	candidate := newCandidate(5, []Placement{
		{Word: "CAT", StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 3},
	}, []string{"CAT"})
	raw, err := json.Marshal(candidate)
	require.NoError(t, err)
	return raw
}

// misshapenPayload marshals a candidate whose grid has too few rows.
func misshapenPayload(t *testing.T) json.RawMessage {
	t.Helper()
	candidate := newCandidate(4, nil, []string{"CAT"})
	raw, err := json.Marshal(candidate)
	require.NoError(t, err)
	return raw
}

func TestGenerateFirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: validPayload(t)})
	gen := newTestGenerator(mock)

	puzzle, err := gen.Generate(context.Background(), []string{"cat"}, 5, []Direction{DirRight})
	require.NoError(t, err)
	require.NotNil(t, puzzle)

	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "A", puzzle.Grid[1][2], "grid is corrected from the placement")

	// The formulated request carries the words, the size, and the rules.
	req := mock.Calls[0]
	assert.Contains(t, req.Prompt, "CAT")
	assert.Contains(t, req.Prompt, "5x5")
	assert.Contains(t, req.Prompt, "right")
	assert.Contains(t, req.Prompt, "row 0, column 0")
	assert.Same(t, puzzleSchema, req.Schema)
}

func TestGenerateRetriesParseFailure(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`this is not JSON`)},
		MockResponse{Content: validPayload(t)},
	)
	gen := newTestGenerator(mock)

	puzzle, err := gen.Generate(context.Background(), []string{"CAT"}, 5, []Direction{DirRight})
	require.NoError(t, err)
	require.NotNil(t, puzzle)
	assert.Equal(t, 2, mock.CallCount())
}

func TestGenerateRetriesTransportFailure(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: validPayload(t)},
	)
	gen := newTestGenerator(mock)

	_, err := gen.Generate(context.Background(), []string{"CAT"}, 5, []Direction{DirRight})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount())
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	// Three misshapen responses in a row: the caller gets the terminal
	// error after exactly three attempts, never a fourth.
	mock := NewMockProvider(
		MockResponse{Content: misshapenPayload(t)},
		MockResponse{Content: misshapenPayload(t)},
		MockResponse{Content: misshapenPayload(t)},
		MockResponse{Content: validPayload(t)}, // must never be consumed
	)
	gen := newTestGenerator(mock)

	_, err := gen.Generate(context.Background(), []string{"CAT"}, 5, []Direction{DirRight})
	require.Error(t, err)

	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, 3, mock.CallCount())

	// Terminal message is generic and actionable, not the per-attempt detail.
	assert.Contains(t, err.Error(), "try a larger grid or shorter words")

	// The last attempt's diagnostic stays reachable for callers that want it.
	var serr *ShapeError
	assert.ErrorAs(t, exhausted.LastErr, &serr)
}

func TestGenerateConfigurableAttempts(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: misshapenPayload(t)},
		MockResponse{Content: validPayload(t)},
	)
	cfg := DefaultGeneratorConfig()
	cfg.MaxAttempts = 1
	gen := NewGenerator(mock, cfg, zap.NewNop().Sugar())

	_, err := gen.Generate(context.Background(), []string{"CAT"}, 5, []Direction{DirRight})
	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		words      []string
		size       int
		directions []Direction
	}{
		{"no words", nil, 10, []Direction{DirRight}},
		{"blank word", []string{"CAT", "  "}, 10, []Direction{DirRight}},
		{"duplicate word", []string{"CAT", "cat"}, 10, []Direction{DirRight}},
		{"one-letter word", []string{"A"}, 10, []Direction{DirRight}},
		{"size too small", []string{"CAT"}, 4, []Direction{DirRight}},
		{"size too large", []string{"CAT"}, 31, []Direction{DirRight}},
		{"no directions", []string{"CAT"}, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider()
			gen := newTestGenerator(mock)

			_, err := gen.Generate(context.Background(), tt.words, tt.size, tt.directions)
			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, 0, mock.CallCount(), "invalid input must not reach the model")
		})
	}
}
