package main

import (
	"encoding/json"
	"fmt"
)

// InputError indicates the caller's request parameters are invalid.
// Not retried: the same input would fail again.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// ShapeError indicates the candidate grid does not have the expected
// dimensions or contains non-single-letter cells.
type ShapeError struct {
	Expected int
	Detail   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid grid shape: %s (expected %dx%d single-letter cells)", e.Detail, e.Expected, e.Expected)
}

// PlacementError indicates a single word's declared placement is invalid:
// corner start, missing from wordsUsed, out of bounds, or a span that does
// not match the word length.
type PlacementError struct {
	Word   string
	Reason string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("invalid placement for %q: %s", e.Word, e.Reason)
}

// IntersectionError indicates two placements claim the same grid cell.
// Coordinates are reported 1-indexed.
type IntersectionError struct {
	Word  string
	Other string
	Row   int
	Col   int
}

func (e *IntersectionError) Error() string {
	return fmt.Sprintf("words %q and %q intersect at (row %d, col %d)", e.Word, e.Other, e.Row+1, e.Col+1)
}

// ErrInvalidResponse indicates the model returned content that is not
// valid JSON or does not conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the model call itself failed
// (network, quota, server error).
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
	return "model provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ExhaustedRetriesError is the terminal generation failure: every bounded
// attempt produced a transport, parse, or validation error. The message is
// deliberately generic; per-attempt diagnostics go to the log.
type ExhaustedRetriesError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("no valid puzzle after %d attempts: try a larger grid or shorter words", e.Attempts)
}

func (e *ExhaustedRetriesError) Unwrap() error { return e.LastErr }
