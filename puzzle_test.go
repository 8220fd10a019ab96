package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionRoundTrip(t *testing.T) {
	all := []Direction{
		DirRight, DirLeft, DirDown, DirUp,
		DirDownRight, DirDownLeft, DirUpRight, DirUpLeft,
	}
	for _, d := range all {
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}

func TestParseDirectionUnknown(t *testing.T) {
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestDirectionDeltaMatchesWalk(t *testing.T) {
	// A placement laid out along each direction walks cells in that
	// direction's unit step.
	for d := DirRight; d <= DirUpLeft; d++ {
		dr, dc := d.Delta()
		pl := Placement{
			Word:     "ABC",
			StartRow: 10, StartCol: 10,
			EndRow: 10 + 2*dr, EndCol: 10 + 2*dc,
		}
		cells := pl.Cells()
		require.Len(t, cells, 3, d.String())
		assert.Equal(t, CellRef{Row: 10, Col: 10}, cells[0])
		assert.Equal(t, CellRef{Row: 10 + dr, Col: 10 + dc}, cells[1])
		assert.Equal(t, CellRef{Row: 10 + 2*dr, Col: 10 + 2*dc}, cells[2])
	}
}

func TestPlacementLength(t *testing.T) {
	pl := Placement{StartRow: 2, StartCol: 7, EndRow: 5, EndCol: 4}
	assert.Equal(t, 4, pl.Length())
}

func TestPlacementStraight(t *testing.T) {
	tests := []struct {
		name string
		pl   Placement
		want bool
	}{
		{"horizontal", Placement{StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 4}, true},
		{"vertical", Placement{StartRow: 4, StartCol: 2, EndRow: 1, EndCol: 2}, true},
		{"diagonal", Placement{StartRow: 0, StartCol: 4, EndRow: 3, EndCol: 1}, true},
		{"single cell", Placement{StartRow: 2, StartCol: 2, EndRow: 2, EndCol: 2}, true},
		{"knight-like", Placement{StartRow: 1, StartCol: 0, EndRow: 3, EndCol: 1}, false},
		{"shallow slope", Placement{StartRow: 2, StartCol: 0, EndRow: 4, EndCol: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pl.Straight())
		})
	}
}

func TestPlacedWordCount(t *testing.T) {
	puzzle := newCandidate(7, []Placement{
		{Word: "DOG", StartRow: 0, StartCol: 1, EndRow: 0, EndCol: 3},
		{Word: "cat", StartRow: 2, StartCol: 0, EndRow: 4, EndCol: 2},
		{Word: "CAT", StartRow: 6, StartCol: 0, EndRow: 6, EndCol: 2},
	}, []string{"DOG", "CAT", "ZEBRA"})

	// ZEBRA has no placement and the two CAT placements are one word.
	assert.Equal(t, 2, puzzle.PlacedWordCount())
}

func TestMatchSelection(t *testing.T) {
	puzzle := newCandidate(7, []Placement{
		{Word: "DOG", StartRow: 0, StartCol: 1, EndRow: 0, EndCol: 3},
	}, []string{"DOG"})

	word, ok := puzzle.MatchSelection(0, 1, 0, 3)
	require.True(t, ok)
	assert.Equal(t, "DOG", word)

	// Reversed trace matches too.
	word, ok = puzzle.MatchSelection(0, 3, 0, 1)
	require.True(t, ok)
	assert.Equal(t, "DOG", word)

	_, ok = puzzle.MatchSelection(1, 1, 1, 3)
	assert.False(t, ok)
}

func TestNormalizeWords(t *testing.T) {
	words, err := normalizeWords([]string{" cat ", "Dog"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CAT", "DOG"}, words)
}

func TestBuildGenerateMessage(t *testing.T) {
	msg := buildGenerateMessage([]string{"CAT", "DOG"}, 12, []Direction{DirRight, DirDownLeft})

	assert.Contains(t, msg, "12x12")
	assert.Contains(t, msg, "- CAT")
	assert.Contains(t, msg, "- DOG")
	assert.Contains(t, msg, "down-left")
	assert.Contains(t, msg, "descending to the left")
	assert.Contains(t, msg, "0-indexed")
	assert.Contains(t, msg, "No word may start at row 0, column 0")
	assert.Contains(t, msg, "No two words may share a cell")
	assert.NotContains(t, strings.ToLower(msg), "up-right", "only requested directions are offered")
}
