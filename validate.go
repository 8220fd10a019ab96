package main

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidatePuzzle checks a candidate puzzle against its declared solution
// and returns a corrected copy, or an error describing the first problem
// found.
//
// Structural problems (wrong grid shape, corner start, a word missing from
// wordsUsed, out-of-bounds or mis-sized placements, two words sharing a
// cell) reject the candidate. Letter mismatches between the grid and a
// declared placement are not errors: the placement's spelling is trusted
// and the grid cell is overwritten. Models are unreliable at rendering the
// full character grid but much better at reporting word coordinates, so
// repairing is cheaper than discarding the whole response.
//
// The candidate is not mutated; the returned puzzle carries a fresh grid
// with every cell uppercased and every placement spelled out exactly.
func ValidatePuzzle(candidate *Puzzle, size int) (*Puzzle, error) {
	if len(candidate.Grid) != size {
		return nil, &ShapeError{
			Expected: size,
			Detail:   fmt.Sprintf("got %d rows", len(candidate.Grid)),
		}
	}

	grid := make([][]string, size)
	for r, row := range candidate.Grid {
		if len(row) != size {
			return nil, &ShapeError{
				Expected: size,
				Detail:   fmt.Sprintf("row %d has %d cells", r+1, len(row)),
			}
		}
		grid[r] = make([]string, size)
		for c, cell := range row {
			if utf8.RuneCountInString(cell) != 1 {
				return nil, &ShapeError{
					Expected: size,
					Detail:   fmt.Sprintf("cell (row %d, col %d) is %q, want a single letter", r+1, c+1, cell),
				}
			}
			grid[r][c] = strings.ToUpper(cell)
		}
	}

	used := make(map[string]bool, len(candidate.WordsUsed))
	for _, w := range candidate.WordsUsed {
		used[strings.ToUpper(strings.TrimSpace(w))] = true
	}

	// Transient claim map for this validation pass only.
	occupied := make(map[CellRef]string)

	for _, pl := range candidate.Solution {
		word := []rune(strings.ToUpper(strings.TrimSpace(pl.Word)))

		if pl.StartRow == 0 && pl.StartCol == 0 {
			return nil, &PlacementError{Word: pl.Word, Reason: "starts at the reserved top-left corner"}
		}
		if !used[string(word)] {
			return nil, &PlacementError{Word: pl.Word, Reason: "not listed in wordsUsed"}
		}
		if !inBounds(pl.StartRow, pl.StartCol, size) || !inBounds(pl.EndRow, pl.EndCol, size) {
			return nil, &PlacementError{
				Word:   pl.Word,
				Reason: fmt.Sprintf("coordinates outside the %dx%d grid", size, size),
			}
		}
		if !pl.Straight() {
			return nil, &PlacementError{
				Word:   pl.Word,
				Reason: "not a straight horizontal, vertical, or diagonal line",
			}
		}
		if pl.Length() != len(word) {
			return nil, &PlacementError{
				Word:   pl.Word,
				Reason: fmt.Sprintf("spans %d cells but the word has %d letters", pl.Length(), len(word)),
			}
		}

		for i, cell := range pl.Cells() {
			if owner, taken := occupied[cell]; taken {
				return nil, &IntersectionError{Word: pl.Word, Other: owner, Row: cell.Row, Col: cell.Col}
			}
			occupied[cell] = pl.Word

			// Trust the declared placement over the grid rendering.
			if want := string(word[i]); grid[cell.Row][cell.Col] != want {
				grid[cell.Row][cell.Col] = want
			}
		}
	}

	corrected := *candidate
	corrected.Size = size
	corrected.Grid = grid
	return &corrected, nil
}

func inBounds(row, col, size int) bool {
	return row >= 0 && row < size && col >= 0 && col < size
}
