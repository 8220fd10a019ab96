package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Grid size bounds accepted by the generator.
const (
	MinSize = 5
	MaxSize = 30
)

// Direction is one of the eight straight-line orientations a word can take
// in the grid. The set is closed: the sign-derived step in the validation
// walk covers exactly these eight.
type Direction int

const (
	DirRight Direction = iota
	DirLeft
	DirDown
	DirUp
	DirDownRight
	DirDownLeft
	DirUpRight
	DirUpLeft
)

var directionNames = [...]string{
	DirRight:     "right",
	DirLeft:      "left",
	DirDown:      "down",
	DirUp:        "up",
	DirDownRight: "down-right",
	DirDownLeft:  "down-left",
	DirUpRight:   "up-right",
	DirUpLeft:    "up-left",
}

// directionHints describe each direction for the generation prompt.
var directionHints = [...]string{
	DirRight:     "horizontal, read left to right",
	DirLeft:      "horizontal, read right to left",
	DirDown:      "vertical, read top to bottom",
	DirUp:        "vertical, read bottom to top",
	DirDownRight: "diagonal, descending to the right",
	DirDownLeft:  "diagonal, descending to the left",
	DirUpRight:   "diagonal, ascending to the right",
	DirUpLeft:    "diagonal, ascending to the left",
}

// String returns the wire name of the direction.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// Delta returns the unit row/col step of the direction.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case DirRight:
		return 0, 1
	case DirLeft:
		return 0, -1
	case DirDown:
		return 1, 0
	case DirUp:
		return -1, 0
	case DirDownRight:
		return 1, 1
	case DirDownLeft:
		return 1, -1
	case DirUpRight:
		return -1, 1
	case DirUpLeft:
		return -1, -1
	}
	return 0, 0
}

// ParseDirection converts a wire name ("right", "down-left", ...) to a Direction.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d, n := range directionNames {
		if n == name {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// CellRef is a single grid coordinate, 0-indexed.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Placement is the declared location of one word: a straight line of
// uniform unit steps from start to end, both inclusive.
type Placement struct {
	Word     string `json:"word"`
	StartRow int    `json:"startRow"`
	StartCol int    `json:"startCol"`
	EndRow   int    `json:"endRow"`
	EndCol   int    `json:"endCol"`
}

// Length returns the number of cells the placement spans:
// the Chebyshev distance between start and end, plus one.
func (p Placement) Length() int {
	dr := abs(p.EndRow - p.StartRow)
	dc := abs(p.EndCol - p.StartCol)
	return max(dr, dc) + 1
}

// Straight reports whether the placement is horizontal, vertical, or a
// perfect diagonal. Cells only produces a meaningful walk for straight
// placements: a crooked one would visit cells its line never covers.
func (p Placement) Straight() bool {
	dr := abs(p.EndRow - p.StartRow)
	dc := abs(p.EndCol - p.StartCol)
	return dr == 0 || dc == 0 || dr == dc
}

// Cells walks the placement from start to end using unit steps derived
// from the sign of the deltas and returns every visited coordinate.
func (p Placement) Cells() []CellRef {
	dr := sign(p.EndRow - p.StartRow)
	dc := sign(p.EndCol - p.StartCol)

	n := p.Length()
	cells := make([]CellRef, n)
	r, c := p.StartRow, p.StartCol
	for i := range n {
		cells[i] = CellRef{Row: r, Col: c}
		r += dr
		c += dc
	}
	return cells
}

// Puzzle is a generated word-search: the letter grid, the declared
// placement of every embedded word, and the list of words the generator
// claims to have placed.
type Puzzle struct {
	ID        string      `json:"id,omitempty"`
	Size      int         `json:"size"`
	Grid      [][]string  `json:"grid"`
	Solution  []Placement `json:"solution"`
	WordsUsed []string    `json:"wordsUsed"`
	CreatedAt time.Time   `json:"created_at,omitzero"`
}

// PlacedWordCount returns the number of distinct words with a declared
// placement. WordsUsed may list words that never made it onto the grid;
// those can never be traced and do not count toward finishing a game.
func (p *Puzzle) PlacedWordCount() int {
	seen := make(map[string]bool, len(p.Solution))
	for _, pl := range p.Solution {
		seen[strings.ToUpper(strings.TrimSpace(pl.Word))] = true
	}
	return len(seen)
}

// MatchSelection checks a player's start/end selection against the stored
// solution. A selection matches a placement either exactly or reversed
// (players may trace a word back to front). Returns the matched word.
func (p *Puzzle) MatchSelection(startRow, startCol, endRow, endCol int) (string, bool) {
	for _, pl := range p.Solution {
		forward := pl.StartRow == startRow && pl.StartCol == startCol &&
			pl.EndRow == endRow && pl.EndCol == endCol
		reversed := pl.StartRow == endRow && pl.StartCol == endCol &&
			pl.EndRow == startRow && pl.EndCol == startCol
		if forward || reversed {
			return strings.ToUpper(pl.Word), true
		}
	}
	return "", false
}

// normalizeWords trims and uppercases the requested words, rejecting
// empty entries and duplicates.
func normalizeWords(words []string) ([]string, error) {
	if len(words) == 0 {
		return nil, &InputError{Msg: "at least one word is required"}
	}

	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			return nil, &InputError{Msg: "words must not be empty"}
		}
		if utf8.RuneCountInString(w) < 2 {
			return nil, &InputError{Msg: fmt.Sprintf("word %q is too short (minimum 2 letters)", w)}
		}
		if seen[w] {
			return nil, &InputError{Msg: fmt.Sprintf("duplicate word %q", w)}
		}
		seen[w] = true
		out = append(out, w)
	}
	return out, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
