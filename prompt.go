package main

import (
	"fmt"
	"strings"
)

const generateSystemPrompt = `You are a word-search puzzle builder. You place words in a square letter grid and report the exact location of every placed word. You respond only with JSON conforming to the provided schema.`

// buildGenerateMessage formulates the generation request: the word list,
// the grid dimensions, the permitted directions, and the placement rules
// the model must honor. Pure function of its inputs.
func buildGenerateMessage(words []string, size int, directions []Direction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Build a %dx%d word-search puzzle.\n", size, size)

	b.WriteString("\nWords to place:\n")
	for _, w := range words {
		fmt.Fprintf(&b, "- %s\n", strings.ToUpper(w))
	}

	b.WriteString("\nAllowed directions (use no others):\n")
	for _, d := range directions {
		fmt.Fprintf(&b, "- %s: %s\n", d, directionHints[d])
	}

	fmt.Fprintf(&b, `
Rules:
1. The grid has exactly %d rows of exactly %d cells, one single uppercase letter per cell.
2. Every placed word is spelled perfectly, letter by letter, along a straight line in one of the allowed directions.
3. No two words may share a cell. Zero intersections, even where the letters would agree.
4. Fill every leftover cell with a random uppercase letter.
5. For every placed word, report its exact start and end coordinates in the solution array. Rows and columns are 0-indexed from the top-left cell.
6. No word may start at row 0, column 0 (the top-left corner stays free of word starts).
7. wordsUsed lists only the words actually placed in the grid, spelled exactly as placed. Omit any word you could not place.
`, size, size)

	return b.String()
}
