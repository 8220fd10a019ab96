package main

import (
	"strings"
	"sync"
	"time"
)

// Player represents a connected player.
type Player struct {
	Pseudo   string    `json:"pseudo"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
}

// FoundWord records who found a word and where they traced it.
type FoundWord struct {
	Word      string    `json:"word"`
	Pseudo    string    `json:"pseudo"`
	Placement Placement `json:"placement"`
	FoundAt   time.Time `json:"found_at"`
}

// GameSession is a collaborative solve of one puzzle: players race to
// trace the hidden words.
type GameSession struct {
	ID        string                `json:"id"`
	PuzzleID  string                `json:"puzzle_id"`
	Players   map[string]*Player    `json:"players"`
	Found     map[string]*FoundWord `json:"found"`
	CreatedAt time.Time             `json:"created_at"`
	mu        sync.Mutex
}

// playerColors is the palette assigned to players in order.
var playerColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

// AddPlayer adds a player to the session and returns the player.
func (g *GameSession) AddPlayer(pseudo string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.Players[pseudo]; ok {
		return p
	}

	p := &Player{
		Pseudo:   pseudo,
		Color:    playerColors[len(g.Players)%len(playerColors)],
		JoinedAt: time.Now(),
	}
	g.Players[pseudo] = p
	return p
}

// Player returns the joined player with the given pseudo, or nil.
func (g *GameSession) Player(pseudo string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Players[pseudo]
}

// RemovePlayer removes a player from the session.
func (g *GameSession) RemovePlayer(pseudo string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Players, pseudo)
}

// MarkFound records a found word. Returns false if the word was already
// found by someone else.
func (g *GameSession) MarkFound(fw *FoundWord) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := strings.ToUpper(fw.Word)
	if _, taken := g.Found[key]; taken {
		return false
	}
	g.Found[key] = fw
	return true
}

// FoundWords returns a copy of the found-word records.
func (g *GameSession) FoundWords() map[string]*FoundWord {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := make(map[string]*FoundWord, len(g.Found))
	for k, v := range g.Found {
		cp[k] = v
	}
	return cp
}

// Complete reports whether every hidden word has been found.
func (g *GameSession) Complete(total int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return total > 0 && len(g.Found) >= total
}
