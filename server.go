package main

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

//go:embed frontend
var frontendFS embed.FS

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	// Refill tokens based on elapsed time.
	elapsed := time.Since(b.lastSeen)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		b.tokens += refill * rl.rate
		if b.tokens > rl.rate {
			b.tokens = rl.rate
		}
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux        *http.ServeMux
	store      *Store
	generator  *Generator // nil when no model provider is configured
	sse        *Broadcaster
	generateRL *rateLimiter
	foundRL    *rateLimiter
	log        *zap.SugaredLogger
}

// NewServer creates a configured HTTP server.
func NewServer(store *Store, generator *Generator, log *zap.SugaredLogger) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		store:      store,
		generator:  generator,
		sse:        NewBroadcaster(),
		generateRL: newRateLimiter(3, time.Minute),  // 3 generations/min per IP
		foundRL:    newRateLimiter(30, time.Second), // 30 guesses/sec per IP
		log:        log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Puzzle API
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)

	// Play API
	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	s.mux.HandleFunc("POST /api/games/{id}/found", s.handleFound)
	s.mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)

	// Frontend static files
	frontendDir, _ := fs.Sub(frontendFS, "frontend")
	fileServer := http.FileServer(http.FS(frontendDir))
	s.mux.HandleFunc("GET /game/{id}", s.handleGamePage)
	s.mux.Handle("GET /", fileServer)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Puzzle handlers ---

// POST /api/puzzles — generate a puzzle from a word list.
func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	if !s.generateRL.allow(r.RemoteAddr) {
		jsonError(w, "Too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	if s.generator == nil {
		jsonError(w, "Puzzle generation is not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Words      []string `json:"words"`
		Size       int      `json:"size"`
		Directions []string `json:"directions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	directions := make([]Direction, 0, len(req.Directions))
	seen := make(map[Direction]bool)
	for _, name := range req.Directions {
		d, err := ParseDirection(name)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !seen[d] {
			seen[d] = true
			directions = append(directions, d)
		}
	}

	puzzle, err := s.generator.Generate(r.Context(), req.Words, req.Size, directions)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			jsonError(w, inputErr.Msg, http.StatusBadRequest)
			return
		}
		s.log.Errorw("puzzle generation failed", "error", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.store.SavePuzzle(puzzle)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(puzzle)
}

// GET /api/puzzles — list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	puzzles := s.store.ListPuzzles()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(puzzles)
}

// GET /api/puzzles/{id} — get a single puzzle with its solution.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	puzzle := s.store.GetPuzzle(r.PathValue("id"))
	if puzzle == nil {
		jsonError(w, "Puzzle not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(puzzle)
}

// --- Play handlers ---

// gameView is the player-facing session state: the grid and the word list,
// but not the solution coordinates of unfound words.
type gameView struct {
	ID        string                `json:"id"`
	PuzzleID  string                `json:"puzzle_id"`
	Size      int                   `json:"size"`
	Grid      [][]string            `json:"grid"`
	Words     []string              `json:"words"`
	Players   map[string]*Player    `json:"players"`
	Found     map[string]*FoundWord `json:"found"`
	CreatedAt time.Time             `json:"created_at"`
}

func (s *Server) viewOf(game *GameSession, puzzle *Puzzle) gameView {
	words := make([]string, len(puzzle.WordsUsed))
	for i, wd := range puzzle.WordsUsed {
		words[i] = strings.ToUpper(wd)
	}
	return gameView{
		ID:        game.ID,
		PuzzleID:  game.PuzzleID,
		Size:      puzzle.Size,
		Grid:      puzzle.Grid,
		Words:     words,
		Players:   game.Players,
		Found:     game.FoundWords(),
		CreatedAt: game.CreatedAt,
	}
}

// POST /api/games — create a play session on a puzzle.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PuzzleID string `json:"puzzle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PuzzleID == "" {
		jsonError(w, "Field 'puzzle_id' is required", http.StatusBadRequest)
		return
	}

	game, err := s.store.CreateGame(req.PuzzleID)
	if err != nil {
		jsonError(w, "Puzzle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(game)
}

// GET /api/games/{id} — get the player-facing session state.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}
	puzzle := s.store.GetPuzzle(game.PuzzleID)
	if puzzle == nil {
		jsonError(w, "Puzzle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.viewOf(game, puzzle))
}

// POST /api/games/{id}/join — join a session with a pseudo.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pseudo == "" {
		jsonError(w, "Field 'pseudo' is required", http.StatusBadRequest)
		return
	}

	pseudo := sanitizePseudo(req.Pseudo)
	if pseudo == "" {
		jsonError(w, "Invalid pseudo", http.StatusBadRequest)
		return
	}

	player := game.AddPlayer(pseudo)

	s.sse.BroadcastEvent(game.ID, map[string]string{
		"type":   "player_joined",
		"pseudo": player.Pseudo,
		"color":  player.Color,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(player)
}

// POST /api/games/{id}/found — submit a traced word selection.
func (s *Server) handleFound(w http.ResponseWriter, r *http.Request) {
	if !s.foundRL.allow(r.RemoteAddr) {
		jsonError(w, "Too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}
	puzzle := s.store.GetPuzzle(game.PuzzleID)
	if puzzle == nil {
		jsonError(w, "Puzzle not found", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo   string `json:"pseudo"`
		StartRow int    `json:"startRow"`
		StartCol int    `json:"startCol"`
		EndRow   int    `json:"endRow"`
		EndCol   int    `json:"endCol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pseudo := sanitizePseudo(req.Pseudo)
	if game.Player(pseudo) == nil {
		jsonError(w, "Unknown player, join the game first", http.StatusBadRequest)
		return
	}

	word, ok := puzzle.MatchSelection(req.StartRow, req.StartCol, req.EndRow, req.EndCol)
	if !ok {
		jsonError(w, "Selection does not match any hidden word", http.StatusBadRequest)
		return
	}

	found := &FoundWord{
		Word:   word,
		Pseudo: pseudo,
		Placement: Placement{
			Word:     word,
			StartRow: req.StartRow,
			StartCol: req.StartCol,
			EndRow:   req.EndRow,
			EndCol:   req.EndCol,
		},
		FoundAt: time.Now(),
	}
	if !game.MarkFound(found) {
		jsonError(w, "Word already found", http.StatusConflict)
		return
	}

	s.sse.BroadcastEvent(game.ID, map[string]any{
		"type":      "word_found",
		"word":      found.Word,
		"pseudo":    found.Pseudo,
		"placement": found.Placement,
	})

	if game.Complete(puzzle.PlacedWordCount()) {
		s.sse.BroadcastEvent(game.ID, map[string]string{"type": "game_complete"})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"word":      found.Word,
		"placement": found.Placement,
	})
}

// GET /api/games/{id}/events — SSE stream of session events.
func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Game not found", http.StatusNotFound)
		return
	}
	puzzle := s.store.GetPuzzle(game.PuzzleID)
	if puzzle == nil {
		jsonError(w, "Puzzle not found", http.StatusNotFound)
		return
	}

	playerPseudo := sanitizePseudo(r.URL.Query().Get("pseudo"))

	s.sse.ServeSSE(w, r, game.ID, func(c *client) {
		// Send initial session state on connect.
		evt, _ := json.Marshal(map[string]any{
			"type":  "game_state",
			"state": s.viewOf(game, puzzle),
		})
		c.ch <- string(evt)
	}, func() {
		// On disconnect: broadcast player_left if a pseudo was provided.
		if playerPseudo != "" {
			game.RemovePlayer(playerPseudo)
			s.sse.BroadcastEvent(game.ID, map[string]string{
				"type":   "player_left",
				"pseudo": playerPseudo,
			})
		}
	})
}

// --- Frontend page handlers ---

// GET /game/{id} — serve the play page.
func (s *Server) handleGamePage(w http.ResponseWriter, _ *http.Request) {
	data, _ := frontendFS.ReadFile("frontend/game.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// --- Helpers ---

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizePseudo(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 20 {
		s = string([]rune(s)[:20])
	}
	return s
}
