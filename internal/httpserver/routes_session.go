// internal/httpserver/routes_session.go
//
// HTTP routes for parsing and generating play-by-play logs.
// Exposes:
//   - POST /session/new      → start an incremental parse session
//   - POST /session/feed     → feed a chunk into a session
//   - GET  /session/{id}     → inspect a session's state
//   - POST /parse            → one-shot parse of a complete log
//   - POST /generate         → generate a log (character or builder mode)
//   - GET  /generate/stream  → websocket, streams generated characters
//
// Sessions hold a live parser in memory; a finished session (and every
// one-shot parse or generate) persists a history row for its owner.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dugout/playlog/internal/db"
	"github.com/dugout/playlog/internal/game"
	"github.com/dugout/playlog/internal/gen"
	"github.com/dugout/playlog/internal/parser"
	"github.com/dugout/playlog/internal/store"
)

// mountSessions registers the parse/generate routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Post("/session/new", s.handleSessionNew)
	r.Post("/session/feed", s.handleSessionFeed)
	r.Get("/session/{id}", s.handleSessionGet)
	r.Post("/parse", s.handleParse)
	r.Post("/generate", s.handleGenerate)
	r.Get("/generate/stream", s.handleGenerateStream)
}

// -----------------------------------------------------------------------------
// /session/*

// sessionState is the common response shape for session endpoints.
type sessionState struct {
	SessionID  string `json:"sessionId"`
	Finished   bool   `json:"finished"`
	NextChars  string `json:"nextChars"`
	ValidRegex string `json:"validRegex,omitempty"`
	Text       string `json:"text,omitempty"`
}

// handleSessionNew creates a fresh parse session and returns its initial state.
func (s *Server) handleSessionNew(w http.ResponseWriter, r *http.Request) {
	sess := &store.Session{
		ID:        genID(),
		CreatedAt: time.Now().UTC(),
		Parser:    parser.New(false),
	}
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		sess.UserID = me.ID
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionState{
		SessionID: sess.ID,
		NextChars: string(sess.Parser.NextChars()),
	})
}

// feedReq is the request payload for /session/feed.
type feedReq struct {
	SessionID string `json:"sessionId"`
	Chunk     string `json:"chunk"`
}

// handleSessionFeed appends a chunk to a session's parser.
// A chunk that cannot extend any valid log is rejected atomically: the
// session keeps the state it had before the bad chunk.
func (s *Server) handleSessionFeed(w http.ResponseWriter, r *http.Request) {
	var req feedReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	sess.Mu.Lock()
	wasFinished := sess.Parser.Finished()
	if err := sess.Parser.Feed(req.Chunk); err != nil {
		// A rejected chunk must not poison the session: replay the
		// previously accepted text into a fresh parser. That text was
		// accepted once, so the replay cannot fail.
		fresh := parser.New(false)
		_ = fresh.Feed(sess.Text)
		sess.Parser = fresh
		sess.Mu.Unlock()
		http.Error(w, `{"error":`+strconv.Quote(err.Error())+`}`, http.StatusBadRequest)
		return
	}
	sess.Text += req.Chunk
	state := sessionState{
		SessionID:  sess.ID,
		Finished:   sess.Parser.Finished(),
		NextChars:  string(sess.Parser.NextChars()),
		ValidRegex: sess.Parser.ValidRegex(),
	}
	var finishedGame *game.Game
	if state.Finished && !wasFinished {
		finishedGame, _ = sess.Parser.Complete()
	}
	text := sess.Text
	sess.Mu.Unlock()

	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// First transition to finished persists a history row.
	if finishedGame != nil {
		userID, anonID := s.ownerIDs(w, r)
		s.recordGame(r, userID, anonID, finishedGame, text, nil)
	}

	_ = json.NewEncoder(w).Encode(state)
}

// handleSessionGet returns a session's accumulated text and parse state.
func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	sess.Mu.Lock()
	state := sessionState{
		SessionID:  sess.ID,
		Finished:   sess.Parser.Finished(),
		NextChars:  string(sess.Parser.NextChars()),
		ValidRegex: sess.Parser.ValidRegex(),
		Text:       sess.Text,
	}
	sess.Mu.Unlock()
	_ = json.NewEncoder(w).Encode(state)
}

// -----------------------------------------------------------------------------
// /parse

// parseReq/Res payloads for POST /parse.
type parseReq struct {
	Text string `json:"text"`
}
type parseRes struct {
	Game *game.Game `json:"game"`
}

// handleParse parses a complete log in one shot and returns the Game.
// Successful parses are recorded in the owner's history.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, `{"error":"empty_text"}`, http.StatusBadRequest)
		return
	}
	p := parser.New(false)
	if err := p.Feed(req.Text); err != nil {
		http.Error(w, `{"error":`+strconv.Quote(err.Error())+`}`, http.StatusBadRequest)
		return
	}
	g, err := p.Complete()
	if err != nil {
		http.Error(w, `{"error":`+strconv.Quote(err.Error())+`}`, http.StatusBadRequest)
		return
	}

	userID, anonID := s.ownerIDs(w, r)
	s.recordGame(r, userID, anonID, g, g.Render(), nil)

	_ = json.NewEncoder(w).Encode(parseRes{Game: g})
}

// -----------------------------------------------------------------------------
// /generate

// generateReq/Res payloads for POST /generate.
type generateReq struct {
	Seed     *int64 `json:"seed"`     // optional; random when absent
	Mode     string `json:"mode"`     // "chars" | "builder" (default "builder")
	MaxSteps int    `json:"maxSteps"` // chars mode step cap; 0 = default
}
type generateRes struct {
	Seed int64      `json:"seed"`
	Log  string     `json:"log"`
	Game *game.Game `json:"game"`
}

// handleGenerate produces a complete log either by walking the parser's
// next-character sets ("chars") or by building a game and rendering it
// ("builder"). Both are seeded and deterministic.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	logText, g, err := generateLog(seed, req.Mode, req.MaxSteps)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errBadMode) {
			status = http.StatusBadRequest
		} else {
			log.Error().Err(err).Int64("seed", seed).Str("mode", req.Mode).Msg("generate")
		}
		http.Error(w, `{"error":`+strconv.Quote(err.Error())+`}`, status)
		return
	}

	userID, anonID := s.ownerIDs(w, r)
	s.recordGame(r, userID, anonID, g, logText, &seed)

	_ = json.NewEncoder(w).Encode(generateRes{Seed: seed, Log: logText, Game: g})
}

// generateLog dispatches on generation mode.
func generateLog(seed int64, mode string, maxSteps int) (string, *game.Game, error) {
	switch mode {
	case "chars":
		return gen.NewCharDriver(seed, maxSteps).Generate()
	case "", "builder":
		b, err := gen.NewBuilder(seed)
		if err != nil {
			return "", nil, err
		}
		logText, g := b.Log()
		return logText, g, nil
	default:
		return "", nil, errBadMode
	}
}

var errBadMode = errors.New(`mode must be "chars" or "builder"`)

// -----------------------------------------------------------------------------
// /generate/stream

// upgrader accepts any origin; CORS for the REST surface is handled by
// middleware, and the stream carries no credentials.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamDone is the final frame sent after all characters.
type streamDone struct {
	Done   bool   `json:"done"`
	Seed   int64  `json:"seed"`
	GamePK uint64 `json:"gamePk"`
	Chars  int    `json:"chars"`
}

// handleGenerateStream generates a log and streams it to a websocket
// client one character at a time, then sends a JSON summary frame.
// Query params: seed (int, optional), mode (chars|builder), delayMs.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	seed := time.Now().UnixNano()
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, `{"error":"bad_seed"}`, http.StatusBadRequest)
			return
		}
		seed = n
	}
	delay := 20 * time.Millisecond
	if v := r.URL.Query().Get("delayMs"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			delay = time.Duration(n) * time.Millisecond
		}
	}

	logText, g, err := generateLog(seed, r.URL.Query().Get("mode"), 0)
	if err != nil {
		http.Error(w, `{"error":`+strconv.Quote(err.Error())+`}`, http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	for _, c := range logText {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(string(c))); err != nil {
			return
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	done := streamDone{Done: true, Seed: seed, GamePK: g.Context.GamePK, Chars: len(logText)}
	_ = conn.WriteJSON(done)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// -----------------------------------------------------------------------------
// history

// recordGame persists a history row for a parsed or generated game.
// Best effort: failures are logged, never surfaced to the client.
func (s *Server) recordGame(r *http.Request, userID, anonID string, g *game.Game, logText string, seed *int64) {
	row := db.GameRow{
		ID:     uuid.NewString(),
		UserID: userID,
		AnonID: anonID,
		GamePK: g.Context.GamePK,
		Date:   g.Context.Date,
		Venue:  g.Context.Venue,
		Plays:  len(g.Plays),
		Seed:   seed,
		Log:    logText,
	}
	if err := db.InsertGame(r.Context(), s.db, row); err != nil {
		log.Warn().Err(err).Str("gameId", row.ID).Msg("insert game row")
	}
}
