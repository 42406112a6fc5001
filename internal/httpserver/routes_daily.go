// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily game mode.
// Exposes four endpoints under /daily:
//   - GET  /daily             → today's deterministic game log
//   - GET  /daily/{date}      → a past day's game log
//   - POST /daily/solve       → submit a reconstruction of today's log
//   - GET  /daily/leaderboard → fetch top results for today (or a given date)
//
// Everyone sees the same game on a given date (derived from date + salt
// and cached in the daily_games table). Each user can record one solve
// per day; time is measured server-side from first fetch to solve.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dugout/playlog/internal/daily"
	"github.com/dugout/playlog/internal/gen"
	"github.com/dugout/playlog/internal/parser"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	attempts map[string]*dailyAttempt // active attempts keyed by userID|date
	mu       sync.Mutex               // guards attempts
}

// dailyAttempt holds transient in-memory state for an in-progress solve.
type dailyAttempt struct {
	UserID string
	Date   string
	Start  time.Time
	Solved bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		attempts: make(map[string]*dailyAttempt),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", dd.handleToday)
		r.Get("/leaderboard", dd.handleLeaderboard)
		r.Get("/{date}", dd.handleByDate)
		r.Post("/solve", dd.handleSolve)
	})
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// gameFor loads the stored daily game for date, generating and caching
// it on first access. The generator runs in builder mode with the
// date-derived seed, so every process produces the identical game.
func (d *dailyServer) gameFor(r *http.Request, date string) (daily.Game, error) {
	if g, ok, err := d.store.GetGame(r.Context(), date); err != nil {
		return daily.Game{}, err
	} else if ok {
		return g, nil
	}

	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return daily.Game{}, err
	}
	seed := daily.Seed(t, d.salt)
	b, err := gen.NewBuilder(seed)
	if err != nil {
		return daily.Game{}, err
	}
	logText, g := b.Log()
	row := daily.Game{Date: date, Seed: seed, GamePK: g.Context.GamePK, Log: logText}
	if err := d.store.PutGame(r.Context(), row); err != nil {
		return daily.Game{}, err
	}
	// Re-read in case a concurrent request inserted first; PutGame is
	// INSERT OR IGNORE, so the stored row wins.
	if stored, ok, err := d.store.GetGame(r.Context(), date); err == nil && ok {
		return stored, nil
	}
	return row, nil
}

// -----------------------------------------------------------------------------
// GET /daily, GET /daily/{date}

// dailyRes is returned for daily game fetches.
type dailyRes struct {
	Date   string `json:"date"`
	GamePK uint64 `json:"gamePk"`
	Chars  int    `json:"chars"`
	Log    string `json:"log"`
	Played bool   `json:"played"`
}

// handleToday returns today's game and starts (or reuses) the caller's
// solve attempt clock.
func (d *dailyServer) handleToday(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	date := daily.DateKey(time.Now().UTC())

	g, err := d.gameFor(r, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("load daily game")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}

	// Start the clock on first fetch; keep the original start on refetch.
	if !played {
		key := uid + "|" + date
		d.mu.Lock()
		if _, ok := d.attempts[key]; !ok {
			d.attempts[key] = &dailyAttempt{UserID: uid, Date: date, Start: time.Now()}
		}
		d.mu.Unlock()
	}

	_ = json.NewEncoder(w).Encode(dailyRes{
		Date: date, GamePK: g.GamePK, Chars: len(g.Log), Log: g.Log, Played: played,
	})
}

// handleByDate returns a past day's game. Future dates are rejected so
// tomorrow's game cannot be fetched early.
func (d *dailyServer) handleByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	today := daily.DateKey(time.Now().UTC())
	if t.Format("2006-01-02") > today {
		http.Error(w, `{"error":"not_yet"}`, http.StatusNotFound)
		return
	}

	g, err := d.gameFor(r, date)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	uid := d.userIDWithAnon(w, r)
	played, _ := d.store.AlreadyPlayed(r.Context(), uid, date)

	_ = json.NewEncoder(w).Encode(dailyRes{
		Date: date, GamePK: g.GamePK, Chars: len(g.Log), Log: g.Log, Played: played,
	})
}

// -----------------------------------------------------------------------------
// POST /daily/solve

// solveReq is the request payload for /daily/solve.
type solveReq struct {
	Text string `json:"text"`
}

// solveRes is the response payload for /daily/solve.
type solveRes struct {
	State     string `json:"state"` // solved | wrong | locked
	Chars     int    `json:"chars"`
	ElapsedMs int    `json:"elapsedMs,omitempty"`
}

// handleSolve checks a submitted reconstruction of today's log.
// - Rejects if the caller has already recorded a solve today.
// - The submission must parse and render to exactly the stored log.
// - On success, records chars typed + elapsed time for the leaderboard.
func (d *dailyServer) handleSolve(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	date := daily.DateKey(time.Now().UTC())

	var p solveReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Text == "" {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	} else if played {
		_ = json.NewEncoder(w).Encode(solveRes{State: "locked"})
		return
	}

	g, err := d.gameFor(r, date)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}

	// The submission must be a valid log whose canonical rendering
	// matches the day's game. Parsing first forgives harmless trailing
	// whitespace without loosening the comparison.
	pr := parser.New(false)
	if err := pr.Feed(p.Text); err != nil {
		_ = json.NewEncoder(w).Encode(solveRes{State: "wrong", Chars: len(p.Text)})
		return
	}
	parsed, err := pr.Complete()
	if err != nil || parsed.Render() != g.Log {
		_ = json.NewEncoder(w).Encode(solveRes{State: "wrong", Chars: len(p.Text)})
		return
	}

	// Elapsed from the attempt clock; a solve with no prior fetch
	// scores zero elapsed rather than failing.
	elapsed := 0
	key := uid + "|" + date
	d.mu.Lock()
	if a, ok := d.attempts[key]; ok && !a.Solved {
		elapsed = int(time.Since(a.Start).Milliseconds())
		a.Solved = true
	}
	d.mu.Unlock()

	if err := d.store.InsertResult(r.Context(), daily.Result{
		UserID: uid, Date: date, GamePK: g.GamePK, Chars: len(p.Text), ElapsedMs: elapsed,
	}); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}

	_ = json.NewEncoder(w).Encode(solveRes{State: "solved", Chars: len(p.Text), ElapsedMs: elapsed})
}

// -----------------------------------------------------------------------------
// GET /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now().UTC())
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	rows, err := d.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
