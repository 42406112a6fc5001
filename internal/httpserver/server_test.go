package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/dugout/playlog/internal/config"
	"github.com/dugout/playlog/internal/db"
	"github.com/dugout/playlog/internal/gen"
	"github.com/dugout/playlog/internal/lexicon"
	"github.com/dugout/playlog/internal/store"
)

// newTestServer wires a Server against a throwaway sqlite database.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	if err := lexicon.Init(); err != nil {
		t.Fatalf("lexicon init: %v", err)
	}
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(sqlDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{
		Port:      8080,
		LogLevel:  "error",
		JWTSecret: "test-secret",
		DailySalt: "test-salt",
	}
	return New(cfg, store.NewMemoryStore(), sqlDB)
}

// client returns an http.Client with a cookie jar against a live test server.
func client(t *testing.T, s *Server) (*http.Client, string) {
	t.Helper()
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}, ts.URL
}

// postJSON posts v as JSON and decodes the response body into out.
func postJSON(t *testing.T, c *http.Client, url string, v, out any) *http.Response {
	t.Helper()
	body, _ := json.Marshal(v)
	res, err := c.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return res
}

// getJSON fetches url and decodes the response body into out.
func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	res, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return res
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"ok":true}` {
		t.Fatalf("body = %q", got)
	}
}

func TestDebugLexicon(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/lexicon", nil))
	var counts map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &counts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"players", "venues", "conditions"} {
		if counts[k] == 0 {
			t.Errorf("%s count = 0", k)
		}
	}
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)

	var st sessionState
	postJSON(t, c, base+"/session/new", map[string]any{}, &st)
	if st.SessionID == "" {
		t.Fatal("no session id")
	}
	if st.NextChars != "[" {
		t.Fatalf("initial next chars = %q", st.NextChars)
	}

	postJSON(t, c, base+"/session/feed", feedReq{SessionID: st.SessionID, Chunk: "[GAME] "}, &st)
	if st.Finished {
		t.Fatal("finished after header tag")
	}
	if st.NextChars != "0123456789" {
		t.Fatalf("next chars = %q", st.NextChars)
	}

	// A chunk that can never extend a valid log is rejected and the
	// session keeps its prior state.
	res := postJSON(t, c, base+"/session/feed", feedReq{SessionID: st.SessionID, Chunk: "xyz"}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad chunk status = %d", res.StatusCode)
	}
	postJSON(t, c, base+"/session/feed", feedReq{SessionID: st.SessionID, Chunk: "716463 "}, &st)
	if !strings.Contains(st.ValidRegex, "DATE") {
		t.Fatalf("valid regex = %q", st.ValidRegex)
	}

	var got sessionState
	getJSON(t, c, base+"/session/"+st.SessionID, &got)
	if got.Text != "[GAME] 716463 " {
		t.Fatalf("session text = %q", got.Text)
	}

	res = postJSON(t, c, base+"/session/feed", feedReq{SessionID: "missing", Chunk: "["}, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("missing session status = %d", res.StatusCode)
	}
}

func TestParseEndpoint(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)

	b, err := gen.NewBuilder(7)
	if err != nil {
		t.Fatal(err)
	}
	logText, want := b.Log()

	var out parseRes
	res := postJSON(t, c, base+"/parse", parseReq{Text: logText}, &out)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if out.Game == nil || out.Game.Context.GamePK != want.Context.GamePK {
		t.Fatalf("parsed game pk mismatch")
	}
	if len(out.Game.Plays) != len(want.Plays) {
		t.Fatalf("plays = %d, want %d", len(out.Game.Plays), len(want.Plays))
	}

	res = postJSON(t, c, base+"/parse", parseReq{Text: "[GAME] oops"}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid log status = %d", res.StatusCode)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)

	seed := int64(42)
	var a, b generateRes
	postJSON(t, c, base+"/generate", generateReq{Seed: &seed}, &a)
	postJSON(t, c, base+"/generate", generateReq{Seed: &seed}, &b)
	if a.Log == "" || a.Log != b.Log {
		t.Fatal("same seed should produce identical logs")
	}
	if a.Seed != seed {
		t.Fatalf("seed = %d, want %d", a.Seed, seed)
	}

	var ch generateRes
	res := postJSON(t, c, base+"/generate", generateReq{Seed: &seed, Mode: "chars"}, &ch)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("chars mode status = %d", res.StatusCode)
	}
	if !strings.HasPrefix(ch.Log, "[GAME] ") || !strings.Contains(ch.Log, "[GAME_END]") {
		t.Fatalf("chars mode log malformed: %q", ch.Log[:min(60, len(ch.Log))])
	}
}

func TestGenerateStream(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/generate/stream?seed=5&delayMs=0"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var buf strings.Builder
	var done streamDone
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read before done frame: %v", err)
		}
		if len(msg) > 0 && msg[0] == '{' {
			if err := json.Unmarshal(msg, &done); err != nil {
				t.Fatalf("decode done frame: %v", err)
			}
			break
		}
		buf.Write(msg)
	}

	if !done.Done || done.Seed != 5 {
		t.Fatalf("done frame = %+v", done)
	}
	if done.Chars != buf.Len() {
		t.Fatalf("streamed %d chars, done frame says %d", buf.Len(), done.Chars)
	}

	// The stream matches what a one-shot generate with the same seed returns.
	c, base := client(t, s)
	seed := int64(5)
	var one generateRes
	postJSON(t, c, base+"/generate", generateReq{Seed: &seed}, &one)
	if one.Log != buf.String() {
		t.Fatal("streamed log differs from one-shot generate")
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)

	creds := map[string]string{"email": "fan@example.com", "password": "hunter2secret"}
	var created map[string]any
	res := postJSON(t, c, base+"/auth/signup", creds, &created)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", res.StatusCode)
	}
	if created["email"] != "fan@example.com" {
		t.Fatalf("signup email = %v", created["email"])
	}

	// Duplicate signup conflicts.
	res = postJSON(t, c, base+"/auth/signup", creds, nil)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", res.StatusCode)
	}

	// Cookie from signup authenticates /auth/me.
	var me authUser
	res = getJSON(t, c, base+"/auth/me", &me)
	if res.StatusCode != http.StatusOK || me.Email != "fan@example.com" {
		t.Fatalf("me status = %d, email = %q", res.StatusCode, me.Email)
	}

	// Wrong password rejected.
	res = postJSON(t, c, base+"/auth/login", map[string]string{"email": "fan@example.com", "password": "wrongwrong"}, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", res.StatusCode)
	}

	// History accrues against the account.
	seed := int64(9)
	postJSON(t, c, base+"/generate", generateReq{Seed: &seed}, nil)

	var stats map[string]any
	getJSON(t, c, base+"/stats/me", &stats)
	if int(stats["generated"].(float64)) != 1 {
		t.Fatalf("generated = %v", stats["generated"])
	}
	if int(stats["parsed"].(float64)) != 0 {
		t.Fatalf("parsed = %v", stats["parsed"])
	}

	var games []map[string]any
	getJSON(t, c, base+"/games/mine", &games)
	if len(games) != 1 {
		t.Fatalf("games = %d", len(games))
	}

	// Logout clears the cookie; gated routes 401 afterwards.
	postJSON(t, c, base+"/auth/logout", map[string]any{}, nil)
	res = getJSON(t, c, base+"/auth/me", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d", res.StatusCode)
	}
}

func TestGatedRoutesRejectGuests(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)
	for _, path := range []string{"/auth/me", "/stats/me", "/games/mine"} {
		res := getJSON(t, c, base+path, nil)
		if res.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, res.StatusCode)
		}
	}
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)
	cases := []map[string]string{
		{"email": "noat.example.com", "password": "hunter2secret"},
		{"email": "a@b.co", "password": "short"},
		{"email": "", "password": "hunter2secret"},
	}
	for _, body := range cases {
		res := postJSON(t, c, base+"/auth/signup", body, nil)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("signup %v status = %d, want 400", body["email"], res.StatusCode)
		}
	}
}

func TestDailyFlow(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)

	var today dailyRes
	res := getJSON(t, c, base+"/daily", &today)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("daily status = %d", res.StatusCode)
	}
	if today.Log == "" || today.Played {
		t.Fatalf("daily game: log empty=%v played=%v", today.Log == "", today.Played)
	}
	if today.Chars != len(today.Log) {
		t.Fatalf("chars = %d, want %d", today.Chars, len(today.Log))
	}

	// Same game on refetch (cached in DB).
	var again dailyRes
	getJSON(t, c, base+"/daily", &again)
	if again.Log != today.Log || again.GamePK != today.GamePK {
		t.Fatal("daily game should be stable within a date")
	}

	// A wrong submission does not lock the day.
	var sv solveRes
	postJSON(t, c, base+"/daily/solve", solveReq{Text: "[GAME] 123"}, &sv)
	if sv.State != "wrong" {
		t.Fatalf("state = %q, want wrong", sv.State)
	}

	// Correct submission solves and records a result.
	postJSON(t, c, base+"/daily/solve", solveReq{Text: today.Log}, &sv)
	if sv.State != "solved" {
		t.Fatalf("state = %q, want solved", sv.State)
	}
	if sv.Chars != len(today.Log) {
		t.Fatalf("solve chars = %d", sv.Chars)
	}

	// One result per user per day.
	postJSON(t, c, base+"/daily/solve", solveReq{Text: today.Log}, &sv)
	if sv.State != "locked" {
		t.Fatalf("state = %q, want locked", sv.State)
	}

	getJSON(t, c, base+"/daily", &again)
	if !again.Played {
		t.Fatal("played should be true after solve")
	}

	var lb lbRes
	getJSON(t, c, base+"/daily/leaderboard", &lb)
	if len(lb.Top) != 1 {
		t.Fatalf("leaderboard rows = %d", len(lb.Top))
	}
	if lb.Top[0].Chars != len(today.Log) {
		t.Fatalf("leaderboard chars = %d", lb.Top[0].Chars)
	}
}

func TestDailyByDate(t *testing.T) {
	s := newTestServer(t)
	c, base := client(t, s)

	res := getJSON(t, c, base+"/daily/not-a-date", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status = %d", res.StatusCode)
	}

	res = getJSON(t, c, base+"/daily/2999-01-01", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("future date status = %d", res.StatusCode)
	}

	var day dailyRes
	res = getJSON(t, c, base+"/daily/2025-06-01", &day)
	if res.StatusCode != http.StatusOK || day.Log == "" {
		t.Fatalf("past date status = %d", res.StatusCode)
	}

	// Deterministic across servers sharing a salt.
	s2 := newTestServer(t)
	c2, base2 := client(t, s2)
	var day2 dailyRes
	getJSON(t, c2, base2+"/daily/2025-06-01", &day2)
	if day2.Log != day.Log {
		t.Fatal("daily game should be identical across restarts")
	}
}
