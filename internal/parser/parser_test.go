package parser

import (
	"strings"
	"testing"

	"github.com/dugout/playlog/internal/game"
)

const header = "[GAME] 766493 [DATE] 2024-03-28 [VENUE] Yankee Stadium" +
	" [WEATHER] Sunny 74 11" +
	" [TEAM] 147 [CATCHER] Austin Wells [FIRST_BASE] Anthony Rizzo [SHORTSTOP] Anthony Volpe" +
	" [TEAM] 110 [CATCHER] James McCann [FIRST_BASE] Ryan O'Hearn" +
	" [GAME_START] "

const simplePlay = "[INNING] 1 top [PLAY] Lineout" +
	" [BATTER] Anthony Volpe [PITCHER] Corbin Burnes [FIELDERS] Jordan Westburg" +
	" [MOVEMENTS] Anthony Volpe home -> home [out] "

const complexPlay = "[INNING] 1 top [PLAY] Groundout" +
	" [BATTER] Gleyber Torres [PITCHER] Corbin Burnes" +
	" [FIELDERS] Gunnar Henderson, Ryan O'Hearn" +
	" [MOVEMENTS] Gleyber Torres home -> 1, Juan Soto 1 -> 2 "

func feed(t *testing.T, p *Parser, s string) {
	t.Helper()
	if err := p.Feed(s); err != nil {
		t.Fatalf("feed %q: %v", s, err)
	}
}

func TestParseGamePK(t *testing.T) {
	p := New(false)
	feed(t, p, "[GAME] 766493 ")
	pk, ok := p.Builder().GamePK()
	if !ok || pk != 766493 {
		t.Fatalf("game pk = %d, %v", pk, ok)
	}
}

func TestParseDate(t *testing.T) {
	p := New(false)
	feed(t, p, "[GAME] 766493 [DATE] 2024-03-24")
	if got := p.Builder().Date(); got != "2024-03-24" {
		t.Fatalf("date = %q", got)
	}
}

func TestPartialInputIsOK(t *testing.T) {
	p := New(false)
	feed(t, p, "[GAM")
	if _, ok := p.Builder().GamePK(); ok {
		t.Fatal("game pk committed from a partial tag")
	}
	feed(t, p, "E] 766493")
	// trailing digits may still extend; nothing committed yet
	if _, ok := p.Builder().GamePK(); ok {
		t.Fatal("game pk committed before a terminator")
	}
	if p.Pending() != "[GAME] 766493" {
		t.Fatalf("pending = %q", p.Pending())
	}
	feed(t, p, " ")
	if pk, ok := p.Builder().GamePK(); !ok || pk != 766493 {
		t.Fatalf("game pk = %d, %v", pk, ok)
	}
}

func TestParseEntireContextSection(t *testing.T) {
	p := New(false)
	feed(t, p, "[GAME] 766493 [DATE] 2024-03-28 [VENUE] Yankee Stadium [WEATHER] Sunny 74 11 ")
	b := p.Builder()
	if got := b.Date(); got != "2024-03-28" {
		t.Errorf("date = %q", got)
	}
	if got := b.Venue(); got != "Yankee Stadium" {
		t.Errorf("venue = %q", got)
	}
	w, ok := b.WeatherSoFar()
	if !ok {
		t.Fatal("weather not committed")
	}
	if w.Condition != "Sunny" || w.Temperature != 74 || w.WindSpeed != 11 {
		t.Errorf("weather = %+v", w)
	}
}

func TestParseTeams(t *testing.T) {
	p := New(false)
	feed(t, p, header)
	home, ok := p.Builder().HomeTeamSoFar()
	if !ok {
		t.Fatal("home team not committed")
	}
	if home.ID != 147 || len(home.Players) != 3 {
		t.Fatalf("home = %+v", home)
	}
	if home.Players[0].Position != game.Catcher || home.Players[0].Name != "Austin Wells" {
		t.Errorf("home players[0] = %+v", home.Players[0])
	}
	away, ok := p.Builder().AwayTeamSoFar()
	if !ok {
		t.Fatal("away team not committed")
	}
	if away.ID != 110 || len(away.Players) != 2 {
		t.Fatalf("away = %+v", away)
	}
	if away.Players[1].Name != "Ryan O'Hearn" {
		t.Errorf("away players[1] = %+v", away.Players[1])
	}
}

func TestParseSimplePlay(t *testing.T) {
	p := New(false)
	feed(t, p, header+simplePlay+"[GAME_END]")
	if !p.Finished() {
		t.Fatal("not finished")
	}
	g, err := p.Complete()
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(g.Plays) != 1 {
		t.Fatalf("plays = %d", len(g.Plays))
	}
	play := g.Plays[0]
	if play.Type != game.Lineout || play.Batter != "Anthony Volpe" || play.Pitcher != "Corbin Burnes" {
		t.Errorf("play = %+v", play)
	}
	if len(play.Movements) != 1 {
		t.Fatalf("movements = %d", len(play.Movements))
	}
	m := play.Movements[0]
	if m.Runner != "Anthony Volpe" || m.From != game.Home || m.To != game.Home || !m.Out {
		t.Errorf("movement = %+v", m)
	}
}

func TestParseComplexPlay(t *testing.T) {
	p := New(false)
	feed(t, p, header+complexPlay+"[GAME_END]")
	g, err := p.Complete()
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	play := g.Plays[0]
	if len(play.Fielders) != 2 || play.Fielders[1] != "Ryan O'Hearn" {
		t.Errorf("fielders = %v", play.Fielders)
	}
	if len(play.Movements) != 2 {
		t.Fatalf("movements = %d", len(play.Movements))
	}
	if m := play.Movements[1]; m.Runner != "Juan Soto" || m.From != game.First || m.To != game.Second || m.Out {
		t.Errorf("movement = %+v", m)
	}
}

func TestParseFullGameCharByChar(t *testing.T) {
	base := game.Home
	want := &game.Game{
		Context: game.Context{
			GamePK: 766493,
			Date:   "2024-03-28",
			Venue:  "Yankee Stadium",
			Weather: game.Weather{Condition: "Sunny", Temperature: 74, WindSpeed: 11},
		},
		HomeTeam: game.Team{ID: 147, Players: []game.Player{
			{Position: game.Catcher, Name: "Austin Wells"},
			{Position: game.Shortstop, Name: "Anthony Volpe"},
		}},
		AwayTeam: game.Team{ID: 110, Players: []game.Player{
			{Position: game.FirstBase, Name: "Ryan O'Hearn"},
		}},
		Plays: []game.Play{
			{
				Inning:   game.Inning{Number: 1, Half: game.Top},
				Type:     game.Groundout,
				Batter:   "Gleyber Torres",
				Pitcher:  "Corbin Burnes",
				Fielders: []string{"Gunnar Henderson"},
				Movements: []game.Movement{
					{Runner: "Gleyber Torres", From: game.Home, To: game.First, Out: true},
				},
			},
			{
				Inning: game.Inning{Number: 9, Half: game.Bottom},
				Type:   game.StolenBase,
				Base:   &base,
				Runner: "José Treviño",
				Movements: []game.Movement{
					{Runner: "José Treviño", From: game.Third, To: game.Home},
				},
			},
			{
				Inning: game.Inning{Number: 9, Half: game.Bottom},
				Type:   game.GameAdvisory,
			},
		},
	}
	text := want.Render()

	p := New(false)
	for _, r := range text {
		if err := p.Feed(string(r)); err != nil {
			t.Fatalf("feed %q: %v", r, err)
		}
	}
	if !p.Finished() {
		t.Fatal("not finished")
	}
	g, err := p.Complete()
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := g.Render(); got != text {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, text)
	}
}

func TestValidRegexAtStart(t *testing.T) {
	p := New(false)
	if got := p.ValidRegex(); got != `^\[GAME\] (?P<game_pk>\d+)` {
		t.Fatalf("valid regex = %q", got)
	}
}

func TestValidRegexAfterGameStart(t *testing.T) {
	p := New(false)
	feed(t, p, header)
	want := `^\[INNING\] (?P<number>\d+) (?P<half>top|bottom)`
	if got := p.ValidRegex(); got != want {
		t.Fatalf("valid regex = %q", got)
	}
	// after a full movement another ", "-separated movement, the next
	// inning, or the game end are all reachable
	feed(t, p, simplePlay)
	want = `^, |` + want + `|^\[GAME_END\]`
	if got := p.ValidRegex(); got != want {
		t.Fatalf("after a play: %q", got)
	}
}

func chars(rs []rune) string { return string(rs) }

func TestNextCharsHeader(t *testing.T) {
	p := New(false)
	if got := chars(p.NextChars()); got != "[" {
		t.Fatalf("at start: %q", got)
	}
	feed(t, p, "[")
	if got := chars(p.NextChars()); got != "G" {
		t.Fatalf("after [: %q", got)
	}
	feed(t, p, "GAME] ")
	if got := chars(p.NextChars()); got != "0123456789" {
		t.Fatalf("before pk: %q", got)
	}
	feed(t, p, "7")
	// more digits, or a space moving on to [DATE]
	if got := chars(p.NextChars()); got != " 0123456789" {
		t.Fatalf("inside pk: %q", got)
	}
}

func TestNextCharsOptionalOut(t *testing.T) {
	p := New(false)
	feed(t, p, header+"[INNING] 1 top [PLAY] Lineout [BATTER] Anthony Volpe"+
		" [PITCHER] Corbin Burnes [FIELDERS] Jordan Westburg"+
		" [MOVEMENTS] Anthony Volpe home -> home")
	got := chars(p.NextChars())
	// "," starts another movement, " " may precede [out] or the next tag
	if !strings.ContainsRune(got, ',') || !strings.ContainsRune(got, ' ') {
		t.Fatalf("after end base: %q", got)
	}
	feed(t, p, " [")
	got = chars(p.NextChars())
	for _, r := range "oIG" { // [out], [INNING], [GAME_END]
		if !strings.ContainsRune(got, r) {
			t.Fatalf("after tag open: %q lacks %q", got, r)
		}
	}
	feed(t, p, "out]")
	if len(p.Builder().Plays()) != 0 {
		t.Fatal("play finalized while [out] pending")
	}
	feed(t, p, " [GAME_END]")
	if !p.Finished() {
		t.Fatal("not finished")
	}
}

func TestNextCharsLongerAlternativeStaysOpen(t *testing.T) {
	p := New(false)
	feed(t, p, header+"[INNING] 1 top [PLAY] Pickoff ")
	got := chars(p.NextChars())
	// "Pickoff Error" / "Pickoff Caught Stealing" are still live, and a
	// plain Pickoff's [BASE] may follow the separator space.
	for _, r := range "EC[" {
		if !strings.ContainsRune(got, r) {
			t.Fatalf("after Pickoff: %q lacks %q", got, r)
		}
	}
}

func TestNextValidChars(t *testing.T) {
	got, err := NextValidChars("[GAME] 766", "")
	if err != nil {
		t.Fatalf("next valid chars: %v", err)
	}
	if chars(got) != " 0123456789" {
		t.Fatalf("got %q", chars(got))
	}
	if _, err := NextValidChars("[GAME] 766", `^\[DATE\]`); err == nil {
		t.Fatal("expected pattern mismatch error")
	}
}

func TestFeedRejectsInvalidInput(t *testing.T) {
	p := New(false)
	if err := p.Feed("[BOGUS]"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFeedRejectsInputAfterGameEnd(t *testing.T) {
	p := New(false)
	feed(t, p, header+simplePlay+"[GAME_END]")
	if err := p.Feed(" extra"); err == nil {
		t.Fatal("expected error after [GAME_END]")
	}
}

func TestCompleteBeforeGameEnd(t *testing.T) {
	p := New(false)
	feed(t, p, header)
	if _, err := p.Complete(); err == nil {
		t.Fatal("expected error before [GAME_END]")
	}
}
