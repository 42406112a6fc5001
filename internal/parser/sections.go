// internal/parser/sections.go
//
// The section table. A game log is a flat sequence of bracket-tagged
// sections; at any moment the parser holds the set of sections that may
// legally come next. Each concrete section carries an incremental
// pattern for prefix matching plus an anchored regexp used to pull the
// named captures out of a decided span. MovementDone and PlayDone are
// synthetic: they consume nothing and only finalize a builder.

package parser

import (
	"regexp"
	"strings"

	"github.com/dugout/playlog/internal/game"
)

type section int

const (
	secCtxGame section = iota
	secCtxDate
	secCtxVenue
	secCtxWeather
	secHomeTeam
	secHomePlayer
	secAwayTeam
	secAwayPlayer
	secGameStart
	secInning
	secPlay
	secBase
	secBatter
	secPitcher
	secCatcher
	secFieldersTag
	secFielderName
	secFielderComma
	secRunner
	secScoringRunner
	secMovementsTag
	secMovementName
	secMoveStartBase
	secMoveArrow
	secMoveEndBase
	secMoveOut
	secMoveComma
	secMovementDone
	secPlayDone
	secGameEnd
)

// secDef describes one section kind.
type secDef struct {
	name string
	pat  *pattern       // nil for the synthetic finalizer sections
	re   *regexp.Regexp // capture extraction over a decided span
	// attached sections glue onto the previous token without a space
	// separator (the ", " list delimiters).
	attached bool
}

const (
	nameCharRE = `[a-zA-ZÀ-ÖØ-öø-ÿ.' ]`
	wordCharRE = `[a-zA-ZÀ-ÖØ-öø-ÿ ]`
)

func positionStrings() []string {
	ps := game.Positions()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

// playTypeStrings is sorted longest first so that regexp alternation
// prefers "Double Play" over "Double".
func playTypeStrings() []string {
	ts := game.PlayTypes()
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

func altSource(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = regexp.QuoteMeta(o)
	}
	return strings.Join(quoted, "|")
}

var secDefs = map[section]*secDef{
	secCtxGame: {
		name: "game pk",
		pat:  seq(lit("[GAME] "), cls(digitClass)),
		re:   regexp.MustCompile(`^\[GAME\] (?P<game_pk>\d+)`),
	},
	secCtxDate: {
		name: "date",
		pat: seq(lit("[DATE] "), clsN(digitClass, 4), lit("-"),
			clsN(digitClass, 2), lit("-"), clsN(digitClass, 2)),
		re: regexp.MustCompile(`^\[DATE\] (?P<date>\d{4}-\d{2}-\d{2})`),
	},
	secCtxVenue: {
		name: "venue",
		pat:  seq(lit("[VENUE] "), cls(wordClass)),
		re:   regexp.MustCompile(`^\[VENUE\] (?P<venue>` + wordCharRE + `+)`),
	},
	secCtxWeather: {
		name: "weather",
		pat:  seq(lit("[WEATHER] "), cls(wordClass), cls(digitClass), lit(" "), cls(digitClass)),
		re: regexp.MustCompile(`^\[WEATHER\] (?P<weather>` + wordCharRE +
			`+) (?P<temperature>\d+) (?P<wind_speed>\d+)`),
	},
	secHomeTeam: {
		name: "home team",
		pat:  seq(lit("[TEAM] "), cls(digitClass)),
		re:   regexp.MustCompile(`^\[TEAM\] (?P<team_id>\d+)`),
	},
	secHomePlayer: {
		name: "home player",
		pat:  seq(lit("["), alt(positionStrings()...), lit("] "), cls(nameClass)),
		re: regexp.MustCompile(`^\[(?P<position>` + altSource(positionStrings()) +
			`)\] (?P<player_name>` + nameCharRE + `+)`),
	},
	secAwayTeam: {
		name: "away team",
		pat:  seq(lit("[TEAM] "), cls(digitClass)),
		re:   regexp.MustCompile(`^\[TEAM\] (?P<team_id>\d+)`),
	},
	secAwayPlayer: {
		name: "away player",
		pat:  seq(lit("["), alt(positionStrings()...), lit("] "), cls(nameClass)),
		re: regexp.MustCompile(`^\[(?P<position>` + altSource(positionStrings()) +
			`)\] (?P<player_name>` + nameCharRE + `+)`),
	},
	secGameStart: {
		name: "game start",
		pat:  seq(lit("[GAME_START]")),
		re:   regexp.MustCompile(`^\[GAME_START\]`),
	},
	secInning: {
		name: "inning",
		pat:  seq(lit("[INNING] "), cls(digitClass), lit(" "), alt("top", "bottom")),
		re:   regexp.MustCompile(`^\[INNING\] (?P<number>\d+) (?P<half>top|bottom)`),
	},
	secPlay: {
		name: "play",
		pat:  seq(lit("[PLAY] "), alt(playTypeStrings()...)),
		re:   regexp.MustCompile(`^\[PLAY\] (?P<play_type>` + altSource(playTypeStrings()) + `)`),
	},
	secBase: {
		name: "base",
		pat:  seq(lit("[BASE] "), alt(game.BaseNames()...)),
		re:   regexp.MustCompile(`^\[BASE\] (?P<base>1|2|3|4|home)`),
	},
	secBatter: {
		name: "batter",
		pat:  seq(lit("[BATTER] "), cls(nameClass)),
		re:   regexp.MustCompile(`^\[BATTER\] (?P<name>` + nameCharRE + `+)`),
	},
	secPitcher: {
		name: "pitcher",
		pat:  seq(lit("[PITCHER] "), cls(nameClass)),
		re:   regexp.MustCompile(`^\[PITCHER\] (?P<name>` + nameCharRE + `+)`),
	},
	secCatcher: {
		name: "catcher",
		pat:  seq(lit("[CATCHER] "), cls(nameClass)),
		re:   regexp.MustCompile(`^\[CATCHER\] (?P<name>` + nameCharRE + `+)`),
	},
	secFieldersTag: {
		name: "fielders",
		pat:  seq(lit("[FIELDERS]")),
		re:   regexp.MustCompile(`^\[FIELDERS\]`),
	},
	secFielderName: {
		name: "fielder name",
		pat:  seq(cls(nameClass)),
		re:   regexp.MustCompile(`^(?P<name>` + nameCharRE + `+)`),
	},
	secFielderComma: {
		name:     "fielder separator",
		pat:      seq(lit(", ")),
		re:       regexp.MustCompile(`^, `),
		attached: true,
	},
	secRunner: {
		name: "runner",
		pat:  seq(lit("[RUNNER] "), cls(nameClass)),
		re:   regexp.MustCompile(`^\[RUNNER\] (?P<name>` + nameCharRE + `+)`),
	},
	secScoringRunner: {
		name: "scoring runner",
		pat:  seq(lit("[SCORING_RUNNER] "), cls(nameClass)),
		re:   regexp.MustCompile(`^\[SCORING_RUNNER\] (?P<name>` + nameCharRE + `+)`),
	},
	secMovementsTag: {
		name: "movements",
		pat:  seq(lit("[MOVEMENTS]")),
		re:   regexp.MustCompile(`^\[MOVEMENTS\]`),
	},
	secMovementName: {
		name: "movement runner",
		pat:  seq(cls(nameClass)),
		re:   regexp.MustCompile(`^(?P<name>` + nameCharRE + `+)`),
	},
	secMoveStartBase: {
		name: "movement start base",
		pat:  seq(alt(game.BaseNames()...)),
		re:   regexp.MustCompile(`^(?P<base>1|2|3|4|home)`),
	},
	secMoveArrow: {
		name: "movement arrow",
		pat:  seq(lit("->")),
		re:   regexp.MustCompile(`^->`),
	},
	secMoveEndBase: {
		name: "movement end base",
		pat:  seq(alt(game.BaseNames()...)),
		re:   regexp.MustCompile(`^(?P<base>1|2|3|4|home)`),
	},
	secMoveOut: {
		name: "movement out",
		pat:  seq(lit("[out]")),
		re:   regexp.MustCompile(`^\[out\]`),
	},
	secMoveComma: {
		name:     "movement separator",
		pat:      seq(lit(", ")),
		re:       regexp.MustCompile(`^, `),
		attached: true,
	},
	secMovementDone: {name: "movement end"},
	secPlayDone:     {name: "play end"},
	secGameEnd: {
		name: "game end",
		pat:  seq(lit("[GAME_END]")),
		re:   regexp.MustCompile(`^\[GAME_END\]`),
	},
}

// fieldSection maps a play slot to the section that parses it.
var fieldSection = map[game.Field]section{
	game.FieldBase:          secBase,
	game.FieldBatter:        secBatter,
	game.FieldPitcher:       secPitcher,
	game.FieldCatcher:       secCatcher,
	game.FieldFielders:      secFieldersTag,
	game.FieldRunner:        secRunner,
	game.FieldScoringRunner: secScoringRunner,
}

// capture pulls a named group out of a decided span.
func capture(re *regexp.Regexp, span, group string) string {
	m := re.FindStringSubmatch(span)
	if m == nil {
		return ""
	}
	idx := re.SubexpIndex(group)
	if idx < 0 || idx >= len(m) {
		return ""
	}
	return m[idx]
}
