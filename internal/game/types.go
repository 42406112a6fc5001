// internal/game/types.go
//
// Core type definitions for a parsed play-by-play game log.
// Defines:
//   - Weather/Context: the [GAME]/[DATE]/[VENUE]/[WEATHER] header block.
//   - Player/Team: roster entries from the two [TEAM] blocks.
//   - Inning, Movement, Play: one scoring event and its base running.
//   - Game: the fully assembled record.
//
// Rendering back to canonical log text lives in render.go; the parser
// consumes exactly what Render emits (round-trip law).

package game

// Weather is the stadium conditions line of the header.
type Weather struct {
	Condition   string `json:"condition"`   // e.g. "Sunny"
	Temperature uint64 `json:"temperature"` // degrees F
	WindSpeed   uint64 `json:"windSpeed"`   // mph
}

// Context is the game header: identity, date, venue, weather.
type Context struct {
	GamePK  uint64  `json:"gamePk"` // MLB game primary key
	Date    string  `json:"date"`   // YYYY-MM-DD
	Venue   string  `json:"venue"`
	Weather Weather `json:"weather"`
}

// Player is a single roster entry.
type Player struct {
	Position Position `json:"position"`
	Name     string   `json:"name"`
}

// Team is a team id plus its listed players.
type Team struct {
	ID      uint64   `json:"id"`
	Players []Player `json:"players"`
}

// Inning identifies the inning number and half a play occurred in.
type Inning struct {
	Number uint64 `json:"number"`
	Half   Half   `json:"half"`
}

// Movement records one runner's base advance within a play.
// "home -> home [out]" encodes a batter retired at the plate.
type Movement struct {
	Runner string `json:"runner"`
	From   Base   `json:"from"`
	To     Base   `json:"to"`
	Out    bool   `json:"out,omitempty"`
}

// Play is one scoring event. Which fields are populated depends on
// Type (see requires.go); absent string fields are empty, an absent
// base is a nil pointer.
type Play struct {
	Inning        Inning     `json:"inning"`
	Type          PlayType   `json:"type"`
	Base          *Base      `json:"base,omitempty"`
	Batter        string     `json:"batter,omitempty"`
	Pitcher       string     `json:"pitcher,omitempty"`
	Catcher       string     `json:"catcher,omitempty"`
	Fielders      []string   `json:"fielders,omitempty"`
	Runner        string     `json:"runner,omitempty"`
	ScoringRunner string     `json:"scoringRunner,omitempty"`
	Movements     []Movement `json:"movements"`
}

// Game is a complete parsed game log.
type Game struct {
	Context  Context `json:"context"`
	HomeTeam Team    `json:"homeTeam"`
	AwayTeam Team    `json:"awayTeam"`
	Plays    []Play  `json:"plays"`
}
