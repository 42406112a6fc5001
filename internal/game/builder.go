// internal/game/builder.go
//
// Incremental builders filled in by the parser as sections complete.
// Each mirrors the shape of the section machine: MovementBuilder for
// one movement, PlayBuilder for one play, GameBuilder for the whole
// log. Build methods validate that everything a play type requires was
// actually seen and return explicit errors otherwise.

package game

import (
	"errors"
	"fmt"
)

// MovementBuilder accumulates one "runner from -> to [out]" entry.
type MovementBuilder struct {
	runner string
	from   *Base
	to     *Base
	out    bool
}

func (b *MovementBuilder) SetRunner(name string) { b.runner = name }
func (b *MovementBuilder) SetFrom(base Base) { v := base; b.from = &v }
func (b *MovementBuilder) SetTo(base Base) { v := base; b.to = &v }
func (b *MovementBuilder) SetOut() { b.out = true }

// Build validates and returns the movement, resetting nothing.
func (b *MovementBuilder) Build() (Movement, error) {
	if b.runner == "" {
		return Movement{}, errors.New("movement: runner not set")
	}
	if b.from == nil {
		return Movement{}, errors.New("movement: start base not set")
	}
	if b.to == nil {
		return Movement{}, errors.New("movement: end base not set")
	}
	return Movement{Runner: b.runner, From: *b.from, To: *b.to, Out: b.out}, nil
}

// PlayBuilder accumulates one play, movement by movement.
type PlayBuilder struct {
	inning        *Inning
	playType      *PlayType
	base          *Base
	batter        string
	pitcher       string
	catcher       string
	fielders      []string
	runner        string
	scoringRunner string

	Movement  MovementBuilder
	movements []Movement
}

func (b *PlayBuilder) SetInning(in Inning) { v := in; b.inning = &v }
func (b *PlayBuilder) SetType(t PlayType) { v := t; b.playType = &v }
func (b *PlayBuilder) SetBase(base Base) { v := base; b.base = &v }
func (b *PlayBuilder) SetBatter(name string) { b.batter = name }
func (b *PlayBuilder) SetPitcher(name string) { b.pitcher = name }
func (b *PlayBuilder) SetCatcher(name string) { b.catcher = name }
func (b *PlayBuilder) AddFielder(name string) { b.fielders = append(b.fielders, name) }
func (b *PlayBuilder) SetRunner(name string) { b.runner = name }
func (b *PlayBuilder) SetScoringRunner(name string) { b.scoringRunner = name }

// HaveFields reports which slots have been filled so far.
func (b *PlayBuilder) HaveFields() map[Field]bool {
	return map[Field]bool{
		FieldBase:          b.base != nil,
		FieldBatter:        b.batter != "",
		FieldPitcher:       b.pitcher != "",
		FieldCatcher:       b.catcher != "",
		FieldFielders:      len(b.fielders) > 0,
		FieldRunner:        b.runner != "",
		FieldScoringRunner: b.scoringRunner != "",
	}
}

// Type returns the play type seen so far, or ok=false before [PLAY].
func (b *PlayBuilder) Type() (PlayType, bool) {
	if b.playType == nil {
		return "", false
	}
	return *b.playType, true
}

// BuildMovement finalizes the in-progress movement and resets the
// movement builder for the next one.
func (b *PlayBuilder) BuildMovement() error {
	m, err := b.Movement.Build()
	if err != nil {
		return err
	}
	b.movements = append(b.movements, m)
	b.Movement = MovementBuilder{}
	return nil
}

// Build validates the play against the requirements of its type.
func (b *PlayBuilder) Build() (Play, error) {
	if b.inning == nil {
		return Play{}, errors.New("play: inning not set")
	}
	if b.playType == nil {
		return Play{}, errors.New("play: type not set")
	}
	t := *b.playType
	if t.RequiresBase() && b.base == nil {
		return Play{}, fmt.Errorf("play %s: base not set", t)
	}
	if t.RequiresBatter() && b.batter == "" {
		return Play{}, fmt.Errorf("play %s: batter not set", t)
	}
	if t.RequiresPitcher() && b.pitcher == "" {
		return Play{}, fmt.Errorf("play %s: pitcher not set", t)
	}
	if t.RequiresCatcher() && b.catcher == "" {
		return Play{}, fmt.Errorf("play %s: catcher not set", t)
	}
	if t.RequiresFielders() && len(b.fielders) == 0 {
		return Play{}, fmt.Errorf("play %s: fielders not set", t)
	}
	if t.RequiresRunner() && b.runner == "" {
		return Play{}, fmt.Errorf("play %s: runner not set", t)
	}
	if t.RequiresScoringRunner() && b.scoringRunner == "" {
		return Play{}, fmt.Errorf("play %s: scoring runner not set", t)
	}
	return Play{
		Inning:        *b.inning,
		Type:          t,
		Base:          b.base,
		Batter:        b.batter,
		Pitcher:       b.pitcher,
		Catcher:       b.catcher,
		Fielders:      b.fielders,
		Runner:        b.runner,
		ScoringRunner: b.scoringRunner,
		Movements:     b.movements,
	}, nil
}

// GameBuilder accumulates the whole game across sections.
type GameBuilder struct {
	gamePK      *uint64
	date        string
	venue       string
	weatherCond string
	weatherTemp *uint64
	weatherWind *uint64

	homeTeamID  *uint64
	homePlayers []Player

	awayTeamID  *uint64
	awayPlayers []Player

	Play  PlayBuilder
	plays []Play
}

func (b *GameBuilder) SetGamePK(pk uint64) { v := pk; b.gamePK = &v }
func (b *GameBuilder) SetDate(d string) { b.date = d }
func (b *GameBuilder) SetVenue(v string) { b.venue = v }

func (b *GameBuilder) SetWeather(cond string, temp, wind uint64) {
	b.weatherCond = cond
	t, w := temp, wind
	b.weatherTemp, b.weatherWind = &t, &w
}

func (b *GameBuilder) SetHomeTeamID(id uint64) { v := id; b.homeTeamID = &v }
func (b *GameBuilder) AddHomePlayer(p Player) { b.homePlayers = append(b.homePlayers, p) }
func (b *GameBuilder) SetAwayTeamID(id uint64) { v := id; b.awayTeamID = &v }
func (b *GameBuilder) AddAwayPlayer(p Player) { b.awayPlayers = append(b.awayPlayers, p) }

// GamePK reports the parsed game pk, if the header got that far.
func (b *GameBuilder) GamePK() (uint64, bool) {
	if b.gamePK == nil {
		return 0, false
	}
	return *b.gamePK, true
}

// Plays exposes the plays completed so far.
func (b *GameBuilder) Plays() []Play { return b.plays }

func (b *GameBuilder) Date() string  { return b.date }
func (b *GameBuilder) Venue() string { return b.venue }

// WeatherSoFar reports the parsed weather line, if complete.
func (b *GameBuilder) WeatherSoFar() (Weather, bool) {
	if b.weatherCond == "" || b.weatherTemp == nil || b.weatherWind == nil {
		return Weather{}, false
	}
	return Weather{Condition: b.weatherCond, Temperature: *b.weatherTemp, WindSpeed: *b.weatherWind}, true
}

// HomeTeamSoFar reports the home roster parsed so far.
func (b *GameBuilder) HomeTeamSoFar() (Team, bool) {
	if b.homeTeamID == nil {
		return Team{}, false
	}
	return Team{ID: *b.homeTeamID, Players: b.homePlayers}, true
}

// AwayTeamSoFar reports the away roster parsed so far.
func (b *GameBuilder) AwayTeamSoFar() (Team, bool) {
	if b.awayTeamID == nil {
		return Team{}, false
	}
	return Team{ID: *b.awayTeamID, Players: b.awayPlayers}, true
}

// BuildPlay finalizes the in-progress play and resets the play builder.
func (b *GameBuilder) BuildPlay() error {
	p, err := b.Play.Build()
	if err != nil {
		return err
	}
	b.plays = append(b.plays, p)
	b.Play = PlayBuilder{}
	return nil
}

// Build validates header and team completeness and returns the game.
func (b *GameBuilder) Build() (*Game, error) {
	switch {
	case b.gamePK == nil:
		return nil, errors.New("game: pk not set")
	case b.date == "":
		return nil, errors.New("game: date not set")
	case b.venue == "":
		return nil, errors.New("game: venue not set")
	case b.weatherCond == "" || b.weatherTemp == nil || b.weatherWind == nil:
		return nil, errors.New("game: weather not set")
	case b.homeTeamID == nil:
		return nil, errors.New("game: home team not set")
	case b.awayTeamID == nil:
		return nil, errors.New("game: away team not set")
	}
	return &Game{
		Context: Context{
			GamePK: *b.gamePK,
			Date:   b.date,
			Venue:  b.venue,
			Weather: Weather{
				Condition:   b.weatherCond,
				Temperature: *b.weatherTemp,
				WindSpeed:   *b.weatherWind,
			},
		},
		HomeTeam: Team{ID: *b.homeTeamID, Players: b.homePlayers},
		AwayTeam: Team{ID: *b.awayTeamID, Players: b.awayPlayers},
		Plays:    b.plays,
	}, nil
}
