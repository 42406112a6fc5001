// internal/gen/gen.go
//
// Responsibilities:
//   - CharDriver: grow a log one character at a time by asking the
//     parser which characters are currently valid and picking one at
//     random. Every prefix is parseable by construction.
//   - Builder: assemble a plausible game from the lexicon pools and the
//     per-play field requirements, then render it to log text.
//
// Both take an explicit seed so the daily game is reproducible.

package gen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dugout/playlog/internal/game"
	"github.com/dugout/playlog/internal/lexicon"
	"github.com/dugout/playlog/internal/parser"
)

// DefaultMaxSteps caps a character walk. A full nine-inning log runs a
// few thousand characters; the cap only exists to stop pathological
// name runs.
const DefaultMaxSteps = 200000

// CharDriver generates a log by random walk over parser.NextChars.
type CharDriver struct {
	rng      *rand.Rand
	maxSteps int
}

func NewCharDriver(seed int64, maxSteps int) *CharDriver {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &CharDriver{rng: rand.New(rand.NewSource(seed)), maxSteps: maxSteps}
}

// Generate walks the parser to [GAME_END] and returns the log plus the
// game it parsed into.
func (d *CharDriver) Generate() (string, *game.Game, error) {
	p := parser.New(false)
	var b strings.Builder
	for steps := 0; !p.Finished(); steps++ {
		if steps >= d.maxSteps {
			return "", nil, fmt.Errorf("gen: no game end after %d steps", d.maxSteps)
		}
		choices := p.NextChars()
		if len(choices) == 0 {
			return "", nil, fmt.Errorf("gen: dead end after %q", tail(b.String(), 24))
		}
		r := choices[d.rng.Intn(len(choices))]
		if err := p.Feed(string(r)); err != nil {
			return "", nil, fmt.Errorf("gen: feeding %q: %w", r, err)
		}
		b.WriteRune(r)
	}
	g, err := p.Complete()
	if err != nil {
		return "", nil, err
	}
	return b.String(), g, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// lineup is the batting-order position template for generated rosters.
var lineup = []game.Position{
	game.Catcher, game.FirstBase, game.SecondBase, game.ThirdBase,
	game.Shortstop, game.LeftField, game.CenterField, game.RightField,
	game.DesignatedHitter,
}

// Builder generates structured games from the lexicon pools.
type Builder struct {
	rng *rand.Rand
}

func NewBuilder(seed int64) (*Builder, error) {
	if err := lexicon.Init(); err != nil {
		return nil, err
	}
	return &Builder{rng: rand.New(rand.NewSource(seed))}, nil
}

// Game assembles a random but structurally complete game.
func (b *Builder) Game() *game.Game {
	names := b.roster(2 * len(lineup))
	home := b.team(names[:len(lineup)])
	away := b.team(names[len(lineup):])

	g := &game.Game{
		Context: game.Context{
			GamePK: 700000 + uint64(b.rng.Intn(100000)),
			Date:   b.date(),
			Venue:  b.pickFrom(lexicon.Venues()),
			Weather: game.Weather{
				Condition:   b.pickFrom(lexicon.Conditions()),
				Temperature: uint64(40 + b.rng.Intn(61)),
				WindSpeed:   uint64(b.rng.Intn(26)),
			},
		},
		HomeTeam: home,
		AwayTeam: away,
	}

	innings := 9
	for n := 1; n <= innings; n++ {
		for _, half := range []game.Half{game.Top, game.Bottom} {
			// the batting side's names appear in the play fields
			batting := away
			if half == game.Bottom {
				batting = home
			}
			fielding := home
			if half == game.Bottom {
				fielding = away
			}
			plays := 1 + b.rng.Intn(3)
			for i := 0; i < plays; i++ {
				g.Plays = append(g.Plays, b.play(game.Inning{Number: uint64(n), Half: half}, batting, fielding))
			}
		}
	}
	return g
}

// Log renders a generated game to canonical text.
func (b *Builder) Log() (string, *game.Game) {
	g := b.Game()
	return g.Render(), g
}

// play fills one play of a random type per its field requirements.
func (b *Builder) play(in game.Inning, batting, fielding game.Team) game.Play {
	types := game.PlayTypes()
	t := types[b.rng.Intn(len(types))]
	p := game.Play{Inning: in, Type: t}

	for _, f := range t.FieldOrder() {
		switch f {
		case game.FieldBase:
			base := b.base()
			p.Base = &base
		case game.FieldBatter:
			p.Batter = b.player(batting)
		case game.FieldPitcher:
			p.Pitcher = b.player(fielding)
		case game.FieldCatcher:
			p.Catcher = b.player(fielding)
		case game.FieldFielders:
			n := 1 + b.rng.Intn(2)
			for i := 0; i < n; i++ {
				p.Fielders = append(p.Fielders, b.player(fielding))
			}
		case game.FieldRunner:
			p.Runner = b.player(batting)
		case game.FieldScoringRunner:
			p.ScoringRunner = b.player(batting)
		}
	}

	if t == game.GameAdvisory {
		return p
	}
	moves := 1 + b.rng.Intn(2)
	for i := 0; i < moves; i++ {
		m := game.Movement{
			Runner: b.player(batting),
			From:   b.base(),
			To:     b.base(),
			Out:    b.rng.Intn(3) == 0,
		}
		p.Movements = append(p.Movements, m)
	}
	return p
}

// roster samples n distinct names, reusing the pool if it is small.
func (b *Builder) roster(n int) []string {
	pool := lexicon.Players()
	out := make([]string, 0, n)
	if len(pool) >= n {
		for _, i := range b.rng.Perm(len(pool))[:n] {
			out = append(out, pool[i])
		}
		return out
	}
	for i := 0; i < n; i++ {
		out = append(out, b.pickFrom(pool))
	}
	return out
}

func (b *Builder) team(names []string) game.Team {
	t := game.Team{ID: 100 + uint64(b.rng.Intn(60))}
	for i, name := range names {
		t.Players = append(t.Players, game.Player{Position: lineup[i%len(lineup)], Name: name})
	}
	return t
}

func (b *Builder) player(t game.Team) string {
	return t.Players[b.rng.Intn(len(t.Players))].Name
}

func (b *Builder) base() game.Base {
	return game.Base(b.rng.Intn(4))
}

func (b *Builder) date() string {
	start := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, b.rng.Intn(196)).Format("2006-01-02")
}

func (b *Builder) pickFrom(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[b.rng.Intn(len(list))]
}
