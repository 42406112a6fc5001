// internal/parser/parser.go
//
// Responsibilities:
// - Consume play-by-play log text incrementally, down to one character
//   per call, and accumulate a game through the builders in
//   internal/game.
// - Only consume input it can prove complete: a section whose tail is a
//   greedy run (names, numbers) is committed once a character arrives
//   that the run cannot absorb.
// - Report the alternation of patterns that may come next (ValidRegex)
//   and the exact characters that keep the buffer valid (NextChars),
//   which is what random generation drives on.

package parser

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dugout/playlog/internal/game"
)

// Parser is an incremental play-by-play log parser. It is not safe for
// concurrent use; wrap it in a session store if shared.
type Parser struct {
	buffer   string
	possible []section
	builder  *game.GameBuilder
	finished bool
	consumed bool // any input committed yet
	log      zerolog.Logger
}

// New returns a parser positioned before the [GAME] header. With debug
// set, every committed section is traced to stderr.
func New(debug bool) *Parser {
	logger := zerolog.Nop()
	if debug {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Str("component", "parser").Logger()
	}
	return &Parser{
		possible: []section{secCtxGame},
		builder:  &game.GameBuilder{},
		log:      logger,
	}
}

// Finished reports whether [GAME_END] has been consumed.
func (p *Parser) Finished() bool { return p.finished }

// Pending returns input received but not yet committed to a section.
func (p *Parser) Pending() string { return p.buffer }

// Builder exposes the partially accumulated game.
func (p *Parser) Builder() *game.GameBuilder { return p.builder }

// Complete finalizes the game. It fails before [GAME_END].
func (p *Parser) Complete() (*game.Game, error) {
	if !p.finished {
		return nil, fmt.Errorf("game not finished; expecting %s", p.expecting())
	}
	return p.builder.Build()
}

// Feed appends chunk to the buffer and commits as many sections as the
// input proves complete. Partial input is never an error; input that no
// candidate section can ever match is.
func (p *Parser) Feed(chunk string) error {
	p.buffer += chunk
	for {
		if p.finished {
			if strings.TrimSpace(p.buffer) != "" {
				return fmt.Errorf("unexpected input after [GAME_END]: %q", strings.TrimSpace(p.buffer))
			}
			return nil
		}
		view := strings.TrimLeft(p.buffer, " \t\r\n")

		committed := false
		viable := false
		for _, sec := range p.possible {
			def := secDefs[sec]
			if def.pat == nil {
				continue
			}
			a := def.pat.analyze(view)
			switch a.status {
			case statusClosed:
				span := view[:a.n]
				apply, next, err := p.resolve(sec, span)
				if err != nil {
					return err
				}
				if err := apply(); err != nil {
					return err
				}
				p.log.Debug().Str("section", def.name).Str("span", span).Msg("consumed")
				p.buffer = view[a.n:]
				p.possible = next
				p.consumed = true
				committed = true
			case statusPartial:
				viable = true
			}
			if committed {
				break
			}
		}
		if committed {
			continue
		}
		if viable {
			return nil // need more input
		}

		// Every concrete candidate is ruled out; a finalizer section,
		// if present, fires now. This is what lets an optional [out]
		// stay available until the following character excludes it.
		finalized := false
		for _, sec := range p.possible {
			if secDefs[sec].pat != nil {
				continue
			}
			apply, next, err := p.resolve(sec, "")
			if err != nil {
				return err
			}
			if err := apply(); err != nil {
				return err
			}
			p.log.Debug().Str("section", secDefs[sec].name).Msg("finalized")
			p.possible = next
			finalized = true
			break
		}
		if finalized {
			continue
		}
		if view == "" {
			return nil
		}
		return fmt.Errorf("invalid input %q; expecting %s", truncate(view, 24), p.expecting())
	}
}

// ValidRegex returns the alternation of anchored patterns acceptable at
// the current position.
func (p *Parser) ValidRegex() string {
	var srcs []string
	seen := map[string]bool{}
	var walk func(possible []section, depth int)
	walk = func(possible []section, depth int) {
		if depth > 8 {
			return
		}
		for _, sec := range possible {
			def := secDefs[sec]
			if def.re == nil {
				if _, next, err := p.resolve(sec, ""); err == nil {
					walk(next, depth+1)
				}
				continue
			}
			src := def.re.String()
			if !seen[src] {
				seen[src] = true
				srcs = append(srcs, src)
			}
		}
	}
	walk(p.possible, 0)
	return strings.Join(srcs, "|")
}

// NextChars returns every character that keeps the accumulated input
// parseable, sorted. Characters for greedy runs come from a fixed
// generation alphabet rather than the full character classes.
func (p *Parser) NextChars() []rune {
	set := map[rune]bool{}
	if !p.finished {
		view := strings.TrimLeft(p.buffer, " \t\r\n")
		pendingWS := view == "" && p.buffer != ""
		p.collectNext(p.possible, view, pendingWS, set, 0)
	}
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// collectNext gathers next characters for a candidate set. At a section
// boundary a single space is offered before tag-like sections so that
// generated logs come out space separated; attached sections (the ", "
// delimiters) glue straight onto the previous token instead.
func (p *Parser) collectNext(possible []section, view string, pendingWS bool, set map[rune]bool, depth int) {
	if depth > 8 {
		return
	}
	for _, sec := range possible {
		def := secDefs[sec]
		if def.pat == nil {
			if _, next, err := p.resolve(sec, ""); err == nil {
				p.collectNext(next, view, pendingWS, set, depth+1)
			}
			continue
		}
		if view == "" {
			switch {
			case def.attached:
				if !pendingWS {
					addRunes(set, def.pat.firstRunes())
				}
			case pendingWS || !p.consumed:
				addRunes(set, def.pat.firstRunes())
			default:
				set[' '] = true
			}
			continue
		}
		a := def.pat.analyze(view)
		if a.status != statusPartial {
			continue
		}
		addRunes(set, a.liveNext)
		if a.accept >= 0 {
			span, rem := view[:a.accept], view[a.accept:]
			if strings.TrimSpace(rem) != "" {
				continue
			}
			// The buffer already holds a full match (possibly plus a
			// separator); whatever may follow this section is also
			// fair game, even while a longer alternative stays live.
			if _, next, err := p.resolve(sec, span); err == nil {
				pend := rem != "" || strings.HasSuffix(span, " ")
				p.collectNext(next, "", pend, set, depth+1)
			}
		}
	}
}

func addRunes(set map[rune]bool, rs []rune) {
	for _, r := range rs {
		set[r] = true
	}
}

// resolve decides what committing span as sec would do: the builder
// mutation to apply and the candidate sections that follow. Callers
// probing ahead simply never invoke apply.
func (p *Parser) resolve(sec section, span string) (apply func() error, next []section, err error) {
	def := secDefs[sec]
	noop := func() error { return nil }
	b := p.builder

	switch sec {
	case secCtxGame:
		pk, err := strconv.ParseUint(capture(def.re, span, "game_pk"), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("game pk: %w", err)
		}
		return func() error { b.SetGamePK(pk); return nil }, []section{secCtxDate}, nil

	case secCtxDate:
		date := capture(def.re, span, "date")
		return func() error { b.SetDate(date); return nil }, []section{secCtxVenue}, nil

	case secCtxVenue:
		venue, err := nonEmpty("venue", capture(def.re, span, "venue"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.SetVenue(venue); return nil }, []section{secCtxWeather}, nil

	case secCtxWeather:
		cond, err := nonEmpty("weather", capture(def.re, span, "weather"))
		if err != nil {
			return nil, nil, err
		}
		temp, err := strconv.ParseUint(capture(def.re, span, "temperature"), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("temperature: %w", err)
		}
		wind, err := strconv.ParseUint(capture(def.re, span, "wind_speed"), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("wind speed: %w", err)
		}
		return func() error { b.SetWeather(cond, temp, wind); return nil }, []section{secHomeTeam}, nil

	case secHomeTeam, secAwayTeam:
		id, err := strconv.ParseUint(capture(def.re, span, "team_id"), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("team id: %w", err)
		}
		if sec == secHomeTeam {
			return func() error { b.SetHomeTeamID(id); return nil }, []section{secHomePlayer}, nil
		}
		return func() error { b.SetAwayTeamID(id); return nil }, []section{secAwayPlayer}, nil

	case secHomePlayer, secAwayPlayer:
		pos, err := game.ParsePosition(capture(def.re, span, "position"))
		if err != nil {
			return nil, nil, err
		}
		name, err := nonEmpty("player name", capture(def.re, span, "player_name"))
		if err != nil {
			return nil, nil, err
		}
		player := game.Player{Position: pos, Name: name}
		if sec == secHomePlayer {
			return func() error { b.AddHomePlayer(player); return nil },
				[]section{secHomePlayer, secAwayTeam}, nil
		}
		return func() error { b.AddAwayPlayer(player); return nil },
			[]section{secAwayPlayer, secGameStart}, nil

	case secGameStart:
		return noop, []section{secInning}, nil

	case secInning:
		num, err := strconv.ParseUint(capture(def.re, span, "number"), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("inning: %w", err)
		}
		half, err := game.ParseHalf(capture(def.re, span, "half"))
		if err != nil {
			return nil, nil, err
		}
		in := game.Inning{Number: num, Half: half}
		return func() error { b.Play.SetInning(in); return nil }, []section{secPlay}, nil

	case secPlay:
		t, err := game.ParsePlayType(capture(def.re, span, "play_type"))
		if err != nil {
			return nil, nil, err
		}
		if t == game.GameAdvisory {
			return func() error {
				b.Play.SetType(t)
				return b.BuildPlay()
			}, []section{secInning, secGameEnd}, nil
		}
		order := t.FieldOrder()
		next := []section{secMovementsTag}
		if len(order) > 0 {
			next = []section{fieldSection[order[0]]}
		}
		return func() error { b.Play.SetType(t); return nil }, next, nil

	case secBase:
		base, err := game.ParseBase(capture(def.re, span, "base"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.SetBase(base); return nil },
			p.afterField(game.FieldBase), nil

	case secBatter:
		name, err := nonEmpty("batter", capture(def.re, span, "name"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.SetBatter(name); return nil },
			p.afterField(game.FieldBatter), nil

	case secPitcher:
		name, err := nonEmpty("pitcher", capture(def.re, span, "name"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.SetPitcher(name); return nil },
			p.afterField(game.FieldPitcher), nil

	case secCatcher:
		name, err := nonEmpty("catcher", capture(def.re, span, "name"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.SetCatcher(name); return nil },
			p.afterField(game.FieldCatcher), nil

	case secFieldersTag:
		return noop, []section{secFielderName}, nil

	case secFielderName:
		name, err := nonEmpty("fielder", capture(def.re, span, "name"))
		if err != nil {
			return nil, nil, err
		}
		next := append([]section{secFielderComma}, p.afterField(game.FieldFielders)...)
		return func() error { b.Play.AddFielder(name); return nil }, next, nil

	case secFielderComma:
		return noop, []section{secFielderName}, nil

	case secRunner:
		name, err := nonEmpty("runner", capture(def.re, span, "name"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.SetRunner(name); return nil },
			p.afterField(game.FieldRunner), nil

	case secScoringRunner:
		name, err := nonEmpty("scoring runner", capture(def.re, span, "name"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.SetScoringRunner(name); return nil },
			p.afterField(game.FieldScoringRunner), nil

	case secMovementsTag:
		return noop, []section{secMovementName}, nil

	case secMovementName:
		runner, err := nonEmpty("movement runner", capture(def.re, span, "name"))
		if err != nil {
			return nil, nil, err
		}
		// A trailing standalone base word belongs to the movement, not
		// the name: "Anthony Volpe home -> ..." names Anthony Volpe.
		words := strings.Fields(runner)
		if len(words) > 1 {
			if base, err := game.ParseBase(words[len(words)-1]); err == nil {
				name := strings.Join(words[:len(words)-1], " ")
				return func() error {
					b.Play.Movement.SetRunner(name)
					b.Play.Movement.SetFrom(base)
					return nil
				}, []section{secMoveArrow}, nil
			}
		}
		return func() error { b.Play.Movement.SetRunner(runner); return nil },
			[]section{secMoveStartBase}, nil

	case secMoveStartBase:
		base, err := game.ParseBase(capture(def.re, span, "base"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.Movement.SetFrom(base); return nil },
			[]section{secMoveArrow}, nil

	case secMoveArrow:
		return noop, []section{secMoveEndBase}, nil

	case secMoveEndBase:
		base, err := game.ParseBase(capture(def.re, span, "base"))
		if err != nil {
			return nil, nil, err
		}
		return func() error { b.Play.Movement.SetTo(base); return nil },
			[]section{secMoveOut, secMovementDone}, nil

	case secMoveOut:
		return func() error { b.Play.Movement.SetOut(); return nil },
			[]section{secMovementDone}, nil

	case secMovementDone:
		return func() error { return b.Play.BuildMovement() },
			[]section{secMoveComma, secPlayDone}, nil

	case secMoveComma:
		return noop, []section{secMovementName}, nil

	case secPlayDone:
		return func() error { return b.BuildPlay() },
			[]section{secInning, secGameEnd}, nil

	case secGameEnd:
		return func() error { p.finished = true; return nil }, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown section %d", sec)
}

// afterField computes the candidate sections once slot f of the current
// play is filled, per the play type's slot order.
func (p *Parser) afterField(f game.Field) []section {
	t, ok := p.builder.Play.Type()
	if !ok {
		return []section{secMovementsTag}
	}
	have := p.builder.Play.HaveFields()
	have[f] = true
	if nf, ok := t.NextField(f, have); ok {
		return []section{fieldSection[nf]}
	}
	return []section{secMovementsTag}
}

func (p *Parser) expecting() string {
	var names []string
	for _, sec := range p.possible {
		names = append(names, secDefs[sec].name)
	}
	return strings.Join(names, " or ")
}

// nonEmpty trims a captured span and rejects all-whitespace values,
// which keeps generation from closing a name run before it has content.
func nonEmpty(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s: empty", field)
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// NextValidChars parses text from scratch and returns the characters
// that may follow it. The pattern argument, when non-empty, must match
// what the parser reports valid at that point.
func NextValidChars(text, pattern string) ([]rune, error) {
	p := New(false)
	if err := p.Feed(text); err != nil {
		return nil, err
	}
	if pattern != "" && pattern != p.ValidRegex() {
		return nil, fmt.Errorf("pattern does not match parser state")
	}
	return p.NextChars(), nil
}
