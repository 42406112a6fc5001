// internal/game/render.go
//
// Canonical log rendering. Render produces exactly the flat text the
// parser accepts, with single-space separators between sections. The
// field order after a [PLAY] heading is computed by FieldOrder, which
// the parser also uses to pick successor sections — keeping the two
// sides in lockstep.

package game

import (
	"fmt"
	"strings"
)

// Field names one slot of a play that may appear after the heading.
type Field int

const (
	FieldBase Field = iota
	FieldBatter
	FieldPitcher
	FieldCatcher
	FieldFielders
	FieldRunner
	FieldScoringRunner
)

// fieldStart is a sentinel for "just parsed the [PLAY] heading".
const fieldStart Field = -1

// fieldPriority gives, for the slot just filled, the order in which the
// remaining slots are considered.
var fieldPriority = map[Field][]Field{
	fieldStart:         {FieldBase, FieldBatter, FieldPitcher, FieldCatcher, FieldFielders, FieldRunner, FieldScoringRunner},
	FieldBase:          {FieldBatter, FieldPitcher, FieldCatcher, FieldRunner, FieldFielders, FieldScoringRunner},
	FieldBatter:        {FieldPitcher, FieldCatcher, FieldFielders, FieldRunner, FieldScoringRunner},
	FieldPitcher:       {FieldCatcher, FieldFielders, FieldRunner, FieldScoringRunner},
	FieldCatcher:       {FieldFielders, FieldRunner, FieldScoringRunner},
	FieldFielders:      {FieldScoringRunner, FieldRunner},
	FieldRunner:        {FieldScoringRunner, FieldFielders},
	FieldScoringRunner: {},
}

func (t PlayType) requiresField(f Field) bool {
	switch f {
	case FieldBase:
		return t.RequiresBase()
	case FieldBatter:
		return t.RequiresBatter()
	case FieldPitcher:
		return t.RequiresPitcher()
	case FieldCatcher:
		return t.RequiresCatcher()
	case FieldFielders:
		return t.RequiresFielders()
	case FieldRunner:
		return t.RequiresRunner()
	case FieldScoringRunner:
		return t.RequiresScoringRunner()
	}
	return false
}

// FieldOrder returns the slots of t in the order they appear in a log.
func (t PlayType) FieldOrder() []Field {
	var out []Field
	have := map[Field]bool{}
	last := fieldStart
	for {
		next := Field(-2)
		for _, f := range fieldPriority[last] {
			if t.requiresField(f) && !have[f] {
				next = f
				break
			}
		}
		if next == Field(-2) {
			return out
		}
		out = append(out, next)
		have[next] = true
		last = next
	}
}

// NextField returns the slot following last for t, or ok=false when the
// play moves on to its movements.
func (t PlayType) NextField(last Field, have map[Field]bool) (Field, bool) {
	for _, f := range fieldPriority[last] {
		if t.requiresField(f) && !have[f] {
			return f, true
		}
	}
	return 0, false
}

// String renders a movement as it appears inside a [MOVEMENTS] list.
func (m Movement) String() string {
	s := fmt.Sprintf("%s %s -> %s", m.Runner, m.From, m.To)
	if m.Out {
		s += " [out]"
	}
	return s
}

// renderPlay emits "[INNING] …" through the movements list for one play.
func renderPlay(b *strings.Builder, p Play) {
	fmt.Fprintf(b, "[INNING] %d %s [PLAY] %s", p.Inning.Number, p.Inning.Half, p.Type)
	for _, f := range p.Type.FieldOrder() {
		switch f {
		case FieldBase:
			base := Home
			if p.Base != nil {
				base = *p.Base
			}
			fmt.Fprintf(b, " [BASE] %s", base)
		case FieldBatter:
			fmt.Fprintf(b, " [BATTER] %s", p.Batter)
		case FieldPitcher:
			fmt.Fprintf(b, " [PITCHER] %s", p.Pitcher)
		case FieldCatcher:
			fmt.Fprintf(b, " [CATCHER] %s", p.Catcher)
		case FieldFielders:
			b.WriteString(" [FIELDERS] ")
			for i, f := range p.Fielders {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(f)
			}
		case FieldRunner:
			fmt.Fprintf(b, " [RUNNER] %s", p.Runner)
		case FieldScoringRunner:
			fmt.Fprintf(b, " [SCORING_RUNNER] %s", p.ScoringRunner)
		}
	}
	if p.Type == GameAdvisory {
		return
	}
	b.WriteString(" [MOVEMENTS] ")
	for i, m := range p.Movements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
}

// Render flattens the game back into canonical log text.
func (g *Game) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[GAME] %d [DATE] %s [VENUE] %s [WEATHER] %s %d %d",
		g.Context.GamePK, g.Context.Date, g.Context.Venue,
		g.Context.Weather.Condition, g.Context.Weather.Temperature,
		g.Context.Weather.WindSpeed)
	for _, team := range []Team{g.HomeTeam, g.AwayTeam} {
		fmt.Fprintf(&b, " [TEAM] %d", team.ID)
		for _, p := range team.Players {
			fmt.Fprintf(&b, " [%s] %s", p.Position, p.Name)
		}
	}
	b.WriteString(" [GAME_START]")
	for _, p := range g.Plays {
		b.WriteByte(' ')
		renderPlay(&b, p)
	}
	b.WriteString(" [GAME_END]")
	return b.String()
}
