// internal/game/enums.go
//
// Enumerated vocabulary of the play-by-play log format.
// Defines:
//   - Position: fielding/roster positions as they appear in [POSITION] tags.
//   - PlayType: every play heading that can follow a [PLAY] tag.
//   - Base: the four bases ("1", "2", "3", "home"; "4" parses as home).
//   - Half: top/bottom of an inning.
//
// Every enum round-trips through String()/Parse*() — the parser matches
// the rendered forms, and the renderer emits them.

package game

import (
	"fmt"
	"sort"
)

// Position is a roster position tag (without brackets), e.g. "SECOND_BASE".
type Position string

const (
	Pitcher          Position = "PITCHER"
	Catcher          Position = "CATCHER"
	FirstBase        Position = "FIRST_BASE"
	SecondBase       Position = "SECOND_BASE"
	ThirdBase        Position = "THIRD_BASE"
	Shortstop        Position = "SHORTSTOP"
	LeftField        Position = "LEFT_FIELD"
	CenterField      Position = "CENTER_FIELD"
	RightField       Position = "RIGHT_FIELD"
	DesignatedHitter Position = "DESIGNATED_HITTER"
	PinchHitter      Position = "PINCH_HITTER"
	PinchRunner      Position = "PINCH_RUNNER"
	TwoWayPlayer     Position = "TWO_WAY_PLAYER"
	Outfield         Position = "OUTFIELD"
	Infield          Position = "INFIELD"
	Utility          Position = "UTILITY"
	ReliefPitcher    Position = "RELIEF_PITCHER"
	StartingPitcher  Position = "STARTING_PITCHER"
)

// Positions lists every valid position tag.
func Positions() []Position {
	return []Position{
		Pitcher, Catcher, FirstBase, SecondBase, ThirdBase, Shortstop,
		LeftField, CenterField, RightField, DesignatedHitter, PinchHitter,
		PinchRunner, TwoWayPlayer, Outfield, Infield, Utility,
		ReliefPitcher, StartingPitcher,
	}
}

func (p Position) String() string { return string(p) }

// ParsePosition validates a position tag.
func ParsePosition(s string) (Position, error) {
	for _, p := range Positions() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid position: %q", s)
}

// PlayType is the heading after a [PLAY] tag, e.g. "Grounded Into Double Play".
type PlayType string

const (
	Groundout              PlayType = "Groundout"
	BuntGroundout          PlayType = "Bunt Groundout"
	Strikeout              PlayType = "Strikeout"
	Lineout                PlayType = "Lineout"
	BuntLineout            PlayType = "Bunt Lineout"
	Flyout                 PlayType = "Flyout"
	PopOut                 PlayType = "Pop Out"
	BuntPopOut             PlayType = "Bunt Pop Out"
	Forceout               PlayType = "Forceout"
	FieldersChoiceOut      PlayType = "Fielders Choice Out"
	DoublePlay             PlayType = "Double Play"
	TriplePlay             PlayType = "Triple Play"
	RunnerDoublePlay       PlayType = "Runner Double Play"
	RunnerTriplePlay       PlayType = "Runner Triple Play"
	GroundedIntoDoublePlay PlayType = "Grounded Into Double Play"
	StrikeoutDoublePlay    PlayType = "Strikeout Double Play"
	Pickoff                PlayType = "Pickoff"
	PickoffError           PlayType = "Pickoff Error"
	CaughtStealing         PlayType = "Caught Stealing"
	PickoffCaughtStealing  PlayType = "Pickoff Caught Stealing"
	WildPitch              PlayType = "Wild Pitch"
	RunnerOut              PlayType = "Runner Out"
	FieldOut               PlayType = "Field Out"
	BatterOut              PlayType = "Batter Out"
	Balk                   PlayType = "Balk"
	PassedBall             PlayType = "Passed Ball"
	ErrorPlay              PlayType = "Error"
	Single                 PlayType = "Single"
	DoubleHit              PlayType = "Double"
	TripleHit              PlayType = "Triple"
	HomeRun                PlayType = "Home Run"
	Walk                   PlayType = "Walk"
	IntentWalk             PlayType = "Intent Walk"
	HitByPitch             PlayType = "Hit By Pitch"
	FieldersChoice         PlayType = "Fielders Choice"
	CatcherInterference    PlayType = "Catcher Interference"
	StolenBase             PlayType = "Stolen Base"
	SacFly                 PlayType = "Sac Fly"
	SacFlyDoublePlay       PlayType = "Sac Fly Double Play"
	SacBunt                PlayType = "Sac Bunt"
	SacBuntDoublePlay      PlayType = "Sac Bunt Double Play"
	FieldError             PlayType = "Field Error"
	GameAdvisory           PlayType = "Game Advisory"
)

// PlayTypes lists every play heading, longest first so that alternation
// matching prefers "Double Play" over "Double".
func PlayTypes() []PlayType {
	out := []PlayType{
		Groundout, BuntGroundout, Strikeout, Lineout, BuntLineout, Flyout,
		PopOut, BuntPopOut, Forceout, FieldersChoiceOut, DoublePlay,
		TriplePlay, RunnerDoublePlay, RunnerTriplePlay,
		GroundedIntoDoublePlay, StrikeoutDoublePlay, Pickoff, PickoffError,
		CaughtStealing, PickoffCaughtStealing, WildPitch, RunnerOut,
		FieldOut, BatterOut, Balk, PassedBall, ErrorPlay, Single, DoubleHit,
		TripleHit, HomeRun, Walk, IntentWalk, HitByPitch, FieldersChoice,
		CatcherInterference, StolenBase, SacFly, SacFlyDoublePlay, SacBunt,
		SacBuntDoublePlay, FieldError, GameAdvisory,
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func (t PlayType) String() string { return string(t) }

// ParsePlayType validates a play heading.
func ParsePlayType(s string) (PlayType, error) {
	for _, t := range PlayTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid play type: %q", s)
}

// ---------------------------------------------------------------------------

// Base identifies one of the four bases. Home renders as "home" and also
// parses from "4" (both appear in source feeds).
type Base int

const (
	Home Base = iota
	First
	Second
	Third
)

// BaseNames lists the token spellings accepted for a base.
func BaseNames() []string { return []string{"1", "2", "3", "4", "home"} }

func (b Base) String() string {
	switch b {
	case First:
		return "1"
	case Second:
		return "2"
	case Third:
		return "3"
	default:
		return "home"
	}
}

// ParseBase maps a base token to a Base.
func ParseBase(s string) (Base, error) {
	switch s {
	case "1":
		return First, nil
	case "2":
		return Second, nil
	case "3":
		return Third, nil
	case "4", "home":
		return Home, nil
	}
	return Home, fmt.Errorf("invalid base: %q", s)
}

// MarshalText/UnmarshalText make Base render as its token in JSON.
func (b Base) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Base) UnmarshalText(text []byte) error {
	v, err := ParseBase(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ---------------------------------------------------------------------------

// Half is the top or bottom of an inning.
type Half string

const (
	Top    Half = "top"
	Bottom Half = "bottom"
)

func (h Half) String() string { return string(h) }

// ParseHalf validates an inning half token.
func ParseHalf(s string) (Half, error) {
	switch s {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	}
	return "", fmt.Errorf("invalid inning half: %q", s)
}
