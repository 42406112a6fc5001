// internal/game/requires.go
//
// Field requirements per play type. Both the parser (to decide which
// section follows a [PLAY] heading) and the renderer/generator (to emit
// fields in the same order the parser expects) are driven by this table.

package game

// RequiresBase reports whether the play carries a [BASE] field.
func (t PlayType) RequiresBase() bool {
	switch t {
	case Pickoff, PickoffError, CaughtStealing, PickoffCaughtStealing, StolenBase:
		return true
	}
	return false
}

// RequiresBatter reports whether the play carries a [BATTER] field.
func (t PlayType) RequiresBatter() bool {
	switch t {
	case Groundout, BuntGroundout, Strikeout, Lineout, BuntLineout, Flyout,
		PopOut, BuntPopOut, Forceout, FieldersChoiceOut, DoublePlay,
		TriplePlay, RunnerDoublePlay, RunnerTriplePlay,
		GroundedIntoDoublePlay, StrikeoutDoublePlay, BatterOut, Single,
		DoubleHit, TripleHit, HomeRun, Walk, IntentWalk, HitByPitch,
		FieldersChoice, CatcherInterference, SacFly, SacFlyDoublePlay,
		SacBunt, SacBuntDoublePlay, FieldError:
		return true
	}
	return false
}

// RequiresPitcher reports whether the play carries a [PITCHER] field.
func (t PlayType) RequiresPitcher() bool {
	switch t {
	case Groundout, BuntGroundout, Strikeout, Lineout, BuntLineout, Flyout,
		PopOut, BuntPopOut, Forceout, FieldersChoiceOut, DoublePlay,
		TriplePlay, RunnerDoublePlay, RunnerTriplePlay,
		GroundedIntoDoublePlay, StrikeoutDoublePlay, WildPitch, Balk,
		PassedBall, ErrorPlay, Single, DoubleHit, TripleHit, HomeRun, Walk,
		IntentWalk, HitByPitch, FieldersChoice, CatcherInterference, SacFly,
		SacFlyDoublePlay, SacBunt, SacBuntDoublePlay, FieldError:
		return true
	}
	return false
}

// RequiresCatcher reports whether the play carries a [CATCHER] field.
func (t PlayType) RequiresCatcher() bool {
	switch t {
	case BatterOut, PassedBall, ErrorPlay:
		return true
	}
	return false
}

// RequiresFielders reports whether the play carries a [FIELDERS] list.
func (t PlayType) RequiresFielders() bool {
	switch t {
	case Groundout, BuntGroundout, Lineout, BuntLineout, Flyout, PopOut,
		BuntPopOut, Forceout, FieldersChoiceOut, DoublePlay, TriplePlay,
		RunnerDoublePlay, RunnerTriplePlay, GroundedIntoDoublePlay,
		StrikeoutDoublePlay, Pickoff, PickoffError, CaughtStealing,
		PickoffCaughtStealing, RunnerOut, FieldOut, FieldersChoice,
		CatcherInterference, SacFly, SacFlyDoublePlay, SacBunt,
		SacBuntDoublePlay, FieldError:
		return true
	}
	return false
}

// RequiresRunner reports whether the play carries a [RUNNER] field.
func (t PlayType) RequiresRunner() bool {
	switch t {
	case Pickoff, PickoffError, CaughtStealing, PickoffCaughtStealing,
		WildPitch, RunnerOut, FieldOut, StolenBase, SacBunt,
		SacBuntDoublePlay:
		return true
	}
	return false
}

// RequiresScoringRunner reports whether the play carries a [SCORING_RUNNER] field.
func (t PlayType) RequiresScoringRunner() bool {
	switch t {
	case FieldersChoiceOut, SacFly, SacFlyDoublePlay:
		return true
	}
	return false
}
