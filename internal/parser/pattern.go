// internal/parser/pattern.go
//
// Incremental pattern engine for the section parser.
// A pattern is a sequence of elements (literal, character class,
// literal alternation) that can be analyzed against a partial buffer:
//   - partial:  the buffer is a prefix of something the pattern matches.
//   - closed:   a definite match of n bytes; anything greedy in the
//               tail is proven terminated by a following character.
//   - noMatch:  no amount of further input can make this match.
// The analysis also reports which characters could come next, which is
// what drives random generation.
//
// Plain regexps can't answer "is this a valid prefix", so matching is
// done by simulating the element sequence NFA-style; named-group
// extraction on a decided span is still done with the stdlib regexp
// each section carries.

package parser

import "unicode/utf8"

// class is a single-character set with an enumerable generation sample.
type class struct {
	contains func(rune) bool
	sample   []rune
}

var digitClass = &class{
	contains: func(r rune) bool { return r >= '0' && r <= '9' },
	sample:   []rune("0123456789"),
}

// nameClass matches the player-name character set [a-zA-ZÀ-ÖØ-öø-ÿ.' ].
var nameClass = &class{
	contains: func(r rune) bool {
		return isLogLetter(r) || r == '.' || r == '\'' || r == ' '
	},
	sample: append([]rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ .'"), 'á', 'é', 'í', 'ó', 'ú', 'ñ'),
}

// wordClass matches venue and weather text [a-zA-ZÀ-ÖØ-öø-ÿ ].
var wordClass = &class{
	contains: func(r rune) bool { return isLogLetter(r) || r == ' ' },
	sample:   append([]rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ "), 'á', 'é', 'í', 'ó', 'ú', 'ñ'),
}

func isLogLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'À' && r <= 'Ö', r >= 'Ø' && r <= 'ö', r >= 'ø' && r <= 'ÿ':
		return true
	}
	return false
}

type elemKind int

const (
	elemLit elemKind = iota
	elemAlt
	elemClass
)

// elem is one step of a pattern.
type elem struct {
	kind elemKind
	lit  string   // elemLit
	alts []string // elemAlt
	cls  *class   // elemClass
	min  int      // elemClass: minimum count
	max  int      // elemClass: maximum count, 0 = unbounded
}

func lit(s string) elem         { return elem{kind: elemLit, lit: s} }
func alt(opts ...string) elem   { return elem{kind: elemAlt, alts: opts} }
func cls(c *class) elem         { return elem{kind: elemClass, cls: c, min: 1} }
func clsN(c *class, n int) elem { return elem{kind: elemClass, cls: c, min: n, max: n} }

// pattern is a mandatory sequence of elements.
type pattern struct {
	elems []elem
}

func seq(elems ...elem) *pattern { return &pattern{elems: elems} }

// state is one NFA configuration: position pos (bytes into a literal or
// alternative, or a repeat count for classes) inside element elem.
// branch selects the alternative for elemAlt (-1 before the first rune).
type state struct {
	elem, pos, branch int
}

type matchStatus int

const (
	statusNoMatch matchStatus = iota
	statusPartial
	statusClosed
)

// analysis is the outcome of running a pattern against a buffer.
type analysis struct {
	status   matchStatus
	n        int // statusClosed: bytes consumed
	accept   int // statusPartial: last accepting offset, -1 if none
	liveNext []rune
}

// advance feeds one rune to a state, returning successor states.
func (p *pattern) advance(s state, r rune, states []state) []state {
	e := p.elems[s.elem]
	switch e.kind {
	case elemLit:
		nr, sz := utf8.DecodeRuneInString(e.lit[s.pos:])
		if nr == r {
			states = append(states, state{s.elem, s.pos + sz, -1})
		}
	case elemAlt:
		if s.branch < 0 {
			for i, a := range e.alts {
				nr, sz := utf8.DecodeRuneInString(a)
				if nr == r {
					states = append(states, state{s.elem, sz, i})
				}
			}
		} else {
			a := e.alts[s.branch]
			if s.pos < len(a) {
				nr, sz := utf8.DecodeRuneInString(a[s.pos:])
				if nr == r {
					states = append(states, state{s.elem, s.pos + sz, s.branch})
				}
			}
		}
	case elemClass:
		if (e.max == 0 || s.pos < e.max) && e.cls.contains(r) {
			states = append(states, state{s.elem, s.pos + 1, -1})
		}
	}
	return states
}

// satisfied reports whether the element a state sits in has matched enough.
func (p *pattern) satisfied(s state) bool {
	e := p.elems[s.elem]
	switch e.kind {
	case elemLit:
		return s.pos == len(e.lit)
	case elemAlt:
		return s.branch >= 0 && s.pos == len(e.alts[s.branch])
	case elemClass:
		return s.pos >= e.min
	}
	return false
}

// closure expands satisfied states into successor-element start states
// and reports whether an accepting configuration is present.
func (p *pattern) closure(states []state) ([]state, bool) {
	accept := false
	seen := map[state]bool{}
	out := states[:0:0]
	var push func(s state)
	push = func(s state) {
		if s.elem == len(p.elems) {
			accept = true
			return
		}
		if seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
		if p.satisfied(s) {
			push(state{s.elem + 1, 0, -1})
		}
	}
	for _, s := range states {
		push(s)
	}
	return out, accept
}

// nextRunes collects the characters any live state could accept next.
func (p *pattern) nextRunes(states []state) []rune {
	set := map[rune]bool{}
	for _, s := range states {
		e := p.elems[s.elem]
		switch e.kind {
		case elemLit:
			if s.pos < len(e.lit) {
				r, _ := utf8.DecodeRuneInString(e.lit[s.pos:])
				set[r] = true
			}
		case elemAlt:
			if s.branch < 0 {
				for _, a := range e.alts {
					r, _ := utf8.DecodeRuneInString(a)
					set[r] = true
				}
			} else if a := e.alts[s.branch]; s.pos < len(a) {
				r, _ := utf8.DecodeRuneInString(a[s.pos:])
				set[r] = true
			}
		case elemClass:
			if e.max == 0 || s.pos < e.max {
				for _, r := range e.cls.sample {
					set[r] = true
				}
			}
		}
	}
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	return out
}

// analyze runs the pattern over view and classifies the result.
func (p *pattern) analyze(view string) analysis {
	states, _ := p.closure([]state{{0, 0, -1}})
	lastAccept := -1
	died := false
	for i, r := range view {
		var next []state
		for _, s := range states {
			next = p.advance(s, r, next)
		}
		var accept bool
		states, accept = p.closure(next)
		if accept {
			lastAccept = i + utf8.RuneLen(r)
		}
		if len(states) == 0 {
			died = true
			break
		}
	}
	if died {
		if lastAccept >= 0 {
			return analysis{status: statusClosed, n: lastAccept}
		}
		return analysis{status: statusNoMatch}
	}
	liveNext := p.nextRunes(states)
	if len(liveNext) == 0 {
		// nothing can extend; the whole buffer is the match
		if lastAccept >= 0 {
			return analysis{status: statusClosed, n: lastAccept}
		}
		return analysis{status: statusNoMatch}
	}
	return analysis{
		status:   statusPartial,
		accept:   lastAccept,
		liveNext: liveNext,
	}
}

// firstRunes is the character set a pattern can start with.
func (p *pattern) firstRunes() []rune {
	states, _ := p.closure([]state{{0, 0, -1}})
	return p.nextRunes(states)
}
