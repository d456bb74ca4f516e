package astar

import (
	"fmt"

	ccgstar "github.com/npillmayer/ccgstar"
	"github.com/npillmayer/ccgstar/cat"
	"github.com/npillmayer/ccgstar/grammar"
)

// Constraint restricts a partial parse. A terminal constraint forces one
// token to carry one category; a non-terminal constraint forces a span
// to form a constituent, optionally of a specific category. Categories
// are given in notation form and resolved against the interned
// inventory when the search starts.
type Constraint struct {
	Cat      string // category notation; empty = wildcard (bracketing only)
	Start    int
	Length   int
	Terminal bool
}

// TerminalConstraint forces token start to carry category c.
func TerminalConstraint(c string, start int) Constraint {
	return Constraint{Cat: c, Start: start, Length: 1, Terminal: true}
}

// SpanConstraint forces [start, start+length) to form a constituent of
// category c, or of any category when c is empty.
func SpanConstraint(c string, start, length int) Constraint {
	return Constraint{Cat: c, Start: start, Length: length}
}

// spanConstraint is a resolved non-terminal constraint. allowed is nil
// for wildcards; otherwise it holds the forced category plus every
// category from which the forced one is reachable by a unary rule, so
// that a forced constituent may still be built below its type-change.
type spanConstraint struct {
	span    ccgstar.Span
	allowed map[*cat.Category]bool
}

// constraintSet is the per-sentence constraint checker.
type constraintSet struct {
	terminals map[int]*cat.Category
	spans     []spanConstraint
}

func newConstraintSet(g *grammar.Grammar, constraints []Constraint, sentLen int) (*constraintSet, error) {
	if len(constraints) == 0 {
		return &constraintSet{}, nil
	}
	cs := &constraintSet{terminals: make(map[int]*cat.Category)}
	for _, con := range constraints {
		if con.Start < 0 || con.Start+max(con.Length, 1) > sentLen {
			return nil, fmt.Errorf("%w: constraint span (%d…%d) outside sentence",
				ErrGrammarInconsistency, con.Start, con.Start+con.Length)
		}
		if con.Terminal {
			forced, ok := cat.Lookup(con.Cat)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrGrammarInconsistency, con.Cat)
			}
			cs.terminals[con.Start] = forced
			continue
		}
		sc := spanConstraint{span: ccgstar.SpanOf(con.Start, con.Length)}
		if con.Cat != "" {
			forced, ok := cat.Lookup(con.Cat)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrGrammarInconsistency, con.Cat)
			}
			sc.allowed = map[*cat.Category]bool{forced: true}
			for _, src := range g.UnarySources(forced) {
				sc.allowed[src] = true
			}
		}
		cs.spans = append(cs.spans, sc)
	}
	return cs, nil
}

// terminal returns the forced category of a token, if any.
func (cs *constraintSet) terminal(pos int) (*cat.Category, bool) {
	c, ok := cs.terminals[pos]
	return c, ok
}

// allows checks a candidate derivation against the non-terminal
// constraints: a candidate is rejected when it coincides with a
// constrained span but disagrees on the category, or when its span
// crosses a constraint boundary.
func (cs *constraintSet) allows(c *cat.Category, span ccgstar.Span) bool {
	for _, sc := range cs.spans {
		if span == sc.span {
			if sc.allowed != nil && !sc.allowed[c] {
				return false
			}
			continue
		}
		if span.Crosses(sc.span) {
			return false
		}
	}
	return true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
