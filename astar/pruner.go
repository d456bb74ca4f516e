package astar

import (
	"math"
	"sort"

	"github.com/npillmayer/ccgstar/cat"
	"github.com/npillmayer/ccgstar/grammar"
)

// leafCandidate is a pruned lexical assignment for one token.
type leafCandidate struct {
	cat *cat.Category
	lp  float64
}

// pruner produces the per-token candidate categories that seed the
// agenda, after the filter cascade: category-dictionary override,
// terminal constraint, beta threshold, top-K truncation. It never
// returns an empty list; if everything is filtered away, the single
// best category survives regardless.
type pruner struct {
	g        *grammar.Grammar
	conf     *Config
	scores   *Scores
	cs       *constraintSet
	tagIndex map[*cat.Category]int // category → tag matrix column
}

func newPruner(g *grammar.Grammar, conf *Config, scores *Scores, cs *constraintSet) *pruner {
	tagset := g.TagSet()
	index := make(map[*cat.Category]int, len(tagset))
	for col, c := range tagset {
		index[c] = col
	}
	return &pruner{g: g, conf: conf, scores: scores, cs: cs, tagIndex: index}
}

func (p *pruner) candidates(i int, word string) []leafCandidate {
	if forced, ok := p.cs.terminal(i); ok {
		return []leafCandidate{{cat: forced, lp: 0}}
	}
	tagset := p.g.TagSet()
	rowMax := math.Inf(-1)
	for col := range tagset {
		if lp := p.scores.TagLP(i, col); lp > rowMax {
			rowMax = lp
		}
	}

	var cands []leafCandidate
	if entry, ok := p.g.DictEntry(word); ok && p.conf.UseCategoryDict {
		for _, c := range entry {
			if col, known := p.tagIndex[c]; known {
				cands = append(cands, leafCandidate{cat: c, lp: p.scores.TagLP(i, col)})
			}
		}
	} else {
		cands = make([]leafCandidate, 0, len(tagset))
		for col, c := range tagset {
			cands = append(cands, leafCandidate{cat: c, lp: p.scores.TagLP(i, col)})
		}
	}

	if p.conf.UseBeta {
		threshold := math.Log(p.conf.Beta) + rowMax
		kept := cands[:0]
		for _, cand := range cands {
			if cand.lp >= threshold {
				kept = append(kept, cand)
			}
		}
		cands = kept
	}

	sort.Slice(cands, func(a, b int) bool {
		if cands[a].lp != cands[b].lp {
			return cands[a].lp > cands[b].lp
		}
		return cands[a].cat.ID() < cands[b].cat.ID()
	})
	if len(cands) > p.conf.PruningSize {
		cands = cands[:p.conf.PruningSize]
	}

	if len(cands) == 0 { // failsafe: emit the single best category
		best := 0
		for col := range tagset {
			if p.scores.TagLP(i, col) > p.scores.TagLP(i, best) {
				best = col
			}
		}
		tracer().Debugf("pruner failsafe at token %d (%q)", i, word)
		cands = []leafCandidate{{cat: tagset[best], lp: p.scores.TagLP(i, best)}}
	}
	return cands
}
