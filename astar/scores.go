package astar

import (
	"fmt"
)

// RootHead denotes the virtual ROOT as head of a dependency.
const RootHead = -1

// Scores is a read-only facade over the two score matrices an external
// tagger produces for a sentence: a supertag distribution per token and
// a head distribution per token. All values are log-probabilities.
type Scores struct {
	tags [][]float64 // (sentLen × |tagset|)
	deps [][]float64 // (sentLen × sentLen+1), column 0 = ROOT
}

// NewScores validates matrix shapes against the sentence length and the
// tag inventory size. A mismatch yields ErrShapeMismatch.
func NewScores(sentLen, tagsetSize int, tags, deps [][]float64) (*Scores, error) {
	if len(tags) != sentLen {
		return nil, fmt.Errorf("%w: tag matrix has %d rows, sentence has %d tokens",
			ErrShapeMismatch, len(tags), sentLen)
	}
	for i, row := range tags {
		if len(row) != tagsetSize {
			return nil, fmt.Errorf("%w: tag row %d has %d columns, inventory has %d categories",
				ErrShapeMismatch, i, len(row), tagsetSize)
		}
	}
	if len(deps) != sentLen {
		return nil, fmt.Errorf("%w: dependency matrix has %d rows, sentence has %d tokens",
			ErrShapeMismatch, len(deps), sentLen)
	}
	for i, row := range deps {
		if len(row) != sentLen+1 {
			return nil, fmt.Errorf("%w: dependency row %d has %d columns, expected %d",
				ErrShapeMismatch, i, len(row), sentLen+1)
		}
	}
	return &Scores{tags: tags, deps: deps}, nil
}

// TagLP returns the log-probability of tag column c for token i.
func (s *Scores) TagLP(i, c int) float64 {
	return s.tags[i][c]
}

// DepLP returns the log-probability of token head governing token dep.
// Pass RootHead to attach dep to the virtual ROOT.
func (s *Scores) DepLP(dep, head int) float64 {
	return s.deps[dep][head+1]
}

// SentLen returns the number of tokens the matrices cover.
func (s *Scores) SentLen() int {
	return len(s.tags)
}

// --- Admissible outside estimates -------------------------------------

// heuristicTable precomputes, per token, the best supertag score plus
// the best head-attachment score. The outside estimate of a span is the
// sum of these maxima over all tokens outside the span; since true
// parse scores sum log-probabilities bounded by the maxima, the
// estimate never under-estimates the best completion.
type heuristicTable struct {
	prefix []float64 // prefix[i] = Σ_{j<i} (bestTag[j] + bestDep[j])
}

func newHeuristicTable(s *Scores) *heuristicTable {
	n := s.SentLen()
	prefix := make([]float64, n+1)
	for i := 0; i < n; i++ {
		bestTag := maxOf(s.tags[i])
		bestDep := maxOf(s.deps[i])
		prefix[i+1] = prefix[i] + bestTag + bestDep
	}
	return &heuristicTable{prefix: prefix}
}

// outside estimates the best possible score contribution of all tokens
// not covered by [from, to).
func (h *heuristicTable) outside(from, to int) float64 {
	total := h.prefix[len(h.prefix)-1]
	return total - (h.prefix[to] - h.prefix[from])
}

func maxOf(row []float64) float64 {
	best := row[0]
	for _, v := range row[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
