package astar

import (
	ccgstar "github.com/npillmayer/ccgstar"
	"github.com/npillmayer/ccgstar/cat"
)

// cellKey indexes a chart cell: a span plus the category the derivation
// carries at its top.
type cellKey struct {
	start  int
	length int
	cat    int32
}

func keyOf(n *Node) cellKey {
	return cellKey{start: n.Extent.From(), length: n.Extent.Len(), cat: n.Cat.ID()}
}

// chartCell tracks the derivations recorded under one signature: the
// inside scores of tentatively inserted items, plus how many of them
// were finalized by an agenda pop.
type chartCell struct {
	insides   []float64
	finalized int
}

// chart is the indexed store of accepted derivations. It implements the
// popped-once, reuse-always discipline of the search: a cell signature
// accepts at most perSig finalized derivations (one for 1-best parsing),
// and finalized items are indexed by their span ends for adjacency
// queries.
type chart struct {
	cells   map[cellKey]*chartCell
	byStart [][]*Node // finalized derivations by start position
	byEnd   [][]*Node // finalized derivations by end position
	pruning int       // tentative entries admitted per cell
	perSig  int       // finalized derivations admitted per signature
}

func newChart(sentLen, pruning, perSig int) *chart {
	return &chart{
		cells:   make(map[cellKey]*chartCell),
		byStart: make([][]*Node, sentLen+1),
		byEnd:   make([][]*Node, sentLen+1),
		pruning: pruning,
		perSig:  perSig,
	}
}

// admit records a tentative insertion. It rejects the candidate when the
// cell already holds pruning-size entries with strictly better inside
// scores.
func (ch *chart) admit(key cellKey, inside float64) bool {
	cell := ch.cells[key]
	if cell == nil {
		cell = &chartCell{}
		ch.cells[key] = cell
	}
	better := 0
	for _, s := range cell.insides {
		if s > inside {
			better++
		}
	}
	if better >= ch.pruning {
		return false
	}
	cell.insides = append(cell.insides, inside)
	return true
}

// locked tells whether a signature has already used up its finalization
// budget; a popped item with a locked signature is discarded.
func (ch *chart) locked(key cellKey) bool {
	cell := ch.cells[key]
	return cell != nil && cell.finalized >= ch.perSig
}

// finalize marks a popped derivation as final and indexes it for
// adjacency queries.
func (ch *chart) finalize(n *Node) {
	key := keyOf(n)
	cell := ch.cells[key]
	if cell == nil {
		cell = &chartCell{}
		ch.cells[key] = cell
	}
	cell.finalized++
	ch.byStart[n.Extent.From()] = append(ch.byStart[n.Extent.From()], n)
	ch.byEnd[n.Extent.To()] = append(ch.byEnd[n.Extent.To()], n)
}

// endingAt returns the finalized derivations whose span ends at pos,
// i.e. the left neighbours of a span starting at pos.
func (ch *chart) endingAt(pos int) []*Node {
	return ch.byEnd[pos]
}

// startingAt returns the finalized derivations whose span starts at pos,
// i.e. the right neighbours of a span ending at pos.
func (ch *chart) startingAt(pos int) []*Node {
	return ch.byStart[pos]
}

// completeParses returns the finalized derivations covering the whole
// sentence whose category is admissible as root.
func (ch *chart) completeParses(sentLen int, admissible func(*cat.Category) bool) []*Node {
	var parses []*Node
	for _, n := range ch.byStart[0] {
		if n.Extent == ccgstar.SpanOf(0, sentLen) && admissible(n.Cat) {
			parses = append(parses, n)
		}
	}
	return parses
}
