package astar

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	ccgstar "github.com/npillmayer/ccgstar"
	"github.com/npillmayer/ccgstar/cat"
	"github.com/npillmayer/ccgstar/grammar"
)

// --- Agenda -----------------------------------------------------------

func TestAgendaOrdering(t *testing.T) {
	a := newAgenda()
	n1 := &Node{Word: "first"}
	n2 := &Node{Word: "second"}
	n3 := &Node{Word: "third"}
	a.push(n1, -1.0)
	a.push(n2, -0.5)
	a.push(n3, -1.5)
	for _, want := range []*Node{n2, n1, n3} {
		got, ok := a.pop()
		if !ok || got != want {
			t.Fatalf("expected %q, got %v", want.Word, got)
		}
	}
	if !a.empty() {
		t.Error("agenda should be empty")
	}
}

func TestAgendaTiesAreFIFO(t *testing.T) {
	a := newAgenda()
	nodes := make([]*Node, 10)
	for i := range nodes {
		nodes[i] = &Node{Position: i}
		a.push(nodes[i], -2.5) // all equal priority
	}
	for i := range nodes {
		got, _ := a.pop()
		if got.Position != i {
			t.Fatalf("tie-break not FIFO: expected %d, got %d", i, got.Position)
		}
	}
}

// --- Chart ------------------------------------------------------------

func TestChartCellCapacity(t *testing.T) {
	ch := newChart(4, 2, 1)
	key := cellKey{start: 0, length: 2, cat: 7}
	if !ch.admit(key, -1.0) || !ch.admit(key, -2.0) {
		t.Fatal("first two insertions must be admitted")
	}
	if ch.admit(key, -3.0) {
		t.Error("cell over capacity with strictly better entries must reject")
	}
	// a better score is admitted even in a full cell
	if !ch.admit(key, -0.5) {
		t.Error("a better-scoring candidate must be admitted")
	}
}

func TestChartLocking(t *testing.T) {
	ch := newChart(3, 50, 1)
	n := &Node{Cat: cat.MustParse("NP"), Extent: ccgstar.SpanOf(0, 1)}
	key := keyOf(n)
	if ch.locked(key) {
		t.Fatal("fresh signature must not be locked")
	}
	ch.finalize(n)
	if !ch.locked(key) {
		t.Error("signature must lock after one finalization with perSig=1")
	}
	if len(ch.endingAt(1)) != 1 || len(ch.startingAt(0)) != 1 {
		t.Error("finalized node must be indexed by both span ends")
	}
}

func TestChartCompleteParses(t *testing.T) {
	ch := newChart(2, 50, 2)
	root := &Node{Cat: cat.MustParse("S[dcl]"), Extent: ccgstar.SpanOf(0, 2)}
	partial := &Node{Cat: cat.MustParse("NP"), Extent: ccgstar.SpanOf(0, 1)}
	ch.finalize(root)
	ch.finalize(partial)
	g := grammar.English()
	parses := ch.completeParses(2, g.IsRoot)
	if len(parses) != 1 || parses[0] != root {
		t.Errorf("expected exactly the root derivation, got %v", parses)
	}
}

// --- Heuristic --------------------------------------------------------

func TestOutsideEstimate(t *testing.T) {
	tags := [][]float64{
		{-1, -3}, {-2, -0.5}, {-4, -0.25},
	}
	deps := [][]float64{
		{-0.5, -1, -1, -1}, {-1, -0.125, -1, -1}, {-1, -1, -0.0625, -1},
	}
	scores, err := NewScores(3, 2, tags, deps)
	if err != nil {
		t.Fatal(err)
	}
	h := newHeuristicTable(scores)
	// best per token: tag −1, −0.5, −0.25; dep −0.5, −0.125, −0.0625
	if got := h.outside(0, 3); got != 0 {
		t.Errorf("outside of full span must be 0, got %g", got)
	}
	want := -0.5 - 0.0625 - 0.25 - 1 // tokens 0 and 2 uncovered
	if got := h.outside(1, 2); math.Abs(got-want) > 1e-12 {
		t.Errorf("outside(1,2): expected %g, got %g", want, got)
	}
	if got := h.outside(0, 2); math.Abs(got-(-0.25-0.0625)) > 1e-12 {
		t.Errorf("outside(0,2): expected %g, got %g", -0.3125, got)
	}
}

// --- Pruner -----------------------------------------------------------

func TestPrunerDictionaryOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	g := testGrammar()
	g.AddDictEntry("runs", []*cat.Category{cat.MustParse("S[dcl]\\NP")})
	conf := DefaultConfig()
	conf.UseCategoryDict = true
	// scores favour NP, but the dictionary pins "runs" down
	tags := [][]float64{tagRow(map[int]float64{0: 0, 2: -1})}
	deps := depRows(1, 0, nil)
	scores, _ := NewScores(1, len(testTags), tags, deps)
	p := newPruner(g, &conf, scores, &constraintSet{})
	cands := p.candidates(0, "runs")
	if len(cands) != 1 || cands[0].cat != cat.MustParse("S[dcl]\\NP") {
		t.Fatalf("expected the dictionary category only, got %v", cands)
	}
}

func TestPrunerFailsafe(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	g := testGrammar()
	// dictionary entry outside the tag inventory filters everything away
	g.AddDictEntry("gorp", []*cat.Category{cat.MustParse("S[frg]")})
	conf := DefaultConfig()
	conf.UseCategoryDict = true
	tags := [][]float64{tagRow(map[int]float64{1: -0.5, 0: -1})}
	deps := depRows(1, 0, nil)
	scores, _ := NewScores(1, len(testTags), tags, deps)
	p := newPruner(g, &conf, scores, &constraintSet{})
	cands := p.candidates(0, "gorp")
	if len(cands) != 1 {
		t.Fatalf("failsafe must yield exactly one candidate, got %d", len(cands))
	}
	if cands[0].cat != cat.MustParse("N") {
		t.Errorf("failsafe must pick the best row category N, got %s", cands[0].cat)
	}
}

func TestPrunerTopK(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	conf := DefaultConfig()
	conf.UseBeta = false
	conf.PruningSize = 2
	tags := [][]float64{{-0.1, -0.2, -0.3, -0.4, -0.5}}
	deps := depRows(1, 0, nil)
	scores, _ := NewScores(1, len(testTags), tags, deps)
	p := newPruner(testGrammar(), &conf, scores, &constraintSet{})
	cands := p.candidates(0, "w")
	if len(cands) != 2 {
		t.Fatalf("expected top-2 truncation, got %d candidates", len(cands))
	}
	if cands[0].lp < cands[1].lp {
		t.Error("candidates must be ordered best-first")
	}
}

// --- Constraints ------------------------------------------------------

func TestConstraintBracketing(t *testing.T) {
	g := testGrammar()
	cs, err := newConstraintSet(g, []Constraint{SpanConstraint("", 1, 2)}, 4)
	if err != nil {
		t.Fatal(err)
	}
	np := cat.MustParse("NP")
	if !cs.allows(np, ccgstar.SpanOf(1, 2)) {
		t.Error("the constrained span itself must be allowed (wildcard)")
	}
	if !cs.allows(np, ccgstar.SpanOf(1, 3)) {
		t.Error("a containing span must be allowed")
	}
	if cs.allows(np, ccgstar.SpanOf(0, 2)) {
		t.Error("a crossing span must be rejected")
	}
	if cs.allows(np, ccgstar.SpanOf(2, 2)) {
		t.Error("a crossing span must be rejected")
	}
}

func TestConstraintCategoryAgreement(t *testing.T) {
	g := testGrammar()
	cs, err := newConstraintSet(g, []Constraint{SpanConstraint("NP", 0, 2)}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !cs.allows(cat.MustParse("NP"), ccgstar.SpanOf(0, 2)) {
		t.Error("the forced category must be allowed")
	}
	// N reaches NP by a unary rule, so an N constituent may still be
	// built on the constrained span
	if !cs.allows(cat.MustParse("N"), ccgstar.SpanOf(0, 2)) {
		t.Error("a unary source of the forced category must be allowed")
	}
	if cs.allows(cat.MustParse("S[dcl]"), ccgstar.SpanOf(0, 2)) {
		t.Error("a disagreeing category must be rejected")
	}
}

func TestConstraintInconsistency(t *testing.T) {
	g := testGrammar()
	_, err := newConstraintSet(g, []Constraint{SpanConstraint("QQQQ[zz]", 0, 2)}, 4)
	if err == nil {
		t.Fatal("expected a grammar-inconsistency error")
	}
	_, err = newConstraintSet(g, []Constraint{TerminalConstraint("NP", 9)}, 4)
	if err == nil {
		t.Fatal("expected an error for a constraint outside the sentence")
	}
}

// --- Unary restrictions -----------------------------------------------

func TestNoUnaryChains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	conf := DefaultConfig()
	conf.NBest = 10
	result := NewParser(testGrammar(), conf).Parse(johnRuns())
	for _, st := range result.Trees {
		checkNoUnaryChain(t, st.Tree)
	}
}

func checkNoUnaryChain(t *testing.T, n *Node) {
	t.Helper()
	if n.IsUnary() && n.Left.IsUnary() {
		t.Errorf("unary chain in %s", n.Bracketed())
	}
	if n.Left != nil {
		checkNoUnaryChain(t, n.Left)
	}
	if n.Right != nil {
		checkNoUnaryChain(t, n.Right)
	}
}

func TestSpanInvariants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	conf := DefaultConfig()
	conf.NBest = 5
	result := NewParser(testGrammar(), conf).Parse(johnRuns())
	for _, st := range result.Trees {
		checkSpans(t, st.Tree)
	}
}

func checkSpans(t *testing.T, n *Node) {
	t.Helper()
	if n.IsLeaf() {
		if n.Extent.Len() != 1 || n.Extent.From() != n.Position {
			t.Errorf("leaf span %s disagrees with position %d", n.Extent, n.Position)
		}
		return
	}
	if n.IsUnary() {
		if n.Extent != n.Left.Extent {
			t.Errorf("unary span %s differs from child span %s", n.Extent, n.Left.Extent)
		}
		checkSpans(t, n.Left)
		return
	}
	if n.Left.Extent.To() != n.Right.Extent.From() {
		t.Errorf("children %s and %s are not adjacent", n.Left.Extent, n.Right.Extent)
	}
	if n.Extent != n.Left.Extent.Extend(n.Right.Extent) {
		t.Errorf("span %s is not the union of %s and %s",
			n.Extent, n.Left.Extent, n.Right.Extent)
	}
	checkSpans(t, n.Left)
	checkSpans(t, n.Right)
}
