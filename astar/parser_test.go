package astar

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/ccgstar/cat"
	"github.com/npillmayer/ccgstar/grammar"
)

// The test inventory. Column order matters: tag matrices in the tests
// below index categories by these columns.
var testTags = []string{
	"NP",              // 0
	"N",               // 1
	"S[dcl]\\NP",      // 2
	"(S[dcl]\\NP)/NP", // 3
	"conj",            // 4
}

func testGrammar() *grammar.Grammar {
	g := grammar.English()
	tagset := make([]*cat.Category, len(testTags))
	for i, notation := range testTags {
		tagset[i] = cat.MustParse(notation)
	}
	g.SetTagSet(tagset)
	return g
}

// tagRow builds a score row with all categories at −∞ except the given
// column assignments.
func tagRow(assign map[int]float64) []float64 {
	row := make([]float64, len(testTags))
	for i := range row {
		row[i] = math.Inf(-1)
	}
	for col, lp := range assign {
		row[col] = lp
	}
	return row
}

// depRows builds a dependency matrix with every entry at fill, except
// the given (dependent, head) assignments; head −1 denotes ROOT.
func depRows(n int, fill float64, assign map[[2]int]float64) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n+1)
		for j := range rows[i] {
			rows[i][j] = fill
		}
	}
	for dh, lp := range assign {
		rows[dh[0]][dh[1]+1] = lp
	}
	return rows
}

// --- Scenario tests ---------------------------------------------------

func TestSingleTokenSentence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	parser := NewParser(testGrammar(), DefaultConfig())
	result := parser.Parse(Input{
		Tokens:    []string{"Hello"},
		TagScores: [][]float64{tagRow(map[int]float64{0: 0})}, // one-hot NP
		DepScores: depRows(1, 0, nil),
	})
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.Trees) != 1 {
		t.Fatalf("expected 1 parse, got %d (%s)", len(result.Trees), result.Diag)
	}
	tree := result.Trees[0].Tree
	if !tree.IsLeaf() || tree.Cat != cat.MustParse("NP") {
		t.Errorf("expected a single NP leaf, got %s", tree.Bracketed())
	}
	if score := result.Trees[0].Score; score != 0 {
		t.Errorf("expected score 0, got %g", score)
	}
}

func johnRuns() Input {
	return Input{
		Tokens: []string{"John", "runs"},
		TagScores: [][]float64{
			tagRow(map[int]float64{0: 0}), // John: NP
			tagRow(map[int]float64{2: 0}), // runs: S[dcl]\NP
		},
		DepScores: depRows(2, -1000, map[[2]int]float64{
			{0, 1}:  0, // John's head is runs
			{1, -1}: 0, // runs' head is ROOT
		}),
	}
}

func TestTwoTokenSentence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	parser := NewParser(testGrammar(), DefaultConfig())
	result := parser.Parse(johnRuns())
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.Trees) != 1 {
		t.Fatalf("expected 1 parse, got %d (%s)", len(result.Trees), result.Diag)
	}
	tree := result.Trees[0].Tree
	if tree.Cat != cat.MustParse("S[dcl]") || tree.Rule != grammar.BwdApp {
		t.Errorf("expected backward application to S[dcl], got %s", tree.Bracketed())
	}
	if tree.HeadLeft || tree.Head != 1 {
		t.Errorf("expected the verb to head the sentence, head is %d", tree.Head)
	}
	if score := result.Trees[0].Score; math.Abs(score) > 1e-9 {
		t.Errorf("expected score ≈ 0, got %g", score)
	}
}

func TestSeenRulesRemoveParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	g := testGrammar()
	conf := DefaultConfig()
	conf.UseSeenRules = true
	parser := NewParser(g, conf)
	result := parser.Parse(johnRuns())
	if len(result.Trees) != 0 {
		t.Fatalf("expected no parses with empty seen-rules set, got %d", len(result.Trees))
	}
	if result.Diag != DiagSearchExhausted {
		t.Errorf("expected search-exhausted diagnostic, got %s", result.Diag)
	}
	// enabling the one attested pair restores the parse
	g.AddSeenRule(cat.MustParse("NP"), cat.MustParse("S[dcl]\\NP"))
	result = NewParser(g, conf).Parse(johnRuns())
	if len(result.Trees) != 1 {
		t.Fatalf("expected 1 parse with the pair attested, got %d", len(result.Trees))
	}
}

func TestNBestDistinctAndSorted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	input := Input{
		Tokens: []string{"dogs", "chase", "cats"},
		TagScores: [][]float64{
			tagRow(map[int]float64{1: -0.1, 0: -0.4}), // dogs: N or NP
			tagRow(map[int]float64{3: -0.2}),          // chase: (S[dcl]\NP)/NP
			tagRow(map[int]float64{0: -0.05, 1: -0.5}), // cats: NP or N
		},
		DepScores: depRows(3, -1, map[[2]int]float64{
			{0, 1}:  0,
			{1, -1}: 0,
			{2, 1}:  0,
		}),
	}
	conf := DefaultConfig()
	conf.NBest = 3
	result := NewParser(testGrammar(), conf).Parse(input)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.Trees) == 0 || len(result.Trees) > 3 {
		t.Fatalf("expected 1…3 parses, got %d", len(result.Trees))
	}
	brackets := make(map[string]bool)
	for i, st := range result.Trees {
		if i > 0 && st.Score >= result.Trees[i-1].Score {
			t.Errorf("parse %d not strictly below its predecessor: %g vs %g",
				i, st.Score, result.Trees[i-1].Score)
		}
		if brackets[st.Tree.Bracketed()] {
			t.Errorf("duplicate tree: %s", st.Tree.Bracketed())
		}
		brackets[st.Tree.Bracketed()] = true
	}
	if best := result.Trees[0].Score; math.Abs(best-(-0.35)) > 1e-9 {
		t.Errorf("expected best score -0.35, got %g", best)
	}
}

func TestTerminalConstraint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	input := johnRuns()
	input.Constraints = []Constraint{TerminalConstraint("N", 0)}
	result := NewParser(testGrammar(), DefaultConfig()).Parse(input)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.Trees) != 1 {
		t.Fatalf("expected 1 parse, got %d (%s)", len(result.Trees), result.Diag)
	}
	leaf := result.Trees[0].Tree.Leaves(nil)[0]
	if leaf.Cat != cat.MustParse("N") {
		t.Errorf("expected forced leaf category N, got %s", leaf.Cat)
	}
	if leaf.LexLP != 0 {
		t.Errorf("forced leaf should carry lexical score 0, got %g", leaf.LexLP)
	}
}

func TestLengthExceeded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	tokens := make([]string, 300)
	for i := range tokens {
		tokens[i] = "x"
	}
	result := NewParser(testGrammar(), DefaultConfig()).Parse(Input{Tokens: tokens})
	if result.Err != nil {
		t.Fatalf("length excess must not be an error, got %v", result.Err)
	}
	if len(result.Trees) != 0 || result.Diag != DiagLengthExceeded {
		t.Errorf("expected empty result with length diagnostic, got %d trees, %s",
			len(result.Trees), result.Diag)
	}
}

// --- Properties -------------------------------------------------------

func TestShapeMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	input := johnRuns()
	input.TagScores = input.TagScores[:1] // one row short
	result := NewParser(testGrammar(), DefaultConfig()).Parse(input)
	if !errors.Is(result.Err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", result.Err)
	}
}

// recompute walks a tree and re-derives its score from the matrices:
// lexical log-probabilities at the leaves plus dependency
// log-probabilities at binary nodes and the root attachment.
func recompute(n *Node, scores *Scores) float64 {
	total := recomputeInner(n, scores)
	return total + scores.DepLP(n.Head, RootHead)
}

func recomputeInner(n *Node, scores *Scores) float64 {
	if n.IsLeaf() {
		return n.LexLP
	}
	if n.IsUnary() {
		return recomputeInner(n.Left, scores)
	}
	head, dep := n.Left.Head, n.Right.Head
	if !n.HeadLeft {
		head, dep = n.Right.Head, n.Left.Head
	}
	return recomputeInner(n.Left, scores) + recomputeInner(n.Right, scores) +
		scores.DepLP(dep, head)
}

func TestScoreRecomputation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	input := Input{
		Tokens: []string{"dogs", "chase", "cats"},
		TagScores: [][]float64{
			tagRow(map[int]float64{1: -0.3, 0: -0.6}),
			tagRow(map[int]float64{3: -0.2}),
			tagRow(map[int]float64{0: -0.1, 1: -0.7}),
		},
		DepScores: depRows(3, -2, map[[2]int]float64{
			{0, 1}:  -0.25,
			{1, -1}: -0.5,
			{2, 1}:  -0.125,
		}),
	}
	conf := DefaultConfig()
	conf.NBest = 4
	result := NewParser(testGrammar(), conf).Parse(input)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.Trees) == 0 {
		t.Fatal("expected parses")
	}
	scores, err := NewScores(3, len(testTags), input.TagScores, input.DepScores)
	if err != nil {
		t.Fatal(err)
	}
	for i, st := range result.Trees {
		if want := recompute(st.Tree, scores); math.Abs(want-st.Score) > 1e-9 {
			t.Errorf("parse %d: reported score %g, recomputed %g", i, st.Score, want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	conf := DefaultConfig()
	conf.NBest = 3
	run := func() []string {
		result := NewParser(testGrammar(), conf).Parse(johnRuns())
		var out []string
		for _, st := range result.Trees {
			out = append(out, st.Tree.Bracketed())
		}
		return out
	}
	first := run()
	for i := 0; i < 5; i++ {
		next := run()
		if len(next) != len(first) {
			t.Fatalf("run %d returned %d parses, first run %d", i, len(next), len(first))
		}
		for j := range next {
			if next[j] != first[j] {
				t.Errorf("run %d parse %d differs: %s vs %s", i, j, next[j], first[j])
			}
		}
	}
}

func TestParseBatchAlignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	single := Input{
		Tokens:    []string{"Hello"},
		TagScores: [][]float64{tagRow(map[int]float64{0: 0})},
		DepScores: depRows(1, 0, nil),
	}
	inputs := []Input{johnRuns(), single, johnRuns(), single, johnRuns(), single}
	results := NewParser(testGrammar(), DefaultConfig()).ParseBatch(inputs)
	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	for i, r := range results {
		if r.Err != nil || len(r.Trees) != 1 {
			t.Fatalf("sentence %d failed: %d trees, err %v", i, len(r.Trees), r.Err)
		}
		want := 2
		if i%2 == 1 {
			want = 1
		}
		if got := r.Trees[0].Tree.Extent.Len(); got != want {
			t.Errorf("sentence %d: result of length %d out of order", i, got)
		}
	}
}

func TestStepLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	conf := DefaultConfig()
	conf.MaxSteps = 1
	result := NewParser(testGrammar(), conf).Parse(johnRuns())
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if result.Diag != DiagStepLimit {
		t.Errorf("expected step-limit diagnostic, got %s", result.Diag)
	}
}

func TestDerivationRendering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ccgstar.astar")
	defer teardown()
	//
	result := NewParser(testGrammar(), DefaultConfig()).Parse(johnRuns())
	if len(result.Trees) != 1 {
		t.Fatal("expected a parse")
	}
	deriv := result.Trees[0].Tree.Derivation()
	for _, want := range []string{"John", "runs", "S[dcl]\\NP", "ba"} {
		if !strings.Contains(deriv, want) {
			t.Errorf("derivation rendering misses %q:\n%s", want, deriv)
		}
	}
}
