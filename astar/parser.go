package astar

import (
	"runtime"
	"sync"

	"github.com/emirpasic/gods/sets/hashset"
	ccgstar "github.com/npillmayer/ccgstar"
	"github.com/npillmayer/ccgstar/cat"
	"github.com/npillmayer/ccgstar/grammar"
)

// Config bundles the knobs of the search. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	Beta            float64 // threshold ratio for per-token tag pruning
	UseBeta         bool    // enable beta-pruning
	PruningSize     int     // top-K per token and per chart cell
	NBest           int     // parses to return per sentence
	UseCategoryDict bool    // enable lexical-category dictionary override
	UseSeenRules    bool    // enable seen-rules filter
	MaxLength       int     // sentences above this length are skipped
	MaxSteps        int     // hard cap on agenda pops per sentence
	Workers         int     // concurrent sentences in ParseBatch

	// PossibleRoots overrides the grammar's admissible root categories
	// when non-nil.
	PossibleRoots []*cat.Category
}

// DefaultConfig returns the standard search configuration.
func DefaultConfig() Config {
	return Config{
		Beta:        1e-5,
		UseBeta:     true,
		PruningSize: 50,
		NBest:       1,
		MaxLength:   250,
		MaxSteps:    100000,
		Workers:     runtime.NumCPU(),
	}
}

// Input is one sentence to parse: its tokens, the two score matrices
// from the external tagger, and optional constraints.
type Input struct {
	Tokens      []string
	TagScores   [][]float64 // (len(Tokens) × |tagset|), log-probabilities
	DepScores   [][]float64 // (len(Tokens) × len(Tokens)+1), column 0 = ROOT
	Constraints []Constraint
}

// ScoredTree is one complete parse with its total log-probability.
type ScoredTree struct {
	Tree  *Node
	Score float64
}

// Result is the outcome for one sentence: up to NBest parses ordered by
// decreasing score, a diagnostic code, and — for malformed input — an
// error. A sentence-level error never aborts the batch.
type Result struct {
	Trees []ScoredTree
	Diag  Diag
	Err   error
}

// Parser runs A* searches over a shared read-only grammar. A Parser is
// safe for concurrent use; per-sentence state lives on the stack of each
// search.
type Parser struct {
	g     *grammar.Grammar
	conf  Config
	roots *hashset.Set // non-nil iff conf.PossibleRoots overrides the grammar
}

// NewParser creates a parser for a grammar and a configuration.
func NewParser(g *grammar.Grammar, conf Config) *Parser {
	p := &Parser{g: g, conf: conf}
	if conf.PossibleRoots != nil {
		p.roots = hashset.New()
		for _, c := range conf.PossibleRoots {
			p.roots.Add(c.ID())
		}
	}
	return p
}

func (p *Parser) isRoot(c *cat.Category) bool {
	if p.roots != nil {
		return p.roots.Contains(c.ID())
	}
	return p.g.IsRoot(c)
}

// ParseBatch parses a batch of sentences on a worker pool. Sentences are
// embarrassingly parallel; each one runs single-threaded. The returned
// slice is aligned to the input order regardless of completion order.
func (p *Parser) ParseBatch(inputs []Input) []Result {
	results := make([]Result, len(inputs))
	workers := p.conf.Workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.Parse(inputs[i])
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// Parse runs the A* search for a single sentence.
func (p *Parser) Parse(input Input) Result {
	n := len(input.Tokens)
	if n == 0 {
		return Result{}
	}
	if n > p.conf.MaxLength {
		tracer().Infof("sentence of length %d skipped (max_length %d)", n, p.conf.MaxLength)
		return Result{Diag: DiagLengthExceeded}
	}
	scores, err := NewScores(n, len(p.g.TagSet()), input.TagScores, input.DepScores)
	if err != nil {
		return Result{Err: err}
	}
	cs, err := newConstraintSet(p.g, input.Constraints, n)
	if err != nil {
		return Result{Err: err}
	}
	s := &search{
		p:      p,
		n:      n,
		tokens: input.Tokens,
		scores: scores,
		h:      newHeuristicTable(scores),
		agenda: newAgenda(),
		chart:  newChart(n, p.conf.PruningSize, p.conf.NBest),
		cs:     cs,
		seen:   make(map[[16]byte]struct{}),
	}
	return s.run()
}

// --- The search loop --------------------------------------------------

// search is the per-sentence state of one A* run. All of it is created
// at parse start and released collectively when the sentence is done.
type search struct {
	p      *Parser
	n      int
	tokens []string
	scores *Scores
	h      *heuristicTable
	agenda *agenda
	chart  *chart
	cs     *constraintSet
	found  []ScoredTree
	seen   map[[16]byte]struct{} // fingerprints of emitted parses
	steps  int
}

func (s *search) run() Result {
	s.seed()
	conf := &s.p.conf
	diag := DiagNone
	for !s.agenda.empty() && len(s.found) < conf.NBest {
		s.steps++
		if s.steps > conf.MaxSteps {
			diag = DiagStepLimit
			tracer().Infof("step limit %d exceeded, %d parses found", conf.MaxSteps, len(s.found))
			break
		}
		node, _ := s.agenda.pop()
		key := keyOf(node)
		if s.chart.locked(key) {
			continue // a better derivation with this signature is final already
		}
		s.chart.finalize(node)
		if node.Extent.Len() == s.n && s.p.isRoot(node.Cat) {
			s.emit(node)
			if len(s.found) >= conf.NBest {
				break
			}
		}
		s.expandUnary(node)
		for _, left := range s.chart.endingAt(node.Extent.From()) {
			s.combine(left, node)
		}
		for _, right := range s.chart.startingAt(node.Extent.To()) {
			s.combine(node, right)
		}
	}
	if diag == DiagNone && len(s.found) == 0 {
		diag = DiagSearchExhausted
	}
	return Result{Trees: s.found, Diag: diag}
}

// seed constructs the lexical items. Every pruned candidate becomes a
// leaf derivation, pushed with its lexical score plus the outside
// estimate of the remaining sentence.
func (s *search) seed() {
	pruner := newPruner(s.p.g, &s.p.conf, s.scores, s.cs)
	for i, word := range s.tokens {
		span := ccgstar.SpanOf(i, 1)
		for _, cand := range pruner.candidates(i, word) {
			if !s.cs.allows(cand.cat, span) {
				continue
			}
			inside := cand.lp
			if s.n == 1 { // a single token is already the sentence head
				inside += s.scores.DepLP(i, RootHead)
			}
			leaf := &Node{
				Cat:      cand.cat,
				Extent:   span,
				Rule:     grammar.Lex,
				Position: i,
				Word:     word,
				LexLP:    cand.lp,
				Head:     i,
				Inside:   inside,
			}
			s.push(leaf)
		}
	}
	tracer().Debugf("agenda seeded with %d lexical items", s.agenda.heap.Size())
}

// push tentatively inserts a derivation into the chart (cell-capacity
// check) and, if admitted, queues it with an admissible priority.
func (s *search) push(n *Node) {
	if !s.chart.admit(keyOf(n), n.Inside) {
		return
	}
	s.agenda.push(n, n.Inside+s.h.outside(n.Extent.From(), n.Extent.To()))
}

// expandUnary applies the unary type-changing rules. Two unary steps in
// a row on the same span are disallowed, as is a top-level unary step
// that would leave the admissible root set.
func (s *search) expandUnary(n *Node) {
	if n.IsUnary() {
		return
	}
	top := n.Extent.Len() == s.n
	for _, parent := range s.p.g.ApplyUnary(n.Cat) {
		if top && !s.p.isRoot(parent) {
			continue
		}
		if !s.cs.allows(parent, n.Extent) {
			continue
		}
		s.push(&Node{
			Cat:    parent,
			Extent: n.Extent,
			Rule:   grammar.Unary,
			Left:   n,
			Head:   n.Head,
			Inside: n.Inside,
		})
	}
}

// combine applies the binary combinators to two adjacent finalized
// derivations, scoring the head dependency the combination creates.
func (s *search) combine(left, right *Node) {
	results := s.p.g.ApplyBinary(left.Cat, right.Cat, s.p.conf.UseSeenRules)
	if len(results) == 0 {
		return
	}
	span := left.Extent.Extend(right.Extent)
	top := span.Len() == s.n
	for _, res := range results {
		if !s.cs.allows(res.Cat, span) {
			continue
		}
		head, dep := left.Head, right.Head
		if !res.HeadLeft {
			head, dep = right.Head, left.Head
		}
		inside := left.Inside + right.Inside + s.scores.DepLP(dep, head)
		if top {
			inside += s.scores.DepLP(head, RootHead)
		}
		s.push(&Node{
			Cat:      res.Cat,
			Extent:   span,
			Rule:     res.Rule,
			Left:     left,
			Right:    right,
			HeadLeft: res.HeadLeft,
			Head:     head,
			Inside:   inside,
		})
	}
}

// emit appends a complete parse, suppressing structural duplicates.
func (s *search) emit(n *Node) {
	fp := n.hash()
	if _, dup := s.seen[fp]; dup {
		return
	}
	s.seen[fp] = struct{}{}
	s.found = append(s.found, ScoredTree{Tree: n, Score: n.Inside})
	tracer().Infof("parse %d: %s  (score %.4f)", len(s.found), n.Cat, n.Inside)
}
