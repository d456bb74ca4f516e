package grammar

import (
	"sync"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/ccgstar/cat"
)

// BinaryResult is one admissible outcome of combining two adjacent
// categories.
type BinaryResult struct {
	Cat      *cat.Category
	Rule     RuleID
	HeadLeft bool
}

// Grammar bundles the rule tables of one grammar variant. A grammar is
// built during setup and must be treated as read-only once parsing
// starts; all query methods are safe for concurrent use.
type Grammar struct {
	Lang        string // language tag, e.g. "en"
	combinators []Combinator
	headFinal   bool // all binary results head right (Japanese)

	unary    map[*cat.Category][]*cat.Category // child → parents
	unaryInv map[*cat.Category][]*cat.Category // parent → children
	seen     *hashset.Set                      // normalized (left,right) pairs
	dict     map[string][]*cat.Category        // surface form → categories
	tagset   []*cat.Category                   // supertag inventory, column order
	roots    *hashset.Set                      // admissible root ids
	rootList []*cat.Category

	mu    sync.RWMutex
	cache map[uint64][]BinaryResult
}

// New creates an empty grammar for a language tag with the given active
// combinators.
func New(lang string, combinators []Combinator) *Grammar {
	return &Grammar{
		Lang:        lang,
		combinators: combinators,
		unary:       make(map[*cat.Category][]*cat.Category),
		unaryInv:    make(map[*cat.Category][]*cat.Category),
		seen:        hashset.New(),
		dict:        make(map[string][]*cat.Category),
		roots:       hashset.New(),
		cache:       make(map[uint64][]BinaryResult),
	}
}

// English builds the English grammar variant: the CCGbank combinator set
// plus the standard type-changing rules and root categories. Seen rules,
// the tag inventory and the category dictionary come from resource files
// (see LoadDir).
func English() *Grammar {
	g := New("en", []Combinator{
		{FwdApp}, {BwdApp}, {FwdComp}, {BwdComp}, {GenFwdComp},
		{BwdXComp}, {Conj}, {ConjAbsorb}, {RightPunct}, {LeftPunct},
	})
	for _, u := range [][2]string{
		{"N", "NP"},
		{"NP", "S[X]/(S[X]\\NP)"},
		{"S[pss]\\NP", "NP\\NP"},
		{"S[ng]\\NP", "NP\\NP"},
		{"S[adj]\\NP", "NP\\NP"},
		{"S[to]\\NP", "NP\\NP"},
		{"S[dcl]/NP", "NP\\NP"},
	} {
		g.AddUnary(cat.MustParse(u[0]), cat.MustParse(u[1]))
	}
	g.SetRoots(parseAll("S[dcl]", "S[wq]", "S[q]", "S[qem]", "NP"))
	return g
}

// Japanese builds the Japanese grammar variant. Japanese is head-final;
// every binary result is headed by its right child. Unary rules are
// model-specific and come from resource files.
func Japanese() *Grammar {
	g := New("ja", []Combinator{
		{FwdApp}, {BwdApp}, {FwdComp}, {BwdComp},
		{GenBwdComp2}, {GenBwdComp3}, {GenBwdComp4}, {SSEQ},
	})
	g.headFinal = true
	g.SetRoots(parseAll("S", "NP"))
	return g
}

func parseAll(notations ...string) []*cat.Category {
	cs := make([]*cat.Category, len(notations))
	for i, n := range notations {
		cs[i] = cat.MustParse(n)
	}
	return cs
}

// --- Table construction -----------------------------------------------

// AddUnary registers the type-changing rule child → parent.
func (g *Grammar) AddUnary(child, parent *cat.Category) {
	g.unary[child] = append(g.unary[child], parent)
	g.unaryInv[parent] = append(g.unaryInv[parent], child)
}

// AddSeenRule marks an ordered category pair as grammatically attested.
// Pairs are stored with features X and nb stripped.
func (g *Grammar) AddSeenRule(left, right *cat.Category) {
	g.seen.Add(seenKey(left, right))
}

// AddDictEntry restricts the candidate categories of a surface form.
func (g *Grammar) AddDictEntry(word string, cats []*cat.Category) {
	g.dict[word] = cats
}

// SetTagSet installs the supertag inventory. Column i of a tag-score
// matrix refers to tagset[i].
func (g *Grammar) SetTagSet(cats []*cat.Category) {
	g.tagset = cats
}

// SetRoots installs the admissible root categories.
func (g *Grammar) SetRoots(cats []*cat.Category) {
	g.roots.Clear()
	g.rootList = cats
	for _, c := range cats {
		g.roots.Add(c.ID())
	}
}

// --- Queries ----------------------------------------------------------

// ApplyBinary returns the set of legal parent categories for two
// adjacent subtree categories, deduplicated by parent category in
// combinator order. With useSeen enabled, pairs outside the seen-rules
// set yield no results at all.
func (g *Grammar) ApplyBinary(left, right *cat.Category, useSeen bool) []BinaryResult {
	if useSeen && !g.HasSeenRule(left, right) {
		return nil
	}
	key := pairKey(left, right)
	g.mu.RLock()
	results, ok := g.cache[key]
	g.mu.RUnlock()
	if ok {
		return results
	}
	results = g.combine(left, right)
	g.mu.Lock()
	g.cache[key] = results
	g.mu.Unlock()
	return results
}

func (g *Grammar) combine(left, right *cat.Category) []BinaryResult {
	var results []BinaryResult
	for _, comb := range g.combinators {
		parent, headLeft, ok := comb.Apply(left, right)
		if !ok {
			continue
		}
		if g.headFinal {
			headLeft = false
		}
		if duplicateParent(results, parent) {
			continue
		}
		tracer().Debugf("%s: %s  %s  →  %s", comb.ID, left, right, parent)
		results = append(results, BinaryResult{Cat: parent, Rule: comb.ID, HeadLeft: headLeft})
	}
	return results
}

func duplicateParent(results []BinaryResult, parent *cat.Category) bool {
	for _, r := range results {
		if r.Cat == parent {
			return true
		}
	}
	return false
}

// ApplyUnary returns the parents the unary table maps a child category to.
func (g *Grammar) ApplyUnary(child *cat.Category) []*cat.Category {
	return g.unary[child]
}

// UnarySources returns the children from which a category is reachable
// by one unary step. Constraint handling uses this to enumerate the
// categories a forced span may carry.
func (g *Grammar) UnarySources(parent *cat.Category) []*cat.Category {
	return g.unaryInv[parent]
}

// HasSeenRule tests the seen-rules filter for an ordered pair, comparing
// in normalized form.
func (g *Grammar) HasSeenRule(left, right *cat.Category) bool {
	return g.seen.Contains(seenKey(left, right))
}

// SeenRuleCount returns the size of the seen-rules set.
func (g *Grammar) SeenRuleCount() int {
	return g.seen.Size()
}

// IsRoot tells whether a category is an admissible root of a complete
// parse.
func (g *Grammar) IsRoot(c *cat.Category) bool {
	return g.roots.Contains(c.ID())
}

// Roots returns the admissible root categories.
func (g *Grammar) Roots() []*cat.Category {
	return g.rootList
}

// TagSet returns the supertag inventory in tag-matrix column order.
func (g *Grammar) TagSet() []*cat.Category {
	return g.tagset
}

// DictEntry returns the dictionary categories of a surface form, if the
// form has an entry.
func (g *Grammar) DictEntry(word string) ([]*cat.Category, bool) {
	cats, ok := g.dict[word]
	return cats, ok
}

// --- Keys -------------------------------------------------------------

func pairKey(left, right *cat.Category) uint64 {
	return uint64(uint32(left.ID()))<<32 | uint64(uint32(right.ID()))
}

func seenKey(left, right *cat.Category) uint64 {
	return pairKey(left.StripFeatures(), right.StripFeatures())
}
