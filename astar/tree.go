package astar

import (
	"strings"

	"github.com/cnf/structhash"
	ccgstar "github.com/npillmayer/ccgstar"
	"github.com/npillmayer/ccgstar/cat"
	"github.com/npillmayer/ccgstar/grammar"
)

// Node is one derivation node. Nodes are immutable once constructed and
// may be shared between several parents: derivations form a DAG, with
// ownership shared among parents and the chart until the sentence is
// done.
//
// A node is one of three variants:
//
//	leaf:   Left == nil, Right == nil; carries Position, Word, LexLP
//	unary:  Left != nil, Right == nil; Rule == grammar.Unary
//	binary: both children set; Rule identifies the combinator
type Node struct {
	Cat      *cat.Category
	Extent   ccgstar.Span
	Rule     grammar.RuleID
	Left     *Node
	Right    *Node
	HeadLeft bool // binary: which child heads the result

	Position int     // leaf: token index
	Word     string  // leaf: surface form
	LexLP    float64 // leaf: lexical log-probability

	Head   int     // token index of the lexical head of this subtree
	Inside float64 // inside score, cached
}

// IsLeaf tells whether n is a lexical leaf.
func (n *Node) IsLeaf() bool { return n.Left == nil }

// IsUnary tells whether n was produced by a unary type-changing rule.
func (n *Node) IsUnary() bool { return n.Left != nil && n.Right == nil }

// Leaves appends the lexical leaves of n, left to right, to buf.
func (n *Node) Leaves(buf []*Node) []*Node {
	if n.IsLeaf() {
		return append(buf, n)
	}
	buf = n.Left.Leaves(buf)
	if n.Right != nil {
		buf = n.Right.Leaves(buf)
	}
	return buf
}

// Bracketed renders the derivation in a compact bracketed form, e.g.
//
//	(ba S[dcl] (lex NP John) (lex S[dcl]\NP runs))
func (n *Node) Bracketed() string {
	var b strings.Builder
	n.bracket(&b)
	return b.String()
}

func (n *Node) bracket(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.Rule.String())
	b.WriteByte(' ')
	b.WriteString(n.Cat.String())
	if n.IsLeaf() {
		b.WriteByte(' ')
		b.WriteString(n.Word)
	} else {
		b.WriteByte(' ')
		n.Left.bracket(b)
		if n.Right != nil {
			b.WriteByte(' ')
			n.Right.bracket(b)
		}
	}
	b.WriteByte(')')
}

// --- Duplicate suppression --------------------------------------------

// nodeSig mirrors the shape of a derivation with exported fields only,
// as input for structural hashing.
type nodeSig struct {
	Cat  string
	Rule string
	Word string
	Kids []nodeSig
}

func signatureOf(n *Node) nodeSig {
	sig := nodeSig{Cat: n.Cat.String(), Rule: n.Rule.String(), Word: n.Word}
	if n.Left != nil {
		sig.Kids = append(sig.Kids, signatureOf(n.Left))
	}
	if n.Right != nil {
		sig.Kids = append(sig.Kids, signatureOf(n.Right))
	}
	return sig
}

// hash produces a structural fingerprint of the derivation. N-best
// extraction discards trees whose fingerprint has been emitted before.
func (n *Node) hash() [16]byte {
	var fp [16]byte
	copy(fp[:], structhash.Md5(signatureOf(n), 1))
	return fp
}

// --- Derivation rendering ---------------------------------------------

// Derivation renders the tree in the usual CCG proof style, with words
// on top, lexical categories below, and one rule line per combination:
//
//	 John    runs
//	  NP   S[dcl]\NP
//	---------------ba
//	     S[dcl]
func (n *Node) Derivation() string {
	leaves := n.Leaves(nil)
	offset := leaves[0].Position
	// single-token spans must be wide enough for every category they
	// carry, type-changed ones included
	narrow := make(map[int]int)
	n.eachNode(func(m *Node) {
		if m.Extent.Len() == 1 {
			if w := len(m.Cat.String()); w > narrow[m.Extent.From()] {
				narrow[m.Extent.From()] = w
			}
		}
	})
	widths := make([]int, len(leaves))
	starts := make([]int, len(leaves)+1)
	pos := 0
	for i, leaf := range leaves {
		w := len(leaf.Word)
		if c := narrow[leaf.Position]; c > w {
			w = c
		}
		widths[i] = w + 2
		starts[i] = pos
		pos += widths[i]
	}
	starts[len(leaves)] = pos

	var lines []string
	words := make([]byte, pos)
	cats := make([]byte, pos)
	fill(words, ' ')
	fill(cats, ' ')
	for i, leaf := range leaves {
		center(words, starts[i], starts[i+1], leaf.Word)
		center(cats, starts[i], starts[i+1], leaf.Cat.String())
	}
	lines = append(lines, string(words), string(cats))

	byHeight := make(map[int][]*Node)
	maxHeight := collectByHeight(n, byHeight)
	for h := 1; h <= maxHeight; h++ {
		rule := make([]byte, pos)
		cats := make([]byte, pos)
		fill(rule, ' ')
		fill(cats, ' ')
		for _, node := range byHeight[h] {
			from := starts[node.Extent.From()-offset]
			to := starts[node.Extent.To()-offset]
			for i := from; i < to; i++ {
				rule[i] = '-'
			}
			name := node.Rule.String()
			if len(name) < to-from {
				copy(rule[to-len(name):to], name)
			}
			center(cats, from, to, node.Cat.String())
		}
		lines = append(lines, string(rule), string(cats))
	}
	return strings.Join(lines, "\n")
}

// eachNode visits every node of the derivation, parents first.
func (n *Node) eachNode(visit func(*Node)) {
	visit(n)
	if n.Left != nil {
		n.Left.eachNode(visit)
	}
	if n.Right != nil {
		n.Right.eachNode(visit)
	}
}

// collectByHeight groups internal nodes by their height above the
// leaves and returns the height of the root.
func collectByHeight(n *Node, acc map[int][]*Node) int {
	if n.IsLeaf() {
		return 0
	}
	h := collectByHeight(n.Left, acc)
	if n.Right != nil {
		if rh := collectByHeight(n.Right, acc); rh > h {
			h = rh
		}
	}
	h++
	acc[h] = append(acc[h], n)
	return h
}

func fill(buf []byte, ch byte) {
	for i := range buf {
		buf[i] = ch
	}
}

func center(buf []byte, from, to int, s string) {
	pad := (to - from - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	copy(buf[from+pad:], s)
}
