package ccgstar

import "fmt"

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a contiguous run of input tokens.
// Every leaf and every derivation node covers a span of the sentence.
// A span denotes a start position and the position just behind the end.
type Span [2]int // (x…y)

// SpanOf creates a span from a start position and a length.
func SpanOf(start, length int) Span {
	return Span{start, start + length}
}

// From returns the start value of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() int {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the union of two adjacent or overlapping spans.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

// Crosses tells whether two spans overlap partially, i.e., neither
// contains the other and they are not disjoint. Crossing spans cannot
// both occur in one derivation tree.
func (s Span) Crosses(other Span) bool {
	if s[0] > other[0] {
		s, other = other, s
	}
	return s[0] < other[0] && other[0] < s[1] && s[1] < other[1]
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
