package astar

import "errors"

// Errors surfaced per sentence. A failing sentence never aborts its
// batch; the caller finds the error in the sentence's Result.
var (
	// ErrShapeMismatch reports score matrices disagreeing with the
	// sentence length or the tag inventory.
	ErrShapeMismatch = errors.New("score matrix shape does not match sentence")

	// ErrGrammarInconsistency reports a constraint referencing a
	// category the grammar's inventory does not contain.
	ErrGrammarInconsistency = errors.New("constraint category not in grammar inventory")
)

// Diag is a per-sentence diagnostic code. Diagnostics are not errors:
// a sentence with a non-zero Diag still yields its (possibly empty)
// parse list.
type Diag int8

// Diagnostic codes.
const (
	DiagNone            Diag = iota
	DiagSearchExhausted      // agenda emptied before any complete parse
	DiagStepLimit            // max_steps reached
	DiagLengthExceeded       // sentence longer than max_length, skipped
)

func (d Diag) String() string {
	switch d {
	case DiagNone:
		return "ok"
	case DiagSearchExhausted:
		return "search exhausted"
	case DiagStepLimit:
		return "step limit exceeded"
	case DiagLengthExceeded:
		return "length exceeded"
	}
	return "?"
}
