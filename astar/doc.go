/*
Package astar implements best-first CCG chart parsing.

The parser enumerates derivations for one sentence by combining lexical
categories with the grammar's combinators, driven by an agenda ordered on
inside score plus an admissible outside estimate. With that estimate the
first complete parse popped from the agenda is the highest-scoring one;
N-best parsing continues popping until N distinct complete parses have
surfaced.

Sentences are independent of each other: Parser.ParseBatch fans a batch
out to a worker pool, with one single-threaded search per sentence and
results aligned to input order.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package astar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ccgstar.astar'.
func tracer() tracing.Trace {
	return tracing.Select("ccgstar.astar")
}
