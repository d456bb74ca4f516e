/*
Package cat implements CCG category terms.

A category is either atomic, like NP or S[dcl], or a functor X/Y resp. X\Y,
where X and Y are categories themselves. Atomic categories may carry a
feature annotation in brackets. Categories are immutable and interned in a
process-wide table: two categories are equal iff they are the same pointer.

The interning table is filled eagerly while grammar resources are loaded,
but stays available (lock-guarded) afterwards, as composition combinators
may build functors which never occur in any resource file.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cat

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ccgstar.cat'.
func tracer() tracing.Trace {
	return tracing.Select("ccgstar.cat")
}
