/*
Package grammar implements the rule machinery of a CCG grammar variant.

A grammar consists of a fixed, enumerated set of binary combinators, a
unary type-changing table, an optional seen-rules filter, an optional
lexical category dictionary, the supertag inventory and the set of
admissible root categories. Two rule tables are built in, English() and
Japanese(); both share the grammar-agnostic application machinery.

All tables are built once during setup and are safe for concurrent
read-only use afterwards. The one exception is the binary-rule cache,
which memoizes combinator application per category pair behind a
read/write lock, as composition may produce category pairs unseen at
setup time.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ccgstar.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("ccgstar.grammar")
}
