/*
Package ccgstar is a probabilistic A*-parser for Combinatory Categorial Grammar.

CCG* takes a tokenized sentence together with two dense score matrices — a
supertag distribution over a fixed category inventory and a head-dependency
distribution over token positions — and returns the N highest-scoring CCG
derivations. The score matrices are produced by an external tagger; CCG*
itself is the search engine. Package structure is as follows:

■ cat: Package cat implements CCG category terms, their textual notation and
a process-wide interning table.

■ grammar: Package grammar implements the binary combinators, unary
type-changing rules, the seen-rules filter and the lexical category
dictionary, with rule tables for English and Japanese.

■ astar: Package astar implements the best-first chart search: agenda,
chart, pruning, admissible heuristics, dependency scoring and N-best
extraction.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ccgstar
