package cat

import (
	"fmt"
	"sync"
)

// Slash is the direction of a functor category.
type Slash int8

// Directions for functor categories.
const (
	Forward  Slash = iota // X/Y: argument expected to the right
	Backward              // X\Y: argument expected to the left
)

func (sl Slash) String() string {
	if sl == Forward {
		return "/"
	}
	return "\\"
}

// FeatVar is the feature variable. An atomic category S[X] unifies with
// any S[…], binding X to the concrete feature.
const FeatVar = "X"

// Category is an immutable, interned CCG category term. Clients must not
// construct Category values themselves; use Atom, NewFunctor or Parse.
type Category struct {
	id      int32
	str     string // canonical notation
	base    string // atomic: base name, e.g. "S", "NP"
	feature string // atomic: bracket feature, e.g. "dcl", may be empty
	slash   Slash
	result  *Category // functor: category left of the slash
	arg     *Category // functor: category right of the slash
}

// --- Interning --------------------------------------------------------

var interner = struct {
	sync.RWMutex
	table map[string]*Category
	byID  []*Category
}{
	table: make(map[string]*Category),
}

// intern registers c under its canonical notation, returning the
// canonical instance.
func intern(c *Category) *Category {
	interner.RLock()
	if known, ok := interner.table[c.str]; ok {
		interner.RUnlock()
		return known
	}
	interner.RUnlock()
	interner.Lock()
	defer interner.Unlock()
	if known, ok := interner.table[c.str]; ok { // lost the race
		return known
	}
	c.id = int32(len(interner.byID))
	interner.table[c.str] = c
	interner.byID = append(interner.byID, c)
	tracer().Debugf("interned category #%d %s", c.id, c.str)
	return c
}

// Lookup finds an already interned category by its canonical notation.
func Lookup(s string) (*Category, bool) {
	interner.RLock()
	defer interner.RUnlock()
	c, ok := interner.table[s]
	return c, ok
}

// Count returns the number of interned categories.
func Count() int {
	interner.RLock()
	defer interner.RUnlock()
	return len(interner.byID)
}

// --- Construction -----------------------------------------------------

// Atom creates (or finds) an atomic category with an optional feature.
func Atom(base, feature string) *Category {
	c := &Category{base: base, feature: feature}
	if feature == "" {
		c.str = base
	} else {
		c.str = base + "[" + feature + "]"
	}
	return intern(c)
}

// NewFunctor creates (or finds) the functor category result/arg resp.
// result\arg.
func NewFunctor(result *Category, slash Slash, arg *Category) *Category {
	c := &Category{slash: slash, result: result, arg: arg}
	c.str = wrap(result) + slash.String() + wrap(arg)
	return intern(c)
}

func wrap(c *Category) string {
	if c.IsFunctor() {
		return "(" + c.str + ")"
	}
	return c.str
}

// --- Accessors --------------------------------------------------------

// ID returns the interning serial of the category. IDs are dense and
// start at 0; they are stable for the lifetime of the process.
func (c *Category) ID() int32 { return c.id }

func (c *Category) String() string { return c.str }

// IsFunctor tells whether c is a functor category X/Y or X\Y.
func (c *Category) IsFunctor() bool { return c.arg != nil }

// IsAtomic tells whether c is an atomic category.
func (c *Category) IsAtomic() bool { return c.arg == nil }

// Base returns the base name of an atomic category ("" for functors).
func (c *Category) Base() string { return c.base }

// Feature returns the bracket feature of an atomic category.
func (c *Category) Feature() string { return c.feature }

// Result returns X for a functor X/Y or X\Y, nil for atoms.
func (c *Category) Result() *Category { return c.result }

// Argument returns Y for a functor X/Y or X\Y, nil for atoms.
func (c *Category) Argument() *Category { return c.arg }

// SlashDir returns the direction of a functor category.
func (c *Category) SlashDir() Slash { return c.slash }

// IsModifier tells whether c is of shape X/X or X\X, comparing result and
// argument with the features X and nb stripped; other features must agree.
// Modifiers do not head the constituent they combine with.
func (c *Category) IsModifier() bool {
	return c.IsFunctor() && c.result.StripFeatures() == c.arg.StripFeatures()
}

// IsPunct tells whether c is one of the punctuation categories.
func (c *Category) IsPunct() bool {
	if !c.IsAtomic() {
		return false
	}
	switch c.base {
	case ",", ".", ";", ":", "LRB", "RRB":
		return true
	}
	return false
}

// --- Feature handling -------------------------------------------------

// Matches implements the unification test used by the combinators: an
// argument slot c accepts a candidate category other when both have the
// same structure and every atomic pair agrees on its base, with features
// matching exactly, or one side unannotated, or one side the variable X.
func (c *Category) Matches(other *Category) bool {
	if c == other {
		return true
	}
	if c.IsAtomic() != other.IsAtomic() {
		return false
	}
	if c.IsAtomic() {
		if c.base != other.base {
			return false
		}
		return c.feature == other.feature ||
			c.feature == "" || other.feature == "" ||
			c.feature == FeatVar || other.feature == FeatVar
	}
	return c.slash == other.slash &&
		c.result.Matches(other.result) &&
		c.arg.Matches(other.arg)
}

// FeatureBinding returns the concrete feature a value category binds the
// variable X of the pattern c to, or "" when no binding occurs.
func (c *Category) FeatureBinding(value *Category) string {
	if c.IsAtomic() {
		if value.IsAtomic() && c.feature == FeatVar && value.feature != FeatVar {
			return value.feature
		}
		return ""
	}
	if value.IsAtomic() {
		return ""
	}
	if b := c.result.FeatureBinding(value.result); b != "" {
		return b
	}
	return c.arg.FeatureBinding(value.arg)
}

// SubstFeature replaces every occurrence of the feature variable X in c
// by the given concrete feature.
func (c *Category) SubstFeature(feature string) *Category {
	if feature == "" {
		return c
	}
	if c.IsAtomic() {
		if c.feature == FeatVar {
			return Atom(c.base, feature)
		}
		return c
	}
	res := c.result.SubstFeature(feature)
	arg := c.arg.SubstFeature(feature)
	if res == c.result && arg == c.arg {
		return c
	}
	return NewFunctor(res, c.slash, arg)
}

// StripFeatures removes the features X and nb from a category term. The
// seen-rules filter compares categories in this normalized form.
func (c *Category) StripFeatures() *Category {
	if c.IsAtomic() {
		if c.feature == FeatVar || c.feature == "nb" {
			return Atom(c.base, "")
		}
		return c
	}
	res := c.result.StripFeatures()
	arg := c.arg.StripFeatures()
	if res == c.result && arg == c.arg {
		return c
	}
	return NewFunctor(res, c.slash, arg)
}

// WithFeature returns an atomic category with the given feature added,
// or c itself if c already carries a feature or is a functor.
func (c *Category) WithFeature(feature string) *Category {
	if !c.IsAtomic() || c.feature != "" {
		return c
	}
	return Atom(c.base, feature)
}

// --- Debugging --------------------------------------------------------

// GoString makes categories readable in debugging output.
func (c *Category) GoString() string {
	return fmt.Sprintf("cat(#%d %s)", c.id, c.str)
}
