package grammar

import (
	"github.com/npillmayer/ccgstar/cat"
)

// RuleID identifies a rule in a derivation tree. Binary combinators are a
// closed, enumerated set; grammar variants select which of them are active.
type RuleID int8

// The rule inventory.
const (
	FwdApp      RuleID = iota // X/Y  Y    → X
	BwdApp                    // Y  X\Y    → X
	FwdComp                   // X/Y  Y/Z  → X/Z
	BwdComp                   // Y\Z  X\Y  → X\Z
	GenFwdComp                // X/Y  (Y/Z)/W → (X/Z)/W
	BwdXComp                  // Y/Z  X\Y  → X/Z
	Conj                      // conj X    → X[conj]
	ConjAbsorb                // X  X[conj] → X
	LeftPunct                 // punct X   → X
	RightPunct                // X punct   → X
	SSEQ                      // S  S      → S (Japanese sentence sequencing)
	GenBwdComp2               // (Y|Z1)|Z2  X\Y → (X|Z1)|Z2
	GenBwdComp3               // generalized backward composition, order 3
	GenBwdComp4               // generalized backward composition, order 4
	Unary                     // unary type-changing rule
	Lex                       // lexical leaf
)

var ruleNames = [...]string{
	"fa", "ba", "fc", "bc", "gfc", "bx", "conj", "conj2", "lp", "rp",
	"sseq", "gbc2", "gbc3", "gbc4", "un", "lex",
}

func (id RuleID) String() string {
	if int(id) < len(ruleNames) {
		return ruleNames[id]
	}
	return "?"
}

// Combinator is one variant of the closed binary-rule sum. Application
// dispatches on the ID.
type Combinator struct {
	ID RuleID
}

// Apply attempts to combine two adjacent categories. It returns the
// parent category, the head side of the result, and whether the
// combinator is applicable at all.
//
// Head sides follow the functor-as-head convention: the functor child
// heads the result, except when the functor is a modifier (X/X resp.
// X\X), in which case the modified child is the head.
func (c Combinator) Apply(left, right *cat.Category) (parent *cat.Category, headLeft bool, ok bool) {
	switch c.ID {
	case FwdApp:
		parent, ok = forwardApp(left, right)
		headLeft = !left.IsModifier()
	case BwdApp:
		parent, ok = backwardApp(left, right)
		headLeft = right.IsModifier()
	case FwdComp:
		parent, ok = forwardComp(left, right)
		headLeft = !left.IsModifier()
	case BwdComp:
		parent, ok = backwardComp(left, right)
		headLeft = right.IsModifier()
	case GenFwdComp:
		parent, ok = genForwardComp(left, right)
		headLeft = !left.IsModifier()
	case BwdXComp:
		parent, ok = backwardXComp(left, right)
		headLeft = right.IsModifier()
	case Conj:
		parent, ok = conjoin(left, right)
		headLeft = false
	case ConjAbsorb:
		parent, ok = conjAbsorb(left, right)
		headLeft = true
	case LeftPunct:
		if left.IsPunct() && !right.IsPunct() {
			parent, ok = right, true
		}
		headLeft = false
	case RightPunct:
		if right.IsPunct() && !left.IsPunct() {
			parent, ok = left, true
		}
		headLeft = true
	case SSEQ:
		parent, ok = sseq(left, right)
		headLeft = false
	case GenBwdComp2:
		parent, ok = genBackwardComp(left, right, 2)
		headLeft = false
	case GenBwdComp3:
		parent, ok = genBackwardComp(left, right, 3)
		headLeft = false
	case GenBwdComp4:
		parent, ok = genBackwardComp(left, right, 4)
		headLeft = false
	}
	return
}

// --- The combinator variants ------------------------------------------

// X/Y  Y  →  X
func forwardApp(left, right *cat.Category) (*cat.Category, bool) {
	if !left.IsFunctor() || left.SlashDir() != cat.Forward {
		return nil, false
	}
	if !left.Argument().Matches(right) {
		return nil, false
	}
	binding := left.Argument().FeatureBinding(right)
	return left.Result().SubstFeature(binding), true
}

// Y  X\Y  →  X
func backwardApp(left, right *cat.Category) (*cat.Category, bool) {
	if !right.IsFunctor() || right.SlashDir() != cat.Backward {
		return nil, false
	}
	if !right.Argument().Matches(left) {
		return nil, false
	}
	binding := right.Argument().FeatureBinding(left)
	return right.Result().SubstFeature(binding), true
}

// X/Y  Y/Z  →  X/Z
func forwardComp(left, right *cat.Category) (*cat.Category, bool) {
	if !left.IsFunctor() || left.SlashDir() != cat.Forward {
		return nil, false
	}
	if !right.IsFunctor() || right.SlashDir() != cat.Forward {
		return nil, false
	}
	if !left.Argument().Matches(right.Result()) {
		return nil, false
	}
	binding := left.Argument().FeatureBinding(right.Result())
	x := left.Result().SubstFeature(binding)
	return cat.NewFunctor(x, cat.Forward, right.Argument()), true
}

// Y\Z  X\Y  →  X\Z
func backwardComp(left, right *cat.Category) (*cat.Category, bool) {
	if !left.IsFunctor() || left.SlashDir() != cat.Backward {
		return nil, false
	}
	if !right.IsFunctor() || right.SlashDir() != cat.Backward {
		return nil, false
	}
	if !right.Argument().Matches(left.Result()) {
		return nil, false
	}
	binding := right.Argument().FeatureBinding(left.Result())
	x := right.Result().SubstFeature(binding)
	return cat.NewFunctor(x, cat.Backward, left.Argument()), true
}

// X/Y  (Y/Z)/W  →  (X/Z)/W
func genForwardComp(left, right *cat.Category) (*cat.Category, bool) {
	if !left.IsFunctor() || left.SlashDir() != cat.Forward {
		return nil, false
	}
	if !right.IsFunctor() || right.SlashDir() != cat.Forward {
		return nil, false
	}
	inner := right.Result()
	if !inner.IsFunctor() || inner.SlashDir() != cat.Forward {
		return nil, false
	}
	if !left.Argument().Matches(inner.Result()) {
		return nil, false
	}
	binding := left.Argument().FeatureBinding(inner.Result())
	x := left.Result().SubstFeature(binding)
	xz := cat.NewFunctor(x, cat.Forward, inner.Argument())
	return cat.NewFunctor(xz, cat.Forward, right.Argument()), true
}

// Y/Z  X\Y  →  X/Z  (crossed)
func backwardXComp(left, right *cat.Category) (*cat.Category, bool) {
	if !left.IsFunctor() || left.SlashDir() != cat.Forward {
		return nil, false
	}
	if !right.IsFunctor() || right.SlashDir() != cat.Backward {
		return nil, false
	}
	if !right.Argument().Matches(left.Result()) {
		return nil, false
	}
	binding := right.Argument().FeatureBinding(left.Result())
	x := right.Result().SubstFeature(binding)
	return cat.NewFunctor(x, cat.Forward, left.Argument()), true
}

// conj X → X[conj]. A functor conjunct becomes a modifier X\X, the
// classical coordination treatment for non-atomic categories.
func conjoin(left, right *cat.Category) (*cat.Category, bool) {
	if !left.IsAtomic() {
		return nil, false
	}
	switch left.Base() {
	case "conj", ",", ";":
	default:
		return nil, false
	}
	if right.IsPunct() {
		return nil, false
	}
	if right.IsAtomic() {
		if right.Feature() != "" {
			return nil, false
		}
		return right.WithFeature("conj"), true
	}
	return cat.NewFunctor(right, cat.Backward, right), true
}

// X  X[conj]  →  X
func conjAbsorb(left, right *cat.Category) (*cat.Category, bool) {
	if !left.IsAtomic() || !right.IsAtomic() {
		return nil, false
	}
	if right.Feature() != "conj" || left.Base() != right.Base() {
		return nil, false
	}
	return left, true
}

// S  S  →  S for identical sentence categories (Japanese clause
// sequencing).
func sseq(left, right *cat.Category) (*cat.Category, bool) {
	if left != right || targetBase(left) != "S" {
		return nil, false
	}
	return left, true
}

// genBackwardComp composes right = X\Y into the order-th nested result
// of left: (…(Y|Z1)…)|Zn  X\Y → (…(X|Z1)…)|Zn. Slashes of the peeled
// arguments are preserved, so crossed variants are covered.
func genBackwardComp(left, right *cat.Category, order int) (*cat.Category, bool) {
	if !right.IsFunctor() || right.SlashDir() != cat.Backward {
		return nil, false
	}
	return composeInto(left, right, order)
}

func composeInto(left, right *cat.Category, depth int) (*cat.Category, bool) {
	if depth == 0 {
		if !right.Argument().Matches(left) {
			return nil, false
		}
		binding := right.Argument().FeatureBinding(left)
		return right.Result().SubstFeature(binding), true
	}
	if !left.IsFunctor() {
		return nil, false
	}
	inner, ok := composeInto(left.Result(), right, depth-1)
	if !ok {
		return nil, false
	}
	return cat.NewFunctor(inner, left.SlashDir(), left.Argument()), true
}

// targetBase returns the base of the innermost result category, i.e. the
// atomic category a functor ultimately produces.
func targetBase(c *cat.Category) string {
	for c.IsFunctor() {
		c = c.Result()
	}
	return c.Base()
}
