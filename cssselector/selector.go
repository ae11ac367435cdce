// Package cssselector implements a CSS Selectors Level 4 parser: simple
// and compound selectors, combinators, functional pseudo-classes
// (:is/:not/:where/:has/:nth-child(An+B of S)/etc.), and specificity
// computation.
//
// The grammar and the contextual validity rules (pseudo-element ordering,
// forgiving vs. non-forgiving argument lists) are grounded on the shape
// of a minifier's internal/css_parser/css_parser_selector.go, which
// implements the same grammar against the same token stream model
// (csslex.Token here plays the same role as that parser's
// css_lexer.Token). Unlike that parser's recursive-descent
// parseSelectorList/parseComplexSelector, this package uses an explicit
// frame stack (see parser.go) so a pathologically nested selector like
// `:is(:is(:is(...)))` cannot exhaust the Go call stack -- a deliberate
// generalization beyond what that reference parser needs.
package cssselector

// CombinatorKind is the relationship between a compound selector and the
// one that follows it in a complex selector.
type CombinatorKind uint8

const (
	CombinatorDescendant    CombinatorKind = iota // "A B"
	CombinatorChild                               // "A > B"
	CombinatorNextSibling                         // "A + B"
	CombinatorLaterSibling                         // "A ~ B"
	CombinatorColumn                               // "A || B"
	CombinatorDeepDescendant                       // "A >>> B" (legacy Shadow DOM)
	CombinatorDeep                                 // "A /deep/ B" (legacy Shadow DOM, Vue/Angular convention)
)

func (k CombinatorKind) String() string {
	switch k {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return ">"
	case CombinatorNextSibling:
		return "+"
	case CombinatorLaterSibling:
		return "~"
	case CombinatorColumn:
		return "||"
	case CombinatorDeepDescendant:
		return ">>>"
	case CombinatorDeep:
		return "/deep/"
	}
	return "?"
}

// SimpleKind tags the variant held by a Simple selector component.
type SimpleKind uint8

const (
	SimpleUniversal SimpleKind = iota
	SimpleType
	SimpleID
	SimpleClass
	SimpleAttribute
	SimplePseudoClass
	SimplePseudoElement
	SimpleNesting // "&"
)

func (k SimpleKind) String() string {
	switch k {
	case SimpleUniversal:
		return "universal"
	case SimpleType:
		return "type"
	case SimpleID:
		return "id"
	case SimpleClass:
		return "class"
	case SimpleAttribute:
		return "attribute"
	case SimplePseudoClass:
		return "pseudo-class"
	case SimplePseudoElement:
		return "pseudo-element"
	case SimpleNesting:
		return "nesting"
	}
	return "?"
}

// AttrMatch is the attribute-selector comparison operator.
type AttrMatch uint8

const (
	AttrExists     AttrMatch = iota // [attr]
	AttrEquals                      // [attr=val]
	AttrIncludes                    // [attr~=val]
	AttrDashMatch                   // [attr|=val]
	AttrPrefix                      // [attr^=val]
	AttrSuffix                      // [attr$=val]
	AttrSubstring                   // [attr*=val]
)

// AttrCaseSensitivity is the optional "i"/"s" flag in [attr=val i].
type AttrCaseSensitivity uint8

const (
	AttrCaseDefault AttrCaseSensitivity = iota
	AttrCaseInsensitive
	AttrCaseSensitive
)

// Simple is one simple selector: a type/universal/id/class/attribute/
// pseudo-class/pseudo-element/nesting component within a compound
// selector.
type Simple struct {
	Kind SimpleKind

	// Namespace is set for SimpleType/SimpleUniversal/SimpleAttribute when
	// a namespace prefix ("ns|name", "*|name", "|name") was present.
	Namespace      string
	HasNamespace   bool
	NamespaceIsAny bool // "*|name"

	// Name is the tag name / id / class name / pseudo name, as appropriate.
	Name string

	// Attribute-selector fields.
	AttrMatch     AttrMatch
	AttrValue     string
	AttrCase      AttrCaseSensitivity

	// Functional pseudo-class/element argument, when the pseudo took one.
	// At most one of these is populated, depending on what the pseudo
	// argument grammar requires.
	ANB          *ANB          // :nth-child(An+B [of S]) and siblings
	SelectorArg  *SelectorList // :is()/:not()/:where()/:has()/::slotted()
	IdentArg     string        // :dir(ltr)/:lang(en)/::part(name) etc.
	IdentArgs    []string      // ::part(a b)/:lang(en, fr)

	// IsCustomFunction marks a functional pseudo-class whose name this
	// parser does not recognize; RawArg then holds its argument exactly as
	// it appeared in the source (unparsed), so callers building a property-
	// value grammar on top of this one can still round-trip an unknown
	// function instead of failing the whole selector.
	IsCustomFunction bool
	RawArg           string
}

// Compound is a sequence of simple selectors with no combinator between
// them ("div.foo#bar:hover").
type Compound struct {
	Simples []Simple
}

// Complex is a sequence of Compounds joined by combinators:
// compound[0] combinator[0] compound[1] combinator[1] compound[2] ...
// len(Combinators) == len(Compounds)-1.
type Complex struct {
	Compounds   []Compound
	Combinators []CombinatorKind
}

// SelectorList is a comma-separated list of complex selectors -- the top
// level production, and also what a functional pseudo-class like :is()
// takes as its argument.
type SelectorList struct {
	Selectors []Complex
}

// Specificity is the packed (id-count, class-count, type-count) triple CSS
// Selectors Level 4 §17 defines, stored as three independent ints so
// overflow in one category never corrupts another -- a packed-integer
// encoding is tempting but assumes small bounded counts, and a selector
// can in principle repeat a category an unbounded number of times, so
// this keeps the three categories apart instead.
type Specificity struct {
	IDs, Classes, Elements int
}

// Add returns the element-wise sum of two specificities, used both to
// accumulate a compound/complex selector's total across its simples and
// compounds, and for :nth-child(An+B of S)'s own class weight plus the
// max specificity of its "of S" argument list.
func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{IDs: s.IDs + o.IDs, Classes: s.Classes + o.Classes, Elements: s.Elements + o.Elements}
}

// Less orders specificities per the CSS cascade: compare IDs, then
// Classes, then Elements, most significant first.
func (s Specificity) Less(o Specificity) bool {
	if s.IDs != o.IDs {
		return s.IDs < o.IDs
	}
	if s.Classes != o.Classes {
		return s.Classes < o.Classes
	}
	return s.Elements < o.Elements
}

// ANB is a parsed An+B microsyntax value (CSS Syntax Level 3 Appendix B /
// CSS Selectors Level 4 §17), optionally followed by "of <selector-list>"
// for :nth-child(An+B of S).
type ANB struct {
	A, B int
	Of   *SelectorList
}

// Matches reports whether ANB matches 1-based index n, i.e. whether there
// exists a non-negative integer k with n == A*k + B.
func (anb ANB) Matches(n int) bool {
	if anb.A == 0 {
		return n == anb.B
	}
	k := (n - anb.B)
	if k%anb.A != 0 {
		return false
	}
	return k/anb.A >= 0
}

// legacyPseudoElements is the set of identifier-form pseudo-elements
// recognized with one leading colon for legacy compatibility, per CSS
// Selectors Level 4 §13's handling of ::before/::after and friends.
var legacyPseudoElements = map[string]bool{
	"before":      true,
	"after":       true,
	"first-line":  true,
	"first-letter": true,
}

func isLegacyPseudoElement(name string) bool { return legacyPseudoElements[name] }

// forgivingPseudos take a <forgiving-selector-list>: invalid selectors
// inside are dropped rather than invalidating the whole argument, per CSS
// Selectors Level 4 §4.
var forgivingPseudos = map[string]bool{
	"is":    true,
	"where": true,
}

// nonForgivingFunctional take a plain <complex-selector-list> (or
// <relative-selector-list> for :has); one invalid selector invalidates the
// whole argument.
var nonForgivingFunctional = map[string]bool{
	"not":         true,
	"has":         true,
	"matches":     true, // legacy alias some engines still ship
	"-webkit-any": true, // legacy alias, historically non-forgiving
	"-moz-any":    true,
}

func isRecognizedFunctionalPseudoClass(name string) bool {
	switch name {
	case "is", "where", "not", "has", "nth-child", "nth-last-child",
		"nth-of-type", "nth-last-of-type", "nth-col", "nth-last-col",
		"dir", "lang", "host", "host-context", "matches",
		"-webkit-any", "-moz-any", "current":
		return true
	}
	return false
}

func isRecognizedFunctionalPseudoElement(name string) bool {
	switch name {
	case "slotted", "part", "highlight",
		"view-transition-group", "view-transition-image-pair", "view-transition-old", "view-transition-new":
		return true
	}
	return false
}

// webkitScrollbarPseudoElements are the non-standard pseudo-elements
// WebKit/Blink expose for styling scrollbar parts. CSS Selectors Level 4
// permits engines to keep their own pre-standard pseudo-element/pseudo-
// class ordering rules for these, so a state pseudo-class may legally
// follow one even though pseudo-classes may not generally follow a
// pseudo-element.
var webkitScrollbarPseudoElements = map[string]bool{
	"-webkit-scrollbar":            true,
	"-webkit-scrollbar-button":     true,
	"-webkit-scrollbar-thumb":      true,
	"-webkit-scrollbar-track":      true,
	"-webkit-scrollbar-track-piece": true,
	"-webkit-scrollbar-corner":     true,
	"-webkit-resizer":              true,
}

// webkitScrollbarStatePseudoClasses are the state pseudo-classes allowed to
// follow a WebKit scrollbar pseudo-element.
var webkitScrollbarStatePseudoClasses = map[string]bool{
	"horizontal":      true,
	"vertical":        true,
	"decrement":       true,
	"increment":       true,
	"start":           true,
	"end":             true,
	"double-button":   true,
	"single-button":   true,
	"no-button":       true,
	"corner-present":  true,
	"window-inactive": true,
}

func isWebkitScrollbarPseudoElement(name string) bool { return webkitScrollbarPseudoElements[name] }

// viewTransitionPseudoElements are the CSS View Transitions pseudo-elements;
// only :only-*/:nth-* pseudo-classes are permitted after them (to select a
// specific transition group/pair).
var viewTransitionPseudoElements = map[string]bool{
	"view-transition":            true,
	"view-transition-group":      true,
	"view-transition-image-pair": true,
	"view-transition-old":        true,
	"view-transition-new":        true,
}

func isViewTransitionPseudoElement(name string) bool { return viewTransitionPseudoElements[name] }

func isOnlyOrNthPseudoClass(name string) bool {
	return len(name) > 5 && name[:5] == "only-" || len(name) > 4 && name[:4] == "nth-"
}

// pseudoClassAllowedAfterPseudoElement reports whether className may
// follow elementName despite the general "no pseudo-class after most
// pseudo-elements" rule: WebKit's scrollbar state pseudo-classes, and
// :only-*/:nth-* after a View Transitions pseudo-element, are the two
// named exceptions.
func pseudoClassAllowedAfterPseudoElement(elementName, className string) bool {
	if isWebkitScrollbarPseudoElement(elementName) && webkitScrollbarStatePseudoClasses[className] {
		return true
	}
	if isViewTransitionPseudoElement(elementName) && isOnlyOrNthPseudoClass(className) {
		return true
	}
	return false
}
