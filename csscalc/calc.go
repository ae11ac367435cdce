// Package csscalc implements a parser and constant-folding simplifier for
// CSS math functions: calc(), min(), max(), clamp(), round(), mod(),
// rem(), abs(), sign(), and the trigonometric/exponential functions
// (sin/cos/tan/asin/acos/atan/atan2/pow/sqrt/hypot/log/exp), per CSS
// Values and Units Level 4 §10-11.
//
// The term-tree shape (Sum/Product/Negate/Invert/Numeric/Value nodes, each
// able to convert back to a token and partially simplify) is grounded on
// a minifier's internal/css_parser/css_reduce_calc.go calcTerm tree. That
// file only reduces an already-parsed AST (a bundler parses calc() as part
// of its general component-value grammar upstream); this package adds the
// parsing half rust-cssparser style, using an explicit frame stack so
// deeply nested calculations (calc(calc(calc(...)))) can't exhaust the Go
// call stack, matching cssselector's approach to the same problem.
package csscalc

import (
	"strings"

	"github.com/cssdialect/cssengine/csslex"
)

// Unit identifies the dimension family a Calc value belongs to, used only
// to reject nonsensical additions (length + angle) during simplification;
// a reduceCalc pass performs the analogous check against its own
// css_ast.Token unit categories.
type Unit string

// Value is a leaf numeric value: either a plain number, a percentage, or a
// dimensioned quantity. V is typically float64 but is generic so a
// consumer can carry its own numeric representation (fixed-point, etc.)
// through the tree if desired.
type Value[V any] struct {
	Num  V
	Unit Unit // "" for a bare number, "%" for a percentage
}

// NodeKind tags the variant held by an Expr.
type NodeKind uint8

const (
	NodeValue NodeKind = iota
	NodeSum
	NodeProduct
	NodeNegate
	NodeInvert
	NodeFunction
)

// Expr is one node of a calc() expression tree.
type Expr[V any] struct {
	Kind NodeKind

	// NodeValue payload.
	Value Value[V]

	// NodeSum / NodeProduct payload: two or more operands. For NodeSum,
	// every operand's natural sign is already folded in (so
	// "a - b" is Sum{a, Negate{b}}, matching a calcSum term's shape).
	Operands []*Expr[V]

	// NodeNegate / NodeInvert payload: exactly one operand.
	Operand *Expr[V]

	// NodeFunction payload: a math function this tree doesn't try to fold
	// structurally (min/max/clamp/round/mod/rem/abs/sign/the trig and
	// exponential functions), kept as a name plus its already-parsed
	// argument subtrees.
	FuncName string
	Args     []*Expr[V]
}

// Ops abstracts the arithmetic csscalc needs over V, so the package works
// over plain float64 or a consumer's own numeric type.
type Ops[V any] interface {
	Add(a, b V) V
	Mul(a, b V) V
	Neg(a V) V
	Inv(a V) (V, bool) // false if a is zero
	FromFloat(f float64) V
	ToFloat(v V) float64
}

// Float64Ops is the Ops implementation used when V is float64 (the common
// case, and the value type ParseSum and ParseMathFunction produce).
type Float64Ops struct{}

func (Float64Ops) Add(a, b float64) float64    { return a + b }
func (Float64Ops) Mul(a, b float64) float64    { return a * b }
func (Float64Ops) Neg(a float64) float64       { return -a }
func (Float64Ops) Inv(a float64) (float64, bool) {
	if a == 0 {
		return 0, false
	}
	return 1 / a, true
}
func (Float64Ops) FromFloat(f float64) float64 { return f }
func (Float64Ops) ToFloat(v float64) float64   { return v }

// mathFunctionNames is the set of function-token names this package
// recognizes as calc-family functions, per CSS Values and Units Level 4.
// "calc" wraps a single sum; the rest take a comma-separated argument
// list whose simplification semantics are specific to each function (see
// Simplify).
var mathFunctionNames = map[string]bool{
	"calc": true, "min": true, "max": true, "clamp": true,
	"round": true, "mod": true, "rem": true, "abs": true, "sign": true,
	"sin": true, "cos": true, "tan": true, "asin": true, "acos": true,
	"atan": true, "atan2": true, "pow": true, "sqrt": true, "hypot": true,
	"log": true, "exp": true,
}

// IsMathFunctionName reports whether name (case-insensitive) is a
// recognized CSS math function.
func IsMathFunctionName(name string) bool {
	return mathFunctionNames[strings.ToLower(name)]
}

// knownUnits is used to validate a Dimension token's unit against the CSS
// length/angle/time/frequency/resolution unit tables rather than accepting
// any identifier as a unit. A minifier's compat/css_table.go tracks a
// different axis -- browser compatibility -- not the unit grammar itself,
// so this table is authored directly from the Values and Units spec.
var knownUnits = map[string]bool{
	"px": true, "cm": true, "mm": true, "q": true, "in": true, "pt": true, "pc": true,
	"em": true, "rem": true, "ex": true, "rex": true, "ch": true, "rch": true,
	"ic": true, "ric": true, "lh": true, "rlh": true,
	"vw": true, "vh": true, "vi": true, "vb": true, "vmin": true, "vmax": true,
	"svw": true, "svh": true, "lvw": true, "lvh": true, "dvw": true, "dvh": true,
	"cqw": true, "cqh": true, "cqi": true, "cqb": true, "cqmin": true, "cqmax": true,
	"deg": true, "grad": true, "rad": true, "turn": true,
	"s": true, "ms": true, "hz": true, "khz": true,
	"dpi": true, "dpcm": true, "dppx": true, "x": true,
	"fr": true,
}

// IsKnownUnit reports whether unit (case-insensitive) is a recognized CSS
// dimension unit.
func IsKnownUnit(unit string) bool {
	return knownUnits[strings.ToLower(unit)]
}

func tokenUnit(tok csslex.Token) Unit {
	switch tok.Kind {
	case csslex.TPercentage:
		return "%"
	case csslex.TDimension:
		return Unit(strings.ToLower(tok.Unit.String()))
	}
	return ""
}
