// Package cssvalue implements the "value grammar glue" layer: thin
// recognizers for the dimensioned value types CSS property grammars are
// built from (length, angle, time, frequency, resolution, percentage,
// ratio) plus a predicate-level recognizer for <image>/<gradient>
// function names. It sits above csslex/cssparse the same way
// cssselector/csscalc/csscolor do, and deliberately stops short of the
// per-property "syntax string" binding layer spec.md excludes: this
// package answers "is this token/sequence a length?" and "what number of
// canonical units does it represent?", not "is this a valid value for
// the 'margin' property?".
//
// Grounded on a minifier's internal/css_parser/css_decls.go and
// css_decls_color.go, which both independently hand-roll a
// degreesForAngle(token) helper for exactly this purpose (angle-unit-to-
// degrees conversion ahead of a specific declaration's lowering logic);
// this package generalizes that single-purpose helper into the full set
// of CSS Values and Units Level 4 dimension families, and adds a ratio
// recognizer (absent from the teacher, since esbuild never needs to
// parse aspect-ratio's value shape) plus an image/gradient name
// predicate grounded on css_decls_gradient.go's parseGradient function-
// name switch.
package cssvalue

import (
	"strings"

	"github.com/cssdialect/cssengine/csslex"
)

// Kind identifies which CSS Values and Units Level 4 dimension family a
// unit belongs to.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLength
	KindAngle
	KindTime
	KindFrequency
	KindResolution
	KindFlex
)

// unitTable maps a lowercased CSS unit to the family it belongs to and the
// multiplier that converts a value in that unit to the family's canonical
// unit (px for length, deg for angle, s for time, Hz for frequency, dppx
// for resolution, fr for flex -- the canonical units CSS Values and Units
// Level 4 §6-8 defines each family's "computed value" around).
var unitTable = map[string]struct {
	kind Kind
	mul  float64
}{
	// Absolute lengths, canonicalized to px (1in = 96px, CSS "reference pixel").
	"px": {KindLength, 1},
	"cm": {KindLength, 96.0 / 2.54},
	"mm": {KindLength, 96.0 / 25.4},
	"q":  {KindLength, 96.0 / 101.6},
	"in": {KindLength, 96},
	"pt": {KindLength, 96.0 / 72.0},
	"pc": {KindLength, 16},

	"deg":  {KindAngle, 1},
	"grad": {KindAngle, 360.0 / 400.0},
	"rad":  {KindAngle, 180.0 / 3.141592653589793},
	"turn": {KindAngle, 360.0},

	"s":  {KindTime, 1},
	"ms": {KindTime, 0.001},

	"hz":  {KindFrequency, 1},
	"khz": {KindFrequency, 1000},

	"dppx": {KindResolution, 1},
	"x":    {KindResolution, 1},
	"dpi":  {KindResolution, 1.0 / 96.0},
	"dpcm": {KindResolution, 2.54 / 96.0},

	"fr": {KindFlex, 1},
}

// relativeLengthUnits are the font/viewport-relative length units this
// package recognizes (Kind() reports KindLength for them) but cannot
// canonicalize to px without layout context, which is out of scope here
// (no DOM, no computed font size -- see spec.md §1's Non-goals). ToCanonical
// returns ok=false for these; callers needing their actual pixel value are
// the property-value binding layer's job, not this package's.
var relativeLengthUnits = map[string]bool{
	"em": true, "rem": true, "ex": true, "rex": true, "cap": true, "rcap": true,
	"ch": true, "rch": true, "ic": true, "ric": true, "lh": true, "rlh": true,
	"vw": true, "vh": true, "vi": true, "vb": true, "vmin": true, "vmax": true,
	"svw": true, "svh": true, "lvw": true, "lvh": true, "dvw": true, "dvh": true,
	"cqw": true, "cqh": true, "cqi": true, "cqb": true, "cqmin": true, "cqmax": true,
}

// UnitKind reports which dimension family unit (case-insensitive) belongs
// to, or KindUnknown if it is not a recognized CSS unit at all.
func UnitKind(unit string) Kind {
	u := strings.ToLower(unit)
	if e, ok := unitTable[u]; ok {
		return e.kind
	}
	if relativeLengthUnits[u] {
		return KindLength
	}
	return KindUnknown
}

// Dimension is a parsed <length> / <angle> / <time> / <frequency> /
// <resolution> / <flex> value: the literal number, its unit, and the
// family it was classified into.
type Dimension struct {
	Value float64
	Unit  string
	Kind  Kind
}

// ToCanonical converts d to its family's canonical unit (px/deg/s/Hz/dppx/fr).
// ok is false for relative length units (em, vw, %-relative, container
// query units, ...), which need layout context this package doesn't have.
func (d Dimension) ToCanonical() (value float64, ok bool) {
	e, found := unitTable[strings.ToLower(d.Unit)]
	if !found {
		return 0, false
	}
	return d.Value * e.mul, true
}

// ParseDimension reads a single dimension token and classifies its unit.
// It does not consume a trailing <percentage> or bare <number> -- use
// ParsePercentage / the token's own TNumber kind for those, since a
// percentage's valid range is property-specific and a bare number is
// frequently not interchangeable with a dimension (CSS Values and Units
// Level 4 §6.1 "for all value types but <angle>, a <number> of 0 can be
// used wherever a dimension is expected" is a property-grammar-level
// allowance, not this package's concern).
func ParseDimension(tok csslex.Token) (Dimension, bool) {
	if tok.Kind != csslex.TDimension {
		return Dimension{}, false
	}
	unit := tok.Unit.String()
	return Dimension{Value: tok.Numeric.Value, Unit: unit, Kind: UnitKind(unit)}, true
}

// IsAngle, IsLength, IsTime, IsFrequency, IsResolution, IsFlex report
// whether tok is a dimension token in the named family. A bare <number>
// of 0 is deliberately not accepted here (see ParseDimension's doc); a
// caller that wants CSS's "zero is unitless" allowance checks
// tok.Kind == csslex.TNumber && tok.Numeric.Value == 0 itself.
func IsAngle(tok csslex.Token) bool      { return dimKindIs(tok, KindAngle) }
func IsLength(tok csslex.Token) bool     { return dimKindIs(tok, KindLength) }
func IsTime(tok csslex.Token) bool       { return dimKindIs(tok, KindTime) }
func IsFrequency(tok csslex.Token) bool  { return dimKindIs(tok, KindFrequency) }
func IsResolution(tok csslex.Token) bool { return dimKindIs(tok, KindResolution) }
func IsFlex(tok csslex.Token) bool       { return dimKindIs(tok, KindFlex) }

func dimKindIs(tok csslex.Token, k Kind) bool {
	d, ok := ParseDimension(tok)
	return ok && d.Kind == k
}

// AngleDegrees converts an <angle> dimension token to degrees, matching a
// minifier's degreesForAngle but exposed as a general-purpose recognizer
// instead of a declaration-lowering-pass-local helper.
func AngleDegrees(tok csslex.Token) (float64, bool) {
	d, ok := ParseDimension(tok)
	if !ok || d.Kind != KindAngle {
		return 0, false
	}
	v, _ := d.ToCanonical()
	return v, true
}

// Percentage reads a <percentage> token's value in the 0-100 range (the
// tokenizer's own Numeric.Value is pre-divided by 100; IntValue is not,
// see csslex.Numeric's doc comment, so this helper undoes that division
// to hand back the literal percentage a caller expects to print or
// compare against "50%").
func Percentage(tok csslex.Token) (float64, bool) {
	if tok.Kind != csslex.TPercentage {
		return 0, false
	}
	return tok.Numeric.Value * 100, true
}
