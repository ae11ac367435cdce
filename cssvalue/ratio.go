package cssvalue

import "github.com/cssdialect/cssengine/csslex"

// tokenCursor mirrors the identical interface declared in cssselector,
// csscalc, and csscolor so all of this module's value-grammar parsers
// share a common shape without an import cycle between them.
type tokenCursor interface {
	Current() csslex.Token
	Next() csslex.Token
	At(k csslex.T) bool
	AtEOF() bool
	HadWhitespaceBefore() bool
}

// Ratio is a parsed <ratio> value per CSS Values and Units Level 4 §10.3:
// "<number> [ / <number> ]?". A bare number N is equivalent to N/1.
type Ratio struct {
	Numerator, Denominator float64
}

// Float reports the ratio as a single float64 (numerator/denominator),
// for callers that just want to compare ratios rather than preserve the
// original two-number form (e.g. for serialization, which is out of
// scope here).
func (r Ratio) Float() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return r.Numerator / r.Denominator
}

// ParseRatio reads a <ratio> from cur: a <number>, optionally followed by
// "/" and a second <number>. Not grounded on the teacher (esbuild never
// parses aspect-ratio's value shape from scratch, only round-trips
// whatever tokens a declaration already contains) -- built directly off
// the CSS Values and Units Level 4 grammar, using the same
// tokenCursor-driven style as cssselector.parseANB for consistency with
// the rest of this module's small numeric recognizers.
func ParseRatio(cur tokenCursor) (Ratio, bool) {
	tok := cur.Current()
	if tok.Kind != csslex.TNumber {
		return Ratio{}, false
	}
	num := tok.Numeric.Value
	cur.Next()

	if !(cur.At(csslex.TDelim) && cur.Current().Delim == '/') {
		return Ratio{Numerator: num, Denominator: 1}, true
	}
	cur.Next() // consume '/'

	den := cur.Current()
	if den.Kind != csslex.TNumber {
		return Ratio{}, false
	}
	cur.Next()
	return Ratio{Numerator: num, Denominator: den.Numeric.Value}, true
}
