package cssvalue

import "strings"

// GradientKind identifies which of CSS Images Level 4's three gradient
// shapes a recognized gradient function name names.
type GradientKind uint8

const (
	GradientNone GradientKind = iota
	GradientLinear
	GradientRadial
	GradientConic
)

// gradientFunctionNames maps a lowercased function name to its gradient
// shape and whether it is the "repeating-" variant. Grounded directly on
// a minifier's parseGradient function-name switch in
// internal/css_parser/css_decls_gradient.go, which recognizes exactly
// these six names (three shapes times repeating/non-repeating) before
// going on to parse and rewrite the gradient's color-stop list -- the
// rewriting is the out-of-scope property-value lowering layer, but the
// name recognition itself is exactly this package's "thin recognizer"
// remit.
var gradientFunctionNames = map[string]struct {
	kind      GradientKind
	repeating bool
}{
	"linear-gradient":           {GradientLinear, false},
	"radial-gradient":           {GradientRadial, false},
	"conic-gradient":            {GradientConic, false},
	"repeating-linear-gradient": {GradientLinear, true},
	"repeating-radial-gradient": {GradientRadial, true},
	"repeating-conic-gradient":  {GradientConic, true},
}

// LooksLikeGradientFunction reports whether name (a TFunction token's
// lexeme, case-insensitive) is one of the six CSS gradient functions, and
// if so which shape and whether it is the repeating variant. It does not
// parse the gradient's argument list (color stops, interpolation method,
// geometry) -- that argument grammar belongs to the property-value
// binding layer spec.md excludes (§1), the same boundary
// csscolor.LooksLikeColorFunction draws for color-mix().
func LooksLikeGradientFunction(name string) (kind GradientKind, repeating bool, ok bool) {
	e, found := gradientFunctionNames[strings.ToLower(name)]
	if !found {
		return GradientNone, false, false
	}
	return e.kind, e.repeating, true
}

// imageFunctionNames are the non-gradient <image> production function
// names CSS Images Level 4 §2 and CSS Backgrounds/Borders define, beyond
// plain url(). Not present in the teacher at all (esbuild's CSS support
// doesn't need to distinguish these from any other function token), added
// directly from the CSS Images Level 4 grammar per spec.md §1's directive
// that value-grammar recognizers for <image> exist at this layer.
var imageFunctionNames = map[string]bool{
	"image":              true,
	"image-set":          true,
	"-webkit-image-set":  true,
	"cross-fade":         true,
	"-webkit-cross-fade": true,
	"element":            true,
	"paint":              true,
}

// LooksLikeImageFunction reports whether name (case-insensitive) is a
// recognized <image> production function name, either a gradient or one
// of image()/image-set()/cross-fade()/element()/paint(). It is a
// predicate only, with the same "recognize, don't parse the argument
// grammar" contract as LooksLikeGradientFunction.
func LooksLikeImageFunction(name string) bool {
	if _, _, ok := LooksLikeGradientFunction(name); ok {
		return true
	}
	return imageFunctionNames[strings.ToLower(name)]
}
