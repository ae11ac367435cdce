package csscolor

import (
	"strings"

	"github.com/cssdialect/cssengine/cssparse"
	"github.com/cssdialect/cssengine/csslex"
)

// tokenCursor is the subset of cssparse.Cursor this parser needs, matching
// the interfaces cssselector and csscalc declare for themselves so all
// three value-grammar parsers can be driven from the same
// cssparse.Cursor/SubCursor without an import cycle between them.
type tokenCursor interface {
	Current() csslex.Token
	Next() csslex.Token
	At(k csslex.T) bool
	AtEOF() bool
	HadWhitespaceBefore() bool
}

// Parse parses a single <color> value (CSS Color Level 4 §4-10) from cur:
// hex notation, a keyword (named color, "transparent", "currentcolor"),
// or one of the color functions. It consumes exactly the tokens that make
// up the color and no more, per cssparse's cursor-ownership convention.
//
// Structured after a minifier's parseColor in
// internal/css_parser/css_decls_color.go, which recognizes the same
// notations against an already-parsed token/children array; this package
// drives the recognition directly off the token cursor instead (there is
// no pre-built "component value" token tree in this module -- the
// stylesheet/declaration grammar around a color value is out of scope
// here) and extends legacy-only rgb/hsl to the full modern whitespace
// syntax plus lab/lch/oklab/oklch/color()/device-cmyk, which a tool only
// round-tripping what authors already wrote would never need to parse
// from scratch.
func Parse(cur tokenCursor) (Color, error) {
	tok := cur.Current()

	switch tok.Kind {
	case csslex.THash, csslex.TIDHash:
		cur.Next()
		return parseHex(tok)

	case csslex.TIdent:
		name := strings.ToLower(tok.Text())
		cur.Next()
		switch name {
		case "currentcolor":
			return Color{Model: ModelCurrentColor, Alpha: Num(1)}, nil
		case "transparent":
			return Color{Model: ModelTransparent, C1: Num(0), C2: Num(0), C3: Num(0), Alpha: Num(0)}, nil
		}
		if c, ok := LookupNamedColor(name); ok {
			return c, nil
		}
		return Color{}, parseErr(tok, "unknown color keyword \""+tok.Text()+"\"")

	case csslex.TFunction:
		name := strings.ToLower(tok.Text())
		cur.Next() // consumes the function token, which opens '('
		switch name {
		case "rgb", "rgba":
			return parseRGB(cur, tok)
		case "hsl", "hsla":
			return parseHSL(cur, tok)
		case "hwb":
			return parseHWB(cur, tok)
		case "lab":
			return parseLabLike(cur, tok, ModelLab, 100, 125)
		case "lch":
			return parseLCHLike(cur, tok, ModelLCH, 100, 150)
		case "oklab":
			return parseLabLike(cur, tok, ModelOklab, 1, 0.4)
		case "oklch":
			return parseLCHLike(cur, tok, ModelOklch, 1, 0.4)
		case "color":
			return parseColorFunction(cur, tok)
		case "device-cmyk":
			return parseDeviceCMYK(cur, tok)
		}
		return Color{}, parseErr(tok, "unknown color function \""+tok.Text()+"()\"")
	}

	return Color{}, parseErr(tok, "expected a color")
}

func parseErr(tok csslex.Token, msg string) *cssparse.ParseError {
	return &cssparse.ParseError{Kind: cssparse.ErrInvalidValue, Range: tok.Range, Msg: msg}
}

// parseHex implements CSS Color 4 §5's four hex forms. Three/four-digit
// forms expand each nibble via digit*17 (0x1 -> 0x11).
func parseHex(tok csslex.Token) (Color, error) {
	text := tok.Text()
	var nibbles [8]int
	for i := 0; i < len(text); i++ {
		n, ok := hexDigit(text[i])
		if !ok {
			return Color{}, parseErr(tok, "invalid hex color \"#"+text+"\"")
		}
		nibbles[i] = n
	}

	expand := func(n int) int { return n*16 + n }

	switch len(text) {
	case 3: // #RGB
		r, g, b := expand(nibbles[0]), expand(nibbles[1]), expand(nibbles[2])
		return Color{Model: ModelRGB, C1: Num(float64(r)), C2: Num(float64(g)), C3: Num(float64(b)), Alpha: Num(1)}, nil
	case 4: // #RGBA
		r, g, b, a := expand(nibbles[0]), expand(nibbles[1]), expand(nibbles[2]), expand(nibbles[3])
		return Color{Model: ModelRGB, C1: Num(float64(r)), C2: Num(float64(g)), C3: Num(float64(b)), Alpha: Num(float64(a) / 255)}, nil
	case 6: // #RRGGBB
		r := nibbles[0]*16 + nibbles[1]
		g := nibbles[2]*16 + nibbles[3]
		b := nibbles[4]*16 + nibbles[5]
		return Color{Model: ModelRGB, C1: Num(float64(r)), C2: Num(float64(g)), C3: Num(float64(b)), Alpha: Num(1)}, nil
	case 8: // #RRGGBBAA
		r := nibbles[0]*16 + nibbles[1]
		g := nibbles[2]*16 + nibbles[3]
		b := nibbles[4]*16 + nibbles[5]
		a := nibbles[6]*16 + nibbles[7]
		return Color{Model: ModelRGB, C1: Num(float64(r)), C2: Num(float64(g)), C3: Num(float64(b)), Alpha: Num(float64(a) / 255)}, nil
	}
	return Color{}, parseErr(tok, "invalid hex color length")
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// component reads one <number>/<percentage>/none value. The tokenizer
// already divides a percentage's literal value by 100 (so "50%" arrives as
// 0.5), so pctScale is "what 100% is worth" in this component's own range
// (255 for rgb(), 100 for hsl()'s saturation/lightness and hwb()'s
// whiteness/blackness, 1 for alpha and device-cmyk(), etc.) -- a bare
// number is returned as-is, unscaled, since CSS treats it as already being
// in that range. allowNone, when false, rejects "none" (legacy
// rgb()/hsl()/device-cmyk() syntax never accepts it).
func component(cur tokenCursor, pctScale float64, allowNone bool) (Component, bool) {
	tok := cur.Current()
	switch tok.Kind {
	case csslex.TNumber:
		cur.Next()
		return Num(tok.Numeric.Value), true
	case csslex.TPercentage:
		cur.Next()
		return Num(tok.Numeric.Value * pctScale), true
	case csslex.TIdent:
		if allowNone && strings.EqualFold(tok.Text(), "none") {
			cur.Next()
			return None(), true
		}
	}
	return Component{}, false
}

// hueComponent reads a hue: <angle>, <number> (treated as degrees), or
// "none".
func hueComponent(cur tokenCursor, allowNone bool) (Component, bool) {
	tok := cur.Current()
	switch tok.Kind {
	case csslex.TNumber:
		cur.Next()
		return Num(tok.Numeric.Value), true
	case csslex.TDimension:
		deg, ok := angleToDegrees(tok)
		if !ok {
			return Component{}, false
		}
		cur.Next()
		return Num(deg), true
	case csslex.TIdent:
		if allowNone && strings.EqualFold(tok.Text(), "none") {
			cur.Next()
			return None(), true
		}
	}
	return Component{}, false
}

func angleToDegrees(tok csslex.Token) (float64, bool) {
	v := tok.Numeric.Value
	switch strings.ToLower(tok.Unit.String()) {
	case "deg":
		return v, true
	case "grad":
		return v * (360.0 / 400.0), true
	case "rad":
		return v * (180.0 / 3.141592653589793), true
	case "turn":
		return v * 360.0, true
	}
	return 0, false
}

func isComma(tok csslex.Token) bool { return tok.Kind == csslex.TComma }
func isSlash(tok csslex.Token) bool { return tok.Kind == csslex.TDelim && tok.Delim == '/' }

// parseAlphaSuffix consumes an optional "/ <alpha>" (modern syntax) where
// alpha is a number, percentage (0-100% => 0-1), or "none".
func parseAlphaSuffix(cur tokenCursor) (Component, bool) {
	if !isSlash(cur.Current()) {
		return Num(1), true
	}
	cur.Next()
	tok := cur.Current()
	switch tok.Kind {
	case csslex.TNumber:
		cur.Next()
		return Num(clampUnit(tok.Numeric.Value)), true
	case csslex.TPercentage:
		cur.Next()
		return Num(clampUnit(tok.Numeric.Value)), true
	case csslex.TIdent:
		if strings.EqualFold(tok.Text(), "none") {
			cur.Next()
			return None(), true
		}
	}
	return Component{}, false
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// expectCloseParen is this package's own "close the function call" step,
// deliberately not routed through cssparse.Cursor.ParseNestedBlock even
// though every color function's argument list is exactly the kind of
// bracketed region that helper exists for. Two reasons: first, a color
// function's arity and per-component grammar (legacy comma-separated vs
// modern whitespace-separated, a component count that depends on what was
// already parsed for color()/device-cmyk()) isn't a fixed "parse N items
// separated by commas" shape ParseCommaSeparated models, since the
// legacy/modern choice itself is only known after peeking past the first
// component; second, on a genuine syntax error this package intentionally
// surfaces a precise "expected a green component"-style message and lets
// that propagate as a hard error rather than silently resyncing to the
// matching ")" the way ParseNestedBlock's drain would, since a color
// value's own caller (this package has no caller here that recovers a
// partially-parsed color the way a forgiving selector list recovers a
// partially-parsed compound) needs to know parsing failed at the token it
// failed at, not at some later resynchronization point.
func expectCloseParen(cur tokenCursor, openTok csslex.Token) error {
	if !cur.At(csslex.TCloseParen) {
		return parseErr(cur.Current(), "expected \")\" to close \""+openTok.Text()+"(\"")
	}
	cur.Next()
	return nil
}

// legacyKindMismatch reports whether legacy mode is active and this
// component's token kind doesn't match the first component's, CSS Color
// 4's "no mixed number/percentage" rule for legacy rgb()/hsl()/
// device-cmyk() syntax (modern whitespace syntax freely mixes the two per
// component, same as lab()/lch()/color() already do, and hwb() has no
// legacy form at all).
func legacyKindMismatch(legacy bool, first, this csslex.T) bool {
	return legacy && this != first
}

// parseRGB implements rgb()/rgba(): legacy (comma-separated, 0-255 or
// 0-100% components, no "none", no mixing number and percentage
// components) if a comma follows the first component, otherwise modern
// (whitespace-separated, "none" allowed, optional "/ alpha").
func parseRGB(cur tokenCursor, openTok csslex.Token) (Color, error) {
	c1Kind := cur.Current().Kind
	c1, ok := component(cur, 255, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a red component")
	}
	legacy := isComma(cur.Current())
	if legacy {
		if c1.IsNone {
			return Color{}, parseErr(cur.Current(), "legacy rgb() does not accept \"none\"")
		}
		cur.Next()
	}
	c2Kind := cur.Current().Kind
	c2, ok := component(cur, 255, !legacy)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a green component")
	}
	if legacyKindMismatch(legacy, c1Kind, c2Kind) {
		return Color{}, parseErr(cur.Current(), "legacy rgb() does not allow mixing numbers and percentages")
	}
	if legacy {
		if !isComma(cur.Current()) {
			return Color{}, parseErr(cur.Current(), "expected \",\" in legacy rgb()")
		}
		cur.Next()
	}
	c3Kind := cur.Current().Kind
	c3, ok := component(cur, 255, !legacy)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a blue component")
	}
	if legacyKindMismatch(legacy, c1Kind, c3Kind) {
		return Color{}, parseErr(cur.Current(), "legacy rgb() does not allow mixing numbers and percentages")
	}

	alpha := Num(1)
	if legacy {
		if isComma(cur.Current()) {
			cur.Next()
			a, ok := component(cur, 1, false)
			if !ok {
				return Color{}, parseErr(cur.Current(), "expected an alpha component")
			}
			alpha = Num(clampUnit(a.Value))
		}
	} else {
		a, ok := parseAlphaSuffix(cur)
		if !ok {
			return Color{}, parseErr(cur.Current(), "invalid alpha component")
		}
		alpha = a
	}

	if err := expectCloseParen(cur, openTok); err != nil {
		return Color{}, err
	}
	return Color{Model: ModelRGB, C1: c1, C2: c2, C3: c3, Alpha: alpha, Legacy: legacy}, nil
}

// parseHSL implements hsl()/hsla() per the same legacy/modern split, with
// saturation/lightness as percentages (a bare number is treated as a
// percentage in modern syntax).
func parseHSL(cur tokenCursor, openTok csslex.Token) (Color, error) {
	h, ok := hueComponent(cur, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a hue")
	}
	legacy := isComma(cur.Current())
	if legacy {
		if h.IsNone {
			return Color{}, parseErr(cur.Current(), "legacy hsl() does not accept \"none\"")
		}
		cur.Next()
	}
	sKind := cur.Current().Kind
	s, ok := component(cur, 100, !legacy)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a saturation")
	}
	if legacy {
		if !isComma(cur.Current()) {
			return Color{}, parseErr(cur.Current(), "expected \",\" in legacy hsl()")
		}
		cur.Next()
	}
	lKind := cur.Current().Kind
	l, ok := component(cur, 100, !legacy)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a lightness")
	}
	if legacyKindMismatch(legacy, sKind, lKind) {
		return Color{}, parseErr(cur.Current(), "legacy hsl() does not allow mixing numbers and percentages")
	}

	alpha := Num(1)
	if legacy {
		if isComma(cur.Current()) {
			cur.Next()
			a, ok := component(cur, 1, false)
			if !ok {
				return Color{}, parseErr(cur.Current(), "expected an alpha component")
			}
			alpha = Num(clampUnit(a.Value))
		}
	} else {
		a, ok := parseAlphaSuffix(cur)
		if !ok {
			return Color{}, parseErr(cur.Current(), "invalid alpha component")
		}
		alpha = a
	}

	if err := expectCloseParen(cur, openTok); err != nil {
		return Color{}, err
	}
	return Color{Model: ModelHSL, C1: normalizeHue(h), C2: s, C3: l, Alpha: alpha, Legacy: legacy}, nil
}

// parseHWB implements hwb(), which CSS Color 4 only defines in modern
// (whitespace, optional alpha) syntax -- there is no legacy hwb().
func parseHWB(cur tokenCursor, openTok csslex.Token) (Color, error) {
	h, ok := hueComponent(cur, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a hue")
	}
	w, ok := component(cur, 100, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a whiteness")
	}
	bl, ok := component(cur, 100, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a blackness")
	}
	alpha, ok := parseAlphaSuffix(cur)
	if !ok {
		return Color{}, parseErr(cur.Current(), "invalid alpha component")
	}
	if err := expectCloseParen(cur, openTok); err != nil {
		return Color{}, err
	}
	return Color{Model: ModelHWB, C1: normalizeHue(h), C2: w, C3: bl, Alpha: alpha}, nil
}

func normalizeHue(h Component) Component {
	if h.IsNone {
		return h
	}
	v := h.Value
	v = mod360(v)
	return Num(v)
}

func mod360(v float64) float64 {
	v = floatMod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}

func floatMod(a, b float64) float64 {
	q := int64(a / b)
	return a - float64(q)*b
}

// parseLabLike implements lab()/oklab(): three components plus optional
// alpha, no legacy syntax. lPctScale/abPctScale are the "100% =>" values
// for L and a/b.
func parseLabLike(cur tokenCursor, openTok csslex.Token, model Model, lPctScale, abPctScale float64) (Color, error) {
	l, ok := component(cur, lPctScale, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected lightness")
	}
	a, ok := component(cur, abPctScale, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected an a/green-red component")
	}
	b, ok := component(cur, abPctScale, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a b/blue-yellow component")
	}
	alpha, ok := parseAlphaSuffix(cur)
	if !ok {
		return Color{}, parseErr(cur.Current(), "invalid alpha component")
	}
	if err := expectCloseParen(cur, openTok); err != nil {
		return Color{}, err
	}
	return Color{Model: model, C1: l, C2: a, C3: b, Alpha: alpha}, nil
}

// parseLCHLike implements lch()/oklch(): lightness, chroma, hue, optional
// alpha.
func parseLCHLike(cur tokenCursor, openTok csslex.Token, model Model, lPctScale, cPctScale float64) (Color, error) {
	l, ok := component(cur, lPctScale, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected lightness")
	}
	c, ok := component(cur, cPctScale, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected chroma")
	}
	h, ok := hueComponent(cur, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected hue")
	}
	alpha, ok := parseAlphaSuffix(cur)
	if !ok {
		return Color{}, parseErr(cur.Current(), "invalid alpha component")
	}
	if err := expectCloseParen(cur, openTok); err != nil {
		return Color{}, err
	}
	return Color{Model: model, C1: l, C2: c, C3: normalizeHue(h), Alpha: alpha}, nil
}

var predefinedSpaceNames = map[string]Predefined{
	"srgb":         SpaceSRGB,
	"srgb-linear":  SpaceSRGBLinear,
	"display-p3":   SpaceDisplayP3,
	"a98-rgb":      SpaceA98RGB,
	"prophoto-rgb": SpaceProPhotoRGB,
	"rec2020":      SpaceRec2020,
	"xyz":          SpaceXYZ,
	"xyz-d50":      SpaceXYZD50,
	"xyz-d65":      SpaceXYZD65,
}

// parseColorFunction implements color(): a color-space identifier
// followed by 3 components (predefined spaces) or 4 (custom "--name"
// spaces, following CSS Color 4 §10's profiled-color-space grammar), then
// an optional "/ alpha".
func parseColorFunction(cur tokenCursor, openTok csslex.Token) (Color, error) {
	spaceTok := cur.Current()
	if spaceTok.Kind != csslex.TIdent {
		return Color{}, parseErr(spaceTok, "expected a color space identifier")
	}
	cur.Next()
	spaceName := strings.ToLower(spaceTok.Text())
	custom := strings.HasPrefix(spaceName, "--")

	var space Predefined
	if !custom {
		sp, ok := predefinedSpaceNames[spaceName]
		if !ok {
			return Color{}, parseErr(spaceTok, "unknown predefined color space \""+spaceTok.Text()+"\"")
		}
		space = sp
	} else {
		space = Predefined(spaceName)
	}

	c1, ok := component(cur, 1, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a color() component")
	}
	c2, ok := component(cur, 1, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a color() component")
	}
	c3, ok := component(cur, 1, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a color() component")
	}

	var c4 Component
	if custom {
		v, ok := component(cur, 1, true)
		if !ok {
			return Color{}, parseErr(cur.Current(), "custom color space requires 4 components")
		}
		c4 = v
	}

	alpha, ok := parseAlphaSuffix(cur)
	if !ok {
		return Color{}, parseErr(cur.Current(), "invalid alpha component")
	}
	if err := expectCloseParen(cur, openTok); err != nil {
		return Color{}, err
	}

	return Color{Model: ModelColorFunction, Space: space, C1: c1, C2: c2, C3: c3, C4: c4, Alpha: alpha}, nil
}

// parseDeviceCMYK implements device-cmyk(): four components, each a
// number or percentage (100% == 1), legacy (comma-separated, no "none",
// no mixed number/percentage) if a comma follows the first component,
// otherwise modern (whitespace-separated, "none" allowed, optional
// "/ alpha").
func parseDeviceCMYK(cur tokenCursor, openTok csslex.Token) (Color, error) {
	cKind := cur.Current().Kind
	c, ok := component(cur, 1, true)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a cyan component")
	}
	legacy := isComma(cur.Current())
	if legacy {
		if c.IsNone {
			return Color{}, parseErr(cur.Current(), "legacy device-cmyk() does not accept \"none\"")
		}
		cur.Next()
	}

	mKind := cur.Current().Kind
	m, ok := component(cur, 1, !legacy)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a magenta component")
	}
	if legacyKindMismatch(legacy, cKind, mKind) {
		return Color{}, parseErr(cur.Current(), "legacy device-cmyk() does not allow mixing numbers and percentages")
	}
	if legacy {
		if !isComma(cur.Current()) {
			return Color{}, parseErr(cur.Current(), "expected \",\" in legacy device-cmyk()")
		}
		cur.Next()
	}

	yKind := cur.Current().Kind
	y, ok := component(cur, 1, !legacy)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a yellow component")
	}
	if legacyKindMismatch(legacy, cKind, yKind) {
		return Color{}, parseErr(cur.Current(), "legacy device-cmyk() does not allow mixing numbers and percentages")
	}
	if legacy {
		if !isComma(cur.Current()) {
			return Color{}, parseErr(cur.Current(), "expected \",\" in legacy device-cmyk()")
		}
		cur.Next()
	}

	kKind := cur.Current().Kind
	k, ok := component(cur, 1, !legacy)
	if !ok {
		return Color{}, parseErr(cur.Current(), "expected a key/black component")
	}
	if legacyKindMismatch(legacy, cKind, kKind) {
		return Color{}, parseErr(cur.Current(), "legacy device-cmyk() does not allow mixing numbers and percentages")
	}

	alpha := Num(1)
	if legacy {
		if isComma(cur.Current()) {
			cur.Next()
			a, ok := component(cur, 1, false)
			if !ok {
				return Color{}, parseErr(cur.Current(), "expected an alpha component")
			}
			alpha = Num(clampUnit(a.Value))
		}
	} else {
		a, ok := parseAlphaSuffix(cur)
		if !ok {
			return Color{}, parseErr(cur.Current(), "invalid alpha component")
		}
		alpha = a
	}
	if err := expectCloseParen(cur, openTok); err != nil {
		return Color{}, err
	}
	return Color{Model: ModelDeviceCMYK, C1: c, C2: m, C3: y, C4: k, Alpha: alpha, Legacy: legacy}, nil
}
