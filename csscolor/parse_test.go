package csscolor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cssdialect/cssengine/cssparse"
	"github.com/cssdialect/cssengine/csslex"
	"github.com/cssdialect/cssengine/source"
)

func parseColor(t *testing.T, text string) Color {
	t.Helper()
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: text})
	col, err := Parse(c)
	require.NoError(t, err, "Parse(%q)", text)
	return col
}

func requireRGBA(t *testing.T, col Color, r, g, b, a float64, eps float64) {
	t.Helper()
	gr, gg, gb, ga := col.RGBA()
	require.InDelta(t, r, gr, eps, "red channel")
	require.InDelta(t, g, gg, eps, "green channel")
	require.InDelta(t, b, gb, eps, "blue channel")
	require.InDelta(t, a, ga, eps, "alpha channel")
}

func TestParseHex(t *testing.T) {
	requireRGBA(t, parseColor(t, "#ff0000"), 1, 0, 0, 1, 1e-9)
	requireRGBA(t, parseColor(t, "#f00"), 1, 0, 0, 1, 1e-9)
	requireRGBA(t, parseColor(t, "#ff000080"), 1, 0, 0, 128.0/255, 1e-9)
	requireRGBA(t, parseColor(t, "#f008"), 1, 0, 0, float64(0x88)/255, 1e-9)
}

func TestParseNamedColor(t *testing.T) {
	requireRGBA(t, parseColor(t, "rebeccapurple"), 0x66.0/255, 0x33.0/255, 0x99.0/255, 1, 1e-9)
	requireRGBA(t, parseColor(t, "RED"), 1, 0, 0, 1, 1e-9) // case-insensitive
}

func TestParseCurrentColorAndTransparent(t *testing.T) {
	cc := parseColor(t, "currentcolor")
	require.Equal(t, ModelCurrentColor, cc.Model)

	tr := parseColor(t, "transparent")
	requireRGBA(t, tr, 0, 0, 0, 0, 1e-9)
}

func TestParseLegacyRGB(t *testing.T) {
	requireRGBA(t, parseColor(t, "rgb(255, 0, 0)"), 1, 0, 0, 1, 1e-9)
	requireRGBA(t, parseColor(t, "rgba(0, 255, 0, 0.5)"), 0, 1, 0, 0.5, 1e-9)
}

func TestParseLegacyRGBPercentages(t *testing.T) {
	// 50% of 255 is 127.5, matching the bare-number convention
	// rgb(127.5, 0, 0) would use directly.
	requireRGBA(t, parseColor(t, "rgb(50%, 0%, 0%)"), 127.5/255, 0, 0, 1, 1e-9)
}

func TestParseModernRGB(t *testing.T) {
	requireRGBA(t, parseColor(t, "rgb(255 0 0 / 0.5)"), 1, 0, 0, 0.5, 1e-9)
	requireRGBA(t, parseColor(t, "rgb(100% 0% 0%)"), 1, 0, 0, 1, 1e-9)
}

func TestParseModernRGBNone(t *testing.T) {
	col := parseColor(t, "rgb(none 0 0)")
	require.True(t, col.C1.IsNone)
	require.True(t, col.HasNone())
}

func TestLegacyRGBRejectsNone(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "rgb(none, 0, 0)"})
	_, err := Parse(c)
	require.Error(t, err)
}

func TestLegacyRGBRejectsMixedNumberPercentage(t *testing.T) {
	requireRGBA(t, parseColor(t, "rgb(100%, 0%, 0%)"), 1, 0, 0, 1, 1e-9)

	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "rgb(100%, 0, 0)"})
	_, err := Parse(c)
	require.Error(t, err, "legacy rgb() must reject mixed number/percentage components")
}

func TestLegacyHSLRejectsMixedNumberPercentage(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "hsl(0, 100%, 50)"})
	_, err := Parse(c)
	require.Error(t, err, "legacy hsl() must reject mixed number/percentage components")
}

func TestLegacyDeviceCMYKRejectsMixedNumberPercentage(t *testing.T) {
	requireCMYK := parseColor(t, "device-cmyk(0%, 0%, 0%, 100%)")
	require.Equal(t, ModelDeviceCMYK, requireCMYK.Model)

	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "device-cmyk(0%, 0, 0, 100%)"})
	_, err := Parse(c)
	require.Error(t, err, "legacy device-cmyk() must reject mixed number/percentage components")
}

func TestParseLegacyHSL(t *testing.T) {
	// hsl(0, 100%, 50%) is pure red.
	requireRGBA(t, parseColor(t, "hsl(0, 100%, 50%)"), 1, 0, 0, 1, 1e-6)
}

func TestParseModernHSLBareNumberIsPercent(t *testing.T) {
	// A bare number for saturation/lightness in modern syntax is treated
	// the same as the equivalent percentage.
	a := parseColor(t, "hsl(0 100% 50%)")
	b := parseColor(t, "hsl(0 100 50)")
	ra, ga, ba, _ := a.RGBA()
	rb, gb, bb, _ := b.RGBA()
	require.InDelta(t, ra, rb, 1e-9)
	require.InDelta(t, ga, gb, 1e-9)
	require.InDelta(t, ba, bb, 1e-9)
}

func TestParseHWB(t *testing.T) {
	// hwb(0 0% 0%) is pure red.
	requireRGBA(t, parseColor(t, "hwb(0 0% 0%)"), 1, 0, 0, 1, 1e-6)
	// Full whiteness washes out to white regardless of hue.
	requireRGBA(t, parseColor(t, "hwb(120 100% 0%)"), 1, 1, 1, 1, 1e-6)
}

func TestParseOklabBlackAndWhite(t *testing.T) {
	black := parseColor(t, "oklab(0 0 0)")
	requireRGBA(t, black, 0, 0, 0, 1, 1e-3)
	white := parseColor(t, "oklab(1 0 0)")
	requireRGBA(t, white, 1, 1, 1, 1, 1e-3)
}

func TestParseLabBlackAndWhite(t *testing.T) {
	black := parseColor(t, "lab(0 0 0)")
	requireRGBA(t, black, 0, 0, 0, 1, 1e-3)
	white := parseColor(t, "lab(100 0 0)")
	requireRGBA(t, white, 1, 1, 1, 1, 1e-3)
}

func TestParseLCHGrayscale(t *testing.T) {
	// Zero chroma collapses lch()/oklch() to a grayscale value regardless
	// of hue.
	a := parseColor(t, "lch(50 0 0)")
	b := parseColor(t, "lch(50 0 180)")
	ra, ga, ba, _ := a.RGBA()
	rb, gb, bb, _ := b.RGBA()
	require.InDelta(t, ra, rb, 1e-9)
	require.InDelta(t, ga, gb, 1e-9)
	require.InDelta(t, ba, bb, 1e-9)
}

func TestParseColorFunctionPredefinedSRGB(t *testing.T) {
	// color(srgb 1 0 0) is exactly red in the sRGB space.
	requireRGBA(t, parseColor(t, "color(srgb 1 0 0)"), 1, 0, 0, 1, 1e-9)
}

func TestParseColorFunctionCustomSpaceFourComponents(t *testing.T) {
	col := parseColor(t, "color(--custom-space 0.1 0.2 0.3 0.4)")
	require.Equal(t, ModelColorFunction, col.Model)
	require.Equal(t, Predefined("--custom-space"), col.Space)
	require.InDelta(t, 0.4, col.C4.Value, 1e-9)
}

func TestParseDeviceCMYK(t *testing.T) {
	// Full black key channel yields black regardless of the other channels.
	requireRGBA(t, parseColor(t, "device-cmyk(0 0 0 1)"), 0, 0, 0, 1, 1e-9)
	// Zero key, zero cyan/magenta/yellow is white.
	requireRGBA(t, parseColor(t, "device-cmyk(0 0 0 0)"), 1, 1, 1, 1, 1e-9)
}

func TestParseDeviceCMYKAcceptsPercentages(t *testing.T) {
	a := parseColor(t, "device-cmyk(0% 0% 0% 100%)")
	b := parseColor(t, "device-cmyk(0 0 0 1)")
	ra, ga, ba, _ := a.RGBA()
	rb, gb, bb, _ := b.RGBA()
	require.InDelta(t, ra, rb, 1e-9)
	require.InDelta(t, ga, gb, 1e-9)
	require.InDelta(t, ba, bb, 1e-9)
}

func TestParseAngleUnits(t *testing.T) {
	deg := parseColor(t, "hsl(180deg 100% 50%)")
	turn := parseColor(t, "hsl(0.5turn 100% 50%)")
	grad := parseColor(t, "hsl(200grad 100% 50%)")
	rd, gd, bd, _ := deg.RGBA()
	rt, gt, bt, _ := turn.RGBA()
	rg, gg, bg, _ := grad.RGBA()
	require.InDelta(t, rd, rt, 1e-9)
	require.InDelta(t, gd, gt, 1e-9)
	require.InDelta(t, bd, bt, 1e-9)
	require.InDelta(t, rd, rg, 1e-9)
	require.InDelta(t, gd, gg, 1e-9)
	require.InDelta(t, bd, bg, 1e-9)
}

func TestParseUnknownColorKeywordIsAnError(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "notarealcolor"})
	_, err := Parse(c)
	require.Error(t, err)
}

func TestParseUnknownColorFunctionIsAnError(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "notarealfunc(1, 2, 3)"})
	_, err := Parse(c)
	require.Error(t, err)
}

func TestHexRoundTripsAgainstGoColorful(t *testing.T) {
	col := parseColor(t, "#336699")
	r, g, b, _ := col.RGBA()
	require.True(t, HexRoundTrips("#336699", r, g, b))
}

func TestClampToSRGBGamut(t *testing.T) {
	r, g, b := ClampToSRGBGamut(1.2, -0.1, 0.5)
	require.InDelta(t, 1.0, r, 1e-9)
	require.InDelta(t, 0.0, g, 1e-9)
	require.InDelta(t, 0.5, b, 1e-9)
}

func TestInGamutSRGB(t *testing.T) {
	require.True(t, InGamutSRGB(0.5, 0.5, 0.5))
	require.False(t, InGamutSRGB(1.5, 0.5, 0.5))
	require.False(t, InGamutSRGB(0.5, -0.1, 0.5))
}

func TestGamutMapToSRGBStaysInGamut(t *testing.T) {
	// An out-of-range Display-P3-ish XYZ triple should map back into
	// [0,1] sRGB after the perceptual gamut-mapping pass.
	r, g, b := GamutMapToSRGB(0.9, 0.2, 0.1)
	require.GreaterOrEqual(t, r, -1e-6)
	require.LessOrEqual(t, r, 1+1e-6)
	require.GreaterOrEqual(t, g, -1e-6)
	require.LessOrEqual(t, g, 1+1e-6)
	require.GreaterOrEqual(t, b, -1e-6)
	require.LessOrEqual(t, b, 1+1e-6)
}

func TestLabToXYZAndBackIsConsistent(t *testing.T) {
	x, y, z := labToXYZD50(50, 20, -30)
	l, a, b := xyzD50ToLab(x, y, z)
	require.InDelta(t, 50.0, l, 1e-6)
	require.InDelta(t, 20.0, a, 1e-6)
	require.InDelta(t, -30.0, b, 1e-6)
}

func TestOklabToSRGBIsNotNaN(t *testing.T) {
	rgb := oklabToSRGB(0.5, 0.1, -0.05)
	for _, c := range rgb {
		require.False(t, math.IsNaN(c))
	}
}

func firstToken(t *testing.T, text string) csslex.Token {
	t.Helper()
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: text})
	return c.Current()
}

func TestLooksLikeColorFunctionRecognizesColorMix(t *testing.T) {
	// color-mix() is a cascade-time interpolation this package doesn't
	// parse, but it still "looks like" a color to a caller scanning tokens.
	require.True(t, LooksLikeColorFunction(firstToken(t, "color-mix(in srgb, red, blue)")))
}

func TestLooksLikeColorFunctionRecognizesOtherForms(t *testing.T) {
	require.True(t, LooksLikeColorFunction(firstToken(t, "rebeccapurple")))
	require.True(t, LooksLikeColorFunction(firstToken(t, "#336699")))
	require.True(t, LooksLikeColorFunction(firstToken(t, "rgb(0 0 0)")))
	require.False(t, LooksLikeColorFunction(firstToken(t, "notarealcolor")))
	require.False(t, LooksLikeColorFunction(firstToken(t, "calc(1px)")))
}
