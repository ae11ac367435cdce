package csscolor

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ClampToSRGBGamut clamps an sRGB triple that may be slightly outside
// [0,1] (the common case for a color() conversion that lands a hair
// outside the display gamut due to floating-point rounding) back into
// range. It delegates to go-colorful's Color.Clamped rather than
// reimplementing a per-channel min/max, since go-colorful is already a
// wired dependency for this package and its Clamped does exactly this.
//
// This is a cheap axis-aligned clamp, not the perceptual gamut mapping
// CSS Color 4 §13.2 describes for out-of-gamut color() values (that
// algorithm -- binary search in OKLCh chroma -- is GamutMapToSRGB in
// spaces.go). Neither GamutMapToSRGB nor Color.RGBA calls it; it is a
// standalone utility for a value that is merely epsilon outside range.
func ClampToSRGBGamut(r, g, b float64) (float64, float64, float64) {
	c := colorful.Color{R: r, G: g, B: b}.Clamped()
	return c.R, c.G, c.B
}

// HexRoundTrips reports whether go-colorful parses hex back to the same
// 0-1 sRGB triple (within integer-byte rounding) that this package's own
// hex-notation parser produced (e.g. "#ff0000 == rgb(255,0,0)"). Used by
// this package's tests as an independent cross-check of the hand-written
// hex decoder in parse.go, rather than only checking the decoder against
// itself.
func HexRoundTrips(hex string, r, g, b float64) bool {
	want, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	wr, wg, wb := want.R, want.G, want.B
	const eps = 0.5 / 255
	return math.Abs(wr-r) <= eps && math.Abs(wg-g) <= eps && math.Abs(wb-b) <= eps
}
