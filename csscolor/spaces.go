package csscolor

import "math"

// This file is the CSS Color Level 4 color-space conversion math: sRGB
// transfer functions, the per-predefined-space linearization and its RGB
// -> XYZ matrix, D50/D65 chromatic adaptation, and the Lab/LCh/OKLab/OKLCh
// round trips. It mirrors the shape of a minifier's own
// internal/css_parser/css_color_spaces.go (same matrices, same reference
// comment pointing at the CSS Color 4 "color conversion code" appendix),
// which needs this table to convert modern color notation down to
// legacy-browser-safe sRGB during minification; this package needs
// exactly the same math to convert modern notation into the 0-1 sRGB
// triple Color.RGBA returns.
//
// https://drafts.csswg.org/css-color/#color-conversion-code

func linSRGB(r, g, b float64) (float64, float64, float64) {
	f := func(v float64) float64 {
		if abs := math.Abs(v); abs < 0.04045 {
			return v / 12.92
		}
		return math.Copysign(math.Pow((math.Abs(v)+0.055)/1.055, 2.4), v)
	}
	return f(r), f(g), f(b)
}

func gamSRGB(r, g, b float64) (float64, float64, float64) {
	f := func(v float64) float64 {
		if abs := math.Abs(v); abs > 0.0031308 {
			return math.Copysign(1.055*math.Pow(abs, 1/2.4)-0.055, v)
		}
		return 12.92 * v
	}
	return f(r), f(g), f(b)
}

func multiplyMatrices(m [9]float64, b0, b1, b2 float64) (float64, float64, float64) {
	return m[0]*b0 + m[1]*b1 + m[2]*b2,
		m[3]*b0 + m[4]*b1 + m[5]*b2,
		m[6]*b0 + m[7]*b1 + m[8]*b2
}

func linSRGBToXYZ(r, g, b float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		506752.0 / 1228815, 87881.0 / 245763, 12673.0 / 70218,
		87098.0 / 409605, 175762.0 / 245763, 12673.0 / 175545,
		7918.0 / 409605, 87881.0 / 737289, 1001167.0 / 1053270,
	}, r, g, b)
}

func xyzToLinSRGB(x, y, z float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		12831.0 / 3959, -329.0 / 214, -1974.0 / 3959,
		-851781.0 / 878810, 1648619.0 / 878810, 36519.0 / 878810,
		705.0 / 12673, -2585.0 / 12673, 705.0 / 667,
	}, x, y, z)
}

func linP3ToXYZ(r, g, b float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		608311.0 / 1250200, 189793.0 / 714400, 198249.0 / 1000160,
		35783.0 / 156275, 247089.0 / 357200, 198249.0 / 2500400,
		0.0 / 1, 32229.0 / 714400, 5220557.0 / 5000800,
	}, r, g, b)
}

func linProPhoto(r, g, b float64) (float64, float64, float64) {
	const et2 = 16.0 / 512
	f := func(v float64) float64 {
		if abs := math.Abs(v); abs <= et2 {
			return v / 16
		}
		return math.Copysign(math.Pow(math.Abs(v), 1.8), v)
	}
	return f(r), f(g), f(b)
}

func linProPhotoToXYZ(r, g, b float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		0.7977604896723027, 0.13518583717574031, 0.0313493495815248,
		0.2880711282292934, 0.7118432178101014, 0.00008565396060525902,
		0.0, 0.0, 0.8251046025104601,
	}, r, g, b)
}

func linA98RGB(r, g, b float64) (float64, float64, float64) {
	f := func(v float64) float64 { return math.Copysign(math.Pow(math.Abs(v), 563.0/256), v) }
	return f(r), f(g), f(b)
}

func linA98RGBToXYZ(r, g, b float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		573536.0 / 994567, 263643.0 / 1420810, 187206.0 / 994567,
		591459.0 / 1989134, 6239551.0 / 9945670, 374412.0 / 4972835,
		53769.0 / 1989134, 351524.0 / 4972835, 4929758.0 / 4972835,
	}, r, g, b)
}

func linRec2020(r, g, b float64) (float64, float64, float64) {
	const alpha = 1.09929682680944
	const beta = 0.018053968510807
	f := func(v float64) float64 {
		if abs := math.Abs(v); abs < beta*4.5 {
			return v / 4.5
		}
		return math.Copysign(math.Pow((math.Abs(v)+(alpha-1))/alpha, 1/0.45), v)
	}
	return f(r), f(g), f(b)
}

func linRec2020ToXYZ(r, g, b float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		63426534.0 / 99577255, 20160776.0 / 139408157, 47086771.0 / 278816314,
		26158966.0 / 99577255, 472592308.0 / 697040785, 8267143.0 / 139408157,
		0.0 / 1, 19567812.0 / 697040785, 295819943.0 / 278816314,
	}, r, g, b)
}

func d50ToD65(x, y, z float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		0.955473421488075, -0.02309845494876471, 0.06325924320057072,
		-0.0283697093338637, 1.0099953980813041, 0.021041441191917323,
		0.012314014864481998, -0.020507649298898964, 1.330365926242124,
	}, x, y, z)
}

func d65ToD50(x, y, z float64) (float64, float64, float64) {
	return multiplyMatrices([9]float64{
		1.0479297925449969, 0.022946870601609652, -0.05019226628920524,
		0.02962780877005599, 0.9904344267538799, -0.017073799063418826,
		-0.009243040646204504, 0.015055191490298152, 0.7518742814281371,
	}, x, y, z)
}

const d50X = 0.3457 / 0.3585
const d50Z = (1.0 - 0.3457 - 0.3585) / 0.3585

func labToXYZD50(l, a, b float64) (x, y, z float64) {
	const kappa = 24389.0 / 27
	const epsilon = 216.0 / 24389

	f1 := (l + 16) / 116
	f0 := a/500 + f1
	f2 := f1 - b/200

	f0Cubed := f0 * f0 * f0
	f2Cubed := f2 * f2 * f2

	if f0Cubed > epsilon {
		x = f0Cubed
	} else {
		x = (116*f0 - 16) / kappa
	}
	if l > kappa*epsilon {
		y = (l + 16) / 116
		y = y * y * y
	} else {
		y = l / kappa
	}
	if f2Cubed > epsilon {
		z = f2Cubed
	} else {
		z = (116*f2 - 16) / kappa
	}
	return x * d50X, y, z * d50Z
}

func xyzD50ToLab(x, y, z float64) (float64, float64, float64) {
	const epsilon = 216.0 / 24389
	const kappa = 24389.0 / 27

	x /= d50X
	z /= d50Z

	conv := func(v float64) float64 {
		if v > epsilon {
			return math.Cbrt(v)
		}
		return (kappa*v + 16) / 116
	}
	f0, f1, f2 := conv(x), conv(y), conv(z)
	return 116*f1 - 16, 500 * (f0 - f1), 200 * (f1 - f2)
}

func lchToLab(l, c, h float64) (float64, float64, float64) {
	return l, c * math.Cos(h*math.Pi/180), c * math.Sin(h*math.Pi/180)
}

func labToLCH(l, a, b float64) (float64, float64, float64) {
	hue := math.Atan2(b, a) * (180 / math.Pi)
	if hue < 0 {
		hue += 360
	}
	return l, math.Sqrt(a*a+b*b), hue
}

var xyzToLMS = [9]float64{
	0.8190224432164319, 0.3619062562801221, -0.12887378261216414,
	0.0329836671980271, 0.9292868468965546, 0.03614466816999844,
	0.048177199566046255, 0.26423952494422764, 0.6335478258136937,
}

var lmsToOKLab = [9]float64{
	0.2104542553, 0.7936177850, -0.0040720468,
	1.9779984951, -2.4285922050, 0.4505937099,
	0.0259040371, 0.7827717662, -0.8086757660,
}

var oklabToLMS = [9]float64{
	0.99999999845051981432, 0.39633779217376785678, 0.21580375806075880339,
	1.0000000088817607767, -0.1055613423236563494, -0.063854174771705903402,
	1.0000000546724109177, -0.089484182094965759684, -1.2914855378640917399,
}

var lmsToXYZ = [9]float64{
	1.2268798733741557, -0.5578149965554813, 0.28139105017721583,
	-0.04057576262431372, 1.1122868293970594, -0.07171106666151701,
	-0.07637294974672142, -0.4214933239627914, 1.5869240244272418,
}

func xyzD65ToOKLab(x, y, z float64) (float64, float64, float64) {
	l, m, s := multiplyMatrices(xyzToLMS, x, y, z)
	return multiplyMatrices(lmsToOKLab, math.Cbrt(l), math.Cbrt(m), math.Cbrt(s))
}

func oklabToXYZD65(l, a, b float64) (float64, float64, float64) {
	lv, mv, sv := multiplyMatrices(oklabToLMS, l, a, b)
	return multiplyMatrices(lmsToXYZ, lv*lv*lv, mv*mv*mv, sv*sv*sv)
}

func oklchToOKLab(l, c, h float64) (float64, float64, float64) { return lchToLab(l, c, h) }
func oklabToOKLCh(l, a, b float64) (float64, float64, float64) { return labToLCH(l, a, b) }

// labToSRGB converts a CSS lab() triple (D50 white point) to 0-1 range
// (possibly out-of-gamut) sRGB via the standard
// lab->d50_to_d65->xyz_to_lin_srgb->gam_srgb pipeline.
func labToSRGB(l, a, b float64) [3]float64 {
	x, y, z := labToXYZD50(l, a, b)
	x, y, z = d50ToD65(x, y, z)
	r, g, bl := xyzToLinSRGB(x, y, z)
	r, g, bl = gamSRGB(r, g, bl)
	return [3]float64{r, g, bl}
}

// oklabToSRGB converts a CSS oklab() triple to 0-1 range sRGB.
func oklabToSRGB(l, a, b float64) [3]float64 {
	x, y, z := oklabToXYZD65(l, a, b)
	r, g, bl := xyzToLinSRGB(x, y, z)
	r, g, bl = gamSRGB(r, g, bl)
	return [3]float64{r, g, bl}
}

// predefinedToSRGB converts a color(<space> c1 c2 c3) triple to 0-1 range
// sRGB, dispatching on the predefined color space identifier per CSS
// Color 4 §10. Unknown / custom ("--name") spaces pass the components
// through unconverted, since this package has no profile to interpret
// them against.
func predefinedToSRGB(space Predefined, c0, c1, c2 float64) [3]float64 {
	var x, y, z float64
	switch space {
	case SpaceA98RGB:
		r, g, b := linA98RGB(c0, c1, c2)
		x, y, z = linA98RGBToXYZ(r, g, b)
	case SpaceDisplayP3:
		r, g, b := linSRGB(c0, c1, c2) // display-p3 uses the sRGB transfer curve
		x, y, z = linP3ToXYZ(r, g, b)
	case SpaceProPhotoRGB:
		r, g, b := linProPhoto(c0, c1, c2)
		x, y, z = linProPhotoToXYZ(r, g, b)
		x, y, z = d50ToD65(x, y, z)
	case SpaceRec2020:
		r, g, b := linRec2020(c0, c1, c2)
		x, y, z = linRec2020ToXYZ(r, g, b)
	case SpaceSRGB:
		r, g, b := linSRGB(c0, c1, c2)
		x, y, z = linSRGBToXYZ(r, g, b)
	case SpaceSRGBLinear:
		x, y, z = linSRGBToXYZ(c0, c1, c2)
	case SpaceXYZ, SpaceXYZD65:
		x, y, z = c0, c1, c2
	case SpaceXYZD50:
		x, y, z = d50ToD65(c0, c1, c2)
	default:
		return [3]float64{c0, c1, c2}
	}
	r, g, b := xyzToLinSRGB(x, y, z)
	r, g, b = gamSRGB(r, g, b)
	return [3]float64{r, g, b}
}

// InGamutSRGB reports whether r, g, b (0-1 range) fall inside the sRGB
// gamut.
func InGamutSRGB(r, g, b float64) bool {
	return r >= 0 && r <= 1 && g >= 0 && g <= 1 && b >= 0 && b <= 1
}

func deltaEOK(l1, a1, b1, l2, a2, b2 float64) float64 {
	dl, da, db := l1-l2, a1-a2, b1-b2
	return math.Sqrt(dl*dl + da*da + db*db)
}

// GamutMapToSRGB implements the CSS Color 4 §13.2 "CSS Gamut Mapping"
// algorithm: binary-search the OKLCh chroma of an out-of-gamut XYZ (D65)
// color down to the sRGB gamut boundary, using a perceptual (deltaEOK)
// just-noticeable-difference threshold to stop early, falling back to the
// naive per-channel clip.
func GamutMapToSRGB(x, y, z float64) (float64, float64, float64) {
	originL, originC, originH := oklabToOKLCh(xyzD65ToOKLab(x, y, z))

	if originL >= 1 || originL <= 0 {
		return originL, originL, originL
	}

	oklchToSRGB := func(l, c, h float64) (float64, float64, float64) {
		ll, aa, bb := oklchToOKLab(l, c, h)
		xx, yy, zz := oklabToXYZD65(ll, aa, bb)
		r, g, b := xyzToLinSRGB(xx, yy, zz)
		return gamSRGB(r, g, b)
	}
	srgbToOKLab := func(r, g, b float64) (float64, float64, float64) {
		r, g, b = linSRGB(r, g, b)
		xx, yy, zz := linSRGBToXYZ(r, g, b)
		return xyzD65ToOKLab(xx, yy, zz)
	}
	clip := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}

	r, g, b := oklchToSRGB(originL, originC, originH)
	if InGamutSRGB(r, g, b) {
		return r, g, b
	}

	const jnd = 0.02
	const epsilon = 0.0001
	min, max := 0.0, originC

	for max-min > epsilon {
		chroma := (min + max) / 2
		originC = chroma

		r, g, b = oklchToSRGB(originL, originC, originH)
		if InGamutSRGB(r, g, b) {
			min = chroma
			continue
		}

		clippedR, clippedG, clippedB := clip(r), clip(g), clip(b)
		l1, a1, b1 := srgbToOKLab(clippedR, clippedG, clippedB)
		l2, a2, b2 := srgbToOKLab(r, g, b)
		if deltaEOK(l1, a1, b1, l2, a2, b2) < jnd {
			return clippedR, clippedG, clippedB
		}
		max = chroma
	}

	return clip(r), clip(g), clip(b)
}
