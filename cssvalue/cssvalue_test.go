package cssvalue

import (
	"testing"

	"github.com/cssdialect/cssengine/cssparse"
	"github.com/cssdialect/cssengine/source"
)

func firstToken(t *testing.T, text string) *cssparse.Cursor {
	t.Helper()
	return cssparse.NewCursor(source.NewLog(), &source.Source{Contents: text})
}

func TestUnitKind(t *testing.T) {
	cases := []struct {
		unit string
		kind Kind
	}{
		{"px", KindLength}, {"PX", KindLength}, {"cm", KindLength},
		{"em", KindLength}, {"vw", KindLength}, {"cqi", KindLength},
		{"deg", KindAngle}, {"grad", KindAngle}, {"rad", KindAngle}, {"turn", KindAngle},
		{"s", KindTime}, {"ms", KindTime},
		{"hz", KindFrequency}, {"khz", KindFrequency},
		{"dppx", KindResolution}, {"x", KindResolution}, {"dpi", KindResolution},
		{"fr", KindFlex},
		{"bogus", KindUnknown},
	}
	for _, c := range cases {
		if got := UnitKind(c.unit); got != c.kind {
			t.Errorf("UnitKind(%q) = %v, want %v", c.unit, got, c.kind)
		}
	}
}

func TestParseDimensionAndCanonical(t *testing.T) {
	cur := firstToken(t, "2in")
	tok := cur.Current()
	d, ok := ParseDimension(tok)
	if !ok {
		t.Fatalf("ParseDimension failed on %q", tok.Text())
	}
	if d.Kind != KindLength {
		t.Fatalf("expected KindLength, got %v", d.Kind)
	}
	px, ok := d.ToCanonical()
	if !ok || px != 192 {
		t.Fatalf("expected 2in -> 192px, got %v (ok=%v)", px, ok)
	}
}

func TestToCanonicalRelativeUnitFails(t *testing.T) {
	cur := firstToken(t, "2em")
	d, ok := ParseDimension(cur.Current())
	if !ok || d.Kind != KindLength {
		t.Fatalf("expected a recognized length unit, got %+v ok=%v", d, ok)
	}
	if _, ok := d.ToCanonical(); ok {
		t.Fatalf("expected ToCanonical to fail for a relative unit (em)")
	}
}

func TestAngleDegrees(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"180deg", 180},
		{"200grad", 180},
		{"0.5turn", 180},
	}
	for _, c := range cases {
		cur := firstToken(t, c.text)
		got, ok := AngleDegrees(cur.Current())
		if !ok {
			t.Fatalf("AngleDegrees(%q) failed", c.text)
		}
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("AngleDegrees(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	cur := firstToken(t, "50%")
	got, ok := Percentage(cur.Current())
	if !ok || got != 50 {
		t.Fatalf("Percentage(50%%) = %v, ok=%v", got, ok)
	}
}

func TestParseRatioBareNumber(t *testing.T) {
	cur := firstToken(t, "16")
	r, ok := ParseRatio(cur)
	if !ok {
		t.Fatalf("ParseRatio(16) failed")
	}
	if r.Numerator != 16 || r.Denominator != 1 {
		t.Fatalf("expected 16/1, got %+v", r)
	}
}

func TestParseRatioTwoNumbers(t *testing.T) {
	cur := firstToken(t, "16 / 9")
	r, ok := ParseRatio(cur)
	if !ok {
		t.Fatalf("ParseRatio(16 / 9) failed")
	}
	if r.Numerator != 16 || r.Denominator != 9 {
		t.Fatalf("expected 16/9, got %+v", r)
	}
	if diff := r.Float() - (16.0 / 9.0); diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Float() = %v, want %v", r.Float(), 16.0/9.0)
	}
}

func TestLooksLikeGradientFunction(t *testing.T) {
	kind, repeating, ok := LooksLikeGradientFunction("repeating-linear-gradient")
	if !ok || kind != GradientLinear || !repeating {
		t.Fatalf("repeating-linear-gradient: kind=%v repeating=%v ok=%v", kind, repeating, ok)
	}
	if _, _, ok := LooksLikeGradientFunction("not-a-gradient"); ok {
		t.Fatalf("expected not-a-gradient to not match")
	}
}

func TestLooksLikeImageFunction(t *testing.T) {
	for _, name := range []string{"image-set", "cross-fade", "radial-gradient", "element"} {
		if !LooksLikeImageFunction(name) {
			t.Errorf("expected %q to be recognized as an image function", name)
		}
	}
	if LooksLikeImageFunction("not-an-image") {
		t.Errorf("did not expect not-an-image to be recognized")
	}
}
