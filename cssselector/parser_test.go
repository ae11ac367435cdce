package cssselector

import (
	"testing"

	"github.com/cssdialect/cssengine/cssparse"
	"github.com/cssdialect/cssengine/csslex"
	"github.com/cssdialect/cssengine/source"
)

func parseSelectors(t *testing.T, text string) *SelectorList {
	t.Helper()
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: text})
	list, err := ParseSelectorList(c)
	if err != nil {
		t.Fatalf("ParseSelectorList(%q): %v", text, err)
	}
	return list
}

func TestSimpleTypeSelector(t *testing.T) {
	list := parseSelectors(t, "div")
	if len(list.Selectors) != 1 {
		t.Fatalf("expected 1 selector, got %d", len(list.Selectors))
	}
	c := list.Selectors[0]
	if len(c.Compounds) != 1 || len(c.Compounds[0].Simples) != 1 {
		t.Fatalf("unexpected shape: %+v", c)
	}
	s := c.Compounds[0].Simples[0]
	if s.Kind != SimpleType || s.Name != "div" {
		t.Fatalf("expected type selector \"div\", got %+v", s)
	}
}

func TestCompoundSelector(t *testing.T) {
	list := parseSelectors(t, "div.foo#bar:hover")
	comp := list.Selectors[0].Compounds[0]
	if len(comp.Simples) != 4 {
		t.Fatalf("expected 4 simple selectors, got %d: %+v", len(comp.Simples), comp.Simples)
	}
	wantKinds := []SimpleKind{SimpleType, SimpleClass, SimpleID, SimplePseudoClass}
	for i, k := range wantKinds {
		if comp.Simples[i].Kind != k {
			t.Errorf("simple[%d].Kind = %v, want %v", i, comp.Simples[i].Kind, k)
		}
	}
}

func TestCombinators(t *testing.T) {
	cases := []struct {
		text string
		want CombinatorKind
	}{
		{"a b", CombinatorDescendant},
		{"a > b", CombinatorChild},
		{"a + b", CombinatorNextSibling},
		{"a ~ b", CombinatorLaterSibling},
		{"a || b", CombinatorColumn},
		{"a >>> b", CombinatorDeepDescendant},
		{"a /deep/ b", CombinatorDeep},
	}
	for _, tt := range cases {
		list := parseSelectors(t, tt.text)
		c := list.Selectors[0]
		if len(c.Combinators) != 1 || c.Combinators[0] != tt.want {
			t.Errorf("%q: combinators = %v, want [%v]", tt.text, c.Combinators, tt.want)
		}
	}
}

func TestInvalidDoubleChildCombinatorErrors(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "a >> b"})
	if _, err := ParseSelectorList(c); err == nil {
		t.Fatalf("expected \"a >> b\" to be a parse error")
	}
}

func TestAttributeSelector(t *testing.T) {
	list := parseSelectors(t, `a[href^="https://" i]`)
	s := list.Selectors[0].Compounds[0].Simples[0]
	if s.Kind != SimpleType || s.Name != "a" {
		t.Fatalf("expected leading type selector \"a\"")
	}
	attr := list.Selectors[0].Compounds[0].Simples[1]
	if attr.Kind != SimpleAttribute || attr.Name != "href" {
		t.Fatalf("expected attribute selector \"href\", got %+v", attr)
	}
	if attr.AttrMatch != AttrPrefix || attr.AttrValue != "https://" {
		t.Fatalf("unexpected attribute match: %+v", attr)
	}
	if attr.AttrCase != AttrCaseInsensitive {
		t.Fatalf("expected case-insensitive flag, got %v", attr.AttrCase)
	}
}

func TestForgivingSelectorListDropsInvalid(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "div, ###, span"})
	list, err := ParseForgivingSelectorList(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, sel := range list.Selectors {
		names = append(names, sel.Compounds[0].Simples[0].Name)
	}
	if len(names) != 2 || names[0] != "div" || names[1] != "span" {
		t.Fatalf("expected [div span] surviving the forgiving list, got %v", names)
	}
}

func TestFunctionalPseudoIs(t *testing.T) {
	list := parseSelectors(t, ":is(.a, .b) span")
	is := list.Selectors[0].Compounds[0].Simples[0]
	if is.Kind != SimplePseudoClass || is.Name != "is" {
		t.Fatalf("expected :is pseudo-class, got %+v", is)
	}
	if is.SelectorArg == nil || len(is.SelectorArg.Selectors) != 2 {
		t.Fatalf("expected :is() argument to parse two selectors, got %+v", is.SelectorArg)
	}
}

func TestNthChildANB(t *testing.T) {
	list := parseSelectors(t, ":nth-child(2n+1)")
	s := list.Selectors[0].Compounds[0].Simples[0]
	if s.Kind != SimplePseudoClass || s.Name != "nth-child" {
		t.Fatalf("expected :nth-child, got %+v", s)
	}
	if s.ANB == nil || s.ANB.A != 2 || s.ANB.B != 1 {
		t.Fatalf("expected ANB{2,1}, got %+v", s.ANB)
	}
}

func TestNthChildOfSelector(t *testing.T) {
	list := parseSelectors(t, ":nth-child(odd of .foo)")
	s := list.Selectors[0].Compounds[0].Simples[0]
	if s.ANB == nil || s.ANB.A != 2 || s.ANB.B != 1 {
		t.Fatalf("expected \"odd\" to parse as An+B{2,1}, got %+v", s.ANB)
	}
	if s.ANB.Of == nil || len(s.ANB.Of.Selectors) != 1 {
		t.Fatalf("expected an \"of\" selector list, got %+v", s.ANB.Of)
	}
}

func TestANBMatches(t *testing.T) {
	anb := ANB{A: 2, B: 1} // odd
	for n := 1; n <= 6; n++ {
		want := n%2 == 1
		if anb.Matches(n) != want {
			t.Errorf("ANB{2,1}.Matches(%d) = %v, want %v", n, anb.Matches(n), want)
		}
	}
	anb0 := ANB{A: 0, B: 3}
	if !anb0.Matches(3) || anb0.Matches(4) {
		t.Fatalf("ANB{0,3} should match only 3")
	}
}

func TestSpecificity(t *testing.T) {
	cases := []struct {
		text string
		want Specificity
	}{
		{"div", Specificity{Elements: 1}},
		{"#id", Specificity{IDs: 1}},
		{".cls", Specificity{Classes: 1}},
		{"div.cls#id", Specificity{IDs: 1, Classes: 1, Elements: 1}},
		{"*", Specificity{}},
	}
	for _, tt := range cases {
		list := parseSelectors(t, tt.text)
		got := list.Selectors[0].Specificity()
		if got != tt.want {
			t.Errorf("Specificity(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func TestWherePseudoContributesZeroSpecificity(t *testing.T) {
	list := parseSelectors(t, ":where(#id.cls)")
	got := list.Selectors[0].Specificity()
	if got != (Specificity{}) {
		t.Fatalf(":where() must contribute zero specificity, got %+v", got)
	}
}

func TestIsPseudoContributesMaxArgSpecificity(t *testing.T) {
	list := parseSelectors(t, ":is(#id, .cls)")
	got := list.Selectors[0].Specificity()
	want := Specificity{IDs: 1} // max(#id, .cls) = #id, since an ID outranks a class
	if got != want {
		t.Fatalf(":is(#id, .cls) specificity = %+v, want %+v", got, want)
	}
}

func TestHasPseudoContributesZeroSpecificity(t *testing.T) {
	list := parseSelectors(t, "div:has(#x)")
	got := list.Selectors[0].Specificity()
	want := Specificity{Elements: 1} // :has() itself contributes zero
	if got != want {
		t.Fatalf("div:has(#x) specificity = %+v, want %+v", got, want)
	}
}

func TestSpecificityOrdering(t *testing.T) {
	lower := Specificity{Elements: 3}
	higher := Specificity{Classes: 1}
	if !lower.Less(higher) {
		t.Fatalf("expected a class to outrank three type selectors")
	}
}

func TestAnonymousUniversalPrefixBeforePseudo(t *testing.T) {
	list := parseSelectors(t, ":hover")
	comp := list.Selectors[0].Compounds[0]
	if len(comp.Simples) != 1 || comp.Simples[0].Kind != SimplePseudoClass {
		t.Fatalf("expected a bare pseudo-class with no explicit universal simple, got %+v", comp.Simples)
	}
}

func TestUnknownFunctionalPseudoClassRoundTrips(t *testing.T) {
	list := parseSelectors(t, ":future-pseudo(foo, bar(1 2))")
	s := list.Selectors[0].Compounds[0].Simples[0]
	if s.Kind != SimplePseudoClass || s.Name != "future-pseudo" {
		t.Fatalf("expected pseudo-class \"future-pseudo\", got %+v", s)
	}
	if !s.IsCustomFunction {
		t.Fatalf("expected IsCustomFunction, got %+v", s)
	}
	if s.RawArg != "foo, bar(1 2)" {
		t.Fatalf("expected raw argument round-trip, got %q", s.RawArg)
	}
}

func TestUnknownFunctionalPseudoClassDoesNotDesyncStream(t *testing.T) {
	list := parseSelectors(t, ":future-pseudo(foo) span")
	comp := list.Selectors[0].Compounds
	if len(comp) != 2 || comp[1].Simples[0].Name != "span" {
		t.Fatalf("expected parsing to resume after the custom function's \")\", got %+v", list.Selectors[0])
	}
}

func TestWebkitAnyAliasesIs(t *testing.T) {
	list := parseSelectors(t, ":-webkit-any(.a, .b)")
	s := list.Selectors[0].Compounds[0].Simples[0]
	if s.Kind != SimplePseudoClass || s.Name != "-webkit-any" {
		t.Fatalf("expected :-webkit-any, got %+v", s)
	}
	if s.SelectorArg == nil || len(s.SelectorArg.Selectors) != 2 {
		t.Fatalf("expected two selectors in :-webkit-any() argument, got %+v", s.SelectorArg)
	}
}

func TestCurrentPseudoClass(t *testing.T) {
	list := parseSelectors(t, ":current(.a)")
	s := list.Selectors[0].Compounds[0].Simples[0]
	if s.Kind != SimplePseudoClass || s.Name != "current" {
		t.Fatalf("expected :current, got %+v", s)
	}
	if s.SelectorArg == nil || len(s.SelectorArg.Selectors) != 1 {
		t.Fatalf("expected one selector in :current() argument, got %+v", s.SelectorArg)
	}
}

func TestPseudoClassRejectedAfterPseudoElement(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "::before:hover"})
	if _, err := ParseSelectorList(c); err == nil {
		t.Fatalf("expected an error for a pseudo-class following ::before")
	}
}

func TestWebkitScrollbarStatePseudoClassAllowed(t *testing.T) {
	list := parseSelectors(t, "::-webkit-scrollbar-thumb:horizontal")
	comp := list.Selectors[0].Compounds[0]
	if len(comp.Simples) != 2 {
		t.Fatalf("expected pseudo-element + state pseudo-class, got %+v", comp.Simples)
	}
	if comp.Simples[0].Kind != SimplePseudoElement || comp.Simples[0].Name != "-webkit-scrollbar-thumb" {
		t.Fatalf("expected ::-webkit-scrollbar-thumb, got %+v", comp.Simples[0])
	}
	if comp.Simples[1].Kind != SimplePseudoClass || comp.Simples[1].Name != "horizontal" {
		t.Fatalf("expected :horizontal to be accepted after the scrollbar pseudo-element, got %+v", comp.Simples[1])
	}
}

func TestNthChildAllowedAfterViewTransitionPseudoElement(t *testing.T) {
	list := parseSelectors(t, "::view-transition-group(*):only-child")
	comp := list.Selectors[0].Compounds[0]
	if len(comp.Simples) != 2 {
		t.Fatalf("expected pseudo-element + pseudo-class, got %+v", comp.Simples)
	}
	if comp.Simples[1].Name != "only-child" {
		t.Fatalf("expected :only-child to be accepted after ::view-transition-group(), got %+v", comp.Simples[1])
	}
}

func TestStopBeforeOpenCurlyForRulePrelude(t *testing.T) {
	c := cssparse.NewCursor(source.NewLog(), &source.Source{Contents: "a, b { color: red }"})
	sub := c.StopBefore(csslex.TOpenCurly)
	list, err := ParseSelectorList(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Selectors) != 2 {
		t.Fatalf("expected 2 selectors before '{', got %d", len(list.Selectors))
	}
	if !c.At(csslex.TOpenCurly) {
		t.Fatalf("expected underlying cursor positioned at '{', got %s", c.Current().Kind)
	}
}
