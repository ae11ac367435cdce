package cssselector

import (
	"strconv"
	"strings"

	"github.com/cssdialect/cssengine/cssparse"
	"github.com/cssdialect/cssengine/csslex"
	"github.com/cssdialect/cssengine/source"
)

// tokenCursor is the subset of cssparse.Cursor / cssparse.SubCursor this
// parser needs, so a top-level parse (stopping at a prelude's "{") and a
// bounded argument parse (stopping at its own ")") share one code path.
type tokenCursor interface {
	Current() csslex.Token
	Next() csslex.Token
	At(k csslex.T) bool
	AtEOF() bool
	HadWhitespaceBefore() bool
}

// listFrame is one level of the explicit parse stack: either the top-level
// selector list, or the argument list of a functional pseudo-class/
// pseudo-element (:is()/:not()/:where()/:has()/the "of S" clause of
// :nth-child()). Pushing a frame for every nested argument list, instead
// of recursing, is what lets `:is(:is(:is(...)))` nest arbitrarily deep
// without growing the Go call stack -- see package doc.
type listFrame struct {
	forgiving bool // invalid items are dropped rather than failing the list
	relative  bool // a leading combinator is allowed (implying :scope), per :has()

	complexes []Complex

	// in-progress complex selector
	compounds   []Compound
	combinators []CombinatorKind

	// in-progress compound selector
	simples          []Simple
	needCompoundStart bool   // true at the very start, and right after a combinator
	sawPseudoElement  bool   // this compound already has a pseudo-element
	pseudoElementName string // which one, so contextual exceptions can check it

	// assign plugs this frame's finished SelectorList into whatever
	// triggered it (a pending Simple's SelectorArg, or an ANB's Of field)
	// once the frame's stop token is reached. nil for the top-level frame.
	assign func(SelectorList)
}

func newFrame(forgiving, relative bool, assign func(SelectorList)) *listFrame {
	return &listFrame{forgiving: forgiving, relative: relative, needCompoundStart: true, assign: assign}
}

// parser holds the stack and the shared cursor/error state for one
// top-level ParseSelectorList call.
type parser struct {
	cur   tokenCursor
	stack []*listFrame
	err   *cssparse.ParseError
}

// ParseSelectorList parses a <complex-selector-list> from cur, stopping
// (without consuming) at the first top-level "{" or at EOF. To stop at
// some other token, pass a cursor that reports EOF there, such as the
// cssparse.SubCursor returned by StopBefore.
func ParseSelectorList(cur tokenCursor) (*SelectorList, error) {
	return parseList(cur, false, false)
}

// ParseForgivingSelectorList parses a <forgiving-selector-list>: selectors
// that fail to parse are dropped instead of invalidating the whole list,
// per CSS Selectors Level 4 §4 (used by :is()/:where()'s own argument, and
// directly by consumers implementing things like ::slotted()'s looser
// argument grammar).
func ParseForgivingSelectorList(cur tokenCursor) (*SelectorList, error) {
	return parseList(cur, true, false)
}

// ParseRelativeSelectorList parses a <relative-selector-list>: each
// selector may start with a combinator, implicitly relative to :scope, per
// :has()'s argument grammar.
func ParseRelativeSelectorList(cur tokenCursor) (*SelectorList, error) {
	return parseList(cur, false, true)
}

func parseList(cur tokenCursor, forgiving, relative bool) (*SelectorList, error) {
	p := &parser{cur: cur}
	var result SelectorList
	top := newFrame(forgiving, relative, func(l SelectorList) { result = l })
	p.stack = []*listFrame{top}

	if err := p.run(); err != nil {
		return nil, err
	}
	return &result, nil
}

// run is the trampoline: it repeatedly advances whichever frame is on top
// of the stack until the stack empties (the top-level frame finished).
func (p *parser) run() error {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		isTop := len(p.stack) == 1

		tok := p.cur.Current()

		if p.atFrameStop(top, isTop, tok) {
			if err := p.finishFrame(top); err != nil {
				return err
			}
			continue
		}

		if err := p.step(top, isTop); err != nil {
			if top.forgiving {
				// Drop the offending selector: skip forward to the next
				// comma or the frame's stop token, then keep going.
				p.recoverForgiving(top, isTop)
				continue
			}
			return err
		}
	}
	return nil
}

func isAnyCloserOrEOF(k csslex.T) bool {
	switch k {
	case csslex.TCloseParen, csslex.TCloseSquare, csslex.TCloseCurly, csslex.TEOF:
		return true
	}
	return false
}

func (p *parser) atFrameStop(f *listFrame, isTop bool, tok csslex.Token) bool {
	if isTop {
		return tok.Kind == csslex.TEOF || tok.Kind == csslex.TOpenCurly
	}
	return tok.Kind == csslex.TCloseParen || tok.Kind == csslex.TEOF
}

func (p *parser) finishFrame(f *listFrame) error {
	if len(f.simples) > 0 || len(f.compounds) > 0 {
		f.compounds = append(f.compounds, Compound{Simples: f.simples})
		f.complexes = append(f.complexes, Complex{Compounds: f.compounds, Combinators: f.combinators})
	}

	if p.cur.At(csslex.TCloseParen) {
		p.cur.Next()
	}

	assign := f.assign
	p.stack = p.stack[:len(p.stack)-1]
	if assign != nil {
		assign(SelectorList{Selectors: f.complexes})
	}
	return nil
}

// recoverForgiving skips tokens up to the next top-level comma (which it
// consumes) or this frame's stop token (which it does not), discarding
// whatever partial selector was being built, and resets the frame to
// start a fresh compound.
func (p *parser) recoverForgiving(f *listFrame, isTop bool) {
	depth := 0
	for {
		tok := p.cur.Current()
		if depth == 0 {
			if tok.Kind == csslex.TComma || p.atFrameStop(f, isTop, tok) {
				break
			}
			if isAnyCloserOrEOF(tok.Kind) {
				// A stray closer that doesn't belong to this frame: stop
				// without consuming it rather than eating a sibling
				// list's terminator.
				break
			}
		}
		switch tok.Kind {
		case csslex.TOpenParen, csslex.TFunction, csslex.TOpenSquare, csslex.TOpenCurly:
			depth++
		case csslex.TCloseParen, csslex.TCloseSquare, csslex.TCloseCurly:
			if depth > 0 {
				depth--
			}
		}
		p.cur.Next()
	}
	if p.cur.At(csslex.TComma) {
		p.cur.Next()
	}
	f.simples = nil
	f.compounds = nil
	f.combinators = nil
	f.needCompoundStart = true
	f.sawPseudoElement = false
	f.pseudoElementName = ""
}

// step performs one unit of work on the top frame: consume a comma,
// combinator, or simple selector component. It returns an error for a
// syntactically invalid selector (the caller decides whether that's fatal
// or forgiven).
func (p *parser) step(f *listFrame, isTop bool) error {
	tok := p.cur.Current()

	if tok.Kind == csslex.TComma {
		p.cur.Next()
		f.compounds = append(f.compounds, Compound{Simples: f.simples})
		f.complexes = append(f.complexes, Complex{Compounds: f.compounds, Combinators: f.combinators})
		f.simples = nil
		f.compounds = nil
		f.combinators = nil
		f.needCompoundStart = true
		f.sawPseudoElement = false
		f.pseudoElementName = ""
		return nil
	}

	if f.needCompoundStart {
		if comb, matched, err := p.matchCombinator(tok); err != nil {
			return err
		} else if matched {
			if len(f.compounds) == 0 && !f.relative {
				return p.errorf(tok, "selector cannot start with a combinator")
			}
			if len(f.compounds) == 0 {
				// :has()'s implicit leading :scope compound.
				f.compounds = append(f.compounds, Compound{Simples: []Simple{{Kind: SimplePseudoClass, Name: "scope"}}})
			}
			f.combinators = append(f.combinators, comb)
			return nil
		}
		if p.cur.HadWhitespaceBefore() && len(f.compounds) > 0 && len(f.combinators) < len(f.compounds) {
			// Bare whitespace between compounds is the descendant
			// combinator, unless an explicit combinator already joined them.
			f.combinators = append(f.combinators, CombinatorDescendant)
		}
		f.needCompoundStart = false
		return p.parseCompoundHead(f)
	}

	// Mid-compound: a combinator or whitespace ends the current compound.
	if comb, matched, err := p.matchCombinator(tok); err != nil {
		return err
	} else if matched {
		f.compounds = append(f.compounds, Compound{Simples: f.simples})
		f.combinators = append(f.combinators, comb)
		f.simples = nil
		f.needCompoundStart = true
		f.sawPseudoElement = false
		f.pseudoElementName = ""
		return nil
	}
	if p.cur.HadWhitespaceBefore() {
		f.compounds = append(f.compounds, Compound{Simples: f.simples})
		f.simples = nil
		f.needCompoundStart = true
		f.sawPseudoElement = false
		f.pseudoElementName = ""
		return nil
	}

	return p.parseSubclassOrPseudo(f)
}

// matchCombinator recognizes and consumes a combinator starting at tok
// (the cursor's current token, passed in so callers that already fetched
// it via p.cur.Current() don't re-fetch): the single-token combinators
// (">" , "+", "~", "||") plus the two multi-token legacy Shadow-DOM
// piercing combinators CSS Selectors Level 4 §9 no longer defines but
// Vue/Angular-authored stylesheets still use, ">>>" and "/deep/" (see
// spec §9's Open Question; this module keeps supporting both). A
// successful match consumes every token the combinator spans, and a tok
// that starts no combinator consumes nothing; a malformed legacy
// combinator (">>" without a third ">", or "/" not followed by "deep/")
// returns an error after consuming the tokens read so far.
func (p *parser) matchCombinator(tok csslex.Token) (CombinatorKind, bool, error) {
	switch {
	case tok.Kind == csslex.TDelim && tok.Delim == '>':
		p.cur.Next()
		if !(p.cur.At(csslex.TDelim) && p.cur.Current().Delim == '>' && !p.cur.HadWhitespaceBefore()) {
			return CombinatorChild, true, nil
		}
		p.cur.Next()
		if !(p.cur.At(csslex.TDelim) && p.cur.Current().Delim == '>' && !p.cur.HadWhitespaceBefore()) {
			return 0, false, p.errorf(p.cur.Current(), "unexpected \">>\" combinator")
		}
		p.cur.Next()
		return CombinatorDeepDescendant, true, nil

	case tok.Kind == csslex.TDelim && tok.Delim == '+':
		p.cur.Next()
		return CombinatorNextSibling, true, nil

	case tok.Kind == csslex.TDelim && tok.Delim == '~':
		p.cur.Next()
		return CombinatorLaterSibling, true, nil

	case tok.Kind == csslex.TColumn:
		p.cur.Next()
		return CombinatorColumn, true, nil

	case tok.Kind == csslex.TDelim && tok.Delim == '/':
		p.cur.Next()
		if p.cur.At(csslex.TIdent) && strings.EqualFold(p.cur.Current().Text(), "deep") && !p.cur.HadWhitespaceBefore() {
			p.cur.Next()
			if p.cur.At(csslex.TDelim) && p.cur.Current().Delim == '/' && !p.cur.HadWhitespaceBefore() {
				p.cur.Next()
				return CombinatorDeep, true, nil
			}
		}
		return 0, false, p.errorf(tok, "unexpected \"/\"")
	}
	return 0, false, nil
}

// parseCompoundHead handles the optional type-selector/universal at the
// very start of a compound, then falls through to subclass selectors.
func (p *parser) parseCompoundHead(f *listFrame) error {
	tok := p.cur.Current()
	switch tok.Kind {
	case csslex.TDelim:
		if tok.Delim == '*' {
			p.cur.Next()
			ns, isAny, hasNS, name, err := p.maybeNamespacedName("*")
			if err != nil {
				return err
			}
			f.simples = append(f.simples, Simple{Kind: SimpleUniversal, Namespace: ns, NamespaceIsAny: isAny, HasNamespace: hasNS, Name: name})
			return nil
		}
		if tok.Delim == '&' {
			p.cur.Next()
			f.simples = append(f.simples, Simple{Kind: SimpleNesting})
			return nil
		}
		if tok.Delim == '|' {
			// "|name" / "|*" -- explicitly the null (no) namespace.
			p.cur.Next()
			return p.parseTypeAfterPipe(f, "", false)
		}
	case csslex.TIdent:
		name := tok.Text()
		p.cur.Next()
		ns, isAny, hasNS, rest, err := p.maybeNamespacedName(name)
		if err != nil {
			return err
		}
		if hasNS {
			if rest == "*" {
				f.simples = append(f.simples, Simple{Kind: SimpleUniversal, Namespace: ns, NamespaceIsAny: isAny, HasNamespace: true})
			} else {
				f.simples = append(f.simples, Simple{Kind: SimpleType, Namespace: ns, NamespaceIsAny: isAny, HasNamespace: true, Name: rest})
			}
		} else {
			f.simples = append(f.simples, Simple{Kind: SimpleType, Name: name})
		}
		return nil
	}
	return p.parseSubclassOrPseudo(f)
}

func (p *parser) parseTypeAfterPipe(f *listFrame, ns string, isAny bool) error {
	tok := p.cur.Current()
	switch {
	case tok.Kind == csslex.TIdent:
		p.cur.Next()
		f.simples = append(f.simples, Simple{Kind: SimpleType, Namespace: ns, HasNamespace: true, NamespaceIsAny: isAny, Name: tok.Text()})
		return nil
	case tok.Kind == csslex.TDelim && tok.Delim == '*':
		p.cur.Next()
		f.simples = append(f.simples, Simple{Kind: SimpleUniversal, Namespace: ns, HasNamespace: true, NamespaceIsAny: isAny})
		return nil
	}
	return p.errorf(tok, "expected name after namespace separator")
}

// maybeNamespacedName checks for a "|name"/"|*" continuation right after
// an identifier or "*" that could be a namespace prefix. first is the text
// already consumed (an ident, or "*"). It returns (namespace, isAny,
// hasNamespace, name, err); when hasNamespace is false, name/isAny/ns are
// zero and the caller should treat first as a plain (un-namespaced) name.
func (p *parser) maybeNamespacedName(first string) (ns string, isAny, hasNamespace bool, name string, err error) {
	if !(p.cur.At(csslex.TDelim) && p.cur.Current().Delim == '|') {
		return "", false, false, "", nil
	}
	// Don't confuse with "||" (TColumn) or "|=" (TDashMatch), which the
	// tokenizer already combines into their own token kinds, so a lone
	// TDelim('|') here unambiguously starts a namespace separator.
	p.cur.Next()
	tok := p.cur.Current()
	switch {
	case tok.Kind == csslex.TIdent:
		p.cur.Next()
		return first, first == "*", true, tok.Text(), nil
	case tok.Kind == csslex.TDelim && tok.Delim == '*':
		p.cur.Next()
		return first, first == "*", true, "*", nil
	}
	return "", false, false, "", p.errorf(tok, "expected name after namespace separator")
}

func (p *parser) parseSubclassOrPseudo(f *listFrame) error {
	tok := p.cur.Current()

	switch tok.Kind {
	case csslex.TIDHash:
		p.cur.Next()
		f.simples = append(f.simples, Simple{Kind: SimpleID, Name: tok.Text()})
		return nil

	case csslex.THash:
		return p.errorf(tok, "invalid id selector (hash does not start an identifier)")

	case csslex.TDelim:
		if tok.Delim == '.' {
			p.cur.Next()
			nameTok := p.cur.Current()
			if nameTok.Kind != csslex.TIdent {
				return p.errorf(nameTok, "expected class name")
			}
			p.cur.Next()
			f.simples = append(f.simples, Simple{Kind: SimpleClass, Name: nameTok.Text()})
			return nil
		}

	case csslex.TOpenSquare:
		p.cur.Next()
		s, err := p.parseAttributeBracket()
		if err != nil {
			return err
		}
		f.simples = append(f.simples, s)
		return nil

	case csslex.TColon:
		return p.parsePseudo(f)
	}

	return p.errorf(tok, "unexpected token in compound selector")
}

// parseAttributeBracket parses an attribute selector's "[...]" body,
// having already consumed the opening "[". When p.cur is a concrete
// *cssparse.Cursor, this drives the bracket through ParseNestedBlock so a
// malformed attribute selector (a bad match operator, a missing value)
// can never desync the cursor from the "]" it opened with: the nested
// block is drained to its matching closer regardless of what the inner
// parse consumed, the same "resync on exit" contract a declaration's
// value parser leans on.
//
// p.cur's static type is the narrow tokenCursor interface shared with
// csscalc/csscolor (so one cursor can drive both a top-level parse and a
// bounded argument sub-parse without an import cycle on cssparse), so
// that capability is only reachable by a type assertion back to the
// concrete cursor. When p.cur is some other tokenCursor implementation
// (such as the *cssparse.SubCursor a rule prelude passes after
// StopBefore), parseAttribute falls back to the manual "]" check it
// always used.
func (p *parser) parseAttributeBracket() (Simple, error) {
	if cp, ok := p.cur.(*cssparse.Cursor); ok {
		var s Simple
		err := cp.ParseNestedBlock(csslex.TOpenSquare, func(c *cssparse.Cursor) error {
			var e error
			s, e = p.parseAttributeBody()
			if e != nil {
				return e
			}
			if closeTok := p.cur.Current(); closeTok.Kind != csslex.TCloseSquare {
				return p.errorf(closeTok, "expected \"]\"")
			}
			return nil
		})
		return s, err
	}
	return p.parseAttribute()
}

// parseAttributeBody parses the attribute name/operator/value/flag
// grammar inside "[...]", without checking for the closing "]" -- callers
// either let ParseNestedBlock drain it (parseAttributeBracket) or check
// for it themselves (parseAttribute).
func (p *parser) parseAttributeBody() (Simple, error) {
	ns, isAny, hasNS, name, err := p.parseAttrNameWithNamespace()
	if err != nil {
		return Simple{}, err
	}
	s := Simple{Kind: SimpleAttribute, Namespace: ns, NamespaceIsAny: isAny, HasNamespace: hasNS, Name: name, AttrMatch: AttrExists}

	op, ok := attrMatchFor(p.cur.Current())
	if ok {
		p.cur.Next()
		s.AttrMatch = op
		valTok := p.cur.Current()
		switch valTok.Kind {
		case csslex.TString, csslex.TIdent:
			s.AttrValue = valTok.Text()
			p.cur.Next()
		default:
			return Simple{}, p.errorf(valTok, "expected attribute value")
		}
		if flagTok := p.cur.Current(); flagTok.Kind == csslex.TIdent {
			switch strings.ToLower(flagTok.Text()) {
			case "i":
				s.AttrCase = AttrCaseInsensitive
				p.cur.Next()
			case "s":
				s.AttrCase = AttrCaseSensitive
				p.cur.Next()
			}
		}
	}
	return s, nil
}

// parseAttribute is the fallback path used when p.cur can't be asserted
// back to *cssparse.Cursor: it parses the same grammar as
// parseAttributeBody but checks for the closing "]" itself instead of
// relying on ParseNestedBlock to drain it.
func (p *parser) parseAttribute() (Simple, error) {
	s, err := p.parseAttributeBody()
	if err != nil {
		return Simple{}, err
	}
	closeTok := p.cur.Current()
	if closeTok.Kind != csslex.TCloseSquare {
		return Simple{}, p.errorf(closeTok, "expected \"]\"")
	}
	p.cur.Next()
	return s, nil
}

func (p *parser) parseAttrNameWithNamespace() (ns string, isAny, hasNS bool, name string, err error) {
	tok := p.cur.Current()
	switch {
	case tok.Kind == csslex.TIdent:
		p.cur.Next()
		ns2, isAny2, hasNS2, rest, e := p.maybeNamespacedName(tok.Text())
		if e != nil {
			return "", false, false, "", e
		}
		if hasNS2 {
			return ns2, isAny2, true, rest, nil
		}
		return "", false, false, tok.Text(), nil
	case tok.Kind == csslex.TDelim && tok.Delim == '*':
		p.cur.Next()
		if !(p.cur.At(csslex.TDelim) && p.cur.Current().Delim == '|') {
			return "", false, false, "", p.errorf(tok, "\"*\" is not a valid attribute name")
		}
		p.cur.Next()
		nameTok := p.cur.Current()
		if nameTok.Kind != csslex.TIdent {
			return "", false, false, "", p.errorf(nameTok, "expected attribute name")
		}
		p.cur.Next()
		return "*", true, true, nameTok.Text(), nil
	case tok.Kind == csslex.TDelim && tok.Delim == '|':
		p.cur.Next()
		nameTok := p.cur.Current()
		if nameTok.Kind != csslex.TIdent {
			return "", false, false, "", p.errorf(nameTok, "expected attribute name")
		}
		p.cur.Next()
		return "", false, true, nameTok.Text(), nil
	}
	return "", false, false, "", p.errorf(tok, "expected attribute name")
}

func attrMatchFor(tok csslex.Token) (AttrMatch, bool) {
	switch tok.Kind {
	case csslex.TDelim:
		if tok.Delim == '=' {
			return AttrEquals, true
		}
	case csslex.TIncludeMatch:
		return AttrIncludes, true
	case csslex.TDashMatch:
		return AttrDashMatch, true
	case csslex.TPrefixMatch:
		return AttrPrefix, true
	case csslex.TSuffixMatch:
		return AttrSuffix, true
	case csslex.TSubstringMatch:
		return AttrSubstring, true
	}
	return 0, false
}

// parsePseudo handles both ":name"/"::name" pseudo-classes/elements and
// their functional forms ":name(...)"/"::name(...)". Functional forms
// whose argument is itself a selector list push a child frame onto p.stack
// instead of recursing.
func (p *parser) parsePseudo(f *listFrame) error {
	p.cur.Next() // ':'
	isElement := false
	if p.cur.At(csslex.TColon) {
		isElement = true
		p.cur.Next()
	}

	tok := p.cur.Current()
	switch tok.Kind {
	case csslex.TIdent:
		name := strings.ToLower(tok.Text())
		p.cur.Next()
		if !isElement && isLegacyPseudoElement(name) {
			isElement = true
		}
		if isElement {
			if f.sawPseudoElement {
				return p.errorf(tok, "a compound selector may have at most one pseudo-element")
			}
			f.sawPseudoElement = true
			f.pseudoElementName = name
			f.simples = append(f.simples, Simple{Kind: SimplePseudoElement, Name: name})
			return nil
		}
		if f.sawPseudoElement && !pseudoClassAllowedAfterPseudoElement(f.pseudoElementName, name) {
			return p.errorf(tok, "only pseudo-classes may follow a pseudo-element")
		}
		f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name})
		return nil

	case csslex.TFunction:
		name := strings.ToLower(tok.Text())
		p.cur.Next() // consumes the function token, which also opens '('
		return p.parseFunctionalPseudo(f, name, isElement)
	}

	return p.errorf(tok, "expected pseudo-class or pseudo-element name")
}

func (p *parser) parseFunctionalPseudo(f *listFrame, name string, isElement bool) error {
	if isElement {
		if !isRecognizedFunctionalPseudoElement(name) {
			return p.errorf(p.cur.Current(), "unknown functional pseudo-element ::"+name+"()")
		}
		if f.sawPseudoElement {
			return p.errorf(p.cur.Current(), "a compound selector may have at most one pseudo-element")
		}
		return p.parsePseudoElementArgument(f, name)
	}

	if f.sawPseudoElement && !pseudoClassAllowedAfterPseudoElement(f.pseudoElementName, name) {
		return p.errorf(p.cur.Current(), "only pseudo-classes may follow a pseudo-element")
	}

	switch name {
	case "is", "where", "not", "matches", "-webkit-any", "-moz-any":
		forgiving := forgivingPseudos[name]
		simpleIdx := len(f.simples)
		f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name})
		p.push(forgiving, false, func(l SelectorList) {
			arg := l
			f.simples[simpleIdx].SelectorArg = &arg
		})
		return nil

	case "has":
		simpleIdx := len(f.simples)
		f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name})
		p.push(false, true, func(l SelectorList) {
			arg := l
			f.simples[simpleIdx].SelectorArg = &arg
		})
		return nil

	case "current":
		// :current(<complex-selector-list>), matching the element currently
		// presented by a scroll-linked/marquee-like navigation; the
		// argument grammar is a plain (non-forgiving) selector list.
		simpleIdx := len(f.simples)
		f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name})
		p.push(false, false, func(l SelectorList) {
			arg := l
			f.simples[simpleIdx].SelectorArg = &arg
		})
		return nil

	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type", "nth-col", "nth-last-col":
		return p.parseNth(f, name)

	case "dir", "lang":
		return p.parseIdentArgPseudo(f, name)

	case "host", "host-context":
		return p.parseHostLike(f, name)
	}

	// Unrecognized functional pseudo-class: round-trip it as a raw argument
	// slice instead of failing the whole selector, so an unknown or
	// forward-looking function doesn't invalidate selectors around it.
	raw := p.captureRawArgument()
	f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name, IsCustomFunction: true, RawArg: raw})
	return nil
}

// captureRawArgument consumes tokens up to (and including) this function's
// matching close parenthesis, tracking nested bracket/paren/function depth,
// and returns the exact source text in between (not including the closing
// paren itself). Used for functional pseudo-classes this parser doesn't
// know the grammar of.
func (p *parser) captureRawArgument() string {
	type sourcer interface {
		Source() *source.Source
	}
	src, _ := p.cur.(sourcer)

	start := p.cur.Current().Range.Loc.Start
	depth := 0
	for {
		tok := p.cur.Current()
		switch tok.Kind {
		case csslex.TEOF:
			if src == nil {
				return ""
			}
			return src.Source().TextForRange(source.Range{Loc: source.Loc{Start: start}, Len: tok.Range.Loc.Start - start})
		case csslex.TOpenParen, csslex.TFunction, csslex.TOpenSquare, csslex.TOpenCurly:
			depth++
		case csslex.TCloseParen:
			if depth == 0 {
				end := tok.Range.Loc.Start
				p.cur.Next()
				if src == nil {
					return ""
				}
				return src.Source().TextForRange(source.Range{Loc: source.Loc{Start: start}, Len: end - start})
			}
			depth--
		case csslex.TCloseSquare, csslex.TCloseCurly:
			if depth > 0 {
				depth--
			}
		}
		p.cur.Next()
	}
}

func (p *parser) parsePseudoElementArgument(f *listFrame, name string) error {
	switch name {
	case "slotted":
		simpleIdx := len(f.simples)
		f.simples = append(f.simples, Simple{Kind: SimplePseudoElement, Name: name})
		f.sawPseudoElement = true
		f.pseudoElementName = name
		p.push(false, false, func(l SelectorList) {
			arg := l
			f.simples[simpleIdx].SelectorArg = &arg
		})
		return nil
	case "part":
		var idents []string
		for {
			tok := p.cur.Current()
			if tok.Kind != csslex.TIdent {
				break
			}
			idents = append(idents, tok.Text())
			p.cur.Next()
		}
		if len(idents) == 0 {
			return p.errorf(p.cur.Current(), "::part() requires at least one identifier")
		}
		if err := p.expectCloseParen(); err != nil {
			return err
		}
		f.simples = append(f.simples, Simple{Kind: SimplePseudoElement, Name: name, IdentArgs: idents})
		f.sawPseudoElement = true
		f.pseudoElementName = name
		return nil
	case "highlight":
		tok := p.cur.Current()
		if tok.Kind != csslex.TIdent {
			return p.errorf(tok, "::highlight() requires an identifier")
		}
		p.cur.Next()
		if err := p.expectCloseParen(); err != nil {
			return err
		}
		f.simples = append(f.simples, Simple{Kind: SimplePseudoElement, Name: name, IdentArg: tok.Text()})
		f.sawPseudoElement = true
		f.pseudoElementName = name
		return nil
	case "view-transition-group", "view-transition-image-pair", "view-transition-old", "view-transition-new":
		// Argument is a view-transition-name: either "*" (matches any named
		// group/pair/image) or a <custom-ident>.
		tok := p.cur.Current()
		var arg string
		switch {
		case tok.Kind == csslex.TDelim && tok.Delim == '*':
			arg = "*"
			p.cur.Next()
		case tok.Kind == csslex.TIdent:
			arg = tok.Text()
			p.cur.Next()
		default:
			return p.errorf(tok, "::"+name+"() requires \"*\" or an identifier")
		}
		if err := p.expectCloseParen(); err != nil {
			return err
		}
		f.simples = append(f.simples, Simple{Kind: SimplePseudoElement, Name: name, IdentArg: arg})
		f.sawPseudoElement = true
		f.pseudoElementName = name
		return nil
	}
	return p.errorf(p.cur.Current(), "unknown functional pseudo-element ::"+name+"()")
}

func (p *parser) parseIdentArgPseudo(f *listFrame, name string) error {
	var idents []string
	for {
		tok := p.cur.Current()
		if tok.Kind != csslex.TIdent {
			break
		}
		idents = append(idents, tok.Text())
		p.cur.Next()
		if p.cur.At(csslex.TComma) {
			p.cur.Next()
			continue
		}
		break
	}
	if len(idents) == 0 {
		return p.errorf(p.cur.Current(), ":"+name+"() requires at least one identifier")
	}
	if err := p.expectCloseParen(); err != nil {
		return err
	}
	f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name, IdentArgs: idents, IdentArg: idents[0]})
	return nil
}

func (p *parser) parseHostLike(f *listFrame, name string) error {
	simpleIdx := len(f.simples)
	f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name})
	p.push(false, false, func(l SelectorList) {
		arg := l
		f.simples[simpleIdx].SelectorArg = &arg
	})
	return nil
}

// parseNth parses the An+B microsyntax (CSS Syntax Level 3 Appendix B),
// optionally followed by "of <complex-selector-list>" for :nth-child/
// :nth-last-child. The grammar has a handful of numeric-token shapes the
// tokenizer may have already fused (e.g. "2n" lexes as one Dimension
// token, "2n+1" as a Dimension then a Number, "-n" as a single Ident
// "-n", and "n-1" as a single Ident "n-1"; this follows the same token-shape handling a parseNthChild in
// css_parser_selector.go would need).
func (p *parser) parseNth(f *listFrame, name string) error {
	anb, err := parseANB(p.cur)
	if err != nil {
		return err
	}

	if p.cur.At(csslex.TIdent) && strings.EqualFold(p.cur.Current().Text(), "of") {
		p.cur.Next()
		anbCopy := anb
		simpleIdx := len(f.simples)
		f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name, ANB: &anbCopy})
		p.push(false, false, func(l SelectorList) {
			arg := l
			f.simples[simpleIdx].ANB.Of = &arg
		})
		return nil
	}

	if err := p.expectCloseParen(); err != nil {
		return err
	}
	f.simples = append(f.simples, Simple{Kind: SimplePseudoClass, Name: name, ANB: &anb})
	return nil
}

func (p *parser) expectCloseParen() error {
	tok := p.cur.Current()
	if tok.Kind != csslex.TCloseParen {
		return p.errorf(tok, "expected \")\"")
	}
	p.cur.Next()
	return nil
}

// push installs a new frame on top of the stack for a nested argument
// list; the outer trampoline (run) picks it up on its next iteration.
func (p *parser) push(forgiving, relative bool, assign func(SelectorList)) {
	p.stack = append(p.stack, newFrame(forgiving, relative, assign))
}

func (p *parser) errorf(tok csslex.Token, msg string) error {
	return &cssparse.ParseError{Kind: cssparse.ErrInvalidValue, Range: tok.Range, Msg: msg}
}

// parseANB parses a bare An+B microsyntax value (no "of" clause), used
// directly by consumers that just want nth-child arithmetic outside a
// full selector (e.g. a :nth-child()-alike in a non-selector grammar).
func parseANB(cur tokenCursor) (ANB, error) {
	tok := cur.Current()

	if tok.Kind == csslex.TIdent {
		switch strings.ToLower(tok.Text()) {
		case "odd":
			cur.Next()
			return ANB{A: 2, B: 1}, nil
		case "even":
			cur.Next()
			return ANB{A: 2, B: 0}, nil
		}
	}

	// "An+B" where the tokenizer may have fused a leading sign/digits with
	// the "n" into one Dimension token ("2n", "-3n"), fused the "n" and a
	// following "-B" into one Dimension/Ident unit ("2n-1", "n-1", "-n-1"),
	// or left it as a bare Number (no "n" term at all).
	a, hasA, fusedB, err := consumeNSignAndCoefficient(cur)
	if err != nil {
		return ANB{}, err
	}
	if !hasA {
		// Bare integer B, no "n" term.
		n := cur.Current()
		if n.Kind == csslex.TNumber && n.Numeric.IntValue != nil {
			cur.Next()
			return ANB{A: 0, B: int(*n.Numeric.IntValue)}, nil
		}
		return ANB{}, &cssparse.ParseError{Kind: cssparse.ErrInvalidValue, Range: n.Range, Msg: "expected An+B"}
	}
	if fusedB != nil {
		return ANB{A: a, B: *fusedB}, nil
	}

	// Optional "+B"/"-B", possibly with whitespace around the sign per
	// CSS Syntax Level 3 Appendix B (a sign token followed by an integer).
	b := 0
	if sign := cur.Current(); sign.Kind == csslex.TDelim && (sign.Delim == '+' || sign.Delim == '-') {
		neg := sign.Delim == '-'
		cur.Next()
		num := cur.Current()
		if num.Kind != csslex.TNumber || num.Numeric.IntValue == nil || num.Numeric.HasSign {
			return ANB{}, &cssparse.ParseError{Kind: cssparse.ErrInvalidValue, Range: num.Range, Msg: "expected integer after sign in An+B"}
		}
		cur.Next()
		b = int(*num.Numeric.IntValue)
		if neg {
			b = -b
		}
	} else if sign.Kind == csslex.TNumber && sign.Numeric.HasSign && sign.Numeric.IntValue != nil {
		cur.Next()
		b = int(*sign.Numeric.IntValue)
	}

	return ANB{A: a, B: b}, nil
}

// consumeNSignAndCoefficient consumes the "An" portion of An+B, returning
// the coefficient A and whether an "n" term was present at all. When the
// tokenizer fused a trailing "-B" into the same unit text (e.g. "2n-1"
// lexes as Dimension(2, "n-1")), fusedB carries that already-parsed B so
// the caller doesn't also look for a separate sign/number pair.
func consumeNSignAndCoefficient(cur tokenCursor) (a int, hasA bool, fusedB *int, err error) {
	tok := cur.Current()

	switch tok.Kind {
	case csslex.TDimension:
		unit := strings.ToLower(tok.Unit.String())
		if unit == "n" && tok.Numeric.IntValue != nil {
			cur.Next()
			return int(*tok.Numeric.IntValue), true, nil, nil
		}
		if strings.HasPrefix(unit, "n-") && tok.Numeric.IntValue != nil {
			av := int(*tok.Numeric.IntValue)
			bVal, convErr := strconv.Atoi(unit[1:]) // "-1" etc.
			if convErr != nil {
				return 0, false, nil, &cssparse.ParseError{Kind: cssparse.ErrInvalidValue, Range: tok.Range, Msg: "invalid An+B"}
			}
			cur.Next()
			return av, true, &bVal, nil
		}
		return 0, false, nil, nil
	case csslex.TIdent:
		low := strings.ToLower(tok.Text())
		if low == "n" {
			cur.Next()
			return 1, true, nil, nil
		}
		if low == "-n" {
			cur.Next()
			return -1, true, nil, nil
		}
		if strings.HasPrefix(low, "n-") {
			if bVal, convErr := strconv.Atoi(low[1:]); convErr == nil {
				cur.Next()
				return 1, true, &bVal, nil
			}
		}
		if strings.HasPrefix(low, "-n-") {
			if bVal, convErr := strconv.Atoi(low[2:]); convErr == nil {
				cur.Next()
				return -1, true, &bVal, nil
			}
		}
		return 0, false, nil, nil
	}
	return 0, false, nil, nil
}
