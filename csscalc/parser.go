package csscalc

import (
	"math"
	"strings"

	"github.com/cssdialect/cssengine/cssparse"
	"github.com/cssdialect/cssengine/csslex"
)

// tokenCursor mirrors cssselector's cursor interface so both packages can
// be driven from the same cssparse.Cursor/SubCursor without an import
// cycle between them.
type tokenCursor interface {
	Current() csslex.Token
	Next() csslex.Token
	At(k csslex.T) bool
	AtEOF() bool
	HadWhitespaceBefore() bool
}

// namedConstants is the CSS Values and Units Level 4 §10.9 set of
// keywords valid wherever a calc-value is expected.
var namedConstants = map[string]float64{
	"e":         math.E,
	"pi":        math.Pi,
	"infinity":  math.Inf(1),
	"-infinity": math.Inf(-1),
	"nan":       math.NaN(),
}

// frameKind distinguishes a parenthesized grouping (which contributes one
// sum and closes on ')') from a math function's argument list (which
// collects one or more comma-separated sums and closes on ')').
type frameKind uint8

const (
	frameParen frameKind = iota
	frameFunction
)

// calcFrame is one level of the explicit parse stack: either a "(...)"
// grouping or a math function's argument list. Pushing a frame for every
// nested "(" or function call, instead of recursing, bounds Go call-stack
// usage regardless of how deeply calc(calc(calc(...))) nests -- see
// package doc and cssselector's identical technique.
type calcFrame struct {
	kind frameKind
	name string // function name, for frameFunction

	expectOperand bool
	unarySign     float64 // +1 or -1, applied to the next completed product
	nextDivides   bool    // true if the next operand divides rather than multiplies

	productFactors []*Expr[float64]

	sumTerms []*Expr[float64] // already sign-adjusted addends for the current calc-sum

	args []*Expr[float64] // completed argument sums, for frameFunction

	assign func(*Expr[float64])
}

func newCalcFrame(kind frameKind, name string, assign func(*Expr[float64])) *calcFrame {
	return &calcFrame{kind: kind, name: name, expectOperand: true, unarySign: 1, assign: assign}
}

type parser struct {
	cur   tokenCursor
	stack []*calcFrame
	// sumOnly makes the outermost frame stop before a ')' or ',' instead
	// of consuming or rejecting it (ParseSum's contract).
	sumOnly bool
}

// ParseSum parses a single calc-sum (the grammar calc()'s argument
// reduces to) from cur, stopping at the first top-level ')' or ',' or at
// EOF without consuming it. It is the entry point for "the inside of
// calc(...)" once a caller has already consumed the "calc(" token.
func ParseSum(cur tokenCursor) (*Expr[float64], error) {
	p := &parser{cur: cur, sumOnly: true}
	var result *Expr[float64]
	top := newCalcFrame(frameParen, "", func(e *Expr[float64]) { result = e })
	top.kind = frameParen
	p.stack = []*calcFrame{top}
	if err := p.run(true); err != nil {
		return nil, err
	}
	return result, nil
}

// ParseMathFunction parses a full math-function call (calc()/min()/max()/
// clamp()/round()/mod()/rem()/abs()/sign()/the trig and exponential
// functions), starting at a TFunction token whose name cur.Current()
// already reports as IsMathFunctionName. The function token is consumed
// as part of this call.
func ParseMathFunction(cur tokenCursor) (*Expr[float64], error) {
	tok := cur.Current()
	if tok.Kind != csslex.TFunction || !IsMathFunctionName(tok.Text()) {
		return nil, &cssparse.ParseError{Kind: cssparse.ErrUnexpectedToken, Range: tok.Range, Msg: "expected a math function"}
	}
	name := strings.ToLower(tok.Text())
	cur.Next()

	p := &parser{cur: cur}
	var result *Expr[float64]
	kind := frameFunction
	if name == "calc" {
		kind = frameParen // calc() is just a grouping: it contributes its inner sum directly.
	}
	top := newCalcFrame(kind, name, func(e *Expr[float64]) { result = e })
	p.stack = []*calcFrame{top}
	if err := p.run(true); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *parser) run(isTop bool) error {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		if err := p.step(top); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) step(f *calcFrame) error {
	tok := p.cur.Current()

	if f.expectOperand {
		return p.stepOperand(f, tok)
	}
	return p.stepOperator(f, tok)
}

func (p *parser) stepOperand(f *calcFrame, tok csslex.Token) error {
	switch tok.Kind {
	case csslex.TNumber, csslex.TPercentage, csslex.TDimension:
		if tok.Kind == csslex.TDimension && !IsKnownUnit(tok.Unit.String()) {
			return p.errorf(tok, "unknown unit \""+tok.Unit.String()+"\"")
		}
		p.cur.Next()
		leaf := &Expr[float64]{Kind: NodeValue, Value: Value[float64]{Num: tok.Numeric.Value, Unit: tokenUnit(tok)}}
		p.pushFactor(f, leaf)
		f.expectOperand = false
		return nil

	case csslex.TIdent:
		low := strings.ToLower(tok.Text())
		if v, ok := namedConstants[low]; ok {
			p.cur.Next()
			leaf := &Expr[float64]{Kind: NodeValue, Value: Value[float64]{Num: v}}
			p.pushFactor(f, leaf)
			f.expectOperand = false
			return nil
		}
		return p.errorf(tok, "unexpected identifier \""+tok.Text()+"\" in calc expression")

	case csslex.TOpenParen:
		p.cur.Next()
		p.push(frameParen, "", func(e *Expr[float64]) {
			p.pushFactor(f, e)
			f.expectOperand = false
		})
		return nil

	case csslex.TFunction:
		name := strings.ToLower(tok.Text())
		if !IsMathFunctionName(name) {
			return p.errorf(tok, "unexpected function \""+tok.Text()+"()\" in calc expression")
		}
		p.cur.Next()
		kind := frameFunction
		if name == "calc" {
			kind = frameParen
		}
		p.push(kind, name, func(e *Expr[float64]) {
			p.pushFactor(f, e)
			f.expectOperand = false
		})
		return nil
	}

	return p.errorf(tok, "expected a value in calc expression")
}

func (p *parser) stepOperator(f *calcFrame, tok csslex.Token) error {
	switch {
	case tok.Kind == csslex.TDelim && tok.Delim == '*':
		p.cur.Next()
		f.expectOperand = true
		f.nextDivides = false
		return nil

	case tok.Kind == csslex.TDelim && tok.Delim == '/':
		p.cur.Next()
		f.expectOperand = true
		f.nextDivides = true
		return nil

	case tok.Kind == csslex.TDelim && (tok.Delim == '+' || tok.Delim == '-'):
		// CSS Values and Units' calc() grammar requires whitespace on both
		// sides of a binary "+"/"-" (to disambiguate "5-3" -- which the
		// tokenizer already fuses into a single negative-number token --
		// from "5 - 3"); refetch a token on the far side and require
		// whitespace there too.
		if !p.cur.HadWhitespaceBefore() {
			return p.errorf(tok, "\"+\"/\"-\" must have whitespace before it in a calc expression")
		}
		p.cur.Next()
		if !p.cur.HadWhitespaceBefore() {
			return p.errorf(p.cur.Current(), "\"+\"/\"-\" must have whitespace after it in a calc expression")
		}
		p.finishProductIntoSum(f)
		if tok.Delim == '-' {
			f.unarySign = -1
		} else {
			f.unarySign = 1
		}
		f.expectOperand = true
		return nil

	case tok.Kind == csslex.TComma:
		if p.sumOnly && len(p.stack) == 1 {
			return p.finishFrame(f)
		}
		if f.kind != frameFunction {
			return p.errorf(tok, "unexpected \",\" in calc expression")
		}
		p.cur.Next()
		p.finishProductIntoSum(f)
		f.args = append(f.args, p.finishSum(f))
		f.expectOperand = true
		return nil

	case tok.Kind == csslex.TCloseParen:
		if p.sumOnly && len(p.stack) == 1 {
			return p.finishFrame(f)
		}
		p.cur.Next()
		return p.finishFrame(f)

	case tok.Kind == csslex.TEOF:
		return p.finishFrame(f)
	}

	return p.errorf(tok, "expected an operator in calc expression")
}

// push installs a new frame for a parenthesized group or function
// argument list; the trampoline in run picks it up next iteration.
func (p *parser) push(kind frameKind, name string, assign func(*Expr[float64])) {
	p.stack = append(p.stack, newCalcFrame(kind, name, assign))
}

// pushFactor appends a just-parsed operand to the current product,
// honoring whatever '*'/'/' operator preceded it.
func (p *parser) pushFactor(f *calcFrame, e *Expr[float64]) {
	if f.nextDivides {
		e = &Expr[float64]{Kind: NodeInvert, Operand: e}
	}
	f.nextDivides = false
	f.productFactors = append(f.productFactors, e)
}

// finishProductIntoSum folds the accumulated productFactors into one
// Expr (a NodeProduct if there's more than one factor), applies the
// pending unary sign, and appends it to sumTerms.
func (p *parser) finishProductIntoSum(f *calcFrame) {
	if len(f.productFactors) == 0 {
		return
	}
	var term *Expr[float64]
	if len(f.productFactors) == 1 {
		term = f.productFactors[0]
	} else {
		term = &Expr[float64]{Kind: NodeProduct, Operands: f.productFactors}
	}
	if f.unarySign < 0 {
		term = &Expr[float64]{Kind: NodeNegate, Operand: term}
	}
	f.sumTerms = append(f.sumTerms, term)
	f.productFactors = nil
	f.unarySign = 1
}

// finishSum folds sumTerms into one Expr (a NodeSum if there's more than
// one term) and resets the frame's sum-building state for the next
// argument (only meaningful for frameFunction frames with more args to
// come).
func (p *parser) finishSum(f *calcFrame) *Expr[float64] {
	var sum *Expr[float64]
	switch len(f.sumTerms) {
	case 0:
		sum = &Expr[float64]{Kind: NodeValue}
	case 1:
		sum = f.sumTerms[0]
	default:
		sum = &Expr[float64]{Kind: NodeSum, Operands: f.sumTerms}
	}
	f.sumTerms = nil
	return sum
}

func (p *parser) finishFrame(f *calcFrame) error {
	p.finishProductIntoSum(f)
	sum := p.finishSum(f)

	var result *Expr[float64]
	if f.kind == frameFunction {
		args := append(f.args, sum)
		result = &Expr[float64]{Kind: NodeFunction, FuncName: f.name, Args: args}
	} else {
		result = sum
	}

	assign := f.assign
	p.stack = p.stack[:len(p.stack)-1]
	if assign != nil {
		assign(result)
	}
	return nil
}

func (p *parser) errorf(tok csslex.Token, msg string) error {
	return &cssparse.ParseError{Kind: cssparse.ErrInvalidValue, Range: tok.Range, Msg: msg}
}
