// Package cssparse implements the parser driver: a Cursor over a
// csslex.Tokenizer that adds a single-token lookahead cache, block-nesting
// awareness (so a sub-parse asked to stop at a delimiter still consumes a
// nested {}/[]/() block atomically), and a transactional TryParse that can
// roll the cursor back to exactly where it started.
//
// The cursor methods (At/Current/Next/Peek/Expect/TryParse) are adapted
// from a minifier's internal/css_parser.parser cursor helpers
// (css_parser.go), generalized from its array-index-over-a-pre-tokenized-
// slice design into a cursor over the lazy csslex.Tokenizer this module
// builds on.
package cssparse

import (
	"github.com/cssdialect/cssengine/csslex"
	"github.com/cssdialect/cssengine/source"
)

// BlockType identifies which bracket pair a nested-block parse is inside.
type BlockType uint8

const (
	BlockNone BlockType = iota
	BlockParen
	BlockSquare
	BlockCurly
	BlockFunction
)

// cursorState is what TryParse and the lookahead cache save/restore: the
// underlying tokenizer's byte position plus the cached lookahead token (or
// lack of one).
type cursorState struct {
	lexState      csslex.State
	hasLookahead  bool
	lookahead     csslex.Token
	hadWhitespace bool
	atBlockStart  bool
}

// Cursor drives token-at-a-time parsing with one token of lookahead. It is
// the shared navigation primitive behind cssselector, csscalc, and
// csscolor's value parsing.
type Cursor struct {
	log  source.Log
	tok  *csslex.Tokenizer
	src  *source.Source

	hasLookahead bool
	lookahead    csslex.Token

	// hadWhitespace is true when one or more whitespace/comment tokens were
	// skipped immediately before the current lookahead. Selector parsing
	// needs this to distinguish the descendant combinator ("A B", bare
	// whitespace) from adjacency with an explicit combinator ("A>B"); see
	// cssselector's combinator detection.
	hadWhitespace bool

	// atBlockStart is saved and restored with the rest of the cursor state,
	// but no method sets it: returning a block-opening token records
	// nothing, and a block the caller does not enter via ParseNestedBlock is
	// not drained automatically (its tokens are returned one by one).
	atBlockStart bool

	// depth counts open (unclosed) nested blocks this cursor has entered
	// via ParseNestedBlock, used only for diagnostics.
	depth int
}

// NewCursor creates a Cursor over src, tokenizing lazily via csslex.
func NewCursor(log source.Log, src *source.Source) *Cursor {
	return &Cursor{log: log, tok: csslex.NewTokenizer(log, src), src: src}
}

// Log returns the diagnostic sink this cursor reports to.
func (c *Cursor) Log() source.Log { return c.log }

// Source returns the underlying source buffer.
func (c *Cursor) Source() *source.Source { return c.src }

func (c *Cursor) fill() {
	if c.hasLookahead {
		return
	}
	c.hadWhitespace = false
	for {
		tok := c.tok.NextIncludingWhitespaceAndComments()
		if tok.Kind == csslex.TWhitespace || tok.Kind == csslex.TComment {
			c.hadWhitespace = true
			continue
		}
		c.lookahead = tok
		c.hasLookahead = true
		return
	}
}

// HadWhitespaceBefore reports whether whitespace or a comment was skipped
// immediately before the current lookahead token.
func (c *Cursor) HadWhitespaceBefore() bool {
	c.fill()
	return c.hadWhitespace
}

// At reports whether the next token (without consuming it) is of kind k.
func (c *Cursor) At(k csslex.T) bool {
	return c.Current().Kind == k
}

// Current returns (without consuming) the next token.
func (c *Cursor) Current() csslex.Token {
	c.fill()
	return c.lookahead
}

// Peek is an alias for Current, for readability at call sites that are
// explicitly peeking rather than checking a specific kind.
func (c *Cursor) Peek() csslex.Token { return c.Current() }

// AtEOF reports whether the cursor is at the end of input.
func (c *Cursor) AtEOF() bool { return c.Current().Kind == csslex.TEOF }

// Next consumes and returns the next token.
func (c *Cursor) Next() csslex.Token {
	c.fill()
	t := c.lookahead
	c.hasLookahead = false
	return t
}

// Eat consumes the next token if it is of kind k, reporting whether it did.
func (c *Cursor) Eat(k csslex.T) bool {
	if c.At(k) {
		c.Next()
		return true
	}
	return false
}

// Expect consumes the next token if it is of kind k, or records a parse
// error and returns ok=false, matching the expect() family a hand-written
// recursive-descent parser typically carries.
func (c *Cursor) Expect(k csslex.T) (csslex.Token, bool) {
	if c.At(k) {
		return c.Next(), true
	}
	tok := c.Current()
	c.log.AddError(&c.tok.Tracker, tok.Range, "expected "+k.String()+" but found "+tok.Kind.String())
	return tok, false
}

// state captures the cursor's full resumable position.
func (c *Cursor) state() cursorState {
	return cursorState{
		lexState:      c.tok.State(),
		hasLookahead:  c.hasLookahead,
		lookahead:     c.lookahead,
		hadWhitespace: c.hadWhitespace,
		atBlockStart:  c.atBlockStart,
	}
}

func (c *Cursor) restore(s cursorState) {
	c.tok.Restore(s.lexState)
	c.hasLookahead = s.hasLookahead
	c.lookahead = s.lookahead
	c.hadWhitespace = s.hadWhitespace
	c.atBlockStart = s.atBlockStart
}

// TryParse runs fn; if fn returns a non-nil error, the cursor is rolled
// back to exactly where it was before the call, so fn's partial
// consumption never leaks out. This is transactional speculative parsing
// (rust-cssparser's try_parse), built here on top of a peek()-based
// one-token lookahead.
func TryParse[V any](c *Cursor, fn func(c *Cursor) (V, error)) (V, error) {
	saved := c.state()
	v, err := fn(c)
	if err != nil {
		c.restore(saved)
		var zero V
		return zero, err
	}
	return v, nil
}

// ParseEntirely runs fn and additionally requires the cursor to be at EOF
// (ignoring trailing whitespace/comments, which the lexer already strips
// for Next()) once fn returns; it is an error for fn to leave unconsumed
// tokens behind.
func ParseEntirely[V any](c *Cursor, fn func(c *Cursor) (V, error)) (V, error) {
	v, err := fn(c)
	if err != nil {
		var zero V
		return zero, err
	}
	if !c.AtEOF() {
		var zero V
		tok := c.Current()
		c.log.AddError(&c.tok.Tracker, tok.Range, "unexpected trailing input")
		return zero, &ParseError{Kind: ErrUnexpectedToken, Range: tok.Range}
	}
	return v, nil
}

// ParseCommaSeparated parses a comma-separated list by running fn once per
// item for as long as a TComma follows the item; the first item not
// followed by a TComma ends the list, and the token after it (not
// necessarily EOF) is left unconsumed. Matches rust-
// cssparser's parse_comma_separated / a parser's typical
// parseCommaSeparatedList helper.
func ParseCommaSeparated[V any](c *Cursor, fn func(c *Cursor) (V, error)) ([]V, error) {
	var out []V
	for {
		v, err := fn(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		c.SkipWhitespace()
		if !c.Eat(csslex.TComma) {
			break
		}
		c.SkipWhitespace()
	}
	return out, nil
}

// SkipWhitespace is a no-op: the Cursor always skips whitespace/comments
// internally (see fill), surfacing their presence only via
// HadWhitespaceBefore. Kept so call sites that mirror a css_parser's
// eat(css_lexer.TWhitespace) idiom read the same way here.
func (c *Cursor) SkipWhitespace() {}

// openBlockTokenFor maps an opening-bracket token kind to its BlockType.
func openBlockTokenFor(k csslex.T) (BlockType, csslex.T, bool) {
	switch k {
	case csslex.TOpenParen, csslex.TFunction:
		return BlockParen, csslex.TCloseParen, true
	case csslex.TOpenSquare:
		return BlockSquare, csslex.TCloseSquare, true
	case csslex.TOpenCurly:
		return BlockCurly, csslex.TCloseCurly, true
	}
	return BlockNone, csslex.TEOF, false
}

// ParseNestedBlock consumes an already-seen opening bracket (the caller
// must have just consumed TOpenParen/TFunction/TOpenSquare/TOpenCurly via
// Next), runs fn to parse its contents, then unconditionally drains any
// tokens fn left unconsumed up to and including the matching closer --
// mirroring the "consume to closing token regardless of what the nested
// parser did" contract a parseBlock helper typically carries, so a single
// malformed declaration can never desync the rest of the stream.
func (c *Cursor) ParseNestedBlock(opener csslex.T, fn func(c *Cursor) error) error {
	_, closer, ok := openBlockTokenFor(opener)
	if !ok {
		return nil
	}
	c.depth++
	defer func() { c.depth-- }()

	err := fn(c)
	c.drainToMatchingCloser(closer)
	return err
}

// drainToMatchingCloser consumes tokens, tracking nested bracket depth,
// until it consumes a closer-kind token at depth 0 or reaches EOF.
func (c *Cursor) drainToMatchingCloser(closer csslex.T) {
	depth := 0
	for {
		tok := c.Current()
		switch tok.Kind {
		case csslex.TEOF:
			return
		case csslex.TOpenParen, csslex.TFunction, csslex.TOpenSquare, csslex.TOpenCurly:
			depth++
			c.Next()
			continue
		case csslex.TCloseParen, csslex.TCloseSquare, csslex.TCloseCurly:
			c.Next()
			if depth == 0 {
				return
			}
			if tok.Kind == closer || isAnyCloser(tok.Kind) {
				depth--
			}
			continue
		default:
			c.Next()
		}
	}
}

func isAnyCloser(k csslex.T) bool {
	switch k {
	case csslex.TCloseParen, csslex.TCloseSquare, csslex.TCloseCurly:
		return true
	}
	return false
}

// StopBefore returns a bounded view that reports EOF once the underlying
// cursor reaches a top-level (depth-0) token of kind stop, without
// consuming that token -- stop-before-delimiter sub-parsing, e.g. parsing
// a selector list up to a top-level '{'. Parsing continues to share the
// same underlying tokenizer; SubCursor's EOF tracking only affects what
// it reports, not what it consumes.
type SubCursor struct {
	*Cursor
	stop csslex.T
}

// StopBefore wraps c so that At(stop) / Current() report EOF instead of
// the stop token once reached, without consuming it. Blocks ({}/[]/()/fn())
// are still parsed atomically via ParseNestedBlock, so a stop delimiter
// appearing inside a nested block does not end the sub-parse early.
func (c *Cursor) StopBefore(stop csslex.T) *SubCursor {
	return &SubCursor{Cursor: c, stop: stop}
}

func (s *SubCursor) Current() csslex.Token {
	tok := s.Cursor.Current()
	if tok.Kind == s.stop {
		return csslex.Token{Kind: csslex.TEOF, Range: tok.Range}
	}
	return tok
}

func (s *SubCursor) At(k csslex.T) bool { return s.Current().Kind == k }

func (s *SubCursor) AtEOF() bool { return s.Current().Kind == csslex.TEOF }

func (s *SubCursor) Next() csslex.Token {
	if s.Cursor.Current().Kind == s.stop {
		return csslex.Token{Kind: csslex.TEOF}
	}
	return s.Cursor.Next()
}
