package cssparse

import (
	"testing"

	"github.com/cssdialect/cssengine/csslex"
	"github.com/cssdialect/cssengine/source"
)

func newCursor(contents string) *Cursor {
	return NewCursor(source.NewLog(), &source.Source{Contents: contents})
}

func TestCursorSkipsWhitespaceAndComments(t *testing.T) {
	c := newCursor("  /* c */ foo   bar")
	if !c.At(csslex.TIdent) {
		t.Fatalf("expected TIdent, got %s", c.Current().Kind)
	}
	if c.Current().Text() != "foo" {
		t.Fatalf("expected %q, got %q", "foo", c.Current().Text())
	}
	c.Next()
	if !c.HadWhitespaceBefore() {
		t.Fatalf("expected whitespace before second token")
	}
	if c.Current().Text() != "bar" {
		t.Fatalf("expected %q, got %q", "bar", c.Current().Text())
	}
}

func TestEatAndExpect(t *testing.T) {
	c := newCursor("foo: bar")
	if !c.Eat(csslex.TIdent) {
		t.Fatalf("expected to eat TIdent")
	}
	if _, ok := c.Expect(csslex.TColon); !ok {
		t.Fatalf("expected TColon")
	}
	if _, ok := c.Expect(csslex.TComma); ok {
		t.Fatalf("expected Expect(TComma) to fail on an identifier")
	}
}

func TestTryParseRollsBackOnError(t *testing.T) {
	c := newCursor("foo bar")
	_, err := TryParse(c, func(c *Cursor) (int, error) {
		c.Next() // consume "foo"
		return 0, &ParseError{Kind: ErrInvalidValue}
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if c.Current().Text() != "foo" {
		t.Fatalf("expected cursor rolled back to \"foo\", got %q", c.Current().Text())
	}
}

func TestTryParseCommitsOnSuccess(t *testing.T) {
	c := newCursor("foo bar")
	_, err := TryParse(c, func(c *Cursor) (int, error) {
		c.Next()
		return 0, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Current().Text() != "bar" {
		t.Fatalf("expected cursor advanced past \"foo\", got %q", c.Current().Text())
	}
}

func TestParseEntirelyRejectsTrailingInput(t *testing.T) {
	c := newCursor("foo bar")
	_, err := ParseEntirely(c, func(c *Cursor) (int, error) {
		c.Next()
		return 0, nil
	})
	if err == nil {
		t.Fatalf("expected an error for unconsumed trailing input")
	}
}

func TestParseCommaSeparated(t *testing.T) {
	c := newCursor("a, b, c")
	items, err := ParseCommaSeparated(c, func(c *Cursor) (string, error) {
		tok := c.Current()
		c.Next()
		return tok.Text(), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 || items[0] != "a" || items[1] != "b" || items[2] != "c" {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestParseNestedBlockDrainsToMatchingCloser(t *testing.T) {
	c := newCursor("(a, (b, c), d) e")
	c.Eat(csslex.TOpenParen)
	var sawA bool
	err := c.ParseNestedBlock(csslex.TOpenParen, func(c *Cursor) error {
		// Only consume the first element; ParseNestedBlock must still
		// drain through the matching ')' regardless.
		if c.Current().Text() == "a" {
			sawA = true
			c.Next()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawA {
		t.Fatalf("expected to see token \"a\"")
	}
	if !c.HadWhitespaceBefore() || c.Current().Text() != "e" {
		t.Fatalf("expected cursor positioned at \"e\" after the block, got %q", c.Current().Text())
	}
}

func TestStopBeforeReportsEOFAtDelimiter(t *testing.T) {
	c := newCursor("a b { color: red }")
	sub := c.StopBefore(csslex.TOpenCurly)
	var got []string
	for !sub.AtEOF() {
		got = append(got, sub.Current().Text())
		sub.Next()
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected tokens before stop: %v", got)
	}
	// The underlying cursor must still see the '{' -- StopBefore never
	// consumes the stop token itself.
	if !c.At(csslex.TOpenCurly) {
		t.Fatalf("expected underlying cursor at '{', got %s", c.Current().Kind)
	}
}

func TestStopBeforeDoesNotStopInsideNestedBlock(t *testing.T) {
	c := newCursor("foo(a, b) { }")
	sub := c.StopBefore(csslex.TOpenCurly)
	if sub.Current().Kind != csslex.TFunction {
		t.Fatalf("expected TFunction, got %s", sub.Current().Kind)
	}
	sub.Next()
	err := c.ParseNestedBlock(csslex.TFunction, func(c *Cursor) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The '(' block's own closer is not the stop delimiter, so the sub
	// cursor must not have ended early; it should now be sitting right at
	// the real stop token and report EOF for it.
	if !sub.AtEOF() {
		t.Fatalf("expected StopBefore to report EOF at the top-level '{', got %s", sub.Current().Kind)
	}
}
