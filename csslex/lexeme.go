package csslex

import "github.com/cssdialect/cssengine/source"

// Lexeme is a string value produced by the tokenizer: either borrowed (a
// zero-copy slice of the source buffer) or owned (allocated because
// escapes or embedded NULs had to be decoded). The distinction is only
// observable via IsBorrowed; equality, hashing by String(), and all other
// consumer-facing behavior treat the two identically.
//
// Invariant: a borrowed Lexeme's validity is bounded by the lifetime of
// the *source.Source it references.
type Lexeme struct {
	src        *source.Source
	start, end int32
	owned      string
	isOwned    bool
}

func borrowed(src *source.Source, start, end int32) Lexeme {
	return Lexeme{src: src, start: start, end: end}
}

func owned(s string) Lexeme {
	return Lexeme{owned: s, isOwned: true}
}

// String returns the decoded text. Safe on the zero value (returns "").
func (l Lexeme) String() string {
	if l.isOwned {
		return l.owned
	}
	if l.src == nil {
		return ""
	}
	return l.src.Contents[l.start:l.end]
}

// IsBorrowed reports whether this lexeme is a zero-copy slice of the
// source buffer rather than an independently allocated string.
func (l Lexeme) IsBorrowed() bool {
	return !l.isOwned
}

// Equal compares lexemes by decoded value, irrespective of borrowed/owned
// storage -- that distinction is invisible to consumers except for
// observability.
func (l Lexeme) Equal(other Lexeme) bool {
	return l.String() == other.String()
}
