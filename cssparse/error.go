package cssparse

import "github.com/cssdialect/cssengine/source"

// ErrorKind classifies a ParseError into a small closed taxonomy. A
// minifier's css_parser has no typed error values of its own -- it just
// logs formatted strings via AddError -- so this taxonomy is new here,
// grounded on the distinct error conditions this package's cursor
// helpers actually produce.
type ErrorKind uint8

const (
	ErrUnexpectedToken ErrorKind = iota
	ErrEndOfInput
	ErrInvalidValue
	ErrNestedTooDeep
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrEndOfInput:
		return "unexpected end of input"
	case ErrInvalidValue:
		return "invalid value"
	case ErrNestedTooDeep:
		return "nesting too deep"
	default:
		return "parse error"
	}
}

// ParseError is the single error type every parser in this module
// (cssparse, cssselector, csscalc, csscolor) returns: one error type
// carrying a machine-checkable Kind plus the source Range it occurred at.
type ParseError struct {
	Kind  ErrorKind
	Range source.Range
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}
