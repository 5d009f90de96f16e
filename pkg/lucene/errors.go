package lucene

import "fmt"

// Position is a rune offset (not a byte offset) paired with its 1-based line and column, as
// reported by the lexer.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ParseError is a single, strictly informational parse diagnostic. The
// parser never stops at a ParseError — it records one and resynchronizes.
type ParseError struct {
	Message  string
	Position Position
	Length   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Position)
}

func newParseError(message string, pos Position, length int) *ParseError {
	return &ParseError{Message: message, Position: pos, Length: length}
}

// ParseErrors collects every ParseError raised during one parse. A non-nil,
// empty ParseErrors is never returned to callers — see ParseResult.
type ParseErrors []*ParseError

func (e ParseErrors) Error() string {
	switch len(e) {
	case 0:
		return "no parse errors"
	case 1:
		return e[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", e[0].Error(), len(e)-1)
	}
}

// ValidationError is a semantic diagnostic raised by the include or the
// validation visitor. Index is the validation visitor's running error count
// (1, 2, ...) and -1 for include errors. Unlike ParseError it carries no
// source length, since it may be raised against a node synthesized by an
// earlier visitor.
type ValidationError struct {
	Message string
	Index   int
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(index int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), Index: index}
}
