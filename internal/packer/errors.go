package packer

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every error produced while parsing a line or an item token.
	ErrParse = errors.New("invalid pack input")
	// ErrTooManyElements is returned when a combination request exceeds the enumerable element count.
	ErrTooManyElements = errors.New("too many elements to enumerate")
)

// ParseError reports malformed input together with the raw fragment that caused it.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s, content=%q", e.Reason, e.Input)
}

// Unwrap exposes both the ErrParse sentinel and the underlying conversion error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

func newParseError(input, reason string, err error) *ParseError {
	return &ParseError{Input: input, Reason: reason, Err: err}
}
