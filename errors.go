package ical

import (
	"errors"
	"fmt"
)

// ErrFormat is the single error kind returned by the writers of this
// package. Every returned error satisfies errors.Is(err, ErrFormat), whether
// it was caused by a character the active grammar does not allow or by the
// underlying io.Writer.
var ErrFormat = errors.New("ical: format error")

// A FormatError describes why a fragment could not be written.
type FormatError struct {
	Grammar string // grammar production that rejected the input, if any
	Char    rune   // offending character, if any; -1 for an empty token
	Err     error  // error of the underlying writer, if any
}

func (e *FormatError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", ErrFormat, e.Err)
	case e.Char < 0:
		return fmt.Sprintf("%v: empty %s", ErrFormat, e.Grammar)
	case e.Char >= 0x80:
		return fmt.Sprintf("%v: %U not allowed in %s", ErrFormat, e.Char, e.Grammar)
	default:
		return fmt.Sprintf("%v: %q not allowed in %s", ErrFormat, e.Char, e.Grammar)
	}
}

// Unwrap returns the error of the underlying writer, if any.
func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func invalidChar(grammar string, c rune) error {
	return &FormatError{Grammar: grammar, Char: c}
}

func emptyToken(grammar string) error {
	return &FormatError{Grammar: grammar, Char: -1}
}

func sinkError(err error) error {
	if err == nil {
		return nil
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	return &FormatError{Err: err}
}

// contractViolation aborts the current call path. It is reserved for caller
// bugs such as writing in the wrong order or forgetting to close a writer.
func contractViolation(format string, args ...interface{}) {
	panic("ical: " + fmt.Sprintf(format, args...))
}
