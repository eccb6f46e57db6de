package ical

import (
	"io"
	"unicode/utf8"
)

// validate returns an error for the first byte of s that ok rejects.
func validate(grammar, s string, ok func(byte) bool) error {
	for i := 0; i < len(s); i++ {
		if !ok(s[i]) {
			c, _ := utf8.DecodeRuneInString(s[i:])
			return invalidChar(grammar, c)
		}
	}
	return nil
}

// isNameChar reports whether b is allowed in an iana-token:
// ALPHA / DIGIT / "-".
func isNameChar(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9') || b == '-'
}

// isSafeChar reports whether b is a SAFE-CHAR, any character except
// CONTROL, DQUOTE, ";", ":" and ",".
func isSafeChar(b byte) bool {
	switch b {
	case '"', ';', ':', ',':
		return false
	}
	return !isControl(b)
}

// isQSafeChar reports whether b is a QSAFE-CHAR, any character except
// CONTROL and DQUOTE.
func isQSafeChar(b byte) bool {
	return b != '"' && !isControl(b)
}

// A NameWriter validates that everything written to it conforms to the
// iana-token grammar:
//
//	name       = iana-token / x-name
//	iana-token = 1*(ALPHA / DIGIT / "-")
//	x-name     = "X-" [vendorid "-"] 1*(ALPHA / DIGIT / "-")
//
// Only iana-token is enforced; x-name is a subset of it for all practical
// purposes.
type NameWriter struct {
	w io.Writer
}

// NewNameWriter returns a NameWriter writing to w.
func NewNameWriter(w io.Writer) *NameWriter {
	return &NameWriter{w: w}
}

func (n *NameWriter) Write(p []byte) (int, error) {
	return n.WriteString(string(p))
}

func (n *NameWriter) WriteString(s string) (int, error) {
	if err := validate("name", s, isNameChar); err != nil {
		return 0, err
	}
	m, err := io.WriteString(n.w, s)
	return m, sinkError(err)
}

// A ParamtextWriter validates unquoted parameter values:
//
//	paramtext = *SAFE-CHAR
//	SAFE-CHAR = WSP / %x21 / %x23-2B / %x2D-39 / %x3C-7E / NON-US-ASCII
//
// Use QuotedStringWriter for values containing ";", ":" or ",".
type ParamtextWriter struct {
	w io.Writer
}

// NewParamtextWriter returns a ParamtextWriter writing to w.
func NewParamtextWriter(w io.Writer) *ParamtextWriter {
	return &ParamtextWriter{w: w}
}

func (p *ParamtextWriter) Write(b []byte) (int, error) {
	return p.WriteString(string(b))
}

func (p *ParamtextWriter) WriteString(s string) (int, error) {
	if err := validate("paramtext", s, isSafeChar); err != nil {
		return 0, err
	}
	m, err := io.WriteString(p.w, s)
	return m, sinkError(err)
}

// A QuotedStringWriter writes a quoted parameter value:
//
//	quoted-string = DQUOTE *QSAFE-CHAR DQUOTE
//	QSAFE-CHAR    = WSP / %x21 / %x23-7E / NON-US-ASCII
//
// The surrounding DQUOTEs are written by NewQuotedStringWriter and Close.
// There is no escaping mechanism inside a quoted string: a URI containing
// DQUOTE has to be percent-encoded as %22 by the caller.
//
// Close must be called before the enclosing content line moves on.
type QuotedStringWriter struct {
	w      io.Writer
	closed bool
}

// NewQuotedStringWriter writes the opening DQUOTE to w and returns a writer
// for the quoted content.
func NewQuotedStringWriter(w io.Writer) (*QuotedStringWriter, error) {
	if _, err := io.WriteString(w, `"`); err != nil {
		return nil, sinkError(err)
	}
	return &QuotedStringWriter{w: w}, nil
}

func (q *QuotedStringWriter) Write(p []byte) (int, error) {
	return q.WriteString(string(p))
}

func (q *QuotedStringWriter) WriteString(s string) (int, error) {
	if q.closed {
		contractViolation("QuotedStringWriter: write after Close")
	}
	if err := validate("quoted-string", s, isQSafeChar); err != nil {
		return 0, err
	}
	m, err := io.WriteString(q.w, s)
	return m, sinkError(err)
}

// Close writes the closing DQUOTE.
func (q *QuotedStringWriter) Close() error {
	if q.closed {
		contractViolation("QuotedStringWriter: Close called twice")
	}
	q.closed = true
	_, err := io.WriteString(q.w, `"`)
	return sinkError(err)
}

// Closed reports whether Close has been called.
func (q *QuotedStringWriter) Closed() bool { return q.closed }
