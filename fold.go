package ical

import (
	"io"
	"unicode/utf8"
)

const (
	maxLineLength = 75
	continuation  = "\r\n "
	crlf          = "\r\n"
)

// A FoldingWriter writes one content line to an underlying writer, folding
// it so that no physical line exceeds 75 octets, CRLF excluded.
//
// Folds happen at UTF-8 code point boundaries. Grapheme clusters may be
// split. The SPACE that starts a continuation line counts against that
// line's budget.
//
// EOL must be called once the line is complete. Writing after EOL panics.
type FoldingWriter struct {
	w      io.Writer
	rem    int // octets left on the current physical line
	closed bool
}

// NewFoldingWriter returns a FoldingWriter positioned at the start of a
// line.
func NewFoldingWriter(w io.Writer) *FoldingWriter {
	return &FoldingWriter{w: w, rem: maxLineLength}
}

// Write implements io.Writer.
func (f *FoldingWriter) Write(p []byte) (int, error) {
	return f.WriteString(string(p))
}

// WriteString appends s to the current line. It fails without writing
// anything if s contains a control character other than HTAB, or is not
// valid UTF-8.
func (f *FoldingWriter) WriteString(s string) (int, error) {
	if f.closed {
		contractViolation("FoldingWriter: write after EOL")
	}

	// VALUE-CHAR: control characters are not valid at this level of the
	// syntax. TEXT values transport newlines as "\n".
	for i := 0; i < len(s); i++ {
		if isControl(s[i]) {
			return 0, invalidChar("VALUE-CHAR", rune(s[i]))
		}
	}
	if !utf8.ValidString(s) {
		return 0, invalidChar("VALUE-CHAR", utf8.RuneError)
	}

	n := 0
	for len(s) > f.rem {
		end := f.rem
		// Terminates after at most three steps on valid UTF-8.
		for end > 0 && !utf8.RuneStart(s[end]) {
			end--
		}

		m, err := io.WriteString(f.w, s[:end])
		n += m
		if err != nil {
			return n, sinkError(err)
		}
		if _, err := io.WriteString(f.w, continuation); err != nil {
			return n, sinkError(err)
		}
		s = s[end:]
		f.rem = maxLineLength - 1
	}

	f.rem -= len(s)
	m, err := io.WriteString(f.w, s)
	n += m
	return n, sinkError(err)
}

// EOL terminates the line with CRLF and closes the writer.
func (f *FoldingWriter) EOL() error {
	if f.closed {
		contractViolation("FoldingWriter: EOL called twice")
	}
	f.closed = true
	_, err := io.WriteString(f.w, crlf)
	return sinkError(err)
}

// Closed reports whether EOL has been called.
func (f *FoldingWriter) Closed() bool { return f.closed }

// isControl reports whether b is a CONTROL character: %x00-08 / %x0A-1F / %x7F.
func isControl(b byte) bool {
	return (b < 0x20 && b != '\t') || b == 0x7f
}
