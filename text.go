package ical

import (
	"io"

	"golang.org/x/text/transform"
)

// textEscaper backslash-escapes the characters that are significant in
// TEXT values (RFC 5545 3.3.11): "\", LF, ";" and ",".
type textEscaper struct{ transform.NopResetter }

var _ transform.Transformer = textEscaper{}

// Transform implements transform.Transformer.
func (textEscaper) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		esc, ok := textEscape(c)
		if !ok {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if nDst+2 > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = '\\'
		dst[nDst+1] = esc
		nDst += 2
		nSrc++
	}
	return nDst, nSrc, nil
}

func textEscape(c byte) (byte, bool) {
	switch c {
	case '\\', ';', ',':
		return c, true
	case '\n':
		return 'n', true
	}
	return 0, false
}

// TextEscaper returns a transformer applying TEXT value escaping.
func TextEscaper() transform.Transformer { return textEscaper{} }

// EscapeText returns s with TEXT value escaping applied.
func EscapeText(s string) string {
	out, _, _ := transform.String(textEscaper{}, s)
	return out
}

// A TextWriter escapes everything written to it as a TEXT value before
// passing it on.
//
// Only TEXT needs this, but no other value type may contain the escaped
// characters, so every value slot goes through a TextWriter.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter returns a TextWriter writing to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

func (t *TextWriter) Write(p []byte) (int, error) {
	return t.WriteString(string(p))
}

func (t *TextWriter) WriteString(s string) (int, error) {
	if _, err := io.WriteString(t.w, EscapeText(s)); err != nil {
		return 0, sinkError(err)
	}
	return len(s), nil
}
