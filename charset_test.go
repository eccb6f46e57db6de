package ical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotedStringWriter(t *testing.T) {
	for _, s := range []string{
		"I am a string. Quote me on that!",
		"I can contain :, ; and , no problem!",
		"\U0001F92A",
		"tab\tseparated",
	} {
		var buf strings.Builder
		w, err := NewQuotedStringWriter(&buf)
		require.NoError(t, err)
		_, err = w.WriteString(s)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.Equal(t, `"`+s+`"`, buf.String())
	}
}

func TestQuotedStringWriterNegative(t *testing.T) {
	var buf strings.Builder
	w, err := NewQuotedStringWriter(&buf)
	require.NoError(t, err)

	_, err = w.WriteString("I accidentally contain a newline\n")
	assert.ErrorIs(t, err, ErrFormat)
	_, err = w.WriteString(`I also may not contain "`)
	assert.ErrorIs(t, err, ErrFormat)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "quoted-string", fe.Grammar)
	assert.Equal(t, '"', fe.Char)

	require.NoError(t, w.Close())
	assert.Equal(t, `""`, buf.String())
}

func TestQuotedStringWriterPanics(t *testing.T) {
	var buf strings.Builder
	w, err := NewQuotedStringWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.True(t, w.Closed())
	assert.Panics(t, func() { w.WriteString("late") })
	assert.Panics(t, func() { w.Close() })
}

func TestParamtextWriter(t *testing.T) {
	var buf strings.Builder
	w := NewParamtextWriter(&buf)
	_, err := w.WriteString("I am a string \U0001F92A")
	require.NoError(t, err)
	assert.Equal(t, "I am a string \U0001F92A", buf.String())
}

func TestParamtextWriterNegative(t *testing.T) {
	var buf strings.Builder
	w := NewParamtextWriter(&buf)
	for _, s := range []string{"I accidentally contain a newline\n", "\x7f", "\x05", `"`, ":", ";", ","} {
		_, err := w.WriteString(s)
		assert.ErrorIs(t, err, ErrFormat, "%q", s)
	}
	assert.Empty(t, buf.String())
}

func TestNameWriter(t *testing.T) {
	var buf strings.Builder
	w := NewNameWriter(&buf)
	_, err := w.WriteString("X-WR-CALNAME")
	require.NoError(t, err)
	assert.Equal(t, "X-WR-CALNAME", buf.String())

	for _, s := range []string{"X_UNDERSCORE", "SPACE ", "COLON:", "ÆØÅ", "\t"} {
		_, err := w.WriteString(s)
		assert.ErrorIs(t, err, ErrFormat, "%q", s)
	}
	assert.Equal(t, "X-WR-CALNAME", buf.String())
}

func TestFormatErrorMessage(t *testing.T) {
	_, err := NewNameWriter(&strings.Builder{}).WriteString("Æ")
	assert.EqualError(t, err, "ical: format error: U+00C6 not allowed in name")

	_, err = NewParamtextWriter(&strings.Builder{}).WriteString(";")
	assert.EqualError(t, err, `ical: format error: ';' not allowed in paramtext`)
}
