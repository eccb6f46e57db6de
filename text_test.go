package ical

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/transform"
)

func TestTextWriter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Basic test with no escaping", "Basic test with no escaping"},
		{"\n;,\\", `\n\;\,\\`},
		{"Mix\nwith different; yet equivalent, parts", `Mix\nwith different\; yet equivalent\, parts`},
		{"colons: stay", "colons: stay"},
		{"", ""},
	}
	for _, tt := range tests {
		var buf strings.Builder
		n, err := NewTextWriter(&buf).WriteString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, len(tt.in), n)
		assert.Equal(t, tt.want, buf.String())
		assert.Equal(t, tt.want, EscapeText(tt.in))
	}
}

func TestTextEscaperShortDst(t *testing.T) {
	in := strings.Repeat(`a;b\c`+"\n", 2000)
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, TextEscaper())
	_, err := w.Write([]byte(in))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, strings.Repeat(`a\;b\\c\n`, 2000), buf.String())
}

func TestTextEscapingInvertible(t *testing.T) {
	r := rand.New(rand.NewSource(3311))
	for i := 0; i < 200; i++ {
		s := randomText(r, r.Intn(64)) + strings.Repeat("\n", r.Intn(3))
		escaped := EscapeText(s)
		assert.NotContains(t, escaped, "\n")
		assert.Equal(t, s, unescapeText(escaped))
	}
}
