package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const teamDoc = `name: team
prodid: -//team//
method: PUBLISH
events:
  - uid: standup@example.com
    start: 2024-07-01T09:00:00Z
    duration: 15m
    summary: Standup, daily
    categories: [work]
    rrule:
      freq: weekly
      byday: [MO, WE]
    alarms:
      - trigger: -5m
        description: Soon
properties:
  - name: x-wr-calname
    value: [Team]
`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testRenderer(outDir string, stdout *bytes.Buffer) *renderer {
	r := newRenderer(log.NewNopLogger(), outDir, defaultProdID, stdout)
	r.conv.now = time.Date(2024, 6, 26, 12, 0, 0, 0, time.UTC)
	r.conv.newUID = func() string { return "generated-uid" }
	return r
}

func TestRenderFileToDir(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	path := writeDoc(t, in, "doc.yaml", teamDoc)

	r := testRenderer(out, nil)
	require.NoError(t, r.renderAll(context.Background(), []string{path}, 2))

	data, err := os.ReadFile(filepath.Join(out, "team.ics"))
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(`BEGIN:VCALENDAR
X-WR-CALNAME:Team
PRODID:-//team//
VERSION:2.0
CALSCALE:GREGORIAN
METHOD:PUBLISH
BEGIN:VEVENT
UID:standup@example.com
DTSTAMP:20240626T120000Z
DTSTART:20240701T090000Z
DURATION:PT15M
SUMMARY:Standup\, daily
CATEGORIES:work
RRULE:FREQ=WEEKLY;BYDAY=MO,WE
BEGIN:VALARM
ACTION:DISPLAY
TRIGGER:-PT5M
DESCRIPTION:Soon
END:VALARM
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n", -1), string(data))
}

func TestRenderAllToStdout(t *testing.T) {
	in := t.TempDir()
	names := []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml", "f.yaml"}
	var paths []string
	for _, name := range names {
		paths = append(paths, writeDoc(t, in, name, "events:\n  - summary: "+name+"\n"))
	}

	var stdout bytes.Buffer
	r := testRenderer("", &stdout)
	require.NoError(t, r.renderAll(context.Background(), paths, 3))

	out := stdout.String()
	assert.Equal(t, len(names), strings.Count(out, "BEGIN:VCALENDAR\r\n"))
	assert.Equal(t, len(names), strings.Count(out, "UID:generated-uid\r\n"))
	assert.Equal(t, len(names), strings.Count(out, "PRODID:"+defaultProdID+"\r\n"))
	last := -1
	for _, name := range names {
		i := strings.Index(out, "SUMMARY:"+name+"\r\n")
		require.GreaterOrEqual(t, i, 0, name)
		assert.Greater(t, i, last, "%s is written in argument order", name)
		last = i
	}
}

func TestRenderPropertyParams(t *testing.T) {
	in := t.TempDir()
	path := writeDoc(t, in, "params.yaml", `properties:
  - name: x-foo
    value: [v]
    params:
      D: "4"
      A: [1]
      C: [3, "3b"]
      B: 2
`)

	for i := 0; i < 10; i++ {
		var stdout bytes.Buffer
		require.NoError(t, testRenderer("", &stdout).renderAll(context.Background(), []string{path}, 1))
		assert.Contains(t, stdout.String(), "\r\nX-FOO;D=4;A=1;C=3,3b;B=2:v\r\n")
	}
}

func TestRenderErrors(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "events: [", "decode"},
		{"bad duration", "events:\n  - duration: soon\n", "event 0: duration"},
		{"bad freq", "events:\n  - rrule:\n      freq: sometimes\n", `invalid freq "sometimes"`},
		{"bad geo", "events:\n  - geo: [1]\n", "geo needs latitude and longitude"},
		{"bad text", "name: bad\nevents:\n  - summary: \"bell\\a\"\n", "format error"},
		{"bad tzid", "tzid: Nowhere/Special\n", "tzid"},
		{"empty param", "events:\n  - properties:\n      - name: x-p\n        value: [v]\n        params: {X-P: []}\n", `param "X-P" has no values`},
		{"unnamed property", "properties:\n  - value: [v]\n", "property 0 has no name"},
		{"params list", "properties:\n  - name: x-p\n    params: [a]\n", "params must be a mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, in, strings.ReplaceAll(tt.name, " ", "-")+".yaml", tt.content)
			err := testRenderer(out, nil).renderAll(context.Background(), []string{path}, 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Contains(t, err.Error(), path)
		})
	}

	_, err := os.Stat(filepath.Join(out, "bad.ics"))
	assert.True(t, os.IsNotExist(err), "failed output is removed")

	err = testRenderer(out, nil).renderAll(context.Background(), []string{filepath.Join(in, "missing.yaml")}, 1)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestWeekdayNum(t *testing.T) {
	w, err := weekdayNum("-1fr")
	require.NoError(t, err)
	assert.Equal(t, "-1FR", w.String())

	w, err = weekdayNum("MO")
	require.NoError(t, err)
	assert.Equal(t, "MO", w.String())

	for _, s := range []string{"", "X", "1XX", "aMO"} {
		_, err := weekdayNum(s)
		assert.Error(t, err, s)
	}
}

func TestRootCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "nested")
	path := writeDoc(t, in, "team.yaml", teamDoc)

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--out-dir", out, "-j", "1", "--log.level", "debug", path})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(out, "team.ics"))
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "msg=\"calendar rendered\"")
	assert.Contains(t, stderr.String(), "level=debug")
	assert.Empty(t, stdout.String())
}

func TestRootCommandFlags(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"--log.level", "verbose", "x.yaml"},
		{"--concurrency", "0", "x.yaml"},
	} {
		cmd := newRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "%v", args)
	}
}
