package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlfLines(s string) string {
	return strings.Replace(s, "\n", "\r\n", -1)
}

func TestFormat(t *testing.T) {
	event := NewEvent()
	event.UID = "123@example.org"
	event.Timestamp = time.Date(2020, 2, 11, 0, 0, 0, 0, time.UTC)
	event.Summary = "Test event"

	cal := NewCalendar()
	cal.Events = []*Event{event}
	cal.Prodid = "-//ABC Corporation//NONSGML My Product//EN"
	cal.Version = "2.0"

	want := `BEGIN:VCALENDAR
PRODID:-//ABC Corporation//NONSGML My Product//EN
VERSION:2.0
CALSCALE:GREGORIAN
BEGIN:VEVENT
UID:123@example.org
DTSTAMP:20200211T000000Z
SUMMARY:Test event
END:VEVENT
END:VCALENDAR
`
	want = strings.Replace(want, "\n", "\r\n", -1)

	var buf bytes.Buffer
	if err := Format(&buf, cal); err != nil {
		t.Fatalf("Format() = %v", err)
	}

	if s := buf.String(); s != want {
		t.Errorf("Format() = \n%v\n but want \n%v", s, want)
	}
}

func TestFormatEvent(t *testing.T) {
	oslo := time.FixedZone("Europe/Oslo", 2*60*60)

	event := NewEvent()
	event.Properties = []*Property{
		NewProperty("X-TEAM", Text("core")),
		NewProperty("SUMMARY", Text("replaced")),
	}
	event.UID = "e1@example.com"
	event.Timestamp = time.Date(2024, 6, 26, 12, 0, 0, 0, time.UTC)
	event.StartDate = time.Date(2024, 7, 1, 9, 0, 0, 0, oslo)
	event.EndDate = time.Date(2024, 7, 1, 10, 0, 0, 0, oslo)
	event.Summary = "Standup; daily"
	event.Location = "Room 1, 2nd floor"
	event.Geo = &Geo{Latitude: 59.91, Longitude: 10.75}
	event.Categories = []string{"work", "meetings"}
	event.Transparent = true
	event.Organizer = &Attendee{Address: "boss@example.com", CommonName: "The Boss"}
	event.Attendees = []*Attendee{{Address: "mailto:a@example.com", Role: "REQ-PARTICIPANT", RSVP: true}}
	event.RRule = &RecurrenceRule{Freq: Weekly, ByDay: []WeekdayNum{{Day: time.Monday}, {Day: time.Wednesday}}}
	event.ExDates = []time.Time{time.Date(2024, 7, 3, 9, 0, 0, 0, oslo)}

	alarm := NewAlarm()
	alarm.Action = "DISPLAY"
	alarm.Description = "Reminder"
	alarm.Trigger = -15 * time.Minute
	event.Alarms = []*Alarm{alarm}

	cal := NewCalendar()
	cal.Prodid = "-//test//"
	cal.Method = "PUBLISH"
	cal.Events = []*Event{event}

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, cal))

	assert.Equal(t, crlfLines(`BEGIN:VCALENDAR
PRODID:-//test//
VERSION:2.0
CALSCALE:GREGORIAN
METHOD:PUBLISH
BEGIN:VEVENT
X-TEAM:core
SUMMARY:Standup\; daily
UID:e1@example.com
DTSTAMP:20240626T120000Z
DTSTART;TZID=Europe/Oslo:20240701T090000
DTEND;TZID=Europe/Oslo:20240701T100000
LOCATION:Room 1\, 2nd floor
GEO:59.91;10.75
CATEGORIES:work,meetings
TRANSP:TRANSPARENT
ORGANIZER;CN=The Boss:mailto:boss@example.com
ATTENDEE;ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:a@example.com
RRULE:FREQ=WEEKLY;BYDAY=MO,WE
EXDATE;TZID=Europe/Oslo:20240703T090000
BEGIN:VALARM
ACTION:DISPLAY
TRIGGER:-PT15M
DESCRIPTION:Reminder
END:VALARM
END:VEVENT
END:VCALENDAR
`), buf.String())
}

func TestFormatAllDayEvent(t *testing.T) {
	event := NewEvent()
	event.UID = "holiday"
	event.StartDate = time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	event.Duration = 24 * time.Hour
	event.AllDay = true
	event.RDates = []time.Time{time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)}

	cal := NewCalendar()
	cal.Events = []*Event{event}

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, cal))

	assert.Equal(t, crlfLines(`BEGIN:VCALENDAR
VERSION:2.0
CALSCALE:GREGORIAN
BEGIN:VEVENT
UID:holiday
DTSTART;VALUE=DATE:20241225
DURATION:P1D
RDATE;VALUE=DATE:20251225
END:VEVENT
END:VCALENDAR
`), buf.String())
}

func TestFormatTodoAndJournal(t *testing.T) {
	todo := NewTodo()
	todo.UID = "t1"
	todo.Due = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	todo.AllDay = true
	todo.Completed = time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
	todo.Priority = 1
	todo.PercentComplete = 100

	alarm := NewAlarm()
	alarm.Action = "AUDIO"
	alarm.TriggerAt = time.Date(2024, 6, 30, 7, 0, 0, 0, time.UTC)
	alarm.Repeat = 2
	alarm.RepeatDelay = 5 * time.Minute
	todo.Alarms = []*Alarm{alarm}

	related := NewAlarm()
	related.Action = "DISPLAY"
	related.TriggerRelated = "END"
	related.Summary = "Due"
	todo.Alarms = append(todo.Alarms, related)

	journal := NewJournal()
	journal.UID = "j1"
	journal.StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	journal.Description = strings.Repeat("x", 100)

	cal := NewCalendar()
	cal.Todos = []*Todo{todo}
	cal.Journals = []*Journal{journal}

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, cal))

	assert.Equal(t, crlfLines(`BEGIN:VCALENDAR
VERSION:2.0
CALSCALE:GREGORIAN
BEGIN:VTODO
UID:t1
DUE;VALUE=DATE:20240701
COMPLETED:20240630T080000Z
PRIORITY:1
PERCENT-COMPLETE:100
BEGIN:VALARM
ACTION:AUDIO
TRIGGER;VALUE=DATE-TIME:20240630T070000Z
REPEAT:2
DURATION:PT5M
END:VALARM
BEGIN:VALARM
ACTION:DISPLAY
TRIGGER;RELATED=END:PT0S
SUMMARY:Due
END:VALARM
END:VTODO
BEGIN:VJOURNAL
UID:j1
DTSTART;VALUE=DATE:20240101
DESCRIPTION:`+strings.Repeat("x", 63)+`
 `+strings.Repeat("x", 37)+`
END:VJOURNAL
END:VCALENDAR
`), buf.String())

	for _, l := range scanLines(t, buf.String()) {
		if l.name == "DESCRIPTION" {
			assert.Equal(t, journal.Description, unescapeText(l.value))
		}
	}
}

func TestFormatCustomProperties(t *testing.T) {
	cal := NewCalendar()
	cal.Prodid = "-//test//"
	cal.Properties = []*Property{
		NewProperty("X-WR-CALNAME", Text("Team, shared")),
		NewProperty("PRODID", Text("-//overridden//")),
		NewProperty("X-DUP", Text("a")),
		NewProperty("PRODID", Text("-//dropped//")),
	}

	var buf bytes.Buffer
	require.NoError(t, Format(&buf, cal))

	assert.Equal(t, crlfLines(`BEGIN:VCALENDAR
X-WR-CALNAME:Team\, shared
PRODID:-//test//
X-DUP:a
VERSION:2.0
CALSCALE:GREGORIAN
END:VCALENDAR
`), buf.String())
	assert.Len(t, cal.Properties, 4, "input list is left untouched")
}

func TestFormatInvalidText(t *testing.T) {
	event := NewEvent()
	event.Summary = "bell\x07"

	cal := NewCalendar()
	cal.Events = []*Event{event}

	var buf bytes.Buffer
	err := Format(&buf, cal)
	require.ErrorIs(t, err, ErrFormat)
	assert.NotContains(t, buf.String(), "SUMMARY")
}
