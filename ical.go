// Package ical implements an iCalendar generator.
//
// iCalendar is defined in RFC 5545. The package writes content lines with
// the folding, parameter quoting and value escaping the RFC requires, from
// low-level content lines (ContentLine, LineStream) up to whole calendars
// (Format).
package ical

import (
	"time"
)

// A Calendar represents the whole iCalendar
type Calendar struct {
	Properties []*Property
	Events     []*Event
	Todos      []*Todo
	Journals   []*Journal
	Prodid     string
	Version    string
	Calscale   string
	Method     string
}

// An Event represent a VEVENT component in an iCalendar
type Event struct {
	Properties  []*Property
	Alarms      []*Alarm
	UID         string
	Timestamp   time.Time
	StartDate   time.Time
	EndDate     time.Time
	Duration    time.Duration
	AllDay      bool // StartDate and EndDate are DATE values
	Summary     string
	Description string
	Location    string
	Status      string
	Class       string
	Transparent bool
	Sequence    int
	URL         string
	Categories  []string
	Geo         *Geo
	Organizer   *Attendee
	Attendees   []*Attendee
	RRule       *RecurrenceRule
	RDates      []time.Time
	ExDates     []time.Time
}

// A Todo represent a VTODO component in an iCalendar
type Todo struct {
	Properties      []*Property
	Alarms          []*Alarm
	UID             string
	Timestamp       time.Time
	StartDate       time.Time
	Due             time.Time
	Completed       time.Time
	AllDay          bool // StartDate and Due are DATE values
	Summary         string
	Description     string
	Status          string
	Priority        int
	PercentComplete int
	Categories      []string
	Organizer       *Attendee
	Attendees       []*Attendee
	RRule           *RecurrenceRule
}

// A Journal represent a VJOURNAL component in an iCalendar
type Journal struct {
	Properties  []*Property
	UID         string
	Timestamp   time.Time
	StartDate   time.Time
	Summary     string
	Description string
	Categories  []string
}

// An Alarm represent a VALARM component in an iCalendar
//
// The trigger is TriggerAt when set, otherwise the Trigger offset from the
// start (or the end, when TriggerRelated is "END") of the parent component.
type Alarm struct {
	Properties     []*Property
	Action         string
	Description    string
	Summary        string
	Trigger        time.Duration
	TriggerAt      time.Time
	TriggerRelated string
	Repeat         int
	RepeatDelay    time.Duration
	Attendees      []*Attendee
}

// A Geo is a position on earth, in degrees.
type Geo struct {
	Latitude  float64
	Longitude float64
}

// An Attendee is a calendar user taking part in a component, as ATTENDEE
// or ORGANIZER.
type Attendee struct {
	Address    string // mailto: is added to bare e-mail addresses
	CommonName string
	Role       string
	PartStat   string
	CUType     string
	RSVP       bool
	SentBy     string
}

// A Property represent a property in an iCalendar component that is not
// covered by the typed fields, such as X- properties.
type Property struct {
	Name   string
	Params []Param
	Value  Value
}

// NewCalendar creates an empty Calendar
func NewCalendar() *Calendar {
	c := &Calendar{
		Version:  "2.0",
		Calscale: "GREGORIAN",
	}
	c.Properties = make([]*Property, 0)
	c.Events = make([]*Event, 0)
	return c
}

// NewProperty creates a Property
func NewProperty(name string, value Value, params ...Param) *Property {
	return &Property{Name: name, Params: params, Value: value}
}

// NewEvent creates an empty Event
func NewEvent() *Event {
	v := &Event{}
	v.Properties = make([]*Property, 0)
	v.Alarms = make([]*Alarm, 0)
	return v
}

// NewTodo creates an empty Todo
func NewTodo() *Todo {
	t := &Todo{}
	t.Properties = make([]*Property, 0)
	t.Alarms = make([]*Alarm, 0)
	return t
}

// NewJournal creates an empty Journal
func NewJournal() *Journal {
	j := &Journal{}
	j.Properties = make([]*Property, 0)
	return j
}

// NewAlarm creates an empty Alarm
func NewAlarm() *Alarm {
	a := &Alarm{}
	a.Properties = make([]*Property, 0)
	return a
}
