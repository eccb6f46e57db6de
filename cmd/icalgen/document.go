package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/luxifer/ical"
)

// document is the YAML description of one calendar.
type document struct {
	Name       string        `yaml:"name"`
	ProdID     string        `yaml:"prodid"`
	Method     string        `yaml:"method"`
	TZID       string        `yaml:"tzid"`
	Events     []eventDoc    `yaml:"events"`
	Todos      []todoDoc     `yaml:"todos"`
	Properties []propertyDoc `yaml:"properties"`
}

type eventDoc struct {
	UID         string        `yaml:"uid"`
	Start       time.Time     `yaml:"start"`
	End         time.Time     `yaml:"end"`
	Duration    string        `yaml:"duration"`
	AllDay      bool          `yaml:"all_day"`
	Summary     string        `yaml:"summary"`
	Description string        `yaml:"description"`
	Location    string        `yaml:"location"`
	Status      string        `yaml:"status"`
	Class       string        `yaml:"class"`
	Transparent bool          `yaml:"transparent"`
	URL         string        `yaml:"url"`
	Categories  []string      `yaml:"categories"`
	Geo         []float64     `yaml:"geo"`
	Organizer   *attendeeDoc  `yaml:"organizer"`
	Attendees   []attendeeDoc `yaml:"attendees"`
	RRule       *ruleDoc      `yaml:"rrule"`
	ExDates     []time.Time   `yaml:"exdates"`
	RDates      []time.Time   `yaml:"rdates"`
	Alarms      []alarmDoc    `yaml:"alarms"`
	Properties  []propertyDoc `yaml:"properties"`
}

type todoDoc struct {
	UID             string        `yaml:"uid"`
	Start           time.Time     `yaml:"start"`
	Due             time.Time     `yaml:"due"`
	Completed       time.Time     `yaml:"completed"`
	AllDay          bool          `yaml:"all_day"`
	Summary         string        `yaml:"summary"`
	Description     string        `yaml:"description"`
	Status          string        `yaml:"status"`
	Priority        int           `yaml:"priority"`
	PercentComplete int           `yaml:"percent_complete"`
	Categories      []string      `yaml:"categories"`
	Alarms          []alarmDoc    `yaml:"alarms"`
	Properties      []propertyDoc `yaml:"properties"`
}

type attendeeDoc struct {
	Address  string `yaml:"address"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	PartStat string `yaml:"partstat"`
	RSVP     bool   `yaml:"rsvp"`
}

type alarmDoc struct {
	Action      string    `yaml:"action"`
	Description string    `yaml:"description"`
	Trigger     string    `yaml:"trigger"`
	At          time.Time `yaml:"at"`
	Related     string    `yaml:"related"`
}

type ruleDoc struct {
	Freq       string    `yaml:"freq"`
	Until      time.Time `yaml:"until"`
	Count      int       `yaml:"count"`
	Interval   int       `yaml:"interval"`
	ByDay      []string  `yaml:"byday"`
	ByMonthDay []int     `yaml:"bymonthday"`
	ByMonth    []int     `yaml:"bymonth"`
}

// propertyDoc is a property outside the typed fields. Its value is written
// as TEXT, or as a list of TEXT when it has several values.
type propertyDoc struct {
	Name   string    `yaml:"name"`
	Value  []string  `yaml:"value"`
	Params paramsDoc `yaml:"params"`
}

type paramDoc struct {
	Name   string
	Values []string
}

// paramsDoc is a YAML mapping of parameter names to one value or a list of
// values. Parameters keep the order they are written in.
type paramsDoc []paramDoc

func (p *paramsDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: params must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var values []string
		if val.Kind == yaml.ScalarNode {
			values = []string{val.Value}
		} else if err := val.Decode(&values); err != nil {
			return errors.Wrapf(err, "param %s", key.Value)
		}
		*p = append(*p, paramDoc{Name: key.Value, Values: values})
	}
	return nil
}

// converter turns documents into calendars.
type converter struct {
	prodID string
	now    time.Time
	newUID func() string
}

func (c *converter) calendar(doc *document) (*ical.Calendar, error) {
	var loc *time.Location
	if doc.TZID != "" {
		l, err := time.LoadLocation(doc.TZID)
		if err != nil {
			return nil, errors.Wrapf(err, "tzid %q", doc.TZID)
		}
		loc = l
	}
	in := func(t time.Time) time.Time {
		if loc == nil || t.IsZero() {
			return t
		}
		return t.In(loc)
	}

	cal := ical.NewCalendar()
	cal.Prodid = c.prodID
	if doc.ProdID != "" {
		cal.Prodid = doc.ProdID
	}
	cal.Method = doc.Method
	props, err := properties(doc.Properties)
	if err != nil {
		return nil, err
	}
	cal.Properties = props

	for i, ed := range doc.Events {
		e, err := c.event(&ed, in)
		if err != nil {
			return nil, errors.Wrapf(err, "event %d", i)
		}
		cal.Events = append(cal.Events, e)
	}
	for i, td := range doc.Todos {
		t, err := c.todo(&td, in)
		if err != nil {
			return nil, errors.Wrapf(err, "todo %d", i)
		}
		cal.Todos = append(cal.Todos, t)
	}
	return cal, nil
}

func (c *converter) uid(uid string) string {
	if uid != "" {
		return uid
	}
	return c.newUID()
}

func (c *converter) event(d *eventDoc, in func(time.Time) time.Time) (*ical.Event, error) {
	e := ical.NewEvent()
	e.UID = c.uid(d.UID)
	e.Timestamp = c.now
	e.StartDate = in(d.Start)
	e.EndDate = in(d.End)
	e.AllDay = d.AllDay
	if d.Duration != "" {
		dur, err := time.ParseDuration(d.Duration)
		if err != nil {
			return nil, errors.Wrap(err, "duration")
		}
		e.Duration = dur
	}
	e.Summary = d.Summary
	e.Description = d.Description
	e.Location = d.Location
	e.Status = d.Status
	e.Class = d.Class
	e.Transparent = d.Transparent
	e.URL = d.URL
	e.Categories = d.Categories
	switch len(d.Geo) {
	case 0:
	case 2:
		e.Geo = &ical.Geo{Latitude: d.Geo[0], Longitude: d.Geo[1]}
	default:
		return nil, errors.Errorf("geo needs latitude and longitude, got %d numbers", len(d.Geo))
	}
	e.Organizer = attendee(d.Organizer)
	for i := range d.Attendees {
		e.Attendees = append(e.Attendees, attendee(&d.Attendees[i]))
	}
	if d.RRule != nil {
		r, err := rule(d.RRule, d.AllDay)
		if err != nil {
			return nil, errors.Wrap(err, "rrule")
		}
		e.RRule = r
	}
	for _, t := range d.RDates {
		e.RDates = append(e.RDates, in(t))
	}
	for _, t := range d.ExDates {
		e.ExDates = append(e.ExDates, in(t))
	}
	for i := range d.Alarms {
		a, err := alarm(&d.Alarms[i])
		if err != nil {
			return nil, errors.Wrapf(err, "alarm %d", i)
		}
		e.Alarms = append(e.Alarms, a)
	}
	props, err := properties(d.Properties)
	if err != nil {
		return nil, err
	}
	e.Properties = props
	return e, nil
}

func (c *converter) todo(d *todoDoc, in func(time.Time) time.Time) (*ical.Todo, error) {
	t := ical.NewTodo()
	t.UID = c.uid(d.UID)
	t.Timestamp = c.now
	t.StartDate = in(d.Start)
	t.Due = in(d.Due)
	t.Completed = d.Completed
	t.AllDay = d.AllDay
	t.Summary = d.Summary
	t.Description = d.Description
	t.Status = d.Status
	t.Priority = d.Priority
	t.PercentComplete = d.PercentComplete
	t.Categories = d.Categories
	for i := range d.Alarms {
		a, err := alarm(&d.Alarms[i])
		if err != nil {
			return nil, errors.Wrapf(err, "alarm %d", i)
		}
		t.Alarms = append(t.Alarms, a)
	}
	props, err := properties(d.Properties)
	if err != nil {
		return nil, err
	}
	t.Properties = props
	return t, nil
}

func attendee(d *attendeeDoc) *ical.Attendee {
	if d == nil {
		return nil
	}
	return &ical.Attendee{
		Address:    d.Address,
		CommonName: d.Name,
		Role:       d.Role,
		PartStat:   d.PartStat,
		RSVP:       d.RSVP,
	}
}

func alarm(d *alarmDoc) (*ical.Alarm, error) {
	a := ical.NewAlarm()
	a.Action = strings.ToUpper(d.Action)
	if a.Action == "" {
		a.Action = "DISPLAY"
	}
	a.Description = d.Description
	a.TriggerAt = d.At
	a.TriggerRelated = d.Related
	if d.Trigger != "" {
		trigger, err := time.ParseDuration(d.Trigger)
		if err != nil {
			return nil, errors.Wrap(err, "trigger")
		}
		a.Trigger = trigger
	}
	return a, nil
}

var weekdays = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// weekdayNum parses a BYDAY entry such as "MO", "1MO" or "-1FR".
func weekdayNum(s string) (ical.WeekdayNum, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return ical.WeekdayNum{}, fmt.Errorf("invalid weekday %q", s)
	}
	day, ok := weekdays[s[len(s)-2:]]
	if !ok {
		return ical.WeekdayNum{}, fmt.Errorf("invalid weekday %q", s)
	}
	var n int
	if prefix := s[:len(s)-2]; prefix != "" {
		var err error
		if n, err = strconv.Atoi(prefix); err != nil {
			return ical.WeekdayNum{}, fmt.Errorf("invalid weekday %q", s)
		}
	}
	return ical.WeekdayNum{N: n, Day: day}, nil
}

func rule(d *ruleDoc, allDay bool) (*ical.RecurrenceRule, error) {
	freq := ical.Frequency(strings.ToUpper(d.Freq))
	switch freq {
	case ical.Secondly, ical.Minutely, ical.Hourly, ical.Daily, ical.Weekly, ical.Monthly, ical.Yearly:
	default:
		return nil, fmt.Errorf("invalid freq %q", d.Freq)
	}
	r := &ical.RecurrenceRule{
		Freq:       freq,
		Until:      d.Until,
		UntilDate:  allDay,
		Count:      d.Count,
		Interval:   d.Interval,
		ByMonthDay: d.ByMonthDay,
		ByMonth:    d.ByMonth,
	}
	for _, s := range d.ByDay {
		w, err := weekdayNum(s)
		if err != nil {
			return nil, err
		}
		r.ByDay = append(r.ByDay, w)
	}
	return r, nil
}

func properties(docs []propertyDoc) ([]*ical.Property, error) {
	props := make([]*ical.Property, 0, len(docs))
	for i, d := range docs {
		if d.Name == "" {
			return nil, errors.Errorf("property %d has no name", i)
		}
		var params []ical.Param
		for _, p := range d.Params {
			if p.Name == "" || len(p.Values) == 0 {
				return nil, errors.Errorf("property %s: param %q has no values", d.Name, p.Name)
			}
			vs := make([]ical.ParamValue, len(p.Values))
			for j, v := range p.Values {
				vs[j] = ical.ParamText(v)
			}
			params = append(params, ical.NewParam(strings.ToUpper(p.Name), vs...))
		}
		value := ical.TextList(d.Value...)
		if len(d.Value) == 1 {
			value = ical.Text(d.Value[0])
		}
		props = append(props, ical.NewProperty(strings.ToUpper(d.Name), value, params...))
	}
	return props, nil
}
