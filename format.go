package ical

import (
	"io"
	"strings"
	"time"
)

// Format writes the calendar to the provided io.Writer.
//
// Properties lists are written in order. A listed property sharing its name
// with a set typed field is replaced in place by that field, and the other
// typed fields follow in a fixed order.
func Format(w io.Writer, cal *Calendar) error {
	iw := NewWriter(w)
	if err := formatCalendar(iw, cal); err != nil {
		return err
	}
	return iw.Close()
}

func formatCalendar(iw *Writer, cal *Calendar) error {
	var props []*Property
	if cal.Prodid != "" {
		props = append(props, NewProperty("PRODID", Text(cal.Prodid)))
	}
	if cal.Version != "" {
		props = append(props, NewProperty("VERSION", Text(cal.Version)))
	}
	if cal.Calscale != "" {
		props = append(props, NewProperty("CALSCALE", Text(cal.Calscale)))
	}
	if cal.Method != "" {
		props = append(props, NewProperty("METHOD", Text(cal.Method)))
	}

	c, err := iw.Component(VCalendar)
	if err != nil {
		return err
	}

	if err := formatPropertiesList(c, setProperties(cal.Properties, props)); err != nil {
		return err
	}

	for _, event := range cal.Events {
		if err := formatEvent(c, event); err != nil {
			return err
		}
	}
	for _, todo := range cal.Todos {
		if err := formatTodo(c, todo); err != nil {
			return err
		}
	}
	for _, journal := range cal.Journals {
		if err := formatJournal(c, journal); err != nil {
			return err
		}
	}

	return c.End()
}

// dateOrDateTime returns t as a DATE when date is set. Otherwise t is a
// DATE-TIME, with a TZID parameter when t is in a named location.
func dateOrDateTime(t time.Time, date bool) Value {
	if date {
		return Date(t)
	}
	return LocalDateTime(t)
}

func attendeeProperty(name string, a *Attendee) *Property {
	var params []Param
	if a.CommonName != "" {
		params = append(params, ParamCN(a.CommonName))
	}
	if a.CUType != "" {
		params = append(params, ParamCUType(a.CUType))
	}
	if a.Role != "" {
		params = append(params, ParamRole(a.Role))
	}
	if a.PartStat != "" {
		params = append(params, ParamPartStat(a.PartStat))
	}
	if a.RSVP {
		params = append(params, ParamRSVP(true))
	}
	if a.SentBy != "" {
		params = append(params, ParamSentBy(calAddress(a.SentBy)))
	}
	return NewProperty(name, CalAddress(a.Address), params...)
}

func appendAttendees(props []*Property, organizer *Attendee, attendees []*Attendee) []*Property {
	if organizer != nil {
		props = append(props, attendeeProperty("ORGANIZER", organizer))
	}
	for _, a := range attendees {
		props = append(props, attendeeProperty("ATTENDEE", a))
	}
	return props
}

func formatEvent(parent *ComponentWriter, event *Event) error {
	var props []*Property
	if event.UID != "" {
		props = append(props, NewProperty("UID", Text(event.UID)))
	}
	if !event.Timestamp.IsZero() {
		props = append(props, NewProperty("DTSTAMP", DateTime(event.Timestamp)))
	}
	if !event.StartDate.IsZero() {
		props = append(props, NewProperty("DTSTART", dateOrDateTime(event.StartDate, event.AllDay)))
	}
	if !event.EndDate.IsZero() {
		props = append(props, NewProperty("DTEND", dateOrDateTime(event.EndDate, event.AllDay)))
	} else if event.Duration != 0 {
		props = append(props, NewProperty("DURATION", Duration(event.Duration)))
	}
	if event.Summary != "" {
		props = append(props, NewProperty("SUMMARY", Text(event.Summary)))
	}
	if event.Description != "" {
		props = append(props, NewProperty("DESCRIPTION", Text(event.Description)))
	}
	if event.Location != "" {
		props = append(props, NewProperty("LOCATION", Text(event.Location)))
	}
	if event.Geo != nil {
		props = append(props, NewProperty("GEO", GeoPosition(event.Geo.Latitude, event.Geo.Longitude)))
	}
	if len(event.Categories) > 0 {
		props = append(props, NewProperty("CATEGORIES", TextList(event.Categories...)))
	}
	if event.Status != "" {
		props = append(props, NewProperty("STATUS", Text(event.Status)))
	}
	if event.Class != "" {
		props = append(props, NewProperty("CLASS", Text(event.Class)))
	}
	if event.Transparent {
		props = append(props, NewProperty("TRANSP", Text("TRANSPARENT")))
	}
	if event.Sequence > 0 {
		props = append(props, NewProperty("SEQUENCE", Integer(event.Sequence)))
	}
	if event.URL != "" {
		props = append(props, NewProperty("URL", URI(event.URL)))
	}
	props = appendAttendees(props, event.Organizer, event.Attendees)
	if event.RRule != nil {
		props = append(props, NewProperty("RRULE", Recur(*event.RRule)))
	}
	if len(event.RDates) > 0 {
		props = append(props, NewProperty("RDATE", dateList(event.RDates, event.AllDay)))
	}
	if len(event.ExDates) > 0 {
		props = append(props, NewProperty("EXDATE", dateList(event.ExDates, event.AllDay)))
	}

	c, err := parent.Component(VEvent)
	if err != nil {
		return err
	}

	if err := formatPropertiesList(c, setProperties(event.Properties, props)); err != nil {
		return err
	}

	for _, alarm := range event.Alarms {
		if err := formatAlarm(c, alarm); err != nil {
			return err
		}
	}

	return c.End()
}

func dateList(ts []time.Time, date bool) Value {
	if date {
		return Dates(ts...)
	}
	return LocalDateTimes(ts...)
}

func formatTodo(parent *ComponentWriter, todo *Todo) error {
	var props []*Property
	if todo.UID != "" {
		props = append(props, NewProperty("UID", Text(todo.UID)))
	}
	if !todo.Timestamp.IsZero() {
		props = append(props, NewProperty("DTSTAMP", DateTime(todo.Timestamp)))
	}
	if !todo.StartDate.IsZero() {
		props = append(props, NewProperty("DTSTART", dateOrDateTime(todo.StartDate, todo.AllDay)))
	}
	if !todo.Due.IsZero() {
		props = append(props, NewProperty("DUE", dateOrDateTime(todo.Due, todo.AllDay)))
	}
	if !todo.Completed.IsZero() {
		props = append(props, NewProperty("COMPLETED", DateTime(todo.Completed)))
	}
	if todo.Summary != "" {
		props = append(props, NewProperty("SUMMARY", Text(todo.Summary)))
	}
	if todo.Description != "" {
		props = append(props, NewProperty("DESCRIPTION", Text(todo.Description)))
	}
	if len(todo.Categories) > 0 {
		props = append(props, NewProperty("CATEGORIES", TextList(todo.Categories...)))
	}
	if todo.Status != "" {
		props = append(props, NewProperty("STATUS", Text(todo.Status)))
	}
	if todo.Priority > 0 {
		props = append(props, NewProperty("PRIORITY", Integer(todo.Priority)))
	}
	if todo.PercentComplete > 0 {
		props = append(props, NewProperty("PERCENT-COMPLETE", Integer(todo.PercentComplete)))
	}
	props = appendAttendees(props, todo.Organizer, todo.Attendees)
	if todo.RRule != nil {
		props = append(props, NewProperty("RRULE", Recur(*todo.RRule)))
	}

	c, err := parent.Component(VTodo)
	if err != nil {
		return err
	}

	if err := formatPropertiesList(c, setProperties(todo.Properties, props)); err != nil {
		return err
	}

	for _, alarm := range todo.Alarms {
		if err := formatAlarm(c, alarm); err != nil {
			return err
		}
	}

	return c.End()
}

func formatJournal(parent *ComponentWriter, journal *Journal) error {
	var props []*Property
	if journal.UID != "" {
		props = append(props, NewProperty("UID", Text(journal.UID)))
	}
	if !journal.Timestamp.IsZero() {
		props = append(props, NewProperty("DTSTAMP", DateTime(journal.Timestamp)))
	}
	if !journal.StartDate.IsZero() {
		props = append(props, NewProperty("DTSTART", Date(journal.StartDate)))
	}
	if journal.Summary != "" {
		props = append(props, NewProperty("SUMMARY", Text(journal.Summary)))
	}
	if journal.Description != "" {
		props = append(props, NewProperty("DESCRIPTION", Text(journal.Description)))
	}
	if len(journal.Categories) > 0 {
		props = append(props, NewProperty("CATEGORIES", TextList(journal.Categories...)))
	}

	c, err := parent.Component(VJournal)
	if err != nil {
		return err
	}

	if err := formatPropertiesList(c, setProperties(journal.Properties, props)); err != nil {
		return err
	}

	return c.End()
}

func formatAlarm(parent *ComponentWriter, alarm *Alarm) error {
	var props []*Property
	if alarm.Action != "" {
		props = append(props, NewProperty("ACTION", Text(alarm.Action)))
	}
	if !alarm.TriggerAt.IsZero() {
		props = append(props, NewProperty("TRIGGER", DateTime(alarm.TriggerAt)))
	} else {
		var params []Param
		if alarm.TriggerRelated != "" {
			params = append(params, ParamRelated(alarm.TriggerRelated))
		}
		props = append(props, NewProperty("TRIGGER", Duration(alarm.Trigger), params...))
	}
	if alarm.Description != "" {
		props = append(props, NewProperty("DESCRIPTION", Text(alarm.Description)))
	}
	if alarm.Summary != "" {
		props = append(props, NewProperty("SUMMARY", Text(alarm.Summary)))
	}
	if alarm.Repeat > 0 {
		props = append(props, NewProperty("REPEAT", Integer(alarm.Repeat)))
		props = append(props, NewProperty("DURATION", Duration(alarm.RepeatDelay)))
	}
	props = appendAttendees(props, nil, alarm.Attendees)

	c, err := parent.Component(VAlarm)
	if err != nil {
		return err
	}

	if err := formatPropertiesList(c, setProperties(alarm.Properties, props)); err != nil {
		return err
	}

	return c.End()
}

func formatPropertiesList(c *ComponentWriter, props []*Property) error {
	for _, prop := range props {
		if err := formatProperty(c, prop); err != nil {
			return err
		}
	}
	return nil
}

func formatProperty(c *ComponentWriter, prop *Property) error {
	return c.SimpleProperty(LookupProperty(prop.Name), prop.Value, prop.Params...)
}

// setProperties returns l with newProps merged in. The first property of l
// sharing a name with newProps is replaced by all of them, later ones are
// dropped. The remaining newProps are appended in order.
func setProperties(l []*Property, newProps []*Property) []*Property {
	m := make(map[string][]*Property, len(newProps))
	for _, newProp := range newProps {
		m[newProp.Name] = append(m[newProp.Name], newProp)
	}

	out := make([]*Property, 0, len(l)+len(newProps))
	for _, prop := range l {
		name := strings.ToUpper(prop.Name)
		if ps, ok := m[name]; ok {
			out = append(out, ps...)
			m[name] = nil
			continue
		}
		out = append(out, prop)
	}

	for _, newProp := range newProps {
		if ps := m[newProp.Name]; ps != nil {
			out = append(out, ps...)
			m[newProp.Name] = nil
		}
	}

	return out
}
