package ical

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

var errMissingFreq = errors.New("recur: FREQ rule part missing")

// Frequency is the FREQ rule part of a recurrence rule.
type Frequency string

const (
	Secondly Frequency = "SECONDLY"
	Minutely Frequency = "MINUTELY"
	Hourly   Frequency = "HOURLY"
	Daily    Frequency = "DAILY"
	Weekly   Frequency = "WEEKLY"
	Monthly  Frequency = "MONTHLY"
	Yearly   Frequency = "YEARLY"
)

var weekdays = [...]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// A WeekdayNum is an entry of the BYDAY rule part: a weekday, optionally
// restricted to its Nth occurrence (negative N counts from the end).
type WeekdayNum struct {
	N   int
	Day time.Weekday
}

func (w WeekdayNum) String() string {
	if w.N == 0 {
		return weekdays[w.Day]
	}
	return strconv.Itoa(w.N) + weekdays[w.Day]
}

// A RecurrenceRule is a RECUR value. Zero fields are left out. Expanding the
// rule into occurrences is not supported.
type RecurrenceRule struct {
	Freq Frequency

	// Until is written as a DATE when UntilDate is set, as a UTC DATE-TIME
	// otherwise.
	Until     time.Time
	UntilDate bool
	Count     int
	Interval  int

	BySecond   []int
	ByMinute   []int
	ByHour     []int
	ByDay      []WeekdayNum
	ByMonthDay []int
	ByYearDay  []int
	ByWeekNo   []int
	ByMonth    []int
	BySetPos   []int

	WeekStart *time.Weekday
}

func joinInts(ns []int) string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = strconv.Itoa(n)
	}
	return strings.Join(ss, ",")
}

// parts returns the rule parts in the order of RFC 5545 3.3.10.
func (r RecurrenceRule) parts() []string {
	parts := []string{"FREQ=" + string(r.Freq)}
	if !r.Until.IsZero() {
		if r.UntilDate {
			parts = append(parts, "UNTIL="+formatDate(r.Until))
		} else {
			parts = append(parts, "UNTIL="+formatDateTime(r.Until))
		}
	}
	if r.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(r.Count))
	}
	if r.Interval > 0 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	for _, by := range []struct {
		name string
		ns   []int
	}{
		{"BYSECOND", r.BySecond},
		{"BYMINUTE", r.ByMinute},
		{"BYHOUR", r.ByHour},
	} {
		if len(by.ns) > 0 {
			parts = append(parts, by.name+"="+joinInts(by.ns))
		}
	}
	if len(r.ByDay) > 0 {
		days := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			days[i] = d.String()
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	for _, by := range []struct {
		name string
		ns   []int
	}{
		{"BYMONTHDAY", r.ByMonthDay},
		{"BYYEARDAY", r.ByYearDay},
		{"BYWEEKNO", r.ByWeekNo},
		{"BYMONTH", r.ByMonth},
		{"BYSETPOS", r.BySetPos},
	} {
		if len(by.ns) > 0 {
			parts = append(parts, by.name+"="+joinInts(by.ns))
		}
	}
	if r.WeekStart != nil {
		parts = append(parts, "WKST="+weekdays[*r.WeekStart])
	}
	return parts
}

func (r RecurrenceRule) String() string {
	return strings.Join(r.parts(), ";")
}

// Recur returns a RECUR value. Its rule parts are value slots separated by
// ";" and are written without TEXT escaping.
func Recur(r RecurrenceRule) Value {
	if r.Freq == "" {
		return TupleValue(TypeRecur, func(io.Writer) error {
			return &FormatError{Grammar: "recur", Err: errMissingFreq}
		})
	}
	v := TupleValue(TypeRecur, strs(r.parts())...)
	v.Raw = true
	return v
}
