package ical

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout              = "20060102"
	dateTimeLayoutUTC       = "20060102T150405Z"
	dateTimeLayoutLocalized = "20060102T150405"
	timeLayoutUTC           = "150405Z"
	timeLayoutLocalized     = "150405"
)

func str(s string) SlotFunc {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func strs(ss []string) []SlotFunc {
	slots := make([]SlotFunc, len(ss))
	for i, s := range ss {
		slots[i] = str(s)
	}
	return slots
}

// Text returns a TEXT value.
func Text(s string) Value { return SingleValue(TypeText, str(s)) }

// TextList returns a list of TEXT values, as used by CATEGORIES and
// RESOURCES.
func TextList(ss ...string) Value { return ListValue(TypeText, strs(ss)...) }

// Boolean returns a BOOLEAN value.
func Boolean(b bool) Value {
	if b {
		return SingleValue(TypeBoolean, str("TRUE"))
	}
	return SingleValue(TypeBoolean, str("FALSE"))
}

// Integer returns an INTEGER value.
func Integer(i int) Value { return SingleValue(TypeInteger, str(strconv.Itoa(i))) }

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// Float returns a FLOAT value.
func Float(f float64) Value { return SingleValue(TypeFloat, str(formatFloat(f))) }

// GeoPosition returns the latitude;longitude tuple of the GEO property.
func GeoPosition(lat, lon float64) Value {
	return TupleValue(TypeFloat, str(formatFloat(lat)), str(formatFloat(lon)))
}

// URI returns a URI value.
func URI(uri string) Value { return SingleValue(TypeURI, str(uri)) }

// CalAddress returns a CAL-ADDRESS value. A bare e-mail address gets the
// mailto: scheme.
func CalAddress(addr string) Value {
	return SingleValue(TypeCalAddress, str(calAddress(addr)))
}

func calAddress(addr string) string {
	if !strings.Contains(addr, ":") {
		return "mailto:" + addr
	}
	return addr
}

// Binary returns a BINARY value, base64 encoded, with its ENCODING
// parameter.
func Binary(b []byte) Value {
	v := SingleValue(TypeBinary, str(base64.StdEncoding.EncodeToString(b)))
	v.Params = []Param{ParamEncoding("BASE64")}
	return v
}

func formatDate(t time.Time) string { return t.Format(dateLayout) }

func formatDateTime(t time.Time) string { return t.UTC().Format(dateTimeLayoutUTC) }

// Date returns a DATE value.
func Date(t time.Time) Value { return SingleValue(TypeDate, str(formatDate(t))) }

// Dates returns a list of DATE values.
func Dates(ts ...time.Time) Value {
	slots := make([]SlotFunc, len(ts))
	for i, t := range ts {
		slots[i] = str(formatDate(t))
	}
	return ListValue(TypeDate, slots...)
}

// DateTime returns a DATE-TIME value in UTC form.
func DateTime(t time.Time) Value {
	return SingleValue(TypeDateTime, str(formatDateTime(t)))
}

// DateTimes returns a list of DATE-TIME values in UTC form.
func DateTimes(ts ...time.Time) Value {
	slots := make([]SlotFunc, len(ts))
	for i, t := range ts {
		slots[i] = str(formatDateTime(t))
	}
	return ListValue(TypeDateTime, slots...)
}

// FloatingDateTime returns a DATE-TIME value in floating form: the wall
// clock of t, bound to no time zone.
func FloatingDateTime(t time.Time) Value {
	return SingleValue(TypeDateTime, str(t.Format(dateTimeLayoutLocalized)))
}

// namedLocation reports whether loc can be referred to by TZID.
func namedLocation(loc *time.Location) bool {
	switch loc.String() {
	case "", "UTC", "Local":
		return false
	}
	return true
}

// LocalDateTime returns a DATE-TIME value with time zone reference: the wall
// clock of t, with a TZID parameter naming t's location. Times in UTC or in
// the unnamed Local zone are written in UTC form instead.
func LocalDateTime(t time.Time) Value {
	loc := t.Location()
	if !namedLocation(loc) {
		return DateTime(t)
	}
	v := FloatingDateTime(t)
	v.Params = []Param{ParamTZID(loc.String())}
	return v
}

// LocalDateTimes returns a list of DATE-TIME values with time zone
// reference, in the location of the first one.
func LocalDateTimes(ts ...time.Time) Value {
	if len(ts) == 0 || !namedLocation(ts[0].Location()) {
		return DateTimes(ts...)
	}
	loc := ts[0].Location()
	slots := make([]SlotFunc, len(ts))
	for i, t := range ts {
		slots[i] = str(t.In(loc).Format(dateTimeLayoutLocalized))
	}
	v := ListValue(TypeDateTime, slots...)
	v.Params = []Param{ParamTZID(loc.String())}
	return v
}

// Time returns a TIME value in UTC form.
func Time(t time.Time) Value {
	return SingleValue(TypeTime, str(t.UTC().Format(timeLayoutUTC)))
}

// FloatingTime returns a TIME value in floating form.
func FloatingTime(t time.Time) Value {
	return SingleValue(TypeTime, str(t.Format(timeLayoutLocalized)))
}

// formatDuration renders d as dur-value. Fractions of a second are
// dropped.
func formatDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')

	secs := int64(d / time.Second)
	if secs == 0 {
		b.WriteString("T0S")
		return b.String()
	}

	const day = 24 * 60 * 60
	days, secs := secs/day, secs%day
	if secs == 0 && days%7 == 0 {
		fmt.Fprintf(&b, "%dW", days/7)
		return b.String()
	}
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if secs > 0 {
		b.WriteByte('T')
		h, m, s := secs/3600, secs/60%60, secs%60
		if h > 0 {
			fmt.Fprintf(&b, "%dH", h)
		}
		if m > 0 {
			fmt.Fprintf(&b, "%dM", m)
		}
		if s > 0 {
			fmt.Fprintf(&b, "%dS", s)
		}
	}
	return b.String()
}

// Duration returns a DURATION value.
func Duration(d time.Duration) Value {
	return SingleValue(TypeDuration, str(formatDuration(d)))
}

// A Period is a PERIOD value: explicit when End is set, otherwise a start
// and a Duration.
type Period struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

func (p Period) String() string {
	if !p.End.IsZero() {
		return formatDateTime(p.Start) + "/" + formatDateTime(p.End)
	}
	return formatDateTime(p.Start) + "/" + formatDuration(p.Duration)
}

// PeriodOfTime returns a PERIOD value.
func PeriodOfTime(p Period) Value { return SingleValue(TypePeriod, str(p.String())) }

// PeriodsOfTime returns a list of PERIOD values, as used by FREEBUSY and
// RDATE.
func PeriodsOfTime(ps ...Period) Value {
	slots := make([]SlotFunc, len(ps))
	for i, p := range ps {
		slots[i] = str(p.String())
	}
	return ListValue(TypePeriod, slots...)
}

// formatUTCOffset renders d as utc-offset, rounded down to the second.
// Seconds are only written when not zero.
func formatUTCOffset(d time.Duration) string {
	sign := byte('+')
	if d < 0 {
		sign = '-'
		d = -d
	}
	secs := int64(d / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if s != 0 {
		return fmt.Sprintf("%c%02d%02d%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%c%02d%02d", sign, h, m)
}

// UTCOffset returns a UTC-OFFSET value.
func UTCOffset(d time.Duration) Value {
	return SingleValue(TypeUTCOffset, str(formatUTCOffset(d)))
}
