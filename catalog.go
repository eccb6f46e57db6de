package ical

import (
	"strings"
)

// Component names of RFC 5545 section 3.6.
const (
	VCalendar = "VCALENDAR"
	VEvent    = "VEVENT"
	VTodo     = "VTODO"
	VJournal  = "VJOURNAL"
	VFreeBusy = "VFREEBUSY"
	VTimezone = "VTIMEZONE"
	Standard  = "STANDARD"
	Daylight  = "DAYLIGHT"
	VAlarm    = "VALARM"
)

// A PropertyDef declares a property: its name and the value type its
// values have unless a VALUE parameter says otherwise. Alternatives lists
// the other value types the property accepts.
type PropertyDef struct {
	Name         string
	Default      ValueType
	Alternatives []ValueType
}

// Accepts reports whether t is the default or one of the alternatives.
func (d PropertyDef) Accepts(t ValueType) bool {
	if t == d.Default {
		return true
	}
	for _, a := range d.Alternatives {
		if a == t {
			return true
		}
	}
	return false
}

// Properties of RFC 5545 sections 3.7 and 3.8.
var (
	// Calendar properties
	PropCalScale = PropertyDef{Name: "CALSCALE", Default: TypeText}
	PropMethod   = PropertyDef{Name: "METHOD", Default: TypeText}
	PropProdID   = PropertyDef{Name: "PRODID", Default: TypeText}
	PropVersion  = PropertyDef{Name: "VERSION", Default: TypeText}

	// Descriptive
	PropAttach          = PropertyDef{Name: "ATTACH", Default: TypeURI, Alternatives: []ValueType{TypeBinary}}
	PropCategories      = PropertyDef{Name: "CATEGORIES", Default: TypeText}
	PropClass           = PropertyDef{Name: "CLASS", Default: TypeText}
	PropComment         = PropertyDef{Name: "COMMENT", Default: TypeText}
	PropDescription     = PropertyDef{Name: "DESCRIPTION", Default: TypeText}
	PropGeo             = PropertyDef{Name: "GEO", Default: TypeFloat}
	PropLocation        = PropertyDef{Name: "LOCATION", Default: TypeText}
	PropPercentComplete = PropertyDef{Name: "PERCENT-COMPLETE", Default: TypeInteger}
	PropPriority        = PropertyDef{Name: "PRIORITY", Default: TypeInteger}
	PropResources       = PropertyDef{Name: "RESOURCES", Default: TypeText}
	PropStatus          = PropertyDef{Name: "STATUS", Default: TypeText}
	PropSummary         = PropertyDef{Name: "SUMMARY", Default: TypeText}

	// Date and time
	PropCompleted = PropertyDef{Name: "COMPLETED", Default: TypeDateTime}
	PropDTEnd     = PropertyDef{Name: "DTEND", Default: TypeDateTime, Alternatives: []ValueType{TypeDate}}
	PropDue       = PropertyDef{Name: "DUE", Default: TypeDateTime, Alternatives: []ValueType{TypeDate}}
	PropDTStart   = PropertyDef{Name: "DTSTART", Default: TypeDateTime, Alternatives: []ValueType{TypeDate}}
	PropDuration  = PropertyDef{Name: "DURATION", Default: TypeDuration}
	PropFreeBusy  = PropertyDef{Name: "FREEBUSY", Default: TypePeriod}
	PropTransp    = PropertyDef{Name: "TRANSP", Default: TypeText}

	// Time zone
	PropTZID         = PropertyDef{Name: "TZID", Default: TypeText}
	PropTZName       = PropertyDef{Name: "TZNAME", Default: TypeText}
	PropTZOffsetFrom = PropertyDef{Name: "TZOFFSETFROM", Default: TypeUTCOffset}
	PropTZOffsetTo   = PropertyDef{Name: "TZOFFSETTO", Default: TypeUTCOffset}
	PropTZURL        = PropertyDef{Name: "TZURL", Default: TypeURI}

	// Relationship
	PropAttendee     = PropertyDef{Name: "ATTENDEE", Default: TypeCalAddress}
	PropContact      = PropertyDef{Name: "CONTACT", Default: TypeText}
	PropOrganizer    = PropertyDef{Name: "ORGANIZER", Default: TypeCalAddress}
	PropRecurrenceID = PropertyDef{Name: "RECURRENCE-ID", Default: TypeDateTime, Alternatives: []ValueType{TypeDate}}
	PropRelatedTo    = PropertyDef{Name: "RELATED-TO", Default: TypeText}
	PropURL          = PropertyDef{Name: "URL", Default: TypeURI}
	PropUID          = PropertyDef{Name: "UID", Default: TypeText}

	// Recurrence
	PropExDate = PropertyDef{Name: "EXDATE", Default: TypeDateTime, Alternatives: []ValueType{TypeDate}}
	PropRDate  = PropertyDef{Name: "RDATE", Default: TypeDateTime, Alternatives: []ValueType{TypeDate, TypePeriod}}
	PropRRule  = PropertyDef{Name: "RRULE", Default: TypeRecur}

	// Alarm
	PropAction  = PropertyDef{Name: "ACTION", Default: TypeText}
	PropRepeat  = PropertyDef{Name: "REPEAT", Default: TypeInteger}
	PropTrigger = PropertyDef{Name: "TRIGGER", Default: TypeDuration, Alternatives: []ValueType{TypeDateTime}}

	// Change management
	PropCreated      = PropertyDef{Name: "CREATED", Default: TypeDateTime}
	PropDTStamp      = PropertyDef{Name: "DTSTAMP", Default: TypeDateTime}
	PropLastModified = PropertyDef{Name: "LAST-MODIFIED", Default: TypeDateTime}
	PropSequence     = PropertyDef{Name: "SEQUENCE", Default: TypeInteger}

	// Miscellaneous
	PropRequestStatus = PropertyDef{Name: "REQUEST-STATUS", Default: TypeText}
)

var propertyDefs = map[string]PropertyDef{}

func init() {
	for _, d := range []PropertyDef{
		PropCalScale, PropMethod, PropProdID, PropVersion,
		PropAttach, PropCategories, PropClass, PropComment, PropDescription,
		PropGeo, PropLocation, PropPercentComplete, PropPriority,
		PropResources, PropStatus, PropSummary,
		PropCompleted, PropDTEnd, PropDue, PropDTStart, PropDuration,
		PropFreeBusy, PropTransp,
		PropTZID, PropTZName, PropTZOffsetFrom, PropTZOffsetTo, PropTZURL,
		PropAttendee, PropContact, PropOrganizer, PropRecurrenceID,
		PropRelatedTo, PropURL, PropUID,
		PropExDate, PropRDate, PropRRule,
		PropAction, PropRepeat, PropTrigger,
		PropCreated, PropDTStamp, PropLastModified, PropSequence,
		PropRequestStatus,
	} {
		propertyDefs[d.Name] = d
	}
}

// LookupProperty returns the definition of the property called name.
// Unknown names, such as X- properties, get a definition without a default
// value type, so their values never carry a VALUE parameter.
func LookupProperty(name string) PropertyDef {
	if d, ok := propertyDefs[strings.ToUpper(name)]; ok {
		return d
	}
	return PropertyDef{Name: name}
}

// A ParamValue is one value of a parameter.
type ParamValue struct {
	Text   string
	Quoted bool
}

// Unquoted returns s as a paramtext value.
func Unquoted(s string) ParamValue { return ParamValue{Text: s} }

// Quoted returns s as a quoted-string value.
func Quoted(s string) ParamValue { return ParamValue{Text: s, Quoted: true} }

// ParamText returns s quoted if it contains a character paramtext does not
// allow, and unquoted otherwise.
func ParamText(s string) ParamValue {
	return ParamValue{Text: s, Quoted: strings.ContainsAny(s, `;:,`)}
}

// A Param is a property parameter with one or more values.
type Param struct {
	Name   string
	Values []ParamValue
}

// NewParam returns the parameter name with values.
func NewParam(name string, values ...ParamValue) Param {
	return Param{Name: name, Values: values}
}

func quotedAll(name string, ss []string) Param {
	vs := make([]ParamValue, len(ss))
	for i, s := range ss {
		vs[i] = Quoted(s)
	}
	return Param{Name: name, Values: vs}
}

// Parameters of RFC 5545 section 3.2.

// ParamAltRep returns the ALTREP parameter pointing at an alternate representation.
func ParamAltRep(uri string) Param { return NewParam("ALTREP", Quoted(uri)) }

// ParamCN returns the CN parameter with a common name.
func ParamCN(name string) Param { return NewParam("CN", ParamText(name)) }

// ParamCUType returns the CUTYPE parameter.
func ParamCUType(t string) Param { return NewParam("CUTYPE", Unquoted(t)) }

// ParamDelegatedFrom returns the DELEGATED-FROM parameter listing calendar users.
func ParamDelegatedFrom(uris ...string) Param { return quotedAll("DELEGATED-FROM", uris) }

// ParamDelegatedTo returns the DELEGATED-TO parameter listing calendar users.
func ParamDelegatedTo(uris ...string) Param { return quotedAll("DELEGATED-TO", uris) }

// ParamDir returns the DIR parameter pointing at a directory entry.
func ParamDir(uri string) Param { return NewParam("DIR", Quoted(uri)) }

// ParamEncoding returns the ENCODING parameter.
func ParamEncoding(enc string) Param { return NewParam("ENCODING", Unquoted(enc)) }

// ParamFmtType returns the FMTTYPE parameter with a media type.
func ParamFmtType(mediaType string) Param { return NewParam("FMTTYPE", Unquoted(mediaType)) }

// ParamFBType returns the FBTYPE parameter.
func ParamFBType(t string) Param { return NewParam("FBTYPE", Unquoted(t)) }

// ParamLanguage returns the LANGUAGE parameter with a language tag.
func ParamLanguage(tag string) Param { return NewParam("LANGUAGE", Unquoted(tag)) }

// ParamMember returns the MEMBER parameter listing group URIs.
func ParamMember(uris ...string) Param { return quotedAll("MEMBER", uris) }

// ParamPartStat returns the PARTSTAT parameter.
func ParamPartStat(s string) Param { return NewParam("PARTSTAT", Unquoted(s)) }

// ParamRange returns the RANGE parameter.
func ParamRange(r string) Param { return NewParam("RANGE", Unquoted(r)) }

// ParamRelated returns the RELATED parameter of an alarm trigger.
func ParamRelated(r string) Param { return NewParam("RELATED", Unquoted(r)) }

// ParamRelType returns the RELTYPE parameter.
func ParamRelType(t string) Param { return NewParam("RELTYPE", Unquoted(t)) }

// ParamRole returns the ROLE parameter.
func ParamRole(r string) Param { return NewParam("ROLE", Unquoted(r)) }

// ParamSentBy returns the SENT-BY parameter.
func ParamSentBy(uri string) Param { return NewParam("SENT-BY", Quoted(uri)) }

// ParamTZID returns the TZID parameter naming a time zone.
func ParamTZID(id string) Param { return NewParam("TZID", ParamText(id)) }

// ParamValueType returns the VALUE parameter overriding a property's default type.
func ParamValueType(t ValueType) Param { return NewParam("VALUE", Unquoted(string(t))) }

// ParamRSVP returns the RSVP parameter.
func ParamRSVP(rsvp bool) Param {
	if rsvp {
		return NewParam("RSVP", Unquoted("TRUE"))
	}
	return NewParam("RSVP", Unquoted("FALSE"))
}
