package ical

import (
	"io"
)

// A ValueType is the registered name of an RFC 5545 value type, as used in
// the VALUE parameter.
type ValueType string

// Value types of RFC 5545 section 3.3.
const (
	TypeBinary     ValueType = "BINARY"
	TypeBoolean    ValueType = "BOOLEAN"
	TypeCalAddress ValueType = "CAL-ADDRESS"
	TypeDate       ValueType = "DATE"
	TypeDateTime   ValueType = "DATE-TIME"
	TypeDuration   ValueType = "DURATION"
	TypeFloat      ValueType = "FLOAT"
	TypeInteger    ValueType = "INTEGER"
	TypePeriod     ValueType = "PERIOD"
	TypeRecur      ValueType = "RECUR"
	TypeText       ValueType = "TEXT"
	TypeTime       ValueType = "TIME"
	TypeURI        ValueType = "URI"
	TypeUTCOffset  ValueType = "UTC-OFFSET"
)

// Kind is the shape of a Value on the wire.
type Kind int

const (
	// Single is one value slot.
	Single Kind = iota
	// Tuple is a fixed number of slots separated by ";".
	Tuple
	// List is zero or more slots separated by ",".
	List
	// Choice is one of several shapes, selected with the VALUE parameter
	// when it is not the declared default.
	Choice
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Tuple:
		return "tuple"
	case List:
		return "list"
	case Choice:
		return "choice"
	}
	return "unknown"
}

// A SlotFunc writes one value slot to w.
type SlotFunc func(w io.Writer) error

// A Value is a property value ready to be written: its shape, its value
// type and one formatter per slot.
type Value struct {
	Kind  Kind
	Type  ValueType // value type; the default one for a Choice
	Slots []SlotFunc

	// Params are written before the value. Value types such as BINARY
	// require some.
	Params []Param

	// Raw slots skip TEXT escaping.
	Raw bool

	// Active is the selected shape of a Choice.
	Active *Value
}

// SingleValue returns a value of type t with one slot.
func SingleValue(t ValueType, slot SlotFunc) Value {
	return Value{Kind: Single, Type: t, Slots: []SlotFunc{slot}}
}

// TupleValue returns a value of type t whose slots are separated by ";".
func TupleValue(t ValueType, slots ...SlotFunc) Value {
	return Value{Kind: Tuple, Type: t, Slots: slots}
}

// ListValue returns a value of type t whose slots are separated by ",".
func ListValue(t ValueType, slots ...SlotFunc) Value {
	return Value{Kind: List, Type: t, Slots: slots}
}

// ChoiceValue returns active as one choice of a property whose default
// value type is def.
func ChoiceValue(def ValueType, active Value) Value {
	if active.Kind == Choice {
		contractViolation("ChoiceValue: nested choice")
	}
	return Value{Kind: Choice, Type: def, Active: &active}
}

// Selected returns the shape that will be written: the active shape of a
// Choice, v itself otherwise.
func (v Value) Selected() Value {
	if v.Kind == Choice {
		return *v.Active
	}
	return v
}

// NeedsValueParam reports whether writing v emits a VALUE parameter.
func (v Value) NeedsValueParam() bool {
	return v.Kind == Choice && v.Active.Type != v.Type
}

// WriteValue writes v: its parameters, the VALUE parameter when a Choice
// does not select its default, then ":" and the slots.
func (l *ContentLine) WriteValue(v Value) error {
	sel := v.Selected()
	if sel.Kind == Choice {
		contractViolation("WriteValue: nested choice")
	}

	for _, p := range sel.Params {
		if err := l.Param(p); err != nil {
			return err
		}
	}
	if v.NeedsValueParam() {
		if err := l.Param(ParamValueType(sel.Type)); err != nil {
			return err
		}
	}

	var (
		vw  *ValueWriter
		err error
	)
	switch sel.Kind {
	case Single:
		if len(sel.Slots) != 1 {
			contractViolation("WriteValue: single value with %d slots", len(sel.Slots))
		}
		vw, err = l.ValueTupleWriter()
	case Tuple:
		vw, err = l.ValueTupleWriter()
	case List:
		vw, err = l.ValueListWriter()
	default:
		contractViolation("WriteValue: unknown kind %d", sel.Kind)
	}
	if err != nil {
		return err
	}

	for _, slot := range sel.Slots {
		var w io.Writer
		if sel.Raw {
			w, err = vw.NextRaw()
		} else {
			w, err = vw.Next()
		}
		if err != nil {
			return err
		}
		if err := slot(w); err != nil {
			return l.fail(sinkError(err))
		}
	}
	return nil
}
