package ical

import (
	"bytes"
	"io"
)

type lineState int

const (
	stateInitial lineState = iota
	stateAfterName
	stateAfterParamName
	stateAfterParamValue
	stateValue
	stateClosed
)

var lineStateNames = [...]string{
	stateInitial:         "Initial",
	stateAfterName:       "AfterName",
	stateAfterParamName:  "AfterParamName",
	stateAfterParamValue: "AfterParamValue",
	stateValue:           "Value",
	stateClosed:          "Closed",
}

func (s lineState) String() string { return lineStateNames[s] }

// A ContentLine writes a single content line:
//
//	contentline = name *(";" param) ":" value CRLF
//	param       = param-name "=" param-value *("," param-value)
//
// Its methods must be called in that order: the name, then any number of
// parameters, each followed by one or more values, then the value, then
// EOL. Calling a method out of order panics, as does leaving a
// QuotedStringWriter open when moving on.
//
// A method that returns an error abandons the line: nothing more may be
// written to it. Lines opened by a LineStream are buffered and only reach
// the underlying writer on EOL, so an abandoned line leaves no trace.
//
// Writers returned for a field are only valid until the line moves on to
// the next field. Using one after that panics.
type ContentLine struct {
	fw     *FoldingWriter
	state  lineState
	field  int // bumped every time a field writer is handed out
	quoted *QuotedStringWriter

	buf       *bytes.Buffer // non-nil when buffered by a LineStream
	sink      io.Writer
	abandoned bool
}

// NewContentLine returns a content line writing straight to w.
func NewContentLine(w io.Writer) *ContentLine {
	return &ContentLine{fw: NewFoldingWriter(w)}
}

func newBufferedLine(sink io.Writer) *ContentLine {
	buf := new(bytes.Buffer)
	return &ContentLine{fw: NewFoldingWriter(buf), buf: buf, sink: sink}
}

// A fieldWriter passes writes on to the line's folding writer as long as
// the line is still on the field it was handed out for.
type fieldWriter struct {
	line  *ContentLine
	op    string
	field int
}

// issue returns a writer for the field the line has just moved to.
func (l *ContentLine) issue(op string) *fieldWriter {
	l.field++
	return &fieldWriter{line: l, op: op, field: l.field}
}

func (w *fieldWriter) check() {
	if w.line.state == stateClosed {
		contractViolation("%s: line already closed", w.op)
	}
	if w.line.field != w.field {
		contractViolation("%s: line has moved on to another field", w.op)
	}
}

func (w *fieldWriter) Write(p []byte) (int, error) {
	w.check()
	return w.line.fw.Write(p)
}

func (w *fieldWriter) WriteString(s string) (int, error) {
	w.check()
	return w.line.fw.WriteString(s)
}

// expect panics unless the line is in one of states, and a previously
// returned QuotedStringWriter has been closed.
func (l *ContentLine) expect(op string, states ...lineState) {
	for _, s := range states {
		if l.state == s {
			if l.quoted != nil && !l.quoted.Closed() {
				contractViolation("ContentLine.%s: quoted parameter value not closed", op)
			}
			l.quoted = nil
			return
		}
	}
	if l.state == stateClosed {
		contractViolation("ContentLine.%s: line already closed", op)
	}
	contractViolation("ContentLine.%s: not allowed in state %s", op, l.state)
}

// fail abandons the line when err is not nil.
func (l *ContentLine) fail(err error) error {
	if err != nil {
		l.Abandon()
	}
	return err
}

func (l *ContentLine) punct(s string) error {
	_, err := l.fw.WriteString(s)
	return err
}

// NameWriter returns a writer for the property name.
func (l *ContentLine) NameWriter() *NameWriter {
	l.expect("NameWriter", stateInitial)
	l.state = stateAfterName
	return NewNameWriter(l.issue("NameWriter"))
}

// Name writes the property name, which must not be empty.
func (l *ContentLine) Name(name string) error {
	w := l.NameWriter()
	if name == "" {
		return l.fail(emptyToken("name"))
	}
	_, err := w.WriteString(name)
	return l.fail(err)
}

// ParamNameWriter starts a parameter and returns a writer for its name.
func (l *ContentLine) ParamNameWriter() (*NameWriter, error) {
	l.expect("ParamNameWriter", stateAfterName, stateAfterParamValue)
	l.state = stateAfterParamName
	if err := l.punct(";"); err != nil {
		return nil, l.fail(err)
	}
	return NewNameWriter(l.issue("ParamNameWriter")), nil
}

// ParamName starts a parameter called name, which must not be empty.
func (l *ContentLine) ParamName(name string) error {
	w, err := l.ParamNameWriter()
	if err != nil {
		return err
	}
	if name == "" {
		return l.fail(emptyToken("param-name"))
	}
	_, err = w.WriteString(name)
	return l.fail(err)
}

// toParamValue writes "=" before the first value of a parameter and ","
// before each one after that.
func (l *ContentLine) toParamValue(op string) error {
	l.expect(op, stateAfterParamName, stateAfterParamValue)
	sep := ","
	if l.state == stateAfterParamName {
		sep = "="
	}
	l.state = stateAfterParamValue
	return l.fail(l.punct(sep))
}

// ParamValueUnquotedWriter returns a writer for the next value of the
// current parameter, written as paramtext.
func (l *ContentLine) ParamValueUnquotedWriter() (*ParamtextWriter, error) {
	if err := l.toParamValue("ParamValueUnquotedWriter"); err != nil {
		return nil, err
	}
	return NewParamtextWriter(l.issue("ParamtextWriter")), nil
}

// ParamValueQuotedWriter returns a writer for the next value of the current
// parameter, written as a quoted-string. It must be closed before anything
// else is written to the line.
func (l *ContentLine) ParamValueQuotedWriter() (*QuotedStringWriter, error) {
	if err := l.toParamValue("ParamValueQuotedWriter"); err != nil {
		return nil, err
	}
	q, err := NewQuotedStringWriter(l.issue("QuotedStringWriter"))
	if err != nil {
		return nil, l.fail(err)
	}
	l.quoted = q
	return q, nil
}

// ParamValueUnquoted adds value to the current parameter as paramtext.
func (l *ContentLine) ParamValueUnquoted(value string) error {
	w, err := l.ParamValueUnquotedWriter()
	if err != nil {
		return err
	}
	_, err = w.WriteString(value)
	return l.fail(err)
}

// ParamValueQuoted adds value to the current parameter as a quoted-string.
func (l *ContentLine) ParamValueQuoted(value string) error {
	w, err := l.ParamValueQuotedWriter()
	if err != nil {
		return err
	}
	if _, err := w.WriteString(value); err != nil {
		return l.fail(err)
	}
	return l.fail(w.Close())
}

// ParamUnquoted writes a parameter with a single paramtext value.
func (l *ContentLine) ParamUnquoted(name, value string) error {
	if err := l.ParamName(name); err != nil {
		return err
	}
	return l.ParamValueUnquoted(value)
}

// ParamQuoted writes a parameter with a single quoted-string value.
func (l *ContentLine) ParamQuoted(name, value string) error {
	if err := l.ParamName(name); err != nil {
		return err
	}
	return l.ParamValueQuoted(value)
}

// Param writes p with all of its values.
func (l *ContentLine) Param(p Param) error {
	if len(p.Values) == 0 {
		contractViolation("ContentLine.Param: parameter %s has no values", p.Name)
	}
	if err := l.ParamName(p.Name); err != nil {
		return err
	}
	for _, v := range p.Values {
		var err error
		if v.Quoted {
			err = l.ParamValueQuoted(v.Text)
		} else {
			err = l.ParamValueUnquoted(v.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *ContentLine) beginValue(op, sep string) (*ValueWriter, error) {
	l.expect(op, stateAfterName, stateAfterParamValue)
	l.state = stateValue
	if err := l.punct(":"); err != nil {
		return nil, l.fail(err)
	}
	return &ValueWriter{line: l, sep: sep, first: true}, nil
}

// ValueTupleWriter writes the ":" that starts the value and returns a
// writer for semicolon-separated value slots.
func (l *ContentLine) ValueTupleWriter() (*ValueWriter, error) {
	return l.beginValue("ValueTupleWriter", ";")
}

// ValueListWriter writes the ":" that starts the value and returns a
// writer for comma-separated value slots.
func (l *ContentLine) ValueListWriter() (*ValueWriter, error) {
	return l.beginValue("ValueListWriter", ",")
}

// Value writes value as the single, TEXT-escaped value slot.
func (l *ContentLine) Value(value string) error {
	vw, err := l.ValueTupleWriter()
	if err != nil {
		return err
	}
	w, err := vw.Next()
	if err != nil {
		return err
	}
	_, err = w.WriteString(value)
	return l.fail(err)
}

// EOL terminates the line. A buffered line is passed on to the underlying
// writer in one piece.
func (l *ContentLine) EOL() error {
	l.expect("EOL", stateValue)
	l.state = stateClosed
	l.field++
	if err := l.fw.EOL(); err != nil {
		l.abandoned = true
		return err
	}
	if l.buf != nil {
		_, err := l.buf.WriteTo(l.sink)
		return sinkError(err)
	}
	return nil
}

// Abandon closes the line without terminating it. The line's content is
// dropped if it is buffered. Writers handed out for the line panic from
// then on.
func (l *ContentLine) Abandon() {
	if l.state == stateClosed {
		return
	}
	l.state = stateClosed
	l.field++
	l.abandoned = true
	l.fw.closed = true
	if l.buf != nil {
		l.buf.Reset()
	}
}

// Closed reports whether the line has been terminated or abandoned.
func (l *ContentLine) Closed() bool { return l.state == stateClosed }

// A ValueWriter hands out writers for consecutive value slots, writing the
// separator between them.
type ValueWriter struct {
	line  *ContentLine
	sep   string
	first bool
}

func (v *ValueWriter) next() error {
	if v.line.state != stateValue {
		contractViolation("ValueWriter: line no longer accepts values")
	}
	if v.first {
		v.first = false
		return nil
	}
	return v.line.fail(v.line.punct(v.sep))
}

// Next returns a TEXT-escaping writer for the next slot.
func (v *ValueWriter) Next() (*TextWriter, error) {
	if err := v.next(); err != nil {
		return nil, err
	}
	return NewTextWriter(v.line.issue("TextWriter")), nil
}

// NextRaw returns a writer for the next slot that does not escape. It is
// meant for structured values such as RECUR whose slots contain ";", "," or
// "=" by design. Control characters are still rejected.
func (v *ValueWriter) NextRaw() (io.Writer, error) {
	if err := v.next(); err != nil {
		return nil, err
	}
	return v.line.issue("ValueWriter.NextRaw"), nil
}
