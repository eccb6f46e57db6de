package ical

import "io"

// A LineStream writes a sequence of content lines to an io.Writer, one at
// a time. Each line is buffered until its EOL.
type LineStream struct {
	w      io.Writer
	open   *ContentLine
	closed bool
}

// NewLineStream returns a LineStream writing to w.
func NewLineStream(w io.Writer) *LineStream {
	return &LineStream{w: w}
}

func (s *LineStream) checkIdle(op string) {
	if s.closed {
		contractViolation("LineStream.%s: stream closed", op)
	}
	if s.open != nil && !s.open.Closed() {
		contractViolation("LineStream.%s: previous content line neither terminated nor abandoned", op)
	}
	s.open = nil
}

// ContentLine opens the next content line. The previous one must have been
// terminated with EOL or abandoned.
func (s *LineStream) ContentLine() *ContentLine {
	s.checkIdle("ContentLine")
	s.open = newBufferedLine(s.w)
	return s.open
}

// Line opens a content line, passes it to fn and checks that fn terminated
// it. When fn returns an error the line is abandoned and the error
// returned. Returning nil with the line still open panics.
func (s *LineStream) Line(fn func(l *ContentLine) error) error {
	l := s.ContentLine()
	if err := fn(l); err != nil {
		l.Abandon()
		return err
	}
	if !l.Closed() {
		contractViolation("LineStream.Line: content line not terminated")
	}
	return nil
}

// SimpleLine writes the line name:value with a TEXT value.
func (s *LineStream) SimpleLine(name, value string) error {
	return s.Line(func(l *ContentLine) error {
		if err := l.Name(name); err != nil {
			return err
		}
		if err := l.Value(value); err != nil {
			return err
		}
		return l.EOL()
	})
}

// Close checks that the last line was finished. It does not close the
// underlying writer.
func (s *LineStream) Close() error {
	s.checkIdle("Close")
	s.closed = true
	return nil
}

const (
	beginComponent = "BEGIN"
	endComponent   = "END"
)

// A Writer writes an iCalendar stream: components delimited by BEGIN and
// END lines, holding properties.
//
// Components nest. While a component is open only it, or a component opened
// inside it, may be written to, and it must be ended before its parent
// continues. Violations panic.
type Writer struct {
	ls    *LineStream
	stack []*ComponentWriter
	prop  *PropertyWriter
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{ls: NewLineStream(w)}
}

// check panics unless c is the innermost open component (nil for the top
// level) and no property is half-written.
func (w *Writer) check(op string, c *ComponentWriter) {
	var top *ComponentWriter
	if n := len(w.stack); n > 0 {
		top = w.stack[n-1]
	}
	if top != c {
		if top != nil {
			contractViolation("%s: component %s is still open", op, top.name)
		}
		contractViolation("%s: component %s already ended", op, c.name)
	}
	if w.prop != nil && !w.prop.line.Closed() {
		contractViolation("%s: property %s neither ended nor abandoned", op, w.prop.def.Name)
	}
	w.prop = nil
}

func (w *Writer) begin(op string, parent *ComponentWriter, name string) (*ComponentWriter, error) {
	w.check(op, parent)
	if err := w.ls.SimpleLine(beginComponent, name); err != nil {
		return nil, err
	}
	c := &ComponentWriter{w: w, name: name}
	w.stack = append(w.stack, c)
	return c, nil
}

func (w *Writer) property(op string, parent *ComponentWriter, def PropertyDef) (*PropertyWriter, error) {
	w.check(op, parent)
	l := w.ls.ContentLine()
	if err := l.Name(def.Name); err != nil {
		return nil, err
	}
	w.prop = &PropertyWriter{line: l, def: def}
	return w.prop, nil
}

func (w *Writer) simpleProperty(op string, parent *ComponentWriter, def PropertyDef, v Value, params []Param) error {
	p, err := w.property(op, parent, def)
	if err != nil {
		return err
	}
	if err := p.Param(params...); err != nil {
		return err
	}
	if err := p.Value(v); err != nil {
		return err
	}
	return p.End()
}

// Component writes BEGIN:name and returns a writer for the component.
func (w *Writer) Component(name string) (*ComponentWriter, error) {
	return w.begin("Writer.Component", nil, name)
}

// Property starts the property def at the top level of the stream.
func (w *Writer) Property(def PropertyDef) (*PropertyWriter, error) {
	return w.property("Writer.Property", nil, def)
}

// SimpleProperty writes the property def with params and value v.
func (w *Writer) SimpleProperty(def PropertyDef, v Value, params ...Param) error {
	return w.simpleProperty("Writer.SimpleProperty", nil, def, v, params)
}

// Close checks that every component has been ended. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	w.check("Writer.Close", nil)
	return w.ls.Close()
}

// A ComponentWriter writes the content of one component. End must be
// called once the component is complete.
type ComponentWriter struct {
	w    *Writer
	name string
}

// Name returns the component name, such as VEVENT.
func (c *ComponentWriter) Name() string { return c.name }

// Component opens a component nested in c.
func (c *ComponentWriter) Component(name string) (*ComponentWriter, error) {
	return c.w.begin("ComponentWriter.Component", c, name)
}

// Property starts the property def in c.
func (c *ComponentWriter) Property(def PropertyDef) (*PropertyWriter, error) {
	return c.w.property("ComponentWriter.Property", c, def)
}

// SimpleProperty writes the property def with params and value v in c.
func (c *ComponentWriter) SimpleProperty(def PropertyDef, v Value, params ...Param) error {
	return c.w.simpleProperty("ComponentWriter.SimpleProperty", c, def, v, params)
}

// End writes END:name.
func (c *ComponentWriter) End() error {
	c.w.check("ComponentWriter.End", c)
	c.w.stack = c.w.stack[:len(c.w.stack)-1]
	return c.w.ls.SimpleLine(endComponent, c.name)
}

// A PropertyWriter writes one property: parameters, the value, then End.
// A method returning an error abandons the property.
type PropertyWriter struct {
	line *ContentLine
	def  PropertyDef
}

// Param writes params.
func (p *PropertyWriter) Param(params ...Param) error {
	for _, pp := range params {
		if err := p.line.Param(pp); err != nil {
			return err
		}
	}
	return nil
}

// Value writes v. A value whose type is not the property's default type is
// written as a choice, announcing its type with the VALUE parameter.
func (p *PropertyWriter) Value(v Value) error {
	if v.Kind != Choice && p.def.Default != "" {
		v = ChoiceValue(p.def.Default, v)
	}
	return p.line.WriteValue(v)
}

// End terminates the property's content line.
func (p *PropertyWriter) End() error {
	return p.line.EOL()
}

// Abandon drops the property. Nothing of it is written.
func (p *PropertyWriter) Abandon() {
	p.line.Abandon()
}
