package xmlstream

import "bytes"

// Event represents a single lexical XML unit:
//
// * Declaration: <?xml version="1.0" encoding="UTF-8"?>
// * StartTag: <foo> with optional attributes
// * EmptyTag: <foo /> self-closing
// * EndTag: </foo>
// * Text: any run of bytes outside angle brackets
// * CData: <![CDATA[ ... ]]>
// * Comment: <!-- ... -->
// * ProcInst: <?target ...?>
// * DocType: <!DOCTYPE ...>
// * EOF: terminal, returned forever once the input is exhausted
//
// Byte-bearing events hold raw, undecoded slices into the Reader's buffer.
// They are only valid until the next ReadEvent call; use Copy (or
// ReadEventInto) when an event must outlive the advance that produced it.
type Event interface {
	event()

	// Copy the event into a new instance with owned payload bytes.
	//
	// Event instances are reused by the reading process, this makes a copy
	// for the case when the event value must be stored, and for testing!
	Copy() Event
}

// Declaration is the <?xml ...?> prologue token. Raw holds the undecoded
// pseudo-attributes after the "xml" target, e.g. `version="1.0"
// encoding="UTF-8"`.
type Declaration struct {
	Raw []byte
}

func (*Declaration) event() {}

func (e *Declaration) Copy() Event {
	return &Declaration{copyBytes(e.Raw)}
}

// Version returns the raw value of the version pseudo-attribute.
func (e *Declaration) Version() ([]byte, bool) {
	return e.attr("version")
}

// Encoding returns the raw value of the encoding pseudo-attribute.
func (e *Declaration) Encoding() ([]byte, bool) {
	return e.attr("encoding")
}

// Standalone returns the raw value of the standalone pseudo-attribute.
func (e *Declaration) Standalone() ([]byte, bool) {
	return e.attr("standalone")
}

func (e *Declaration) attr(name string) ([]byte, bool) {
	rest := e.Raw
	for len(rest) > 0 {
		var a Attr
		var err error
		a, rest, err = scanAttr(rest)
		if err != nil {
			return nil, false
		}
		if string(a.Name) == name {
			return a.Value, true
		}
	}
	return nil, false
}

// StartTag is an opening XML tag <tag attr="value">. Attrs holds the raw
// byte span after the name; parse it with Attributes.
type StartTag struct {
	Name  []byte
	Attrs []byte
}

func (*StartTag) event() {}

func (e *StartTag) Copy() Event {
	return &StartTag{copyBytes(e.Name), copyBytes(e.Attrs)}
}

// Attributes parses the raw attribute span into Attr values. The returned
// slices alias the event's bytes.
func (e *StartTag) Attributes() ([]Attr, error) {
	return scanAttrs(e.Attrs)
}

// EmptyTag is a self-closing XML tag <tag attr="value"/>.
type EmptyTag struct {
	Name  []byte
	Attrs []byte
}

func (*EmptyTag) event() {}

func (e *EmptyTag) Copy() Event {
	return &EmptyTag{copyBytes(e.Name), copyBytes(e.Attrs)}
}

// Attributes parses the raw attribute span into Attr values.
func (e *EmptyTag) Attributes() ([]Attr, error) {
	return scanAttrs(e.Attrs)
}

// EndTag is a closing XML tag </tag>.
type EndTag struct {
	Name []byte
}

func (*EndTag) event() {}

func (e *EndTag) Copy() Event {
	return &EndTag{copyBytes(e.Name)}
}

// Text contains a text node, verbatim unless the Reader trims whitespace.
type Text struct {
	Raw []byte
}

func (*Text) event() {}

func (e *Text) Copy() Event {
	return &Text{copyBytes(e.Raw)}
}

// CData contains the bytes between <![CDATA[ and ]]>.
type CData struct {
	Raw []byte
}

func (*CData) event() {}

func (e *CData) Copy() Event {
	return &CData{copyBytes(e.Raw)}
}

// Comment contains the bytes between <!-- and -->.
type Comment struct {
	Raw []byte
}

func (*Comment) event() {}

func (e *Comment) Copy() Event {
	return &Comment{copyBytes(e.Raw)}
}

// ProcInst is a processing instruction <?target content?>. Raw holds the
// target and content.
type ProcInst struct {
	Raw []byte
}

func (*ProcInst) event() {}

func (e *ProcInst) Copy() Event {
	return &ProcInst{copyBytes(e.Raw)}
}

// Target returns the instruction target, the first whitespace-delimited
// word of Raw.
func (e *ProcInst) Target() []byte {
	if i := bytes.IndexAny(e.Raw, " \t\r\n"); i >= 0 {
		return e.Raw[:i]
	}
	return e.Raw
}

// DocType contains the bytes of a <!DOCTYPE ...> directive without the
// surrounding markers.
type DocType struct {
	Raw []byte
}

func (*DocType) event() {}

func (e *DocType) Copy() Event {
	return &DocType{copyBytes(e.Raw)}
}

// EOF marks the end of the document. Every ReadEvent after the first EOF
// returns EOF again.
type EOF struct{}

func (*EOF) event() {}

func (e *EOF) Copy() Event {
	c := *e
	return &c
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
