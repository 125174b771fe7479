// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xmlstream

import (
	"bytes"
	"fmt"
	"io"
)

type parseError string

// Error implements error interface, returns itself since it's already a string.
func (err parseError) Error() string {
	return string(err)
}

const (
	// ErrUnterminatedTag is thrown when the input ends inside a start, empty
	// or end tag.
	ErrUnterminatedTag parseError = "unterminated tag"

	// ErrUnterminatedComment is thrown when a comment is not closed by "-->".
	ErrUnterminatedComment parseError = "unterminated comment"

	// ErrUnterminatedCData is thrown when a CDATA section is not closed by "]]>".
	ErrUnterminatedCData parseError = "unterminated CDATA section"

	// ErrUnterminatedPI is thrown when a processing instruction or XML
	// declaration is not closed by "?>".
	ErrUnterminatedPI parseError = "unterminated processing instruction"

	// ErrUnterminatedDocType is thrown when a doctype is not closed by '>'.
	ErrUnterminatedDocType parseError = "unterminated doctype"

	// ErrInvalidDirective is thrown for "<!" markup that is neither a
	// comment, a CDATA section, nor a doctype.
	ErrInvalidDirective parseError = "invalid '<!' directive"

	// ErrEmptyTag is thrown for tags with no name, like <> or </>.
	ErrEmptyTag parseError = "empty tag name"
)

type readerState uint8

const (
	// stateInitial: BOM and encoding detection run on the first advance.
	stateInitial readerState = iota
	// stateScanning: steady-state token dispatch.
	stateScanning
	// stateEOF: terminal, every advance returns EOF.
	stateEOF
	// stateFailed: terminal, every advance returns the same error.
	stateFailed
)

const chunkSize = 4096

// Reader pulls lexical XML events out of a byte stream. It owns the buffer
// and the Decoder; events it returns borrow from that buffer and stay valid
// only until the next ReadEvent call.
//
// A Reader mutates on every advance and is not safe for concurrent use.
type Reader struct {
	// TrimText elides Text events that consist only of whitespace and trims
	// leading and trailing whitespace from the rest. Disabled by default:
	// whitespace is preserved verbatim.
	TrimText bool

	src    io.Reader // nil for in-memory sources
	srcEOF bool
	buf    []byte
	pos    int
	done   int64 // bytes discarded from the front of buf

	state    readerState
	err      error
	dec      Decoder
	declSeen bool
	pinned   bool // text origin, the decoder never leaves UTF-8

	// Reusable event instances. Returning the same pointer on every advance
	// avoids an allocation per event for medium to large documents; callers
	// that keep events across advances must Copy them.
	declBuf    Declaration
	startBuf   StartTag
	emptyBuf   EmptyTag
	endBuf     EndTag
	textBuf    Text
	cdataBuf   CData
	commentBuf Comment
	procBuf    ProcInst
	docTypeBuf DocType
	eofBuf     EOF
}

// NewReader instantiates a Reader over an incremental byte source. The
// Reader buffers as many bytes as the current token needs; when a token
// spans the buffered window the calling goroutine blocks on a read from src
// until more bytes arrive or src reports io.EOF.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src: src,
		buf: make([]byte, 0, chunkSize),
		dec: Decoder{enc: UTF8},
	}
}

// NewReaderFromBytes instantiates a Reader over a complete in-memory
// document. Scanning is zero-copy: events slice directly into b. The caller
// must not modify b while reading.
func NewReaderFromBytes(b []byte) *Reader {
	return &Reader{
		buf:    b,
		srcEOF: true,
		dec:    Decoder{enc: UTF8},
	}
}

// NewReaderFromString instantiates a Reader over already-decoded text. The
// decoder is pinned to UTF-8 for the Reader's entire lifetime: a leading
// U+FEFF is stripped, and declared encoding labels are recorded in the
// Declaration event but never change the decoder.
func NewReaderFromString(s string) *Reader {
	return &Reader{
		buf:    []byte(s),
		srcEOF: true,
		pinned: true,
		dec:    Decoder{enc: UTF8},
	}
}

// Decoder returns the reader's decoder. Its encoding reflects BOM detection
// after the first advance and the one-time declaration override after the
// declaration event has been returned.
func (r *Reader) Decoder() *Decoder {
	return &r.dec
}

// Offset returns the absolute byte position of the scanner: the number of
// source bytes consumed by the events returned so far.
func (r *Reader) Offset() int64 {
	return r.done + int64(r.pos)
}

// ReadEvent returns the next lexical event.
//
// The event is meant to be processed BEFORE the next ReadEvent call.
// Contents of previous events can be overwritten at any time after that.
// Once the input is exhausted every call returns EOF; once a parse error
// occurred every call returns that same error.
func (r *Reader) ReadEvent() (Event, error) {
	switch r.state {
	case stateFailed:
		return nil, r.err
	case stateEOF:
		return &r.eofBuf, nil
	case stateInitial:
		if err := r.init(); err != nil {
			return nil, r.fail(err)
		}
	}
	ev, err := r.next()
	if err != nil {
		return nil, r.fail(err)
	}
	return ev, nil
}

// ReadEventInto reads the next event and copies its payload bytes into the
// caller-owned buffer, so the event stays valid across later advances. The
// buffer is not reset; the caller controls when to reclaim it.
func (r *Reader) ReadEventInto(buf *bytes.Buffer) (Event, error) {
	ev, err := r.ReadEvent()
	if err != nil {
		return nil, err
	}
	return captureEvent(ev, buf), nil
}

// Decode transcodes the byte payload of an event through the active
// decoder: the text of Text, CData, Comment, ProcInst, DocType and
// Declaration events, and the name of tag events. Calling it twice on the
// same event without an intervening encoding switch returns identical text.
func (r *Reader) Decode(e Event) (string, error) {
	switch ev := e.(type) {
	case *Text:
		return r.dec.Decode(ev.Raw)
	case *CData:
		return r.dec.Decode(ev.Raw)
	case *Comment:
		return r.dec.Decode(ev.Raw)
	case *ProcInst:
		return r.dec.Decode(ev.Raw)
	case *DocType:
		return r.dec.Decode(ev.Raw)
	case *Declaration:
		return r.dec.Decode(ev.Raw)
	case *StartTag:
		return r.dec.Decode(ev.Name)
	case *EmptyTag:
		return r.dec.Decode(ev.Name)
	case *EndTag:
		return r.dec.Decode(ev.Name)
	}
	return "", fmt.Errorf("no bytes to decode in %T event", e)
}

// fail records a fatal error. The reader stays in stateFailed and returns
// the same error from every further advance.
func (r *Reader) fail(err error) error {
	r.state = stateFailed
	r.err = fmt.Errorf("%w at offset %d", err, r.Offset())
	return r.err
}

// init runs once, before the first token: it detects a byte-order mark,
// consumes it, and switches the decoder to the detected encoding. Text
// origins only ever strip a UTF-8 encoded U+FEFF.
func (r *Reader) init() error {
	r.state = stateScanning
	if err := r.fill(3); err != nil {
		return err
	}
	enc, n := DetectEncoding(r.buf[r.pos:])
	if enc == nil {
		return nil
	}
	if r.pinned {
		// Decoded text can only carry the UTF-8 form of the BOM character.
		if enc == UTF8 {
			r.pos += n
		}
		return nil
	}
	r.dec.enc = enc
	r.pos += n
	return nil
}

func (r *Reader) next() (Event, error) {
	r.compact()
	for {
		if err := r.fill(1); err != nil {
			return nil, err
		}
		if r.pos == len(r.buf) {
			r.state = stateEOF
			return &r.eofBuf, nil
		}
		if r.buf[r.pos] != '<' {
			ev, err := r.text()
			if err != nil || ev != nil {
				return ev, err
			}
			// whitespace-only text elided by TrimText, keep going
			continue
		}
		return r.markup()
	}
}

// compact drops consumed bytes from the front of the owned buffer so it
// does not grow with the document. This is what invalidates events from the
// previous advance on incremental sources.
func (r *Reader) compact() {
	if r.src == nil || r.pos == 0 {
		return
	}
	r.done += int64(r.pos)
	r.buf = r.buf[:copy(r.buf, r.buf[r.pos:])]
	r.pos = 0
}

// text consumes a run of bytes up to the next '<' or end of input. It
// returns (nil, nil) when trimming elided the event.
func (r *Reader) text() (Event, error) {
	start := r.pos
	i := r.pos
	for {
		if j := bytes.IndexByte(r.buf[i:], '<'); j >= 0 {
			i += j
			break
		}
		i = len(r.buf)
		if r.srcEOF {
			break
		}
		if err := r.refill(); err != nil {
			return nil, err
		}
	}
	raw := r.buf[start:i]
	r.pos = i
	if r.TrimText {
		raw = bytes.Trim(raw, " \t\r\n")
		if len(raw) == 0 {
			return nil, nil
		}
	}
	r.textBuf.Raw = raw
	return &r.textBuf, nil
}

// markup dispatches on the byte after '<'.
func (r *Reader) markup() (Event, error) {
	if err := r.fill(2); err != nil {
		return nil, err
	}
	if r.pos+1 >= len(r.buf) {
		return nil, ErrUnterminatedTag
	}
	switch r.buf[r.pos+1] {
	case '!':
		return r.bang()
	case '?':
		return r.piOrDeclaration()
	case '/':
		return r.endTag()
	}
	return r.element()
}

// element consumes <name ...> or <name .../>. The scan tracks quote state
// so '>' inside an attribute value does not terminate the tag.
func (r *Reader) element() (Event, error) {
	i := r.pos + 1
	var quote byte
scan:
	for {
		for ; i < len(r.buf); i++ {
			c := r.buf[i]
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '"' || c == '\'':
				quote = c
			case c == '>':
				break scan
			}
		}
		if r.srcEOF {
			return nil, ErrUnterminatedTag
		}
		if err := r.refill(); err != nil {
			return nil, err
		}
	}
	content := r.buf[r.pos+1 : i]
	r.pos = i + 1

	empty := false
	if n := len(content); n > 0 && content[n-1] == '/' {
		empty = true
		content = content[:n-1]
	}
	name, attrs := splitTag(content)
	if len(name) == 0 {
		return nil, ErrEmptyTag
	}
	if empty {
		r.emptyBuf.Name = name
		r.emptyBuf.Attrs = attrs
		return &r.emptyBuf, nil
	}
	r.startBuf.Name = name
	r.startBuf.Attrs = attrs
	return &r.startBuf, nil
}

// endTag consumes </name>. Whitespace around the name is allowed.
func (r *Reader) endTag() (Event, error) {
	i, err := r.indexFrom(r.pos+2, []byte(">"))
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, ErrUnterminatedTag
	}
	name := bytes.Trim(r.buf[r.pos+2:i], " \t\r\n")
	r.pos = i + 1
	if len(name) == 0 {
		return nil, ErrEmptyTag
	}
	r.endBuf.Name = name
	return &r.endBuf, nil
}

// piOrDeclaration consumes <?...?>. The reserved target "xml" makes it an
// XML declaration; the first declaration of a byte-origin document may
// switch the decoder, exactly once.
func (r *Reader) piOrDeclaration() (Event, error) {
	i, err := r.indexFrom(r.pos+2, []byte("?>"))
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, ErrUnterminatedPI
	}
	content := r.buf[r.pos+2 : i]
	r.pos = i + 2

	if len(content) >= 3 && asciiEqualFold(content[:3], "xml") &&
		(len(content) == 3 || isSpace(content[3])) {
		r.declBuf.Raw = content[skipSpace(content, 3):]
		r.applyDeclaration(&r.declBuf)
		return &r.declBuf, nil
	}
	r.procBuf.Raw = content
	return &r.procBuf, nil
}

// applyDeclaration implements the one-time encoding override. The first
// declaration consumes the override whether or not its label resolves; an
// unrecognized label keeps the previous decoder and parsing continues.
func (r *Reader) applyDeclaration(d *Declaration) {
	if r.pinned || r.declSeen {
		return
	}
	r.declSeen = true
	label, ok := d.Encoding()
	if !ok {
		return
	}
	if enc, ok := EncodingByLabel(string(label)); ok {
		r.dec.enc = enc
	}
}

// bang consumes comments, CDATA sections and doctypes.
func (r *Reader) bang() (Event, error) {
	// "<![CDATA[" and "<!DOCTYPE" are the longest introducers.
	if err := r.fill(9); err != nil {
		return nil, err
	}
	rest := r.buf[r.pos+2:]
	switch {
	case bytes.HasPrefix(rest, []byte("--")):
		return r.comment()
	case bytes.HasPrefix(rest, []byte("[CDATA[")):
		return r.cdata()
	case len(rest) >= 7 && asciiEqualFold(rest[:7], "doctype"):
		return r.docType()
	}
	return nil, ErrInvalidDirective
}

func (r *Reader) comment() (Event, error) {
	i, err := r.indexFrom(r.pos+4, []byte("-->"))
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, ErrUnterminatedComment
	}
	r.commentBuf.Raw = r.buf[r.pos+4 : i]
	r.pos = i + 3
	return &r.commentBuf, nil
}

func (r *Reader) cdata() (Event, error) {
	i, err := r.indexFrom(r.pos+9, []byte("]]>"))
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, ErrUnterminatedCData
	}
	r.cdataBuf.Raw = r.buf[r.pos+9 : i]
	r.pos = i + 3
	return &r.cdataBuf, nil
}

// docType consumes <!DOCTYPE ...>, skipping over a bracketed internal
// subset, which may itself contain '>'.
func (r *Reader) docType() (Event, error) {
	i := r.pos + 9
	depth := 0
scan:
	for {
		for ; i < len(r.buf); i++ {
			switch r.buf[i] {
			case '[':
				depth++
			case ']':
				if depth > 0 {
					depth--
				}
			case '>':
				if depth == 0 {
					break scan
				}
			}
		}
		if r.srcEOF {
			return nil, ErrUnterminatedDocType
		}
		if err := r.refill(); err != nil {
			return nil, err
		}
	}
	r.docTypeBuf.Raw = r.buf[skipSpace(r.buf[:i], r.pos+9):i]
	r.pos = i + 1
	return &r.docTypeBuf, nil
}

// fill buffers until at least min unscanned bytes are available or the
// source is exhausted.
func (r *Reader) fill(min int) error {
	for len(r.buf)-r.pos < min && !r.srcEOF {
		if err := r.refill(); err != nil {
			return err
		}
	}
	return nil
}

// refill blocks on one read from the source. Growing the buffer never moves
// the scan position, so indexes held across a refill stay valid.
func (r *Reader) refill() error {
	if r.src == nil {
		r.srcEOF = true
		return nil
	}
	if cap(r.buf)-len(r.buf) < chunkSize/4 {
		grown := make([]byte, len(r.buf), cap(r.buf)+chunkSize)
		copy(grown, r.buf)
		r.buf = grown
	}
	n, err := r.src.Read(r.buf[len(r.buf):cap(r.buf)])
	r.buf = r.buf[:len(r.buf)+n]
	if err == io.EOF {
		r.srcEOF = true
		return nil
	}
	return err
}

// indexFrom finds sep at or after start, refilling as needed. It returns
// the absolute index in the buffer, or -1 when the source is exhausted
// without a match.
func (r *Reader) indexFrom(start int, sep []byte) (int, error) {
	from := start
	for {
		if i := bytes.Index(r.buf[from:], sep); i >= 0 {
			return from + i, nil
		}
		if r.srcEOF {
			return -1, nil
		}
		// a partial match may straddle the refill boundary
		if f := len(r.buf) - len(sep) + 1; f > from {
			from = f
		}
		if err := r.refill(); err != nil {
			return 0, err
		}
	}
}

// splitTag separates a tag's content into its name and the raw attribute
// span following it.
func splitTag(content []byte) (name, attrs []byte) {
	i := skipSpace(content, 0)
	start := i
	for i < len(content) && !isSpace(content[i]) {
		i++
	}
	return content[start:i], content[i:]
}

// captureEvent rebuilds ev with payloads appended to buf so the copy
// survives later advances.
func captureEvent(ev Event, buf *bytes.Buffer) Event {
	app := func(b []byte) []byte {
		if b == nil {
			return nil
		}
		n := buf.Len()
		buf.Write(b)
		return buf.Bytes()[n : n+len(b)]
	}
	switch ev := ev.(type) {
	case *Declaration:
		return &Declaration{app(ev.Raw)}
	case *StartTag:
		return &StartTag{app(ev.Name), app(ev.Attrs)}
	case *EmptyTag:
		return &EmptyTag{app(ev.Name), app(ev.Attrs)}
	case *EndTag:
		return &EndTag{app(ev.Name)}
	case *Text:
		return &Text{app(ev.Raw)}
	case *CData:
		return &CData{app(ev.Raw)}
	case *Comment:
		return &Comment{app(ev.Raw)}
	case *ProcInst:
		return &ProcInst{app(ev.Raw)}
	case *DocType:
		return &DocType{app(ev.Raw)}
	}
	return ev
}

func asciiEqualFold(b []byte, lower string) bool {
	if len(b) != len(lower) {
		return false
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}
