package feeds

import (
	"encoding/xml"
	"fmt"
	"io"
)

const maxEntityName = 32

var (
	cdataOpen  = []byte("<![CDATA[")
	cdataClose = []byte("]]>")
)

// entityReader rewrites the HTML named entities common in feeds, such as
// &nbsp; and &eacute;, into numeric references and escapes bare ampersands.
// This lets the strict XML parser accept real world feeds while unknown
// entities and broken markup still fail. CDATA sections pass through
// untouched.
//
// It works on raw bytes before any charset conversion, so the document
// encoding must be ASCII compatible.
type entityReader struct {
	r   io.Reader
	buf []byte
	out []byte
	err error

	// Collected bytes of the entity being read, starting with '&'
	entity  []byte
	inGroup bool
	cdata   bool
	// Length of the CDATA open or close marker matched so far
	match int
}

func newEntityReader(r io.Reader) *entityReader {
	return &entityReader{r: r, buf: make([]byte, 4096)}
}

func (e *entityReader) Read(p []byte) (int, error) {
	for len(e.out) == 0 {
		if e.err != nil {
			return 0, e.err
		}
		n, err := e.r.Read(e.buf)
		for _, b := range e.buf[:n] {
			e.translate(b)
		}
		if err != nil {
			// A document cut off inside an entity keeps its raw bytes
			e.out = append(e.out, e.entity...)
			e.entity = nil
			e.inGroup = false
			e.err = err
		}
	}

	n := copy(p, e.out)
	e.out = e.out[n:]
	return n, nil
}

func (e *entityReader) translate(b byte) {
	if e.cdata {
		e.out = append(e.out, b)
		e.matchClose(b)
		return
	}

	if e.inGroup {
		switch {
		case b == ';':
			e.out = append(e.out, resolveEntity(string(e.entity[1:]))...)
			e.entity = e.entity[:0]
			e.inGroup = false
			return
		case isNameByte(b) && len(e.entity) < maxEntityName:
			e.entity = append(e.entity, b)
			return
		default:
			// Not an entity after all, the ampersand was meant literally
			e.out = append(e.out, "&amp;"...)
			e.out = append(e.out, e.entity[1:]...)
			e.entity = e.entity[:0]
			e.inGroup = false
		}
	}

	if b == '&' {
		e.entity = append(e.entity[:0], b)
		e.inGroup = true
		e.match = 0
		return
	}

	e.out = append(e.out, b)
	e.matchOpen(b)
}

func (e *entityReader) matchOpen(b byte) {
	switch {
	case b == cdataOpen[e.match]:
		e.match++
	case b == cdataOpen[0]:
		e.match = 1
	default:
		e.match = 0
	}
	if e.match == len(cdataOpen) {
		e.cdata = true
		e.match = 0
	}
}

func (e *entityReader) matchClose(b byte) {
	switch {
	case b == cdataClose[e.match]:
		e.match++
	case b == ']':
		// "]]]>" still closes the section
		e.match = 2
	default:
		e.match = 0
	}
	if e.match == len(cdataClose) {
		e.cdata = false
		e.match = 0
	}
}

// resolveEntity returns the replacement for &name;. Names the parser knows
// and unknown names are kept so the parser decides about them.
func resolveEntity(name string) string {
	switch name {
	case "", "amp", "lt", "gt", "quot", "apos":
		return "&" + name + ";"
	}
	if name[0] == '#' {
		return "&" + name + ";"
	}

	value, ok := xml.HTMLEntity[name]
	if !ok {
		return "&" + name + ";"
	}

	var ref string
	for _, r := range value {
		ref += fmt.Sprintf("&#%d;", r)
	}
	return ref
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '#'
}
