package http

import (
	"bytes"
	"jsonrpc-client/application/util/rule"
	"strconv"

	"github.com/pkg/errors"
)

// [Major, Minor]
type Version [2]uint

func (ver Version) Text() []byte {
	b := []byte("HTTP/")
	b = strconv.AppendUint(b, uint64(ver[0]), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(ver[1]), 10)
	return b
}

func (ver Version) String() string { return string(ver.Text()) }

type Field struct{ Name, Value []byte }

func NewField(name, value string) Field {
	return Field{Name: []byte(name), Value: []byte(value)}
}

func ParseField(fieldLine []byte) (Field, error) {
	name, value, found := bytes.Cut(fieldLine, []byte{':'})
	if !found {
		return Field{}, errors.Errorf("colon separator not found on header: %q", string(fieldLine))
	}

	// No whitespace is allowed between field name and colon.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-2
	for _, c := range rule.OWS {
		if bytes.HasSuffix(name, []byte{c}) {
			return Field{}, errors.New("field name has trailing whitespace")
		}
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-3
	value = bytes.Trim(value, string(rule.OWS))

	return Field{Name: name, Value: value}, nil
}

func (f *Field) Text() []byte {
	b := make([]byte, 0, len(f.Name)+2+len(f.Value))
	b = append(b, f.Name...)
	b = append(b, ':', rule.SP)
	b = append(b, f.Value...)
	return b
}

// Request is a request message whose body is already in memory.
type Request struct {
	Method  string
	Target  string
	Version Version
	Headers []Field

	Body []byte
}

type StatusLine struct {
	// Version is the protocol token as received, e.g. "HTTP/1.1".
	Version      string
	StatusCode   int
	ReasonPhrase string
}

// Headers is a decoded header block.
// Only Content-Length is interpreted; every other field is kept as received.
type Headers struct {
	Fields        []Field
	ContentLength uint
}
