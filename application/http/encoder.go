package http

import (
	"bytes"
	"io"
	"jsonrpc-client/application/util/rule"
	iolib "jsonrpc-client/lib/io"

	"github.com/pkg/errors"
)

type EncodeOptions struct {
	// UseSoleLF specifies wheter a single LF character should be used as a line terminator.
	//
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-3
	UseSoleLF bool
}

var DefaultEncodeOptions = EncodeOptions{
	UseSoleLF: false,
}

var (
	ErrInvalidMethod    = errors.New("method is not a valid token")
	ErrInvalidFieldName = errors.New("field name is not a valid token")
)

type RequestEncoder struct {
	w    io.Writer
	opts EncodeOptions
}

func NewRequestEncoder(w io.Writer, opts EncodeOptions) *RequestEncoder {
	return &RequestEncoder{w: w, opts: opts}
}

// Encode frames the whole request in memory and writes it to w
// with as many writes as w needs.
func (re *RequestEncoder) Encode(request Request) error {
	buf := bytes.NewBuffer(make([]byte, 0, 256+len(request.Body)))

	if err := re.encodeRequestLine(buf, request); err != nil {
		return errors.Wrap(err, "encoding request line")
	}

	if err := re.encodeHeaders(buf, request.Headers); err != nil {
		return errors.Wrap(err, "encoding headers")
	}

	buf.Write(request.Body)

	if _, err := iolib.WriteFull(re.w, buf.Bytes()); err != nil {
		return errors.Wrap(err, "writing request")
	}

	return nil
}

func (re *RequestEncoder) writeLine(buf *bytes.Buffer, line []byte) {
	buf.Write(line)

	term := rule.CRLF
	if re.opts.UseSoleLF {
		term = term[1:]
	}
	buf.Write(term)
}

func (re *RequestEncoder) encodeRequestLine(buf *bytes.Buffer, request Request) error {
	if !rule.IsValidToken(request.Method) {
		return errors.Wrapf(ErrInvalidMethod, "%q", request.Method)
	}
	if len(request.Target) == 0 {
		return errors.New("request target should not be empty")
	}

	line := make([]byte, 0, 64)
	line = append(line, request.Method...)
	line = append(line, rule.SP)
	line = append(line, request.Target...)
	line = append(line, rule.SP)
	line = append(line, request.Version.Text()...)

	re.writeLine(buf, line)

	return nil
}

func (re *RequestEncoder) encodeHeaders(buf *bytes.Buffer, headers []Field) error {
	for _, field := range headers {
		if !rule.IsValidToken(string(field.Name)) {
			return errors.Wrapf(ErrInvalidFieldName, "%q", field.Name)
		}
		re.writeLine(buf, field.Text())
	}

	// Write a empty line as all the headers are written.
	re.writeLine(buf, nil)

	return nil
}
