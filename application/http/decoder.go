package http

import (
	"bytes"
	"io"
	"jsonrpc-client/application/util/rule"
	iolib "jsonrpc-client/lib/io"
	"strconv"

	"github.com/pkg/errors"
)

type DecodeOptions struct {
	// MaxHeaderBytes sets the limit of status line and header block length combined.
	// It's not on the RFC but I think it's better to have it.
	// Zero means no limit.
	MaxHeaderBytes uint
}

var DefaultDecodeOptions = DecodeOptions{
	MaxHeaderBytes: 64 << 10,
}

var (
	ErrHeaderTooLong          = errors.New("status line and headers exceed limit")
	ErrMalformedStatusLine    = errors.New("status line is malformed")
	ErrMissingContentLength   = errors.New("content-length header not found")
	ErrMalformedContentLength = errors.New("content-length is malformed")
)

var (
	versionPrefix       = []byte("HTTP/")
	contentLengthPrefix = []byte("Content-Length: ")
	headerBlockEnd      = []byte("\r\n\r\n")
)

// ResponseDecoder decodes a response one part at a time.
// The parts must be decoded in order: status line, headers, body.
//
// A stream that ends before the status line or the header block is complete
// is reported as [io.ErrUnexpectedEOF].
type ResponseDecoder struct {
	r    *iolib.UntilReader
	opts DecodeOptions

	consumed uint // bytes of status line and headers taken so far.
}

func NewResponseDecoder(r *iolib.UntilReader, opts DecodeOptions) *ResponseDecoder {
	return &ResponseDecoder{r: r, opts: opts}
}

func (rd *ResponseDecoder) readUntil(delim []byte) ([]byte, error) {
	limit := uint(0)
	if rd.opts.MaxHeaderBytes > 0 {
		if rd.consumed >= rd.opts.MaxHeaderBytes {
			return nil, ErrHeaderTooLong
		}
		limit = rd.opts.MaxHeaderBytes - rd.consumed
	}

	b, err := rd.r.ReadUntilLimit(delim, limit)
	if err != nil {
		switch {
		case errors.Is(err, iolib.ErrLimitExceeded):
			return nil, ErrHeaderTooLong
		case errors.Is(err, io.EOF):
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	rd.consumed += uint(len(b))

	return b, nil
}

func (rd *ResponseDecoder) DecodeStatusLine() (StatusLine, error) {
	line, err := rd.readUntil(rule.CRLF)
	if err != nil {
		return StatusLine{}, errors.Wrap(err, "reading status line")
	}

	return parseStatusLine(line[:len(line)-len(rule.CRLF)])
}

// parseStatusLine splits line on its first two spaces.
// The token between them is the status code.
func parseStatusLine(line []byte) (StatusLine, error) {
	if !bytes.HasPrefix(line, versionPrefix) {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "http version prefix not found: %q", line)
	}

	version, rest, found := bytes.Cut(line, []byte{rule.SP})
	if !found {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "status code not found: %q", line)
	}

	code, reason, found := bytes.Cut(rest, []byte{rule.SP})
	if !found {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "reason phrase separator not found: %q", line)
	}

	statusCode, ok := parseDigits(code)
	if !ok || statusCode > 999 {
		return StatusLine{}, errors.Wrapf(ErrMalformedStatusLine, "status code is malformed: %q", code)
	}

	return StatusLine{
		Version:      string(version),
		StatusCode:   int(statusCode),
		ReasonPhrase: string(reason),
	}, nil
}

// DecodeHeaders reads up to and including the empty line closing the header block.
func (rd *ResponseDecoder) DecodeHeaders() (Headers, error) {
	block, err := rd.readHeaderBlock()
	if err != nil {
		return Headers{}, errors.Wrap(err, "reading header block")
	}

	return parseHeaderBlock(block)
}

func (rd *ResponseDecoder) readHeaderBlock() ([]byte, error) {
	// The status line already took the CRLF that opens CRLFCRLF.
	// So a block without any field is a sole CRLF.
	if err := rd.r.FillAtLeast(len(rule.CRLF)); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if bytes.HasPrefix(rd.r.Buffered(), rule.CRLF) {
		rd.consumed += uint(len(rule.CRLF))
		return rd.r.Next(len(rule.CRLF)), nil
	}

	return rd.readUntil(headerBlockEnd)
}

func parseHeaderBlock(block []byte) (Headers, error) {
	var (
		headers Headers
		found   bool
	)

	block = bytes.TrimSuffix(block, rule.CRLF)
	for _, line := range bytes.Split(block, rule.CRLF) {
		if len(line) == 0 {
			continue
		}

		if !found && bytes.HasPrefix(line, contentLengthPrefix) {
			value := bytes.TrimRight(line[len(contentLengthPrefix):], string(rule.OWS))
			n, ok := parseDigits(value)
			if !ok {
				return Headers{}, errors.Wrapf(ErrMalformedContentLength, "%q", value)
			}
			headers.ContentLength = uint(n)
			found = true
		}

		// Fields other than Content-Length are only kept, so a malformed one is dropped.
		if field, err := ParseField(line); err == nil {
			headers.Fields = append(headers.Fields, field)
		}
	}

	if !found {
		return Headers{}, ErrMissingContentLength
	}

	return headers, nil
}

// DecodeBody reads until contentLength bytes are buffered or the stream ends.
// A stream ending early is not an error; the body is whatever arrived.
// Bytes past contentLength are never part of the body.
func (rd *ResponseDecoder) DecodeBody(contentLength uint) ([]byte, error) {
	n := int(min(contentLength, uint(maxInt)))

	if err := rd.r.FillAtLeast(n); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "reading body")
	}

	return rd.r.Next(n), nil
}

const maxInt = int(^uint(0) >> 1)

// parseDigits parses b made only of ASCII digits.
func parseDigits(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	for _, c := range b {
		if !rule.IsDigit(rune(c)) {
			return 0, false
		}
	}

	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
