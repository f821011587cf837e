package rpc

import (
	"context"
	"io"
	"jsonrpc-client/application/http"
	iolib "jsonrpc-client/lib/io"
	"jsonrpc-client/transport"
	"strconv"

	"github.com/pkg/errors"
)

type state uint8

const (
	stateConnecting state = iota
	stateSending
	stateReadingStatus
	stateReadingHeaders
	stateReadingBody
	stateDone
)

func (st state) String() string {
	switch st {
	case stateConnecting:
		return "connecting"
	case stateSending:
		return "sending"
	case stateReadingStatus:
		return "reading status"
	case stateReadingHeaders:
		return "reading headers"
	case stateReadingBody:
		return "reading body"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// step runs a single state and returns the state to move to.
type step func(s *session, ctx context.Context) (state, error)

var steps = [...]step{
	stateConnecting:     (*session).connect,
	stateSending:        (*session).send,
	stateReadingStatus:  (*session).readStatus,
	stateReadingHeaders: (*session).readHeaders,
	stateReadingBody:    (*session).readBody,
}

// session is a single call. It is not reused.
type session struct {
	dialer transport.ConnDialer
	opts   Options

	endpoint transport.Addr
	creds    Credentials
	body     []byte

	conn      transport.Conn
	stopClose func() bool
	dec       *http.ResponseDecoder

	contentLength uint
	result        []byte
}

func (s *session) run(ctx context.Context) ([]byte, error) {
	defer s.close()

	st := stateConnecting
	for st != stateDone {
		next, err := steps[st](s, ctx)
		if err != nil {
			return nil, s.fail(ctx, st, err)
		}
		st = next
	}

	return s.result, nil
}

func (s *session) close() {
	if s.stopClose != nil {
		s.stopClose()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// fail tags err, which ended state st, with its kind.
func (s *session) fail(ctx context.Context, st state, err error) error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) && rpcErr.Kind == KindHTTPStatus {
		return rpcErr
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindTimeout, Err: errors.Wrapf(ctxErr, "%s: %s", st, err)}
	}
	if errors.Is(err, transport.ErrDeadLineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}

	if rpcErr != nil {
		return rpcErr
	}

	switch st {
	case stateConnecting:
		return &Error{Kind: KindConnect, Err: err}
	case stateSending:
		return &Error{Kind: KindSend, Err: err}
	}
	return &Error{Kind: KindReceive, Err: err}
}

func (s *session) connect(ctx context.Context) (state, error) {
	conn, err := s.dialer.Dial(ctx, s.endpoint)
	if err != nil {
		return 0, errors.Wrapf(err, "connecting to %s", s.endpoint)
	}
	s.conn = conn

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadLine(deadline)
		conn.SetWriteDeadLine(deadline)
	}
	// Unblocks whatever step is pending once ctx is done.
	s.stopClose = context.AfterFunc(ctx, func() { _ = conn.Close() })

	r := iolib.NewUntilReaderSize(conn, s.opts.ReadChunkSize)
	s.dec = http.NewResponseDecoder(r, s.opts.Decode)

	return stateSending, nil
}

func (s *session) send(ctx context.Context) (state, error) {
	request := http.Request{
		Method:  "POST",
		Target:  "/",
		Version: http.Version{1, 1},
		Headers: []http.Field{
			http.NewField("Host", s.endpoint.String()),
			http.NewField("Authorization", s.creds.authorization()),
			http.NewField("User-Agent", s.opts.UserAgent),
			http.NewField("Accept", "*/*"),
			http.NewField("content-type", "text/plain;"),
			http.NewField("Content-Length", strconv.Itoa(len(s.body))),
		},
		Body: s.body,
	}

	if err := http.NewRequestEncoder(s.conn, s.opts.Encode).Encode(request); err != nil {
		return 0, errors.Wrap(err, "sending request")
	}

	return stateReadingStatus, nil
}

func (s *session) readStatus(ctx context.Context) (state, error) {
	status, err := s.dec.DecodeStatusLine()
	if err != nil {
		return 0, asProtocolError(errors.Wrap(err, "receiving status line"))
	}

	if status.StatusCode != 200 {
		statusErr := &Error{Kind: KindHTTPStatus, Code: status.StatusCode}
		if status.ReasonPhrase != "" {
			statusErr.Err = errors.New(status.ReasonPhrase)
		}
		return 0, statusErr
	}

	return stateReadingHeaders, nil
}

func (s *session) readHeaders(ctx context.Context) (state, error) {
	headers, err := s.dec.DecodeHeaders()
	if err != nil {
		return 0, asProtocolError(errors.Wrap(err, "receiving headers"))
	}
	s.contentLength = headers.ContentLength

	return stateReadingBody, nil
}

func (s *session) readBody(ctx context.Context) (state, error) {
	body, err := s.dec.DecodeBody(s.contentLength)
	if err != nil {
		return 0, errors.Wrap(err, "receiving body")
	}
	s.result = body

	return stateDone, nil
}

var protocolErrs = []error{
	http.ErrMalformedStatusLine,
	http.ErrMissingContentLength,
	http.ErrMalformedContentLength,
	http.ErrHeaderTooLong,
	io.ErrUnexpectedEOF,
}

// asProtocolError tags err as a protocol error when the received bytes
// were at fault rather than the connection.
func asProtocolError(err error) error {
	for _, target := range protocolErrs {
		if errors.Is(err, target) {
			return &Error{Kind: KindProtocol, Err: err}
		}
	}
	return err
}
