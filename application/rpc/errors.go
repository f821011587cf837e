package rpc

import (
	"strconv"
)

type Kind uint8

const (
	KindConnect Kind = iota + 1
	KindSend
	KindProtocol
	KindHTTPStatus
	KindReceive
	KindTimeout
)

var kindNames = [...]string{
	KindConnect:    "connect error",
	KindSend:       "send error",
	KindProtocol:   "protocol error",
	KindHTTPStatus: "http status error",
	KindReceive:    "receive error",
	KindTimeout:    "timeout error",
}

// Used as metric label values.
var kindLabels = [...]string{
	KindConnect:    "connect",
	KindSend:       "send",
	KindProtocol:   "protocol",
	KindHTTPStatus: "http_status",
	KindReceive:    "receive",
	KindTimeout:    "timeout",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown error"
}

func (k Kind) label() string {
	if int(k) < len(kindLabels) && kindLabels[k] != "" {
		return kindLabels[k]
	}
	return "unknown"
}

// Error is the terminal outcome of a failed call.
type Error struct {
	Kind Kind
	// Code is the received status code. Only set for KindHTTPStatus.
	Code int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindHTTPStatus {
		msg += " " + strconv.Itoa(e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare *Error of the same kind.
// A target with non-zero Code also has to match the code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

var (
	ErrConnect    = &Error{Kind: KindConnect}
	ErrSend       = &Error{Kind: KindSend}
	ErrProtocol   = &Error{Kind: KindProtocol}
	ErrHTTPStatus = &Error{Kind: KindHTTPStatus}
	ErrReceive    = &Error{Kind: KindReceive}
	ErrTimeout    = &Error{Kind: KindTimeout}
)
