// Package jsonrpc builds JSON-RPC 1.0 request bodies and picks replies apart.
// Ids are carried but never correlated.
package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/Jeffail/gabs"
	"github.com/pkg/errors"
)

const Version = "1.0"

var (
	ErrMalformedParams   = errors.New("params is not a json array")
	ErrMalformedResponse = errors.New("response is not a json object")
)

type Request struct {
	Version string
	ID      any
	Method  string
	Params  []any
}

func NewRequest(id any, method string, params ...any) Request {
	return Request{Version: Version, ID: id, Method: method, Params: params}
}

// Marshal encodes the request. Members come out in key order.
func (r Request) Marshal() ([]byte, error) {
	params := r.Params
	if params == nil {
		params = []any{}
	}

	c := gabs.New()
	for _, member := range []struct {
		key   string
		value any
	}{
		{"jsonrpc", r.Version},
		{"id", r.ID},
		{"method", r.Method},
		{"params", params},
	} {
		if _, err := c.Set(member.value, member.key); err != nil {
			return nil, errors.Wrapf(err, "setting %s", member.key)
		}
	}

	b, err := json.Marshal(c.Data())
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request")
	}
	return b, nil
}

// ParseParams parses a json array such as `[0]` or `["abc", true]`.
func ParseParams(s string) ([]any, error) {
	c, err := gabs.ParseJSON([]byte(s))
	if err != nil {
		return nil, errors.Wrap(ErrMalformedParams, err.Error())
	}

	params, ok := c.Data().([]any)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedParams, "%s", s)
	}
	return params, nil
}

// Error is a non-null error member of a reply.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

type Response struct {
	ID any
	// Result is the raw json of the result member, "null" if it is missing.
	Result []byte
	Error  *Error
}

// Err returns the error member, if any.
func (r Response) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

func ParseResponse(body []byte) (Response, error) {
	c, err := gabs.ParseJSON(body)
	if err != nil {
		return Response{}, errors.Wrap(ErrMalformedResponse, err.Error())
	}
	if _, ok := c.Data().(map[string]any); !ok {
		return Response{}, ErrMalformedResponse
	}

	result, err := json.Marshal(c.Search("result").Data())
	if err != nil {
		return Response{}, errors.Wrap(err, "marshaling result")
	}

	response := Response{
		ID:     c.Search("id").Data(),
		Result: result,
	}

	if e := c.Search("error"); e.Data() != nil {
		response.Error = parseError(e)
	}

	return response, nil
}

func parseError(c *gabs.Container) *Error {
	e := &Error{}

	switch code := c.Search("code").Data().(type) {
	case float64:
		e.Code = int(code)
	case json.Number:
		n, _ := code.Int64()
		e.Code = int(n)
	}

	if message, ok := c.Search("message").Data().(string); ok {
		e.Message = message
	} else {
		// Not the usual shape. Keep all of it.
		b, _ := json.Marshal(c.Data())
		e.Message = string(b)
	}

	return e
}
