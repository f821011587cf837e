// Package http implements the HTTP/1.1 message framing needed to issue a
// single request and read back a Content-Length delimited response.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
