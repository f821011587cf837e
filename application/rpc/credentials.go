package rpc

import (
	"jsonrpc-client/lib/algo/base64"
	"strings"
)

// Credentials is a "user:password" pair for basic authentication.
type Credentials string

func NewCredentials(user, password string) Credentials {
	return Credentials(user + ":" + password)
}

func (c Credentials) User() string {
	user, _, _ := strings.Cut(string(c), ":")
	return user
}

// String hides the password.
func (c Credentials) String() string {
	if !strings.Contains(string(c), ":") {
		return c.User()
	}
	return c.User() + ":***"
}

// authorization returns the value of the Authorization header.
func (c Credentials) authorization() string {
	return string(base64.AppendEncode([]byte("Basic "), []byte(c)))
}
