package main

import (
	"github.com/pkg/errors"
)

type usageError struct {
	error
}

func newUsageError(msg string) usageError {
	return usageError{error: errors.New(msg)}
}

var errorWantedTwoArgs = newUsageError("expected exactly two arguments: <server_ip> <server_port>")
