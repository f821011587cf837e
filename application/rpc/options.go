package rpc

import (
	"jsonrpc-client/application/http"
	iolib "jsonrpc-client/lib/io"
	"time"
)

type Options struct {
	// UserAgent is sent as the User-Agent header.
	UserAgent string

	// Timeout bounds a whole call, from dialing to the last body byte.
	// Zero means no limit other than the one on the context.
	Timeout time.Duration

	Encode http.EncodeOptions
	Decode http.DecodeOptions

	// ReadChunkSize is the most bytes a single read from the connection may append.
	ReadChunkSize int
}

var DefaultOptions = Options{
	UserAgent:     "curl/7.87.0",
	Timeout:       30 * time.Second,
	Encode:        http.DefaultEncodeOptions,
	Decode:        http.DefaultDecodeOptions,
	ReadChunkSize: iolib.DefaultChunkSize,
}
