package iolib

import (
	"bytes"
	"errors"
	"io"
	"slices"
)

// DefaultChunkSize is how many bytes a single underlying read may append.
const DefaultChunkSize = 1024

const maxConsecutiveEmptyReads = 100

var (
	ErrZeroLenDelim  = errors.New("delim has zero length")
	ErrLimitExceeded = errors.New("delim not found within limit")
)

// UntilReader is a growable byte queue in front of r.
// Reads append to the back. Bytes leave from the front only when a caller
// takes them with [UntilReader.ReadUntil] or [UntilReader.Next], so whatever
// a read brought in past a delimiter stays buffered for the next call.
type UntilReader struct {
	r     io.Reader
	chunk int

	buf []byte
	err error // sticky error from r.
}

func NewUntilReader(r io.Reader) *UntilReader {
	return NewUntilReaderSize(r, DefaultChunkSize)
}

func NewUntilReaderSize(r io.Reader, chunk int) *UntilReader {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &UntilReader{r: r, chunk: chunk}
}

// Len returns the number of buffered bytes.
func (ur *UntilReader) Len() int { return len(ur.buf) }

// Buffered returns the buffered bytes without consuming them.
// It is only valid until the next call on ur.
func (ur *UntilReader) Buffered() []byte { return ur.buf }

// Next consumes and returns up to n bytes from the front of the buffer.
func (ur *UntilReader) Next(n int) []byte {
	n = min(n, len(ur.buf))
	b := ur.buf[:n:n]
	ur.buf = ur.buf[n:]
	return b
}

// fill issues a single read on r and appends what it returned.
func (ur *UntilReader) fill() {
	if ur.err != nil {
		return
	}

	ur.buf = slices.Grow(ur.buf, ur.chunk)
	for try := 0; try < maxConsecutiveEmptyReads; try++ {
		n, err := ur.r.Read(ur.buf[len(ur.buf) : len(ur.buf)+ur.chunk])
		ur.buf = ur.buf[:len(ur.buf)+n]
		if err != nil {
			ur.err = err
			return
		}
		if n > 0 {
			return
		}
	}

	ur.err = io.ErrNoProgress
}

// ReadUntil reads until delim is buffered, then consumes and returns
// everything up to and including delim.
// If r fails first, the bytes read so far stay buffered and the error of r
// is returned.
func (ur *UntilReader) ReadUntil(delim []byte) ([]byte, error) {
	return ur.ReadUntilLimit(delim, 0)
}

// ReadUntilLimit is [UntilReader.ReadUntil] that gives up with
// [ErrLimitExceeded] once limit bytes are buffered without delim ending
// inside them. Zero limit means no limit.
func (ur *UntilReader) ReadUntilLimit(delim []byte, limit uint) ([]byte, error) {
	if len(delim) == 0 {
		return nil, ErrZeroLenDelim
	}

	scanned := 0
	for {
		if idx := bytes.Index(ur.buf[scanned:], delim); idx >= 0 {
			end := scanned + idx + len(delim)
			if limit > 0 && uint(end) > limit {
				return nil, ErrLimitExceeded
			}
			return ur.Next(end), nil
		}

		if limit > 0 && uint(len(ur.buf)) >= limit {
			return nil, ErrLimitExceeded
		}

		// Delim may straddle the boundary between two reads,
		// so keep its length minus one byte for the next search.
		scanned = max(0, len(ur.buf)-len(delim)+1)

		if ur.err != nil {
			return nil, ur.err
		}
		ur.fill()
	}
}

// FillAtLeast reads until at least n bytes are buffered.
// It returns the error of r if r fails before that.
func (ur *UntilReader) FillAtLeast(n int) error {
	for len(ur.buf) < n {
		if ur.err != nil {
			return ur.err
		}
		ur.fill()
	}
	return nil
}
