package iolib

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUntil(t *testing.T) {
	sample := []byte("Hello, World!")

	testcases := []struct {
		desc     string
		delim    []byte
		expected []byte
		wantErr  error
	}{
		{
			desc:     "sample",
			delim:    []byte("Wo"),
			expected: []byte("Hello, Wo"),
		},
		{
			desc:     "delim at the end",
			delim:    []byte("d!"),
			expected: sample,
		},
		{
			desc:    "not found",
			delim:   []byte("Bye!"),
			wantErr: io.EOF,
		},
		{
			desc:    "no delim",
			delim:   []byte(nil),
			wantErr: ErrZeroLenDelim,
		},
	}

	readers := map[string]func() io.Reader{
		"whole":    func() io.Reader { return bytes.NewReader(sample) },
		"one byte": func() io.Reader { return iotest.OneByteReader(bytes.NewReader(sample)) },
		"data err": func() io.Reader { return iotest.DataErrReader(bytes.NewReader(sample)) },
	}

	for name, newReader := range readers {
		for _, tc := range testcases {
			t.Run(name+"/"+tc.desc, func(t *testing.T) {
				r := NewUntilReaderSize(newReader(), 4)
				b, err := r.ReadUntil(tc.delim)
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr)
				} else {
					assert.NoError(t, err)
				}

				assert.Equal(t, tc.expected, b)
			})
		}
	}
}

func TestReadUntilKeepsBufferedOnError(t *testing.T) {
	sample := []byte("Hello, World!")
	r := NewUntilReader(bytes.NewReader(sample))

	_, err := r.ReadUntil([]byte("Bye!"))
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, sample, r.Buffered())
	assert.Equal(t, len(sample), r.Len())
}

func TestNextAfterReadUntil(t *testing.T) {
	sample := []byte("Hello, World!")
	r := NewUntilReader(bytes.NewReader(sample))

	b, err := r.ReadUntil([]byte("el"))
	require.NoError(t, err)
	require.Equal(t, []byte("Hel"), b)

	require.NoError(t, r.FillAtLeast(10))
	assert.Equal(t, []byte("lo, World!"), r.Next(10))

	assert.ErrorIs(t, r.FillAtLeast(1), io.EOF)
	assert.Empty(t, r.Next(1))
}

func TestReadUntilAfterReadUntil(t *testing.T) {
	sample := []byte("Hello, World!")
	r := NewUntilReader(iotest.OneByteReader(bytes.NewReader(sample)))

	b, err := r.ReadUntil([]byte("el"))
	require.NoError(t, err)
	require.Equal(t, []byte("Hel"), b)

	b, err = r.ReadUntil([]byte("Wo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("lo, Wo"), b)
}

func TestReadUntilStraddlingDelim(t *testing.T) {
	// "\r\n\r\n" arrives split over three reads.
	r := NewUntilReader(io.MultiReader(
		bytes.NewReader([]byte("A: b\r")),
		bytes.NewReader([]byte("\n\r")),
		bytes.NewReader([]byte("\nbody")),
	))

	b, err := r.ReadUntil([]byte("\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("A: b\r\n\r\n"), b)
	// The read that completed the delimiter also brought the body in.
	assert.Equal(t, 4, r.Len())

	require.NoError(t, r.FillAtLeast(4))
	assert.Equal(t, []byte("body"), r.Next(10))
}

func TestReadUntilLimit(t *testing.T) {
	sample := []byte("Hello, World!")

	r := NewUntilReaderSize(bytes.NewReader(sample), 2)
	b, err := r.ReadUntilLimit([]byte("World!"), 3)
	require.ErrorIs(t, err, ErrLimitExceeded)
	assert.Nil(t, b)

	r = NewUntilReader(bytes.NewReader(sample))
	b, err = r.ReadUntilLimit([]byte("World!"), uint(len(sample)))
	require.NoError(t, err)
	assert.Equal(t, sample, b)
}

func TestReadUntilLimitZero(t *testing.T) {
	sample := []byte("Hello, World!")
	r := NewUntilReader(bytes.NewReader(sample))

	b, err := r.ReadUntilLimit([]byte("World!"), 0)
	require.NoError(t, err)
	assert.Equal(t, sample, b)
}

func TestFillAtLeast(t *testing.T) {
	sample := []byte("hello world")

	r := NewUntilReaderSize(iotest.OneByteReader(bytes.NewReader(sample)), 1)
	require.NoError(t, r.FillAtLeast(5))
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []byte("hello"), r.Next(5))

	err := r.FillAtLeast(100)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []byte(" world"), r.Next(100))
}

func TestFillAtLeastError(t *testing.T) {
	errBroken := errors.New("broken")
	r := NewUntilReader(io.MultiReader(
		bytes.NewReader([]byte("abc")),
		iotest.ErrReader(errBroken),
	))

	err := r.FillAtLeast(10)
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, []byte("abc"), r.Buffered())

	// The error sticks.
	assert.ErrorIs(t, r.FillAtLeast(10), errBroken)
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }

func TestFillNoProgress(t *testing.T) {
	r := NewUntilReader(emptyReader{})
	assert.ErrorIs(t, r.FillAtLeast(1), io.ErrNoProgress)
}
