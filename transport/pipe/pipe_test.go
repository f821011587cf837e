package pipe

import (
	"jsonrpc-client/transport"
	"jsonrpc-client/transport/test"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PipeTestSuite struct {
	test.ConnTestSuite
}

func TestPipeTestSuite(t *testing.T) {
	suite.Run(t, new(PipeTestSuite))
}

func (s *PipeTestSuite) SetupTest() {
	s.ConnTestSuite.SetupTest()
	s.C1, s.C2 = NewPair("A", "B", s.Clock)
}

func TestPipeDeadLineWithMockClock(t *testing.T) {
	mock := clock.NewMock()
	c1, c2 := NewPair("A", "B", mock)
	defer c1.Close()
	defer c2.Close()

	c1.SetReadDeadLine(mock.Now().Add(time.Second))

	errc := make(chan error, 1)
	go func() {
		_, err := c1.Read(make([]byte, 1))
		errc <- err
	}()

	// Let the reader block before moving the clock.
	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Second)

	select {
	case err := <-errc:
		require.ErrorIs(t, err, transport.ErrDeadLineExceeded)
	case <-time.After(time.Second):
		require.FailNow(t, "read did not return after deadline")
	}

	// Clearing the deadline makes the pipe usable again.
	c1.SetReadDeadLine(time.Time{})
	go func() { _, _ = c2.Write([]byte("x")) }()

	b := make([]byte, 1)
	n, err := c1.Read(b)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
