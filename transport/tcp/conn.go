package tcp

import (
	"context"
	"io"
	"jsonrpc-client/transport"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// Dialer dials [Addr] endpoints through the kernel.
// The zero value is ready to use.
type Dialer struct {
	Dialer net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func (d *Dialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	tcpAddr, ok := addr.(Addr)
	if !ok {
		return nil, errors.Wrapf(transport.ErrNetUnreachable, "not a tcp address: %s", addr)
	}

	c, err := d.Dialer.DialContext(ctx, "tcp", tcpAddr.AddrPort().String())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, "dialing")
		}
		return nil, mapErr(err)
	}

	return newConn(c), nil
}

// Listener accepts connections on a kernel socket.
type Listener struct {
	l *net.TCPListener
}

var _ transport.ConnListener = (*Listener)(nil)

// Listen listens on addr. Zero port picks an ephemeral one.
func Listen(addr Addr) (*Listener, error) {
	l, err := net.ListenTCP("tcp", net.TCPAddrFromAddrPort(addr.AddrPort()))
	if err != nil {
		return nil, mapErr(err)
	}
	return &Listener{l: l}, nil
}

func (l *Listener) Addr() Addr { return fromNetAddr(l.l.Addr()) }

func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	// Wake the blocking accept up once ctx is done.
	stop := context.AfterFunc(ctx, func() { _ = l.l.SetDeadline(time.Now()) })
	defer stop()

	c, err := l.l.Accept()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, net.ErrClosed) {
			return nil, transport.ErrConnListenerClosed
		}
		return nil, mapErr(err)
	}

	return newConn(c), nil
}

func (l *Listener) Close() error {
	if err := l.l.Close(); err != nil {
		return mapErr(err)
	}
	return nil
}

type conn struct {
	c net.Conn

	local, remote Addr

	closeOnce sync.Once
	closeErr  error
}

var _ transport.Conn = (*conn)(nil)

func newConn(c net.Conn) *conn {
	return &conn{
		c:      c,
		local:  fromNetAddr(c.LocalAddr()),
		remote: fromNetAddr(c.RemoteAddr()),
	}
}

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.c.Read(p)
	return n, mapErr(err)
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.c.Write(p)
	return n, mapErr(err)
}

func (c *conn) Close() error {
	c.closeOnce.Do(func() { c.closeErr = mapErr(c.c.Close()) })
	return c.closeErr
}

func (c *conn) LocalAddr() transport.Addr  { return c.local }
func (c *conn) RemoteAddr() transport.Addr { return c.remote }

func (c *conn) SetReadDeadLine(t time.Time)  { _ = c.c.SetReadDeadline(t) }
func (c *conn) SetWriteDeadLine(t time.Time) { _ = c.c.SetWriteDeadline(t) }

func fromNetAddr(a net.Addr) Addr {
	if tcpAddr, ok := a.(*net.TCPAddr); ok {
		ap := tcpAddr.AddrPort()
		return NewAddr(ap.Addr(), ap.Port())
	}
	return Addr{}
}

// mapErr translates kernel socket errors into [transport] errors.
// io.EOF passes through untouched.
func mapErr(err error) error {
	var netErr net.Error
	switch {
	case err == nil, err == io.EOF:
		return err
	case errors.Is(err, net.ErrClosed):
		return errors.Wrap(transport.ErrConnClosed, err.Error())
	case errors.Is(err, os.ErrDeadlineExceeded):
		return errors.Wrap(transport.ErrDeadLineExceeded, err.Error())
	case errors.Is(err, syscall.ECONNREFUSED):
		return errors.Wrap(transport.ErrConnRefused, err.Error())
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return errors.Wrap(transport.ErrNetUnreachable, err.Error())
	case errors.Is(err, syscall.EADDRINUSE):
		return errors.Wrap(transport.ErrAddrAlreadyInUse, err.Error())
	case errors.As(err, &netErr) && netErr.Timeout():
		return errors.Wrap(transport.ErrDeadLineExceeded, err.Error())
	}
	return err
}
