// Package tcp carries transport connections over the operating system's
// Transmission Control Protocol (TCP) stack.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9293
package tcp

import (
	"jsonrpc-client/transport"
	"net/netip"
	"strconv"

	"github.com/pkg/errors"
)

// Addr is a resolved (ip, port) endpoint.
type Addr struct {
	ipAddr netip.Addr
	port   uint16
}

var _ transport.Addr = Addr{}

func NewAddr(ipAddr netip.Addr, port uint16) Addr {
	return Addr{ipAddr.Unmap(), port}
}

// ParseAddr parses "ip:port", with IPv6 addresses in brackets.
func ParseAddr(s string) (Addr, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return Addr{}, errors.Wrapf(err, "parsing tcp address %q", s)
	}
	return NewAddr(ap.Addr(), ap.Port()), nil
}

func (a Addr) IP() netip.Addr                { return a.ipAddr }
func (a Addr) Port() uint16                  { return a.port }
func (a Addr) Protocol() transport.Protocol { return transport.TCP }
func (a Addr) AddrPort() netip.AddrPort      { return netip.AddrPortFrom(a.ipAddr, a.port) }

func (a Addr) String() string {
	net := a.ipAddr.String()
	if a.ipAddr.Is6() {
		net = "[" + net + "]"
	}

	return net + ":" + strconv.FormatUint(uint64(a.port), 10)
}
