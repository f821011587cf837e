package main

import (
	"context"
	"fmt"
	"jsonrpc-client/application/util/domain"
	"jsonrpc-client/transport/tcp"
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// resolve turns the host and port arguments into an endpoint.
// host is either an ip literal or a name to look up.
func resolve(ctx context.Context, lookuper domain.Lookuper, host, port string) (tcp.Addr, error) {
	portNum, err := strconv.ParseUint(port, 10, 16)
	if err != nil || portNum == 0 {
		return tcp.Addr{}, newUsageError(fmt.Sprintf("invalid port %q", port))
	}

	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if host == "" {
		return tcp.Addr{}, newUsageError("empty host")
	}

	if ip, err := netip.ParseAddr(host); err == nil {
		return tcp.NewAddr(ip, uint16(portNum)), nil
	}

	// Host is a domain name. Resolve it to the ip address.
	addrs, err := lookuper.LookupIP(ctx, host)
	if err != nil {
		return tcp.Addr{}, errors.Wrapf(err, "lookup for host(%s) failed", host)
	}
	if len(addrs) == 0 {
		return tcp.Addr{}, errors.Wrapf(domain.ErrDomainNotFound, "lookup for host(%s) returned nothing", host)
	}

	// Lets simply use the first address.
	return tcp.NewAddr(addrs[0], uint16(portNum)), nil
}
