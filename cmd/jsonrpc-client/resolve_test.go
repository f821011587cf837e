package main

import (
	"context"
	"jsonrpc-client/application/util/domain"
	"jsonrpc-client/transport/tcp"
	"net/netip"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	lookuper := domain.NewMapLookuper(map[string][]netip.Addr{
		"node.local": {netip.MustParseAddr("10.0.0.7"), netip.MustParseAddr("10.0.0.8")},
	})

	testcases := []struct {
		desc     string
		host     string
		port     string
		expected tcp.Addr
	}{
		{
			desc:     "ipv4 literal",
			host:     "127.0.0.1",
			port:     "8332",
			expected: tcp.NewAddr(netip.MustParseAddr("127.0.0.1"), 8332),
		},
		{
			desc:     "ipv6 literal",
			host:     "::1",
			port:     "18443",
			expected: tcp.NewAddr(netip.MustParseAddr("::1"), 18443),
		},
		{
			desc:     "bracketed ipv6 literal",
			host:     "[::1]",
			port:     "18443",
			expected: tcp.NewAddr(netip.MustParseAddr("::1"), 18443),
		},
		{
			desc:     "name takes the first address",
			host:     "node.local",
			port:     "8332",
			expected: tcp.NewAddr(netip.MustParseAddr("10.0.0.7"), 8332),
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			addr, err := resolve(context.Background(), lookuper, tc.host, tc.port)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, addr)
		})
	}
}

func TestResolveFails(t *testing.T) {
	lookuper := domain.NewMapLookuper(nil)

	for _, port := range []string{"", "0", "65536", "-1", "http"} {
		_, err := resolve(context.Background(), lookuper, "127.0.0.1", port)

		var usageErr usageError
		assert.True(t, errors.As(err, &usageErr), "port %q", port)
	}

	_, err := resolve(context.Background(), lookuper, "[]", "8332")
	var usageErr usageError
	assert.True(t, errors.As(err, &usageErr))

	_, err = resolve(context.Background(), lookuper, "unknown.local", "8332")
	assert.ErrorIs(t, err, domain.ErrDomainNotFound)

	_, err = resolve(context.Background(), emptyLookuper{}, "node.local", "8332")
	assert.ErrorIs(t, err, domain.ErrDomainNotFound)
}

// emptyLookuper finds every name but never any address.
type emptyLookuper struct{}

func (emptyLookuper) LookupIP(context.Context, string) ([]netip.Addr, error) { return nil, nil }
