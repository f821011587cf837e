package domain

import (
	"context"
	"maps"
	"net"
	"net/netip"

	"github.com/pkg/errors"
)

var ErrDomainNotFound = errors.New("domain not found")

type Lookuper interface {
	LookupIP(ctx context.Context, domain string) (addrs []netip.Addr, err error)
}

type netLookuper struct {
	r *net.Resolver
}

var _ Lookuper = (*netLookuper)(nil)

// NewNetLookuper looks names up through r.
// nil r means [net.DefaultResolver].
func NewNetLookuper(r *net.Resolver) *netLookuper {
	if r == nil {
		r = net.DefaultResolver
	}
	return &netLookuper{r: r}
}

func (n *netLookuper) LookupIP(ctx context.Context, domain string) ([]netip.Addr, error) {
	addrs, err := n.r.LookupNetIP(ctx, "ip", domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, errors.Wrap(ErrDomainNotFound, err.Error())
		}
		return nil, errors.Wrapf(err, "looking up %s", domain)
	}
	if len(addrs) == 0 {
		return nil, ErrDomainNotFound
	}
	return unmap(addrs), nil
}

// unmap turns IPv4-mapped IPv6 addresses, as found in some hosts files,
// back into plain IPv4 ones.
func unmap(addrs []netip.Addr) []netip.Addr {
	for i := range addrs {
		addrs[i] = addrs[i].Unmap()
	}
	return addrs
}

type mapLookuper struct {
	set map[string][]netip.Addr
}

var _ Lookuper = (*mapLookuper)(nil)

func NewMapLookuper(set map[string][]netip.Addr) *mapLookuper {
	if set == nil {
		set = make(map[string][]netip.Addr)
	}
	return &mapLookuper{set: maps.Clone(set)}
}

func (m *mapLookuper) LookupIP(ctx context.Context, domain string) (addrs []netip.Addr, err error) {
	addrs, ok := m.set[domain]
	if !ok || len(addrs) == 0 {
		return nil, ErrDomainNotFound
	}
	return addrs, nil
}

func (m *mapLookuper) Set(domain string, addrs []netip.Addr) {
	if len(addrs) == 0 {
		return
	}
	m.set[domain] = addrs
}

func (m *mapLookuper) Del(domain string) { delete(m.set, domain) }
