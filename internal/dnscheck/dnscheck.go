package dnscheck

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

// Result holds the answer of one AAAA lookup.
type Result struct {
	Addrs []netip.Addr
	// TTL is the shortest remaining TTL across the answers, a hint for how
	// long stale data may persist in caches.
	TTL time.Duration
}

// Contains reports whether addrs include ip.
func (r Result) Contains(ip netip.Addr) bool {
	for _, a := range r.Addrs {
		if a == ip {
			return true
		}
	}
	return false
}

// Lookup queries server (host:port) for the AAAA records of fqdn. An empty
// server means the first resolver from /etc/resolv.conf, falling back to
// 1.1.1.1 when that cannot be read.
func Lookup(ctx context.Context, fqdn, server string) (Result, error) {
	if server == "" {
		server = systemResolver()
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(fqdn), dns.TypeAAAA)

	c := new(dns.Client)
	reply, _, err := c.ExchangeContext(ctx, m, server)
	if err != nil {
		return Result{}, fmt.Errorf("query %s: %w", server, err)
	}
	if reply.Rcode != dns.RcodeSuccess {
		return Result{}, fmt.Errorf("query %s: rcode %s", server, dns.RcodeToString[reply.Rcode])
	}

	var res Result
	var minTTL uint32
	for _, ans := range reply.Answer {
		rr, ok := ans.(*dns.AAAA)
		if !ok {
			continue
		}
		addr, ok := netip.AddrFromSlice(rr.AAAA)
		if !ok {
			continue
		}
		res.Addrs = append(res.Addrs, addr.Unmap())
		if minTTL == 0 || rr.Hdr.Ttl < minTTL {
			minTTL = rr.Hdr.Ttl
		}
	}
	res.TTL = time.Duration(minTTL) * time.Second
	return res, nil
}

func systemResolver() string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return "1.1.1.1:53"
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}
