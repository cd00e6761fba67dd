package source

import (
	"context"
	"net/netip"
)

// Resolver produces the single IPv6 address a run should publish.
type Resolver interface {
	Resolve(ctx context.Context) (netip.Addr, error)
}

// Source is one way of acquiring the current address. Sources are tried in
// priority order by Failover; failures of earlier sources are soft.
type Source interface {
	Name() string
	Resolve(ctx context.Context) (netip.Addr, error)
}
