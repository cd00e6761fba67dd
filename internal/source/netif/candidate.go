package netif

import (
	"fmt"
	"net/netip"
	"time"
)

// Scope classifies where an address is reachable from.
type Scope int

const (
	ScopeOther Scope = iota
	ScopeGlobal
)

// State is the address lifecycle reported by the kernel flags.
type State int

const (
	StatePreferredStatic State = iota
	StatePreferredDynamic
	StateDeprecated
)

var uniqueLocal = netip.MustParsePrefix("fc00::/7")

// Candidate is one IPv6 address observed on the interface, together with
// the flags and lifetimes needed to rank it.
type Candidate struct {
	Addr         netip.Addr
	PrefixLen    int
	Scope        Scope
	State        State
	ValidLft     Lifetime
	PreferredLft Lifetime
}

func (c Candidate) Deprecated() bool { return c.State == StateDeprecated }

// UniqueLocal reports membership in fc00::/7 (RFC 4193).
func (c Candidate) UniqueLocal() bool { return uniqueLocal.Contains(c.Addr) }

// Eligible reports whether the address may be published. Only global-scope
// addresses qualify, and neither unique-local nor deprecated ones do.
func (c Candidate) Eligible() bool {
	return c.Scope == ScopeGlobal && !c.UniqueLocal() && !c.Deprecated()
}

// Lifetime is a remaining address lifetime. Forever marks the kernel's
// unbounded sentinel and sorts above every finite value.
type Lifetime struct {
	Secs    uint64
	Forever bool
}

var LifetimeForever = Lifetime{Forever: true}

func Seconds(n uint64) Lifetime { return Lifetime{Secs: n} }

// Cmp orders lifetimes: -1 if l is shorter than other, 0 if equal, 1 if
// longer.
func (l Lifetime) Cmp(other Lifetime) int {
	switch {
	case l.Forever && other.Forever:
		return 0
	case l.Forever:
		return 1
	case other.Forever:
		return -1
	case l.Secs < other.Secs:
		return -1
	case l.Secs > other.Secs:
		return 1
	}
	return 0
}

func (l Lifetime) Duration() time.Duration {
	if l.Forever {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(l.Secs) * time.Second
}

func (l Lifetime) String() string {
	if l.Forever {
		return "forever"
	}
	return fmt.Sprintf("%ds", l.Secs)
}
