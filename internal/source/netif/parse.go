package netif

import (
	"net/netip"
	"strconv"
	"strings"
	"unicode"
)

// ParseAddrOutput extracts address candidates from the text printed by
// `ip -6 addr show dev <iface>`. Each inet6 line opens a block and the
// indented line below it carries the lifetimes:
//
//	inet6 2a02:8010:6836::5c4/64 scope global dynamic noprefixroute
//	   valid_lft 285sec preferred_lft 285sec
//
// Lines that do not fit the shape are skipped, never an error: an unknown
// interface or empty output simply yields zero candidates.
func ParseAddrOutput(out string) []Candidate {
	var cands []Candidate
	var cur *Candidate
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch {
		case strings.EqualFold(fields[0], "inet6") && len(fields) >= 2:
			if cur != nil {
				cands = append(cands, *cur)
			}
			cur = parseAddrLine(fields, line)
		case cur != nil && strings.Contains(line, "valid_lft"):
			cur.ValidLft, cur.PreferredLft = parseLifetimeLine(fields)
		}
	}
	if cur != nil {
		cands = append(cands, *cur)
	}
	return cands
}

func parseAddrLine(fields []string, line string) *Candidate {
	addrText, plenText, _ := strings.Cut(fields[1], "/")
	addr, err := netip.ParseAddr(addrText)
	if err != nil || !addr.Is6() || addr.Is4In6() {
		return nil
	}
	c := &Candidate{Addr: addr}
	if plen, err := strconv.Atoi(plenText); err == nil {
		c.PrefixLen = plen
	}
	for i, f := range fields {
		if strings.EqualFold(f, "scope") && i+1 < len(fields) {
			if strings.EqualFold(fields[i+1], "global") {
				c.Scope = ScopeGlobal
			}
			break
		}
	}
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "deprecated"):
		c.State = StateDeprecated
	case strings.Contains(lower, "dynamic"):
		c.State = StatePreferredDynamic
	}
	return c
}

func parseLifetimeLine(fields []string) (valid, preferred Lifetime) {
	for i, f := range fields {
		if i+1 >= len(fields) {
			break
		}
		switch strings.ToLower(f) {
		case "valid_lft":
			valid = parseLifetime(fields[i+1])
		case "preferred_lft":
			preferred = parseLifetime(fields[i+1])
		}
	}
	return valid, preferred
}

// parseLifetime reads a kernel lifetime token: "forever", or an integer with
// a unit suffix such as "299sec". Tokens that still fail to parse after the
// suffix is stripped count as zero remaining lifetime.
func parseLifetime(tok string) Lifetime {
	if strings.EqualFold(tok, "forever") {
		return LifetimeForever
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, tok)
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return Lifetime{}
	}
	return Seconds(n)
}
