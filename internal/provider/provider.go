package provider

import (
	"context"
)

// Provider is the remote DNS API surface the reconciler drives. Zone ids
// come from ZoneID once and are passed back in on every record operation.
type Provider interface {
	ZoneID(ctx context.Context, zone string) (string, error)
	FindRecord(ctx context.Context, zoneID, fqdn string) (*Record, error)
	CreateRecord(ctx context.Context, zoneID string, record Record) error
	UpdateRecord(ctx context.Context, zoneID string, record Record) error
}

// Record is the desired or observed state of the managed AAAA record.
type Record struct {
	ID      string
	Type    string
	Name    string
	Content string
	TTL     int
	Proxied bool
}

// Matches reports whether the remote record already satisfies the desired
// content, TTL and proxied flag. The id is identity, not state, so it does
// not participate.
func (r Record) Matches(desired Record) bool {
	return r.Content == desired.Content && r.TTL == desired.TTL && r.Proxied == desired.Proxied
}
