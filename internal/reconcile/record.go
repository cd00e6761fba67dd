package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kvanhattum/aaaa-sync/internal/provider"
)

// ensureRecord makes the remote record exist with the desired content,
// creating or updating as needed. A remote record that already matches is
// left alone.
func (e *Engine) ensureRecord(ctx context.Context, ip string) (Result, error) {
	res := Result{IP: ip}

	zoneID := e.cfg.DNS.ZoneID
	if zoneID == "" {
		id, err := e.provider.ZoneID(ctx, e.cfg.Zone)
		if err != nil {
			return res, fmt.Errorf("resolve zone %q: %w", e.cfg.Zone, err)
		}
		zoneID = id
		res.ZoneResolved = true
	}
	res.ZoneID = zoneID

	desired := provider.Record{
		Type:    "AAAA",
		Name:    e.cfg.FQDN(),
		Content: ip,
		TTL:     e.cfg.DNS.TTL,
		Proxied: e.cfg.DNS.Proxied,
	}

	existing, err := e.provider.FindRecord(ctx, zoneID, desired.Name)
	if err != nil {
		return res, fmt.Errorf("look up record %q: %w", desired.Name, err)
	}

	switch {
	case existing == nil:
		if err := e.provider.CreateRecord(ctx, zoneID, desired); err != nil {
			return res, fmt.Errorf("create record %q: %w", desired.Name, err)
		}
		res.Action = ActionCreate
	case existing.Matches(desired):
		slog.Info("Remote record already matches, skipping update", "name", desired.Name, "ip", ip)
		res.Action = ActionNoop
	default:
		desired.ID = existing.ID
		if err := e.provider.UpdateRecord(ctx, zoneID, desired); err != nil {
			return res, fmt.Errorf("update record %q: %w", desired.Name, err)
		}
		res.Action = ActionUpdate
	}
	return res, nil
}
