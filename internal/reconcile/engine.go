package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kvanhattum/aaaa-sync/internal/config"
	"github.com/kvanhattum/aaaa-sync/internal/metrics"
	"github.com/kvanhattum/aaaa-sync/internal/provider"
	"github.com/kvanhattum/aaaa-sync/internal/source"
	"github.com/kvanhattum/aaaa-sync/internal/state"
)

// ZoneStore persists a zone id resolved during a run for reuse by later
// runs.
type ZoneStore interface {
	SaveZoneID(id string) error
}

// Engine drives one full pass from address acquisition through the DNS
// update, skipping the provider entirely when the address matches the last
// applied one. The cache is only written after the provider confirmed the
// change, so a failed run always leaves the next run to try again.
type Engine struct {
	resolver source.Resolver
	provider provider.Provider
	cache    state.Store
	zones    ZoneStore
	cfg      *config.Config
	metrics  *metrics.Metrics
}

func NewEngine(resolver source.Resolver, prov provider.Provider, cache state.Store, zones ZoneStore, cfg *config.Config, metrics *metrics.Metrics) *Engine {
	return &Engine{
		resolver: resolver,
		provider: prov,
		cache:    cache,
		zones:    zones,
		cfg:      cfg,
		metrics:  metrics,
	}
}

func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res, err := e.run(ctx)
	e.metrics.SetRunDuration(time.Since(start))
	e.metrics.IncRun(err == nil)
	return res, err
}

func (e *Engine) run(ctx context.Context) (Result, error) {
	addr, err := e.resolver.Resolve(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("acquire address: %w", err)
	}
	ip := addr.String()

	last, err := e.cache.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load last applied address: %w", err)
	}
	if last == ip {
		slog.Info("Address unchanged since last applied, nothing to do", "ip", ip)
		e.metrics.IncAction(string(ActionUnchanged))
		return Result{Action: ActionUnchanged, IP: ip, ZoneID: e.cfg.DNS.ZoneID}, nil
	}

	res, err := e.ensureRecord(ctx, ip)
	if err != nil {
		return Result{}, err
	}

	if err := e.cache.Save(ctx, ip); err != nil {
		return res, fmt.Errorf("record applied but cache not persisted: %w", err)
	}
	if res.ZoneResolved {
		if err := e.zones.SaveZoneID(res.ZoneID); err != nil {
			slog.Warn("Fail persist resolved zone id, will look it up again next run", "zone_id", res.ZoneID, "error", err)
		}
	}

	e.metrics.IncAction(string(res.Action))
	slog.Info("Reconciled DNS record", "action", res.Action, "name", e.cfg.FQDN(), "ip", ip)
	return res, nil
}
