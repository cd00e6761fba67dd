package main

import (
	"github.com/kvanhattum/aaaa-sync/internal/config"
	"github.com/kvanhattum/aaaa-sync/internal/logger"
	"github.com/kvanhattum/aaaa-sync/internal/metrics"
	"github.com/kvanhattum/aaaa-sync/internal/provider/cloudflare"
	"github.com/kvanhattum/aaaa-sync/internal/reconcile"
	"github.com/kvanhattum/aaaa-sync/internal/source"
	"github.com/kvanhattum/aaaa-sync/internal/source/netif"
	"github.com/kvanhattum/aaaa-sync/internal/source/webip"
	"github.com/kvanhattum/aaaa-sync/internal/state"
	"github.com/kvanhattum/aaaa-sync/internal/transport"
)

// loadConfig reads the config file, configures logging from it and
// validates the fields the sync pipeline needs.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Env)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildEngine wires the interface source (with web fallback when endpoints
// are configured) and the Cloudflare provider into a reconcile engine. The
// provider and the fallback share one HTTP client so proxy and timeout
// settings apply to both.
func buildEngine(cfg *config.Config, m *metrics.Metrics) (*reconcile.Engine, error) {
	httpClient, err := transport.New(cfg.HTTP.Proxy, cfg.HTTP.Timeout.Std())
	if err != nil {
		return nil, err
	}

	sources := []source.Source{
		netif.New(cfg.Interface, cfg.Selection.ManualIndex, nil, m),
	}
	if len(cfg.Fallback.Endpoints) > 0 {
		sources = append(sources, webip.New(cfg.Fallback.Endpoints, httpClient, m))
	}
	resolver := source.NewFailover(sources...)

	cf, err := cloudflare.New(cfg.DNS.Token, httpClient, "", m)
	if err != nil {
		return nil, err
	}

	cache := state.New(state.CachePath(cfg.Workdir, cfg.FQDN()), m)
	return reconcile.NewEngine(resolver, cf, cache, cfg, cfg, m), nil
}
