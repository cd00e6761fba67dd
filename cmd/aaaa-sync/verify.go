package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvanhattum/aaaa-sync/internal/config"
	"github.com/kvanhattum/aaaa-sync/internal/dnscheck"
	"github.com/kvanhattum/aaaa-sync/internal/logger"
	"github.com/kvanhattum/aaaa-sync/internal/metrics"
	"github.com/kvanhattum/aaaa-sync/internal/state"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that public DNS answers with the last applied address",
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	// Read-only command, so no token required.
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Env)
	if cfg.Zone == "" {
		return errors.New("zone is required")
	}

	cache := state.New(state.CachePath(cfg.Workdir, cfg.FQDN()), metrics.New(false))
	last, err := cache.Load(cmd.Context())
	if err != nil {
		return err
	}
	if last == "" {
		return fmt.Errorf("no previously applied address for %s, run a sync first", cfg.FQDN())
	}
	want, err := netip.ParseAddr(last)
	if err != nil {
		return fmt.Errorf("parse cached address %q: %w", last, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	res, err := dnscheck.Lookup(ctx, cfg.FQDN(), cfg.Verify.Resolver)
	if err != nil {
		return err
	}
	if len(res.Addrs) == 0 {
		return fmt.Errorf("no AAAA records visible for %s", cfg.FQDN())
	}
	if !res.Contains(want) {
		return fmt.Errorf("DNS answers %v for %s, expected %s", res.Addrs, cfg.FQDN(), want)
	}

	slog.Info("DNS record matches last applied address", "name", cfg.FQDN(), "ip", want, "ttl", res.TTL)
	return nil
}
