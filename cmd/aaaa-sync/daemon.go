package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kvanhattum/aaaa-sync/internal/metrics"
	"github.com/kvanhattum/aaaa-sync/internal/reconcile"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Reconcile continuously at a fixed interval",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m := metrics.New(true)

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:    cfg.Daemon.MetricsAddr,
		Handler: mux,
	}

	// Start http server in background
	go func() {
		slog.Info("Starting metrics server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engine, err := buildEngine(cfg, m)
	if err != nil {
		return err
	}

	slog.Info("Starting aaaa-sync daemon", "name", cfg.FQDN(), "interval", cfg.Daemon.Interval.Std())

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go runSyncLoop(ctx, wg, engine, cfg.Daemon.Interval.Std())

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("Shutdown signal received")
	cancel()

	serverShutdownCtx, cancelServer := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelServer()
	if err := server.Shutdown(serverShutdownCtx); err != nil {
		slog.Error("Metrics server shutdown error", "error", err)
	}

	// Wait for sync loop to finish
	wg.Wait()
	slog.Info("Daemon shutdown complete")
	return nil
}

func runSyncLoop(ctx context.Context, wg *sync.WaitGroup, engine *reconcile.Engine, interval time.Duration) {
	defer wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if res, err := engine.Run(ctx); err != nil {
			slog.Error("Reconcile run failed", "error", err)
		} else {
			slog.Info("Reconcile run complete", "action", res.Action, "ip", res.IP)
		}

		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			slog.Info("Stopping sync loop")
			return
		}
	}
}
