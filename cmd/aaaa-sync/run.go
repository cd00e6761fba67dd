package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kvanhattum/aaaa-sync/internal/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Acquire the current IPv6 address and reconcile the DNS record once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		engine, err := buildEngine(cfg, metrics.New(false))
		if err != nil {
			return err
		}

		res, err := engine.Run(cmd.Context())
		if err != nil {
			return err
		}
		slog.Info("Run complete", "action", res.Action, "name", cfg.FQDN(), "ip", res.IP)
		return nil
	},
}
