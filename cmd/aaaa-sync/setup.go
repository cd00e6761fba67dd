package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"syscall"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kvanhattum/aaaa-sync/internal/config"
	"github.com/kvanhattum/aaaa-sync/internal/logger"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store the Cloudflare API token after verifying it",
	Long: `setup prompts for a Cloudflare API token without echoing it, checks the
token against the Cloudflare API and writes it into the config file with
owner-only permissions.`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	// No Validate here: setup may run before zone and interface are filled
	// in.
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Env)

	fmt.Print("Enter Cloudflare API token: ")
	byteToken, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read token from terminal: %w", err)
	}
	token := strings.TrimSpace(string(byteToken))
	if token == "" {
		return fmt.Errorf("empty token")
	}

	api, err := cloudflare.NewWithAPIToken(token)
	if err != nil {
		return fmt.Errorf("create cloudflare client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	result, err := api.VerifyAPIToken(ctx)
	if err != nil {
		return fmt.Errorf("verify api token: %w", err)
	}
	if result.Status != "active" {
		return fmt.Errorf("expected api token status %q, got %q", "active", result.Status)
	}
	slog.Info("Token verified with Cloudflare")

	cfg.DNS.Token = token
	if err := cfg.Save(); err != nil {
		return err
	}
	slog.Info("Config written", "path", configPath)
	return nil
}
