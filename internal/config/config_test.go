package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DNS.TTL != 300 {
		t.Errorf("expected default ttl 300, got %d", cfg.DNS.TTL)
	}
	if cfg.HTTP.Timeout.Std() != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %s", cfg.HTTP.Timeout.Std())
	}
	if cfg.Daemon.Interval.Std() != 5*time.Minute {
		t.Errorf("expected default interval 5m, got %s", cfg.Daemon.Interval.Std())
	}
	if len(cfg.Fallback.Endpoints) == 0 {
		t.Error("expected default fallback endpoints")
	}
	if cfg.Log.Level != "info" || cfg.Log.Env != "prod" {
		t.Errorf("expected default log settings, got %+v", cfg.Log)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `zone: example.com
record: home
interface: eth0
dns:
  token: secret
  ttl: 120
  proxied: true
selection:
  manualIndex: 2
http:
  timeout: 30s
daemon:
  interval: 2m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Zone != "example.com" || cfg.Record != "home" || cfg.Interface != "eth0" {
		t.Errorf("unexpected identity fields: %+v", cfg)
	}
	if cfg.DNS.TTL != 120 || !cfg.DNS.Proxied {
		t.Errorf("unexpected dns settings: %+v", cfg.DNS)
	}
	if cfg.Selection.ManualIndex != 2 {
		t.Errorf("expected manual index 2, got %d", cfg.Selection.ManualIndex)
	}
	if cfg.HTTP.Timeout.Std() != 30*time.Second {
		t.Errorf("expected timeout 30s, got %s", cfg.HTTP.Timeout.Std())
	}
	if cfg.Daemon.Interval.Std() != 2*time.Minute {
		t.Errorf("expected interval 2m, got %s", cfg.Daemon.Interval.Std())
	}
}

func TestLoadRejectsOpenPermissions(t *testing.T) {
	path := writeConfig(t, "zone: example.com\n")
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for world-readable config file")
	}
	if !strings.Contains(err.Error(), "0600") {
		t.Errorf("expected permission error, got %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "zone: example.com\ninterface: eth0\n")
	t.Setenv("AAAA_SYNC_CLOUDFLARE_TOKEN", "env-token")
	t.Setenv("AAAA_SYNC_RECORD", "nas")
	t.Setenv("AAAA_SYNC_HTTP_TIMEOUT", "45s")
	t.Setenv("AAAA_SYNC_ENDPOINTS", "https://one.example,https://two.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DNS.Token != "env-token" {
		t.Errorf("expected token from environment, got %q", cfg.DNS.Token)
	}
	if cfg.Record != "nas" {
		t.Errorf("expected record from environment, got %q", cfg.Record)
	}
	if cfg.HTTP.Timeout.Std() != 45*time.Second {
		t.Errorf("expected timeout from environment, got %s", cfg.HTTP.Timeout.Std())
	}
	if len(cfg.Fallback.Endpoints) != 2 || cfg.Fallback.Endpoints[0] != "https://one.example" {
		t.Errorf("expected endpoints from environment, got %v", cfg.Fallback.Endpoints)
	}
}

func TestLoadClampsInterval(t *testing.T) {
	path := writeConfig(t, "daemon:\n  interval: 5s\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Daemon.Interval.Std() != time.Minute {
		t.Errorf("expected interval clamped to 1m, got %s", cfg.Daemon.Interval.Std())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "complete", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing zone", mutate: func(c *Config) { c.Zone = "" }, wantErr: true},
		{name: "missing interface", mutate: func(c *Config) { c.Interface = "" }, wantErr: true},
		{name: "missing token", mutate: func(c *Config) { c.DNS.Token = "" }, wantErr: true},
		{name: "negative index", mutate: func(c *Config) { c.Selection.ManualIndex = -1 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.DNS.TTL = -5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Zone:      "example.com",
				Interface: "eth0",
				DNS:       DNS{Token: "secret", TTL: 300},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFQDN(t *testing.T) {
	tests := []struct {
		name   string
		zone   string
		record string
		want   string
	}{
		{name: "relative record", zone: "example.com", record: "home", want: "home.example.com"},
		{name: "apex via at", zone: "example.com", record: "@", want: "example.com"},
		{name: "apex via empty", zone: "example.com", record: "", want: "example.com"},
		{name: "already qualified", zone: "example.com", record: "home.example.com", want: "home.example.com"},
		{name: "record equals zone", zone: "example.com", record: "example.com", want: "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Zone: tt.zone, Record: tt.record}
			if got := cfg.FQDN(); got != tt.want {
				t.Errorf("FQDN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveZoneID(t *testing.T) {
	path := writeConfig(t, "zone: example.com\ninterface: eth0\ndns:\n  token: secret\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.SaveZoneID("z1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected config saved with mode 0600, got %04o", perm)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.DNS.ZoneID != "z1" {
		t.Errorf("expected zone id persisted, got %q", reloaded.DNS.ZoneID)
	}
	if reloaded.DNS.Token != "secret" {
		t.Errorf("expected token preserved on save, got %q", reloaded.DNS.Token)
	}
}
