package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultWorkdir     = "."
	defaultTTL         = 300
	defaultTimeout     = 10 * time.Second
	defaultInterval    = 5 * time.Minute
	minInterval        = time.Minute
	defaultMetricsAddr = ":9090"
	defaultLogLevel    = "info"
	defaultLogEnv      = "prod"
)

// Public services asked for the current address when the interface yields
// nothing usable.
var defaultEndpoints = []string{
	"https://api6.ipify.org",
	"https://ipv6.icanhazip.com",
}

type Config struct {
	Zone      string    `yaml:"zone"`
	Record    string    `yaml:"record"`
	Interface string    `yaml:"interface"`
	Workdir   string    `yaml:"workdir"`
	DNS       DNS       `yaml:"dns"`
	Selection Selection `yaml:"selection"`
	Fallback  Fallback  `yaml:"fallback"`
	HTTP      HTTP      `yaml:"http"`
	Daemon    Daemon    `yaml:"daemon"`
	Verify    Verify    `yaml:"verify"`
	Log       Log       `yaml:"log"`

	path string
}

type DNS struct {
	Token   string `yaml:"token"`
	TTL     int    `yaml:"ttl"`
	Proxied bool   `yaml:"proxied"`
	ZoneID  string `yaml:"zoneId"`
}

type Selection struct {
	// ManualIndex is a 1-based index into the eligible interface addresses
	// in discovery order. Zero selects automatically by preferred lifetime.
	ManualIndex int `yaml:"manualIndex"`
}

type Fallback struct {
	Endpoints []string `yaml:"endpoints"`
}

type HTTP struct {
	Timeout Duration `yaml:"timeout"`
	Proxy   string   `yaml:"proxy"`
}

type Daemon struct {
	Interval    Duration `yaml:"interval"`
	MetricsAddr string   `yaml:"metricsAddr"`
}

type Verify struct {
	// Resolver is the host:port of the DNS server asked during verify.
	// Empty means the system resolver from /etc/resolv.conf.
	Resolver string `yaml:"resolver"`
}

type Log struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// Duration wraps time.Duration so yaml documents can spell values like
// "30s" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func Load(path string) (*Config, error) {
	cfg := Config{path: path}

	configFile := true
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("fail find config file, proceeding", "path", path)
		configFile = false
	} else if err != nil {
		return nil, err
	}

	if configFile {
		// The file holds the API token, so refuse group or world access.
		if perm := info.Mode().Perm(); perm&0o077 != 0 {
			return nil, fmt.Errorf("config file %s has mode %04o, want 0600 since it holds the API token", path, perm)
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			f.Close()
			return nil, fmt.Errorf("decode config: %w", err)
		}
		if err := f.Close(); err != nil {
			slog.Default().Warn("fail close config file", "path", path, "error", err)
		}
	}

	if cfg.Workdir == "" {
		cfg.Workdir = defaultWorkdir
	}

	if cfg.DNS.TTL == 0 {
		cfg.DNS.TTL = defaultTTL
	}

	if len(cfg.Fallback.Endpoints) == 0 {
		cfg.Fallback.Endpoints = defaultEndpoints
	}

	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = Duration(defaultTimeout)
	}

	if cfg.Daemon.Interval == 0 {
		cfg.Daemon.Interval = Duration(defaultInterval)
	}

	if cfg.Daemon.MetricsAddr == "" {
		cfg.Daemon.MetricsAddr = defaultMetricsAddr
	}

	// Set log defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Env == "" {
		cfg.Log.Env = defaultLogEnv
	}

	// Override from environment if set
	if token := os.Getenv("AAAA_SYNC_CLOUDFLARE_TOKEN"); token != "" {
		cfg.DNS.Token = token
	}
	if zone := os.Getenv("AAAA_SYNC_ZONE"); zone != "" {
		cfg.Zone = zone
	}
	if record := os.Getenv("AAAA_SYNC_RECORD"); record != "" {
		cfg.Record = record
	}
	if iface := os.Getenv("AAAA_SYNC_INTERFACE"); iface != "" {
		cfg.Interface = iface
	}
	if workdir := os.Getenv("AAAA_SYNC_WORKDIR"); workdir != "" {
		cfg.Workdir = workdir
	}
	if index := os.Getenv("AAAA_SYNC_MANUAL_INDEX"); index != "" {
		if n, err := strconv.Atoi(index); err == nil {
			cfg.Selection.ManualIndex = n
		} else {
			slog.Default().Warn("fail parse manual index to int from string", "index", index, "error", err)
		}
	}
	if endpoints := os.Getenv("AAAA_SYNC_ENDPOINTS"); endpoints != "" {
		cfg.Fallback.Endpoints = strings.Split(endpoints, ",")
	}
	if timeout := os.Getenv("AAAA_SYNC_HTTP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.HTTP.Timeout = Duration(d)
		} else {
			slog.Default().Warn("fail parse http timeout to duration from string", "timeout", timeout, "error", err)
		}
	}
	if proxy := os.Getenv("AAAA_SYNC_HTTP_PROXY"); proxy != "" {
		cfg.HTTP.Proxy = proxy
	}
	if interval := os.Getenv("AAAA_SYNC_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Daemon.Interval = Duration(d)
		} else {
			slog.Default().Warn("fail parse sync interval to duration from string", "interval", interval, "error", err)
		}
	}
	if addr := os.Getenv("AAAA_SYNC_METRICS_ADDR"); addr != "" {
		cfg.Daemon.MetricsAddr = addr
	}
	if resolver := os.Getenv("AAAA_SYNC_VERIFY_RESOLVER"); resolver != "" {
		cfg.Verify.Resolver = resolver
	}
	if loglevel := os.Getenv("AAAA_SYNC_LOG_LEVEL"); loglevel != "" {
		cfg.Log.Level = loglevel
	}
	if logenv := os.Getenv("AAAA_SYNC_LOG_ENV"); logenv != "" {
		cfg.Log.Env = logenv
	}

	if cfg.Daemon.Interval.Std() < minInterval {
		slog.Default().Warn("sync interval below minimum, clamping", "interval", cfg.Daemon.Interval.Std(), "min", minInterval)
		cfg.Daemon.Interval = Duration(minInterval)
	}

	return &cfg, nil
}

// Validate checks the fields every command needs before touching the
// network.
func (c *Config) Validate() error {
	if c.Zone == "" {
		return errors.New("zone is required")
	}
	if c.Interface == "" {
		return errors.New("interface is required")
	}
	if c.DNS.Token == "" {
		return errors.New("dns token is required, set dns.token or AAAA_SYNC_CLOUDFLARE_TOKEN")
	}
	if c.Selection.ManualIndex < 0 {
		return fmt.Errorf("selection manualIndex must not be negative, got %d", c.Selection.ManualIndex)
	}
	if c.DNS.TTL < 0 {
		return fmt.Errorf("dns ttl must not be negative, got %d", c.DNS.TTL)
	}
	return nil
}

// FQDN is the fully qualified name of the managed record. An empty or "@"
// record means the zone apex.
func (c *Config) FQDN() string {
	switch {
	case c.Record == "" || c.Record == "@":
		return c.Zone
	case c.Record == c.Zone || strings.HasSuffix(c.Record, "."+c.Zone):
		return c.Record
	}
	return c.Record + "." + c.Zone
}

// Save writes the document back to disk, keeping the token-safe mode.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config path unknown")
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(c.path, out, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveZoneID records a zone id resolved during a run so later runs skip
// the lookup.
func (c *Config) SaveZoneID(id string) error {
	c.DNS.ZoneID = id
	return c.Save()
}
