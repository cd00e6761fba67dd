package webip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"

	"github.com/kvanhattum/aaaa-sync/internal/metrics"
)

// Client acquires the current address by asking external "what is my IP"
// services. Endpoints are tried in configured order and the first response
// that parses as a global IPv6 address wins. An endpoint that fails or
// answers with something unusable is skipped, not fatal.
type Client struct {
	endpoints []string
	http      *http.Client
	metrics   *metrics.Metrics
}

func New(endpoints []string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoints: endpoints, http: httpClient, metrics: m}
}

func (c *Client) Name() string { return "webip" }

func (c *Client) Resolve(ctx context.Context) (netip.Addr, error) {
	if len(c.endpoints) == 0 {
		return netip.Addr{}, errors.New("no fallback endpoints configured")
	}
	for _, endpoint := range c.endpoints {
		addr, err := c.lookup(ctx, endpoint)
		if err != nil {
			slog.Warn("Fallback endpoint failed", "endpoint", endpoint, "error", err)
			continue
		}
		slog.Info("Fallback endpoint answered", "endpoint", endpoint, "ip", addr)
		c.metrics.IncAcquisition(c.Name(), true)
		return addr, nil
	}
	c.metrics.IncAcquisition(c.Name(), false)
	return netip.Addr{}, errors.New("no fallback endpoint returned a usable IPv6 address")
}

func (c *Client) lookup(ctx context.Context, endpoint string) (netip.Addr, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return netip.Addr{}, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return netip.Addr{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return netip.Addr{}, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return netip.Addr{}, err
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(string(body)))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parse response body: %w", err)
	}
	if !addr.Is6() || addr.Is4In6() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv6 address", addr)
	}
	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return netip.Addr{}, fmt.Errorf("%s is not a global unicast address", addr)
	}
	return addr, nil
}
