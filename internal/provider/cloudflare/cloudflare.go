package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cloudflare/cloudflare-go"

	"github.com/kvanhattum/aaaa-sync/internal/metrics"
	"github.com/kvanhattum/aaaa-sync/internal/provider"
)

type CloudflareProvider struct {
	client  *cloudflare.API
	metrics *metrics.Metrics
}

// New builds the Cloudflare client from an API token. The HTTP client is
// shared with the rest of the process so proxy and timeout settings apply
// here too. baseURL overrides the API endpoint and exists for tests; empty
// means the real API.
func New(token string, httpClient *http.Client, baseURL string, metrics *metrics.Metrics) (*CloudflareProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("cloudflare API token required")
	}

	var opts []cloudflare.Option
	if httpClient != nil {
		opts = append(opts, cloudflare.HTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, cloudflare.BaseURL(baseURL))
	}

	client, err := cloudflare.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloudflare client: %w", err)
	}

	return &CloudflareProvider{client: client, metrics: metrics}, nil
}

func (p *CloudflareProvider) ZoneID(ctx context.Context, zone string) (string, error) {
	slog.Info("Looking up zone id", "zone", zone)
	start := time.Now()

	zones, err := p.client.ListZones(ctx, zone)
	if err != nil {
		p.metrics.IncDNSRequest("zone_lookup", false)
		return "", classify("zone lookup", err)
	}
	p.metrics.IncDNSRequest("zone_lookup", true)

	if len(zones) == 0 {
		return "", fmt.Errorf("%w: %s", provider.ErrZoneNotFound, zone)
	}

	slog.Debug("Resolved zone id", "zone", zone, "zone_id", zones[0].ID, "duration", time.Since(start))
	return zones[0].ID, nil
}

func (p *CloudflareProvider) FindRecord(ctx context.Context, zoneID, fqdn string) (*provider.Record, error) {
	slog.Debug("Looking up DNS record", "zone_id", zoneID, "name", fqdn)
	start := time.Now()

	params := cloudflare.ListDNSRecordsParams{
		Type: "AAAA",
		Name: fqdn,
	}
	records, _, err := p.client.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), params)
	if err != nil {
		p.metrics.IncDNSRequest("read", false)
		return nil, classify("record lookup", err)
	}
	p.metrics.IncDNSRequest("read", true)

	if len(records) == 0 {
		slog.Debug("No existing DNS record", "zone_id", zoneID, "name", fqdn, "duration", time.Since(start))
		return nil, nil
	}

	r := records[0]
	slog.Debug("Found DNS record", "zone_id", zoneID, "name", fqdn, "content", r.Content, "duration", time.Since(start))
	return &provider.Record{
		ID:      r.ID,
		Type:    r.Type,
		Name:    r.Name,
		Content: r.Content,
		TTL:     r.TTL,
		Proxied: r.Proxied != nil && *r.Proxied,
	}, nil
}

func (p *CloudflareProvider) CreateRecord(ctx context.Context, zoneID string, record provider.Record) error {
	slog.Info("Creating DNS record", "zone_id", zoneID, "name", record.Name, "type", record.Type, "content", record.Content)
	start := time.Now()

	params := cloudflare.CreateDNSRecordParams{
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
		TTL:     record.TTL,
		Proxied: cloudflare.BoolPtr(record.Proxied),
	}

	_, err := p.client.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), params)
	if err != nil {
		p.metrics.IncDNSRequest("create", false)
		return classify("record create", err)
	}

	p.metrics.IncDNSRequest("create", true)
	slog.Debug("Created DNS record", "zone_id", zoneID, "name", record.Name, "duration", time.Since(start))
	return nil
}

func (p *CloudflareProvider) UpdateRecord(ctx context.Context, zoneID string, record provider.Record) error {
	slog.Info("Updating DNS record", "zone_id", zoneID, "name", record.Name, "type", record.Type, "content", record.Content)
	start := time.Now()

	params := cloudflare.UpdateDNSRecordParams{
		ID:      record.ID,
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
		TTL:     record.TTL,
		Proxied: cloudflare.BoolPtr(record.Proxied),
	}

	_, err := p.client.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), params)
	if err != nil {
		p.metrics.IncDNSRequest("update", false)
		return classify("record update", err)
	}

	p.metrics.IncDNSRequest("update", true)
	slog.Debug("Updated DNS record", "zone_id", zoneID, "name", record.Name, "duration", time.Since(start))
	return nil
}

// classify sorts API failures into the reconciler's taxonomy. Failures at
// the network layer surface as *url.Error or context errors and become
// TransportError; anything the API actually answered becomes UpstreamError.
func classify(op string, err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &provider.TransportError{Op: op, Err: err}
	}
	return &provider.UpstreamError{Op: op, Err: err}
}
