package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
)

// Failover resolves the current address by trying each source in order and
// returning the first success. A source failing is not fatal while another
// source remains, only the exhaustion of the whole chain is.
type Failover struct {
	sources []Source
}

func NewFailover(sources ...Source) *Failover {
	return &Failover{sources: sources}
}

func (f *Failover) Resolve(ctx context.Context) (netip.Addr, error) {
	var errs []error
	for _, src := range f.sources {
		addr, err := src.Resolve(ctx)
		if err != nil {
			slog.Warn("Address source failed, trying next", "source", src.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		slog.Info("Acquired current address", "source", src.Name(), "ip", addr)
		return addr, nil
	}
	return netip.Addr{}, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
}
