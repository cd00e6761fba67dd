package state

import "context"

// Store persists the last address successfully applied at the DNS provider.
// An empty string means no prior successful run.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, ip string) error
}
