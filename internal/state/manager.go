package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kvanhattum/aaaa-sync/internal/metrics"
)

type fileStore struct {
	path    string
	metrics *metrics.Metrics
}

// New returns a Store backed by a single-line text file holding exactly the
// last applied address. A missing file is not an error, it reads as empty.
func New(path string, metrics *metrics.Metrics) Store {
	return &fileStore{path: path, metrics: metrics}
}

// CachePath names the cache file for one managed record inside dir.
func CachePath(dir, fqdn string) string {
	return filepath.Join(dir, fqdn+".last-ip")
}

func (s *fileStore) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cache file %s: %w", s.path, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

func (s *fileStore) Save(ctx context.Context, ip string) error {
	err := os.WriteFile(s.path, []byte(ip+"\n"), 0o644)
	s.metrics.IncCacheWrite(err == nil)
	if err != nil {
		return fmt.Errorf("write cache file %s: %w", s.path, err)
	}
	return nil
}
