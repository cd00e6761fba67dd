package netif

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"os/exec"
	"strings"

	"github.com/kvanhattum/aaaa-sync/internal/metrics"
)

// Executor runs the OS command that lists the IPv6 addresses of one
// interface and returns its raw text output.
type Executor interface {
	ShowInterface(ctx context.Context, iface string) (string, error)
}

// IPCommand shells out to iproute2.
type IPCommand struct{}

func (IPCommand) ShowInterface(ctx context.Context, iface string) (string, error) {
	cmd := exec.CommandContext(ctx, "ip", "-6", "addr", "show", "dev", iface)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("ip -6 addr show dev %s: %s: %w", iface, msg, err)
		}
		return "", fmt.Errorf("ip -6 addr show dev %s: %w", iface, err)
	}
	return stdout.String(), nil
}

// Source acquires the published address by inspecting one local interface.
type Source struct {
	iface       string
	manualIndex int
	exec        Executor
	metrics     *metrics.Metrics
}

// New returns an interface-backed address source. A nil executor means the
// real iproute2 command.
func New(iface string, manualIndex int, executor Executor, m *metrics.Metrics) *Source {
	if executor == nil {
		executor = IPCommand{}
	}
	return &Source{iface: iface, manualIndex: manualIndex, exec: executor, metrics: m}
}

func (s *Source) Name() string { return "interface" }

func (s *Source) Resolve(ctx context.Context) (netip.Addr, error) {
	out, err := s.exec.ShowInterface(ctx, s.iface)
	if err != nil {
		s.metrics.IncAcquisition(s.Name(), false)
		return netip.Addr{}, err
	}

	cands := ParseAddrOutput(out)
	slog.Debug("Parsed interface addresses", "interface", s.iface, "candidates", len(cands))

	picked, err := Select(cands, s.manualIndex)
	if err != nil {
		s.metrics.IncAcquisition(s.Name(), false)
		return netip.Addr{}, err
	}

	slog.Info("Selected interface address", "interface", s.iface, "ip", picked.Addr, "preferred_lft", picked.PreferredLft.String())
	s.metrics.IncAcquisition(s.Name(), true)
	return picked.Addr, nil
}
