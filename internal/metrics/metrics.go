package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec // total reconcile runs
	runDuration  prometheus.Histogram   // time per run
	actions      *prometheus.CounterVec // outcome of successful runs
	acquisitions *prometheus.CounterVec // address acquisition attempts
	dnsRequests  *prometheus.CounterVec // dns provider requests
	cacheWrites  *prometheus.CounterVec // last-applied cache writes
}

// Public interface for metrics operations
func (m *Metrics) IncRun(success bool) {
	status := boolToResult(success)
	m.runs.WithLabelValues(status).Inc()
}

func (m *Metrics) SetRunDuration(duration time.Duration) {
	m.runDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncAction(action string) {
	if !isValidAction(action) {
		return
	}
	m.actions.WithLabelValues(action).Inc()
}

func (m *Metrics) IncAcquisition(source string, success bool) {
	if !isValidSource(source) {
		return
	}
	status := boolToResult(success)
	m.acquisitions.WithLabelValues(source, status).Inc()
}

func (m *Metrics) IncDNSRequest(operation string, success bool) {
	if !isValidOperation(operation) {
		return
	}
	status := boolToResult(success)
	m.dnsRequests.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) IncCacheWrite(success bool) {
	status := boolToResult(success)
	m.cacheWrites.WithLabelValues(status).Inc()
}

// Validation helpers
func boolToResult(b bool) string {
	if b {
		return "success"
	}
	return "failure"
}

func isValidOperation(op string) bool {
	switch op {
	case "zone_lookup", "read", "create", "update":
		return true
	}
	return false
}

func isValidAction(action string) bool {
	switch action {
	case "create", "update", "noop", "unchanged":
		return true
	}
	return false
}

func isValidSource(source string) bool {
	switch source {
	case "interface", "webip":
		return true
	}
	return false
}

func New(register bool) *Metrics {
	registry := prometheus.NewRegistry()
	namespace := "aaaa_sync"

	m := &Metrics{
		registry: registry,

		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of reconcile runs",
		}, []string{"status"}),

		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of reconcile runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Outcome of successful reconcile runs",
		}, []string{"action"}),

		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisitions_total",
			Help:      "Total address acquisition attempts",
		}, []string{"source", "status"}),

		dnsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dns_requests_total",
			Help:      "Total DNS provider requests",
		}, []string{"operation", "status"}),

		cacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Total last-applied address cache writes",
		}, []string{"status"}),
	}

	if register {
		registry.MustRegister(
			m.runs,
			m.runDuration,
			m.actions,
			m.acquisitions,
			m.dnsRequests,
			m.cacheWrites,
		)
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
