package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/szaher/mapskey/internal/secrets"
)

// Outcome labels for mapskey_resolutions_total.
const (
	OutcomeOK      = "ok"
	OutcomeMissing = "missing"
	OutcomeError   = "error"
)

// Metrics holds the resolution counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	resolutions    *prometheus.CounterVec
	skippedDefines prometheus.Counter
	lastResolution prometheus.Gauge

	now func() time.Time
}

// NewMetrics creates and registers the resolution metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapskey_resolutions_total",
			Help: "Key resolutions by source and outcome.",
		}, []string{"source", "outcome"}),
		skippedDefines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mapskey_skipped_defines_total",
			Help: "Malformed dart-define tokens skipped while resolving.",
		}),
		lastResolution: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mapskey_last_resolution_timestamp_seconds",
			Help: "Unix time of the last resolution attempt.",
		}),
		now: time.Now,
	}
	m.registry.MustRegister(m.resolutions, m.skippedDefines, m.lastResolution)
	return m
}

// Registry exposes the underlying registry as a gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordResolution records one resolution attempt.
func (m *Metrics) RecordResolution(res secrets.Resolution, err error) {
	outcome := OutcomeOK
	switch {
	case errors.Is(err, secrets.ErrMissingConfiguration):
		outcome = OutcomeMissing
	case err != nil:
		outcome = OutcomeError
	}

	source := string(res.Source)
	if source == "" {
		source = "none"
	}

	m.resolutions.WithLabelValues(source, outcome).Inc()
	m.skippedDefines.Add(float64(len(res.Skipped)))
	m.lastResolution.Set(float64(m.now().Unix()))
}

// WriteTextfile writes all metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
