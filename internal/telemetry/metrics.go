// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry records submission metrics in Prometheus form and wraps
// each submission in an OpenTelemetry span.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/snapmerge/pkg/types"
)

const defaultNamespace = "snapmerge"

// Submission outcomes used as the "outcome" label.
const (
	OutcomeSucceeded  = "succeeded"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

// Metrics holds the client's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	submissions   *prometheus.CounterVec
	duration      prometheus.Histogram
	selectedFiles prometheus.Gauge
	artifactBytes prometheus.Histogram
}

// NewMetrics registers the collectors on reg. A nil reg gets a fresh
// registry, so repeated calls in one process never collide.
func NewMetrics(cfg types.TelemetryConfig, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "submissions_total",
			Help:      "Conversion submissions by terminal outcome",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "submission_duration_seconds",
			Help:      "Time from submit to terminal state",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		selectedFiles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "selected_files",
			Help:      "Number of files in the current selection",
		}),
		artifactBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "artifact_bytes",
			Help:      "Size of converted PDFs",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 8),
		}),
	}
}

// SetSelected records the current selection size.
func (m *Metrics) SetSelected(n int) {
	if m == nil {
		return
	}
	m.selectedFiles.Set(float64(n))
}

// ObserveSubmission records one submission leaving the in-flight state.
// size is the artifact length and is ignored unless outcome is OutcomeSucceeded.
func (m *Metrics) ObserveSubmission(outcome string, elapsed time.Duration, size int) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if outcome == OutcomeSucceeded {
		m.artifactBytes.Observe(float64(size))
	}
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for pickup by a textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.gatherer)
}
