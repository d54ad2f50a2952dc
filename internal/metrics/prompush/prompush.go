// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It maps the pipeline's generic counters onto client_golang collectors and
// pushes the registry to a Pushgateway instead of exposing a scrape
// endpoint, which suits batch jobs that exit when the run completes. All
// Prometheus-specific dependencies stay inside this package so the rest of
// the project can swap backends without changes.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"carprep/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // prep_step_total
	stepDuration *prometheus.SummaryVec // prep_step_duration_seconds

	rowCounter   *prometheus.CounterVec // prep_rows_total
	batchCounter prometheus.Counter     // prep_batches_total
}

// NewBackend constructs a Pushgateway backend. jobName becomes the
// Pushgateway "job" grouping key.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "carprep"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prep_step_total",
			Help: "Total pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "prep_step_duration_seconds",
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prep_rows_total",
			Help: "Row-level counts per kind (parsed, bound_dropped, validate_rejected, loaded, etc.).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prep_batches_total",
			Help: "Total insert batches flushed for this job.",
		},
	)

	for name, c := range map[string]prometheus.Collector{
		"step counter":  stepCounter,
		"step summary":  stepDuration,
		"row counter":   rowCounter,
		"batch counter": batchCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		rowCounter:   rowCounter,
		batchCounter: batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "prep_step_total":
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case "prep_rows_total":
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case "prep_batches_total":
		b.batchCounter.Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "prep_step_duration_seconds" {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
