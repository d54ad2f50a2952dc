// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the profiling and cleaning pipeline.
//
// It exposes a narrow Backend interface (counters plus duration
// observations) and a global, pluggable backend that defaults to a no-op
// implementation, so metric calls are always safe even when nothing is
// configured. Concrete systems live in subpackages; the rest of the code
// depends only on this package.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency plus success/failure for one pipeline step
// (parse, profile, a transform, load).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("prep_step_total", 1, lbls)
	backend.ObserveHistogram("prep_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields:
//   - "parsed"
//   - "parse_dropped"
//   - "bound_dropped"
//   - "dedup_removed"
//   - "validate_rejected"
//   - "loaded"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("prep_rows_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments the flushed-batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("prep_batches_total", float64(delta), Labels{
		"job": job,
	})
}
