package metrics

import (
	"errors"
	"testing"
	"time"
)

type capture struct {
	counters   map[string]float64
	histograms map[string][]float64
	labels     map[string]Labels
	flushed    int
}

func newCapture() *capture {
	return &capture{
		counters:   map[string]float64{},
		histograms: map[string][]float64{},
		labels:     map[string]Labels{},
	}
}

func (c *capture) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *capture) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms[name] = append(c.histograms[name], value)
	c.labels[name] = labels
}

func (c *capture) Flush() error {
	c.flushed++
	return nil
}

func withBackend(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestRecordStep(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	RecordStep("car_listings", "coerce", nil, 50*time.Millisecond)
	RecordStep("car_listings", "coerce", errors.New("boom"), time.Millisecond)

	if c.counters["prep_step_total"] != 2 {
		t.Fatalf("prep_step_total = %v", c.counters["prep_step_total"])
	}
	if len(c.histograms["prep_step_duration_seconds"]) != 2 {
		t.Fatalf("histograms = %v", c.histograms)
	}
	// Last call failed, so the last label set carries status failure.
	if c.labels["prep_step_total"]["status"] != "failure" {
		t.Fatalf("labels = %v", c.labels["prep_step_total"])
	}
}

func TestRecordRows(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	RecordRows("car_listings", "parsed", 75973)
	RecordRows("car_listings", "parsed", 0)
	RecordRows("car_listings", "parsed", -5)

	if c.counters["prep_rows_total"] != 75973 {
		t.Fatalf("prep_rows_total = %v, non-positive deltas must be ignored", c.counters["prep_rows_total"])
	}
	if c.labels["prep_rows_total"]["kind"] != "parsed" {
		t.Fatalf("labels = %v", c.labels["prep_rows_total"])
	}
}

func TestRecordBatches(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	RecordBatches("car_listings", 3)
	RecordBatches("car_listings", 0)

	if c.counters["prep_batches_total"] != 3 {
		t.Fatalf("prep_batches_total = %v", c.counters["prep_batches_total"])
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	SetBackend(nil)
	RecordBatches("car_listings", 1)
	if c.counters["prep_batches_total"] != 1 {
		t.Fatal("nil backend must not replace the installed one")
	}
}

func TestFlushDelegates(t *testing.T) {
	c := newCapture()
	withBackend(t, c)

	if err := Flush(); err != nil {
		t.Fatal(err)
	}
	if c.flushed != 1 {
		t.Fatalf("flushed = %d", c.flushed)
	}
}
