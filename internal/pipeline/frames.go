package pipeline

import (
	"carprep/internal/config"
	"carprep/internal/dataset"
	"carprep/pkg/records"
)

// Frames holds the working set of a prep run. Without a split, every row
// sits in Train and Split is false; fitted transforms then fit and apply on
// the same frame.
type Frames struct {
	Columns []string
	Train   []records.Record
	Test    []records.Record
	Split   bool

	// Scaled lists fields rescaled into [0,1] by a scale step. Sinks that
	// render with dictionary precision must not apply it to these.
	Scaled []string
}

// NewFrames partitions rows per the split config.
func NewFrames(columns []string, rows []records.Record, cfg config.SplitConfig) (Frames, error) {
	if !cfg.Enabled() {
		return Frames{Columns: columns, Train: rows}, nil
	}
	train, test, err := dataset.Split(rows, cfg.TrainFraction, cfg.Seed)
	if err != nil {
		return Frames{}, err
	}
	return Frames{Columns: columns, Train: train, Test: test, Split: true}, nil
}

// Rows returns the total row count across frames.
func (f Frames) Rows() int { return len(f.Train) + len(f.Test) }
