package builtin

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"carprep/pkg/records"
)

// Impute fills missing values: metric fields get the median observed on the
// training rows, boolean fields get false (the notes fill bool features with
// 0). Fit on train, apply to both train and test, so the test frame never
// leaks its own statistics into the fill values.
type Impute struct {
	// Fill maps field name -> fill value.
	Fill map[string]any
}

// FitImpute computes fill values from the training rows. Metric fields use
// the median of their non-missing numeric values; fields with no usable
// values get no fill. Bool fields always fill with false.
func FitImpute(train []records.Record, metricFields, boolFields []string) Impute {
	fill := make(map[string]any, len(metricFields)+len(boolFields))

	for _, f := range metricFields {
		var vals []float64
		for _, r := range train {
			if r.IsEmpty(f) {
				continue
			}
			if x, ok := records.Float(r[f]); ok {
				vals = append(vals, x)
			}
		}
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		fill[f] = stat.Quantile(0.5, stat.Empirical, vals, nil)
	}

	for _, f := range boolFields {
		fill[f] = false
	}

	return Impute{Fill: fill}
}

func (Impute) Name() string { return "impute" }

// Apply fills in place and returns the same slice.
func (im Impute) Apply(in []records.Record) ([]records.Record, error) {
	if len(im.Fill) == 0 {
		return in, nil
	}
	for _, r := range in {
		for f, v := range im.Fill {
			if r.IsEmpty(f) {
				r[f] = v
			}
		}
	}
	return in, nil
}
