package builtin

import (
	"carprep/pkg/records"
)

// Scale min-max scales numeric fields into [0,1] using ranges fitted on the
// training rows; the test frame is scaled with the train ranges so its
// values are comparable (and may legitimately fall outside [0,1]).
//
// Constant fields (min == max) are left unscaled rather than divided by
// zero.
type Scale struct {
	// Min and Max are the fitted per-field ranges.
	Min map[string]float64
	Max map[string]float64
}

// FitScale computes per-field min/max over the training rows. Fields with
// no numeric values are skipped.
func FitScale(train []records.Record, fields []string) Scale {
	min := make(map[string]float64, len(fields))
	max := make(map[string]float64, len(fields))
	for _, f := range fields {
		first := true
		var lo, hi float64
		for _, r := range train {
			x, ok := records.Float(r[f])
			if !ok {
				continue
			}
			if first {
				lo, hi = x, x
				first = false
				continue
			}
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
		}
		if first {
			continue
		}
		min[f] = lo
		max[f] = hi
	}
	return Scale{Min: min, Max: max}
}

func (Scale) Name() string { return "scale" }

// Apply scales in place and returns the same slice. Scaled values are
// float64 regardless of the field's pre-scale type.
func (sc Scale) Apply(in []records.Record) ([]records.Record, error) {
	if len(sc.Min) == 0 {
		return in, nil
	}
	for _, r := range in {
		for f, lo := range sc.Min {
			hi := sc.Max[f]
			if hi == lo {
				continue
			}
			x, ok := records.Float(r[f])
			if !ok {
				continue
			}
			r[f] = (x - lo) / (hi - lo)
		}
	}
	return in, nil
}
