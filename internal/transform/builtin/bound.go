package builtin

import (
	"carprep/pkg/records"
)

// Threshold is an optional closed interval for one field. Nil ends are
// unbounded.
type Threshold struct {
	Lower *float64
	Upper *float64
}

// Bound drops rows whose numeric values fall outside the configured
// per-field thresholds. Missing and non-numeric values pass; bounding is a
// range filter, not a type check.
type Bound struct {
	Thresholds map[string]Threshold
}

func (Bound) Name() string { return "bound" }

// Apply returns the surviving rows in their original order.
func (b Bound) Apply(in []records.Record) ([]records.Record, error) {
	if len(b.Thresholds) == 0 {
		return in, nil
	}
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		if b.within(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b Bound) within(r records.Record) bool {
	for f, th := range b.Thresholds {
		if r.IsEmpty(f) {
			continue
		}
		x, ok := records.Float(r[f])
		if !ok {
			continue
		}
		if th.Lower != nil && x < *th.Lower {
			return false
		}
		if th.Upper != nil && x > *th.Upper {
			return false
		}
	}
	return true
}
