package builtin

import (
	"math"

	"carprep/pkg/records"
)

// Round normalizes float fields to a fixed number of decimal places, fixing
// the inconsistent-precision columns (mpg and engine_size target one decimal
// place). Integer and missing values pass through.
type Round struct {
	Fields []string
	Places int
}

func (Round) Name() string { return "round" }

// Apply rounds in place and returns the same slice.
func (rd Round) Apply(in []records.Record) ([]records.Record, error) {
	if len(rd.Fields) == 0 {
		return in, nil
	}
	pow := math.Pow10(rd.Places)
	for _, r := range in {
		for _, f := range rd.Fields {
			v, ok := r[f]
			if !ok || v == nil {
				continue
			}
			switch x := v.(type) {
			case float64:
				r[f] = math.Round(x*pow) / pow
			}
		}
	}
	return in, nil
}
