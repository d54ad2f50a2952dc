package builtin

import (
	"fmt"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

// RejectedRow carries a dropped record to the optional Reject sink so
// callers can count or persist rejects.
type RejectedRow struct {
	Raw    records.Record
	Reason string
	Stage  string
}

// Validate checks records against the dictionary after coercion: required
// fields present, values of the declared target type, and non-negative
// where the dictionary says so.
//
// Policy "lenient" (default) drops failing rows, reporting each through
// Reject when set; "strict" aborts the chain on the first failure.
type Validate struct {
	Dict   dataset.Dictionary
	Policy string
	Reject func(RejectedRow)
}

func (Validate) Name() string { return "validate" }

// Apply returns the records that pass. Passing records keep their input
// order.
func (v Validate) Apply(in []records.Record) ([]records.Record, error) {
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		reason := v.check(r)
		if reason == "" {
			out = append(out, r)
			continue
		}
		if v.Policy == "strict" {
			return nil, fmt.Errorf("validate: %s", reason)
		}
		if v.Reject != nil {
			// Sinks may retain the record past the chain; hand them a copy.
			v.Reject(RejectedRow{Raw: r.Clone(), Reason: reason, Stage: "validate"})
		}
	}
	return out, nil
}

// check returns an empty string for a valid record, otherwise the first
// failure found in dictionary order.
func (v Validate) check(r records.Record) string {
	for _, f := range v.Dict.Fields {
		empty := r.IsEmpty(f.Name)
		if f.Required && empty {
			return fmt.Sprintf("required field %q missing", f.Name)
		}
		if empty {
			continue
		}
		val := r[f.Name]

		switch f.Target {
		case dataset.TypeInt:
			if _, ok := val.(int64); !ok {
				return fmt.Sprintf("field %q: %v is not an integer", f.Name, val)
			}
		case dataset.TypeFloat:
			switch val.(type) {
			case float64, int64:
			default:
				return fmt.Sprintf("field %q: %v is not numeric", f.Name, val)
			}
		case dataset.TypeBool:
			if _, ok := val.(bool); !ok {
				return fmt.Sprintf("field %q: %v is not a boolean", f.Name, val)
			}
		}

		if f.NonNegative {
			if x, ok := records.Float(val); ok && x < 0 {
				return fmt.Sprintf("field %q: negative value %v", f.Name, val)
			}
		}
	}
	return ""
}
