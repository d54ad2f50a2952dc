package builtin

import "carprep/pkg/records"

// Drop removes the configured fields from every record.
type Drop struct {
	Fields []string
}

func (Drop) Name() string { return "drop" }

// Apply deletes in place and returns the same slice.
func (d Drop) Apply(in []records.Record) ([]records.Record, error) {
	if len(d.Fields) == 0 {
		return in, nil
	}
	for _, r := range in {
		for _, f := range d.Fields {
			delete(r, f)
		}
	}
	return in, nil
}
