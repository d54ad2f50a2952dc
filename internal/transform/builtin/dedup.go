package builtin

import (
	"strings"

	"github.com/zeebo/xxh3"

	"carprep/pkg/records"
)

// DeDup collapses duplicate rows.
//
// The key is the xxh3 hash of the configured key fields' canonical string
// forms, joined with an unlikely separator; with no Keys configured the
// whole row (over Columns order) is the key. Policy selects the winner:
//
//   - "keep-first" (default): keep the earliest occurrence
//   - "keep-last":            keep the latest occurrence
//
// The exploration notes found 0 duplicates in 75,973 rows, so on the real
// dataset this step is a verification pass that leaves the row count
// unchanged.
type DeDup struct {
	// Columns is the full column order, used when Keys is empty.
	Columns []string
	// Keys optionally restricts the identity to specific fields.
	Keys []string
	// Policy is "keep-first" or "keep-last"; empty means keep-first.
	Policy string
}

func (DeDup) Name() string { return "dedup" }

// Apply returns the winning records. For keep-first the output preserves
// input order; for keep-last each winner sits at its key's first position.
func (d DeDup) Apply(in []records.Record) ([]records.Record, error) {
	keys := d.Keys
	if len(keys) == 0 {
		keys = d.Columns
	}
	if len(keys) == 0 || len(in) == 0 {
		return in, nil
	}

	policy := d.Policy
	if policy == "" {
		policy = "keep-first"
	}

	var b strings.Builder
	keyOf := func(r records.Record) uint64 {
		b.Reset()
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(records.String(r[k]))
		}
		return xxh3.HashString(b.String())
	}

	slot := make(map[uint64]int, len(in)) // key -> index into out
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		k := keyOf(r)
		if i, ok := slot[k]; ok {
			if policy == "keep-last" {
				out[i] = r
			}
			continue
		}
		slot[k] = len(out)
		out = append(out, r)
	}
	return out, nil
}
