package storage

import (
	"context"
	"sort"

	"carprep/pkg/records"
)

// Columns returns the sorted union of keys across recs. Useful after
// encoding, when the column set is no longer the dictionary's.
func Columns(recs []records.Record) []string {
	set := map[string]struct{}{}
	for _, r := range recs {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SendRows projects each record onto the columns order and sends it to out.
// Missing fields become nil. The out channel is closed on return so a
// LoadBatches on the other end terminates.
func SendRows(ctx context.Context, columns []string, recs []records.Record, out chan<- []any) error {
	defer close(out)
	for _, r := range recs {
		row := make([]any, len(columns))
		for i, c := range columns {
			if v, ok := r[c]; ok {
				row[i] = v
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- row:
		}
	}
	return nil
}
