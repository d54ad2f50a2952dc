// Package csvout writes cleaned frames back to CSV.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

// Writer renders records to a CSV file. Float formatting follows the
// dictionary: a field with Precision set is written with that many decimal
// places, so a one-decimal column round-trips as "49.6" rather than
// "49.600000000000001".
type Writer struct {
	Dict dataset.Dictionary

	precision map[string]int
}

// NewWriter builds a Writer with the dictionary's precision hints.
func NewWriter(dict dataset.Dictionary) *Writer {
	prec := map[string]int{}
	for _, f := range dict.Fields {
		if f.Precision > 0 {
			prec[f.Name] = f.Precision
		}
	}
	return &Writer{Dict: dict, precision: prec}
}

// SkipPrecision drops the fixed-precision rendering for fields. Scaled
// fields no longer carry the raw file's decimal resolution; writing them
// with the dictionary precision would quantize [0,1] values to a handful of
// buckets.
func (w *Writer) SkipPrecision(fields []string) {
	for _, f := range fields {
		delete(w.precision, f)
	}
}

// WriteFile writes header plus one line per record to path, creating or
// truncating it.
func (w *Writer) WriteFile(path string, columns []string, recs []records.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		f.Close()
		return err
	}

	line := make([]string, len(columns))
	for _, r := range recs {
		for i, c := range columns {
			line[i] = w.format(c, r[c])
		}
		if err := cw.Write(line); err != nil {
			f.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w *Writer) format(column string, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if p, ok := w.precision[column]; ok {
			return strconv.FormatFloat(x, 'f', p, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return records.String(v)
	}
}
