// Package records defines the generic row representation shared by the
// parser, profiler, transforms, and storage layers.
package records

import (
	"fmt"
	"strconv"
	"time"
)

// Record is a single row keyed by canonical column name. Values are either
// nil (missing), string (as parsed), or a typed value produced by a coerce
// step (int64, float64, bool, time.Time).
type Record map[string]any

// Clone returns a shallow copy of r. Values are not deep-copied; transforms
// that replace values should assign new ones rather than mutate in place.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether the value at key is missing: absent, nil, or an
// empty string.
func (r Record) IsEmpty(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	s, isStr := v.(string)
	return isStr && s == ""
}

// String converts common value types to their canonical string form without
// going through fmt for the hot cases. Missing values render as "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// Float extracts a float64 from typical post-coerce value types. The second
// return is false for missing or non-numeric values.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
