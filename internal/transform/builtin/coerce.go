// Package builtin contains the cleaning steps the prep pipeline assembles
// from configuration. Each step mirrors one documented operation from the
// exploration notes: type coercion, median imputation, threshold bounding,
// precision rounding, de-duplication, model-name fixing, one-hot encoding,
// min-max scaling, column dropping, and dictionary validation.
package builtin

import (
	"strconv"
	"strings"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

// Coerce converts raw string values to each field's target type from the
// data dictionary.
//
// Floats that should be integers are truncated toward zero, not rounded;
// "2016.0" becomes 2016 and a hypothetical "2016.9" would become 2016. That
// matches the documented cleaning step, which only strips the decimal part.
// Boolean targets accept 0/1 (also in float form, "0.0"/"1.0") and the
// usual textual spellings.
//
// Values that fail to convert are left untouched; the validate step decides
// whether they survive.
type Coerce struct {
	Dict dataset.Dictionary
}

func (Coerce) Name() string { return "coerce" }

// Apply coerces in place and returns the same slice.
func (c Coerce) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		for _, f := range c.Dict.Fields {
			v, ok := r[f.Name]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			switch f.Target {
			case dataset.TypeInt:
				if n, ok := toInt(s); ok {
					r[f.Name] = n
				}
			case dataset.TypeFloat:
				if x, err := strconv.ParseFloat(s, 64); err == nil {
					r[f.Name] = x
				}
			case dataset.TypeBool:
				if b, ok := toBool(s); ok {
					r[f.Name] = b
				}
			case dataset.TypeText:
				// already string
			}
		}
	}
	return in, nil
}

// toInt parses an integer, accepting float spellings by truncating the
// fractional part.
func toInt(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(x), true
	}
	return 0, false
}

// toBool parses textual and numeric boolean spellings.
func toBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "yes", "y":
		return true, true
	case "0", "f", "false", "no", "n":
		return false, true
	}
	// Float-encoded flags: "1.0" / "0.0".
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		switch x {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	}
	return false, false
}
