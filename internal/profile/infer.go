package profile

import (
	"strconv"
	"strings"

	"carprep/internal/dataset"
)

// InferType guesses the narrowest type among integer, boolean, real, and
// text that every non-empty value in the column satisfies. Empty columns are
// text.
//
// Integer is checked before boolean so that numeric 0/1 columns stay
// integer; the raw file encodes hasDamage as 0.0/1.0 floats, and the
// dictionary (not inference) decides that it is really a boolean.
func InferType(values []string) dataset.Type {
	nonEmpty := nonEmptyTrimmed(values)
	if len(nonEmpty) == 0 {
		return dataset.TypeText
	}
	if allMatch(nonEmpty, isInt) {
		return dataset.TypeInt
	}
	if allMatch(nonEmpty, isBool) {
		return dataset.TypeBool
	}
	if allMatch(nonEmpty, isNumeric) {
		return dataset.TypeFloat
	}
	return dataset.TypeText
}

// nonEmptyTrimmed returns the non-empty, trimmed values.
func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// allMatch reports whether every value satisfies fn.
func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

// isBool accepts common textual booleans and 1/0.
func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "t", "f", "yes", "no", "y", "n", "1", "0":
		return true
	default:
		return false
	}
}

// isInt requires a signed base-10 integer that fits in int64.
func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isNumeric accepts anything ParseFloat does, integer spellings included; a
// column of mixed "1" and "2.5" is real. Pure integer columns never reach
// this check because the integer test runs first.
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// decimalPlaces returns the number of digits after the decimal point in the
// plain-notation numeric string s, and ok=false for non-numeric or
// scientific-notation values (those do not contribute to the precision
// histogram).
func decimalPlaces(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if strings.ContainsAny(s, "eE") {
		return 0, false
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return 0, false
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0, true
	}
	return len(s) - dot - 1, true
}

// isIntegralFloat reports whether the numeric string has no fractional part
// once parsed ("2016.0" -> true, "2016.5" -> false).
func isIntegralFloat(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return f == float64(int64(f))
}
