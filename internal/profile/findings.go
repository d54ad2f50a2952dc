package profile

import (
	"fmt"

	"carprep/internal/dataset"
)

// Finding is a single data-quality observation made by comparing the profile
// against the data dictionary.
type Finding struct {
	// Column is empty for dataset-level findings.
	Column string
	// Code is a stable machine-readable identifier.
	Code string
	// Message is the human-readable description.
	Message string
}

// Finding codes.
const (
	CodeWrongType      = "wrong-type"
	CodeShouldBeInt    = "should-be-int"
	CodeNegative       = "negative-values"
	CodeMixedPrecision = "mixed-precision"
	CodeMissingColumn  = "missing-column"
	CodeUnknownColumn  = "unknown-column"
	CodeDuplicates     = "duplicate-rows"
	CodeRequiredEmpty  = "required-empty"
)

// Check compares a profile against the dictionary and returns the
// data-quality findings, in column order with dataset-level findings last.
func Check(p *Profile, dict dataset.Dictionary) []Finding {
	var out []Finding

	seen := make(map[string]bool, len(p.Columns))
	for _, c := range p.Columns {
		seen[c.Name] = true
		f, ok := dict.Field(c.Name)
		if !ok {
			out = append(out, Finding{
				Column:  c.Name,
				Code:    CodeUnknownColumn,
				Message: "column is not part of the data dictionary",
			})
			continue
		}

		if c.Inferred != f.Raw && c.NonEmpty > 0 {
			out = append(out, Finding{
				Column:  c.Name,
				Code:    CodeWrongType,
				Message: fmt.Sprintf("observed type %s, dictionary declares %s", c.Inferred, f.Raw),
			})
		}

		// A float column whose values are all integral should be an integer
		// after cleaning. Report it whether or not the dictionary already
		// knows; the dictionary records the intent, the profile the evidence.
		if f.Raw == dataset.TypeFloat && c.IntegralOnly && f.Target == dataset.TypeInt {
			out = append(out, Finding{
				Column:  c.Name,
				Code:    CodeShouldBeInt,
				Message: "float column holds whole numbers only; should be integer",
			})
		}

		if f.NonNegative && c.Negative > 0 {
			out = append(out, Finding{
				Column:  c.Name,
				Code:    CodeNegative,
				Message: fmt.Sprintf("%d negative values in a non-negative column", c.Negative),
			})
		}

		if f.Precision >= 0 && c.MixedPrecision() {
			out = append(out, Finding{
				Column: c.Name,
				Code:   CodeMixedPrecision,
				Message: fmt.Sprintf("inconsistent decimal precision (%d variants); target is %d decimal place(s)",
					len(c.Precisions), f.Precision),
			})
		}

		if f.Required && c.Missing > 0 {
			out = append(out, Finding{
				Column:  c.Name,
				Code:    CodeRequiredEmpty,
				Message: fmt.Sprintf("%d missing values in a required column", c.Missing),
			})
		}
	}

	for _, f := range dict.Fields {
		if !seen[f.Name] {
			out = append(out, Finding{
				Column:  f.Name,
				Code:    CodeMissingColumn,
				Message: "dictionary column absent from the dataset",
			})
		}
	}

	if p.Duplicates > 0 {
		out = append(out, Finding{
			Code:    CodeDuplicates,
			Message: fmt.Sprintf("%d duplicated rows of %d", p.Duplicates, p.Rows),
		})
	}

	return out
}
