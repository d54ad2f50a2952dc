// Package transform defines the cleaning-step contract and the ordered chain
// the prep pipeline executes. Concrete steps live in the builtin subpackage.
package transform

import (
	"fmt"

	"carprep/pkg/records"
)

// Transformer is a single cleaning step over a batch of records.
//
// Steps may modify record values in place (coercion, imputation) or return a
// shorter slice (bounding, de-duplication, validation); they must not
// reorder surviving rows.
type Transformer interface {
	// Name identifies the step in logs and metrics.
	Name() string
	Apply(in []records.Record) ([]records.Record, error)
}

// Chain is an ordered list of transformers applied front to back.
type Chain []Transformer

// Apply runs every step. The first failing step aborts the chain with its
// name wrapped into the error.
func (c Chain) Apply(in []records.Record) ([]records.Record, error) {
	out := in
	var err error
	for _, t := range c {
		out, err = t.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return out, nil
}
