// Package profile computes the exploration report for a dataset: per-column
// inferred types, missing-value counts, value counts, descriptive statistics,
// decimal-precision histograms, and whole-dataset duplicate detection.
//
// The profiler is read-only over its input rows and column-oriented inside:
// each column is condensed into its own accumulator, and accumulators run in
// parallel. For the 76k-row listings file a full profile is a single pass.
package profile

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

// Options tune the profiler.
type Options struct {
	// Workers bounds column-level parallelism. 0 means NumCPU.
	Workers int
	// MaxDistinct caps the distinct-value tracking per column. When a column
	// exceeds the cap the count stops and the column is marked capped.
	// 0 means 10000.
	MaxDistinct int
	// TopValues is how many of the most frequent values are kept per column.
	// 0 means 12.
	TopValues int
}

// ValueCount is one entry of a column's value frequency table.
type ValueCount struct {
	Value string
	Count int
}

// NumericSummary holds descriptive statistics for a numeric column, computed
// over non-empty values only.
type NumericSummary struct {
	Min      float64
	Max      float64
	Mean     float64
	Median   float64
	Variance float64
	StdDev   float64
	Q1       float64
	Q3       float64
}

// Column is the profile of a single column.
type Column struct {
	// Name is the canonical column name.
	Name string
	// Inferred is the narrowest type every non-empty value satisfies.
	Inferred dataset.Type
	// NonEmpty and Missing partition the dataset's rows.
	NonEmpty int
	Missing  int
	// Negative counts numeric values < 0.
	Negative int
	// IntegralOnly reports that every numeric value had no fractional part.
	// Only meaningful for numeric columns.
	IntegralOnly bool
	// Precisions is the decimal-places histogram of numeric values
	// (places -> count). A single key means consistent precision.
	Precisions map[int]int
	// Distinct is the number of distinct non-empty values; Capped is set when
	// tracking stopped at Options.MaxDistinct and Distinct is a lower bound.
	Distinct int
	Capped   bool
	// Top holds the most frequent values, descending by count. Empty when
	// tracking was capped.
	Top []ValueCount
	// Stats is present for numeric columns.
	Stats *NumericSummary
}

// MissingPercent returns the column's missing rate over total rows, in
// percent.
func (c Column) MissingPercent(total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100 / float64(total)
}

// MixedPrecision reports whether numeric values were written with more than
// one distinct number of decimal places.
func (c Column) MixedPrecision() bool {
	return len(c.Precisions) > 1
}

// Profile is the full dataset profile.
type Profile struct {
	// Name of the dataset (dictionary name or file stem).
	Name string
	// Columns in source order.
	Columns []Column
	// Rows is the total number of data rows profiled.
	Rows int
	// Duplicates is the number of rows whose full content already occurred
	// earlier in the dataset.
	Duplicates int
}

// Column returns the profile of the named column, or nil.
func (p *Profile) Column(name string) *Column {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i]
		}
	}
	return nil
}

// Run profiles rows. The columns slice fixes the column order of the result;
// rows are records keyed by those names (nil values are missing). Rows are
// not mutated.
func Run(ctx context.Context, name string, columns []string, rows []records.Record, opt Options) (*Profile, error) {
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxDistinct := opt.MaxDistinct
	if maxDistinct <= 0 {
		maxDistinct = 10000
	}
	topN := opt.TopValues
	if topN <= 0 {
		topN = 12
	}

	// Condense to columnar string slices once; accumulators then never touch
	// the shared records.
	cols := make([][]string, len(columns))
	for i := range cols {
		cols[i] = make([]string, len(rows))
	}
	for ri, r := range rows {
		for ci, name := range columns {
			cols[ci][ri] = records.String(r[name])
		}
	}

	out := &Profile{
		Name:    name,
		Columns: make([]Column, len(columns)),
		Rows:    len(rows),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers + 1)

	for i := range columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out.Columns[i] = profileColumn(columns[i], cols[i], maxDistinct, topN)
			return nil
		})
	}

	// Duplicate detection hashes whole rows; it runs alongside the column
	// accumulators.
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.Duplicates = countDuplicates(cols, len(rows))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// countDuplicates hashes each row's cells (joined with an unlikely separator)
// with xxh3 and counts rows whose hash was already seen. Hash collisions
// would undercount distinct rows; with 64-bit hashes over 76k rows that risk
// is negligible.
func countDuplicates(cols [][]string, rows int) int {
	seen := make(map[uint64]struct{}, rows)
	dups := 0
	var b strings.Builder
	for ri := 0; ri < rows; ri++ {
		b.Reset()
		for ci := range cols {
			if ci > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(cols[ci][ri])
		}
		h := xxh3.HashString(b.String())
		if _, ok := seen[h]; ok {
			dups++
			continue
		}
		seen[h] = struct{}{}
	}
	return dups
}

// profileColumn runs the single-column accumulator.
func profileColumn(name string, values []string, maxDistinct, topN int) Column {
	c := Column{
		Name:       name,
		Precisions: map[int]int{},
	}

	counts := make(map[string]int)
	capped := false

	var nums []float64
	integralOnly := true
	sawNumeric := false

	for _, v := range values {
		if v == "" {
			c.Missing++
			continue
		}
		c.NonEmpty++

		if !capped {
			counts[v]++
			if len(counts) > maxDistinct {
				capped = true
				counts = nil
			}
		}

		if places, ok := decimalPlaces(v); ok {
			sawNumeric = true
			c.Precisions[places]++
			if !isIntegralFloat(v) {
				integralOnly = false
			}
			f, _ := records.Float(v)
			nums = append(nums, f)
			if f < 0 {
				c.Negative++
			}
		}
	}

	c.Inferred = InferType(values)
	c.IntegralOnly = sawNumeric && integralOnly
	if !sawNumeric {
		c.Precisions = nil
	}

	if capped {
		c.Capped = true
		c.Distinct = maxDistinct
	} else {
		c.Distinct = len(counts)
		c.Top = topValues(counts, topN)
	}

	// Only keep stats when the column is numeric as a whole; a text column
	// with a few numeric-looking cells gets none.
	if (c.Inferred == dataset.TypeInt || c.Inferred == dataset.TypeFloat) && len(nums) > 0 {
		c.Stats = summarize(nums)
	}
	return c
}

// summarize computes the numeric summary. The input slice is sorted in
// place; it is owned by the accumulator.
func summarize(nums []float64) *NumericSummary {
	sort.Float64s(nums)
	variance := stat.Variance(nums, nil)
	return &NumericSummary{
		Min:      nums[0],
		Max:      nums[len(nums)-1],
		Mean:     stat.Mean(nums, nil),
		Median:   stat.Quantile(0.5, stat.Empirical, nums, nil),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Q1:       stat.Quantile(0.25, stat.Empirical, nums, nil),
		Q3:       stat.Quantile(0.75, stat.Empirical, nums, nil),
	}
}

// topValues returns the topN most frequent values, descending by count, ties
// broken by value for determinism.
func topValues(counts map[string]int, topN int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
