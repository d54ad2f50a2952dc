// Package report renders dataset profiles for humans: a Markdown summary
// mirroring the exploration notes, and an HTML page of charts.
package report

import (
	"fmt"
	"strings"

	"carprep/internal/dataset"
	"carprep/internal/profile"
)

// Markdown renders the profile as a Markdown document: dataset overview,
// data dictionary with observed missing rates, numeric summaries, top
// values for categorical columns, and the findings list.
func Markdown(p *profile.Profile, dict dataset.Dictionary, findings []profile.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	fmt.Fprintf(&b, "Rows: %d, columns: %d, duplicate rows: %d.\n\n", p.Rows, len(p.Columns), p.Duplicates)

	b.WriteString("## Columns\n\n")
	b.WriteString("| column | role | type | target | missing | missing % |\n")
	b.WriteString("| --- | --- | --- | --- | ---: | ---: |\n")
	for _, c := range p.Columns {
		role, raw, target := "", string(c.Inferred), string(c.Inferred)
		if f, ok := dict.Field(c.Name); ok {
			role, raw, target = string(f.Role), string(f.Raw), string(f.Target)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %.2f |\n",
			c.Name, role, raw, target, c.Missing, c.MissingPercent(p.Rows))
	}
	b.WriteString("\n")

	b.WriteString("## Numeric summaries\n\n")
	b.WriteString("| column | min | q1 | median | q3 | max | mean | std dev |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: | ---: | ---: |\n")
	for _, c := range p.Columns {
		if c.Stats == nil {
			continue
		}
		s := c.Stats
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			c.Name, num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max), num(s.Mean), num(s.StdDev))
	}
	b.WriteString("\n")

	wroteHeader := false
	for _, c := range p.Columns {
		f, ok := dict.Field(c.Name)
		if ok && f.Role != dataset.RoleCategorical {
			continue
		}
		if len(c.Top) == 0 {
			continue
		}
		if !wroteHeader {
			b.WriteString("## Value counts\n\n")
			wroteHeader = true
		}
		fmt.Fprintf(&b, "### %s (%d distinct)\n\n", c.Name, c.Distinct)
		for _, vc := range c.Top {
			fmt.Fprintf(&b, "- %s: %d\n", vc.Value, vc.Count)
		}
		b.WriteString("\n")
	}

	if len(findings) > 0 {
		b.WriteString("## Findings\n\n")
		for _, f := range findings {
			if f.Column != "" {
				fmt.Fprintf(&b, "- `%s` %s: %s\n", f.Column, f.Code, f.Message)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", f.Code, f.Message)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// num trims trailing zeros so tables stay readable across integer-valued
// and fractional columns.
func num(x float64) string {
	s := fmt.Sprintf("%.2f", x)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
