package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"carprep/internal/dataset"
	"carprep/internal/profile"
)

// WriteHTML renders the profile as a single HTML page of charts: a
// missing-rate bar across all columns, one box plot per numeric column,
// and a top-values bar per categorical column.
func WriteHTML(path string, p *profile.Profile, dict dataset.Dictionary) error {
	page := components.NewPage()
	page.PageTitle = p.Name + " profile"

	page.AddCharts(missingChart(p))

	if bp := boxPlot(p); bp != nil {
		page.AddCharts(bp)
	}

	for _, c := range p.Columns {
		f, ok := dict.Field(c.Name)
		if ok && f.Role != dataset.RoleCategorical {
			continue
		}
		if len(c.Top) == 0 {
			continue
		}
		page.AddCharts(topValuesChart(c))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render: %w", err)
	}
	return f.Close()
}

func missingChart(p *profile.Profile) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Missing values",
			Subtitle: fmt.Sprintf("%d rows", p.Rows),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "missing %"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(p.Columns))
	vals := make([]opts.BarData, 0, len(p.Columns))
	for _, c := range p.Columns {
		names = append(names, c.Name)
		vals = append(vals, opts.BarData{Value: round2(c.MissingPercent(p.Rows))})
	}
	bar.SetXAxis(names).AddSeries("missing %", vals)
	return bar
}

// boxPlot draws every numeric column's five-number summary in one chart.
// Returns nil when the profile has no numeric columns.
func boxPlot(p *profile.Profile) *charts.BoxPlot {
	var names []string
	var data []opts.BoxPlotData
	for _, c := range p.Columns {
		if c.Stats == nil {
			continue
		}
		s := c.Stats
		names = append(names, c.Name)
		data = append(data, opts.BoxPlotData{
			Value: []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max},
		})
	}
	if len(names) == 0 {
		return nil
	}

	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Numeric columns"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bp.SetXAxis(names).AddSeries("summary", data)
	return bp
}

func topValuesChart(c profile.Column) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    c.Name,
			Subtitle: fmt.Sprintf("%d distinct values", c.Distinct),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(c.Top))
	vals := make([]opts.BarData, 0, len(c.Top))
	for _, vc := range c.Top {
		names = append(names, vc.Value)
		vals = append(vals, opts.BarData{Value: vc.Count})
	}
	bar.SetXAxis(names).AddSeries("count", vals)
	return bar
}

func round2(x float64) float64 {
	return float64(int(x*100+0.5)) / 100
}
