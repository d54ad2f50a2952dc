// Package pipeline wires configuration, data sources, parsing, the
// transform chain, and storage into runnable profile and prep flows. The
// CLI layer stays thin: it decodes a pipeline file, validates it, and calls
// into this package.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"carprep/internal/config"
	"carprep/internal/datasource"
	"carprep/internal/datasource/file"
	"carprep/internal/datasource/httpds"
	"carprep/internal/metrics"
	csvparser "carprep/internal/parser/csv"
	"carprep/pkg/records"
)

// OpenSource builds the datasource.Source described by cfg.
func OpenSource(cfg config.Source) (datasource.Source, error) {
	switch cfg.Kind {
	case "file", "":
		if cfg.File.Path == "" {
			return nil, fmt.Errorf("source: file.path is required")
		}
		return file.NewLocal(cfg.File.Path), nil
	case "http":
		if cfg.HTTP.URL == "" {
			return nil, fmt.Errorf("source: http.url is required")
		}
		client := httpds.NewClient(httpds.Config{InsecureSkipVerify: cfg.HTTP.InsecureTLS})
		return httpds.NewRemote(client, cfg.HTTP.URL), nil
	default:
		return nil, fmt.Errorf("source: unknown kind %q", cfg.Kind)
	}
}

// PeekHeader samples the head of an HTTP source and returns the canonical
// header, letting remote runs sanity-check the schema before downloading
// the whole file. Returns nil for non-HTTP sources.
func PeekHeader(ctx context.Context, p config.Pipeline, n int) ([]string, error) {
	if p.Source.Kind != "http" {
		return nil, nil
	}
	client := httpds.NewClient(httpds.Config{InsecureSkipVerify: p.Source.HTTP.InsecureTLS})
	sample, err := client.FetchFirstBytes(ctx, p.Source.HTTP.URL, n)
	if err != nil {
		return nil, err
	}
	return csvparser.HeaderFromSample(sample, p.Parser.Options)
}

// LoadRows opens the configured source and reads the whole dataset into
// memory: canonical column order, rows, and the count of soft-dropped
// malformed lines.
func LoadRows(ctx context.Context, p config.Pipeline) ([]string, []records.Record, int, error) {
	src, err := OpenSource(p.Source)
	if err != nil {
		return nil, nil, 0, err
	}

	start := time.Now()
	rc, err := src.Open(ctx)
	if err != nil {
		metrics.RecordStep(p.Job, "read", err, time.Since(start))
		return nil, nil, 0, err
	}
	defer rc.Close()

	columns, rows, dropped, err := csvparser.ReadAll(ctx, rc, p.Parser.Options)
	metrics.RecordStep(p.Job, "read", err, time.Since(start))
	if err != nil {
		return nil, nil, dropped, err
	}
	metrics.RecordRows(p.Job, "parsed", int64(len(rows)))
	metrics.RecordRows(p.Job, "parse_dropped", int64(dropped))
	return columns, rows, dropped, nil
}
