package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"carprep/internal/config"
	"carprep/internal/dataset"
	"carprep/internal/metrics"
	"carprep/internal/storage"
	"carprep/internal/storage/csvout"
	"carprep/internal/storage/postgres"
	"carprep/internal/storage/sqlite"
	"carprep/pkg/records"
)

// Load writes the frames into the configured sink. With a split enabled the
// train and test frames land in separate tables (or files) suffixed _train
// and _test; otherwise the configured name is used as-is.
func Load(ctx context.Context, p config.Pipeline, dict dataset.Dictionary, fr Frames, c *Counters) error {
	frames := map[string][]records.Record{"": fr.Train}
	if fr.Split {
		frames = map[string][]records.Record{"train": fr.Train, "test": fr.Test}
	}

	columns := fr.Columns
	if len(columns) == 0 {
		// Caller did not track column order; derive it from the records.
		all := append(append([]records.Record{}, fr.Train...), fr.Test...)
		columns = storage.Columns(all)
	}

	for suffix, rows := range frames {
		start := time.Now()
		n, err := loadFrame(ctx, p, dict, columns, fr.Scaled, suffix, rows)
		metrics.RecordStep(p.Job, "load", err, time.Since(start))
		if err != nil {
			return err
		}
		c.Loaded += n
		metrics.RecordRows(p.Job, "loaded", n)
	}
	return nil
}

func loadFrame(ctx context.Context, p config.Pipeline, dict dataset.Dictionary, columns, scaled []string, suffix string, rows []records.Record) (int64, error) {
	switch p.Storage.Kind {
	case "sqlite":
		cfg := sqlite.Config{DSN: p.Storage.DB.DSN, Table: suffixed(p.Storage.DB.Table, suffix)}
		repo, closeRepo, err := sqlite.NewRepository(ctx, cfg)
		if err != nil {
			return 0, err
		}
		defer closeRepo()
		if p.Storage.DB.AutoCreateTable {
			if err := ensureSQLite(ctx, repo, dict, columns); err != nil {
				return 0, err
			}
		}
		return loadBatched(ctx, p, columns, rows, repo.Copy)

	case "postgres":
		cfg := postgres.Config{DSN: p.Storage.DB.DSN, Table: suffixed(p.Storage.DB.Table, suffix), KeyColumns: p.Storage.DB.KeyColumns}
		repo, closeRepo, err := postgres.NewRepository(ctx, cfg)
		if err != nil {
			return 0, err
		}
		defer closeRepo()
		if p.Storage.DB.AutoCreateTable {
			if err := ensurePostgres(ctx, repo, dict, columns); err != nil {
				return 0, err
			}
		}
		if p.Storage.DB.TruncateBeforeLoad {
			if err := repo.Truncate(ctx); err != nil {
				return 0, err
			}
		} else if err := repo.DeleteExisting(ctx, rows); err != nil {
			return 0, err
		}
		return loadBatched(ctx, p, columns, rows, repo.Copy)

	case "csv":
		path := suffixedPath(p.Storage.CSV.Path, suffix)
		w := csvout.NewWriter(dict)
		w.SkipPrecision(scaled)
		if err := w.WriteFile(path, columns, rows); err != nil {
			return 0, err
		}
		log.Printf("csv sink: wrote %d rows to %s", len(rows), path)
		return int64(len(rows)), nil

	default:
		return 0, fmt.Errorf("storage: unknown kind %q", p.Storage.Kind)
	}
}

// loadBatched pushes rows through the batched loader into copyFn.
func loadBatched(ctx context.Context, p config.Pipeline, columns []string, rows []records.Record, copyFn storage.CopyFn) (int64, error) {
	batchSize := p.Runtime.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	buffer := p.Runtime.ChannelBuffer
	if buffer <= 0 {
		buffer = 1024
	}

	ch := make(chan []any, buffer)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return storage.SendRows(ctx, columns, rows, ch)
	})

	var total int64
	g.Go(func() error {
		n, err := storage.LoadBatches(ctx, columns, ch, batchSize, copyFn)
		total = n
		return err
	})

	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, nil
}

// ensureSQLite creates the destination table; the dictionary DDL is used
// while the frame still matches it, a generic NUMERIC schema otherwise.
func ensureSQLite(ctx context.Context, repo *sqlite.Repository, dict dataset.Dictionary, columns []string) error {
	if sameColumns(columns, dict.Columns()) {
		return repo.EnsureTable(ctx, dict)
	}
	return repo.EnsureColumns(ctx, columns)
}

func ensurePostgres(ctx context.Context, repo *postgres.Repository, dict dataset.Dictionary, columns []string) error {
	if sameColumns(columns, dict.Columns()) {
		return repo.EnsureTable(ctx, dict)
	}
	return repo.EnsureColumns(ctx, columns)
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func suffixed(table, suffix string) string {
	if suffix == "" {
		return table
	}
	return table + "_" + suffix
}

// suffixedPath inserts the suffix before the extension:
// clean.csv -> clean_train.csv.
func suffixedPath(path, suffix string) string {
	if suffix == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + suffix + ext
}
