package sqlite

import (
	"context"
	"fmt"
	"time"

	"carprep/internal/profile"
)

const profileDDL = `CREATE TABLE IF NOT EXISTS profile_runs (
	dataset      TEXT NOT NULL,
	profiled_at  TEXT NOT NULL,
	rows         INTEGER NOT NULL,
	duplicates   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS profile_columns (
	dataset      TEXT NOT NULL,
	profiled_at  TEXT NOT NULL,
	column_name  TEXT NOT NULL,
	inferred     TEXT NOT NULL,
	non_empty    INTEGER NOT NULL,
	missing      INTEGER NOT NULL,
	missing_pct  REAL NOT NULL,
	negative     INTEGER NOT NULL,
	distinct_n   INTEGER NOT NULL,
	min          REAL,
	max          REAL,
	mean         REAL,
	median       REAL,
	std_dev      REAL
);`

// SaveProfile persists a profiling run so successive runs can be compared
// with plain SQL. Each run is keyed by dataset name and timestamp.
func (r *Repository) SaveProfile(ctx context.Context, p *profile.Profile) error {
	if err := r.Exec(ctx, profileDDL); err != nil {
		return fmt.Errorf("profile ddl: %w", err)
	}

	at := time.Now().UTC().Format(time.RFC3339)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO profile_runs (dataset, profiled_at, rows, duplicates) VALUES (?, ?, ?, ?)",
		p.Name, at, p.Rows, p.Duplicates,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO profile_columns
		(dataset, profiled_at, column_name, inferred, non_empty, missing, missing_pct, negative, distinct_n, min, max, mean, median, std_dev)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range p.Columns {
		var min, max, mean, median, stdDev any
		if c.Stats != nil {
			min, max = c.Stats.Min, c.Stats.Max
			mean, median = c.Stats.Mean, c.Stats.Median
			stdDev = c.Stats.StdDev
		}
		if _, err := stmt.ExecContext(ctx,
			p.Name, at, c.Name, string(c.Inferred), c.NonEmpty, c.Missing,
			c.MissingPercent(p.Rows), c.Negative, c.Distinct,
			min, max, mean, median, stdDev,
		); err != nil {
			return fmt.Errorf("insert column %s: %w", c.Name, err)
		}
	}

	return tx.Commit()
}
