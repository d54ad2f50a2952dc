// Package storage contains backend-agnostic contracts and the batched
// loader shared by the SQLite, Postgres, and CSV sinks.
package storage

import "context"

// Repository is the minimal surface a database sink must provide.
type Repository interface {
	// Copy bulk-inserts rows aligned to the columns order and reports the
	// number of rows written.
	Copy(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a statement with no result, used for table bootstrap.
	Exec(ctx context.Context, sql string) error
}
