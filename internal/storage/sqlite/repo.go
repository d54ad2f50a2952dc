// Package sqlite implements a SQLite repository on the modernc.org/sqlite
// driver (cgo-free). Bulk inserts use multi-row INSERT statements inside a
// single transaction per batch.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"carprep/internal/dataset"
)

// Config holds SQLite repository configuration.
type Config struct {
	DSN   string // file path or file: URI
	Table string // target table name
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens the database and returns a close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite open: %w", err)
	}
	// The driver allows concurrent readers but a single writer; serialize
	// through one connection to avoid SQLITE_BUSY during loads.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { db.Close() }, nil
}

// EnsureTable creates the target table from the dictionary if it does not
// exist yet.
func (r *Repository) EnsureTable(ctx context.Context, dict dataset.Dictionary) error {
	return r.Exec(ctx, CreateTableSQL(r.cfg.Table, dict))
}

// EnsureColumns creates the target table with the given columns, all typed
// NUMERIC, for frames whose schema no longer matches the dictionary (for
// example after one-hot encoding).
func (r *Repository) EnsureColumns(ctx context.Context, columns []string) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = ident(c) + " NUMERIC"
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident(r.cfg.Table), strings.Join(defs, ", "))
	return r.Exec(ctx, stmt)
}

// SQLite's default SQLITE_MAX_VARIABLE_NUMBER.
const maxBindVars = 32766

// rowsPerInsert returns how many rows fit in one multi-row INSERT without
// exceeding the bind-variable limit.
func rowsPerInsert(columns int) int {
	if columns <= 0 {
		return 1
	}
	n := maxBindVars / columns
	if n < 1 {
		n = 1
	}
	return n
}

// Copy inserts rows with multi-row INSERT statements inside one
// transaction, split so no statement exceeds the bind-variable limit.
// Implements storage.CopyFn.
func (r *Repository) Copy(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite begin: %w", err)
	}

	chunk := rowsPerInsert(len(columns))
	var total int64
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		stmt, args := insertSQL(r.cfg.Table, columns, rows[start:end])
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("sqlite insert: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite commit: %w", err)
	}
	return total, nil
}

// insertSQL renders one multi-row INSERT for the given rows.
func insertSQL(table string, columns []string, rows [][]any) (string, []any) {
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(ident(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(idents(columns), ", "))
	sb.WriteString(") VALUES ")
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(placeholders)
		args = append(args, row...)
	}
	return sb.String(), args
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	_, err := r.db.ExecContext(ctx, stmt)
	return err
}

// CreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for the
// dictionary's target columns.
func CreateTableSQL(table string, dict dataset.Dictionary) string {
	defs := make([]string, 0, len(dict.Fields))
	for _, f := range dict.Fields {
		defs = append(defs, ident(f.Name)+" "+sqlType(f.Target))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident(table), strings.Join(defs, ", "))
}

func sqlType(t dataset.Type) string {
	switch t {
	case dataset.TypeInt, dataset.TypeBool:
		return "INTEGER"
	case dataset.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// ident quotes a single identifier for SQLite.
func ident(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func idents(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = ident(c)
	}
	return out
}
