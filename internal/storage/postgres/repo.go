// Package postgres implements a Postgres repository using pgx v5. Bulk
// inserts go through the COPY protocol.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"carprep/internal/dataset"
	"carprep/pkg/records"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN        string   // connection string for pgxpool
	Table      string   // possibly schema-qualified target, e.g. "public.listings"
	KeyColumns []string // optional: delete matching rows before a load
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a close function for
// cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

// EnsureTable creates the target table from the dictionary if it does not
// exist yet.
func (r *Repository) EnsureTable(ctx context.Context, dict dataset.Dictionary) error {
	return r.Exec(ctx, CreateTableSQL(r.cfg.Table, dict))
}

// EnsureColumns creates the target table with the given columns, all typed
// double precision, for frames whose schema no longer matches the
// dictionary (for example after one-hot encoding).
func (r *Repository) EnsureColumns(ctx context.Context, columns []string) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgIdent(c) + " double precision"
	}
	return r.Exec(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pgFQN(r.cfg.Table), strings.Join(defs, ", ")))
}

// Copy streams rows into the target table with the COPY protocol.
// Implements storage.CopyFn.
func (r *Repository) Copy(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	n, err := r.pool.CopyFrom(ctx, splitFQN(r.cfg.Table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy: %s (%s)", pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("copy: %w", err)
	}
	return n, nil
}

// Truncate clears the target table, used before a full reload when no key
// columns are configured.
func (r *Repository) Truncate(ctx context.Context) error {
	return r.Exec(ctx, "TRUNCATE "+pgFQN(r.cfg.Table))
}

// deleteChunk caps the number of key tuples per DELETE statement.
const deleteChunk = 500

// DeleteExisting removes rows whose KeyColumns values match the incoming
// records, so reloading the same data replaces it instead of duplicating
// it. No-op when no key columns are configured.
func (r *Repository) DeleteExisting(ctx context.Context, recs []records.Record) error {
	keys := r.cfg.KeyColumns
	if len(keys) == 0 || len(recs) == 0 {
		return nil
	}
	tuples := keyTuples(keys, recs)
	for start := 0; start < len(tuples); start += deleteChunk {
		end := min(start+deleteChunk, len(tuples))
		sql, args := deleteKeySQL(r.cfg.Table, keys, tuples[start:end])
		if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("delete existing: %w", err)
		}
	}
	return nil
}

// keyTuples projects the distinct key-column tuples out of recs, in first
// occurrence order.
func keyTuples(keys []string, recs []records.Record) [][]any {
	seen := map[string]struct{}{}
	var out [][]any
	for _, r := range recs {
		tuple := make([]any, len(keys))
		var id strings.Builder
		for i, k := range keys {
			tuple[i] = r[k]
			id.WriteString(records.String(r[k]))
			id.WriteByte(0)
		}
		if _, dup := seen[id.String()]; dup {
			continue
		}
		seen[id.String()] = struct{}{}
		out = append(out, tuple)
	}
	return out
}

// deleteKeySQL renders one DELETE statement matching the given key tuples:
// DELETE FROM "t" WHERE ("a", "b") IN (($1, $2), ($3, $4)).
func deleteKeySQL(table string, keys []string, tuples [][]any) (string, []any) {
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = pgIdent(k)
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(pgFQN(table))
	sb.WriteString(" WHERE (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") IN (")

	args := make([]any, 0, len(tuples)*len(keys))
	for i, tuple := range tuples {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range keys {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, tuple[j])
			fmt.Fprintf(&sb, "$%d", len(args))
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String(), args
}

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// CreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for the
// dictionary's target columns.
func CreateTableSQL(table string, dict dataset.Dictionary) string {
	defs := make([]string, 0, len(dict.Fields))
	for _, f := range dict.Fields {
		defs = append(defs, pgIdent(f.Name)+" "+pgType(f.Target))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pgFQN(table), strings.Join(defs, ", "))
}

func pgType(t dataset.Type) string {
	switch t {
	case dataset.TypeInt:
		return "bigint"
	case dataset.TypeFloat:
		return "double precision"
	case dataset.TypeBool:
		return "boolean"
	default:
		return "text"
	}
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.listings" to
// "public"."listings". If no dot is present, returns a single quoted ident.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
