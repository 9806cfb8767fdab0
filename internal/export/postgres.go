package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/datamine/internal/table"
)

// PostgresSink bulk-loads tables with COPY.
type PostgresSink struct {
	Pool *pgxpool.Pool
}

// ConnectPostgres opens and pings a pool for url.
func ConnectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("export: DATABASE_URL is required for the postgres sink")
	}
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Write creates the table if needed and copies every row in one transaction.
func (s *PostgresSink) Write(ctx context.Context, name string, t *table.Table) (n int64, err error) {
	cols := Plan(t)
	if len(cols) == 0 {
		return 0, fmt.Errorf("export %s: table has no columns", name)
	}
	ident := pgx.Identifier{Identifier(name)}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("export %s: begin: %w", name, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, postgresDDL(ident, cols)); err != nil {
		return 0, fmt.Errorf("export %s: create table: %w", name, err)
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	rows := make([][]any, 0, t.Len())
	for _, r := range t.Rows {
		rows = append(rows, rowValues(cols, r))
	}

	n, err = tx.CopyFrom(ctx, ident, names, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("export %s: copy: %w", name, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("export %s: commit: %w", name, err)
	}
	return n, nil
}

func postgresDDL(ident pgx.Identifier, cols []Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := "text"
		if c.Kind == Numeric {
			typ = "double precision"
		}
		defs[i] = pgx.Identifier{c.Name}.Sanitize() + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident.Sanitize(), strings.Join(defs, ", "))
}
