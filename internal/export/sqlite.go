package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/datamine/internal/table"
)

// sqliteMaxVars is the default SQLITE_MAX_VARIABLE_NUMBER of older builds.
const sqliteMaxVars = 999

// SQLiteSink inserts tables into a SQLite database.
type SQLiteSink struct {
	DB        *sqlx.DB
	BatchSize int
}

// OpenSQLite opens the database file at path.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// Write creates the table if needed and inserts every row in one
// transaction, BatchSize rows per statement.
func (s *SQLiteSink) Write(ctx context.Context, name string, t *table.Table) (n int64, err error) {
	cols := Plan(t)
	if len(cols) == 0 {
		return 0, fmt.Errorf("export %s: table has no columns", name)
	}
	tbl := quoteSQLite(Identifier(name))

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("export %s: begin: %w", name, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, sqliteDDL(tbl, cols)); err != nil {
		return 0, fmt.Errorf("export %s: create table: %w", name, err)
	}

	batch := s.batchSize(len(cols))
	var stmt *sqlx.Stmt
	stmtRows := 0
	defer func() {
		if stmt != nil {
			stmt.Close()
		}
	}()

	for start := 0; start < t.Len(); start += batch {
		end := min(start+batch, t.Len())
		size := end - start
		if size != stmtRows {
			if stmt != nil {
				stmt.Close()
			}
			stmt, err = tx.PreparexContext(ctx, sqliteInsert(tbl, cols, size))
			if err != nil {
				return 0, fmt.Errorf("export %s: prepare: %w", name, err)
			}
			stmtRows = size
		}

		args := make([]any, 0, size*len(cols))
		for _, r := range t.Rows[start:end] {
			args = append(args, rowValues(cols, r)...)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("export %s: insert rows %d-%d: %w", name, start, end-1, err)
		}
		n += int64(size)
	}
	return n, nil
}

func (s *SQLiteSink) batchSize(ncols int) int {
	b := s.BatchSize
	if b <= 0 {
		b = 500
	}
	if limit := sqliteMaxVars / ncols; b > limit {
		b = max(limit, 1)
	}
	return b
}

func quoteSQLite(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqliteDDL(tbl string, cols []Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := "TEXT"
		if c.Kind == Numeric {
			typ = "REAL"
		}
		defs[i] = quoteSQLite(c.Name) + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tbl, strings.Join(defs, ", "))
}

func sqliteInsert(tbl string, cols []Column, rows int) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteSQLite(c.Name)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	tuples := make([]string, rows)
	for i := range tuples {
		tuples[i] = tuple
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", tbl, strings.Join(names, ", "), strings.Join(tuples, ", "))
}
