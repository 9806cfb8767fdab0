// Package table provides the in-memory tabular model shared by the readers,
// the merger and the export sinks.
//
// A Table is an ordered header plus rows keyed by column name. Cell values are
// one of nil (null), int64, float64 or string. A column missing from a row is
// treated exactly like a null cell.
package table

// Row maps column names to cell values.
type Row map[string]any

// Table is an ordered set of columns and the rows read for them.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given header.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is part of the header.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Keys not in the header are kept on the row but are not
// written until the column is added.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Column returns the values of one column in row order, with nil for
// missing cells.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// Records renders the table as a header record followed by one record per row,
// formatting every cell with FormatValue.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	copy(header, t.Columns)
	records = append(records, header)

	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[i] = FormatValue(r[c])
		}
		records = append(records, rec)
	}
	return records
}

// Equal reports whether two tables have the same header and the same cell
// values in the same order. Missing and nil cells compare equal.
func Equal(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Columns) != len(b.Columns) || len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Columns {
		if a.Columns[i] != b.Columns[i] {
			return false
		}
	}
	for i := range a.Rows {
		for _, c := range a.Columns {
			if a.Rows[i][c] != b.Rows[i][c] {
				return false
			}
		}
	}
	return true
}
