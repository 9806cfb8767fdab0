// Package export loads a merged table into a SQL database.
//
// Columns whose every non-null cell is numeric become floating point
// columns; everything else is stored as text. Table and column names are
// normalized with Identifier before they reach SQL.
package export

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/JonMunkholm/datamine/internal/table"
)

// Sink writes a table into a named destination table, creating it when it
// does not exist. It returns the number of rows written.
type Sink interface {
	Write(ctx context.Context, name string, t *table.Table) (int64, error)
}

// Kind is the SQL storage class chosen for a column.
type Kind int

const (
	Text Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

// Column maps a table column to its SQL name and kind.
type Column struct {
	Source string
	Name   string
	Kind   Kind
}

// Plan derives the SQL columns for t. Identifiers are made unique with a
// numeric suffix when two source names normalize to the same identifier.
func Plan(t *table.Table) []Column {
	cols := make([]Column, len(t.Columns))
	used := make(map[string]int, len(t.Columns))
	for i, src := range t.Columns {
		name := Identifier(src)
		if n, dup := used[name]; dup {
			for {
				n++
				cand := name + "_" + strconv.Itoa(n)
				if _, taken := used[cand]; !taken {
					used[name] = n
					name = cand
					break
				}
			}
		}
		used[name] = 0
		cols[i] = Column{Source: src, Name: name, Kind: kindOf(t.Column(src))}
	}
	return cols
}

func kindOf(values []any) Kind {
	seen := false
	for _, v := range values {
		if table.IsNull(v) {
			continue
		}
		if !table.IsNumeric(v) {
			return Text
		}
		seen = true
	}
	if !seen {
		return Text
	}
	return Numeric
}

// Identifier normalizes s to a lower snake_case SQL identifier. Letters of
// any script are kept; runs of other characters collapse to one underscore.
func Identifier(s string) string {
	var b strings.Builder
	var prev rune
	pendingSep := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				pendingSep = true
			}
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
		prev = r
	}

	out := b.String()
	if out == "" {
		return "col"
	}
	if first := []rune(out)[0]; unicode.IsDigit(first) {
		out = "c_" + out
	}
	return out
}

// rowValues returns r's cells in column order, converted for SQL drivers.
func rowValues(cols []Column, r table.Row) []any {
	vals := make([]any, len(cols))
	for i, c := range cols {
		v := r[c.Source]
		switch {
		case table.IsNull(v):
			vals[i] = nil
		case c.Kind == Numeric:
			vals[i] = toFloat(v)
		default:
			vals[i] = table.FormatValue(v)
		}
	}
	return vals
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
