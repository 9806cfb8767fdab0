package table

// Union returns every column name seen across tables, in first-seen order.
func Union(tables ...*Table) []string {
	var cols []string
	seen := make(map[string]struct{})
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	return cols
}

// Concat stacks the rows of every table, source by source, projected onto
// the union of their columns. Cells a source table does not carry come out
// as nil, so callers that need a dense result run ZeroFill afterwards.
func Concat(tables ...*Table) *Table {
	out := New(Union(tables...)...)

	total := 0
	for _, t := range tables {
		total += t.Len()
	}
	out.Rows = make([]Row, 0, total)

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, r := range t.Rows {
			projected := make(Row, len(out.Columns))
			for _, c := range out.Columns {
				projected[c] = r[c]
			}
			out.Append(projected)
		}
	}
	return out
}

// ZeroFill replaces every null or missing cell, across all header columns,
// with int64(0). It returns the number of cells filled; a second call on the
// same table fills nothing.
func ZeroFill(t *Table) int {
	if t == nil {
		return 0
	}
	filled := 0
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			if IsNull(r[c]) {
				r[c] = int64(0)
				filled++
			}
		}
	}
	return filled
}
