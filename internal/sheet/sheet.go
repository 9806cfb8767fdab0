// Package sheet reads one worksheet of an .xlsx workbook into a table.
package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tsawler/tabula/xlsx"

	"github.com/JonMunkholm/datamine/internal/table"
)

// ErrUnsupported is returned for workbook formats other than OOXML.
var ErrUnsupported = errors.New("unsupported spreadsheet format")

// Ref selects a worksheet by zero-based index or by name.
type Ref struct {
	Index int
	Name  string
}

// First selects the first worksheet.
var First = Ref{}

// ParseRef interprets s as an index when it is a non-negative integer and
// as a sheet name otherwise. An empty string selects the first sheet.
func ParseRef(s string) Ref {
	s = strings.TrimSpace(s)
	if s == "" {
		return First
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return Ref{Index: i}
	}
	return Ref{Name: s}
}

func (r Ref) String() string {
	if r.Name != "" {
		return strconv.Quote(r.Name)
	}
	return strconv.Itoa(r.Index)
}

// Read loads the worksheet ref of the workbook at path. The first non-blank
// row is the header; fully blank rows are skipped. Any failure is logged
// before it is returned.
func Read(path string, ref Ref, logger *slog.Logger) (*table.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t, err := read(path, ref)
	if err != nil {
		logger.Error("spreadsheet read failed",
			"path", path,
			"sheet", ref.String(),
			"error", err,
		)
		return nil, err
	}

	logger.Debug("read spreadsheet",
		"path", path,
		"sheet", ref.String(),
		"rows", t.Len(),
		"columns", len(t.Columns),
	)
	return t, nil
}

func read(path string, ref Ref) (*table.Table, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" && ext != ".xlsm" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	wb, err := xlsx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer wb.Close()

	var s *xlsx.Sheet
	if ref.Name != "" {
		s, err = wb.SheetByName(ref.Name)
	} else {
		s, err = wb.Sheet(ref.Index)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return toTable(s), nil
}

// toTable converts worksheet cells to a table.
func toTable(s *xlsx.Sheet) *table.Table {
	width := 0
	for _, row := range s.Rows {
		for c := len(row) - 1; c >= 0; c-- {
			if !row[c].IsEmpty() {
				if c+1 > width {
					width = c + 1
				}
				break
			}
		}
	}

	headerDone := false
	var t *table.Table
	for _, row := range s.Rows {
		if blank(row) {
			continue
		}
		if !headerDone {
			names := make([]string, width)
			for c := 0; c < width && c < len(row); c++ {
				names[c] = strings.TrimSpace(row[c].Value)
			}
			t = table.New(table.UniqueHeader(names)...)
			headerDone = true
			continue
		}

		r := make(table.Row, width)
		for c, col := range t.Columns {
			if c < len(row) {
				r[col] = cellValue(row[c])
			} else {
				r[col] = nil
			}
		}
		t.Append(r)
	}

	if t == nil {
		return table.New()
	}
	return t
}

func blank(row []xlsx.Cell) bool {
	for i := range row {
		if !row[i].IsEmpty() {
			return false
		}
	}
	return true
}

func cellValue(c xlsx.Cell) any {
	if c.IsEmpty() {
		return nil
	}
	switch c.Type {
	case xlsx.CellTypeNumber:
		return table.Infer(c.Value)
	case xlsx.CellTypeBoolean:
		return c.Value == "TRUE"
	default:
		return c.Value
	}
}
