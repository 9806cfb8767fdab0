package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrTooManyFields is returned when a data record is wider than the header.
var ErrTooManyFields = errors.New("too many fields")

// ParseError locates a malformed record.
type ParseError struct {
	Line int // 1-indexed line of the record
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid csv: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadCSV parses comma-delimited UTF-8 text into a Table. The first record is
// the header; remaining records are inferred cell-by-cell with Infer.
//
// Lines holding nothing but whitespace are skipped like empty lines, so an
// input without any other record yields a table with no columns and no rows.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var header []string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return New(), nil
		}
		if err != nil {
			line := 1
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &ParseError{Line: line, Err: err}
		}
		if !blankRecord(rec) {
			header = rec
			break
		}
	}

	t := New(UniqueHeader(header)...)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &ParseError{Line: line, Err: err}
		}
		if blankRecord(rec) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(rec) > len(t.Columns) {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: expected %d, saw %d", ErrTooManyFields, len(t.Columns), len(rec)),
			}
		}

		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = Infer(rec[i])
			} else {
				row[col] = nil
			}
		}
		t.Append(row)
	}
	return t, nil
}

// blankRecord reports whether rec came from a line of only whitespace.
// encoding/csv already drops truly empty lines.
func blankRecord(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

// UniqueHeader names blank header cells "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ... so every column key is distinct.
func UniqueHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		if _, dup := seen[h]; dup {
			n := seen[h]
			for {
				n++
				name = h + "." + strconv.Itoa(n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[h] = n
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

// WriteCSV writes the header and every row as comma-delimited UTF-8 text
// without an index column.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
