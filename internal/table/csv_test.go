package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	input := "id,name,score\n1,alice,9.5\n2,,\n3,carol\n"

	tbl, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantCols := []string{"id", "name", "score"}
	if strings.Join(tbl.Columns, ",") != strings.Join(wantCols, ",") {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, wantCols)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	if got := tbl.Rows[0]["score"]; got != 9.5 {
		t.Errorf("row 0 score = %#v, want 9.5", got)
	}
	if got := tbl.Rows[1]["name"]; got != nil {
		t.Errorf("row 1 name = %#v, want nil", got)
	}
	// Short record: trailing cell is null.
	if got, ok := tbl.Rows[2]["score"]; !ok || got != nil {
		t.Errorf("row 2 score = %#v (present=%v), want nil present", got, ok)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "zero bytes", input: ""},
		{name: "blank lines", input: "\n\n"},
		{name: "whitespace lines", input: "   \n  \n"},
		{name: "tabs and crlf", input: "\t\r\n \r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if len(tbl.Columns) != 0 || tbl.Len() != 0 {
				t.Errorf("got %d columns, %d rows; want 0, 0", len(tbl.Columns), tbl.Len())
			}
		})
	}
}

func TestReadCSV_SkipsWhitespaceLines(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("  \na,b\n   \n1,x\n\t\n2,y\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := strings.Join(tbl.Columns, ","); got != "a,b" {
		t.Errorf("Columns = %q, want %q", got, "a,b")
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if tbl.Rows[1]["a"] != int64(2) || tbl.Rows[1]["b"] != "y" {
		t.Errorf("Rows[1] = %v", tbl.Rows[1])
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Len() != 0 {
		t.Errorf("got %d columns, %d rows; want 2, 0", len(tbl.Columns), tbl.Len())
	}
}

func TestReadCSV_TooManyFields(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n1,2,3\n"))
	if err == nil {
		t.Fatal("expected error for a record wider than the header")
	}
	if !errors.Is(err, ErrTooManyFields) {
		t.Errorf("error = %v, want ErrTooManyFields", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T is not *ParseError", err)
	}
	if perr.Line != 3 {
		t.Errorf("Line = %d, want 3", perr.Line)
	}
}

func TestUniqueHeader(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "distinct", input: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "repeated", input: []string{"a", "a", "a"}, want: []string{"a", "a.1", "a.2"}},
		{name: "suffix already taken", input: []string{"a", "a.1", "a"}, want: []string{"a", "a.1", "a.2"}},
		{name: "blank", input: []string{"", "x"}, want: []string{"Unnamed: 0", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueHeader(tt.input)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("UniqueHeader(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := New("id", "name", "ratio")
	tbl.Append(Row{"id": int64(1), "name": "a,b", "ratio": 0.5})
	tbl.Append(Row{"id": int64(2), "name": nil})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "id,name,ratio\n1,\"a,b\",0.5\n2,,\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
