package table

import (
	"strings"
	"testing"
)

func TestUnion(t *testing.T) {
	a := New("id", "name")
	b := New("id", "age")
	c := New("age", "city", "name")

	got := Union(a, nil, b, c)
	want := "id,name,age,city"
	if strings.Join(got, ",") != want {
		t.Errorf("Union() = %v, want %s", got, want)
	}
}

func TestConcat(t *testing.T) {
	a := New("id", "name")
	a.Append(Row{"id": int64(1), "name": "kim"})
	a.Append(Row{"id": int64(2), "name": "lee"})

	b := New("id", "age")
	b.Append(Row{"id": int64(3), "age": int64(40)})

	out := Concat(a, b)

	if strings.Join(out.Columns, ",") != "id,name,age" {
		t.Fatalf("Columns = %v", out.Columns)
	}
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", out.Len())
	}

	// Source-then-row order.
	for i, want := range []int64{1, 2, 3} {
		if out.Rows[i]["id"] != want {
			t.Errorf("row %d id = %#v, want %d", i, out.Rows[i]["id"], want)
		}
	}

	// Disjoint columns come back as missing markers until ZeroFill.
	if out.Rows[0]["age"] != nil {
		t.Errorf("row 0 age = %#v, want nil", out.Rows[0]["age"])
	}
	if out.Rows[2]["name"] != nil {
		t.Errorf("row 2 name = %#v, want nil", out.Rows[2]["name"])
	}

	// Source rows are not aliased.
	out.Rows[0]["name"] = "changed"
	if a.Rows[0]["name"] != "kim" {
		t.Error("Concat must copy rows, source was modified")
	}
}

func TestZeroFill(t *testing.T) {
	tbl := New("a", "b", "c")
	tbl.Append(Row{"a": int64(1), "b": nil})
	tbl.Append(Row{"a": nil, "b": "x", "c": 2.5})

	filled := ZeroFill(tbl)
	if filled != 3 {
		t.Errorf("first ZeroFill() = %d, want 3", filled)
	}

	for i, r := range tbl.Rows {
		for _, c := range tbl.Columns {
			if IsNull(r[c]) {
				t.Errorf("row %d column %s still null", i, c)
			}
		}
	}
	if tbl.Rows[0]["c"] != int64(0) {
		t.Errorf("missing cell = %#v, want int64(0)", tbl.Rows[0]["c"])
	}
	if tbl.Rows[1]["b"] != "x" {
		t.Errorf("present cell changed to %#v", tbl.Rows[1]["b"])
	}

	if again := ZeroFill(tbl); again != 0 {
		t.Errorf("second ZeroFill() = %d, want 0", again)
	}
}

func TestZeroFill_Nil(t *testing.T) {
	if got := ZeroFill(nil); got != 0 {
		t.Errorf("ZeroFill(nil) = %d, want 0", got)
	}
}
