package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, d PreviewData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := PreviewPage(d).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestPreviewPage(t *testing.T) {
	body := render(t, PreviewData{
		Path:     "exports/<a>.csv",
		Encoding: "cp949",
		Columns:  []string{"id", "name"},
		Rows:     [][]string{{"1", "<b>kim</b>"}},
		Total:    3,
	})

	tests := []struct {
		name string
		want string
	}{
		{"escaped title", "<title>exports/&lt;a&gt;.csv</title>"},
		{"header cells", "<th>id</th><th>name</th>"},
		{"escaped cell", "<td>&lt;b&gt;kim&lt;/b&gt;</td>"},
		{"summary", "1 of 3 rows, 2 columns, decoded as cp949"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q:\n%s", tt.want, body)
			}
		})
	}
	if strings.Contains(body, "<b>kim</b>") {
		t.Error("cell markup was not escaped")
	}
}

func TestPreviewPage_NoColumns(t *testing.T) {
	body := render(t, PreviewData{Path: "empty.csv"})

	if !strings.Contains(body, "No columns.") {
		t.Errorf("body = %s", body)
	}
	if strings.Contains(body, "<table>") {
		t.Errorf("table rendered for empty input: %s", body)
	}
	if !strings.Contains(body, "0 of 0 rows, 0 columns</p>") {
		t.Errorf("summary without encoding = %s", body)
	}
}
