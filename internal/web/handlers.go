package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datamine/internal/core"
	"github.com/JonMunkholm/datamine/internal/logging"
	"github.com/JonMunkholm/datamine/internal/sheet"
	"github.com/JonMunkholm/datamine/internal/table"
	"github.com/JonMunkholm/datamine/internal/web/templates"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

const (
	defaultPreviewRows = 50
	maxPreviewRows     = 1000
	defaultMergeOutput = "merged.csv"
)

type readRequest struct {
	Path string `json:"path"`
}

type mergeRequest struct {
	Dir    string `json:"dir"`
	Suffix string `json:"suffix"`
	Out    string `json:"out"`
}

// tableResponse is a table in column order; rows are arrays aligned with
// Columns.
type tableResponse struct {
	Path     string   `json:"path"`
	Encoding string   `json:"encoding,omitempty"`
	Sheet    string   `json:"sheet,omitempty"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
}

type mergeResponse struct {
	RunID      string   `json:"runId"`
	Files      int      `json:"files"`
	Sources    []string `json:"sources"`
	Output     string   `json:"output,omitempty"`
	Columns    []string `json:"columns"`
	Rows       int      `json:"rows"`
	Filled     int      `json:"filled"`
	DurationMS int64    `json:"durationMs"`
}

func newTableResponse(path string, t *table.Table) tableResponse {
	resp := tableResponse{
		Path:    path,
		Columns: t.Columns,
		Rows:    make([][]any, 0, t.Len()),
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	for _, r := range t.Rows {
		vals := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			vals[i] = r[c]
		}
		resp.Rows = append(resp.Rows, vals)
	}
	return resp
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// handleHealth reports liveness and job slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status": "ok",
		"jobs":   s.jobs.Status(),
	})
}

// handleRead decodes one file through the encoding fallback.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	var req readRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	path, err := s.resolvePath(req.Path)
	if err != nil {
		respondError(w, r, err)
		return
	}

	res, err := s.service.Read(r.Context(), path)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := newTableResponse(s.relative(path), res.Table)
	resp.Encoding = res.Encoding
	writeJSON(w, r, resp)
}

// handleMerge runs one merge job. Jobs are bounded by the job limiter.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	dir, err := s.resolvePath(req.Dir)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := req.Out
	if out == "" {
		out = filepath.Join(req.Dir, defaultMergeOutput)
	}
	outPath, err := s.resolvePath(out)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.jobs.Acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.jobs.Release()

	res, err := s.service.Merge(r.Context(), dir, req.Suffix, outPath)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := mergeResponse{
		RunID:      res.RunID,
		Files:      res.Files(),
		Sources:    make([]string, 0, len(res.Sources)),
		Columns:    res.Columns,
		Rows:       res.Rows,
		Filled:     res.Filled,
		DurationMS: res.Duration.Milliseconds(),
	}
	for _, src := range res.Sources {
		resp.Sources = append(resp.Sources, s.relative(src))
	}
	if res.Written() {
		resp.Output = s.relative(res.Output)
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	writeJSON(w, r, resp)
}

// handleSheet returns one worksheet of a workbook.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolvePath(r.URL.Query().Get("path"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	ref := sheet.ParseRef(r.URL.Query().Get("sheet"))

	t, err := sheet.Read(path, ref, logging.FromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := newTableResponse(s.relative(path), t)
	resp.Sheet = ref.String()
	writeJSON(w, r, resp)
}

// handlePreview renders the first rows of a CSV or workbook as HTML.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path, err := s.resolvePath(q.Get("path"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	limit := parseLimit(q.Get("limit"))

	var (
		t        *table.Table
		encoding string
	)
	if isWorkbook(path) {
		t, err = sheet.Read(path, sheet.ParseRef(q.Get("sheet")), logging.FromContext(r.Context()))
	} else {
		var res *core.ReadResult
		res, err = s.service.Read(r.Context(), path)
		if err == nil {
			t, encoding = res.Table, res.Encoding
		}
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	view := templates.PreviewData{
		Path:     s.relative(path),
		Encoding: encoding,
		Columns:  t.Columns,
		Total:    t.Len(),
	}
	for i, row := range t.Rows {
		if i == limit {
			break
		}
		cells := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = table.FormatValue(row[c])
		}
		view.Rows = append(view.Rows, cells)
	}

	templ.Handler(templates.PreviewPage(view)).ServeHTTP(w, r)
}

func parseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return defaultPreviewRows
	}
	return min(n, maxPreviewRows)
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}
