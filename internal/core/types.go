package core

import (
	"time"

	"github.com/JonMunkholm/datamine/internal/table"
)

// ReadResult is the outcome of reading one file.
type ReadResult struct {
	Path     string       `json:"path"`
	Encoding string       `json:"encoding"` // candidate that decoded the file
	Table    *table.Table `json:"-"`
}

// MergeResult summarizes one merge run.
type MergeResult struct {
	RunID    string        `json:"runId"`
	Dir      string        `json:"dir"`
	Pattern  string        `json:"pattern"`
	Output   string        `json:"output,omitempty"` // empty when nothing was written
	Sources  []string      `json:"sources"`
	Columns  []string      `json:"columns"`
	Rows     int           `json:"rows"`
	Filled   int           `json:"filled"` // cells zero-filled across both passes
	Duration time.Duration `json:"duration"`
}

// Files returns the number of source files merged.
func (r *MergeResult) Files() int {
	return len(r.Sources)
}

// Written reports whether an output file was produced.
func (r *MergeResult) Written() bool {
	return r.Output != ""
}
