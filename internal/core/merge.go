package core

// merge.go combines a directory of CSV exports whose column sets drift over
// time into one dense file.
//
// The flow:
//  1. Discover lists <dir>/*<suffix>.csv, sorted, excluding the output itself
//  2. Each file is read and zero-filled right after load
//  3. Rows are concatenated source by source over the union of all columns
//  4. The combined table is zero-filled again (disjoint columns reintroduce
//     missing cells during the concat)
//  5. The result is written atomically; a failure leaves no output behind

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/datamine/internal/table"
	"github.com/google/uuid"
)

// Merger merges CSV files with heterogeneous columns.
type Merger struct {
	reader *Reader
	logger *slog.Logger
}

// NewMerger creates a Merger that loads sources with reader. A nil reader
// reads plain UTF-8.
func NewMerger(reader *Reader, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	if reader == nil {
		reader = NewReader(utf8Only(), WithLogger(logger))
	}
	return &Merger{reader: reader, logger: logger}
}

// Pattern returns the glob-style description of the files a suffix selects.
func Pattern(suffix string) string {
	return "*" + suffix + ".csv"
}

// Discover returns the regular files in dir (not recursive) whose name ends
// with suffix followed by ".csv", sorted by path. A directory that does not
// exist matches nothing.
func Discover(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	want := suffix + ".csv"
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), want) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Merge discovers the files in dir matching suffix, merges them and writes
// the result to out.
//
// When nothing matches, no file is written and the returned result has no
// sources; this is not an error.
func (m *Merger) Merge(dir, suffix, out string) (*MergeResult, error) {
	start := time.Now()
	res := &MergeResult{
		RunID:   uuid.NewString(),
		Dir:     dir,
		Pattern: Pattern(suffix),
	}
	logger := m.logger.With("run_id", res.RunID)

	paths, err := Discover(dir, suffix)
	if err != nil {
		return nil, &SourceReadError{Path: dir, Err: err}
	}
	paths = excludePath(paths, out)

	if len(paths) == 0 {
		res.Duration = time.Since(start)
		logger.Info("nothing to merge",
			"dir", dir,
			"pattern", res.Pattern,
		)
		return res, nil
	}

	tables := make([]*table.Table, 0, len(paths))
	for _, p := range paths {
		rr, err := m.reader.ReadFile(p)
		if err != nil {
			logger.Error("merge aborted", "path", p, "error", err)
			return nil, &SourceReadError{Path: p, Err: err}
		}
		res.Filled += table.ZeroFill(rr.Table)
		tables = append(tables, rr.Table)

		logger.Debug("loaded source",
			"path", p,
			"encoding", rr.Encoding,
			"rows", rr.Table.Len(),
			"columns", len(rr.Table.Columns),
		)
	}

	merged := table.Concat(tables...)
	res.Filled += table.ZeroFill(merged)

	if err := writeFileAtomic(out, merged); err != nil {
		logger.Error("merge output not written", "output", out, "error", err)
		return nil, &WriteError{Path: out, Err: err}
	}

	res.Output = out
	res.Sources = paths
	res.Columns = merged.Columns
	res.Rows = merged.Len()
	res.Duration = time.Since(start)

	logger.Info("merged csv files",
		"output", out,
		"files", len(paths),
		"rows", res.Rows,
		"columns", len(res.Columns),
		"filled", res.Filled,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// excludePath drops target from paths so a merge never ingests its own
// previous output.
func excludePath(paths []string, target string) []string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return paths
	}
	out := paths[:0]
	for _, p := range paths {
		if pa, err := filepath.Abs(p); err == nil && pa == abs {
			continue
		}
		out = append(out, p)
	}
	return out
}

// writeFileAtomic writes t to a temporary file next to path and renames it
// into place once fully flushed.
func writeFileAtomic(path string, t *table.Table) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = table.WriteCSV(bw, t); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
