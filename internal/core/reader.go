package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JonMunkholm/datamine/internal/table"
	"github.com/JonMunkholm/datamine/internal/textenc"
)

// Reader reads delimited text files whose encoding is not known up front.
// Candidates are tried in order; the first one that decodes every byte wins.
//
// A Reader holds no mutable state and can be shared.
type Reader struct {
	candidates []textenc.Candidate
	detect     bool
	logger     *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithDetection attaches a detected-charset hint to DecodeError.
func WithDetection(enabled bool) ReaderOption {
	return func(r *Reader) { r.detect = enabled }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) { r.logger = logger }
}

// NewReader creates a Reader over the given candidates. An empty list means
// textenc.Default (UTF-8, then CP949).
func NewReader(candidates []textenc.Candidate, opts ...ReaderOption) *Reader {
	if len(candidates) == 0 {
		candidates = textenc.Default()
	}
	cands := make([]textenc.Candidate, len(candidates))
	copy(cands, candidates)

	r := &Reader{candidates: cands}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// withLogger returns a copy of r that logs to logger.
func (r *Reader) withLogger(logger *slog.Logger) *Reader {
	if logger == nil {
		return r
	}
	cp := *r
	cp.logger = logger
	return &cp
}

func utf8Only() []textenc.Candidate {
	return []textenc.Candidate{textenc.UTF8}
}

// Candidates returns the configured fallback order.
func (r *Reader) Candidates() []string {
	return textenc.Names(r.candidates)
}

// ReadFile reads the file at path and parses it as a table.
func (r *Reader) ReadFile(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(textenc.NewBOMSkippingReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r.ReadBytes(path, data)
}

// ReadBytes decodes data with the first candidate that accepts every byte and
// parses the text as a table. name is used in diagnostics only.
//
// Only decode failures move on to the next candidate; a CSV syntax error is
// returned straight away.
func (r *Reader) ReadBytes(name string, data []byte) (*ReadResult, error) {
	var lastErr error
	for i, c := range r.candidates {
		text, err := textenc.Decode(c, data)
		if err != nil {
			var ibe *textenc.InvalidBytesError
			if !errors.As(err, &ibe) {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			lastErr = err
			if i < len(r.candidates)-1 {
				r.logger.Debug("decode failed, trying next encoding",
					"path", name,
					"encoding", c.Name,
					"next", r.candidates[i+1].Name,
					"offset", ibe.Offset,
				)
			}
			continue
		}

		t, err := table.ReadCSV(strings.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return &ReadResult{
			Path:     name,
			Encoding: c.Name,
			Table:    t,
		}, nil
	}

	derr := &DecodeError{
		Path:  name,
		Tried: r.Candidates(),
		Err:   lastErr,
	}
	if r.detect {
		if g, ok := textenc.Detect(data); ok {
			derr.Guess = g.Charset
		}
	}
	r.logger.Warn("encoding error: all encodings exhausted",
		"path", name,
		"tried", derr.Tried,
		"guess", derr.Guess,
	)
	return nil, derr
}
