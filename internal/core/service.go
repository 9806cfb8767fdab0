package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/datamine/internal/config"
	"github.com/JonMunkholm/datamine/internal/logging"
	"github.com/JonMunkholm/datamine/internal/textenc"
)

// Service wires the Reader and Merger from configuration. It is the entry
// point used by the CLI and the HTTP handlers.
type Service struct {
	reader      *Reader
	mergeReader *Reader
	suffix      string
	logger      *slog.Logger
}

// NewService builds a Service from cfg. It fails if an encoding name in
// cfg.Encoding.Candidates cannot be resolved.
func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cands, err := textenc.ParseList(cfg.Encoding.Candidates)
	if err != nil {
		return nil, fmt.Errorf("encoding candidates: %w", err)
	}

	reader := NewReader(cands,
		WithDetection(cfg.Encoding.Detect),
		WithLogger(logger),
	)

	mergeReader := NewReader(utf8Only(), WithLogger(logger))
	if cfg.Merge.EncodingFallback {
		mergeReader = reader
	}

	return &Service{
		reader:      reader,
		mergeReader: mergeReader,
		suffix:      cfg.Merge.Suffix,
		logger:      logger,
	}, nil
}

// Reader returns the encoding-fallback reader.
func (s *Service) Reader() *Reader {
	return s.reader
}

// DefaultSuffix returns the configured merge suffix.
func (s *Service) DefaultSuffix() string {
	return s.suffix
}

// Read loads the table at path.
func (s *Service) Read(ctx context.Context, path string) (*ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.withLogger(logging.Enrich(ctx, s.logger)).ReadFile(path)
}

// Merge merges dir/*<suffix>.csv into out. An empty suffix selects the
// configured default.
func (s *Service) Merge(ctx context.Context, dir, suffix, out string) (*MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if suffix == "" {
		suffix = s.suffix
	}
	logger := logging.Enrich(ctx, s.logger)
	m := NewMerger(s.mergeReader.withLogger(logger), logger)
	return m.Merge(dir, suffix, out)
}
