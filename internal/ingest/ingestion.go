// Package ingest loads the historical match dataset into the database.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/metrics"
	"github.com/prencipemarco/superquote-web/internal/models"
	"github.com/prencipemarco/superquote-web/internal/repository"
)

// MatchFetcher produces the parsed dataset.
type MatchFetcher interface {
	FetchMatches(ctx context.Context) ([]*models.MatchRecord, error)
}

// CacheFlusher invalidates read caches after the corpus changes.
type CacheFlusher interface {
	Flush()
}

// Service downloads the dataset and batch-inserts it.
type Service struct {
	fetcher   MatchFetcher
	writer    repository.MatchWriter
	cache     CacheFlusher // optional
	logger    *logrus.Logger
	batchSize int
}

// NewService creates a new ingestion service. cache may be nil.
func NewService(fetcher MatchFetcher, writer repository.MatchWriter, cache CacheFlusher, logger *logrus.Logger, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Service{
		fetcher:   fetcher,
		writer:    writer,
		cache:     cache,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Run performs one full ingestion pass.
func (s *Service) Run(ctx context.Context) error {
	start := time.Now()

	matches, err := s.fetcher.FetchMatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset: %w", err)
	}
	if len(matches) == 0 {
		s.logger.Warn("Dataset fetch returned no matches, nothing ingested")
		return nil
	}

	inserted := 0
	for begin := 0; begin < len(matches); begin += s.batchSize {
		end := begin + s.batchSize
		if end > len(matches) {
			end = len(matches)
		}
		if err := s.writer.InsertBatch(ctx, matches[begin:end]); err != nil {
			return fmt.Errorf("failed to insert batch at offset %d: %w", begin, err)
		}
		inserted += end - begin
	}

	if s.cache != nil {
		s.cache.Flush()
	}

	total, err := s.writer.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to count corpus after ingestion")
	} else {
		metrics.HistoricalMatchesLoaded.Set(float64(total))
	}

	s.logger.WithFields(logrus.Fields{
		"inserted": inserted,
		"total":    total,
		"duration": time.Since(start).String(),
	}).Info("Dataset ingestion complete")
	return nil
}
