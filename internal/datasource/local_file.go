package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/models"
)

// LocalFileSource reads an already-downloaded Matches.csv from disk.
type LocalFileSource struct {
	path   string
	logger *logrus.Logger
}

// NewLocalFileSource creates a dataset source backed by a local CSV file
func NewLocalFileSource(path string, logger *logrus.Logger) *LocalFileSource {
	return &LocalFileSource{path: path, logger: logger}
}

// FetchMatches parses the whole file.
func (s *LocalFileSource) FetchMatches(ctx context.Context) ([]*models.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	matches, skipped, err := ParseMatchesCSV(f)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.logger.WithFields(logrus.Fields{
			"path":    s.path,
			"skipped": skipped,
		}).Warn("Dataset rows skipped during parse")
	}
	return matches, nil
}
