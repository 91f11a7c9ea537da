package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/models"
	"github.com/prencipemarco/superquote-web/internal/repository"
)

// ImportExportService moves the journal in and out of the database as
// JSON or CSV files.
type ImportExportService struct {
	repo   repository.PlayRepository
	logger *logrus.Logger
}

// NewImportExportService creates a new import/export service
func NewImportExportService(repo repository.PlayRepository, logger *logrus.Logger) *ImportExportService {
	return &ImportExportService{repo: repo, logger: logger}
}

// ExportJSON writes the whole journal as a JSON array.
func (s *ImportExportService) ExportJSON(ctx context.Context, w io.Writer) error {
	plays, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load plays: %w", err)
	}
	if plays == nil {
		plays = []*models.Play{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(plays); err != nil {
		return fmt.Errorf("failed to encode plays: %w", err)
	}
	return nil
}

// ImportJSON replaces the whole journal with the plays in the given JSON
// array. The file wins wholesale; there is no merging.
func (s *ImportExportService) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	var plays []*models.Play
	if err := json.NewDecoder(r).Decode(&plays); err != nil {
		return 0, fmt.Errorf("failed to decode plays: %w", err)
	}

	now := time.Now()
	for i, play := range plays {
		if play == nil {
			return 0, fmt.Errorf("entry %d is null", i)
		}
		if play.ID == uuid.Nil {
			play.ID = uuid.New()
		}
		switch play.Outcome {
		case models.PlayOutcomeWon, models.PlayOutcomeLost, models.PlayOutcomeVoid, models.PlayOutcomePending:
		default:
			return 0, fmt.Errorf("entry %d has unknown outcome %q", i, play.Outcome)
		}
		if play.CreatedAt.IsZero() {
			play.CreatedAt = now
		}
		play.UpdatedAt = now
	}

	if err := s.repo.ReplaceAll(ctx, plays); err != nil {
		return 0, fmt.Errorf("failed to replace plays: %w", err)
	}

	s.logger.WithField("count", len(plays)).Info("Journal imported")
	return len(plays), nil
}

var csvHeader = []string{"played_at", "label", "price", "stake", "payout", "outcome", "profit"}

// ExportCSV writes the journal as a spreadsheet-friendly CSV with a
// derived profit column.
func (s *ImportExportService) ExportCSV(ctx context.Context, w io.Writer) error {
	plays, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load plays: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, play := range plays {
		record := []string{
			play.PlayedAt.Format("2006-01-02"),
			play.Label,
			play.Price.String(),
			play.Stake.String(),
			play.Payout.String(),
			string(play.Outcome),
			play.Profit().String(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write play %s: %w", play.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
