// Package service provides the dashboard's journal, chart, and import/export services.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/metrics"
	"github.com/prencipemarco/superquote-web/internal/models"
	"github.com/prencipemarco/superquote-web/internal/repository"
)

// PlayService manages the betting journal
type PlayService struct {
	repo   repository.PlayRepository
	logger *logrus.Logger
}

// NewPlayService creates a new play service
func NewPlayService(repo repository.PlayRepository, logger *logrus.Logger) *PlayService {
	return &PlayService{repo: repo, logger: logger}
}

// PlayInput carries the fields of a create or update request
type PlayInput struct {
	PlayedAt time.Time          `json:"played_at"`
	Label    string             `json:"label"`
	Price    decimal.Decimal    `json:"price"`
	Stake    decimal.Decimal    `json:"stake"`
	Payout   *decimal.Decimal   `json:"payout,omitempty"`
	Outcome  models.PlayOutcome `json:"outcome"`
}

func (in *PlayInput) validate() error {
	if strings.TrimSpace(in.Label) == "" {
		return fmt.Errorf("label is required")
	}
	if in.Price.LessThanOrEqual(decimal.NewFromInt(1)) {
		return models.ErrInvalidPrice
	}
	if in.Stake.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("stake must be positive")
	}
	switch in.Outcome {
	case models.PlayOutcomeWon, models.PlayOutcomeLost, models.PlayOutcomeVoid, models.PlayOutcomePending:
		return nil
	default:
		return fmt.Errorf("unknown outcome %q", in.Outcome)
	}
}

// payout returns the explicit payout when given, otherwise derives it:
// stake x price on a win, zero otherwise.
func (in *PlayInput) payout() decimal.Decimal {
	if in.Payout != nil {
		return *in.Payout
	}
	if in.Outcome == models.PlayOutcomeWon {
		return in.Stake.Mul(in.Price).Round(2)
	}
	return decimal.Zero
}

// CreatePlay logs a new play
func (s *PlayService) CreatePlay(ctx context.Context, input PlayInput) (*models.Play, error) {
	if err := input.validate(); err != nil {
		return nil, fmt.Errorf("invalid play: %w", err)
	}

	now := time.Now()
	play := &models.Play{
		ID:        uuid.New(),
		PlayedAt:  input.PlayedAt,
		Label:     strings.TrimSpace(input.Label),
		Price:     input.Price,
		Stake:     input.Stake,
		Payout:    input.payout(),
		Outcome:   input.Outcome,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, play); err != nil {
		return nil, fmt.Errorf("failed to create play: %w", err)
	}

	metrics.PlaysCreatedTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"play_id": play.ID,
		"label":   play.Label,
		"outcome": play.Outcome,
	}).Info("Play logged")

	return play, nil
}

// UpdatePlay replaces the editable fields of an existing play
func (s *PlayService) UpdatePlay(ctx context.Context, id uuid.UUID, input PlayInput) (*models.Play, error) {
	if err := input.validate(); err != nil {
		return nil, fmt.Errorf("invalid play: %w", err)
	}

	play, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	play.PlayedAt = input.PlayedAt
	play.Label = strings.TrimSpace(input.Label)
	play.Price = input.Price
	play.Stake = input.Stake
	play.Payout = input.payout()
	play.Outcome = input.Outcome
	play.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, play); err != nil {
		return nil, fmt.Errorf("failed to update play: %w", err)
	}

	s.logger.WithField("play_id", play.ID).Info("Play updated")
	return play, nil
}

// DeletePlay removes a play from the journal
func (s *PlayService) DeletePlay(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("play_id", id).Info("Play deleted")
	return nil
}

// GetPlay retrieves one play
func (s *PlayService) GetPlay(ctx context.Context, id uuid.UUID) (*models.Play, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPlays returns the whole journal, most recent first
func (s *PlayService) ListPlays(ctx context.Context) ([]*models.Play, error) {
	return s.repo.List(ctx)
}
