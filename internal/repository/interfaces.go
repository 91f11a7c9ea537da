// Package repository provides data access for historical matches and logged plays.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prencipemarco/superquote-web/internal/models"
)

// MatchRepository defines read-only access to the historical match corpus.
// The analysis engine is its only consumer and never writes through it.
type MatchRepository interface {
	// FindEncounters returns all matches where the two names appear as the
	// home/away pair in either order, matched case-insensitively by substring,
	// ordered most-recent-first.
	FindEncounters(ctx context.Context, teamA, teamB string) ([]*models.MatchRecord, error)

	// LatestRating returns the most recent Elo rating recorded for team
	// playing on the given side. A nil result with nil error means no usable
	// rating exists.
	LatestRating(ctx context.Context, team string, side models.TeamSide) (*float64, error)
}

// MatchWriter defines the ingestion-side write access to the match corpus.
type MatchWriter interface {
	InsertBatch(ctx context.Context, matches []*models.MatchRecord) error
	Count(ctx context.Context) (int64, error)
}

// PlayRepository defines the interface for betting-journal data access
type PlayRepository interface {
	Create(ctx context.Context, play *models.Play) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Play, error)
	List(ctx context.Context) ([]*models.Play, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Play, error)
	Update(ctx context.Context, play *models.Play) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceAll(ctx context.Context, plays []*models.Play) error
}
