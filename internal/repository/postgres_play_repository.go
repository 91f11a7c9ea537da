package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/prencipemarco/superquote-web/internal/database"
	"github.com/prencipemarco/superquote-web/internal/models"
)

const playColumns = `id, played_at, label, price, stake, payout, outcome, created_at, updated_at`

// PostgresPlayRepository implements PlayRepository for PostgreSQL
type PostgresPlayRepository struct {
	db *database.DB
}

// NewPostgresPlayRepository creates a new play repository
func NewPostgresPlayRepository(db *database.DB) PlayRepository {
	return &PostgresPlayRepository{db: db}
}

// Create inserts a new play
func (r *PostgresPlayRepository) Create(ctx context.Context, play *models.Play) error {
	query := `
		INSERT INTO plays (id, played_at, label, price, stake, payout, outcome, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		play.ID, play.PlayedAt, play.Label, play.Price, play.Stake, play.Payout,
		string(play.Outcome), play.CreatedAt, play.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}

	return nil
}

// GetByID retrieves a play by its ID
func (r *PostgresPlayRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Play, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays WHERE id = $1`, playColumns)

	play := &models.Play{}
	var outcome string
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&play.ID, &play.PlayedAt, &play.Label, &play.Price, &play.Stake,
		&play.Payout, &outcome, &play.CreatedAt, &play.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrPlayNotFound
		}
		return nil, fmt.Errorf("failed to query play: %w", err)
	}
	play.Outcome = models.PlayOutcome(outcome)

	return play, nil
}

// List retrieves all plays, most recent first
func (r *PostgresPlayRepository) List(ctx context.Context) ([]*models.Play, error) {
	query := fmt.Sprintf(`SELECT %s FROM plays ORDER BY played_at DESC, created_at DESC`, playColumns)
	return r.queryPlays(ctx, query)
}

// ListByDateRange retrieves plays within a date range, most recent first
func (r *PostgresPlayRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Play, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM plays
		WHERE played_at >= $1 AND played_at <= $2
		ORDER BY played_at DESC, created_at DESC
	`, playColumns)
	return r.queryPlays(ctx, query, start, end)
}

// Update updates an existing play
func (r *PostgresPlayRepository) Update(ctx context.Context, play *models.Play) error {
	query := `
		UPDATE plays SET
			played_at = $2, label = $3, price = $4, stake = $5, payout = $6,
			outcome = $7, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		play.ID, play.PlayedAt, play.Label, play.Price, play.Stake, play.Payout,
		string(play.Outcome),
	)
	if err != nil {
		return fmt.Errorf("failed to update play: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrPlayNotFound
	}

	return nil
}

// Delete removes a play
func (r *PostgresPlayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.GetPool().Exec(ctx, `DELETE FROM plays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete play: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrPlayNotFound
	}

	return nil
}

// ReplaceAll atomically replaces the whole journal. Used by JSON import,
// which overwrites the current play list wholesale.
func (r *PostgresPlayRepository) ReplaceAll(ctx context.Context, plays []*models.Play) error {
	pool := r.db.GetPool()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM plays`); err != nil {
		return fmt.Errorf("failed to clear plays: %w", err)
	}

	for _, play := range plays {
		_, err := tx.Exec(ctx, `
			INSERT INTO plays (id, played_at, label, price, stake, payout, outcome, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			play.ID, play.PlayedAt, play.Label, play.Price, play.Stake, play.Payout,
			string(play.Outcome), play.CreatedAt, play.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert imported play: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	return nil
}

func (r *PostgresPlayRepository) queryPlays(ctx context.Context, query string, args ...interface{}) ([]*models.Play, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []*models.Play
	for rows.Next() {
		play := &models.Play{}
		var outcome string
		err := rows.Scan(
			&play.ID, &play.PlayedAt, &play.Label, &play.Price, &play.Stake,
			&play.Payout, &outcome, &play.CreatedAt, &play.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		play.Outcome = models.PlayOutcome(outcome)
		plays = append(plays, play)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plays: %w", err)
	}

	return plays, nil
}
