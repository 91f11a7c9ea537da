package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prencipemarco/superquote-web/internal/database"
	"github.com/prencipemarco/superquote-web/internal/metrics"
	"github.com/prencipemarco/superquote-web/internal/models"
)

const matchColumns = `
	match_date, division, home_team, away_team, ft_result,
	ft_home, ft_away, ht_home, ht_away,
	home_corners, away_corners, home_yellow, away_yellow, home_red, away_red,
	home_elo, away_elo, odd_home, odd_draw, odd_away`

// PostgresMatchRepository implements MatchRepository and MatchWriter for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// FindEncounters returns direct encounters between the two teams in either
// home/away order, most recent first. Matching is case-insensitive substring
// (ILIKE), mirroring the free-text team inputs of the dashboard; token-level
// disambiguation happens downstream in the analysis engine.
func (r *PostgresMatchRepository) FindEncounters(ctx context.Context, teamA, teamB string) ([]*models.MatchRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM historical_matches
		WHERE (home_team ILIKE '%%' || $1 || '%%' AND away_team ILIKE '%%' || $2 || '%%')
		   OR (home_team ILIKE '%%' || $2 || '%%' AND away_team ILIKE '%%' || $1 || '%%')
		ORDER BY match_date DESC
	`, matchColumns)

	start := time.Now()
	rows, err := r.db.GetPool().Query(ctx, query, teamA, teamB)
	metrics.RepositoryQueryDuration.WithLabelValues("find_encounters").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RepositoryErrorsTotal.Inc()
		return nil, fmt.Errorf("failed to query encounters: %w", err)
	}
	defer rows.Close()

	var matches []*models.MatchRecord
	for rows.Next() {
		m := &models.MatchRecord{}
		if err := scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	if err = rows.Err(); err != nil {
		metrics.RepositoryErrorsTotal.Inc()
		return nil, fmt.Errorf("error iterating encounters: %w", err)
	}

	return matches, nil
}

// LatestRating returns the most recent Elo rating recorded for the team on
// the given side, or nil when no row (or a NULL rating) exists.
func (r *PostgresMatchRepository) LatestRating(ctx context.Context, team string, side models.TeamSide) (*float64, error) {
	teamColumn, eloColumn := "home_team", "home_elo"
	if side == models.SideAway {
		teamColumn, eloColumn = "away_team", "away_elo"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM historical_matches
		WHERE %s ILIKE '%%' || $1 || '%%'
		ORDER BY match_date DESC
		LIMIT 1
	`, eloColumn, teamColumn)

	start := time.Now()
	var rating *float64
	err := r.db.GetPool().QueryRow(ctx, query, team).Scan(&rating)
	metrics.RepositoryQueryDuration.WithLabelValues("latest_rating").Observe(time.Since(start).Seconds())
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		metrics.RepositoryErrorsTotal.Inc()
		return nil, fmt.Errorf("failed to query latest %s rating: %w", side, err)
	}

	return rating, nil
}

// InsertBatch inserts matches using high-performance COPY
func (r *PostgresMatchRepository) InsertBatch(ctx context.Context, matches []*models.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}

	columns := []string{
		"match_date", "division", "home_team", "away_team", "ft_result",
		"ft_home", "ft_away", "ht_home", "ht_away",
		"home_corners", "away_corners", "home_yellow", "away_yellow", "home_red", "away_red",
		"home_elo", "away_elo", "odd_home", "odd_draw", "odd_away",
	}

	copyFromSource := make([][]interface{}, len(matches))
	for i, m := range matches {
		copyFromSource[i] = []interface{}{
			m.MatchDate, m.Division, m.HomeTeam, m.AwayTeam, string(m.FTResult),
			m.FTHomeGoals, m.FTAwayGoals, m.HTHomeGoals, m.HTAwayGoals,
			m.HomeCorners, m.AwayCorners, m.HomeYellow, m.AwayYellow, m.HomeRed, m.AwayRed,
			m.HomeElo, m.AwayElo, m.OddHome, m.OddDraw, m.OddAway,
		}
	}

	copyCount, err := r.db.GetPool().CopyFrom(
		ctx,
		pgx.Identifier{"historical_matches"},
		columns,
		pgx.CopyFromRows(copyFromSource),
	)
	if err != nil {
		return fmt.Errorf("failed to batch insert matches: %w", err)
	}

	if copyCount != int64(len(matches)) {
		return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(matches))
	}

	return nil
}

// Count returns the number of historical matches loaded
func (r *PostgresMatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM historical_matches").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func scanMatch(rows pgx.Rows, m *models.MatchRecord) error {
	var ftResult string
	err := rows.Scan(
		&m.MatchDate, &m.Division, &m.HomeTeam, &m.AwayTeam, &ftResult,
		&m.FTHomeGoals, &m.FTAwayGoals, &m.HTHomeGoals, &m.HTAwayGoals,
		&m.HomeCorners, &m.AwayCorners, &m.HomeYellow, &m.AwayYellow, &m.HomeRed, &m.AwayRed,
		&m.HomeElo, &m.AwayElo, &m.OddHome, &m.OddDraw, &m.OddAway,
	)
	if err != nil {
		return err
	}
	m.FTResult = models.FullTimeResult(ftResult)
	return nil
}
