package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/prencipemarco/superquote-web/internal/models"
)

// CachedMatchRepository is a read-through TTL cache in front of a
// MatchRepository. The dashboard re-runs the same query on every debounce
// firing while the user tweaks the price field; the historical table is
// append-only, so short-lived caching is safe and keeps keystrokes off the
// database.
type CachedMatchRepository struct {
	inner MatchRepository
	cache *cache.Cache
}

// NewCachedMatchRepository wraps a match repository with a TTL cache
func NewCachedMatchRepository(inner MatchRepository, ttl time.Duration) *CachedMatchRepository {
	return &CachedMatchRepository{
		inner: inner,
		cache: cache.New(ttl, ttl*2),
	}
}

// FindEncounters returns cached encounters when available
func (r *CachedMatchRepository) FindEncounters(ctx context.Context, teamA, teamB string) ([]*models.MatchRecord, error) {
	key := encounterKey(teamA, teamB)
	if cached, found := r.cache.Get(key); found {
		if matches, ok := cached.([]*models.MatchRecord); ok {
			return matches, nil
		}
	}

	matches, err := r.inner.FindEncounters(ctx, teamA, teamB)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(key, matches)
	return matches, nil
}

// LatestRating returns the cached latest rating when available. Absent
// ratings are cached too: repeating a lookup that has no data is just as
// expensive as one that does.
func (r *CachedMatchRepository) LatestRating(ctx context.Context, team string, side models.TeamSide) (*float64, error) {
	key := ratingKey(team, side)
	if cached, found := r.cache.Get(key); found {
		if rating, ok := cached.(*float64); ok {
			return rating, nil
		}
	}

	rating, err := r.inner.LatestRating(ctx, team, side)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(key, rating)
	return rating, nil
}

// Flush drops all cached entries. Called after dataset ingestion.
func (r *CachedMatchRepository) Flush() {
	r.cache.Flush()
}

func encounterKey(teamA, teamB string) string {
	return fmt.Sprintf("enc:%s|%s", strings.ToLower(strings.TrimSpace(teamA)), strings.ToLower(strings.TrimSpace(teamB)))
}

func ratingKey(team string, side models.TeamSide) string {
	return fmt.Sprintf("elo:%s:%s", side, strings.ToLower(strings.TrimSpace(team)))
}
