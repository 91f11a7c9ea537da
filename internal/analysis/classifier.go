// Package analysis implements the betting-edge estimation engine: it mines
// the historical match corpus for comparable encounters, derives a win
// probability from direct history and an Elo rating model, and grades the
// result against a bookmaker price.
package analysis

import (
	"github.com/prencipemarco/superquote-web/internal/models"
)

// IsHit reports whether a single match counts as a success for the given bet
// category. Pure and total: any match/category pair yields a deterministic
// answer with no side effects.
//
// Matches with missing goal counts are scored as 0-0 for the goal-based
// categories (Over/Under 2.5, GG/NG). That skews those markets toward Under
// and No-Goal on sparse data; the behavior is intentional and pinned by tests
// so a future correction is a deliberate change, not an accident.
func IsHit(m *models.MatchRecord, category models.OutcomeCategory) bool {
	homeGoals, awayGoals := 0, 0
	if m.FTHomeGoals != nil {
		homeGoals = *m.FTHomeGoals
	}
	if m.FTAwayGoals != nil {
		awayGoals = *m.FTAwayGoals
	}

	switch category {
	case models.CategoryHomeWin:
		return m.FTResult == models.ResultHome
	case models.CategoryDraw:
		return m.FTResult == models.ResultDraw
	case models.CategoryAwayWin:
		return m.FTResult == models.ResultAway
	case models.CategoryHomeOrDraw:
		return m.FTResult == models.ResultHome || m.FTResult == models.ResultDraw
	case models.CategoryDrawOrAway:
		return m.FTResult == models.ResultDraw || m.FTResult == models.ResultAway
	case models.CategoryHomeOrAway:
		return m.FTResult == models.ResultHome || m.FTResult == models.ResultAway
	case models.CategoryOver25:
		return float64(homeGoals+awayGoals) > 2.5
	case models.CategoryUnder25:
		return float64(homeGoals+awayGoals) < 2.5
	case models.CategoryBothScore:
		return homeGoals > 0 && awayGoals > 0
	case models.CategoryNotBothScore:
		return homeGoals == 0 || awayGoals == 0
	default:
		return false
	}
}

// CountHits tallies the matches that satisfy the category.
func CountHits(matches []*models.MatchRecord, category models.OutcomeCategory) int {
	hits := 0
	for _, m := range matches {
		if IsHit(m, category) {
			hits++
		}
	}
	return hits
}
