package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prencipemarco/superquote-web/internal/models"
)

func fixture(day, home, away string, result models.FullTimeResult, hg, ag int) *models.MatchRecord {
	return &models.MatchRecord{
		MatchDate:   date(day),
		HomeTeam:    home,
		AwayTeam:    away,
		FTResult:    result,
		FTHomeGoals: intPtr(hg),
		FTAwayGoals: intPtr(ag),
	}
}

func TestDeduplicateEncountersKeepsFirstSeen(t *testing.T) {
	first := fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 2, 1)
	dup := fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 2, 1)
	older := fixture("2023-10-01", "Milan", "Inter", models.ResultDraw, 1, 1)

	out := DeduplicateEncounters([]*models.MatchRecord{first, dup, older})

	require.Len(t, out, 2)
	assert.Same(t, first, out[0])
	assert.Same(t, older, out[1])
}

func TestDeduplicateEncountersCaseInsensitive(t *testing.T) {
	a := fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 2, 1)
	b := fixture("2024-03-10", "INTER ", "milan", models.ResultHome, 2, 1)

	out := DeduplicateEncounters([]*models.MatchRecord{a, b})
	assert.Len(t, out, 1)
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	matches := []*models.MatchRecord{
		fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 2, 1),
		fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 2, 1),
		fixture("2023-10-01", "Milan", "Inter", models.ResultDraw, 1, 1),
	}

	once := DeduplicateEncounters(matches)
	twice := DeduplicateEncounters(once)
	assert.Equal(t, once, twice)
}

func TestDeduplicateByScore(t *testing.T) {
	matches := []*models.MatchRecord{
		fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 2, 1),
		fixture("2024-03-10", "Inter Milano", "AC Milan", models.ResultHome, 2, 1), // same fixture, respelled
		fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 3, 1),
	}

	out := DeduplicateByScore(matches)
	assert.Len(t, out, 2)
}

func TestPreferTokenMatchesDropsSubstringOnlyRows(t *testing.T) {
	wanted := fixture("2024-03-10", "United", "City", models.ResultHome, 1, 0)
	imposter := fixture("2024-02-01", "West United Reserves", "City", models.ResultAway, 0, 2)
	embedded := fixture("2024-01-15", "Reunited FC", "City", models.ResultDraw, 1, 1)

	out := PreferTokenMatches([]*models.MatchRecord{wanted, imposter, embedded}, "United", "City")

	// "Reunited" only contains "United" as a substring, not as a token
	require.Len(t, out, 2)
	assert.Same(t, wanted, out[0])
	assert.Same(t, imposter, out[1])
}

func TestPreferTokenMatchesFallsBackToSubstring(t *testing.T) {
	partial := fixture("2024-03-10", "Borussia Dortmund", "Schalke", models.ResultHome, 2, 0)

	// "Dortm" matches no whole token anywhere, so substring rows survive
	out := PreferTokenMatches([]*models.MatchRecord{partial}, "Dortm", "Schalke")
	assert.Len(t, out, 1)
}

func TestPreferTokenMatchesMultiWordTerm(t *testing.T) {
	exact := fixture("2024-03-10", "Real Madrid", "Barcelona", models.ResultHome, 2, 1)
	other := fixture("2024-02-01", "Real Madrid Castilla", "Barcelona", models.ResultAway, 0, 1)

	out := PreferTokenMatches([]*models.MatchRecord{exact, other}, "Real Madrid", "Barcelona")
	// both carry the full token sequence; neither is dropped
	assert.Len(t, out, 2)
}

func TestPreferTokenMatchesIgnoresEmptyTerms(t *testing.T) {
	m := fixture("2024-03-10", "Inter", "Milan", models.ResultHome, 1, 0)
	out := PreferTokenMatches([]*models.MatchRecord{m}, "", "  ")
	assert.Len(t, out, 1)
}
