package analysis

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prencipemarco/superquote-web/internal/models"
)

type fakeMatchRepo struct {
	mu             sync.Mutex
	encounters     []*models.MatchRecord
	encountersErr  error
	ratings        map[string]*float64
	ratingErr      error
	encounterCalls int
	ratingCalls    int
	findHook       func(teamA, teamB string) ([]*models.MatchRecord, error)
}

func (f *fakeMatchRepo) FindEncounters(_ context.Context, teamA, teamB string) ([]*models.MatchRecord, error) {
	f.mu.Lock()
	f.encounterCalls++
	f.mu.Unlock()
	if f.findHook != nil {
		return f.findHook(teamA, teamB)
	}
	if f.encountersErr != nil {
		return nil, f.encountersErr
	}
	return f.encounters, nil
}

func (f *fakeMatchRepo) LatestRating(_ context.Context, team string, side models.TeamSide) (*float64, error) {
	f.mu.Lock()
	f.ratingCalls++
	f.mu.Unlock()
	if f.ratingErr != nil {
		return nil, f.ratingErr
	}
	return f.ratings[string(side)+":"+team], nil
}

func (f *fakeMatchRepo) calls() (encounters, ratings int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.encounterCalls, f.ratingCalls
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEngine(repo *fakeMatchRepo) *Engine {
	return NewEngine(repo, testLogger(), Options{})
}

func h2hSample(homeWins, others int) []*models.MatchRecord {
	var matches []*models.MatchRecord
	days := 0
	next := func() string {
		days++
		return date("2024-06-01").AddDate(0, 0, -days).Format("2006-01-02")
	}
	for i := 0; i < homeWins; i++ {
		matches = append(matches, fixture(next(), "Inter", "Milan", models.ResultHome, 2, 0))
	}
	for i := 0; i < others; i++ {
		matches = append(matches, fixture(next(), "Inter", "Milan", models.ResultAway, 0, 1))
	}
	return matches
}

func TestRunQueryIdenticalTeamsNeverHitsRepository(t *testing.T) {
	repo := &fakeMatchRepo{}
	engine := newTestEngine(repo)

	for _, away := range []string{"Alpha", "ALPHA", "  alpha  "} {
		_, err := engine.RunQuery(context.Background(), models.Query{
			HomeTeam: "Alpha",
			AwayTeam: away,
			Category: models.CategoryHomeWin,
		})
		assert.ErrorIs(t, err, models.ErrIdenticalTeams)
	}

	encounters, ratings := repo.calls()
	assert.Zero(t, encounters)
	assert.Zero(t, ratings)
}

func TestRunQueryRequiresBothTeams(t *testing.T) {
	repo := &fakeMatchRepo{}
	engine := newTestEngine(repo)

	_, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		Category: models.CategoryHomeWin,
	})
	assert.ErrorIs(t, err, models.ErrMissingTeam)

	encounters, _ := repo.calls()
	assert.Zero(t, encounters)
}

func TestRunQueryNoEncountersIsTerminal(t *testing.T) {
	repo := &fakeMatchRepo{}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.NoEncounters)
	assert.Equal(t, models.VerdictInsufficientData, result.Verdict)
	assert.Nil(t, result.HistoricalWinRate)
	assert.Nil(t, result.Stats)

	// no data means no Elo lookup either
	_, ratings := repo.calls()
	assert.Zero(t, ratings)
}

func TestRunQueryFavorableEdge(t *testing.T) {
	repo := &fakeMatchRepo{encounters: h2hSample(6, 4)}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
		Price:    floatPtr(2.0),
	})

	require.NoError(t, err)
	require.NotNil(t, result.HistoricalWinRate)
	assert.Equal(t, 60.0, *result.HistoricalWinRate)
	assert.Equal(t, 10, result.SampleSize)
	assert.Equal(t, models.AnalysisHeadToHead, result.AnalysisType)
	require.NotNil(t, result.ImpliedProbability)
	assert.Equal(t, 50.0, *result.ImpliedProbability)
	require.NotNil(t, result.RealProbability)
	assert.Equal(t, 60.0, *result.RealProbability)
	require.NotNil(t, result.Edge)
	assert.InDelta(t, 10.0, *result.Edge, 1e-9)
	assert.Equal(t, models.VerdictFavorable, result.Verdict)
	assert.NotEmpty(t, result.Trace)
}

func TestRunQueryNeedsPriceWithoutOdds(t *testing.T) {
	repo := &fakeMatchRepo{encounters: h2hSample(6, 4)}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
	})

	require.NoError(t, err)
	assert.Equal(t, models.VerdictNeedsPrice, result.Verdict)
	assert.Nil(t, result.Edge)
}

func TestRunQueryRejectsPriceBelowOne(t *testing.T) {
	repo := &fakeMatchRepo{encounters: h2hSample(6, 4)}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
		Price:    floatPtr(0.95),
	})

	require.NoError(t, err)
	assert.Nil(t, result.ImpliedProbability)
	assert.Equal(t, models.VerdictNeedsPrice, result.Verdict)
}

func TestRunQueryEloComputedForSingleOutcome(t *testing.T) {
	repo := &fakeMatchRepo{
		encounters: h2hSample(6, 4),
		ratings: map[string]*float64{
			"home:Inter": floatPtr(1700),
			"away:Milan": floatPtr(1650),
		},
	}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
	})

	require.NoError(t, err)
	require.NotNil(t, result.EloProbability)
	require.NotNil(t, result.EloRatingDifferential)
	assert.Equal(t, 50.0, *result.EloRatingDifferential)

	expected, _ := EloOutcomeProbabilities(1700, 1650, DefaultHomeAdvantage).For(models.CategoryHomeWin)
	assert.Equal(t, expected, *result.EloProbability)

	// the head-to-head rate still wins the blend
	require.NotNil(t, result.RealProbability)
	assert.Equal(t, *result.HistoricalWinRate, *result.RealProbability)
}

func TestRunQuerySkipsEloForGoalMarkets(t *testing.T) {
	repo := &fakeMatchRepo{
		encounters: h2hSample(6, 4),
		ratings: map[string]*float64{
			"home:Inter": floatPtr(1700),
			"away:Milan": floatPtr(1650),
		},
	}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryOver25,
	})

	require.NoError(t, err)
	assert.Nil(t, result.EloProbability)
	_, ratings := repo.calls()
	assert.Zero(t, ratings)
}

func TestRunQueryMissingRatingLeavesEloAbsent(t *testing.T) {
	repo := &fakeMatchRepo{
		encounters: h2hSample(6, 4),
		ratings:    map[string]*float64{"home:Inter": floatPtr(1700)},
	}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
	})

	require.NoError(t, err)
	assert.Nil(t, result.EloProbability)
	assert.Nil(t, result.EloRatingDifferential)
}

func TestRunQueryRepositoryErrorYieldsInsufficientData(t *testing.T) {
	repoErr := errors.New("connection refused")
	repo := &fakeMatchRepo{encountersErr: repoErr}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
	})

	require.ErrorIs(t, err, repoErr)
	require.NotNil(t, result)
	assert.Equal(t, models.VerdictInsufficientData, result.Verdict)
	assert.NotEmpty(t, result.Trace, "the failure must appear in the trace")
}

func TestRunQueryDeduplicatesBeforeCounting(t *testing.T) {
	base := h2hSample(6, 4)
	withDups := append([]*models.MatchRecord{base[0], base[1]}, base...)
	repo := &fakeMatchRepo{encounters: withDups}
	engine := newTestEngine(repo)

	result, err := engine.RunQuery(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
	})

	require.NoError(t, err)
	assert.Equal(t, 10, result.SampleSize)
	require.NotNil(t, result.HistoricalWinRate)
	assert.Equal(t, 60.0, *result.HistoricalWinRate)
}

func TestRunQueryTraceIsReproducible(t *testing.T) {
	repo := &fakeMatchRepo{encounters: h2hSample(6, 4)}
	engine := newTestEngine(repo)

	query := models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
		Price:    floatPtr(2.0),
	}

	first, err := engine.RunQuery(context.Background(), query)
	require.NoError(t, err)
	second, err := engine.RunQuery(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRunQueryObservedStateSequence(t *testing.T) {
	repo := &fakeMatchRepo{encounters: h2hSample(6, 4)}
	engine := newTestEngine(repo)

	var states []State
	var mu sync.Mutex
	_, err := engine.RunQueryObserved(context.Background(), models.Query{
		HomeTeam: "Inter",
		AwayTeam: "Milan",
		Category: models.CategoryHomeWin,
	}, func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	require.NoError(t, err)
	assert.Equal(t, []State{
		StateValidating, StateFetchingEncounters, StateComputingStats,
		StateFetchingElo, StateBlending, StateEvaluating, StateReady,
	}, states)
}
