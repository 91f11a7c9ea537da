package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/metrics"
	"github.com/prencipemarco/superquote-web/internal/models"
	"github.com/prencipemarco/superquote-web/internal/repository"
)

// State identifies a phase of one analysis run. The observer hook exposes
// transitions to the orchestrator and the UI.
type State string

const (
	StateIdle               State = "idle"
	StateValidating         State = "validating"
	StateFetchingEncounters State = "fetching_encounters"
	StateNoEncounters       State = "no_encounters"
	StateComputingStats     State = "computing_stats"
	StateFetchingElo        State = "fetching_elo"
	StateBlending           State = "blending"
	StateEvaluating         State = "evaluating"
	StateReady              State = "ready"
	StateError              State = "error"
)

// Options tunes the engine. Zero values are replaced by the defaults.
type Options struct {
	HomeAdvantage       float64
	EdgeThreshold       float64
	RecentFixturesLimit int
	RepositoryTimeout   time.Duration
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		HomeAdvantage:       DefaultHomeAdvantage,
		EdgeThreshold:       DefaultEdgeThreshold,
		RecentFixturesLimit: 5,
		RepositoryTimeout:   10 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.HomeAdvantage == 0 {
		o.HomeAdvantage = def.HomeAdvantage
	}
	if o.EdgeThreshold == 0 {
		o.EdgeThreshold = def.EdgeThreshold
	}
	if o.RecentFixturesLimit == 0 {
		o.RecentFixturesLimit = def.RecentFixturesLimit
	}
	if o.RepositoryTimeout == 0 {
		o.RepositoryTimeout = def.RepositoryTimeout
	}
	return o
}

// Engine runs one analysis query end to end: fetch encounters, deduplicate,
// classify, aggregate, fetch Elo ratings (concurrently with the statistics),
// blend, and grade the edge. It holds no per-query state; every run allocates
// its own trace and result.
type Engine struct {
	repo   repository.MatchRepository
	logger *logrus.Logger
	opts   Options
}

// NewEngine creates an analysis engine over a match repository
func NewEngine(repo repository.MatchRepository, logger *logrus.Logger, opts Options) *Engine {
	return &Engine{
		repo:   repo,
		logger: logger,
		opts:   opts.withDefaults(),
	}
}

// RunQuery executes a single analysis. Repository failures return both a
// terminal "insufficient data" result (with the failure in its trace) and the
// wrapped error; the caller decides which to surface.
func (e *Engine) RunQuery(ctx context.Context, query models.Query) (*models.AnalysisResult, error) {
	return e.run(ctx, query, func(State) {})
}

// RunQueryObserved is RunQuery with a state-transition observer.
func (e *Engine) RunQueryObserved(ctx context.Context, query models.Query, observe func(State)) (*models.AnalysisResult, error) {
	if observe == nil {
		observe = func(State) {}
	}
	return e.run(ctx, query, observe)
}

type eloFetch struct {
	probability  *float64
	differential *float64
	homeElo      *float64
	awayElo      *float64
	err          error
}

func (e *Engine) run(ctx context.Context, query models.Query, observe func(State)) (*models.AnalysisResult, error) {
	started := time.Now()
	defer func() {
		metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	}()

	observe(StateValidating)
	if err := query.Validate(); err != nil {
		observe(StateError)
		return nil, err
	}

	home := strings.TrimSpace(query.HomeTeam)
	away := strings.TrimSpace(query.AwayTeam)
	if home == "" || away == "" {
		observe(StateError)
		return nil, models.ErrMissingTeam
	}

	// A stuck repository call must not stall a run forever
	ctx, cancel := context.WithTimeout(ctx, e.opts.RepositoryTimeout)
	defer cancel()

	trace := NewTrace()
	result := &models.AnalysisResult{Query: query, Verdict: models.VerdictInsufficientData}

	trace.Addf("Searching direct encounters between %q and %q", home, away)
	observe(StateFetchingEncounters)

	raw, err := e.repo.FindEncounters(ctx, home, away)
	if err != nil {
		trace.Addf("Repository error: %v", err)
		observe(StateError)
		result.Trace = trace.Steps()
		metrics.AnalysesTotal.WithLabelValues(string(result.Verdict)).Inc()
		return result, fmt.Errorf("encounter fetch failed: %w", err)
	}
	trace.Addf("Repository returned %d rows", len(raw))

	encounters := DeduplicateEncounters(raw)
	if removed := len(raw) - len(encounters); removed > 0 {
		trace.Addf("Removed %d duplicate rows", removed)
	}
	filtered := PreferTokenMatches(encounters, home, away)
	if removed := len(encounters) - len(filtered); removed > 0 {
		trace.Addf("Dropped %d substring-only matches in favor of exact team names", removed)
	}
	encounters = filtered

	if len(encounters) == 0 {
		trace.Addf("No direct encounters between %q and %q", home, away)
		observe(StateNoEncounters)
		result.NoEncounters = true
		result.Trace = trace.Steps()
		metrics.AnalysesTotal.WithLabelValues(string(result.Verdict)).Inc()
		e.logResult(query, result)
		return result, nil
	}

	// Elo lookups run concurrently with the statistics pass and join at the
	// blending step. They are only attempted once encounters are known to
	// exist and only for the plain 1X2 markets.
	var eloCh chan eloFetch
	if query.Category.IsSingleOutcome() {
		eloCh = make(chan eloFetch, 1)
		go func() {
			eloCh <- e.fetchElo(ctx, home, away, query.Category)
		}()
	}

	observe(StateComputingStats)
	aggregate := AggregateWinRate(encounters, query.Category)
	trace.Addf("Market %s: %d/%d hits = %.1f%%",
		query.Category.Label(), aggregate.Hits, aggregate.SampleSize, aggregate.WinRate)
	if aggregate.SampleSize < 10 {
		trace.Addf("Small sample warning: only %d matches", aggregate.SampleSize)
	}

	result.HistoricalWinRate = &aggregate.WinRate
	result.SampleSize = aggregate.SampleSize
	result.AnalysisType = models.AnalysisHeadToHead

	result.Stats = DescriptiveStatistics(encounters, e.opts.RecentFixturesLimit)
	if result.Stats == nil {
		trace.Addf("No goal data in sample, descriptive statistics skipped")
	}

	var eloProbability *float64
	if eloCh != nil {
		observe(StateFetchingElo)
		elo := <-eloCh
		if elo.err != nil {
			trace.Addf("Repository error during Elo lookup: %v", elo.err)
			observe(StateError)
			result.Trace = trace.Steps()
			metrics.AnalysesTotal.WithLabelValues(string(result.Verdict)).Inc()
			return result, fmt.Errorf("elo fetch failed: %w", elo.err)
		}
		if elo.probability != nil {
			eloProbability = elo.probability
			result.EloProbability = elo.probability
			result.EloRatingDifferential = elo.differential
			trace.Addf("Elo %s: %.0f, %s: %.0f", home, *elo.homeElo, away, *elo.awayElo)
			trace.Addf("Elo probability for %s: %.1f%%", query.Category.Label(), *elo.probability)
		} else {
			trace.Addf("Elo ratings unavailable")
		}
	}

	observe(StateBlending)
	realProbability, source := Blend(result.HistoricalWinRate, result.AnalysisType == models.AnalysisHeadToHead, eloProbability)
	result.RealProbability = realProbability
	if realProbability != nil {
		trace.Addf("Real probability: %.1f%% (%s)", *realProbability, source)
	}

	observe(StateEvaluating)
	result.ImpliedProbability = ImpliedProbability(query.Price)
	if result.ImpliedProbability != nil {
		trace.Addf("Price %.2f implies %.1f%%", *query.Price, *result.ImpliedProbability)
	} else if query.Price != nil {
		trace.Addf("Price %.2f rejected: decimal odds must exceed 1.0", *query.Price)
	}

	result.Edge, result.Verdict = EvaluateEdge(result.RealProbability, result.ImpliedProbability, e.opts.EdgeThreshold)
	switch result.Verdict {
	case models.VerdictFavorable, models.VerdictUnfavorable, models.VerdictFair:
		trace.Addf("Edge: %+.1f%% (real - implied), verdict %s", *result.Edge, result.Verdict)
	case models.VerdictNeedsPrice:
		trace.Addf("Enter a price for a final verdict")
	default:
		trace.Addf("Insufficient data for a verdict")
	}

	observe(StateReady)
	result.Trace = trace.Steps()
	metrics.AnalysesTotal.WithLabelValues(string(result.Verdict)).Inc()
	e.logResult(query, result)
	return result, nil
}

// fetchElo resolves the latest home-side and away-side ratings and converts
// them into the probability for the requested category. A missing rating on
// either side yields an empty fetch, not an error.
func (e *Engine) fetchElo(ctx context.Context, home, away string, category models.OutcomeCategory) eloFetch {
	homeElo, err := e.repo.LatestRating(ctx, home, models.SideHome)
	if err != nil {
		return eloFetch{err: err}
	}
	awayElo, err := e.repo.LatestRating(ctx, away, models.SideAway)
	if err != nil {
		return eloFetch{err: err}
	}
	if homeElo == nil || awayElo == nil {
		return eloFetch{}
	}

	probs := EloOutcomeProbabilities(*homeElo, *awayElo, e.opts.HomeAdvantage)
	selected, ok := probs.For(category)
	if !ok {
		return eloFetch{}
	}

	diff := *homeElo - *awayElo
	return eloFetch{
		probability:  &selected,
		differential: &diff,
		homeElo:      homeElo,
		awayElo:      awayElo,
	}
}

func (e *Engine) logResult(query models.Query, result *models.AnalysisResult) {
	e.logger.WithFields(logrus.Fields{
		"home":        query.HomeTeam,
		"away":        query.AwayTeam,
		"category":    query.Category,
		"sample_size": result.SampleSize,
		"verdict":     result.Verdict,
	}).Debug("Analysis complete")
}
