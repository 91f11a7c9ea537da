package models

import "time"

// Verdict is the categorical recommendation derived from the edge.
type Verdict string

const (
	VerdictFavorable        Verdict = "FAVORABLE"
	VerdictUnfavorable      Verdict = "UNFAVORABLE"
	VerdictFair             Verdict = "FAIR"
	VerdictNeedsPrice       Verdict = "NEEDS_PRICE"
	VerdictInsufficientData Verdict = "INSUFFICIENT_DATA"
)

// AnalysisType describes which dataset produced the historical rate.
type AnalysisType string

const (
	// AnalysisHeadToHead means the rate comes from direct encounters between
	// the two queried teams. It is the only type the engine currently emits.
	AnalysisHeadToHead AnalysisType = "H2H"
)

// RecentFixture is one row of the "last results" list shown under the stats.
type RecentFixture struct {
	MatchDate time.Time      `json:"match_date"`
	HomeTeam  string         `json:"home_team"`
	AwayTeam  string         `json:"away_team"`
	Score     string         `json:"score"`
	Result    FullTimeResult `json:"result"`
}

// DescriptiveStats carries per-pairing averages, computed only when at least
// one deduplicated match has full-time goal data.
type DescriptiveStats struct {
	AvgHomeCorners     *float64        `json:"avg_home_corners,omitempty"`
	AvgAwayCorners     *float64        `json:"avg_away_corners,omitempty"`
	AvgHomeYellows     *float64        `json:"avg_home_yellows,omitempty"`
	AvgAwayYellows     *float64        `json:"avg_away_yellows,omitempty"`
	AvgHomeReds        *float64        `json:"avg_home_reds,omitempty"`
	AvgAwayReds        *float64        `json:"avg_away_reds,omitempty"`
	AvgTotalGoals      *float64        `json:"avg_total_goals,omitempty"`
	AvgFirstHalfGoals  *float64        `json:"avg_first_half_goals,omitempty"`
	AvgSecondHalfGoals *float64        `json:"avg_second_half_goals,omitempty"`
	RecentFixtures     []RecentFixture `json:"recent_fixtures,omitempty"`
}

// AnalysisResult is the engine's output for one query. It is never persisted:
// each successful run replaces the previous result wholesale.
type AnalysisResult struct {
	Query Query `json:"query"`

	HistoricalWinRate *float64     `json:"historical_win_rate,omitempty"`
	SampleSize        int          `json:"sample_size"`
	AnalysisType      AnalysisType `json:"analysis_type,omitempty"`

	EloProbability        *float64 `json:"elo_probability,omitempty"`
	EloRatingDifferential *float64 `json:"elo_rating_differential,omitempty"`

	ImpliedProbability *float64 `json:"implied_probability,omitempty"`
	RealProbability    *float64 `json:"real_probability,omitempty"`
	Edge               *float64 `json:"edge,omitempty"`
	Verdict            Verdict  `json:"verdict"`

	Stats *DescriptiveStats `json:"stats,omitempty"`

	// NoEncounters marks the terminal "no data" result: no direct encounter
	// survived deduplication, so no statistics were produced.
	NoEncounters bool `json:"no_encounters,omitempty"`

	// Trace is the ordered list of human-readable decision steps for this run.
	// Debugging aid, reproducible from the same inputs; not a stable API.
	Trace []string `json:"trace,omitempty"`
}
