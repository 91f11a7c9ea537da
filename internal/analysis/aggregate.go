package analysis

import (
	"github.com/prencipemarco/superquote-web/internal/models"
)

// Aggregate is the historical win rate for one (pairing, category) sample.
type Aggregate struct {
	WinRate    float64 // percentage, one decimal
	Hits       int
	SampleSize int
}

// AggregateWinRate computes the historical rate for a category over an
// already-deduplicated match set. Returns nil for an empty sample: the engine
// deliberately emits a terminal "no data" result instead of falling back to
// one team's general form, because blending unrelated history would produce
// misleading stats for a specific pairing.
func AggregateWinRate(matches []*models.MatchRecord, category models.OutcomeCategory) *Aggregate {
	total := len(matches)
	if total == 0 {
		return nil
	}

	hits := CountHits(matches, category)
	return &Aggregate{
		WinRate:    roundTo1(float64(hits) / float64(total) * 100),
		Hits:       hits,
		SampleSize: total,
	}
}

// DescriptiveStatistics computes per-pairing averages and the recent-results
// list over score-deduplicated matches. Returns nil unless at least one match
// carries full-time goal data. Each average is taken over the rows where its
// own fields are present, so a corner-less older season does not zero out the
// corner mean.
func DescriptiveStatistics(matches []*models.MatchRecord, recentLimit int) *models.DescriptiveStats {
	matches = DeduplicateByScore(matches)

	hasGoals := false
	for _, m := range matches {
		if m.HasGoals() {
			hasGoals = true
			break
		}
	}
	if !hasGoals {
		return nil
	}

	stats := &models.DescriptiveStats{
		AvgHomeCorners: meanInt(matches, func(m *models.MatchRecord) *int { return m.HomeCorners }),
		AvgAwayCorners: meanInt(matches, func(m *models.MatchRecord) *int { return m.AwayCorners }),
		AvgHomeYellows: meanInt(matches, func(m *models.MatchRecord) *int { return m.HomeYellow }),
		AvgAwayYellows: meanInt(matches, func(m *models.MatchRecord) *int { return m.AwayYellow }),
		AvgHomeReds:    meanInt(matches, func(m *models.MatchRecord) *int { return m.HomeRed }),
		AvgAwayReds:    meanInt(matches, func(m *models.MatchRecord) *int { return m.AwayRed }),
	}

	var totalGoals, firstHalfGoals, secondHalfGoals []float64
	for _, m := range matches {
		if !m.HasGoals() {
			continue
		}
		total := float64(*m.FTHomeGoals + *m.FTAwayGoals)
		totalGoals = append(totalGoals, total)

		if m.HasHalfTimeGoals() {
			firstHalf := float64(*m.HTHomeGoals + *m.HTAwayGoals)
			firstHalfGoals = append(firstHalfGoals, firstHalf)
			secondHalfGoals = append(secondHalfGoals, total-firstHalf)
		}
	}
	stats.AvgTotalGoals = mean(totalGoals)
	stats.AvgFirstHalfGoals = mean(firstHalfGoals)
	stats.AvgSecondHalfGoals = mean(secondHalfGoals)

	limit := recentLimit
	if limit > len(matches) {
		limit = len(matches)
	}
	for _, m := range matches[:limit] {
		stats.RecentFixtures = append(stats.RecentFixtures, models.RecentFixture{
			MatchDate: m.MatchDate,
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			Score:     m.Score(),
			Result:    m.FTResult,
		})
	}

	return stats
}

func meanInt(matches []*models.MatchRecord, field func(*models.MatchRecord) *int) *float64 {
	var values []float64
	for _, m := range matches {
		if v := field(m); v != nil {
			values = append(values, float64(*v))
		}
	}
	return mean(values)
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := roundTo1(sum / float64(len(values)))
	return &avg
}
