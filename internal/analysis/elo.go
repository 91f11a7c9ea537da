package analysis

import (
	"math"

	"github.com/prencipemarco/superquote-web/internal/models"
)

// DefaultHomeAdvantage is the fixed Elo bonus granted to the home side.
const DefaultHomeAdvantage = 100.0

// EloProbabilities is a 1/X/2 probability triple derived from two ratings.
// The three values sum to 1.
type EloProbabilities struct {
	Home float64
	Draw float64
	Away float64
}

// EloOutcomeProbabilities converts the two most recent team ratings into a
// 1X2 probability triple. The home side receives a fixed rating bonus, the
// home win probability follows the standard logistic expectation, and the
// draw share is a Gaussian of the adjusted differential peaking at 28% for
// evenly rated sides. The away probability takes the remainder.
func EloOutcomeProbabilities(homeElo, awayElo, homeAdvantage float64) EloProbabilities {
	d := (homeElo + homeAdvantage) - awayElo

	probHome := 1.0 / (1.0 + math.Pow(10, -d/400.0))
	probDraw := 0.28 * math.Exp(-math.Pow(d/400.0, 2))
	probAway := 1.0 - probHome - probDraw

	return EloProbabilities{Home: probHome, Draw: probDraw, Away: probAway}
}

// For returns the probability matching a single-outcome category as a
// percentage rounded to one decimal. The second return is false for double
// chance and goal markets, which have no Elo estimate.
func (p EloProbabilities) For(category models.OutcomeCategory) (float64, bool) {
	switch category {
	case models.CategoryHomeWin:
		return roundTo1(p.Home * 100), true
	case models.CategoryDraw:
		return roundTo1(p.Draw * 100), true
	case models.CategoryAwayWin:
		return roundTo1(p.Away * 100), true
	default:
		return 0, false
	}
}

func roundTo1(x float64) float64 {
	return math.Round(x*10) / 10
}
