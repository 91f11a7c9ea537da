package analysis

import (
	"github.com/prencipemarco/superquote-web/internal/models"
)

// DefaultEdgeThreshold is the edge magnitude (in percentage points) beyond
// which a price is graded Favorable or Unfavorable. The boundary is
// exclusive: an edge of exactly ±5 is still Fair.
const DefaultEdgeThreshold = 5.0

// ImpliedProbability converts a decimal price into the percentage probability
// it encodes (100/price). Prices at or below 1.0 encode nothing and yield nil.
func ImpliedProbability(price *float64) *float64 {
	if price == nil || *price <= 1.0 {
		return nil
	}
	v := roundTo1(100.0 / *price)
	return &v
}

// EvaluateEdge compares the blended real probability against the implied
// probability and grades the verdict. Absent inputs degrade to the
// "needs price" and "insufficient data" verdicts rather than erroring.
func EvaluateEdge(realProbability, impliedProbability *float64, threshold float64) (*float64, models.Verdict) {
	switch {
	case realProbability != nil && impliedProbability != nil:
		// Compared before rounding so the ±threshold boundary stays exclusive
		edge := *realProbability - *impliedProbability
		switch {
		case edge > threshold:
			return &edge, models.VerdictFavorable
		case edge < -threshold:
			return &edge, models.VerdictUnfavorable
		default:
			return &edge, models.VerdictFair
		}
	case realProbability != nil:
		return nil, models.VerdictNeedsPrice
	default:
		return nil, models.VerdictInsufficientData
	}
}
