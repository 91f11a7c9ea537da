package analysis

// BlendSource names which signal produced the real probability, for traces.
type BlendSource string

const (
	BlendHeadToHead     BlendSource = "head-to-head history"
	BlendMean           BlendSource = "mean of history and Elo"
	BlendEloOnly        BlendSource = "Elo only"
	BlendHistoricalOnly BlendSource = "history only"
	BlendNone           BlendSource = "none"
)

// Blend merges the historical rate and the Elo probability into the single
// "real probability", in priority order:
//
//  1. a head-to-head historical rate wins outright;
//  2. when both a (non-H2H) historical rate and an Elo probability exist,
//     their arithmetic mean;
//  3. Elo alone;
//  4. history alone;
//  5. neither — no real probability.
//
// Case 2 is currently unreachable because the aggregator only ever produces
// head-to-head rates, but the rule is load-bearing for when that policy
// changes and is tested directly.
func Blend(historicalRate *float64, headToHead bool, eloProbability *float64) (*float64, BlendSource) {
	switch {
	case historicalRate != nil && headToHead:
		v := *historicalRate
		return &v, BlendHeadToHead
	case historicalRate != nil && eloProbability != nil:
		v := roundTo1((*historicalRate + *eloProbability) / 2)
		return &v, BlendMean
	case eloProbability != nil:
		v := *eloProbability
		return &v, BlendEloOnly
	case historicalRate != nil:
		v := *historicalRate
		return &v, BlendHistoricalOnly
	default:
		return nil, BlendNone
	}
}
