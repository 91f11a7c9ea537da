package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendHeadToHeadWinsOutright(t *testing.T) {
	real, source := Blend(floatPtr(60.0), true, floatPtr(40.0))

	require.NotNil(t, real)
	assert.Equal(t, 60.0, *real)
	assert.Equal(t, BlendHeadToHead, source)
}

// The mean rule is unreachable today: the aggregator only ever produces
// head-to-head rates. It stays implemented and tested for when that policy
// changes.
func TestBlendMeanOfHistoricalAndElo(t *testing.T) {
	real, source := Blend(floatPtr(60.0), false, floatPtr(40.0))

	require.NotNil(t, real)
	assert.Equal(t, 50.0, *real)
	assert.Equal(t, BlendMean, source)
}

func TestBlendEloOnly(t *testing.T) {
	real, source := Blend(nil, false, floatPtr(42.5))

	require.NotNil(t, real)
	assert.Equal(t, 42.5, *real)
	assert.Equal(t, BlendEloOnly, source)
}

func TestBlendHistoricalOnly(t *testing.T) {
	real, source := Blend(floatPtr(55.0), false, nil)

	require.NotNil(t, real)
	assert.Equal(t, 55.0, *real)
	assert.Equal(t, BlendHistoricalOnly, source)
}

func TestBlendNothing(t *testing.T) {
	real, source := Blend(nil, false, nil)

	assert.Nil(t, real)
	assert.Equal(t, BlendNone, source)
}

func TestBlendCopiesInput(t *testing.T) {
	historical := floatPtr(60.0)
	real, _ := Blend(historical, true, nil)

	*historical = 0
	assert.Equal(t, 60.0, *real)
}
