package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func playWith(outcome PlayOutcome, stake, payout string) *Play {
	return &Play{
		Stake:   decimal.RequireFromString(stake),
		Payout:  decimal.RequireFromString(payout),
		Outcome: outcome,
	}
}

func TestPlayProfit(t *testing.T) {
	tests := []struct {
		name string
		play *Play
		want string
	}{
		{"win nets payout minus stake", playWith(PlayOutcomeWon, "50", "105"), "55"},
		{"loss costs the stake", playWith(PlayOutcomeLost, "50", "0"), "-50"},
		{"void returns the stake", playWith(PlayOutcomeVoid, "50", "50"), "0"},
		{"pending counts as zero", playWith(PlayOutcomePending, "50", "0"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(tt.play.Profit()),
				"expected %s, got %s", want, tt.play.Profit())
		})
	}
}

func TestPlayIsSettled(t *testing.T) {
	assert.True(t, playWith(PlayOutcomeWon, "1", "2").IsSettled())
	assert.True(t, playWith(PlayOutcomeLost, "1", "0").IsSettled())
	assert.True(t, playWith(PlayOutcomeVoid, "1", "1").IsSettled())
	assert.False(t, playWith(PlayOutcomePending, "1", "0").IsSettled())
}
