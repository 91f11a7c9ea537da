package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryValidateIdenticalTeams(t *testing.T) {
	tests := []struct {
		name string
		home string
		away string
	}{
		{"exact", "Inter", "Inter"},
		{"case-insensitive", "Inter", "INTER"},
		{"whitespace", "Inter", "  Inter  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Query{HomeTeam: tt.home, AwayTeam: tt.away, Category: CategoryHomeWin}
			assert.ErrorIs(t, q.Validate(), ErrIdenticalTeams)
		})
	}
}

func TestQueryValidateUnknownCategory(t *testing.T) {
	q := Query{HomeTeam: "Inter", AwayTeam: "Milan", Category: OutcomeCategory("O3.5")}
	assert.ErrorIs(t, q.Validate(), ErrUnknownCategory)
}

func TestQueryValidateAccepted(t *testing.T) {
	for _, category := range AllCategories {
		q := Query{HomeTeam: "Inter", AwayTeam: "Milan", Category: category}
		assert.NoError(t, q.Validate(), "category %s", category)
	}
}

func TestQueryHasPrice(t *testing.T) {
	price := 2.0
	q := Query{Price: &price}
	assert.True(t, q.HasPrice())

	low := 1.0
	q = Query{Price: &low}
	assert.False(t, q.HasPrice(), "a price of 1 carries no information")

	q = Query{}
	assert.False(t, q.HasPrice())
}

func TestIsSingleOutcome(t *testing.T) {
	assert.True(t, CategoryHomeWin.IsSingleOutcome())
	assert.True(t, CategoryDraw.IsSingleOutcome())
	assert.True(t, CategoryAwayWin.IsSingleOutcome())

	assert.False(t, CategoryHomeOrDraw.IsSingleOutcome())
	assert.False(t, CategoryOver25.IsSingleOutcome())
	assert.False(t, CategoryBothScore.IsSingleOutcome())
}
