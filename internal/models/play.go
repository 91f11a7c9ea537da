package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlayOutcome represents the settlement state of a logged play.
type PlayOutcome string

const (
	PlayOutcomeWon     PlayOutcome = "won"
	PlayOutcomeLost    PlayOutcome = "lost"
	PlayOutcomeVoid    PlayOutcome = "void"
	PlayOutcomePending PlayOutcome = "pending"
)

// Play represents one logged bet in the personal betting journal.
type Play struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	PlayedAt  time.Time       `db:"played_at" json:"played_at" validate:"required"`
	Label     string          `db:"label" json:"label" validate:"required"` // e.g. "Inter - Milan 1"
	Price     decimal.Decimal `db:"price" json:"price" validate:"required"`
	Stake     decimal.Decimal `db:"stake" json:"stake" validate:"required"`
	Payout    decimal.Decimal `db:"payout" json:"payout"`
	Outcome   PlayOutcome     `db:"outcome" json:"outcome" validate:"required,oneof=won lost void pending"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Profit returns payout minus stake. Void and pending plays return the stake
// back, so their profit is zero.
func (p *Play) Profit() decimal.Decimal {
	switch p.Outcome {
	case PlayOutcomeWon:
		return p.Payout.Sub(p.Stake)
	case PlayOutcomeLost:
		return p.Stake.Neg()
	default:
		return decimal.Zero
	}
}

// IsSettled reports whether the play has a final outcome.
func (p *Play) IsSettled() bool {
	return p.Outcome == PlayOutcomeWon || p.Outcome == PlayOutcomeLost || p.Outcome == PlayOutcomeVoid
}
