package models

import "strings"

// OutcomeCategory identifies the bet market being analyzed. The codes follow
// the Italian bookmaker convention used by the dashboard (1/X/2, doppia
// chance, over/under, goal/no-goal).
type OutcomeCategory string

const (
	CategoryHomeWin      OutcomeCategory = "1"
	CategoryDraw         OutcomeCategory = "X"
	CategoryAwayWin      OutcomeCategory = "2"
	CategoryHomeOrDraw   OutcomeCategory = "1X"
	CategoryDrawOrAway   OutcomeCategory = "X2"
	CategoryHomeOrAway   OutcomeCategory = "12"
	CategoryOver25       OutcomeCategory = "O2.5"
	CategoryUnder25      OutcomeCategory = "U2.5"
	CategoryBothScore    OutcomeCategory = "GG"
	CategoryNotBothScore OutcomeCategory = "NG"
)

// AllCategories lists every supported category, in display order.
var AllCategories = []OutcomeCategory{
	CategoryHomeWin, CategoryDraw, CategoryAwayWin,
	CategoryHomeOrDraw, CategoryDrawOrAway, CategoryHomeOrAway,
	CategoryOver25, CategoryUnder25,
	CategoryBothScore, CategoryNotBothScore,
}

// IsValid reports whether the category is one of the supported markets.
func (c OutcomeCategory) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsSingleOutcome reports whether the category is one of the plain 1X2
// markets. Elo probabilities are only defined for these.
func (c OutcomeCategory) IsSingleOutcome() bool {
	return c == CategoryHomeWin || c == CategoryDraw || c == CategoryAwayWin
}

// Label returns a human-readable market name for traces and the UI.
func (c OutcomeCategory) Label() string {
	switch c {
	case CategoryHomeWin:
		return "Home Win"
	case CategoryDraw:
		return "Draw"
	case CategoryAwayWin:
		return "Away Win"
	case CategoryHomeOrDraw:
		return "Double Chance 1X"
	case CategoryDrawOrAway:
		return "Double Chance X2"
	case CategoryHomeOrAway:
		return "Double Chance 12"
	case CategoryOver25:
		return "Over 2.5"
	case CategoryUnder25:
		return "Under 2.5"
	case CategoryBothScore:
		return "Both Teams Score"
	case CategoryNotBothScore:
		return "Not Both Teams Score"
	default:
		return string(c)
	}
}

// Query is one analysis request, built from the current form state on every
// debounce firing. Price is optional; nil means no bookmaker quote entered.
type Query struct {
	HomeTeam string          `json:"home_team"`
	AwayTeam string          `json:"away_team"`
	Category OutcomeCategory `json:"category"`
	Price    *float64        `json:"price,omitempty"`
}

// Validate rejects queries the engine must not run. Identical team names
// (case- and whitespace-insensitive) short-circuit before any repository call.
func (q *Query) Validate() error {
	home := strings.TrimSpace(q.HomeTeam)
	away := strings.TrimSpace(q.AwayTeam)
	if home != "" && away != "" && strings.EqualFold(home, away) {
		return ErrIdenticalTeams
	}
	if !q.Category.IsValid() {
		return ErrUnknownCategory
	}
	return nil
}

// HasPrice reports whether a usable decimal price was supplied. Prices at or
// below 1.0 carry no implied probability and are treated as absent.
func (q *Query) HasPrice() bool {
	return q.Price != nil && *q.Price > 1.0
}
