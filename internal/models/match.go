package models

import (
	"fmt"
	"time"
)

// FullTimeResult represents the final outcome of a match (1X2 notation source data).
type FullTimeResult string

const (
	ResultHome FullTimeResult = "H"
	ResultDraw FullTimeResult = "D"
	ResultAway FullTimeResult = "A"
)

// MatchRecord represents one row of the historical_matches table.
// The table is append-only reference data; the analysis engine never writes it.
// Nullable columns are pointers: the source dataset has gaps (older seasons
// lack corners/cards, some rows lack goals entirely).
type MatchRecord struct {
	MatchDate   time.Time      `db:"match_date" json:"match_date"`
	Division    string         `db:"division" json:"division"`
	HomeTeam    string         `db:"home_team" json:"home_team"`
	AwayTeam    string         `db:"away_team" json:"away_team"`
	FTResult    FullTimeResult `db:"ft_result" json:"ft_result"`
	FTHomeGoals *int           `db:"ft_home" json:"ft_home"`
	FTAwayGoals *int           `db:"ft_away" json:"ft_away"`
	HTHomeGoals *int           `db:"ht_home" json:"ht_home"`
	HTAwayGoals *int           `db:"ht_away" json:"ht_away"`
	HomeCorners *int           `db:"home_corners" json:"home_corners"`
	AwayCorners *int           `db:"away_corners" json:"away_corners"`
	HomeYellow  *int           `db:"home_yellow" json:"home_yellow"`
	AwayYellow  *int           `db:"away_yellow" json:"away_yellow"`
	HomeRed     *int           `db:"home_red" json:"home_red"`
	AwayRed     *int           `db:"away_red" json:"away_red"`
	HomeElo     *float64       `db:"home_elo" json:"home_elo"`
	AwayElo     *float64       `db:"away_elo" json:"away_elo"`
	OddHome     *float64       `db:"odd_home" json:"odd_home"`
	OddDraw     *float64       `db:"odd_draw" json:"odd_draw"`
	OddAway     *float64       `db:"odd_away" json:"odd_away"`
}

// HasGoals reports whether both full-time goal counts are present.
func (m *MatchRecord) HasGoals() bool {
	return m.FTHomeGoals != nil && m.FTAwayGoals != nil
}

// HasHalfTimeGoals reports whether both half-time goal counts are present.
func (m *MatchRecord) HasHalfTimeGoals() bool {
	return m.HTHomeGoals != nil && m.HTAwayGoals != nil
}

// Score formats the full-time score, or "-" when goals are missing.
func (m *MatchRecord) Score() string {
	if !m.HasGoals() {
		return "-"
	}
	return fmt.Sprintf("%d-%d", *m.FTHomeGoals, *m.FTAwayGoals)
}

// TeamSide identifies which slot of a fixture a team occupied.
type TeamSide string

const (
	SideHome TeamSide = "home"
	SideAway TeamSide = "away"
)
