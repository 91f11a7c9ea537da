package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/models"
	"github.com/prencipemarco/superquote-web/internal/repository"
)

// ChartService derives the dashboard chart series from the journal.
type ChartService struct {
	repo   repository.PlayRepository
	logger *logrus.Logger
}

// NewChartService creates a new chart service
func NewChartService(repo repository.PlayRepository, logger *logrus.Logger) *ChartService {
	return &ChartService{repo: repo, logger: logger}
}

// BalancePoint is one point on the running-balance chart.
type BalancePoint struct {
	Date          time.Time        `json:"date"`
	Profit        decimal.Decimal  `json:"profit"`
	Balance       decimal.Decimal  `json:"balance"`
	MovingAverage *decimal.Decimal `json:"moving_average,omitempty"`
	Trend         float64          `json:"trend"`
}

// OutcomeSlice is one segment of the outcome breakdown chart.
type OutcomeSlice struct {
	Outcome    models.PlayOutcome `json:"outcome"`
	Count      int                `json:"count"`
	TotalStake decimal.Decimal    `json:"total_stake"`
	Profit     decimal.Decimal    `json:"profit"`
}

// MonthlyProfit is one bar of the profit-by-month chart.
type MonthlyProfit struct {
	Month  string          `json:"month"` // YYYY-MM
	Plays  int             `json:"plays"`
	Staked decimal.Decimal `json:"staked"`
	Profit decimal.Decimal `json:"profit"`
}

// BalanceSeries returns the cumulative profit curve oldest-first, with a
// moving average over the given window and a least-squares trend line.
// Pending plays carry zero profit and still appear on the curve.
func (s *ChartService) BalanceSeries(ctx context.Context, window int) ([]BalancePoint, error) {
	plays, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load plays: %w", err)
	}
	if len(plays) == 0 {
		return nil, nil
	}

	sorted := make([]*models.Play, len(plays))
	copy(sorted, plays)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayedAt.Before(sorted[j].PlayedAt)
	})

	points := make([]BalancePoint, len(sorted))
	balance := decimal.Zero
	for i, play := range sorted {
		profit := play.Profit()
		balance = balance.Add(profit)
		points[i] = BalancePoint{
			Date:    play.PlayedAt,
			Profit:  profit,
			Balance: balance,
		}
	}

	applyMovingAverage(points, window)
	applyTrend(points)
	return points, nil
}

// applyMovingAverage fills MovingAverage with the mean balance of the last
// window points, once that many exist.
func applyMovingAverage(points []BalancePoint, window int) {
	if window < 2 {
		return
	}
	windowSize := decimal.NewFromInt(int64(window))
	for i := window - 1; i < len(points); i++ {
		sum := decimal.Zero
		for j := i - window + 1; j <= i; j++ {
			sum = sum.Add(points[j].Balance)
		}
		avg := sum.Div(windowSize).Round(2)
		points[i].MovingAverage = &avg
	}
}

// applyTrend fits y = a + b*i over the balance curve by least squares and
// stores the fitted value per point. Float precision is fine for a chart
// overlay.
func applyTrend(points []BalancePoint) {
	n := float64(len(points))
	if n < 2 {
		for i := range points {
			points[i].Trend, _ = points[i].Balance.Float64()
		}
		return
	}

	var sumX, sumY, sumXY, sumXX float64
	for i := range points {
		x := float64(i)
		y, _ := points[i].Balance.Float64()
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n
	for i := range points {
		points[i].Trend = intercept + slope*float64(i)
	}
}

// OutcomeBreakdown groups the journal by outcome.
func (s *ChartService) OutcomeBreakdown(ctx context.Context) ([]OutcomeSlice, error) {
	plays, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load plays: %w", err)
	}

	order := []models.PlayOutcome{
		models.PlayOutcomeWon, models.PlayOutcomeLost,
		models.PlayOutcomeVoid, models.PlayOutcomePending,
	}
	byOutcome := make(map[models.PlayOutcome]*OutcomeSlice, len(order))
	for _, outcome := range order {
		byOutcome[outcome] = &OutcomeSlice{
			Outcome:    outcome,
			TotalStake: decimal.Zero,
			Profit:     decimal.Zero,
		}
	}

	for _, play := range plays {
		slice, ok := byOutcome[play.Outcome]
		if !ok {
			continue
		}
		slice.Count++
		slice.TotalStake = slice.TotalStake.Add(play.Stake)
		slice.Profit = slice.Profit.Add(play.Profit())
	}

	slices := make([]OutcomeSlice, 0, len(order))
	for _, outcome := range order {
		slices = append(slices, *byOutcome[outcome])
	}
	return slices, nil
}

// MonthlyProfits aggregates profit per calendar month, oldest month first.
func (s *ChartService) MonthlyProfits(ctx context.Context) ([]MonthlyProfit, error) {
	plays, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load plays: %w", err)
	}

	byMonth := make(map[string]*MonthlyProfit)
	for _, play := range plays {
		month := play.PlayedAt.Format("2006-01")
		agg, ok := byMonth[month]
		if !ok {
			agg = &MonthlyProfit{Month: month, Staked: decimal.Zero, Profit: decimal.Zero}
			byMonth[month] = agg
		}
		agg.Plays++
		agg.Staked = agg.Staked.Add(play.Stake)
		agg.Profit = agg.Profit.Add(play.Profit())
	}

	months := make([]MonthlyProfit, 0, len(byMonth))
	for _, agg := range byMonth {
		months = append(months, *agg)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months, nil
}
