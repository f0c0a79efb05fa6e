package report

import (
	"time"

	"github.com/freelancepro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Series lengths used by the dashboard charts
const (
	MonthlySeriesLength = 12
	WeeklySeriesLength  = 8
)

// Summary holds the headline earnings figures for the current periods.
// It is a transient, request-scoped value, never persisted.
type Summary struct {
	NetEarnings     decimal.Decimal      `json:"net_earnings"`
	MonthlyEarnings decimal.Decimal      `json:"monthly_earnings"`
	WeeklyEarnings  decimal.Decimal      `json:"weekly_earnings"`
	TodayEarnings   decimal.Decimal      `json:"today_earnings"`
	Currency        valueobject.Currency `json:"currency"`
}

// MonthlyPoint is one month bucket of the trailing-twelve-months chart
type MonthlyPoint struct {
	Label  string          `json:"label"`
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlySeries is the trailing-twelve-months earnings report
type MonthlySeries struct {
	Data              []MonthlyPoint  `json:"data"`
	YearToDateTotal   decimal.Decimal `json:"year_to_date_total"`
	PreviousYearTotal decimal.Decimal `json:"previous_year_total"`
	GrowthRate        decimal.Decimal `json:"growth_rate"`
}

// WeeklyPoint is one week bucket of the trailing-eight-weeks chart
type WeeklyPoint struct {
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Amount decimal.Decimal `json:"amount"`
}

// WeeklySeries is the trailing-eight-weeks earnings report
type WeeklySeries struct {
	Data            []WeeklyPoint   `json:"data"`
	YearToDateTotal decimal.Decimal `json:"year_to_date_total"`
}

// MonthLabel renders the chart label for a month bucket, e.g. "Jan 2026"
func MonthLabel(r TimeRange) string {
	return r.Start().Format("Jan 2006")
}
