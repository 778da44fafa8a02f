package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reserved labels produced by the categorizer and the aggregator.
const (
	CategoryOthers = "others"
	SummaryTotal   = "Total"
	StoreOthers    = "Others"
)

// CategorySummaryRow is one line of the per-category spending summary.
type CategorySummaryRow struct {
	Category   string
	Total      decimal.Decimal
	Percentage decimal.Decimal // 0-100, two decimals
}

// StoreRankingRow is one line of the per-store ranking.
type StoreRankingRow struct {
	Title string
	Total decimal.Decimal
}

// TrendPoint is the summed amount of one time bucket plus its fitted value.
type TrendPoint struct {
	Bucket time.Time
	Label  string // "2006-01-02" for days, "2006-01" for months
	Amount decimal.Decimal
	Trend  float64
}

// TrendSeries is the chronologically ordered bucket series of one category.
type TrendSeries struct {
	Category  string
	Points    []TrendPoint
	Slope     float64
	Intercept float64
}
