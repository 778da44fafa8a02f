package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardsort-dev/cardsort/internal/model"
)

// Bucket is the time unit amounts are summed over before fitting a trend.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketMonth Bucket = "month"
)

// ParseBucket parses "day" or "month".
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case BucketDay, BucketMonth:
		return b, nil
	default:
		return "", fmt.Errorf("unknown bucket %q (want day or month)", s)
	}
}

func (b Bucket) start(t time.Time) time.Time {
	y, m, d := t.Date()
	if b == BucketMonth {
		d = 1
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (b Bucket) label(t time.Time) string {
	if b == BucketMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// TrendForCategory sums the category's amounts per bucket, orders the buckets
// chronologically and fits a least-squares line over the bucket index. With a
// single bucket the trend equals the amount; with none the series is empty.
func TrendForCategory(rows []model.CategorizedTransaction, category string, bucket Bucket) model.TrendSeries {
	series := model.TrendSeries{Category: category}

	sums := make(map[time.Time]decimal.Decimal)
	for _, r := range rows {
		if r.Category != category {
			continue
		}
		k := bucket.start(r.Date)
		sums[k] = sums[k].Add(r.Amount)
	}
	if len(sums) == 0 {
		return series
	}

	keys := make([]time.Time, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	ys := make([]float64, len(keys))
	series.Points = make([]model.TrendPoint, len(keys))
	for i, k := range keys {
		ys[i] = sums[k].InexactFloat64()
		series.Points[i] = model.TrendPoint{
			Bucket: k,
			Label:  bucket.label(k),
			Amount: sums[k],
		}
	}

	if len(ys) < 2 {
		series.Points[0].Trend = ys[0]
		series.Intercept = ys[0]
		return series
	}

	series.Slope, series.Intercept = Fit(ys)
	for i := range series.Points {
		series.Points[i].Trend = series.Intercept + series.Slope*float64(i)
	}
	return series
}

// Fit returns the degree-1 least-squares fit y = intercept + slope*x over
// x = 0..len(ys)-1. Fewer than two points give a zero slope.
func Fit(ys []float64) (slope, intercept float64) {
	n := len(ys)
	switch n {
	case 0:
		return 0, 0
	case 1:
		return 0, ys[0]
	}

	xMean := float64(n-1) / 2
	var yMean float64
	for _, y := range ys {
		yMean += y
	}
	yMean /= float64(n)

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	slope = num / den
	return slope, yMean - slope*xMean
}
