package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsort-dev/cardsort/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func ct(d time.Time, title, amount, category string) model.CategorizedTransaction {
	return model.CategorizedTransaction{
		Transaction: model.Transaction{Date: d, Title: title, Amount: decimal.RequireFromString(amount)},
		Category:    category,
	}
}

func sample() []model.CategorizedTransaction {
	return []model.CategorizedTransaction{
		ct(date(2025, 1, 3), "Burger King", "45.90", "restaurants"),
		ct(date(2025, 1, 3), "Imperio", "212.37", "market"),
		ct(date(2025, 1, 5), "Netflix", "39.90", "online services"),
		ct(date(2025, 1, 20), "Burger King", "32.50", "restaurants"),
		ct(date(2025, 2, 2), "Mcdonalds", "27.80", "restaurants"),
		ct(date(2025, 2, 14), "Assai", "341.15", "market"),
		ct(date(2025, 1, 15), "Unknown", "25.00", "others"),
	}
}

func TestSummarizeByCategory(t *testing.T) {
	got := SummarizeByCategory(sample())
	require.Len(t, got, 5)

	assert.Equal(t, "market", got[0].Category)
	assert.Equal(t, "553.52", got[0].Total.StringFixed(2))
	assert.Equal(t, "restaurants", got[1].Category)
	assert.Equal(t, "106.20", got[1].Total.StringFixed(2))
	assert.Equal(t, "online services", got[2].Category)
	assert.Equal(t, "others", got[3].Category)

	total := got[4]
	assert.Equal(t, model.SummaryTotal, total.Category)
	assert.Equal(t, "724.62", total.Total.StringFixed(2))
	assert.Equal(t, "100.00", total.Percentage.StringFixed(2))

	// 553.52 / 724.62 = 76.3876...
	assert.Equal(t, "76.39", got[0].Percentage.StringFixed(2))
}

func TestSummarizeByCategory_PercentagesSumTo100(t *testing.T) {
	got := SummarizeByCategory(sample())
	sum := decimal.Zero
	for _, r := range got[:len(got)-1] {
		sum = sum.Add(r.Percentage)
	}
	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.02")), "sum = %s", sum)
	assert.True(t, got[len(got)-1].Percentage.Equal(decimal.NewFromInt(100)))
}

func TestSummarizeByCategory_TotalsMatchGrandTotal(t *testing.T) {
	got := SummarizeByCategory(sample())
	sum := decimal.Zero
	for _, r := range got[:len(got)-1] {
		sum = sum.Add(r.Total)
	}
	assert.True(t, sum.Equal(got[len(got)-1].Total))
}

func TestSummarizeByCategory_TieBreakByName(t *testing.T) {
	got := SummarizeByCategory([]model.CategorizedTransaction{
		ct(date(2025, 1, 1), "b", "10", "zeta"),
		ct(date(2025, 1, 1), "a", "10", "alpha"),
	})
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[0].Category)
	assert.Equal(t, "zeta", got[1].Category)
	assert.Equal(t, "50.00", got[0].Percentage.StringFixed(2))
}

func TestSummarizeByCategory_ZeroGrandTotal(t *testing.T) {
	got := SummarizeByCategory([]model.CategorizedTransaction{ct(date(2025, 1, 1), "a", "0", "x")})
	require.Len(t, got, 2)
	assert.True(t, got[0].Percentage.IsZero())
	assert.Equal(t, model.SummaryTotal, got[1].Category)
}

func TestSummarizeByCategory_Empty(t *testing.T) {
	assert.Empty(t, SummarizeByCategory(nil))
}

func TestRankStores(t *testing.T) {
	got := RankStores(sample(), DefaultTopN)
	require.Len(t, got, 6)
	assert.Equal(t, "Assai", got[0].Title)
	assert.Equal(t, "Imperio", got[1].Title)
	assert.Equal(t, "Burger King", got[2].Title)
	assert.Equal(t, "78.40", got[2].Total.StringFixed(2))
}

func TestRankStores_OthersBucket(t *testing.T) {
	var rows []model.CategorizedTransaction
	for i := 1; i <= 20; i++ {
		rows = append(rows, ct(date(2025, 1, 1), fmt.Sprintf("Store %02d", i), fmt.Sprintf("%d", i*10), "others"))
	}
	got := RankStores(rows, 15)
	require.Len(t, got, 16)

	assert.Equal(t, "Store 20", got[0].Title)
	assert.Equal(t, "Store 06", got[14].Title)

	others := got[15]
	assert.Equal(t, model.StoreOthers, others.Title)
	// Stores 01-05: 10+20+30+40+50.
	assert.Equal(t, "150.00", others.Total.StringFixed(2))

	all := decimal.Zero
	for _, r := range got {
		all = all.Add(r.Total)
	}
	assert.Equal(t, "2100.00", all.StringFixed(2))
}

func TestRankStores_ExactlyTopN(t *testing.T) {
	var rows []model.CategorizedTransaction
	for i := 1; i <= 15; i++ {
		rows = append(rows, ct(date(2025, 1, 1), fmt.Sprintf("Store %02d", i), "1", "others"))
	}
	got := RankStores(rows, 0)
	assert.Len(t, got, 15)
	for _, r := range got {
		assert.NotEqual(t, model.StoreOthers, r.Title)
	}
	assert.Equal(t, "Store 01", got[0].Title, "ties sort by title")
}

func TestRankStores_Empty(t *testing.T) {
	assert.Empty(t, RankStores(nil, 15))
}

func TestByCategory(t *testing.T) {
	got := ByCategory(sample(), "restaurants")
	require.Len(t, got, 3)
	assert.Equal(t, "45.90", got[0].Amount.StringFixed(2))
	assert.Equal(t, "32.50", got[1].Amount.StringFixed(2))
	assert.Equal(t, "27.80", got[2].Amount.StringFixed(2))

	assert.Empty(t, ByCategory(sample(), "taxes"))
}

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("Month")
	require.NoError(t, err)
	assert.Equal(t, BucketMonth, b)

	b, err = ParseBucket("day")
	require.NoError(t, err)
	assert.Equal(t, BucketDay, b)

	_, err = ParseBucket("week")
	assert.Error(t, err)
}

func TestTrendForCategory_Day(t *testing.T) {
	rows := []model.CategorizedTransaction{
		ct(date(2025, 1, 20), "Burger King", "30", "restaurants"),
		ct(date(2025, 1, 3), "Burger King", "10", "restaurants"),
		ct(date(2025, 1, 3), "Mcdonalds", "10", "restaurants"),
		ct(date(2025, 1, 10), "Imperio", "999", "market"),
		ct(date(2025, 1, 10), "Kissburgers", "20", "restaurants"),
	}
	s := TrendForCategory(rows, "restaurants", BucketDay)
	require.Len(t, s.Points, 3)
	assert.Equal(t, "restaurants", s.Category)

	assert.Equal(t, []string{"2025-01-03", "2025-01-10", "2025-01-20"},
		[]string{s.Points[0].Label, s.Points[1].Label, s.Points[2].Label})
	assert.Equal(t, "20.00", s.Points[0].Amount.StringFixed(2))

	// y = 20, 20, 30 -> slope 5, intercept 18.333...
	assert.InDelta(t, 5.0, s.Slope, 1e-9)
	assert.InDelta(t, 55.0/3, s.Intercept, 1e-9)
	assert.InDelta(t, 55.0/3, s.Points[0].Trend, 1e-9)
	assert.InDelta(t, 55.0/3+10, s.Points[2].Trend, 1e-9)
}

func TestTrendForCategory_Month(t *testing.T) {
	rows := []model.CategorizedTransaction{
		ct(date(2025, 2, 14), "Assai", "300", "market"),
		ct(date(2025, 1, 3), "Imperio", "100", "market"),
		ct(date(2025, 1, 28), "Imperio", "100", "market"),
		ct(date(2025, 3, 1), "Assai", "400", "market"),
	}
	s := TrendForCategory(rows, "market", BucketMonth)
	require.Len(t, s.Points, 3)
	assert.Equal(t, "2025-01", s.Points[0].Label)
	assert.True(t, s.Points[0].Bucket.Equal(date(2025, 1, 1)))
	assert.Equal(t, "200.00", s.Points[0].Amount.StringFixed(2))

	// Perfect line 200, 300, 400.
	assert.InDelta(t, 100.0, s.Slope, 1e-9)
	for i, p := range s.Points {
		assert.InDelta(t, p.Amount.InexactFloat64(), p.Trend, 1e-9, "point %d", i)
	}
}

func TestTrendForCategory_SinglePoint(t *testing.T) {
	rows := []model.CategorizedTransaction{
		ct(date(2025, 1, 3), "Drogal", "12.5", "health"),
		ct(date(2025, 1, 3), "Raia", "7.5", "health"),
	}
	s := TrendForCategory(rows, "health", BucketDay)
	require.Len(t, s.Points, 1)
	assert.InDelta(t, 20.0, s.Points[0].Trend, 1e-9)
	assert.Zero(t, s.Slope)
}

func TestTrendForCategory_Empty(t *testing.T) {
	s := TrendForCategory(sample(), "taxes", BucketDay)
	assert.Empty(t, s.Points)
	assert.Equal(t, "taxes", s.Category)

	assert.Empty(t, TrendForCategory(nil, "market", BucketMonth).Points)
}

func TestFit(t *testing.T) {
	slope, intercept := Fit(nil)
	assert.Zero(t, slope)
	assert.Zero(t, intercept)

	slope, intercept = Fit([]float64{7})
	assert.Zero(t, slope)
	assert.InDelta(t, 7.0, intercept, 1e-12)

	slope, intercept = Fit([]float64{1, 3, 5, 7})
	assert.InDelta(t, 2.0, slope, 1e-12)
	assert.InDelta(t, 1.0, intercept, 1e-12)

	slope, intercept = Fit([]float64{4, 4, 4})
	assert.InDelta(t, 0.0, slope, 1e-12)
	assert.InDelta(t, 4.0, intercept, 1e-12)
}
