package pipeline

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsort-dev/cardsort/internal/aggregate"
	"github.com/cardsort-dev/cardsort/internal/categorizer"
	"github.com/cardsort-dev/cardsort/internal/importer"
	"github.com/cardsort-dev/cardsort/internal/installments"
	"github.com/cardsort-dev/cardsort/internal/logger"
	"github.com/cardsort-dev/cardsort/internal/model"
)

const (
	jan = "../../testdata/statement_2025_01.csv"
	feb = "../../testdata/statement_2025_02.csv"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(importer.NewGenericParser(nil), categorizer.NewDefault(), installments.NewMerger(nil), zerolog.Nop())
}

func categoryTotals(res *Result) map[string]string {
	out := make(map[string]string)
	for _, r := range res.Summary {
		out[r.Category] = r.Total.StringFixed(2)
	}
	return out
}

func TestRun_SingleFile(t *testing.T) {
	res, err := newService(t).Run([]string{jan}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{jan}, res.Sources)
	assert.Equal(t, aggregate.BucketDay, res.Bucket)
	assert.Len(t, res.Rows, 8)
	assert.Equal(t, 1, res.Dropped)
	assert.Zero(t, res.Merged)

	assert.Equal(t, []string{"market", "automotive", "others", "restaurants", "health", "online services"}, res.Categories())
	assert.Equal(t, map[string]string{
		"market":          "212.37",
		"automotive":      "180.00",
		"others":          "125.00",
		"restaurants":     "78.40",
		"health":          "58.10",
		"online services": "39.90",
		"Total":           "693.77",
	}, categoryTotals(res))
	assert.Equal(t, "693.77", res.GrandTotal().Total.StringFixed(2))

	for _, row := range res.Rows {
		assert.False(t, row.Amount.IsNegative())
	}
}

func TestRun_MultiFileUsesMonths(t *testing.T) {
	res, err := newService(t).Run([]string{jan, feb}, Options{})
	require.NoError(t, err)

	assert.Equal(t, aggregate.BucketMonth, res.Bucket)
	assert.Len(t, res.Rows, 12)
	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, "1180.72", res.GrandTotal().Total.StringFixed(2))

	trend, err := res.Trend("market")
	require.NoError(t, err)
	require.Len(t, trend.Points, 2)
	assert.Equal(t, "2025-01", trend.Points[0].Label)
	assert.Equal(t, "212.37", trend.Points[0].Amount.StringFixed(2))
	assert.Equal(t, "2025-02", trend.Points[1].Label)
	assert.InDelta(t, 341.15, trend.Points[1].Trend, 1e-9)

	require.NotEmpty(t, res.Stores)
	assert.Equal(t, "Assai Atacadista", res.Stores[0].Title)
}

func TestRun_BucketOverride(t *testing.T) {
	res, err := newService(t).Run([]string{jan, feb}, Options{Bucket: aggregate.BucketDay})
	require.NoError(t, err)
	assert.Equal(t, aggregate.BucketDay, res.Bucket)

	trend, err := res.Trend("restaurants")
	require.NoError(t, err)
	assert.Len(t, trend.Points, 3)
}

func TestRun_MergeInstallments(t *testing.T) {
	res, err := newService(t).Run([]string{jan, feb}, Options{MergeInstallments: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Len(t, res.Rows, 11)
	assert.Equal(t, "1180.72", res.GrandTotal().Total.StringFixed(2))

	var merged *model.CategorizedTransaction
	for i := range res.Rows {
		if res.Rows[i].Title == "Loja X" {
			merged = &res.Rows[i]
		}
	}
	require.NotNil(t, merged)
	assert.Equal(t, "200.00", merged.Amount.StringFixed(2))
	assert.Equal(t, "others", merged.Category)
	assert.True(t, merged.Date.Equal(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)))
}

func TestProcess_MergedTitleIsRecategorized(t *testing.T) {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{Date: d, Title: "Drogasil Parcela 1/2", Amount: decimal.NewFromInt(40)},
		{Date: d.AddDate(0, 1, 0), Title: "Drogasil Parcela 2/2", Amount: decimal.NewFromInt(40)},
		{Date: d, Title: "Refund Parcela 1/2", Amount: decimal.NewFromInt(-40)},
	}
	res := newService(t).Process(txns, Options{MergeInstallments: true})
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Drogasil", res.Rows[0].Title)
	assert.Equal(t, "health", res.Rows[0].Category)
	assert.Equal(t, "80.00", res.Rows[0].Amount.StringFixed(2))
	assert.Equal(t, 1, res.Dropped)
}

func TestRun_OnlyCategories(t *testing.T) {
	res, err := newService(t).Run([]string{jan, feb}, Options{Only: []string{"restaurants", "health"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"restaurants", "health"}, res.Categories())
	assert.Len(t, res.Rows, 4)
	assert.Equal(t, "164.30", res.GrandTotal().Total.StringFixed(2))
	assert.Len(t, res.Trends, 2)
}

func TestRun_TopStores(t *testing.T) {
	res, err := newService(t).Run([]string{jan, feb}, Options{TopStores: 3})
	require.NoError(t, err)
	require.Len(t, res.Stores, 4)
	assert.Equal(t, model.StoreOthers, res.Stores[3].Title)
}

func TestRun_LoadErrorAbortsBatch(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	_, err := newService(t).Run([]string{jan, missing}, Options{})

	var ferr *importer.FileAccessError
	assert.ErrorAs(t, err, &ferr)
}

func TestProcess_Empty(t *testing.T) {
	res := newService(t).Process(nil, Options{})
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Summary)
	assert.Empty(t, res.Stores)
	assert.Empty(t, res.Trends)
	assert.Nil(t, res.Categories())
	assert.True(t, res.GrandTotal().Total.IsZero())
}

func TestCategoryRows(t *testing.T) {
	res, err := newService(t).Run([]string{jan}, Options{})
	require.NoError(t, err)

	rows := res.CategoryRows("restaurants")
	require.Len(t, rows, 2)
	assert.Equal(t, "45.90", rows[0].Amount.StringFixed(2))

	_, err = res.Trend("taxes")
	assert.Error(t, err)
}

func TestBucketForFiles(t *testing.T) {
	assert.Equal(t, aggregate.BucketDay, BucketForFiles(0))
	assert.Equal(t, aggregate.BucketDay, BucketForFiles(1))
	assert.Equal(t, aggregate.BucketMonth, BucketForFiles(2))
}

func TestProcess_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(importer.NewGenericParser(nil), categorizer.NewDefault(), installments.NewMerger(nil), logger.NewJSON(&buf, "info"))
	_, err := svc.Run([]string{jan}, Options{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"categorized transactions"`)
	assert.Contains(t, buf.String(), `"dropped":1`)
}
