// Package aggregate derives summary views from categorized transactions:
// category totals, store rankings and bucketed trend series.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cardsort-dev/cardsort/internal/model"
)

// DefaultTopN is the number of stores listed before the "Others" row.
const DefaultTopN = 15

var hundred = decimal.NewFromInt(100)

// SummarizeByCategory totals rows per category, sorted by total descending
// (ties by name), followed by a "Total" row at 100%. Percentages are rounded
// to two decimals. Empty input yields nil.
func SummarizeByCategory(rows []model.CategorizedTransaction) []model.CategorySummaryRow {
	if len(rows) == 0 {
		return nil
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	grand := decimal.Zero
	for _, r := range rows {
		if _, seen := totals[r.Category]; !seen {
			order = append(order, r.Category)
			totals[r.Category] = decimal.Zero
		}
		totals[r.Category] = totals[r.Category].Add(r.Amount)
		grand = grand.Add(r.Amount)
	}

	summary := make([]model.CategorySummaryRow, 0, len(order)+1)
	for _, cat := range order {
		summary = append(summary, model.CategorySummaryRow{
			Category:   cat,
			Total:      totals[cat],
			Percentage: percentage(totals[cat], grand),
		})
	}
	sort.SliceStable(summary, func(i, j int) bool {
		if c := summary[i].Total.Cmp(summary[j].Total); c != 0 {
			return c > 0
		}
		return summary[i].Category < summary[j].Category
	})

	return append(summary, model.CategorySummaryRow{
		Category:   model.SummaryTotal,
		Total:      grand,
		Percentage: hundred,
	})
}

// percentage returns part/whole*100 rounded to 2 places; zero when whole is zero.
func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}

// RankStores totals rows per raw title, sorted by total descending (ties by
// title). With more than topN titles the remainder collapses into a trailing
// "Others" row. topN <= 0 means DefaultTopN.
func RankStores(rows []model.CategorizedTransaction, topN int) []model.StoreRankingRow {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(rows) == 0 {
		return nil
	}

	totals := make(map[string]decimal.Decimal)
	for _, r := range rows {
		totals[r.Title] = totals[r.Title].Add(r.Amount)
	}

	ranking := make([]model.StoreRankingRow, 0, len(totals))
	for title, total := range totals {
		ranking = append(ranking, model.StoreRankingRow{Title: title, Total: total})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if c := ranking[i].Total.Cmp(ranking[j].Total); c != 0 {
			return c > 0
		}
		return ranking[i].Title < ranking[j].Title
	})

	if len(ranking) <= topN {
		return ranking
	}

	rest := decimal.Zero
	for _, r := range ranking[topN:] {
		rest = rest.Add(r.Total)
	}
	return append(ranking[:topN:topN], model.StoreRankingRow{Title: model.StoreOthers, Total: rest})
}

// ByCategory returns the rows of one category sorted by amount descending,
// ties by date then title.
func ByCategory(rows []model.CategorizedTransaction, category string) []model.CategorizedTransaction {
	var out []model.CategorizedTransaction
	for _, r := range rows {
		if r.Category == category {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Title < out[j].Title
	})
	return out
}
