package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one raw statement line as loaded from a CSV export.
type Transaction struct {
	Date   time.Time
	Title  string
	Amount decimal.Decimal // positive = purchase, negative = refund/credit
}

// CategorizedTransaction is a Transaction with its assigned category.
// Amount is never negative.
type CategorizedTransaction struct {
	Transaction
	Category string
}

// Strip drops the category from each row.
func Strip(rows []CategorizedTransaction) []Transaction {
	out := make([]Transaction, len(rows))
	for i, r := range rows {
		out[i] = r.Transaction
	}
	return out
}
