// Package categorizer assigns spending categories to transactions by
// case-insensitive keyword match against an ordered keyword table.
package categorizer

import (
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cardsort-dev/cardsort/internal/categories"
	"github.com/cardsort-dev/cardsort/internal/model"
)

// Categorizer maps titles to categories. It is immutable and safe to share.
type Categorizer struct {
	table   *categories.Table
	entries []categories.Entry
}

// New creates a Categorizer over table.
func New(table *categories.Table) *Categorizer {
	return &Categorizer{table: table, entries: table.Entries()}
}

// NewDefault creates a Categorizer over the built-in table.
func NewDefault() *Categorizer {
	return New(categories.Default())
}

// NewFromFile loads the keyword table at path. An empty path, a missing file
// or a malformed file all yield the built-in table; only the malformed case is
// logged as a warning.
func NewFromFile(path string, log zerolog.Logger) *Categorizer {
	if path == "" {
		return NewDefault()
	}

	table, err := categories.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", path).Msg("categories file not found, using built-in table")
		} else {
			log.Warn().Err(err).Msg("using built-in category table")
		}
		return NewDefault()
	}

	log.Debug().Str("path", path).Int("categories", table.Len()).Msg("loaded categories")
	return New(table)
}

// Table returns the active keyword table.
func (c *Categorizer) Table() *categories.Table {
	return c.table
}

// Categories returns every category this Categorizer can assign, in match
// order, followed by "others".
func (c *Categorizer) Categories() []string {
	names := c.table.Names()
	for _, n := range names {
		if n == model.CategoryOthers {
			return names
		}
	}
	return append(names, model.CategoryOthers)
}

// CategorizeTitle returns the first category, in table order, having a
// keyword contained in the lower-cased title. No match yields "others".
func (c *Categorizer) CategorizeTitle(title string) string {
	lower := strings.ToLower(title)
	for _, e := range c.entries {
		for _, kw := range e.Keywords {
			if strings.Contains(lower, kw) {
				return e.Name
			}
		}
	}
	return model.CategoryOthers
}

// Categorize drops rows with a negative amount and assigns a category to each
// remaining row. Input order is preserved.
func (c *Categorizer) Categorize(txns []model.Transaction) []model.CategorizedTransaction {
	out := make([]model.CategorizedTransaction, 0, len(txns))
	for _, t := range txns {
		if t.Amount.IsNegative() {
			continue
		}
		out = append(out, model.CategorizedTransaction{
			Transaction: t,
			Category:    c.CategorizeTitle(t.Title),
		})
	}
	return out
}
