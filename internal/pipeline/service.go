package pipeline

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/cardsort-dev/cardsort/internal/aggregate"
	"github.com/cardsort-dev/cardsort/internal/categorizer"
	"github.com/cardsort-dev/cardsort/internal/importer"
	"github.com/cardsort-dev/cardsort/internal/installments"
	"github.com/cardsort-dev/cardsort/internal/model"
)

// Options are the caller-side policies of one run.
type Options struct {
	Bucket            aggregate.Bucket // empty = BucketForFiles(len(paths))
	MergeInstallments bool
	Only              []string // keep only these categories; empty = all
	TopStores         int      // <= 0 means aggregate.DefaultTopN
}

// Result holds every table derived from one ingestion.
type Result struct {
	Sources []string
	Bucket  aggregate.Bucket
	Rows    []model.CategorizedTransaction
	Summary []model.CategorySummaryRow
	Stores  []model.StoreRankingRow
	Trends  []model.TrendSeries // one per category, in summary order
	Dropped int                 // negative rows discarded
	Merged  int                 // installment lines folded into another row
}

// Service runs load -> categorize -> merge -> aggregate.
type Service struct {
	parser      importer.Parser
	categorizer *categorizer.Categorizer
	merger      *installments.Merger
	log         zerolog.Logger
}

// NewService creates a pipeline Service.
func NewService(parser importer.Parser, c *categorizer.Categorizer, m *installments.Merger, log zerolog.Logger) *Service {
	return &Service{parser: parser, categorizer: c, merger: m, log: log}
}

// BucketForFiles picks the trend granularity: months when a run spans several
// statement files, days for a single one.
func BucketForFiles(n int) aggregate.Bucket {
	if n > 1 {
		return aggregate.BucketMonth
	}
	return aggregate.BucketDay
}

// Run loads paths as one batch and processes it. Any load failure aborts the
// whole batch.
func (s *Service) Run(paths []string, opts Options) (*Result, error) {
	txns, err := importer.LoadFiles(s.parser, paths...)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Strs("files", paths).Int("rows", len(txns)).Msg("loaded statements")

	if opts.Bucket == "" {
		opts.Bucket = BucketForFiles(len(paths))
	}
	res := s.Process(txns, opts)
	res.Sources = append([]string(nil), paths...)
	return res, nil
}

// Process categorizes and aggregates already loaded transactions.
//
// With MergeInstallments set, installment lines are merged after the negative
// filter and the merged rows are categorized again, so a merged row's category
// always reflects its base title.
func (s *Service) Process(txns []model.Transaction, opts Options) *Result {
	if opts.Bucket == "" {
		opts.Bucket = aggregate.BucketDay
	}

	rows := s.categorizer.Categorize(txns)
	res := &Result{Bucket: opts.Bucket, Dropped: len(txns) - len(rows)}

	if opts.MergeInstallments {
		merged := s.merger.Merge(model.Strip(rows))
		res.Merged = len(rows) - len(merged)
		rows = s.categorizer.Categorize(merged)
	}

	if len(opts.Only) > 0 {
		rows = filterCategories(rows, opts.Only)
	}
	res.Rows = rows

	res.Summary = aggregate.SummarizeByCategory(rows)
	res.Stores = aggregate.RankStores(rows, opts.TopStores)
	for _, cat := range res.Categories() {
		res.Trends = append(res.Trends, aggregate.TrendForCategory(rows, cat, opts.Bucket))
	}

	s.log.Info().
		Int("rows", len(rows)).
		Int("dropped", res.Dropped).
		Int("merged", res.Merged).
		Int("categories", len(res.Trends)).
		Str("bucket", string(opts.Bucket)).
		Msg("categorized transactions")
	return res
}

func filterCategories(rows []model.CategorizedTransaction, only []string) []model.CategorizedTransaction {
	var out []model.CategorizedTransaction
	for _, r := range rows {
		if slices.Contains(only, r.Category) {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the categories present, in summary order (largest first).
func (r *Result) Categories() []string {
	if len(r.Summary) == 0 {
		return nil
	}
	// The last summary row is the synthetic total.
	cats := make([]string, 0, len(r.Summary)-1)
	for _, row := range r.Summary[:len(r.Summary)-1] {
		cats = append(cats, row.Category)
	}
	return cats
}

// CategoryRows returns one category's rows sorted by amount descending.
func (r *Result) CategoryRows(category string) []model.CategorizedTransaction {
	return aggregate.ByCategory(r.Rows, category)
}

// Trend returns the trend series of category.
func (r *Result) Trend(category string) (model.TrendSeries, error) {
	for _, t := range r.Trends {
		if t.Category == category {
			return t, nil
		}
	}
	return model.TrendSeries{}, fmt.Errorf("no trend for category %q", category)
}

// GrandTotal returns the sum of all retained amounts.
func (r *Result) GrandTotal() model.CategorySummaryRow {
	if len(r.Summary) == 0 {
		return model.CategorySummaryRow{Category: model.SummaryTotal}
	}
	return r.Summary[len(r.Summary)-1]
}
