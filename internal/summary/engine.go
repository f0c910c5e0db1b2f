// Package summary folds ledger query results into the time- and
// category-bucketed series behind the charting views. Every operation is
// read-only and validates its input before touching the store.
package summary

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/domain"

	"github.com/shopspring/decimal"
)

// Store is the subset of the transaction repository the engine reads from
type Store interface {
	ByUserDate(ctx context.Context, userID string, date domain.Date, f domain.Filter) ([]domain.Transaction, error)
	ByUserDates(ctx context.Context, userID string, dates []domain.Date, f domain.Filter) ([]domain.Transaction, error)
	MonthTotals(ctx context.Context, userID string, from, to domain.Date, t domain.Type) ([]domain.DailyTotal, error)
}

// Engine computes the chart series for one user at a time
type Engine struct {
	store Store
}

// NewEngine returns an engine reading from store
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// SummarizeMonth returns one zero-filled total per calendar day of month's month, ascending
func (e *Engine) SummarizeMonth(ctx context.Context, userID, month, txType string) ([]domain.DailyTotal, error) {
	if err := requireParams(param{"user_id", userID != ""}, param{"query_date", month != ""}, param{"type", txType != ""}); err != nil {
		return nil, err
	}
	day, err := domain.ParseDate(month)
	if err != nil {
		return nil, err
	}
	t, err := domain.ParseType(txType)
	if err != nil {
		return nil, err
	}

	first, last := day.MonthBounds()
	totals, err := e.store.MonthTotals(ctx, userID, first, last, t)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]decimal.Decimal, len(totals))
	for _, dt := range totals {
		byDate[dt.Date] = dt.Total
	}

	out := make([]domain.DailyTotal, 0, day.DaysInMonth())
	for d := 1; d <= day.DaysInMonth(); d++ {
		key := domain.NewDate(first.Year(), first.Month(), d).String()
		total, ok := byDate[key]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, domain.DailyTotal{Date: key, Total: total})
	}
	return out, nil
}

// ByDate returns the user's transactions of txType on exactly date
func (e *Engine) ByDate(ctx context.Context, userID, date, txType string) ([]domain.Transaction, error) {
	if err := requireParams(param{"user_id", userID != ""}, param{"query_date", date != ""}, param{"type", txType != ""}); err != nil {
		return nil, err
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	t, err := domain.ParseType(txType)
	if err != nil {
		return nil, err
	}
	txs, err := e.store.ByUserDate(ctx, userID, d, domain.Filter{Type: &t})
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

// SumByDates sums txType amounts for each input date, in input order.
// Duplicate dates each get their own entry.
func (e *Engine) SumByDates(ctx context.Context, userID string, dates []string, txType string) ([]DateSum, error) {
	if err := requireParams(param{"user_id", userID != ""}, param{"query_dates", len(dates) > 0}, param{"type", txType != ""}); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseDates(dates)
	if err != nil {
		return nil, err
	}
	t, err := domain.ParseType(txType)
	if err != nil {
		return nil, err
	}

	txs, err := e.store.ByUserDates(ctx, userID, parsed, domain.Filter{Type: &t})
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		k := tx.Date.String()
		sums[k] = sums[k].Add(tx.Amount)
	}

	out := make([]DateSum, len(parsed))
	for i, d := range parsed {
		out[i] = DateSum{Date: d.String(), Sum: sums[d.String()]}
	}
	return out, nil
}

// RecordsByDates lists the category's transactions for each input date, in input order
func (e *Engine) RecordsByDates(ctx context.Context, userID string, dates []string, category string) ([][]domain.Transaction, error) {
	if err := requireParams(param{"user_id", userID != ""}, param{"query_dates", len(dates) > 0}, param{"category", category != ""}); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseDates(dates)
	if err != nil {
		return nil, err
	}
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	txs, err := e.store.ByUserDates(ctx, userID, parsed, domain.Filter{Categories: []domain.Category{c}})
	if err != nil {
		return nil, err
	}
	byDate := make(map[string][]domain.Transaction)
	for _, tx := range txs {
		k := tx.Date.String()
		byDate[k] = append(byDate[k], tx)
	}

	out := make([][]domain.Transaction, len(parsed))
	for i, d := range parsed {
		records := byDate[d.String()]
		if records == nil {
			records = []domain.Transaction{}
		}
		out[i] = records
	}
	return out, nil
}

// SumByCategoryAndDates totals each category over all input dates combined
func (e *Engine) SumByCategoryAndDates(ctx context.Context, userID string, dates, categories []string) (CategorySums, error) {
	b, err := e.buckets(ctx, userID, dates, categories)
	if err != nil {
		return CategorySums{}, err
	}

	out := CategorySums{
		Categories: append([]string{}, categories...),
		Sums:       make([]decimal.Decimal, len(b.categories)),
	}
	for i, c := range b.categories {
		total := decimal.Zero
		for _, d := range b.dates {
			total = total.Add(b.sums[bucketKey{c, d.String()}])
		}
		out.Sums[i] = total
	}
	return out, nil
}

// FrequencyByCategoryAndDates counts transactions per category per input date
func (e *Engine) FrequencyByCategoryAndDates(ctx context.Context, userID string, dates, categories []string) ([]Frequency, error) {
	b, err := e.buckets(ctx, userID, dates, categories)
	if err != nil {
		return nil, err
	}

	echoed := append([]string{}, dates...)
	out := make([]Frequency, len(b.categories))
	for i, c := range b.categories {
		counts := make([]int, len(b.dates))
		for j, d := range b.dates {
			counts[j] = b.counts[bucketKey{c, d.String()}]
		}
		out[i] = Frequency{Dates: echoed, Counts: counts}
	}
	return out, nil
}

type bucketKey struct {
	category domain.Category
	date     string
}

type bucketSet struct {
	dates      []domain.Date
	categories []domain.Category
	sums       map[bucketKey]decimal.Decimal
	counts     map[bucketKey]int
}

// buckets validates a category x date request and folds one batched query into per-bucket sums and counts
func (e *Engine) buckets(ctx context.Context, userID string, dates, categories []string) (*bucketSet, error) {
	if err := requireParams(param{"user_id", userID != ""}, param{"query_dates", len(dates) > 0}, param{"categories", len(categories) > 0}); err != nil {
		return nil, err
	}
	parsedDates, err := domain.ParseDates(dates)
	if err != nil {
		return nil, err
	}
	parsedCats, err := domain.ParseCategories(categories)
	if err != nil {
		return nil, err
	}

	txs, err := e.store.ByUserDates(ctx, userID, parsedDates, domain.Filter{Categories: parsedCats})
	if err != nil {
		return nil, err
	}
	b := &bucketSet{
		dates:      parsedDates,
		categories: parsedCats,
		sums:       make(map[bucketKey]decimal.Decimal),
		counts:     make(map[bucketKey]int),
	}
	for _, tx := range txs {
		k := bucketKey{tx.Category, tx.Date.String()}
		b.sums[k] = b.sums[k].Add(tx.Amount)
		b.counts[k]++
	}
	return b, nil
}

type param struct {
	name    string
	present bool
}

// requireParams fails with ErrMissingParameter naming every absent field
func requireParams(params ...param) error {
	var missing []string
	for _, p := range params {
		if !p.present {
			missing = append(missing, p.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrMissingParameter, strings.Join(missing, ", "))
}
