package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateParams carries caller input for a new transaction. Enum and date
// fields are raw strings; they are validated before anything is written.
type CreateParams struct {
	UserID      string
	Type        string
	Amount      decimal.Decimal
	Category    string
	Date        string
	Description string
}

// TransactionRepository translates ledger requests into gorm queries
type TransactionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db, now: time.Now}
}

// Create validates params and persists a new transaction with a fresh id.
// created_at is the current UTC time truncated to the minute.
func (r *TransactionRepository) Create(ctx context.Context, p CreateParams) (*domain.Transaction, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingParameter)
	}
	txType, err := domain.ParseType(p.Type)
	if err != nil {
		return nil, err
	}
	category, err := domain.ParseCategory(p.Category)
	if err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(p.Date)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckAmount(p.Amount); err != nil {
		return nil, err
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      p.UserID,
		Amount:      p.Amount,
		Type:        txType,
		Category:    category,
		Description: p.Description,
		Date:        date,
		CreatedAt:   r.now().UTC().Truncate(time.Minute),
	}
	if err := r.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return nil, storeErr("create transaction", err)
	}
	return &tx, nil
}

// Get returns nil, nil when no transaction has the id
func (r *TransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get transaction", err)
	}
	return &tx, nil
}

// Update sets description and/or amount; nil fields are left unchanged.
// Returns nil, nil when the id does not exist.
func (r *TransactionRepository) Update(ctx context.Context, id string, description *string, amount *decimal.Decimal) (*domain.Transaction, error) {
	if amount != nil {
		if err := domain.CheckAmount(*amount); err != nil {
			return nil, err
		}
	}
	tx, err := r.Get(ctx, id)
	if err != nil || tx == nil {
		return nil, err
	}
	if description != nil {
		tx.Description = *description
	}
	if amount != nil {
		tx.Amount = *amount
	}
	err = r.db.WithContext(ctx).Model(tx).
		Updates(map[string]any{"description": tx.Description, "amount": tx.Amount}).Error
	if err != nil {
		return nil, storeErr("update transaction", err)
	}
	return tx, nil
}

// Delete reports whether a transaction existed and was removed
func (r *TransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Transaction{})
	if res.Error != nil {
		return false, storeErr("delete transaction", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ByUserDate matches one exact date, optionally narrowed by f. Order is store-native.
func (r *TransactionRepository) ByUserDate(ctx context.Context, userID string, date domain.Date, f domain.Filter) ([]domain.Transaction, error) {
	return r.ByUserDates(ctx, userID, []domain.Date{date}, f)
}

// ByUserDates fetches every transaction of the user on any of dates in a single IN query
func (r *TransactionRepository) ByUserDates(ctx context.Context, userID string, dates []domain.Date, f domain.Filter) ([]domain.Transaction, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if k := d.String(); !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	q := r.db.WithContext(ctx).Where("user_id = ? AND date IN ?", userID, keys)
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	var txs []domain.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, storeErr("query transactions by date", err)
	}
	return txs, nil
}

type dailyRow struct {
	Date   domain.Date
	Amount decimal.Decimal
}

// MonthTotals sums amounts per date for dates within [from, to], ascending.
// Rows are folded with decimal arithmetic so stores that keep REAL columns
// do not leak binary rounding into the totals.
func (r *TransactionRepository) MonthTotals(ctx context.Context, userID string, from, to domain.Date, t domain.Type) ([]domain.DailyTotal, error) {
	var rows []dailyRow
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("date, amount").
		Where("user_id = ? AND date >= ? AND date <= ? AND type = ?", userID, from, to, t).
		Order("date").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("sum transactions by month", err)
	}
	var out []domain.DailyTotal
	for _, row := range rows {
		key := row.Date.String()
		if n := len(out); n > 0 && out[n-1].Date == key {
			out[n-1].Total = out[n-1].Total.Add(row.Amount)
			continue
		}
		out = append(out, domain.DailyTotal{Date: key, Total: row.Amount})
	}
	return out, nil
}

// Ping checks the store is reachable
func (r *TransactionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return storeErr("get sql db", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreFailure, op, err)
}
