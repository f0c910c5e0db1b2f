package summary

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/domain"
	"fintrack/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLedger(t *testing.T) *repository.TransactionRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Transaction{}))
	return repository.NewTransactionRepository(db)
}

func seed(t *testing.T, repo *repository.TransactionRepository, userID, typ, category, date, amount string) {
	t.Helper()
	_, err := repo.Create(context.Background(), repository.CreateParams{
		UserID:   userID,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	})
	require.NoError(t, err)
}

func TestEngineOverSQLite(t *testing.T) {
	repo := newLedger(t)
	seed(t, repo, "u1", "expense", "food", "2025-09-01", "100")
	seed(t, repo, "u1", "expense", "food", "2025-09-03", "50")
	seed(t, repo, "u1", "expense", "transport", "2025-09-03", "12.5")
	seed(t, repo, "u1", "income", "salary", "2025-09-03", "3000")
	seed(t, repo, "u2", "expense", "food", "2025-09-01", "999")

	e := NewEngine(repo)
	ctx := context.Background()

	t.Run("monthly totals", func(t *testing.T) {
		got, err := e.SummarizeMonth(ctx, "u1", "2025-09-01", "expense")
		require.NoError(t, err)
		require.Len(t, got, 30)
		assert.True(t, decimal.NewFromInt(100).Equal(got[0].Total))
		assert.True(t, got[1].Total.IsZero())
		assert.True(t, decimal.RequireFromString("62.5").Equal(got[2].Total), got[2].Total.String())
	})

	t.Run("sum by dates", func(t *testing.T) {
		got, err := e.SumByDates(ctx, "u1", []string{"2025-09-03", "2025-09-01"}, "income")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, decimal.NewFromInt(3000).Equal(got[0].Sum))
		assert.True(t, got[1].Sum.IsZero())
	})

	t.Run("records by dates", func(t *testing.T) {
		got, err := e.RecordsByDates(ctx, "u1", []string{"2025-09-01", "2025-09-03"}, "food")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Len(t, got[0], 1)
		assert.Len(t, got[1], 1)
	})

	t.Run("category sums and frequency", func(t *testing.T) {
		dates := []string{"2025-09-01", "2025-09-02", "2025-09-03"}
		sums, err := e.SumByCategoryAndDates(ctx, "u1", dates, []string{"food", "transport", "salary"})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(150).Equal(sums.Sums[0]))
		assert.True(t, decimal.RequireFromString("12.5").Equal(sums.Sums[1]))
		assert.True(t, decimal.NewFromInt(3000).Equal(sums.Sums[2]))

		freq, err := e.FrequencyByCategoryAndDates(ctx, "u1", dates, []string{"FOOD"})
		require.NoError(t, err)
		require.Len(t, freq, 1)
		assert.Equal(t, []int{1, 0, 1}, freq[0].Counts)
	})
}

func TestMonthTotalAgreesWithDateSums(t *testing.T) {
	repo := newLedger(t)
	seed(t, repo, "u1", "expense", "food", "2025-09-01", "0.1")
	seed(t, repo, "u1", "expense", "food", "2025-09-01", "0.2")

	e := NewEngine(repo)
	ctx := context.Background()
	month, err := e.SummarizeMonth(ctx, "u1", "2025-09-01", "expense")
	require.NoError(t, err)
	sums, err := e.SumByDates(ctx, "u1", []string{"2025-09-01"}, "expense")
	require.NoError(t, err)

	assert.Equal(t, "0.3", month[0].Total.String())
	assert.True(t, sums[0].Sum.Equal(month[0].Total))
}
