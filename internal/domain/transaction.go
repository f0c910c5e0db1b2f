package domain

import (
	"fmt"  // Error wrapping
	"time" // Creation timestamps

	"github.com/shopspring/decimal" // Exact money arithmetic
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true // Charts expect amounts as JSON numbers
}

// Transaction Model
type Transaction struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`                                                  // UUID, set on create
	UserID      string          `gorm:"type:varchar(64);not null;index:idx_transactions_user_date,priority:1" json:"user_id"` // Owning user
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`                                             // Positive-convention amount
	Type        Type            `gorm:"type:varchar(16);not null" json:"type"`                                                 // INCOME or EXPENSE
	Category    Category        `gorm:"type:varchar(16);not null;index" json:"category"`                                       // Closed category set
	Description string          `gorm:"type:text;not null" json:"description"`                                                 // Free text
	Date        Date            `gorm:"type:date;not null;index:idx_transactions_user_date,priority:2" json:"date"`           // Calendar date
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`                                                            // Truncated to the minute
}

// AmountScale is the number of decimal places the amount column keeps
const AmountScale = 2

// CheckAmount rejects amounts the store would have to round
func CheckAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountScale)) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount.String(), AmountScale)
	}
	return nil
}

// TableName pins the table name shared with existing deployments
func (Transaction) TableName() string {
	return "transactions"
}

// Filter narrows a ledger query. Zero values mean "no narrowing".
type Filter struct {
	Type       *Type      // Optional type
	Categories []Category // Optional category set, matched with IN
}

// DailyTotal is one bucket of a monthly series
type DailyTotal struct {
	Date  string          `json:"date"`  // YYYY-MM-DD
	Total decimal.Decimal `json:"total"` // Sum of amounts, zero when empty
}
