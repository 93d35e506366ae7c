package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Model
// Append-only, pushed by the mini-statement webhook; feeds the customer
// spending dashboard.
type Transaction struct {
	ID            uint            `gorm:"primaryKey"`         // Primary key
	Timestamp     time.Time       `gorm:"index"`              // Time of the transaction
	Amount        decimal.Decimal `gorm:"type:decimal(12,2)"` // Transaction amount
	AccountNumber string          `gorm:"size:20;index"`      // Account the transaction belongs to
}
