package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account Model
// Snapshot of a core-banking account, refreshed by the update-accounts
// webhook. Balance and principal are stored as decimal strings to avoid
// floating-point drift.
type Account struct {
	AccountNumber string    `gorm:"primaryKey;size:20"` // Account number
	OwnerCIF      string    `gorm:"size:20;index"`      // CIF of the owning customer
	Balance       string    `gorm:"size:20;not null"`   // Current balance, decimal string
	Principal     string    `gorm:"size:20"`            // Principal amount, decimal string
	OpeningDate   time.Time // Account opening date
	MaturityDate  time.Time // Maturity date for term accounts
}

// BalanceAmount parses the stored balance into a decimal
func (a Account) BalanceAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(a.Balance)
}

// PrincipalAmount parses the stored principal into a decimal
func (a Account) PrincipalAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(a.Principal)
}
