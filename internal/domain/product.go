package domain

// Product categories
const (
	CategoryHomeLoan = 1 // Home loan products
	CategoryEduLoan  = 2 // Education loan products
	CategoryDeposit  = 3 // Deposit schemes
)

// Product Model
type Product struct {
	ID       uint   `gorm:"primaryKey"`       // Primary key
	Name     string `gorm:"size:50;not null"` // Product name
	Category int    `gorm:"not null"`         // Category: home loan, education loan or deposit
}

// CategoryName returns the display name of the product's category
func (p Product) CategoryName() string {
	switch p.Category {
	case CategoryHomeLoan:
		return "Home Loan"
	case CategoryEduLoan:
		return "Education Loan"
	case CategoryDeposit:
		return "Deposit Scheme"
	}
	return "Unknown"
}
