package domain

// Insurance Model
// Category detail row for a deposit/insurance product (1:1 with Product).
type Insurance struct {
	ID               uint    `gorm:"primaryKey"` // Primary key
	InsuranceType    string  `gorm:"size:80"`    // Policy type
	InsuranceAmount  int     // Insured amount
	MinPolicyTerm    float64 // Minimum policy term in years
	MaxPolicyTerm    float64 // Maximum policy term in years
	PayingTerm       float64 // Premium paying term in years
	MinAgeEntry      int     // Minimum entry age
	MaxAgeEntry      int     // Maximum entry age
	MinAgeMaturity   int     // Minimum maturity age
	MaxAgeMaturity   int     // Maximum maturity age
	PremiumFreq      string  `gorm:"size:20"` // Yearly, Half-Yearly, Quarterly or Monthly
	MinPremiumAmount int     // Minimum premium per installment
	MaxPremiumAmount int     // Maximum premium per installment
	Category         string  `gorm:"size:80"` // Policy category
	MaturityRate     int     // Maturity payout rate percentage
	ProductID        uint    `gorm:"uniqueIndex"` // Foreign key to Product
}
