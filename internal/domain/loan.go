package domain

// HomeLoan Model
// Category detail row for a home-loan product (1:1 with Product).
type HomeLoan struct {
	ID                  uint    `gorm:"primaryKey"`  // Primary key
	LoanName            string  `gorm:"size:100"`    // Marketed name
	InterestRate        float64 // Annual interest rate
	TenureUpperLimit    int     // Maximum tenure in months
	PrincipalLowerLimit int     // Minimum principal
	PrincipalUpperLimit int     // Maximum principal
	PrePaymentPenalty   int     // Penalty percentage on prepayment
	FlexiPay            bool    // Flexible repayment supported
	AgeLowerLimit       int     // Minimum applicant age
	AgeUpperLimit       int     // Maximum applicant age
	CustomerType        string  `gorm:"size:100"`    // Eligible customer segment
	Comments            string  `gorm:"size:100"`    // Remarks
	ProductID           uint    `gorm:"uniqueIndex"` // Foreign key to Product
}

// EduLoan Model
// Category detail row for an education-loan product (1:1 with Product).
type EduLoan struct {
	ID               uint    `gorm:"primaryKey"`  // Primary key
	LoanName         string  `gorm:"size:100"`    // Marketed name
	Tenure           float64 // Tenure in years
	EffInterestRate  float64 // Effective annual interest rate
	ResetPeriod      float64 // Rate reset period in years
	Nationality      string  `gorm:"size:100"` // Eligible nationality
	CourseType       string  `gorm:"size:100"` // Eligible course type
	InstituteType    string  `gorm:"size:100"` // Eligible institute type
	InstituteCountry string  `gorm:"size:100"` // Institute country
	LoanLimit        int     // Maximum loan amount
	Security         string  `gorm:"size:100"` // Security requirement
	Concession       float64 // Rate concession applied to eligible borrowers
	Comments         string  `gorm:"size:100"`    // Remarks
	ProductID        uint    `gorm:"uniqueIndex"` // Foreign key to Product
}
