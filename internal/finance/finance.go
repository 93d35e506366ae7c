// Package finance holds the product calculators as standalone pure
// functions over plain values, decoupled from the stored rows.
package finance

import "math"

// EMI computes the equated monthly installment for a loan:
// r(1+r)^N * P / ((1+r)^N - 1) where r is the per-period rate, N the number
// of periods and P the principal. A zero rate degenerates to P/N.
func EMI(rate float64, periods int, principal float64) float64 {
	if periods <= 0 {
		return 0
	}
	if rate == 0 {
		return principal / float64(periods)
	}
	growth := math.Pow(1+rate, float64(periods))
	return (rate * growth * principal) / (growth - 1)
}

// EduLoanEMI applies the education-loan concession to the effective rate
// before computing the installment.
func EduLoanEMI(effRate, concession float64, periods int, principal float64) float64 {
	return EMI(effRate-concession, periods, principal)
}

// InsuranceProfit is the maturity payout minus the premiums paid over the
// policy term, given the premium payment frequency.
func InsuranceProfit(maturityRate int, insuredAmount, minPremium int, freq string, years int) float64 {
	payout := float64(maturityRate) * float64(insuredAmount) * float64(years) / 100
	perYear := 0
	switch freq {
	case "Yearly":
		perYear = 1
	case "Half-Yearly":
		perYear = 2
	case "Quarterly":
		perYear = 4
	case "Monthly":
		perYear = 12
	}
	paid := float64(perYear * years * minPremium)
	return payout - paid
}

// AverageStars is the truncated mean of a product's ratings, 0 when the
// product has no reviews yet.
func AverageStars(ratings []float64) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range ratings {
		sum += r
	}
	return int(sum / float64(len(ratings)))
}
