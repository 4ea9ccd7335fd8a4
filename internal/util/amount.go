package util

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const maxAmount = 1_000_000_000

// NormalizeAmount validates a monetary amount and rounds it to two decimal
// places. Amounts must be strictly positive.
func NormalizeAmount(amount float64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %v", amount)
	}
	if amount > maxAmount {
		return 0, fmt.Errorf("amount too large, got %v", amount)
	}
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded, nil
}

// Round2 rounds a computed total to two decimal places for display.
func Round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}

// SumRound2 adds amounts exactly and rounds the total to two decimals.
func SumRound2(values []float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	r, _ := total.Round(2).Float64()
	return r
}
