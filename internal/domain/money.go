package domain

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places. All persisted and
// reported money goes through this so float accumulation never leaks odd
// fractions to callers.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
