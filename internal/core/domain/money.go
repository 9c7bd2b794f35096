package domain

import "github.com/shopspring/decimal"

// MaxOperationAmount is the per-operation ceiling for deposits, withdrawals
// and transfers.
var MaxOperationAmount = decimal.NewFromInt(50000)

// RoundAmount normalizes a monetary value to 2 fraction digits.
// All amounts and balances in the ledger carry exactly two decimals.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ValidOperationAmount reports whether an amount is acceptable for a ledger
// operation: strictly positive and at most 50000.00 after rounding.
func ValidOperationAmount(d decimal.Decimal) bool {
	r := RoundAmount(d)
	return r.IsPositive() && r.LessThanOrEqual(MaxOperationAmount)
}
