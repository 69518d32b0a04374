package domain

import (
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-split/pkg/currencypkg"
)

// ParseAmount parses a positive money amount up to currencypkg.MaxAmount
// with at most 2 fractional digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := ParseShare(s)
	if err != nil {
		return decimal.Zero, err
	}

	if !amount.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}

	return amount, nil
}

// ParseShare parses a non-negative money amount up to currencypkg.MaxAmount
// with at most 2 fractional digits.
func ParseShare(s string) (decimal.Decimal, error) {
	amount, ok := currencypkg.ParseDecimal(s)
	if !ok {
		return decimal.Zero, ErrInvalidAmount
	}

	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	if amount.GreaterThan(currencypkg.MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}

	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, ErrTooManyDecimals
	}

	return amount, nil
}
