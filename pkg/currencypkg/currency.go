// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Constants for all supported currencies.
const (
	USD = "USD"
	EUR = "EUR"
	RMB = "RMB"
	GBP = "GBP"
	INR = "INR"
)

// SupportedCurrencies holds all the supported currencies.
var SupportedCurrencies = []string{
	USD,
	EUR,
	RMB,
	GBP,
	INR,
}

// IsSupportedCurrency returns true if the currency is supported.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}

	return false
}

// ValidCurrency validates whether the currency is supported.
var ValidCurrency validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return IsSupportedCurrency(c)
	}

	return false
}

// MaxAmount is the largest amount a NUMERIC(12, 2) column holds.
var MaxAmount = decimal.New(999_999_999_999, -2)

// ParseDecimal parses a plain decimal number. Exponent notation is rejected.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// IsValidAmount returns true if s is a positive amount up to MaxAmount with at most 2 decimals.
func IsValidAmount(s string) bool {
	amount, ok := ParseDecimal(s)
	if !ok {
		return false
	}

	return amount.IsPositive() && !amount.GreaterThan(MaxAmount) && amount.Equal(amount.Round(2))
}

// ValidAmount validates whether the field is a positive amount up to MaxAmount with at most 2 decimals.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return IsValidAmount(s)
	}

	return false
}
