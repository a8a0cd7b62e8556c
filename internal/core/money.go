// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and formatting them in a profile's currency.
package core

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Currency is fixed per profile at creation time.
type Currency string

const (
	TRY Currency = "TRY"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency")
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case TRY, USD, EUR:
		return true
	default:
		return false
	}
}

// Symbol returns the display symbol of the currency.
func (c Currency) Symbol() string {
	switch c {
	case TRY:
		return "₺"
	case USD:
		return "$"
	case EUR:
		return "€"
	default:
		return string(c)
	}
}

// ParseAmount converts a decimal string to a positive amount with two decimals.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("12,34") -> 12.34, nil
//   ParseAmount("12.345") -> 12.35, nil
//   ParseAmount("-1") -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed, the sign lives in the transaction type
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ValidateAmount checks that an amount is strictly positive.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// FormatAmount renders amount with the currency symbol and two decimals,
// e.g. "₺1250.00" or "-€12.50".
func FormatAmount(c Currency, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + c.Symbol() + amount.Neg().StringFixed(2)
	}
	return c.Symbol() + amount.StringFixed(2)
}
