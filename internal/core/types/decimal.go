// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Currency is the currency tag reported by every summary.
const Currency = "INR"

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// BalanceDue returns total minus paid, never below zero.
func BalanceDue(total, paid Money) Money {
	due := total.Sub(paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
