package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Money is a fixed-point monetary amount stored as integer cents
type Money int64

var (
	errMoneyNotFinite   = errors.New("amount must be a finite number")
	errMoneyNotPositive = errors.New("amount must be greater than zero")
	errMoneyTooLarge    = errors.New("amount is too large")
)

// maxMoneyUnits bounds amounts so the cent conversion cannot overflow int64
const maxMoneyUnits = 1e13

// NewMoney converts a decimal amount to Money, rounding half away from zero to cents
func NewMoney(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errMoneyNotFinite
	}
	if amount <= 0 {
		return 0, errMoneyNotPositive
	}
	if amount > maxMoneyUnits {
		return 0, errMoneyTooLarge
	}
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return 0, errMoneyNotPositive
	}
	return Money(cents), nil
}

// Cents returns the amount in cents
func (m Money) Cents() int64 {
	return int64(m)
}

// Float64 returns the amount in currency units
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String formats the amount with two decimals
func (m Money) String() string {
	sign := ""
	c := int64(m)
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON encodes the amount as a JSON number with two decimals
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON decodes a JSON number into cents
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid money value %s: %w", string(data), err)
	}
	*m = Money(math.Round(v * 100))
	return nil
}

// MoneyPtr returns a pointer to m
func MoneyPtr(m Money) *Money {
	return &m
}
