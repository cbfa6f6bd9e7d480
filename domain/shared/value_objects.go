package shared

import (
	"errors"
	"math"
)

// ErrMoneyOverflow is returned when an arithmetic result does not fit in int64.
var ErrMoneyOverflow = errors.New("money amount overflow")

// Money is an amount in minor currency units (paise, cents).
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money value object.
func NewMoney(amount int64, currency string) *Money {
	return &Money{
		amount:   amount,
		currency: currency,
	}
}

// Zero is the zero amount in currency.
func Zero(currency string) Money {
	return Money{currency: currency}
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.New("cannot add money with different currencies")
	}
	if (other.amount > 0 && m.amount > math.MaxInt64-other.amount) ||
		(other.amount < 0 && m.amount < math.MinInt64-other.amount) {
		return nil, ErrMoneyOverflow
	}

	return &Money{
		amount:   m.amount + other.amount,
		currency: m.currency,
	}, nil
}

// Subtract returns m - other. Currencies must match.
func (m Money) Subtract(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.New("cannot subtract money with different currencies")
	}

	return &Money{
		amount:   m.amount - other.amount,
		currency: m.currency,
	}, nil
}

// Multiply returns m × factor with an overflow check.
func (m Money) Multiply(factor int) (*Money, error) {
	if factor < 0 {
		return nil, errors.New("cannot multiply money by a negative factor")
	}
	if factor != 0 && m.amount != 0 {
		if m.amount > math.MaxInt64/int64(factor) || m.amount < math.MinInt64/int64(factor) {
			return nil, ErrMoneyOverflow
		}
	}

	return &Money{
		amount:   m.amount * int64(factor),
		currency: m.currency,
	}, nil
}

func (m Money) IsGreaterThan(other Money) bool {
	return m.amount > other.amount
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

// Equals compares amount and currency.
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
