// Package domain provides definitions of all ledger entities.
package domain

import (
	"errors"
	"fmt"

	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch indicates arithmetic between amounts of different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrUnsupportedCurrency indicates that the currency is absent from the rate table.
	ErrUnsupportedCurrency = errors.New("currency not supported")
)

// Money is an amount of money in a particular currency.
//
// Values are never modified in place: every operation returns a new Money.
type Money struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewMoney returns Money with the normalized currency code.
func NewMoney(currency string, amount decimal.Decimal) Money {
	return Money{
		Currency: currencypkg.Normalize(currency),
		Amount:   amount,
	}
}

// Zero returns zero amount of the given currency.
func Zero(currency string) Money {
	return NewMoney(currency, decimal.Zero)
}

// Add returns the sum of m and o. Both must be in the same currency.
func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}

	return Money{Currency: m.Currency, Amount: m.Amount.Add(o.Amount)}, nil
}

// Sub returns the difference of m and o. Both must be in the same currency.
func (m Money) Sub(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.Currency, o.Currency)
	}

	return Money{Currency: m.Currency, Amount: m.Amount.Sub(o.Amount)}, nil
}

// MustAdd is like Add but panics on a currency mismatch.
// It is meant for call sites that have already converted both operands.
func (m Money) MustAdd(o Money) Money {
	sum, err := m.Add(o)
	if err != nil {
		panic(err)
	}

	return sum
}

// Neg returns the amount multiplied by -1.
func (m Money) Neg() Money {
	return Money{Currency: m.Currency, Amount: m.Amount.Neg()}
}

// Equal reports whether both values have the same currency and numerically equal amounts.
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.Amount.Equal(o.Amount)
}

// String renders the amount rounded to two decimal places followed by the currency code.
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
