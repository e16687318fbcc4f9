// Package domain encodes the payment, order and subscription entities and
// the rules governing how money moves between them.
package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point amount with a two digit scale.
// Arithmetic never goes through binary floating point; amounts sent to the
// processor are rounded half-up to two decimal places.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}
	if amount.IsNegative() {
		return Money{}, NewInvalidAmountError(amount.String())
	}
	return Money{Amount: amount.Round(2), Currency: currency}, nil
}

// MoneyFromString parses a decimal string such as "100.00".
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, NewInvalidAmountError(amount)
	}
	return NewMoney(d, currency)
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// ValidateCurrency checks for a three letter uppercase currency code.
// Codes are opaque tokens compared case-sensitively; no conversion happens anywhere.
func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return NewInvalidCurrencyError(currency)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return NewInvalidCurrencyError(currency)
		}
	}
	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, NewCurrencyMismatchError(m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, NewCurrencyMismatchError(m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Cmp compares amounts only. Callers must have checked currencies already.
func (m Money) Cmp(other Money) int {
	return m.Amount.Cmp(other.Amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.Amount.GreaterThan(other.Amount)
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}

// StringFixed renders the amount with exactly two decimal places, rounded
// half-up. This is the only representation the processor ever sees.
func (m Money) StringFixed() string {
	return m.Amount.StringFixed(2)
}
