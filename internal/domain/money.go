package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

// Money is an amount rounded to two decimal places (half away from zero)
// tagged with a currency code.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	if strings.TrimSpace(currency) == "" {
		currency = DefaultCurrency
	}
	return Money{
		amount:   amount.Round(2),
		currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
}

func USD(amount decimal.Decimal) Money {
	return NewMoney(amount, DefaultCurrency)
}

func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.Currency()), nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.Currency()), nil
}

func (m Money) Mul(multiplier decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(multiplier), m.Currency())
}

func (m Money) MulInt(multiplier int) Money {
	return m.Mul(decimal.NewFromInt(int64(multiplier)))
}

func (m Money) Equal(other Money) bool {
	return m.Currency() == other.Currency() && m.amount.Equal(other.amount)
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency(), m.amount.StringFixed(2))
}

func (m Money) ensureSameCurrency(other Money) error {
	if !strings.EqualFold(m.Currency(), other.Currency()) {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency(), other.Currency())
	}
	return nil
}
