/**
 * @description
 * This file defines the Money value type used for every amount in the service.
 * Amounts are stored as `int64` in the smallest currency unit (cents), which
 * avoids floating-point inaccuracies with financial data. Arithmetic between
 * two Money values with different currencies is a construction bug and is
 * reported as ErrCurrencyMismatch.
 *
 * @dependencies
 * - errors, fmt, strings: Standard Go libraries.
 * - github.com/shopspring/decimal: For exact string/float to cents conversion.
 */

package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

// CurrencyUSD is the default currency for deposit accounts.
const CurrencyUSD Currency = "USD"

// ErrCurrencyMismatch is returned when arithmetic mixes two currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an immutable fixed-point currency amount.
type Money struct {
	Cents    int64    `json:"cents"`
	Currency Currency `json:"currency"`
}

// NewMoney creates a Money from an amount in minor units (cents).
// An empty currency defaults to USD.
func NewMoney(cents int64, currency Currency) Money {
	if currency == "" {
		currency = CurrencyUSD
	}
	return Money{Cents: cents, Currency: currency}
}

// MoneyFromString parses a decimal amount such as "$1.00", "1.00" or "-0.50"
// into a Money in the given currency. The leading currency symbol and any
// thousands separators are ignored.
func MoneyFromString(s string, currency Currency) (Money, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return NewMoney(0, currency), nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return NewMoney(d.Shift(2).Round(0).IntPart(), currency), nil
}

// MoneyFromFloat converts a unit amount (e.g. 1.25 dollars) to Money,
// rounding half away from zero to the nearest cent.
func MoneyFromFloat(f float64, currency Currency) Money {
	cents := decimal.NewFromFloat(f).Shift(2).Round(0).IntPart()
	return NewMoney(cents, currency)
}

// MoneyFromAny coerces loosely-typed input (JSON decoding yields strings and
// float64 numbers) into a Money. A nil value yields a zero amount.
func MoneyFromAny(v any, currency Currency) (Money, error) {
	switch value := v.(type) {
	case nil:
		return NewMoney(0, currency), nil
	case Money:
		return value, nil
	case *Money:
		if value == nil {
			return NewMoney(0, currency), nil
		}
		return *value, nil
	case string:
		return MoneyFromString(value, currency)
	case float64:
		return MoneyFromFloat(value, currency), nil
	case int:
		return MoneyFromFloat(float64(value), currency), nil
	case int64:
		return MoneyFromFloat(float64(value), currency), nil
	default:
		return Money{}, fmt.Errorf("cannot convert %T to money", v)
	}
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{Cents: m.Cents - other.Cents, Currency: m.Currency}, nil
}

// Negate returns the amount with its sign flipped.
func (m Money) Negate() Money {
	return Money{Cents: -m.Cents, Currency: m.Currency}
}

// Abs returns the non-negative magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return m.Negate()
	}
	return m
}

// Cmp compares two amounts of the same currency. It returns -1, 0 or 1.
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	switch {
	case m.Cents < other.Cents:
		return -1, nil
	case m.Cents > other.Cents:
		return 1, nil
	default:
		return 0, nil
	}
}

// LessThan reports m < other for same-currency amounts.
func (m Money) LessThan(other Money) bool {
	c, err := m.Cmp(other)
	return err == nil && c < 0
}

// GreaterThan reports m > other for same-currency amounts.
func (m Money) GreaterThan(other Money) bool {
	c, err := m.Cmp(other)
	return err == nil && c > 0
}

// Equal reports value equality on (cents, currency).
func (m Money) Equal(other Money) bool {
	return m.Cents == other.Cents && m.Currency == other.Currency
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.Cents == 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Cents < 0 }

// String renders the amount with a currency symbol and two decimals,
// e.g. "$4.00" or "$-0.50".
func (m Money) String() string {
	return "$" + m.Format()
}

// Format renders the amount as a plain two-decimal string, e.g. "4.00".
func (m Money) Format() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
