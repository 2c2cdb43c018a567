package domain

import "github.com/shopspring/decimal"

// Money is an exact decimal amount. All due/payment/balance arithmetic goes
// through this type; the raw decimal leaves it only at the storage boundary.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// MoneyFromDecimal wraps a storage-side decimal.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromString parses a decimal string such as "150.25".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

// Equal reports whether two amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Decimal returns the storage form of the amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.String()
}

// MarshalJSON renders the amount as a decimal string, same as decimal.Decimal.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}

// UnmarshalJSON accepts either a JSON number or a decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
