package shared

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ValueObject value object interface
// Value objects:
// 1. have no identity
// 2. are immutable
// 3. are compared by their attribute values
// Equals returns false (never an error) when other is an unrelated type
type ValueObject interface {
	Equals(other any) bool
}

// ============================================================================
// ID - identifier value object
// ============================================================================

// ID wraps a 128-bit identifier. The zero value is the "no identity" sentinel.
// ID is comparable, so == and map keys agree with Equals.
type ID struct {
	value uuid.UUID
}

// NewID generates a fresh time-ordered identifier
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return ID{value: uuid.New()}
	}
	return ID{value: id}
}

// ParseID parses the canonical string form
func ParseID(s string) (ID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ID{}, NewValidationError("id", "id", fmt.Sprintf("invalid id format: %q", s))
	}
	if parsed == uuid.Nil {
		return ID{}, NewValidationError("id", "id", "id cannot be nil uuid")
	}
	return ID{value: parsed}, nil
}

// MustParseID is ParseID for fixtures and tests
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether the id was never assigned
func (id ID) IsZero() bool { return id.value == uuid.Nil }

// String implements fmt.Stringer
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.value.String()
}

// Equals compares by value
func (id ID) Equals(other any) bool {
	o, ok := other.(ID)
	return ok && id == o
}

// MarshalText implements encoding.TextMarshaler
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
// Money - money value object
// ============================================================================

// Money amount in minor units (kopecks, cents) plus an ISO-4217 style currency code
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a validated Money value object.
// amount must be >= 0, currency must be three upper-case letters (RUB, USD)
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, NewValidationError("money", "amount", "amount cannot be negative")
	}
	if !isCurrencyCode(currency) {
		return Money{}, NewValidationError("money", "currency",
			fmt.Sprintf("currency must be three upper-case letters, got %q", currency))
	}
	return Money{amount: amount, currency: currency}, nil
}

// Zero returns zero money in the given currency
func Zero(currency string) (Money, error) {
	return NewMoney(0, currency)
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// Amount amount in minor units
func (m Money) Amount() int64 { return m.amount }

// Currency currency code
func (m Money) Currency() string { return m.currency }

// IsZero reports a zero amount
func (m Money) IsZero() bool { return m.amount == 0 }

// Add returns a new Money; currencies must match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, NewUnitMismatchError("money", "add", m.currency, other.currency)
	}
	if other.amount > 0 && m.amount > math.MaxInt64-other.amount {
		return Money{}, NewValidationError("money", "amount", "amount overflow")
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns a new Money; currencies must match and the result cannot be negative
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, NewUnitMismatchError("money", "subtract", m.currency, other.currency)
	}
	if other.amount > m.amount {
		return Money{}, NewValidationError("money", "amount", "amount cannot be negative")
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Multiply multiplies by a non-negative factor with an overflow check
func (m Money) Multiply(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, NewValidationError("money", "factor", "factor cannot be negative")
	}
	if factor != 0 && m.amount > math.MaxInt64/int64(factor) {
		return Money{}, NewValidationError("money", "amount", "amount overflow")
	}
	return Money{amount: m.amount * int64(factor), currency: m.currency}, nil
}

// IsGreaterThan compares amounts of the same currency
func (m Money) IsGreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, NewUnitMismatchError("money", "compare", m.currency, other.currency)
	}
	return m.amount > other.amount, nil
}

// Equals compares amount and currency
func (m Money) Equals(other any) bool {
	o, ok := other.(Money)
	return ok && m == o
}

// String renders "100.50 RUB"
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amount/100, m.amount%100, m.currency)
}

// MarshalJSON renders {"amount":..., "currency":...}
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"amount":%d,"currency":%q}`, m.amount, m.currency)), nil
}
