package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(b))
	assert.False(t, a.Equals("not an id"))

	var zero ID
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())
}

func TestParseID(t *testing.T) {
	id := NewID()

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	seen := map[ID]bool{id: true}
	assert.True(t, seen[parsed], "equal ids must hash to the same map key")

	_, err = ParseID("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ParseID("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestIDText(t *testing.T) {
	id := NewID()
	text, err := id.MarshalText()
	require.NoError(t, err)

	var decoded ID
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, id, decoded)
}

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		wantErr  bool
	}{
		{"valid", 10000, "RUB", false},
		{"zero", 0, "USD", false},
		{"negative", -1, "RUB", true},
		{"lower case currency", 100, "rub", true},
		{"short currency", 100, "RU", true},
		{"long currency", 100, "RUBL", true},
		{"empty currency", 100, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidValue)
				assert.ErrorIs(t, err, ErrBusinessRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.amount, m.Amount())
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := NewMoney(10000, "RUB")
	b, _ := NewMoney(5000, "RUB")

	sum, err := a.Add(b)
	require.NoError(t, err)
	want, _ := NewMoney(15000, "RUB")
	assert.True(t, sum.Equals(want))
	assert.Equal(t, "150.00 RUB", sum.String())

	// operands are untouched
	assert.Equal(t, int64(10000), a.Amount())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), diff.Amount())

	_, err = b.Subtract(a)
	assert.ErrorIs(t, err, ErrInvalidValue)

	tripled, err := b.Multiply(3)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), tripled.Amount())

	_, err = b.Multiply(-1)
	assert.Error(t, err)
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	rub, _ := NewMoney(100, "RUB")
	usd, _ := NewMoney(100, "USD")

	_, err := rub.Add(usd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnitMismatch)
	assert.True(t, IsBusinessRule(err))

	_, err = rub.Subtract(usd)
	assert.ErrorIs(t, err, ErrUnitMismatch)

	_, err = rub.IsGreaterThan(usd)
	assert.ErrorIs(t, err, ErrUnitMismatch)

	assert.False(t, rub.Equals(usd))
}

func TestMoneyJSON(t *testing.T) {
	m, _ := NewMoney(1999, "EUR")
	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":1999,"currency":"EUR"}`, string(data))
}

func TestDomainErrorStack(t *testing.T) {
	err := NewBusinessRuleError("course", "enroll_student", "course is full")

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "course", de.Entity)
	assert.Equal(t, "course is full", de.Error())
	assert.NotEmpty(t, de.Stack())
}

func TestInvalidStatusErrorMessage(t *testing.T) {
	err := NewInvalidStatusError("shipment", "add_parcel", "DISPATCHED", "PREPARING")
	assert.Equal(t, "cannot add parcel shipment in status DISPATCHED, expected PREPARING", err.Error())
	assert.ErrorIs(t, err, ErrBusinessRule)
	assert.False(t, IsInvariant(err))
}
