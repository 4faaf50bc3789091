package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLuna(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{name: "Valid number", number: "79927398713", expected: true},
		{name: "Invalid check digit", number: "79927398710", expected: false},
		{name: "Not a number", number: "abc", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLuna(tt.number))
		})
	}
}

func TestWithCheckDigit(t *testing.T) {
	full, err := WithCheckDigit("7992739871")
	require.NoError(t, err)
	assert.Equal(t, "79927398713", full)
	assert.True(t, IsLuna(full))
}

type sample struct {
	Name  string `validate:"required,min=3"`
	Email string `validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "admin"}))

	err := Struct(sample{Name: "ab", Email: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Name failed on min")
	assert.Contains(t, err.Error(), "Email failed on email")
}

func TestAmounts(t *testing.T) {
	assert.NoError(t, PositiveAmount(decimal.RequireFromString("0.01")))
	assert.ErrorIs(t, PositiveAmount(decimal.Zero), ErrInvalidInput)
	assert.ErrorIs(t, PositiveAmount(decimal.NewFromInt(-1)), ErrInvalidInput)
	assert.NoError(t, NonZeroAmount(decimal.NewFromInt(-1)))
	assert.ErrorIs(t, NonZeroAmount(decimal.Zero), ErrInvalidInput)
}

func TestPositiveID(t *testing.T) {
	assert.NoError(t, PositiveID(1))
	assert.ErrorIs(t, PositiveID(0), ErrInvalidInput)
	assert.ErrorIs(t, PositiveID(-5), ErrInvalidInput)
}
