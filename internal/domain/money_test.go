package domain

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		expected string
	}{
		{name: "Integer", amount: decimal.NewFromInt(100), expected: "100.00"},
		{name: "One decimal", amount: decimal.RequireFromString("12.5"), expected: "12.50"},
		{name: "Rounds half up", amount: decimal.RequireFromString("0.125"), expected: "0.13"},
		{name: "Negative", amount: decimal.RequireFromString("-3.1"), expected: "-3.10"},
		{name: "Zero", amount: decimal.Zero, expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoney(tt.amount))
		})
	}
}

func TestListQuery(t *testing.T) {
	q := ListQuery{Page: 2, PageSize: 20, Keyword: "alice"}

	v := q.Values()

	assert.Equal(t, url.Values{"page": {"2"}, "page_size": {"20"}, "keyword": {"alice"}}, v)
	assert.Equal(t, q, ParseListQuery(v))
	assert.Empty(t, ListQuery{}.Values())
}

func TestSessionAuthenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.False(t, Session{User: &UserProfile{ID: 1}}.Authenticated())
	assert.True(t, Session{Token: "abc"}.Authenticated())
}

func TestSessionEqual(t *testing.T) {
	profile := func(balance decimal.Decimal) *UserProfile {
		return &UserProfile{ID: 2, Username: "newuser", Role: RoleUser, Status: StatusActive, Balance: balance}
	}

	tests := []struct {
		name     string
		a, b     Session
		expected bool
	}{
		{name: "Both empty", expected: true},
		{name: "Token only", a: Session{Token: "abc"}, b: Session{Token: "abc"}, expected: true},
		{name: "Different token", a: Session{Token: "abc"}, b: Session{Token: "xyz"}},
		{name: "One profile missing", a: Session{Token: "abc", User: profile(decimal.Zero)}, b: Session{Token: "abc"}},
		{
			name:     "Unset and zero balance",
			a:        Session{Token: "abc", User: profile(decimal.Decimal{})},
			b:        Session{Token: "abc", User: profile(decimal.RequireFromString("0"))},
			expected: true,
		},
		{
			name:     "Trailing zeros",
			a:        Session{Token: "abc", User: profile(decimal.RequireFromString("10.00"))},
			b:        Session{Token: "abc", User: profile(decimal.NewFromInt(10))},
			expected: true,
		},
		{
			name: "Different balance",
			a:    Session{Token: "abc", User: profile(decimal.NewFromInt(10))},
			b:    Session{Token: "abc", User: profile(decimal.NewFromInt(11))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
			assert.Equal(t, tt.expected, tt.b.Equal(tt.a))
		})
	}
}

func TestUserProfileEqual_AfterJSON(t *testing.T) {
	saved := UserProfile{
		ID:        2,
		Username:  "newuser",
		Role:      RoleUser,
		Status:    StatusActive,
		CreatedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(saved)
	assert.NoError(t, err)

	var loaded UserProfile
	assert.NoError(t, json.Unmarshal(raw, &loaded))

	assert.True(t, saved.Equal(loaded))
}
