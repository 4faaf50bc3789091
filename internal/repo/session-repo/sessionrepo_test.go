package sessionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/pg"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB, pg.NewTXManager(mockDB)), mockDB
}

func testSession() domain.Session {
	return domain.Session{
		Token: "abc",
		User: &domain.UserProfile{
			ID:       1,
			Username: "admin",
			Role:     domain.RoleAdmin,
			Balance:  decimal.RequireFromString("99.9"),
		},
	}
}

func withBalance(balance decimal.Decimal) domain.Session {
	s := testSession()
	s.User.Balance = balance
	return s
}

func TestRepository_Load(t *testing.T) {
	repo, mock := NewMock(t)
	_, userJSON, err := session.EncodeEntries(testSession())
	require.NoError(t, err)

	foundRows := func(s domain.Session) func() {
		return func() {
			_, user, err := session.EncodeEntries(s)
			require.NoError(t, err)
			rows := pgxmock.NewRows([]string{"key", "value"}).
				AddRow("token", s.Token).
				AddRow("userInfo", user)
			mock.ExpectQuery(regexp.QuoteMeta(loadQuery)).
				WithArgs("token", "userInfo").
				WillReturnRows(rows)
		}
	}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    domain.Session
	}{
		{
			name: "Session found",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"key", "value"}).
					AddRow("token", "abc").
					AddRow("userInfo", userJSON)
				mock.ExpectQuery(regexp.QuoteMeta(loadQuery)).
					WithArgs("token", "userInfo").
					WillReturnRows(rows)
			},
			result: testSession(),
		},
		{
			name:      "New user with zero balance",
			mockSetup: foundRows(withBalance(decimal.Decimal{})),
			result:    withBalance(decimal.Decimal{}),
		},
		{
			name:      "Balance with trailing zeros",
			mockSetup: foundRows(withBalance(decimal.RequireFromString("10.00"))),
			result:    withBalance(decimal.RequireFromString("10.00")),
		},
		{
			name: "Empty storage",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(loadQuery)).
					WithArgs("token", "userInfo").
					WillReturnRows(pgxmock.NewRows([]string{"key", "value"}))
			},
			result: domain.Session{},
		},
		{
			name: "Profile without token is ignored",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"key", "value"}).
					AddRow("userInfo", userJSON)
				mock.ExpectQuery(regexp.QuoteMeta(loadQuery)).
					WithArgs("token", "userInfo").
					WillReturnRows(rows)
			},
			result: domain.Session{},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(loadQuery)).
					WithArgs("token", "userInfo").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Load(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.result.Equal(result), "expected %+v, got %+v", tt.result.User, result.User)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Save(t *testing.T) {
	repo, mock := NewMock(t)
	_, userJSON, err := session.EncodeEntries(testSession())
	require.NoError(t, err)

	tests := []struct {
		name      string
		session   domain.Session
		mockSetup func()
		expectErr bool
	}{
		{
			name:    "Both entries written in one transaction",
			session: testSession(),
			mockSetup: func() {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
					WithArgs("token", "abc").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
					WithArgs("userInfo", userJSON).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name:    "Failure rolls back",
			session: testSession(),
			mockSetup: func() {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
					WithArgs("token", "abc").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
					WithArgs("userInfo", userJSON).
					WillReturnError(errors.New("database error"))
				mock.ExpectRollback()
			},
			expectErr: true,
		},
		{
			name:    "Session without token clears storage",
			session: domain.Session{User: testSession().User},
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
					WithArgs("token", "userInfo").
					WillReturnResult(pgxmock.NewResult("DELETE", 2))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Save(context.Background(), tt.session)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Clear(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs("token", "userInfo").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs("token", "userInfo").
		WillReturnError(errors.New("database error"))

	assert.NoError(t, repo.Clear(context.Background()))
	assert.Error(t, repo.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
