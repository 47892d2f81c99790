package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workshop-financial-engine/internal/domain/account"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var accountColumns = []string{"code", "name", "type", "parent_code", "active", "created_at"}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := &account.Account{
		Code:       "1001",
		Name:       "Cash on hand",
		Type:       account.TypeAsset,
		ParentCode: "100",
		Active:     true,
		CreatedAt:  time.Now(),
	}

	query := `INSERT INTO accounts \(code, name, type, parent_code, active, created_at\)`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Code, acc.Name, acc.Type, acc.ParentCode, acc.Active, acc.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate code", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Code, acc.Name, acc.Type, acc.ParentCode, acc.Active, acc.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, acc)
		assert.Equal(t, account.ErrDuplicateAccount{Code: "1001"}, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.Code, acc.Name, acc.Type, acc.ParentCode, acc.Active, acc.CreatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByCode(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	now := time.Now()
	expected := &account.Account{
		Code:      "4001",
		Name:      "Service revenue",
		Type:      account.TypeRevenue,
		Active:    true,
		CreatedAt: now,
	}

	query := `SELECT code, name, type, parent_code, active, created_at\s+FROM accounts\s+WHERE code = \$1`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumns).
			AddRow(expected.Code, expected.Name, expected.Type, expected.ParentCode, expected.Active, expected.CreatedAt)
		mock.ExpectQuery(query).WithArgs("4001").WillReturnRows(rows)

		acc, err := repo.GetByCode(ctx, "4001")
		assert.NoError(t, err)
		assert.Equal(t, expected, acc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("9999").WillReturnError(pgx.ErrNoRows)

		acc, err := repo.GetByCode(ctx, "9999")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{Code: "9999"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_List(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumns).
			AddRow("1001", "Cash on hand", account.TypeAsset, "", true, now).
			AddRow("4001", "Service revenue", account.TypeRevenue, "", true, now).
			AddRow("5301", "Rent", account.TypeExpense, "", false, now)
		mock.ExpectQuery(`FROM accounts\s+ORDER BY code`).WillReturnRows(rows)

		accounts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 3)
		assert.Equal(t, "1001", accounts[0].Code)
		assert.False(t, accounts[2].Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty chart", func(t *testing.T) {
		mock.ExpectQuery(`FROM accounts\s+ORDER BY code`).WillReturnRows(pgxmock.NewRows(accountColumns))

		accounts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, accounts)
		assert.Empty(t, accounts)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(`FROM accounts\s+ORDER BY code`).WillReturnError(errors.New("connection reset"))

		accounts, err := repo.List(ctx)
		assert.Nil(t, accounts)
		assert.ErrorContains(t, err, "failed to list accounts")
	})
}

func TestAccountRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	query := `UPDATE accounts\s+SET active = \$1\s+WHERE code = \$2`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(false, "5301").WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.SetActive(ctx, "5301", false))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(true, "0000").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetActive(ctx, "0000", true)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_WithTx(t *testing.T) {
	repo := &AccountRepository{logger: newTestLogger()}

	mockTx := pgx.Tx(nil)
	txRepo := repo.WithTx(mockTx)

	accountRepo, ok := txRepo.(*AccountRepository)
	require.True(t, ok)
	assert.Equal(t, mockTx, accountRepo.querier)
	assert.Equal(t, repo.logger, accountRepo.logger)
}
