// Package postgres provides PostgreSQL implementations of the domain repositories.
// The chart of accounts, journal entries and the ledger outbox live here; every
// repository can be bound to a transaction with WithTx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/platform/persistence"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. A taken code yields ErrDuplicateAccount.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (code, name, type, parent_code, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.Code,
		acc.Name,
		acc.Type,
		acc.ParentCode,
		acc.Active,
		acc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateAccount{Code: acc.Code}
		}
		r.logger.Error("Failed to create account", "code", acc.Code, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByCode retrieves an account by its code
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	query := `
		SELECT code, name, type, parent_code, active, created_at
		FROM accounts
		WHERE code = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, code).Scan(
		&acc.Code,
		&acc.Name,
		&acc.Type,
		&acc.ParentCode,
		&acc.Active,
		&acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{Code: code}
		}
		r.logger.Error("Failed to get account", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// List returns the whole chart of accounts ordered by code
func (r *AccountRepository) List(ctx context.Context) ([]account.Account, error) {
	query := `
		SELECT code, name, type, parent_code, active, created_at
		FROM accounts
		ORDER BY code
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []account.Account{}
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(
			&acc.Code,
			&acc.Name,
			&acc.Type,
			&acc.ParentCode,
			&acc.Active,
			&acc.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// SetActive activates or deactivates an account. Posted lines are kept.
func (r *AccountRepository) SetActive(ctx context.Context, code string, active bool) error {
	query := `
		UPDATE accounts
		SET active = $1
		WHERE code = $2
	`

	result, err := r.querier.Exec(ctx, query, active, code)
	if err != nil {
		r.logger.Error("Failed to update account status", "code", code, "error", err)
		return fmt.Errorf("failed to update account status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{Code: code}
	}

	return nil
}
