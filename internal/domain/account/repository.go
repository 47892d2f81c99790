package account

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines chart-of-accounts persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByCode(ctx context.Context, code string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	SetActive(ctx context.Context, code string, active bool) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates an unknown account code
type ErrAccountNotFound struct {
	Code string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.Code
}

// Is matches any ErrAccountNotFound when the target code is empty
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrInactiveAccount indicates a posting against a deactivated account
type ErrInactiveAccount struct {
	Code string
}

func (e ErrInactiveAccount) Error() string {
	return "account is inactive: " + e.Code
}

// Is matches any ErrInactiveAccount when the target code is empty
func (e ErrInactiveAccount) Is(target error) bool {
	t, ok := target.(ErrInactiveAccount)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrDuplicateAccount indicates account code uniqueness violation
type ErrDuplicateAccount struct {
	Code string
}

func (e ErrDuplicateAccount) Error() string {
	return "account with code already exists: " + e.Code
}

// Is matches any ErrDuplicateAccount when the target code is empty
func (e ErrDuplicateAccount) Is(target error) bool {
	t, ok := target.(ErrDuplicateAccount)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}
