package service

import (
	"context"
	"log/slog"

	"github.com/workshop-financial-engine/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccount validates and stores a new account
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, code, name string, accountType account.Type, parentCode string) (*account.Account, error) {
	acc, err := account.NewAccount(code, name, accountType, parentCode)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Account created", "code", acc.Code, "type", acc.Type)
	return acc, nil
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]account.Account, error) {
	return s.accountRepo.List(ctx)
}

func (s *AccountServiceImpl) SetActive(ctx context.Context, code string, active bool) error {
	if err := s.accountRepo.SetActive(ctx, code, active); err != nil {
		return err
	}
	s.logger.Info("Account status changed", "code", code, "active", active)
	return nil
}
