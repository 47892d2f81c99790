package account

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrEmptyCode   = errors.New("account code cannot be empty")
	ErrInvalidCode = errors.New("account code must contain digits only")
	ErrEmptyName   = errors.New("account name cannot be empty")
	ErrInvalidType = errors.New("account type must be asset, liability, equity, revenue or expense")
)

// Type is the accounting nature of an account
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Valid reports whether t is one of the five account types
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}
	return false
}

// Account is an entry in the chart of accounts. The code prefix, not the
// Type field, decides which statement bucket its lines fall into.
type Account struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       Type      `json:"type"`
	ParentCode string    `json:"parent_code,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAccount creates an active account after validating its fields
func NewAccount(code, name string, accountType Type, parentCode string) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return nil, ErrInvalidCode
		}
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !accountType.Valid() {
		return nil, ErrInvalidType
	}

	return &Account{
		Code:       code,
		Name:       name,
		Type:       accountType,
		ParentCode: parentCode,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
