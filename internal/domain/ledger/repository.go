package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository persists journal entries. There is no update or delete.
type Repository interface {
	// Create stores the entry and all its lines, assigning entry.Sequence
	Create(ctx context.Context, entry *JournalEntry) error
	GetByNumber(ctx context.Context, entryNumber string) (*JournalEntry, error)
	// FindByReference returns nil, nil when no entry carries the reference
	FindByReference(ctx context.Context, refType, refID string) (*JournalEntry, error)
	// LinesBetween reads every line dated in [start, end] in one statement.
	// A zero start reads from the beginning of the ledger.
	LinesBetween(ctx context.Context, start, end time.Time) ([]PostedLine, error)
	WithTx(tx pgx.Tx) Repository
}

// UnbalancedEntryError is returned when debits and credits differ by more
// than BalanceTolerance
type UnbalancedEntryError struct {
	EntryNumber string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

func (e UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry %s is unbalanced: debit %s, credit %s",
		e.EntryNumber, e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

// Is matches any UnbalancedEntryError
func (e UnbalancedEntryError) Is(target error) bool {
	_, ok := target.(UnbalancedEntryError)
	return ok
}

// InvalidLineError describes a malformed line by its zero-based index
type InvalidLineError struct {
	Index  int
	Reason string
}

func (e InvalidLineError) Error() string {
	return fmt.Sprintf("invalid line %d: %s", e.Index+1, e.Reason)
}

// Is matches any InvalidLineError
func (e InvalidLineError) Is(target error) bool {
	_, ok := target.(InvalidLineError)
	return ok
}

// ErrEntryNotFound indicates missing journal entry
type ErrEntryNotFound struct {
	EntryNumber string
}

func (e ErrEntryNotFound) Error() string {
	return "journal entry not found: " + e.EntryNumber
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// An empty target number matches any ErrEntryNotFound
	if t.EntryNumber == "" {
		return true
	}
	return e.EntryNumber == t.EntryNumber
}

// ErrDuplicateEntry indicates entry number uniqueness violation
type ErrDuplicateEntry struct {
	EntryNumber string
}

func (e ErrDuplicateEntry) Error() string {
	return "duplicate journal entry: " + e.EntryNumber
}

// Is implements the errors.Is interface for ErrDuplicateEntry
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.EntryNumber == "" {
		return true
	}
	return e.EntryNumber == t.EntryNumber
}
