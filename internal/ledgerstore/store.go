// Package ledgerstore is the write and read path of the general ledger.
// Posting writes the entry, its lines and the outbox event in one database
// transaction; reads return a point-in-time snapshot.
package ledgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/outbox"
	"github.com/workshop-financial-engine/internal/domain/report"
)

// TxRunner runs fn in a database transaction, rolling back when it fails
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Store posts journal entries and serves ledger snapshots
type Store struct {
	db           TxRunner
	accounts     account.Repository
	entries      ledger.Repository
	outbox       outbox.Repository
	registryOpts []account.RegistryOption
	logger       *slog.Logger
}

// NewStore creates a ledger store. Registry options are applied to every
// registry the store builds from the chart of accounts.
func NewStore(
	db TxRunner,
	accounts account.Repository,
	entries ledger.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
	opts ...account.RegistryOption,
) *Store {
	return &Store{
		db:           db,
		accounts:     accounts,
		entries:      entries,
		outbox:       outboxRepo,
		registryOpts: opts,
		logger:       logger,
	}
}

// Registry loads the chart of accounts as it is now
func (s *Store) Registry(ctx context.Context) (*account.Registry, error) {
	return s.registry(ctx, s.accounts)
}

func (s *Store) registry(ctx context.Context, repo account.Repository) (*account.Registry, error) {
	accounts, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
	}
	return account.NewRegistry(accounts, s.registryOpts...), nil
}

// Post validates the request and records it atomically with its outbox event.
// An unbalanced request fails with ledger.UnbalancedEntryError and nothing is
// written. Unknown or inactive accounts fail with the account package errors.
func (s *Store) Post(ctx context.Context, req ledger.PostingRequest) (*ledger.JournalEntry, error) {
	entry, err := ledger.NewJournalEntry(req)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("entry_number", entry.EntryNumber)

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		registry, err := s.registry(ctx, s.accounts.WithTx(tx))
		if err != nil {
			return err
		}
		for _, line := range entry.Lines {
			if err := registry.CheckPostable(line.AccountCode); err != nil {
				return err
			}
		}

		if err := s.entries.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		message, err := outbox.NewMessage(entry)
		if err != nil {
			return fmt.Errorf("failed to build ledger event: %w", err)
		}
		return s.outbox.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		logger.Warn("Journal entry rejected", "error", err)
		return nil, err
	}

	logger.Info("Journal entry posted",
		"sequence", entry.Sequence,
		"total_amount", entry.TotalAmount.StringFixed(2),
		"lines", len(entry.Lines),
	)
	return entry, nil
}

// PostOnce posts the request unless an entry with the same reference or
// entry number already exists, in which case the existing entry is returned
// with posted=false
func (s *Store) PostOnce(ctx context.Context, req ledger.PostingRequest) (entry *ledger.JournalEntry, posted bool, err error) {
	if req.Reference != nil {
		existing, err := s.entries.FindByReference(ctx, req.Reference.Type, req.Reference.ID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	entry, err = s.Post(ctx, req)
	if errors.Is(err, ledger.ErrDuplicateEntry{}) {
		existing, getErr := s.entries.GetByNumber(ctx, req.EntryNumber)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// Reverse posts the offsetting entry for a posted one
func (s *Store) Reverse(ctx context.Context, entryNumber, reversalNumber string, date time.Time) (*ledger.JournalEntry, error) {
	original, err := s.entries.GetByNumber(ctx, entryNumber)
	if err != nil {
		return nil, err
	}
	return s.Post(ctx, ledger.ReversalRequest(original, reversalNumber, date))
}

// Entry returns a posted entry by number
func (s *Store) Entry(ctx context.Context, entryNumber string) (*ledger.JournalEntry, error) {
	return s.entries.GetByNumber(ctx, entryNumber)
}

// Query returns the lines dated in the period, ordered by entry date, entry
// sequence and line number
func (s *Store) Query(ctx context.Context, period report.Period) ([]ledger.PostedLine, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return s.entries.LinesBetween(ctx, period.Start, period.End)
}

// Snapshot reads every line dated up to end in one statement
func (s *Store) Snapshot(ctx context.Context, end time.Time) (ledger.Snapshot, error) {
	lines, err := s.entries.LinesBetween(ctx, time.Time{}, end)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	return ledger.NewSnapshot(ledger.DateOnly(end), lines), nil
}
