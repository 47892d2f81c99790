package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/platform/persistence"
)

// JournalRepository implements the ledger.Repository interface for PostgreSQL.
// Entries and lines are only ever inserted.
type JournalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewJournalRepository creates a new PostgreSQL journal repository
func NewJournalRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &JournalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction. Create must run inside one
// so that the entry and its lines are written together.
func (r *JournalRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &JournalRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts the entry header and its lines and assigns entry.Sequence
func (r *JournalRepository) Create(ctx context.Context, entry *ledger.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, entry_number, entry_date, description, reference_type, reference_id, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING sequence
	`

	refType, refID := referenceArgs(entry.Reference)
	err := r.querier.QueryRow(ctx, query,
		entry.ID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		refType,
		refID,
		entry.TotalAmount,
		entry.CreatedAt,
	).Scan(&entry.Sequence)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateEntry{EntryNumber: entry.EntryNumber}
		}
		r.logger.Error("Failed to create journal entry", "entry_number", entry.EntryNumber, "error", err)
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_lines (entry_id, line_number, account_code, amount, direction, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, line := range entry.Lines {
		if _, err := r.querier.Exec(ctx, lineQuery,
			entry.ID,
			line.LineNumber,
			line.AccountCode,
			line.Amount,
			line.Direction,
			line.Description,
		); err != nil {
			r.logger.Error("Failed to create journal line",
				"entry_number", entry.EntryNumber,
				"line_number", line.LineNumber,
				"error", err,
			)
			return fmt.Errorf("failed to create journal line %d: %w", line.LineNumber, err)
		}
	}

	return nil
}

// GetByNumber loads an entry with its lines
func (r *JournalRepository) GetByNumber(ctx context.Context, entryNumber string) (*ledger.JournalEntry, error) {
	query := `
		SELECT id, sequence, entry_number, entry_date, description, reference_type, reference_id, total_amount, created_at
		FROM journal_entries
		WHERE entry_number = $1
	`

	entry, err := r.getEntry(ctx, query, entryNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrEntryNotFound{EntryNumber: entryNumber}
		}
		return nil, err
	}
	return entry, nil
}

// FindByReference returns the entry posted for a business document, or nil
func (r *JournalRepository) FindByReference(ctx context.Context, refType, refID string) (*ledger.JournalEntry, error) {
	query := `
		SELECT id, sequence, entry_number, entry_date, description, reference_type, reference_id, total_amount, created_at
		FROM journal_entries
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY sequence
		LIMIT 1
	`

	entry, err := r.getEntry(ctx, query, refType, refID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// LinesBetween reads every line dated in [start, end] joined with its entry
// header and account, in one statement so the result is a consistent cut.
// Ordered by entry date, entry sequence and line number.
func (r *JournalRepository) LinesBetween(ctx context.Context, start, end time.Time) ([]ledger.PostedLine, error) {
	query := `
		SELECT e.id, e.sequence, e.entry_number, e.entry_date, a.name, a.type,
		       l.line_number, l.account_code, l.amount, l.direction, l.description
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		JOIN accounts a ON a.code = l.account_code
		WHERE ($1::date IS NULL OR e.entry_date >= $1) AND e.entry_date <= $2
		ORDER BY e.entry_date, e.sequence, l.line_number
	`

	var startArg any
	if !start.IsZero() {
		startArg = ledger.DateOnly(start)
	}

	rows, err := r.querier.Query(ctx, query, startArg, ledger.DateOnly(end))
	if err != nil {
		r.logger.Error("Failed to query ledger lines", "error", err)
		return nil, fmt.Errorf("failed to query ledger lines: %w", err)
	}
	defer rows.Close()

	lines := []ledger.PostedLine{}
	for rows.Next() {
		var pl ledger.PostedLine
		if err := rows.Scan(
			&pl.EntryID,
			&pl.EntrySequence,
			&pl.EntryNumber,
			&pl.EntryDate,
			&pl.AccountName,
			&pl.AccountType,
			&pl.LineNumber,
			&pl.AccountCode,
			&pl.Amount,
			&pl.Direction,
			&pl.Description,
		); err != nil {
			r.logger.Error("Failed to scan ledger line", "error", err)
			return nil, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		pl.EntryDate = pl.EntryDate.UTC()
		lines = append(lines, pl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over ledger lines: %w", err)
	}

	return lines, nil
}

func (r *JournalRepository) getEntry(ctx context.Context, query string, args ...any) (*ledger.JournalEntry, error) {
	var (
		entry          ledger.JournalEntry
		refType, refID *string
	)
	err := r.querier.QueryRow(ctx, query, args...).Scan(
		&entry.ID,
		&entry.Sequence,
		&entry.EntryNumber,
		&entry.EntryDate,
		&entry.Description,
		&refType,
		&refID,
		&entry.TotalAmount,
		&entry.CreatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("Failed to get journal entry", "error", err)
			return nil, fmt.Errorf("failed to get journal entry: %w", err)
		}
		return nil, err
	}
	if refType != nil && refID != nil {
		entry.Reference = &ledger.Reference{Type: *refType, ID: *refID}
	}
	entry.EntryDate = entry.EntryDate.UTC()

	lines, err := r.entryLines(ctx, &entry)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

func (r *JournalRepository) entryLines(ctx context.Context, entry *ledger.JournalEntry) ([]ledger.Line, error) {
	query := `
		SELECT line_number, account_code, amount, direction, description
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_number
	`

	rows, err := r.querier.Query(ctx, query, entry.ID)
	if err != nil {
		r.logger.Error("Failed to get journal lines", "entry_number", entry.EntryNumber, "error", err)
		return nil, fmt.Errorf("failed to get journal lines: %w", err)
	}
	defer rows.Close()

	var lines []ledger.Line
	for rows.Next() {
		var l ledger.Line
		if err := rows.Scan(&l.LineNumber, &l.AccountCode, &l.Amount, &l.Direction, &l.Description); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over journal lines: %w", err)
	}
	return lines, nil
}

func referenceArgs(ref *ledger.Reference) (*string, *string) {
	if ref == nil {
		return nil, nil
	}
	return &ref.Type, &ref.ID
}
