// Package ledger models double-entry journal entries. Entries are immutable
// once posted; corrections are new offsetting entries.
package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest accepted |Σdebit − Σcredit| of an entry
var BalanceTolerance = decimal.New(1, -2)

// Common errors
var (
	ErrEmptyEntryNumber = errors.New("entry number cannot be empty")
	ErrMissingEntryDate = errors.New("entry date is required")
	ErrTooFewLines      = errors.New("journal entry needs at least two lines")
)

// Direction is the side of the ledger a line posts to
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Reference links an entry to the business document that caused it
type Reference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Line is a single-sided posting to one account
type Line struct {
	LineNumber  int             `json:"line_number"`
	AccountCode string          `json:"account_code"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Description string          `json:"description,omitempty"`
}

// DebitAmount is the line amount when it is a debit, zero otherwise
func (l Line) DebitAmount() decimal.Decimal {
	if l.Direction == Debit {
		return l.Amount
	}
	return decimal.Zero
}

// CreditAmount is the line amount when it is a credit, zero otherwise
func (l Line) CreditAmount() decimal.Decimal {
	if l.Direction == Credit {
		return l.Amount
	}
	return decimal.Zero
}

// JournalEntry is a balanced set of lines posted on one date
type JournalEntry struct {
	ID          uuid.UUID       `json:"id"`
	Sequence    int64           `json:"sequence"`
	EntryNumber string          `json:"entry_number"`
	EntryDate   time.Time       `json:"entry_date"`
	Description string          `json:"description"`
	Reference   *Reference      `json:"reference,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []Line          `json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LineRequest is the external two-column line shape
type LineRequest struct {
	AccountCode  string          `json:"account_code"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Description  string          `json:"description,omitempty"`
}

// PostingRequest asks the ledger to record a new journal entry
type PostingRequest struct {
	EntryNumber string        `json:"entry_number"`
	EntryDate   time.Time     `json:"entry_date"`
	Description string        `json:"description"`
	Reference   *Reference    `json:"reference,omitempty"`
	Lines       []LineRequest `json:"lines"`
}

// NewJournalEntry validates a posting request and normalises its lines.
// A line must carry exactly one positive side; the entry must balance
// within BalanceTolerance.
func NewJournalEntry(req PostingRequest) (*JournalEntry, error) {
	number := strings.TrimSpace(req.EntryNumber)
	if number == "" {
		return nil, ErrEmptyEntryNumber
	}
	if req.EntryDate.IsZero() {
		return nil, ErrMissingEntryDate
	}
	if len(req.Lines) < 2 {
		return nil, ErrTooFewLines
	}

	lines := make([]Line, 0, len(req.Lines))
	debits, credits := decimal.Zero, decimal.Zero
	for i, lr := range req.Lines {
		line, err := normaliseLine(i, lr)
		if err != nil {
			return nil, err
		}
		if line.Direction == Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
		lines = append(lines, line)
	}

	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return nil, UnbalancedEntryError{EntryNumber: number, Debit: debits, Credit: credits}
	}

	return &JournalEntry{
		ID:          uuid.New(),
		EntryNumber: number,
		EntryDate:   DateOnly(req.EntryDate),
		Description: req.Description,
		Reference:   req.Reference,
		TotalAmount: debits,
		Lines:       lines,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func normaliseLine(i int, lr LineRequest) (Line, error) {
	code := strings.TrimSpace(lr.AccountCode)
	if code == "" {
		return Line{}, InvalidLineError{Index: i, Reason: "account code is required"}
	}
	if lr.DebitAmount.IsNegative() || lr.CreditAmount.IsNegative() {
		return Line{}, InvalidLineError{Index: i, Reason: "amounts cannot be negative"}
	}
	// amounts are stored as NUMERIC(20,2)
	if !lr.DebitAmount.Equal(lr.DebitAmount.Round(2)) || !lr.CreditAmount.Equal(lr.CreditAmount.Round(2)) {
		return Line{}, InvalidLineError{Index: i, Reason: "amounts cannot have more than 2 decimal places"}
	}

	hasDebit, hasCredit := lr.DebitAmount.IsPositive(), lr.CreditAmount.IsPositive()
	line := Line{LineNumber: i + 1, AccountCode: code, Description: lr.Description}
	switch {
	case hasDebit && hasCredit:
		return Line{}, InvalidLineError{Index: i, Reason: "line has both debit and credit amounts"}
	case hasDebit:
		line.Amount, line.Direction = lr.DebitAmount, Debit
	case hasCredit:
		line.Amount, line.Direction = lr.CreditAmount, Credit
	default:
		return Line{}, InvalidLineError{Index: i, Reason: "line has no amount"}
	}
	return line, nil
}

// ReversalRequest builds the offsetting request for a posted entry
func ReversalRequest(original *JournalEntry, entryNumber string, entryDate time.Time) PostingRequest {
	req := PostingRequest{
		EntryNumber: entryNumber,
		EntryDate:   entryDate,
		Description: "Reversal of " + original.EntryNumber,
		Reference:   &Reference{Type: "reversal", ID: original.EntryNumber},
		Lines:       make([]LineRequest, 0, len(original.Lines)),
	}
	for _, l := range original.Lines {
		lr := LineRequest{AccountCode: l.AccountCode, Description: l.Description}
		if l.Direction == Debit {
			lr.CreditAmount = l.Amount
		} else {
			lr.DebitAmount = l.Amount
		}
		req.Lines = append(req.Lines, lr)
	}
	return req
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
