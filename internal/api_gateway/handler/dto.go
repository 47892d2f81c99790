package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is the wire format of every date-only query and body field
const dateLayout = time.DateOnly

// CreateAccountRequest represents a request to add an account to the chart
type CreateAccountRequest struct {
	Code       string `json:"code" binding:"required,numeric"`
	Name       string `json:"name" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=asset liability equity revenue expense"`
	ParentCode string `json:"parent_code" binding:"omitempty,numeric"`
}

// SetAccountStatusRequest activates or deactivates an account
type SetAccountStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ParentCode string `json:"parent_code,omitempty"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
}

// AccountListResponse represents the chart of accounts in API responses
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// JournalLineRequest is one two-column line of a manual journal entry
type JournalLineRequest struct {
	AccountCode  string          `json:"account_code" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Description  string          `json:"description"`
}

// ReferenceRequest links an entry to its source document
type ReferenceRequest struct {
	Type string `json:"type" binding:"required"`
	ID   string `json:"id" binding:"required"`
}

// CreateJournalEntryRequest represents a request to post a journal entry
type CreateJournalEntryRequest struct {
	EntryNumber string               `json:"entry_number" binding:"required,max=64"`
	EntryDate   string               `json:"entry_date" binding:"required"`
	Description string               `json:"description"`
	Reference   *ReferenceRequest    `json:"reference"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest represents a request to reverse a posted entry.
// Both fields are optional.
type ReverseEntryRequest struct {
	ReversalNumber string `json:"reversal_number" binding:"max=64"`
	EntryDate      string `json:"entry_date"`
}

// JournalLineResponse is a line in two-column form
type JournalLineResponse struct {
	LineNumber   int    `json:"line_number"`
	AccountCode  string `json:"account_code"`
	DebitAmount  string `json:"debit_amount"`
	CreditAmount string `json:"credit_amount"`
	Description  string `json:"description,omitempty"`
}

// JournalEntryResponse represents a posted journal entry in API responses
type JournalEntryResponse struct {
	ID            string                `json:"id"`
	Sequence      int64                 `json:"sequence"`
	EntryNumber   string                `json:"entry_number"`
	EntryDate     string                `json:"entry_date"`
	Description   string                `json:"description"`
	ReferenceType string                `json:"reference_type,omitempty"`
	ReferenceID   string                `json:"reference_id,omitempty"`
	TotalAmount   string                `json:"total_amount"`
	Lines         []JournalLineResponse `json:"lines"`
	CreatedAt     string                `json:"created_at"`
}

// PostedLineResponse is a ledger line with its entry header and account
type PostedLineResponse struct {
	EntryNumber  string `json:"entry_number"`
	EntryDate    string `json:"entry_date"`
	LineNumber   int    `json:"line_number"`
	AccountCode  string `json:"account_code"`
	AccountName  string `json:"account_name"`
	AccountType  string `json:"account_type"`
	DebitAmount  string `json:"debit_amount"`
	CreditAmount string `json:"credit_amount"`
	Description  string `json:"description,omitempty"`
}

// SaleItemRequest is one invoice line
type SaleItemRequest struct {
	Type      string          `json:"type" binding:"required,oneof=service part"`
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"qty" binding:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"`
}

// SubmitSaleRequest represents a completed sale to be posted
type SubmitSaleRequest struct {
	InvoiceNumber   string            `json:"invoice_number" binding:"required,max=64"`
	Timestamp       time.Time         `json:"timestamp" binding:"required"`
	CustomerName    string            `json:"customer_name"`
	CustomerSegment string            `json:"customer_segment" binding:"omitempty,oneof=retail corporate"`
	Items           []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Total           decimal.Decimal   `json:"total"`
}

// SaleAcceptedResponse acknowledges a sale queued for posting
type SaleAcceptedResponse struct {
	EventID       string `json:"event_id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	AcceptedAt    string `json:"accepted_at"`
}

// PeriodQuery is the date range of report and ledger queries
type PeriodQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// AnalyticsQuery parameterises the analytics endpoints. Zero means the
// configured default.
type AnalyticsQuery struct {
	Months  int `form:"months" binding:"min=0,max=120"`
	Horizon int `form:"horizon" binding:"min=0,max=24"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=100" binding:"min=1,max=1000"`
}
