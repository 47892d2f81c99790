// Package sale models completed point-of-sale transactions, the raw input of
// the time-series analytics and of automatic revenue postings.
package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/workshop-financial-engine/internal/domain/ledger"
)

// Segment is the customer category used for revenue splits
type Segment string

const (
	SegmentRetail    Segment = "retail"
	SegmentCorporate Segment = "corporate"
)

// Normalize maps unknown or empty segments to retail
func (s Segment) Normalize() Segment {
	if Segment(strings.ToLower(string(s))) == SegmentCorporate {
		return SegmentCorporate
	}
	return SegmentRetail
}

// ItemType distinguishes labour from parts
type ItemType string

const (
	ItemService ItemType = "service"
	ItemPart    ItemType = "part"
)

// Customer is the buyer as recorded on the invoice
type Customer struct {
	Name    string  `json:"name"`
	Segment Segment `json:"segment"`
}

// Item is one invoice line. Discount is an absolute amount.
type Item struct {
	Type      ItemType        `json:"type"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"qty"`
	Discount  decimal.Decimal `json:"discount"`
}

// Subtotal is unit price times quantity less discount
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Sub(i.Discount)
}

// Transaction is a completed sale
type Transaction struct {
	InvoiceNumber string          `json:"invoice_number"`
	Timestamp     time.Time       `json:"timestamp"`
	Customer      Customer        `json:"customer"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// InvalidSaleError describes why a sale was rejected
type InvalidSaleError struct {
	InvoiceNumber string
	Reason        string
}

func (e InvalidSaleError) Error() string {
	return fmt.Sprintf("invalid sale %s: %s", e.InvoiceNumber, e.Reason)
}

// Is matches any InvalidSaleError
func (e InvalidSaleError) Is(target error) bool {
	_, ok := target.(InvalidSaleError)
	return ok
}

// Validate checks the invoice header, every item and that the total equals
// the sum of item subtotals within the ledger balance tolerance
func (t *Transaction) Validate() error {
	invalid := func(format string, args ...any) error {
		return InvalidSaleError{InvoiceNumber: t.InvoiceNumber, Reason: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(t.InvoiceNumber) == "" {
		return invalid("invoice number is required")
	}
	if t.Timestamp.IsZero() {
		return invalid("timestamp is required")
	}
	if len(t.Items) == 0 {
		return invalid("at least one item is required")
	}

	sum := decimal.Zero
	for i, item := range t.Items {
		if item.Type != ItemService && item.Type != ItemPart {
			return invalid("item %d has unknown type %q", i+1, item.Type)
		}
		if item.Quantity <= 0 {
			return invalid("item %d quantity must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() || item.Discount.IsNegative() {
			return invalid("item %d amounts cannot be negative", i+1)
		}
		if item.Subtotal().IsNegative() {
			return invalid("item %d discount exceeds its price", i+1)
		}
		sum = sum.Add(item.Subtotal())
	}

	if t.Total.Sub(sum).Abs().GreaterThan(ledger.BalanceTolerance) {
		return invalid("total %s does not match item sum %s", t.Total.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}

// Segment returns the normalised customer segment
func (t *Transaction) Segment() Segment {
	return t.Customer.Segment.Normalize()
}

// Subtotals splits the invoice into labour and parts revenue
func (t *Transaction) Subtotals() (services, parts decimal.Decimal) {
	services, parts = decimal.Zero, decimal.Zero
	for _, item := range t.Items {
		if item.Type == ItemService {
			services = services.Add(item.Subtotal())
		} else {
			parts = parts.Add(item.Subtotal())
		}
	}
	return services, parts
}

// HasRevenue reports whether the invoice carries anything to post. A fully
// discounted sale is still a sale but produces no journal entry.
func (t *Transaction) HasRevenue() bool {
	services, parts := t.Subtotals()
	return services.Add(parts).IsPositive()
}

// PostingAccounts names the accounts a sale is posted to
type PostingAccounts struct {
	Cash           string
	ServiceRevenue string
	ProductRevenue string
}

// PostingRequest builds the revenue journal entry for the sale: cash is
// debited with the total, labour and parts revenue are credited separately.
func (t *Transaction) PostingRequest(accounts PostingAccounts, entryPrefix string) ledger.PostingRequest {
	services, parts := t.Subtotals()

	req := ledger.PostingRequest{
		EntryNumber: entryPrefix + t.InvoiceNumber,
		EntryDate:   t.Timestamp,
		Description: fmt.Sprintf("Sale %s to %s", t.InvoiceNumber, t.Customer.Name),
		Reference:   &ledger.Reference{Type: ReferenceType, ID: t.InvoiceNumber},
		Lines: []ledger.LineRequest{
			{AccountCode: accounts.Cash, DebitAmount: services.Add(parts), Description: "Cash received"},
		},
	}
	if services.IsPositive() {
		req.Lines = append(req.Lines, ledger.LineRequest{
			AccountCode: accounts.ServiceRevenue, CreditAmount: services, Description: "Service labor",
		})
	}
	if parts.IsPositive() {
		req.Lines = append(req.Lines, ledger.LineRequest{
			AccountCode: accounts.ProductRevenue, CreditAmount: parts, Description: "Parts sold",
		})
	}
	return req
}

// ReferenceType marks journal entries generated from sales
const ReferenceType = "sale"
