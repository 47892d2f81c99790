package sale

import (
	"context"
	"time"
)

// Repository stores completed sales for analytics
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByInvoice(ctx context.Context, invoiceNumber string) (*Transaction, error)
	// GetByTimeRange pages through sales in [start, end], newest first
	GetByTimeRange(ctx context.Context, start, end time.Time, limit, offset int) ([]*Transaction, error)
	// ListByTimeRange returns every sale in [start, end], oldest first
	ListByTimeRange(ctx context.Context, start, end time.Time) ([]*Transaction, error)
}

// ErrSaleNotFound indicates an unknown invoice number
type ErrSaleNotFound struct {
	InvoiceNumber string
}

func (e ErrSaleNotFound) Error() string {
	return "sale not found: " + e.InvoiceNumber
}

// Is matches any ErrSaleNotFound when the target invoice is empty
func (e ErrSaleNotFound) Is(target error) bool {
	t, ok := target.(ErrSaleNotFound)
	if !ok {
		return false
	}
	return t.InvoiceNumber == "" || t.InvoiceNumber == e.InvoiceNumber
}

// ErrDuplicateSale indicates the invoice was already recorded
type ErrDuplicateSale struct {
	InvoiceNumber string
}

func (e ErrDuplicateSale) Error() string {
	return "duplicate sale: " + e.InvoiceNumber
}

// Is matches any ErrDuplicateSale when the target invoice is empty
func (e ErrDuplicateSale) Is(target error) bool {
	t, ok := target.(ErrDuplicateSale)
	if !ok {
		return false
	}
	return t.InvoiceNumber == "" || t.InvoiceNumber == e.InvoiceNumber
}
