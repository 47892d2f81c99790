// Package mongo stores completed sales in MongoDB. Money fields are kept as
// Decimal128 so totals survive the round trip exactly.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workshop-financial-engine/internal/domain/sale"
)

const (
	// SaleCollectionName is the name of the sales collection in MongoDB
	SaleCollectionName = "sale_transactions"
)

type itemDocument struct {
	Type      string               `bson:"type"`
	Name      string               `bson:"name"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
	Quantity  int                  `bson:"qty"`
	Discount  primitive.Decimal128 `bson:"discount"`
}

type saleDocument struct {
	InvoiceNumber   string               `bson:"invoice_number"`
	Timestamp       time.Time            `bson:"timestamp"`
	CustomerName    string               `bson:"customer_name"`
	CustomerSegment string               `bson:"customer_segment"`
	Items           []itemDocument       `bson:"items"`
	Total           primitive.Decimal128 `bson:"total"`
	CorrelationID   string               `bson:"correlation_id,omitempty"`
	RecordedAt      time.Time            `bson:"recorded_at"`
}

// SaleRepository implements the sale.Repository interface for MongoDB
type SaleRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSaleRepository creates a new MongoDB sale repository
func NewSaleRepository(logger *slog.Logger, db *mongo.Database) *SaleRepository {
	return &SaleRepository{
		db:     db,
		logger: logger,
	}
}

var _ sale.Repository = (*SaleRepository)(nil)

// EnsureIndexes creates the unique invoice index and the timestamp index used
// by the analytics window queries
func (r *SaleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(SaleCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoice_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "timestamp", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create sale indexes: %w", err)
	}
	return nil
}

// Create stores a sale. A recorded invoice yields ErrDuplicateSale.
func (r *SaleRepository) Create(ctx context.Context, tx *sale.Transaction) error {
	doc, err := toDocument(tx)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(SaleCollectionName).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sale.ErrDuplicateSale{InvoiceNumber: tx.InvoiceNumber}
		}
		r.logger.Error("Failed to create sale",
			"invoice_number", tx.InvoiceNumber,
			"error", err)
		return fmt.Errorf("failed to create sale: %w", err)
	}

	return nil
}

// GetByInvoice retrieves a sale by invoice number
func (r *SaleRepository) GetByInvoice(ctx context.Context, invoiceNumber string) (*sale.Transaction, error) {
	var doc saleDocument
	err := r.db.Collection(SaleCollectionName).
		FindOne(ctx, bson.M{"invoice_number": invoiceNumber}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sale.ErrSaleNotFound{InvoiceNumber: invoiceNumber}
		}
		r.logger.Error("Failed to get sale",
			"invoice_number", invoiceNumber,
			"error", err)
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	return fromDocument(doc)
}

// GetByTimeRange retrieves paginated sales within the window, newest first
func (r *SaleRepository) GetByTimeRange(ctx context.Context, start, end time.Time, limit, offset int) ([]*sale.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, start, end, opts)
}

// ListByTimeRange returns every sale within the window, oldest first
func (r *SaleRepository) ListByTimeRange(ctx context.Context, start, end time.Time) ([]*sale.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	return r.find(ctx, start, end, opts)
}

func (r *SaleRepository) find(ctx context.Context, start, end time.Time, opts *options.FindOptions) ([]*sale.Transaction, error) {
	filter := bson.M{
		"timestamp": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}

	cursor, err := r.db.Collection(SaleCollectionName).Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get sales by time range",
			"start_time", start,
			"end_time", end,
			"error", err)
		return nil, fmt.Errorf("failed to get sales by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode sales",
			"start_time", start,
			"end_time", end,
			"error", err)
		return nil, fmt.Errorf("failed to decode sales: %w", err)
	}

	sales := make([]*sale.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		sales = append(sales, tx)
	}
	return sales, nil
}

func toDocument(tx *sale.Transaction) (saleDocument, error) {
	total, err := toDecimal128(tx.Total)
	if err != nil {
		return saleDocument{}, err
	}
	doc := saleDocument{
		InvoiceNumber:   tx.InvoiceNumber,
		Timestamp:       tx.Timestamp.UTC(),
		CustomerName:    tx.Customer.Name,
		CustomerSegment: string(tx.Segment()),
		Items:           make([]itemDocument, 0, len(tx.Items)),
		Total:           total,
		CorrelationID:   tx.CorrelationID,
		RecordedAt:      tx.RecordedAt.UTC(),
	}
	for _, item := range tx.Items {
		price, err := toDecimal128(item.UnitPrice)
		if err != nil {
			return saleDocument{}, err
		}
		discount, err := toDecimal128(item.Discount)
		if err != nil {
			return saleDocument{}, err
		}
		doc.Items = append(doc.Items, itemDocument{
			Type:      string(item.Type),
			Name:      item.Name,
			UnitPrice: price,
			Quantity:  item.Quantity,
			Discount:  discount,
		})
	}
	return doc, nil
}

func fromDocument(doc saleDocument) (*sale.Transaction, error) {
	total, err := fromDecimal128(doc.Total)
	if err != nil {
		return nil, err
	}
	tx := &sale.Transaction{
		InvoiceNumber: doc.InvoiceNumber,
		Timestamp:     doc.Timestamp.UTC(),
		Customer:      sale.Customer{Name: doc.CustomerName, Segment: sale.Segment(doc.CustomerSegment)},
		Items:         make([]sale.Item, 0, len(doc.Items)),
		Total:         total,
		CorrelationID: doc.CorrelationID,
		RecordedAt:    doc.RecordedAt.UTC(),
	}
	for _, item := range doc.Items {
		price, err := fromDecimal128(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		discount, err := fromDecimal128(item.Discount)
		if err != nil {
			return nil, err
		}
		tx.Items = append(tx.Items, sale.Item{
			Type:      sale.ItemType(item.Type),
			Name:      item.Name,
			UnitPrice: price,
			Quantity:  item.Quantity,
			Discount:  discount,
		})
	}
	return tx, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to encode amount %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode amount %s: %w", v.String(), err)
	}
	return d, nil
}
