package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentVersion is the schema version of published report documents
const DocumentVersion = "v1"

// Document is the flat, versioned JSON envelope for a computed statement
type Document struct {
	Version       string          `json:"version"`
	Type          Type            `json:"type"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	LedgerVersion int64           `json:"ledger_version"`
	GeneratedAt   time.Time       `json:"generated_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewDocument marshals a statement into a document
func NewDocument(t Type, period Period, ledgerVersion int64, statement any) (*Document, error) {
	payload, err := json.Marshal(statement)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s statement: %w", t, err)
	}
	return &Document{
		Version:       DocumentVersion,
		Type:          t,
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		LedgerVersion: ledgerVersion,
		GeneratedAt:   time.Now().UTC(),
		Payload:       payload,
	}, nil
}

// SnapshotCache stores computed documents by content key
type SnapshotCache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, key string) (*Document, error)
	Set(ctx context.Context, key string, doc *Document) error
}

// CacheKey derives the snapshot key from everything a statement depends on
func CacheKey(t Type, period Period, ledgerDigest string, registryFingerprint string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s",
		DocumentVersion, t,
		period.Start.UTC().Format(time.DateOnly),
		period.End.UTC().Format(time.DateOnly),
		ledgerDigest, registryFingerprint)
	return hex.EncodeToString(h.Sum(nil))
}
