// Package redis caches computed report documents. The cache is never a source
// of truth: keys carry the ledger version, so a new posting simply misses.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/workshop-financial-engine/internal/domain/report"
)

// commander is the subset of redis.UniversalClient the cache needs
type commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SnapshotCache implements report.SnapshotCache on Redis
type SnapshotCache struct {
	client commander
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache creates a cache writing keys under prefix with the given TTL
func NewSnapshotCache(logger *slog.Logger, client redis.UniversalClient, prefix string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

var _ report.SnapshotCache = (*SnapshotCache)(nil)

// Get returns the cached document, or nil on a miss
func (c *SnapshotCache) Get(ctx context.Context, key string) (*report.Document, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report snapshot: %w", err)
	}

	var doc report.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// a corrupt entry is treated as a miss and overwritten on the next Set
		c.logger.Warn("Discarding unreadable report snapshot", "key", key, "error", err)
		return nil, nil
	}
	return &doc, nil
}

// Set stores the document under key
func (c *SnapshotCache) Set(ctx context.Context, key string, doc *report.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report snapshot: %w", err)
	}
	return nil
}
