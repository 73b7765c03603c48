// Package db defines the vector index storage contracts. The concrete
// implementation lives in db/redis; consumers depend on the narrow
// sub-interfaces only.
package db

import (
	"context"
	"time"
)

// Store is the main index-store facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks index store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Searcher provides vector similarity search over the product index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
