package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/supportly/prodex/internal/db"
	"github.com/supportly/prodex/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, time.Hour, nil, zap.NewNop())
	return ce, ms
}
