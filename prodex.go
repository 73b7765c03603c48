// Package prodex is a hybrid product retrieval engine. It combines semantic
// vector search over a Redis index with structured SQL filtering, and keeps
// answering from an in-memory catalog snapshot when either backend is down.
package prodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/supportly/prodex/internal/catalog"
	"github.com/supportly/prodex/internal/config"
	"github.com/supportly/prodex/internal/db"
	dbRedis "github.com/supportly/prodex/internal/db/redis"
	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/metrics"
	"github.com/supportly/prodex/internal/repository/embcache"
	productsrepo "github.com/supportly/prodex/internal/repository/products"
	semanticrepo "github.com/supportly/prodex/internal/repository/semantic"
	snapshotrepo "github.com/supportly/prodex/internal/repository/snapshot"
	openaiEmb "github.com/supportly/prodex/internal/transport/openai"
	embeddinguc "github.com/supportly/prodex/internal/usecase/embedding"
	productuc "github.com/supportly/prodex/internal/usecase/product"
	searchuc "github.com/supportly/prodex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the prodex entry point.
type Client struct {
	store      db.Store
	gdb        *gorm.DB
	ownsDB     bool
	searchSvc  *searchuc.Service
	productSvc *productuc.Service
	logger     *zap.Logger
}

// New creates a prodex Client, connects to both stores and loads the
// fallback snapshot. The snapshot is mandatory: without it the engine
// cannot honor its answer-under-failure guarantee.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		model:            "text-embedding-3-small",
		dimensions:       1536,
		embedCacheTTL:    time.Hour,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.redisAddrs) == 0 {
		return nil, errors.New("prodex: redis address required (use WithRedis)")
	}
	if cfg.postgresDSN == "" && cfg.gormDB == nil {
		return nil, errors.New("prodex: postgres connection required (use WithPostgres)")
	}
	if cfg.embedder == nil && cfg.openAIKey == "" {
		return nil, errors.New("prodex: embedding provider required (use WithOpenAI or WithEmbedder)")
	}
	if cfg.snapshotPath == "" && len(cfg.snapshotData) == 0 {
		return nil, errors.New("prodex: catalog snapshot required (use WithSnapshotFile)")
	}

	snap, err := loadSnapshot(cfg)
	if err != nil {
		return nil, fmt.Errorf("prodex: load snapshot: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.redisAddrs,
		Username: cfg.redisUsername,
		Password: cfg.redisPassword,
		DB:       cfg.redisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("prodex: create redis store: %w", err)
	}

	if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
		// Degraded but serviceable: the ladder will route around the
		// index until it comes back.
		cfg.logger.Warn("semantic index not ready, starting degraded", zap.Error(err))
	}

	gdb, ownsDB, err := openGorm(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return wireClient(store, gdb, ownsDB, snap, cfg), nil
}

func loadSnapshot(cfg *clientConfig) (*catalog.Snapshot, error) {
	if len(cfg.snapshotData) > 0 {
		return catalog.Load(cfg.snapshotData)
	}
	return catalog.LoadFile(cfg.snapshotPath)
}

func openGorm(cfg *clientConfig) (*gorm.DB, bool, error) {
	if cfg.gormDB != nil {
		return cfg.gormDB, false, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.postgresDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, false, fmt.Errorf("prodex: open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, false, fmt.Errorf("prodex: postgres pool: %w", err)
	}
	maxOpen, maxIdle, maxLife := cfg.maxOpenConns, cfg.maxIdleConns, cfg.connMaxLife
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if maxIdle <= 0 {
		maxIdle = 5
	}
	if maxLife <= 0 {
		maxLife = 30 * time.Minute
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLife)

	return gdb, true, nil
}

func wireClient(store db.Store, gdb *gorm.DB, ownsDB bool, snap *catalog.Snapshot, cfg *clientConfig) *Client {
	embedder := buildEmbedder(store, cfg)

	semRepo := semanticrepo.New(embedder, store, cfg.hardCap, cfg.logger)
	prodRepo := productsrepo.New(gdb)
	fbRepo := snapshotrepo.New(snap)

	return &Client{
		store:      store,
		gdb:        gdb,
		ownsDB:     ownsDB,
		searchSvc:  searchuc.New(semRepo, prodRepo, fbRepo, cfg.tierWait, cfg.logger),
		productSvc: productuc.NewService(prodRepo, fbRepo, cfg.logger),
		logger:     cfg.logger,
	}
}

// buildEmbedder assembles the decorator chain: provider -> cached -> instrumented.
func buildEmbedder(store db.Store, cfg *clientConfig) domain.Embedder {
	provider := "openai"

	var base domain.Embedder
	if cfg.embedder != nil {
		provider = "custom"
		base = &embedderAdapter{inner: cfg.embedder}
	} else {
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBase,
			Model:      cfg.model,
			Dimensions: cfg.dimensions,
			Provider:   provider,
			Logger:     cfg.logger,
		})
	}

	cached := embcache.New(base, store, cfg.embedCacheTTL, metrics.EmbeddingCacheTotal, cfg.logger)
	return embeddinguc.NewInstrumentedEmbedder(cached, provider, cfg.model, cfg.logger)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.ownsDB && c.gdb != nil {
		if sqlDB, err := c.gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// Ping checks connectivity of both backends. The engine still answers
// queries when either is down; Ping exists for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping index: %w", err)
	}
	sqlDB, err := c.gdb.DB()
	if err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

// FromConfig converts a loaded configuration into client options.
func FromConfig(cfg config.Config, logger *zap.Logger) []Option {
	opts := []Option{
		WithRedis(cfg.Database.Addrs[0], cfg.Database.Password),
		WithRedisAuth(cfg.Database.Username, cfg.Database.DB),
		WithPostgres(cfg.Postgres.DSN),
		WithPostgresPool(
			cfg.Postgres.MaxOpenConns,
			cfg.Postgres.MaxIdleConns,
			time.Duration(cfg.Postgres.ConnMaxLifeSec)*time.Second,
		),
		WithOpenAI(cfg.Embedding.APIKey, cfg.Embedding.BaseURL),
		WithEmbeddingModel(cfg.Embedding.Model, cfg.Embedding.Dimensions),
		WithEmbeddingCacheTTL(time.Duration(cfg.Embedding.CacheTTLSec) * time.Second),
		WithSnapshotFile(cfg.Snapshot.Path),
		WithHardCap(cfg.Search.HardCap),
		WithTierWait(time.Duration(cfg.Search.TierWaitMS) * time.Millisecond),
		WithReadinessTimeout(time.Duration(cfg.Database.ReadinessTimeout) * time.Second),
		WithLogger(logger),
	}
	return opts
}

// embedderAdapter wraps a public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}
