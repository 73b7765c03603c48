package prodex

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Embedder turns query text into a vector. Implement it to plug in a
// provider other than the built-in OpenAI-compatible one.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	redisAddrs    []string
	redisUsername string
	redisPassword string
	redisDB       int

	postgresDSN  string
	gormDB       *gorm.DB
	maxOpenConns int
	maxIdleConns int
	connMaxLife  time.Duration

	embedder      Embedder
	openAIKey     string
	openAIBase    string
	model         string
	dimensions    int
	embedCacheTTL time.Duration

	snapshotPath string
	snapshotData []byte

	hardCap  int
	tierWait time.Duration

	readinessTimeout time.Duration
	logger           *zap.Logger
}

// WithRedis configures the semantic index connection.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithRedisAuth sets the ACL username and logical database.
func WithRedisAuth(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisUsername = username
		c.redisDB = db
	})
}

// WithPostgres configures the structured store connection.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresDSN = dsn
	})
}

// WithPostgresPool tunes the connection pool. Zero values keep the defaults
// (10 open, 5 idle, 30 minute lifetime).
func WithPostgresPool(maxOpen, maxIdle int, maxLife time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxOpenConns = maxOpen
		c.maxIdleConns = maxIdle
		c.connMaxLife = maxLife
	})
}

// WithGorm injects an existing database handle instead of opening one from
// a DSN. Intended for tests.
func WithGorm(db *gorm.DB) Option {
	return optionFunc(func(c *clientConfig) {
		c.gormDB = db
	})
}

// WithOpenAI configures the built-in OpenAI-compatible embedding provider.
// baseURL may be empty for the default endpoint.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIBase = baseURL
	})
}

// WithEmbeddingModel sets the embedding model and its vector dimensions.
// Defaults to text-embedding-3-small at 1536 dimensions.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.model = model
		c.dimensions = dimensions
	})
}

// WithEmbedder sets a custom embedding provider, replacing the built-in one.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithEmbeddingCacheTTL sets how long query embeddings stay cached.
// Default: one hour.
func WithEmbeddingCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedCacheTTL = ttl
	})
}

// WithSnapshotFile loads the fallback catalog snapshot from a JSON file.
func WithSnapshotFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.snapshotPath = path
	})
}

// WithSnapshot loads the fallback catalog snapshot from raw JSON.
func WithSnapshot(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.snapshotData = data
	})
}

// WithHardCap bounds the widened semantic candidate fetch. Default: 60.
func WithHardCap(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hardCap = n
	})
}

// WithTierWait bounds each remote retrieval tier. Zero (the default)
// disables per-tier timeouts; the request deadline still applies.
func WithTierWait(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.tierWait = d
	})
}

// WithReadinessTimeout bounds the initial index-store readiness wait.
// Default: 10 seconds.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
