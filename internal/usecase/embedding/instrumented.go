// Package embedding wraps the embedding provider chain with logging.
// Transport metrics (requests, duration) are recorded in transport/openai;
// this layer owns request logging only.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/supportly/prodex/internal/domain"
)

// InstrumentedEmbedder wraps an Embedder with logging.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
func NewInstrumentedEmbedder(inner domain.Embedder, provider, model string, logger *zap.Logger) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Embed delegates to the inner embedder and logs the outcome.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	p.logger.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}
