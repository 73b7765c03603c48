// Package openai adapts an OpenAI-compatible embeddings API to
// domain.Embedder.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/metrics"
)

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	provider   string
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Provider   string
	Logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		provider:   cfg.Provider,
		logger:     cfg.Logger,
	}
}

// Embed implements domain.Embedder. Returns the vector and usage with
// transport-level metrics.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, string(e.model)).Observe(duration.Seconds())

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response. All
// errors are wrapped with domain.ErrEmbeddingProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
