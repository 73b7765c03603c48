// Package semantic implements the candidate-generation tier: it embeds the
// query text and runs a KNN search over the product vector index. Any
// provider or index failure surfaces as domain.ErrIndexUnavailable so the
// orchestrator can fall back to structured-only retrieval.
package semantic

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/supportly/prodex/internal/db"
	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/candidate"
	"github.com/supportly/prodex/internal/lexicon"
)

// DefaultHardCap bounds how many neighbors one query may request from the
// index regardless of the widening multiplier.
const DefaultHardCap = 60

var (
	indexName = domain.KeyPrefix + "products:idx"
	keyPrefix = domain.KeyPrefix + "product:"
)

// searcher is the consumer interface for KNN search (ISP).
type searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo turns query text into ranked product candidates.
type Repo struct {
	embedder domain.Embedder
	store    searcher
	hardCap  int
	logger   *zap.Logger
}

// New creates a semantic repository. hardCap <= 0 selects DefaultHardCap.
func New(embedder domain.Embedder, store searcher, hardCap int, logger *zap.Logger) *Repo {
	if hardCap <= 0 {
		hardCap = DefaultHardCap
	}
	return &Repo{
		embedder: embedder,
		store:    store,
		hardCap:  hardCap,
		logger:   logger,
	}
}

// Search embeds the query and returns up to limit*3 candidates (capped) in
// index rank order. Short generic queries get a domain term appended before
// embedding to improve recall; the heuristic never changes filtering.
func (r *Repo) Search(ctx context.Context, text string, hint db.TagHint, limit int) ([]candidate.Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	searchText := text
	if lexicon.NeedsAugment(text) {
		searchText = text + " " + lexicon.AugmentTerm
		r.logger.Debug("Augmented short query",
			zap.String("query", text),
			zap.String("augmented", searchText),
		)
	}

	emb, err := r.embedder.Embed(ctx, searchText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %v", domain.ErrIndexUnavailable, err)
	}

	k := limit * 3
	if k > r.hardCap {
		k = r.hardCap
	}
	if k <= 0 {
		k = r.hardCap
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: indexName,
		Hint:      hint,
		Vector:    emb.Embedding,
		K:         k,
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w: %v", domain.ErrIndexUnavailable, err)
	}

	cands := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id := strings.TrimPrefix(e.Key, keyPrefix)
		cands = append(cands, candidate.New(id, roundScore(1-e.Distance)))
	}

	r.logger.Debug("Semantic search completed",
		zap.String("query", searchText),
		zap.Int("k", k),
		zap.Int("candidates", len(cands)),
	)
	return cands, nil
}

// roundScore converts an index distance complement to a two-decimal
// relevance score.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
