package search

import (
	"context"

	"github.com/supportly/prodex/internal/db"
	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/candidate"
	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/query"
	"github.com/supportly/prodex/internal/domain/search/result"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
	"github.com/supportly/prodex/internal/lexicon"
)

// SemanticRepo generates ranked candidates from query text. Failures surface
// as domain.ErrIndexUnavailable.
type SemanticRepo interface {
	Search(ctx context.Context, text string, hint db.TagHint, limit int) ([]candidate.Candidate, error)
}

// ProductsRepo is the structured store tier. Connectivity failures surface
// as domain.ErrStoreUnavailable and never as partial rows.
type ProductsRepo interface {
	FilterSearch(ctx context.Context, text string, f filter.Set, order sortorder.Order, fetchLimit int) ([]domain.Product, int, error)
	FilterByIDs(ctx context.Context, f filter.Set, ids []string) ([]domain.Product, error)
	BrandByName(ctx context.Context, name string) (domain.Brand, error)
	CategoryByName(ctx context.Context, name string) (domain.Category, error)
}

// FallbackRepo is the in-memory terminal tier. It never fails.
type FallbackRepo interface {
	Search(ctx context.Context, text string, f filter.Set, restrictTo []string) []domain.Product
	BrandName(id int64) string
	CategoryName(id int64) string
	Lexicon() *lexicon.Lexicon
}

// Request is one search invocation. Brand and Category are names from the
// controlled vocabulary; unknown names are rejected with
// domain.ErrInvalidFilter rather than silently dropped.
type Request struct {
	Query    query.Query
	Brand    string
	Category string
}

// Response is the search outcome. The ladder guarantees a response for every
// well-formed request, worst case an empty result set.
type Response struct {
	Results []result.Ranked
	Total   int
	// Tier names the tier that produced the rows: "structured" or
	// "fallback", with a "semantic+" prefix when candidates narrowed it.
	Tier     string
	Degraded bool
}
