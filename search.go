package prodex

import (
	"context"
	"fmt"

	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/query"
	"github.com/supportly/prodex/internal/domain/search/result"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
	searchuc "github.com/supportly/prodex/internal/usecase/search"
)

// Sort orders for SearchRequest.SortBy. Empty selects the default ordering
// (featured first, then relevance, then effective price ascending).
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// SearchRequest is one retrieval query. All fields are optional; a zero
// request returns the default-ordered catalog page.
type SearchRequest struct {
	// Query is free text for semantic matching. Empty skips the semantic
	// tier entirely.
	Query string

	// Brand and Category are names from the controlled vocabulary.
	// Unknown names are rejected, not dropped.
	Brand    string
	Category string

	// BrandID and CategoryID filter directly by identifier and take
	// precedence over name lookups. Category filters include the
	// category's direct children.
	BrandID    *int64
	CategoryID *int64

	PriceMin *float64 // bounds compare the effective (sale-aware) price
	PriceMax *float64
	Size     string
	Color    string
	OnSale   *bool
	Featured *bool

	// SortBy is SortPriceAsc, SortPriceDesc or empty.
	SortBy string

	Limit  int // 1..50, default 10
	Offset int

	// DisableSemantic forces the structured path even for text queries.
	DisableSemantic bool
}

// Result is one ranked hit.
type Result struct {
	ID             string
	SKU            string
	Name           string
	Description    string
	Brand          string
	Category       string
	Price          float64
	SalePrice      *float64
	EffectivePrice float64
	IsOnSale       bool
	IsFeatured     bool
	Sizes          []string
	Colors         []string
	Images         []string

	// Relevance is the semantic similarity in [0, 1], nil for hits that
	// came through a non-semantic tier.
	Relevance *float64
}

// SearchResponse is the retrieval outcome. Total counts all matches before
// pagination.
type SearchResponse struct {
	Results []Result
	Total   int

	// Tier names the tier that produced the rows, e.g. "semantic+structured"
	// or "fallback".
	Tier string

	// Degraded is true when a backend failure forced the snapshot tier.
	Degraded bool
}

// Search runs one query through the degradation ladder. It returns an error
// only for invalid input (domain.ErrInvalidFilter unwraps from it); backend
// failures degrade to lower tiers instead.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	order, err := parseSort(req.SortBy)
	if err != nil {
		return nil, err
	}

	f, err := filter.New(
		req.CategoryID, req.BrandID,
		req.PriceMin, req.PriceMax,
		req.Size, req.Color,
		req.OnSale, req.Featured,
	)
	if err != nil {
		return nil, err
	}

	q, err := query.New(req.Query, f, order, req.Limit, req.Offset, !req.DisableSemantic)
	if err != nil {
		return nil, err
	}

	resp, err := c.searchSvc.Search(ctx, searchuc.Request{
		Query:    q,
		Brand:    req.Brand,
		Category: req.Category,
	})
	if err != nil {
		return nil, err
	}

	return &SearchResponse{
		Results:  toResults(resp.Results),
		Total:    resp.Total,
		Tier:     resp.Tier,
		Degraded: resp.Degraded,
	}, nil
}

func parseSort(s string) (sortorder.Order, error) {
	switch s {
	case "":
		return sortorder.Default, nil
	case SortPriceAsc:
		return sortorder.PriceAsc, nil
	case SortPriceDesc:
		return sortorder.PriceDesc, nil
	default:
		return "", fmt.Errorf("prodex: unknown sort order %q", s)
	}
}

func toResults(ranked []result.Ranked) []Result {
	out := make([]Result, len(ranked))
	for i := range ranked {
		out[i] = toResult(&ranked[i])
	}
	return out
}

func toResult(r *result.Ranked) Result {
	res := toProductResult(r.Product(), r.BrandName(), r.CategoryName())
	res.Relevance = r.Relevance()
	return res
}

func toProductResult(p domain.Product, brand, category string) Result {
	return Result{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Brand:          brand,
		Category:       category,
		Price:          p.Price,
		SalePrice:      p.SalePrice,
		EffectivePrice: p.EffectivePrice(),
		IsOnSale:       p.IsOnSale,
		IsFeatured:     p.IsFeatured,
		Sizes:          p.Attributes.Sizes,
		Colors:         p.Attributes.Colors,
		Images:         p.Images,
	}
}
