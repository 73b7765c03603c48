// Package result holds the ranked search hit returned to callers.
package result

import "github.com/supportly/prodex/internal/domain"

// Ranked is a product enriched with resolved brand and category names and,
// when it came through the semantic tier, a relevance score.
type Ranked struct {
	product      domain.Product
	brandName    string
	categoryName string
	relevance    *float64
}

// New creates a ranked result. relevance is nil for hits that never passed
// through the semantic tier.
func New(p domain.Product, brandName, categoryName string, relevance *float64) Ranked {
	return Ranked{
		product:      p,
		brandName:    brandName,
		categoryName: categoryName,
		relevance:    relevance,
	}
}

// Product returns the underlying catalog product.
func (r *Ranked) Product() domain.Product { return r.product }

// ID returns the product identifier.
func (r *Ranked) ID() string { return r.product.ID }

// BrandName returns the resolved brand name, empty when unresolved.
func (r *Ranked) BrandName() string { return r.brandName }

// CategoryName returns the resolved category name, empty when unresolved.
func (r *Ranked) CategoryName() string { return r.categoryName }

// Relevance returns the semantic relevance score, nil for structured-only hits.
func (r *Ranked) Relevance() *float64 { return r.relevance }

// EffectivePrice returns the price the product currently sells at.
func (r *Ranked) EffectivePrice() float64 { return r.product.EffectivePrice() }
