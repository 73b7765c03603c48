// Package snapshot implements the in-memory fallback tier over the catalog
// snapshot. It is pure in-process computation and never fails; it is the
// terminal rung of the degradation ladder.
package snapshot

import (
	"context"
	"sort"
	"strings"

	"github.com/supportly/prodex/internal/catalog"
	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/lexicon"
)

// Repo serves exact filtering and lexical matching from the snapshot.
type Repo struct {
	snap *catalog.Snapshot
	lex  *lexicon.Lexicon
}

// New creates the fallback repository over a loaded snapshot.
func New(snap *catalog.Snapshot) *Repo {
	return &Repo{
		snap: snap,
		lex:  lexicon.New(snap.Brands(), snap.Categories(), snap.Products()),
	}
}

// Lexicon exposes the vocabulary built from the snapshot.
func (r *Repo) Lexicon() *lexicon.Lexicon { return r.lex }

// Search returns every product matching the query text and filters. When
// restrictTo is non-nil only products in that id set are considered, which
// preserves semantic narrowing when the structured store has already failed.
// The context is accepted for interface symmetry; the scan never blocks.
func (r *Repo) Search(_ context.Context, text string, f filter.Set, restrictTo []string) []domain.Product {
	var allowed map[string]struct{}
	if restrictTo != nil {
		allowed = make(map[string]struct{}, len(restrictTo))
		for _, id := range restrictTo {
			allowed[id] = struct{}{}
		}
	}

	text = strings.TrimSpace(text)
	var needle string
	if text != "" {
		// A known brand or category name next to a generic term means
		// "all items of that brand/category", not a substring search.
		ents := r.lex.Detect(text)
		switch {
		case ents.Generic && ents.BrandID != nil:
			f = f.WithBrand(*ents.BrandID)
		case ents.Generic && ents.CategoryID != nil:
			f = f.WithCategory(*ents.CategoryID)
		default:
			needle = strings.ToLower(text)
		}
	}

	categoryIDs := r.expandCategory(f)

	var out []domain.Product
	for _, p := range r.snap.Products() {
		if allowed != nil {
			if _, ok := allowed[p.ID]; !ok {
				continue
			}
		}
		if !r.matches(p, f, categoryIDs) {
			continue
		}
		if needle != "" && !lexicalMatch(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ByIDs returns the products for the given ids that satisfy the filters,
// preserving the input order.
func (r *Repo) ByIDs(_ context.Context, f filter.Set, ids []string) []domain.Product {
	categoryIDs := r.expandCategory(f)
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := r.snap.Product(id)
		if !ok {
			continue
		}
		if r.matches(p, f, categoryIDs) {
			out = append(out, p)
		}
	}
	return out
}

// Product looks up a single product by id.
func (r *Repo) Product(_ context.Context, id string) (domain.Product, bool) {
	return r.snap.Product(id)
}

// Inventory returns the inventory records for a product.
func (r *Repo) Inventory(_ context.Context, productID string) []domain.InventoryRecord {
	return r.snap.Inventory(productID)
}

// Related approximates the store's relation table: active products sharing
// the seed's category, same-brand entries marked similar and the rest
// alternative. Featured products come first, then cheapest, id as tie-break.
func (r *Repo) Related(_ context.Context, productID string, limit int) []domain.RelatedProduct {
	seed, ok := r.snap.Product(productID)
	if !ok {
		return nil
	}

	var out []domain.RelatedProduct
	for _, p := range r.snap.Products() {
		if p.ID == productID || !p.IsActive || p.CategoryID != seed.CategoryID {
			continue
		}
		kind := "alternative"
		if p.BrandID == seed.BrandID {
			kind = "similar"
		}
		out = append(out, domain.RelatedProduct{
			Product:      p,
			BrandName:    r.BrandName(p.BrandID),
			RelationType: kind,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Product, out[j].Product
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		if pa, pb := a.EffectivePrice(), b.EffectivePrice(); pa != pb {
			return pa < pb
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BrandName resolves a brand id to its name, empty when unknown.
func (r *Repo) BrandName(id int64) string {
	if b, ok := r.snap.Brand(id); ok {
		return b.Name
	}
	return ""
}

// CategoryName resolves a category id to its name, empty when unknown.
func (r *Repo) CategoryName(id int64) string {
	if c, ok := r.snap.Category(id); ok {
		return c.Name
	}
	return ""
}

// expandCategory resolves the filter's category to itself plus its direct
// children, mirroring the structured store's subcategory semantics.
func (r *Repo) expandCategory(f filter.Set) []int64 {
	if f.CategoryID() == nil {
		return nil
	}
	return r.snap.CategoryAndChildren(*f.CategoryID())
}

// matches applies the filter set, widening the category constraint to the
// pre-expanded id list.
func (r *Repo) matches(p domain.Product, f filter.Set, categoryIDs []int64) bool {
	if categoryIDs == nil {
		return f.Matches(p)
	}
	for _, id := range categoryIDs {
		if f.WithCategory(id).Matches(p) {
			return true
		}
	}
	return false
}

func lexicalMatch(p domain.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, kw := range p.SearchKeywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}
