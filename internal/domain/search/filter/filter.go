// Package filter holds the validated structured-filter value object shared by
// every retrieval tier. A Set is constructed once per query and reapplied
// verbatim by the structured store and the in-memory fallback, so both tiers
// agree on what "matching" means.
package filter

import (
	"strconv"
	"strings"

	"github.com/supportly/prodex/internal/domain"
)

// Set is a validated, AND-combined structured filter. Zero value matches
// everything.
type Set struct {
	categoryID *int64
	brandID    *int64
	priceMin   *float64
	priceMax   *float64
	size       string
	color      string
	onSale     *bool
	featured   *bool
}

// New validates and creates a filter Set. Price bounds compare against the
// effective price and must be non-negative with min <= max when both are set.
// Size and color are normalized to lower case; vocabulary membership is
// checked upstream, not here.
func New(categoryID, brandID *int64, priceMin, priceMax *float64, size, color string, onSale, featured *bool) (Set, error) {
	if priceMin != nil && *priceMin < 0 {
		return Set{}, domain.NewInvalidFilter("price_min", formatPrice(*priceMin))
	}
	if priceMax != nil && *priceMax < 0 {
		return Set{}, domain.NewInvalidFilter("price_max", formatPrice(*priceMax))
	}
	if priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		return Set{}, domain.NewInvalidFilter("price_min", formatPrice(*priceMin))
	}
	if categoryID != nil && *categoryID <= 0 {
		return Set{}, domain.NewInvalidFilter("category_id", strconv.FormatInt(*categoryID, 10))
	}
	if brandID != nil && *brandID <= 0 {
		return Set{}, domain.NewInvalidFilter("brand_id", strconv.FormatInt(*brandID, 10))
	}
	return Set{
		categoryID: categoryID,
		brandID:    brandID,
		priceMin:   priceMin,
		priceMax:   priceMax,
		size:       strings.ToLower(strings.TrimSpace(size)),
		color:      strings.ToLower(strings.TrimSpace(color)),
		onSale:     onSale,
		featured:   featured,
	}, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CategoryID returns the category constraint, nil if unset.
func (s Set) CategoryID() *int64 { return s.categoryID }

// BrandID returns the brand constraint, nil if unset.
func (s Set) BrandID() *int64 { return s.brandID }

// PriceMin returns the lower effective-price bound, nil if unset.
func (s Set) PriceMin() *float64 { return s.priceMin }

// PriceMax returns the upper effective-price bound, nil if unset.
func (s Set) PriceMax() *float64 { return s.priceMax }

// Size returns the normalized size constraint, empty if unset.
func (s Set) Size() string { return s.size }

// Color returns the normalized color constraint, empty if unset.
func (s Set) Color() string { return s.color }

// OnSale returns the sale constraint, nil if unset.
func (s Set) OnSale() *bool { return s.onSale }

// Featured returns the featured constraint, nil if unset.
func (s Set) Featured() *bool { return s.featured }

// IsEmpty reports whether the set constrains nothing.
func (s Set) IsEmpty() bool {
	return s.categoryID == nil && s.brandID == nil &&
		s.priceMin == nil && s.priceMax == nil &&
		s.size == "" && s.color == "" &&
		s.onSale == nil && s.featured == nil
}

// Matches reports whether p satisfies every constraint in the set. This is
// the single source of truth for the in-memory tier; the structured store
// translates the same semantics to SQL.
func (s Set) Matches(p domain.Product) bool {
	if !p.IsActive {
		return false
	}
	if s.categoryID != nil && p.CategoryID != *s.categoryID {
		return false
	}
	if s.brandID != nil && p.BrandID != *s.brandID {
		return false
	}
	price := p.EffectivePrice()
	if s.priceMin != nil && price < *s.priceMin {
		return false
	}
	if s.priceMax != nil && price > *s.priceMax {
		return false
	}
	if s.size != "" && !p.Attributes.HasSize(s.size) {
		return false
	}
	if s.color != "" && !p.Attributes.HasColor(s.color) {
		return false
	}
	if s.onSale != nil && p.IsOnSale != *s.onSale {
		return false
	}
	if s.featured != nil && p.IsFeatured != *s.featured {
		return false
	}
	return true
}

// WithBrand returns a copy of the set with the brand constraint replaced.
func (s Set) WithBrand(id int64) Set {
	s.brandID = &id
	return s
}

// WithCategory returns a copy of the set with the category constraint replaced.
func (s Set) WithCategory(id int64) Set {
	s.categoryID = &id
	return s
}
