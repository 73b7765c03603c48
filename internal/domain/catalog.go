package domain

// KeyPrefix namespaces every Redis key owned by prodex.
const KeyPrefix = "prodex:"

// Product is a catalog entry. Reference data is owned by the external
// catalog process; prodex only reads it.
type Product struct {
	ID             string     `json:"id"`
	SKU            string     `json:"sku"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	BrandID        int64      `json:"brand_id"`
	CategoryID     int64      `json:"category_id"`
	Price          float64    `json:"price"`
	SalePrice      *float64   `json:"sale_price,omitempty"`
	IsOnSale       bool       `json:"is_on_sale"`
	IsActive       bool       `json:"is_active"`
	IsFeatured     bool       `json:"is_featured"`
	Attributes     Attributes `json:"attributes"`
	Images         []string   `json:"images,omitempty"`
	SearchKeywords []string   `json:"search_keywords,omitempty"`
}

// EffectivePrice returns the sale price for items on sale, the list price
// otherwise. All price filtering and price sorting compares this value.
func (p *Product) EffectivePrice() float64 {
	if p.IsOnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Attributes is the typed product attribute set. Validation happens at
// catalog-ingestion time; the retrieval core assumes well-formed values.
type Attributes struct {
	Sizes    []string `json:"sizes,omitempty"` // ordered
	Colors   []string `json:"colors,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Material string   `json:"material,omitempty"`
	Features []string `json:"features,omitempty"`
}

// HasSize reports whether the product is offered in the given size.
// Size comparison is case-insensitive, matching the structured tier.
func (a *Attributes) HasSize(size string) bool {
	for _, s := range a.Sizes {
		if equalFold(s, size) {
			return true
		}
	}
	return false
}

// HasColor reports whether the product is offered in the given color.
// Color comparison is case-insensitive across the codebase.
func (a *Attributes) HasColor(color string) bool {
	for _, c := range a.Colors {
		if equalFold(c, color) {
			return true
		}
	}
	return false
}

// Brand is a catalog brand.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category is a catalog category. The tree is shallow: a category has at
// most one parent and filtering by a parent includes its direct children.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// InventoryRecord is the stock for one product variant. The composite key
// (product, size, color) is unique.
type InventoryRecord struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	Warehouse string `json:"warehouse,omitempty"`
}

// RelatedProduct is a product reachable from another through a typed
// catalog relation (similar, alternative, accessory, recommended_with).
type RelatedProduct struct {
	Product      Product
	BrandName    string
	RelationType string
}

// equalFold is an ASCII case-insensitive compare. Catalog colors and sizes
// are ASCII by ingestion contract.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
