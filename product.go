package prodex

import (
	"context"
	"errors"

	"github.com/supportly/prodex/internal/domain"
)

// ErrNotFound is returned for lookups of products absent from the catalog.
var ErrNotFound = errors.New("prodex: not found")

// ProductDetail is one catalog product with resolved names.
type ProductDetail struct {
	Result
	// Degraded marks details served from the stale snapshot.
	Degraded bool
}

// Variant is the stock record for one (size, color) pair.
type Variant struct {
	Size     string
	Color    string
	Quantity int
}

// RelatedProduct is a product linked to another through a typed relation.
type RelatedProduct struct {
	Result
	// RelationType is one of similar, alternative, accessory or
	// recommended_with.
	RelationType string
}

// StockState is the tri-state availability answer.
type StockState string

const (
	// InStock means the variant exists with a positive quantity.
	InStock StockState = "in_stock"
	// OutOfStock means the variant is absent or has zero quantity.
	OutOfStock StockState = "out_of_stock"
	// StockUnknown means the store could not answer. It is deliberately
	// distinct from OutOfStock: the engine never claims an item is gone
	// when it simply could not check.
	StockUnknown StockState = "unknown"
)

// Availability is the result of a variant stock check.
type Availability struct {
	State    StockState
	Exists   bool
	Quantity int
}

// Product returns one product by ID, falling back to the snapshot when the
// store is down. Returns ErrNotFound for unknown IDs.
func (c *Client) Product(ctx context.Context, id string) (*ProductDetail, error) {
	d, err := c.productSvc.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res := toProductResult(d.Product, d.BrandName, d.CategoryName)
	return &ProductDetail{Result: res, Degraded: d.Degraded}, nil
}

// Related lists products linked to the given one, featured first then
// cheapest. An empty relationType returns every relation kind. When the
// store is down a same-category approximation from the snapshot is served.
func (c *Client) Related(ctx context.Context, productID, relationType string) ([]RelatedProduct, error) {
	recs, err := c.productSvc.Related(ctx, productID, relationType)
	if err != nil {
		return nil, err
	}
	out := make([]RelatedProduct, len(recs))
	for i, rec := range recs {
		out[i] = RelatedProduct{
			Result:       toProductResult(rec.Product, rec.BrandName, ""),
			RelationType: rec.RelationType,
		}
	}
	return out, nil
}

// Variants lists the stock records of a product.
func (c *Client) Variants(ctx context.Context, productID string) ([]Variant, error) {
	recs, err := c.productSvc.Variants(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]Variant, len(recs))
	for i, r := range recs {
		out[i] = Variant{Size: r.Size, Color: r.Color, Quantity: r.Quantity}
	}
	return out, nil
}

// Availability checks the stock of one variant. A store failure yields
// StockUnknown rather than an error.
func (c *Client) Availability(ctx context.Context, productID, size, color string) (Availability, error) {
	a, err := c.productSvc.Check(ctx, productID, size, color)
	if err != nil {
		return Availability{}, err
	}
	return Availability{
		State:    StockState(a.State),
		Exists:   a.Exists,
		Quantity: a.Quantity,
	}, nil
}
