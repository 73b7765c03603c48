// Package sortorder defines the result ordering key.
package sortorder

// Order is the requested result ordering.
type Order string

// Ordering constants.
const (
	// Default orders by featured desc, then relevance desc, then effective
	// price asc. It is the only ordering that lets candidate rank dominate.
	Default   Order = "default"
	PriceAsc  Order = "price-asc"
	PriceDesc Order = "price-desc"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Default || o == PriceAsc || o == PriceDesc
}

// Explicit reports whether the caller asked for a price ordering that must
// override candidate rank.
func (o Order) Explicit() bool {
	return o == PriceAsc || o == PriceDesc
}
