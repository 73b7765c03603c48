package domain

// StockState is the tri-state answer of an availability check. Unknown is
// reported when the store could not be reached; it is never conflated with
// a known quantity of zero.
type StockState string

const (
	StockInStock    StockState = "in_stock"
	StockOutOfStock StockState = "out_of_stock"
	StockUnknown    StockState = "unknown"
)

// Availability is the result of a variant stock check.
type Availability struct {
	State    StockState
	Exists   bool // the (product, size, color) variant exists in the catalog
	Quantity int  // meaningful only when State != StockUnknown
}

// InStock reports whether the variant is known to be purchasable.
func (a Availability) InStock() bool { return a.State == StockInStock }
