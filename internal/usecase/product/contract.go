package product

import (
	"context"

	"github.com/supportly/prodex/internal/domain"
)

// StoreRepo is the structured store surface for single-product reads.
type StoreRepo interface {
	GetProduct(ctx context.Context, id string) (domain.Product, string, string, error)
	ProductInventory(ctx context.Context, productID string) ([]domain.InventoryRecord, error)
	VariantInventory(ctx context.Context, productID, size, color string) (domain.InventoryRecord, error)
	Related(ctx context.Context, productID, relationType string) ([]domain.RelatedProduct, error)
}

// SnapshotRepo answers product reads when the store is down. Inventory from
// the snapshot may be stale, so availability checks never use it.
type SnapshotRepo interface {
	Product(ctx context.Context, id string) (domain.Product, bool)
	Inventory(ctx context.Context, productID string) []domain.InventoryRecord
	BrandName(id int64) string
	CategoryName(id int64) string
	Related(ctx context.Context, productID string, limit int) []domain.RelatedProduct
}

// Detail is a product enriched with resolved names.
type Detail struct {
	Product      domain.Product
	BrandName    string
	CategoryName string
	// Degraded marks details served from the snapshot.
	Degraded bool
}
