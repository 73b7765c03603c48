// Package catalog loads and holds the full product catalog snapshot used by
// the in-memory fallback tier. The snapshot is loaded once at process start
// and never mutated during request handling.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/supportly/prodex/internal/domain"
)

// Snapshot is an immutable in-memory copy of the catalog.
type Snapshot struct {
	products   []domain.Product
	brands     map[int64]domain.Brand
	categories map[int64]domain.Category
	byID       map[string]int
	inventory  map[string][]domain.InventoryRecord
}

type snapshotFile struct {
	Brands     []domain.Brand           `json:"brands"`
	Categories []domain.Category        `json:"categories"`
	Products   []domain.Product         `json:"products"`
	Inventory  []domain.InventoryRecord `json:"inventory"`
}

// LoadFile reads a catalog snapshot from a JSON file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Load(data)
}

// Load parses and validates a catalog snapshot from JSON bytes.
func Load(data []byte) (*Snapshot, error) {
	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotInvalid, err)
	}
	return New(f.Products, f.Brands, f.Categories, f.Inventory)
}

// New builds a snapshot from already-parsed catalog data.
func New(products []domain.Product, brands []domain.Brand, categories []domain.Category, inventory []domain.InventoryRecord) (*Snapshot, error) {
	s := &Snapshot{
		products:   products,
		brands:     make(map[int64]domain.Brand, len(brands)),
		categories: make(map[int64]domain.Category, len(categories)),
		byID:       make(map[string]int, len(products)),
		inventory:  make(map[string][]domain.InventoryRecord),
	}
	for _, b := range brands {
		s.brands[b.ID] = b
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: product %d has no id", domain.ErrSnapshotInvalid, i)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %s", domain.ErrSnapshotInvalid, p.ID)
		}
		s.byID[p.ID] = i
	}
	for _, r := range inventory {
		s.inventory[r.ProductID] = append(s.inventory[r.ProductID], r)
	}
	return s, nil
}

// Products returns all products in load order. Callers must not mutate the
// returned slice.
func (s *Snapshot) Products() []domain.Product { return s.products }

// Product looks up a product by id.
func (s *Snapshot) Product(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Brand looks up a brand by id.
func (s *Snapshot) Brand(id int64) (domain.Brand, bool) {
	b, ok := s.brands[id]
	return b, ok
}

// Category looks up a category by id.
func (s *Snapshot) Category(id int64) (domain.Category, bool) {
	c, ok := s.categories[id]
	return c, ok
}

// Brands returns all brands.
func (s *Snapshot) Brands() []domain.Brand {
	out := make([]domain.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, b)
	}
	return out
}

// Categories returns all categories.
func (s *Snapshot) Categories() []domain.Category {
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out
}

// CategoryAndChildren returns the category id plus the ids of its direct
// children. Structured filtering by category includes subcategories.
func (s *Snapshot) CategoryAndChildren(id int64) []int64 {
	ids := []int64{id}
	for _, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Inventory returns all inventory records for a product.
func (s *Snapshot) Inventory(productID string) []domain.InventoryRecord {
	return s.inventory[productID]
}
