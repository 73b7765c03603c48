// Package products implements the structured store tier over Postgres via
// gorm. Every connectivity or timeout failure is reported as
// domain.ErrStoreUnavailable so the orchestrator can step down the ladder;
// partial rows are never returned.
package products

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
)

const effectivePrice = "(CASE WHEN is_on_sale AND sale_price IS NOT NULL THEN sale_price ELSE price END)"

// Repo is the gorm-backed product repository.
type Repo struct {
	db *gorm.DB
}

// New creates a product repository.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// FilterSearch runs an exact-filter query and returns the first fetchLimit
// rows in full order plus the exact total match count. Pagination slicing is
// the merger's job, so fetchLimit covers offset+limit. A non-empty text is
// matched as a case-insensitive substring over name and description.
func (r *Repo) FilterSearch(ctx context.Context, text string, f filter.Set, order sortorder.Order, fetchLimit int) ([]domain.Product, int, error) {
	q := r.applyFilters(r.db.WithContext(ctx).Model(&productRow{}), f)
	if text != "" {
		pattern := "%" + text + "%"
		q = q.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, classify("count products", err)
	}

	var rows []productRow
	err := q.Order(orderClause(order)).Limit(fetchLimit).Find(&rows).Error
	if err != nil {
		return nil, 0, classify("filter products", err)
	}
	return rowsToDomain(rows), int(total), nil
}

// FilterByIDs returns the products among ids that satisfy the remaining
// filters. Candidate rank ordering is restored by the merger, so no ORDER BY
// is issued here.
func (r *Repo) FilterByIDs(ctx context.Context, f filter.Set, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.applyFilters(r.db.WithContext(ctx).Model(&productRow{}), f).
		Where("id IN ?", ids)

	var rows []productRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, classify("filter products by ids", err)
	}
	return rowsToDomain(rows), nil
}

// GetProduct loads a single active product with resolved brand and category
// names.
func (r *Repo) GetProduct(ctx context.Context, id string) (domain.Product, string, string, error) {
	var row struct {
		productRow
		BrandName    string `gorm:"column:brand_name"`
		CategoryName string `gorm:"column:category_name"`
	}
	err := r.db.WithContext(ctx).Model(&productRow{}).
		Select("products.*, brands.name AS brand_name, categories.name AS category_name").
		Joins("JOIN brands ON brands.id = products.brand_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.id = ? AND products.is_active", id).
		Take(&row).Error
	if err != nil {
		return domain.Product{}, "", "", classify("get product", err)
	}
	return row.toDomain(), row.BrandName, row.CategoryName, nil
}

// BrandByName resolves a brand case-insensitively.
func (r *Repo) BrandByName(ctx context.Context, name string) (domain.Brand, error) {
	var row brandRow
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Take(&row).Error
	if err != nil {
		return domain.Brand{}, classify("get brand", err)
	}
	return row.toDomain(), nil
}

// CategoryByName resolves a category case-insensitively.
func (r *Repo) CategoryByName(ctx context.Context, name string) (domain.Category, error) {
	var row categoryRow
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Take(&row).Error
	if err != nil {
		return domain.Category{}, classify("get category", err)
	}
	return row.toDomain(), nil
}

// Related lists the active products linked to productID through the
// relation table, with brand names resolved. An empty relationType returns
// every relation kind. Featured products come first, then cheapest.
func (r *Repo) Related(ctx context.Context, productID, relationType string) ([]domain.RelatedProduct, error) {
	var rows []struct {
		productRow
		BrandName    string `gorm:"column:brand_name"`
		RelationType string `gorm:"column:relation_type"`
	}
	q := r.db.WithContext(ctx).Model(&relationRow{}).
		Select("products.*, brands.name AS brand_name, product_relations.relation_type").
		Joins("JOIN products ON products.id = product_relations.related_product_id").
		Joins("JOIN brands ON brands.id = products.brand_id").
		Where("product_relations.product_id = ? AND products.is_active", productID)
	if relationType != "" {
		q = q.Where("product_relations.relation_type = ?", relationType)
	}
	if err := q.Order("products.is_featured DESC, products.price").Find(&rows).Error; err != nil {
		return nil, classify("related products", err)
	}
	out := make([]domain.RelatedProduct, len(rows))
	for i, row := range rows {
		out[i] = domain.RelatedProduct{
			Product:      row.toDomain(),
			BrandName:    row.BrandName,
			RelationType: row.RelationType,
		}
	}
	return out, nil
}

// ProductInventory returns all inventory records for a product.
func (r *Repo) ProductInventory(ctx context.Context, productID string) ([]domain.InventoryRecord, error) {
	var rows []inventoryRow
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("size, color").
		Find(&rows).Error
	if err != nil {
		return nil, classify("product inventory", err)
	}
	out := make([]domain.InventoryRecord, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// VariantInventory returns the record for one (product, size, color) variant.
// Color comparison ignores case.
func (r *Repo) VariantInventory(ctx context.Context, productID, size, color string) (domain.InventoryRecord, error) {
	var row inventoryRow
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND size = ? AND LOWER(color) = LOWER(?)", productID, size, color).
		Take(&row).Error
	if err != nil {
		return domain.InventoryRecord{}, classify("variant inventory", err)
	}
	return row.toDomain(), nil
}

func (r *Repo) applyFilters(q *gorm.DB, f filter.Set) *gorm.DB {
	q = q.Where("is_active")

	if id := f.CategoryID(); id != nil {
		q = q.Where(
			"(category_id = ? OR category_id IN (SELECT id FROM categories WHERE parent_id = ?))",
			*id, *id,
		)
	}
	if id := f.BrandID(); id != nil {
		q = q.Where("brand_id = ?", *id)
	}
	if v := f.PriceMin(); v != nil {
		q = q.Where(effectivePrice+" >= ?", *v)
	}
	if v := f.PriceMax(); v != nil {
		q = q.Where(effectivePrice+" <= ?", *v)
	}
	if s := f.Size(); s != "" {
		q = q.Where(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(attributes->'sizes') sz WHERE LOWER(sz) = ?)",
			s,
		)
	}
	if c := f.Color(); c != "" {
		q = q.Where(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(attributes->'colors') col WHERE LOWER(col) = ?)",
			c,
		)
	}
	if v := f.OnSale(); v != nil {
		q = q.Where("is_on_sale = ?", *v)
	}
	if v := f.Featured(); v != nil {
		q = q.Where("is_featured = ?", *v)
	}
	return q
}

func orderClause(order sortorder.Order) string {
	switch order {
	case sortorder.PriceAsc:
		return effectivePrice + " ASC, id"
	case sortorder.PriceDesc:
		return effectivePrice + " DESC, id"
	default:
		return "is_featured DESC, " + effectivePrice + " ASC, id"
	}
}

// classify maps driver errors to the domain error kinds the ladder reacts
// to. Anything that is not a clean miss counts as store unavailability.
func classify(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
