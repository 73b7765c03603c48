package products

import (
	"encoding/json"

	"github.com/supportly/prodex/internal/domain"
)

// productRow is the gorm model for the products table.
type productRow struct {
	ID             string   `gorm:"column:id;primaryKey"`
	SKU            string   `gorm:"column:sku"`
	Name           string   `gorm:"column:name"`
	Description    string   `gorm:"column:description"`
	BrandID        int64    `gorm:"column:brand_id"`
	CategoryID     int64    `gorm:"column:category_id"`
	Price          float64  `gorm:"column:price"`
	SalePrice      *float64 `gorm:"column:sale_price"`
	IsOnSale       bool     `gorm:"column:is_on_sale"`
	IsActive       bool     `gorm:"column:is_active"`
	IsFeatured     bool     `gorm:"column:is_featured"`
	Attributes     []byte   `gorm:"column:attributes;type:jsonb"`
	Images         []byte   `gorm:"column:images;type:jsonb"`
	SearchKeywords []byte   `gorm:"column:search_keywords;type:jsonb"`
}

func (productRow) TableName() string { return "products" }

type brandRow struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (brandRow) TableName() string { return "brands" }

type categoryRow struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Name     string `gorm:"column:name"`
	ParentID *int64 `gorm:"column:parent_id"`
}

func (categoryRow) TableName() string { return "categories" }

type relationRow struct {
	ID               int64  `gorm:"column:id;primaryKey"`
	ProductID        string `gorm:"column:product_id"`
	RelatedProductID string `gorm:"column:related_product_id"`
	RelationType     string `gorm:"column:relation_type"`
}

func (relationRow) TableName() string { return "product_relations" }

type inventoryRow struct {
	ProductID string `gorm:"column:product_id"`
	Size      string `gorm:"column:size"`
	Color     string `gorm:"column:color"`
	Quantity  int    `gorm:"column:quantity"`
	Warehouse string `gorm:"column:warehouse"`
}

func (inventoryRow) TableName() string { return "inventory" }

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		BrandID:     r.BrandID,
		CategoryID:  r.CategoryID,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		IsOnSale:    r.IsOnSale,
		IsActive:    r.IsActive,
		IsFeatured:  r.IsFeatured,
	}
	if len(r.Attributes) > 0 {
		_ = json.Unmarshal(r.Attributes, &p.Attributes)
	}
	if len(r.Images) > 0 {
		_ = json.Unmarshal(r.Images, &p.Images)
	}
	if len(r.SearchKeywords) > 0 {
		_ = json.Unmarshal(r.SearchKeywords, &p.SearchKeywords)
	}
	return p
}

func (r brandRow) toDomain() domain.Brand {
	return domain.Brand{ID: r.ID, Name: r.Name}
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name, ParentID: r.ParentID}
}

func (r inventoryRow) toDomain() domain.InventoryRecord {
	return domain.InventoryRecord{
		ProductID: r.ProductID,
		Size:      r.Size,
		Color:     r.Color,
		Quantity:  r.Quantity,
		Warehouse: r.Warehouse,
	}
}

func rowsToDomain(rows []productRow) []domain.Product {
	out := make([]domain.Product, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}
