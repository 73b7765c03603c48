package products

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
)

func TestClassify_NotFound(t *testing.T) {
	err := classify("get product", gorm.ErrRecordNotFound)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClassify_Unavailable(t *testing.T) {
	err := classify("filter products", errors.New("dial tcp: connection refused"))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	if !strings.Contains(err.Error(), "filter products") {
		t.Errorf("error lost operation context: %q", err)
	}
}

func TestOrderClause(t *testing.T) {
	if got := orderClause(sortorder.Default); !strings.HasPrefix(got, "is_featured DESC") {
		t.Errorf("default order = %q", got)
	}
	if got := orderClause(sortorder.PriceDesc); !strings.Contains(got, "DESC, id") {
		t.Errorf("price-desc order = %q", got)
	}
	if got := orderClause(sortorder.PriceAsc); strings.Contains(got, "is_featured") {
		t.Errorf("explicit sort must not keep the featured key: %q", got)
	}
}

func TestProductRow_ToDomain(t *testing.T) {
	sale := 90.0
	row := productRow{
		ID:         "p1",
		Name:       "Air Zoom",
		Price:      120,
		SalePrice:  &sale,
		IsOnSale:   true,
		IsActive:   true,
		Attributes: []byte(`{"sizes": ["9", "10"], "colors": ["black"]}`),
		Images:     []byte(`["a.jpg"]`),
	}

	p := row.toDomain()
	if p.EffectivePrice() != 90 {
		t.Errorf("EffectivePrice = %f", p.EffectivePrice())
	}
	if !p.Attributes.HasSize("10") {
		t.Error("attributes were not decoded")
	}
	if len(p.Images) != 1 {
		t.Errorf("Images = %v", p.Images)
	}
}

func TestProductRow_ToDomain_BadJSON(t *testing.T) {
	row := productRow{ID: "p1", Attributes: []byte("{broken")}
	p := row.toDomain()
	if p.ID != "p1" {
		t.Errorf("ID = %q", p.ID)
	}
	if len(p.Attributes.Sizes) != 0 {
		t.Errorf("Attributes = %v, want zero value", p.Attributes)
	}
}
