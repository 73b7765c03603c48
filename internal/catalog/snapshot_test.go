package catalog

import (
	"errors"
	"testing"

	"github.com/supportly/prodex/internal/domain"
)

func TestLoad_Valid(t *testing.T) {
	data := []byte(`{
		"brands": [{"id": 1, "name": "Nike"}],
		"categories": [
			{"id": 10, "name": "Athletic"},
			{"id": 11, "name": "Running", "parent_id": 10}
		],
		"products": [
			{"id": "p1", "name": "Air Zoom", "brand_id": 1, "category_id": 11, "price": 120, "is_active": true}
		],
		"inventory": [
			{"product_id": "p1", "size": "10", "color": "black", "quantity": 3}
		]
	}`)

	s, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, ok := s.Product("p1")
	if !ok {
		t.Fatal("Product(p1) not found")
	}
	if p.Name != "Air Zoom" {
		t.Errorf("Name = %q", p.Name)
	}

	b, ok := s.Brand(1)
	if !ok || b.Name != "Nike" {
		t.Errorf("Brand(1) = %v, %v", b, ok)
	}

	inv := s.Inventory("p1")
	if len(inv) != 1 || inv[0].Quantity != 3 {
		t.Errorf("Inventory(p1) = %v", inv)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load([]byte("{not json"))
	if !errors.Is(err, domain.ErrSnapshotInvalid) {
		t.Fatalf("err = %v, want ErrSnapshotInvalid", err)
	}
}

func TestLoad_DuplicateID(t *testing.T) {
	data := []byte(`{"products": [{"id": "p1"}, {"id": "p1"}]}`)
	_, err := Load(data)
	if !errors.Is(err, domain.ErrSnapshotInvalid) {
		t.Fatalf("err = %v, want ErrSnapshotInvalid", err)
	}
}

func TestLoad_MissingID(t *testing.T) {
	data := []byte(`{"products": [{"name": "no id"}]}`)
	_, err := Load(data)
	if !errors.Is(err, domain.ErrSnapshotInvalid) {
		t.Fatalf("err = %v, want ErrSnapshotInvalid", err)
	}
}

func TestCategoryAndChildren(t *testing.T) {
	parent := int64(10)
	s, err := New(nil, nil, []domain.Category{
		{ID: 10, Name: "Athletic"},
		{ID: 11, Name: "Running", ParentID: &parent},
		{ID: 20, Name: "Formal"},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := s.CategoryAndChildren(10)
	if len(ids) != 2 {
		t.Fatalf("CategoryAndChildren(10) = %v, want 2 ids", ids)
	}
	ids = s.CategoryAndChildren(20)
	if len(ids) != 1 || ids[0] != 20 {
		t.Errorf("CategoryAndChildren(20) = %v", ids)
	}
}
