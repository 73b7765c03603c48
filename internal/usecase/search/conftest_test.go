package search

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/supportly/prodex/internal/catalog"
	"github.com/supportly/prodex/internal/db"
	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/candidate"
	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/query"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
	"github.com/supportly/prodex/internal/repository/snapshot"
)

type mockSemantic struct {
	searchFn func(ctx context.Context, text string, hint db.TagHint, limit int) ([]candidate.Candidate, error)
	calls    int
}

func (m *mockSemantic) Search(ctx context.Context, text string, hint db.TagHint, limit int) ([]candidate.Candidate, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, text, hint, limit)
	}
	return nil, nil
}

type mockProducts struct {
	filterSearchFn   func(ctx context.Context, text string, f filter.Set, order sortorder.Order, fetchLimit int) ([]domain.Product, int, error)
	filterByIDsFn    func(ctx context.Context, f filter.Set, ids []string) ([]domain.Product, error)
	brandByNameFn    func(ctx context.Context, name string) (domain.Brand, error)
	categoryByNameFn func(ctx context.Context, name string) (domain.Category, error)
}

func (m *mockProducts) FilterSearch(ctx context.Context, text string, f filter.Set, order sortorder.Order, fetchLimit int) ([]domain.Product, int, error) {
	if m.filterSearchFn != nil {
		return m.filterSearchFn(ctx, text, f, order, fetchLimit)
	}
	return nil, 0, nil
}

func (m *mockProducts) FilterByIDs(ctx context.Context, f filter.Set, ids []string) ([]domain.Product, error) {
	if m.filterByIDsFn != nil {
		return m.filterByIDsFn(ctx, f, ids)
	}
	return nil, nil
}

func (m *mockProducts) BrandByName(ctx context.Context, name string) (domain.Brand, error) {
	if m.brandByNameFn != nil {
		return m.brandByNameFn(ctx, name)
	}
	return domain.Brand{}, domain.ErrNotFound
}

func (m *mockProducts) CategoryByName(ctx context.Context, name string) (domain.Category, error) {
	if m.categoryByNameFn != nil {
		return m.categoryByNameFn(ctx, name)
	}
	return domain.Category{}, domain.ErrNotFound
}

// testCatalog holds the products every service test searches over.
// Effective prices: p1=80 (sale), p2=120, p3=95, p4=130.
func testCatalog(t *testing.T) *snapshot.Repo {
	t.Helper()
	sale := 80.0
	snap, err := catalog.New(
		[]domain.Product{
			{ID: "p1", Name: "Air Zoom Pegasus", Description: "responsive road runner", BrandID: 1, CategoryID: 2, Price: 110, SalePrice: &sale, IsOnSale: true, IsActive: true},
			{ID: "p2", Name: "Gel Kayano", Description: "stability trainer", BrandID: 2, CategoryID: 2, Price: 120, IsActive: true, IsFeatured: true},
			{ID: "p3", Name: "Fresh Foam", Description: "cushioned daily shoe", BrandID: 3, CategoryID: 2, Price: 95, IsActive: true},
			{ID: "p4", Name: "Terrain Boot", Description: "rugged hiking boot", BrandID: 1, CategoryID: 3, Price: 130, IsActive: true},
		},
		[]domain.Brand{
			{ID: 1, Name: "Nike"},
			{ID: 2, Name: "ASICS"},
			{ID: 3, Name: "New Balance"},
		},
		[]domain.Category{
			{ID: 2, Name: "Running"},
			{ID: 3, Name: "Hiking Boots"},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snapshot.New(snap)
}

func newTestService(t *testing.T, sem *mockSemantic, prod *mockProducts) *Service {
	t.Helper()
	return New(sem, prod, testCatalog(t), 0, zap.NewNop())
}

func mustQuery(t *testing.T, text string, f filter.Set, sort sortorder.Order, limit, offset int, useSemantic bool) query.Query {
	t.Helper()
	q, err := query.New(text, f, sort, limit, offset, useSemantic)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	return q
}

func products(repo *snapshot.Repo, ids ...string) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := repo.Product(context.Background(), id); ok {
			out = append(out, p)
		}
	}
	return out
}

func resultIDs(resp *Response) []string {
	out := make([]string, len(resp.Results))
	for i := range resp.Results {
		out[i] = resp.Results[i].ID()
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
