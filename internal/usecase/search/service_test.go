package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/supportly/prodex/internal/db"
	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/candidate"
	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
)

func f64(v float64) *float64 { return &v }

func storeDown() error {
	return fmt.Errorf("filter products: %w: dial tcp refused", domain.ErrStoreUnavailable)
}

// Candidates [(p1,0.9),(p2,0.7),(p3,0.5)] with a structured filter excluding
// p2 must yield merged order [p1, p3]: the filter prunes, it never reranks.
func TestSearch_CandidateOrderSurvivesFiltering(t *testing.T) {
	cat := testCatalog(t)
	sem := &mockSemantic{searchFn: func(_ context.Context, _ string, _ db.TagHint, _ int) ([]candidate.Candidate, error) {
		return []candidate.Candidate{
			candidate.New("p1", 0.9),
			candidate.New("p2", 0.7),
			candidate.New("p3", 0.5),
		}, nil
	}}
	prod := &mockProducts{filterByIDsFn: func(_ context.Context, _ filter.Set, _ []string) ([]domain.Product, error) {
		// p3 returned before p1 to prove row order is irrelevant.
		return products(cat, "p3", "p1"), nil
	}}
	svc := newTestService(t, sem, prod)

	resp, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "responsive runner", filter.Set{}, "", 10, 0, true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(resultIDs(resp), "p1", "p3") {
		t.Fatalf("order = %v, want [p1 p3]", resultIDs(resp))
	}
	if resp.Results[0].Relevance() == nil || *resp.Results[0].Relevance() != 0.9 {
		t.Errorf("Relevance = %v, want 0.9", resp.Results[0].Relevance())
	}
	if resp.Tier != "semantic+structured" {
		t.Errorf("Tier = %q", resp.Tier)
	}
	if resp.Degraded {
		t.Error("Degraded = true")
	}
}

// sort_by=price-desc with limit 1 over effective prices [80, 120, 95] must
// return the 120 product even though candidate rank puts it second.
func TestSearch_ExplicitPriceSortOverridesRank(t *testing.T) {
	cat := testCatalog(t)
	sem := &mockSemantic{searchFn: func(_ context.Context, _ string, _ db.TagHint, _ int) ([]candidate.Candidate, error) {
		return []candidate.Candidate{
			candidate.New("p1", 0.9), // effective 80
			candidate.New("p2", 0.7), // 120
			candidate.New("p3", 0.5), // 95
		}, nil
	}}
	prod := &mockProducts{filterByIDsFn: func(_ context.Context, _ filter.Set, ids []string) ([]domain.Product, error) {
		return products(cat, ids...), nil
	}}
	svc := newTestService(t, sem, prod)

	resp, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "most expensive runner", filter.Set{}, sortorder.PriceDesc, 1, 0, true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(resultIDs(resp), "p2") {
		t.Fatalf("results = %v, want [p2]", resultIDs(resp))
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3 (pre-pagination)", resp.Total)
	}
}

// A price_max of 130 must admit the product whose sale price is 80 even
// though its list price is 110, and price filtering must use the sale price.
func TestSearch_EffectivePriceBoundary(t *testing.T) {
	f, _ := filter.New(nil, nil, f64(90), nil, "", "", nil, nil)
	prod := &mockProducts{filterSearchFn: func(_ context.Context, _ string, got filter.Set, _ sortorder.Order, _ int) ([]domain.Product, int, error) {
		// The structured store is down; fallback applies the filter.
		_ = got
		return nil, 0, storeDown()
	}}
	svc := newTestService(t, &mockSemantic{}, prod)

	resp, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "", f, "", 10, 0, false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// p1 effective price is 80, below min 90; p2=120, p3=95, p4=130 stay.
	for _, id := range resultIDs(resp) {
		if id == "p1" {
			t.Fatal("p1 passed price_min 90 despite sale price 80")
		}
	}
	if len(resp.Results) != 3 {
		t.Fatalf("results = %v, want 3", resultIDs(resp))
	}
	if !resp.Degraded {
		t.Error("Degraded = false after fallback")
	}
}

// IndexUnavailable must be indistinguishable from a structured-only request.
func TestSearch_IndexUnavailableEqualsStructuredOnly(t *testing.T) {
	cat := testCatalog(t)
	prodFn := func(_ context.Context, text string, f filter.Set, order sortorder.Order, fetchLimit int) ([]domain.Product, int, error) {
		return products(cat, "p3", "p2"), 2, nil
	}

	semDown := &mockSemantic{searchFn: func(_ context.Context, _ string, _ db.TagHint, _ int) ([]candidate.Candidate, error) {
		return nil, fmt.Errorf("knn search: %w", domain.ErrIndexUnavailable)
	}}
	svcDown := newTestService(t, semDown, &mockProducts{filterSearchFn: prodFn})

	svcOff := newTestService(t, &mockSemantic{}, &mockProducts{filterSearchFn: prodFn})

	reqDown := Request{Query: mustQuery(t, "stability trainer", filter.Set{}, "", 10, 0, true)}
	reqOff := Request{Query: mustQuery(t, "stability trainer", filter.Set{}, "", 10, 0, false)}

	respDown, err := svcDown.Search(context.Background(), reqDown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	respOff, err := svcOff.Search(context.Background(), reqOff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !equalIDs(resultIDs(respDown), resultIDs(respOff)...) {
		t.Fatalf("down=%v off=%v, want identical", resultIDs(respDown), resultIDs(respOff))
	}
	if respDown.Tier != tierStructured {
		t.Errorf("Tier = %q, want structured", respDown.Tier)
	}
	if semDown.calls != 1 {
		t.Errorf("semantic calls = %d, want 1", semDown.calls)
	}
}

// Store failure after semantic narrowing must fall back restricted to the
// candidate id set, not to the whole catalog.
func TestSearch_CandidateRestrictedFallback(t *testing.T) {
	sem := &mockSemantic{searchFn: func(_ context.Context, _ string, _ db.TagHint, _ int) ([]candidate.Candidate, error) {
		return []candidate.Candidate{
			candidate.New("p4", 0.8),
			candidate.New("p1", 0.6),
		}, nil
	}}
	prod := &mockProducts{filterByIDsFn: func(_ context.Context, _ filter.Set, _ []string) ([]domain.Product, error) {
		return nil, storeDown()
	}}
	svc := newTestService(t, sem, prod)

	resp, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "rugged boots", filter.Set{}, "", 10, 0, true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(resultIDs(resp), "p4", "p1") {
		t.Fatalf("results = %v, want [p4 p1] only", resultIDs(resp))
	}
	if resp.Tier != "semantic+fallback" {
		t.Errorf("Tier = %q", resp.Tier)
	}
	if !resp.Degraded {
		t.Error("Degraded = false")
	}
}

// Consecutive pages must neither duplicate nor skip items.
func TestSearch_PaginationDisjoint(t *testing.T) {
	prod := &mockProducts{filterSearchFn: func(_ context.Context, _ string, _ filter.Set, _ sortorder.Order, _ int) ([]domain.Product, int, error) {
		return nil, 0, storeDown()
	}}
	svc := newTestService(t, &mockSemantic{}, prod)

	seen := map[string]bool{}
	var fetched int
	for offset := 0; offset < 4; offset += 2 {
		q := mustQuery(t, "", filter.Set{}, "", 2, offset, false)
		resp, err := svc.Search(context.Background(), Request{Query: q})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Total != 4 {
			t.Errorf("Total = %d, want 4", resp.Total)
		}
		for _, id := range resultIDs(resp) {
			if seen[id] {
				t.Fatalf("id %s appeared on two pages", id)
			}
			seen[id] = true
			fetched++
		}
	}
	if fetched != 4 {
		t.Errorf("fetched %d items across pages, want 4", fetched)
	}
}

// The same request must produce the same ordering every time.
func TestSearch_Deterministic(t *testing.T) {
	prod := &mockProducts{filterSearchFn: func(_ context.Context, _ string, _ filter.Set, _ sortorder.Order, _ int) ([]domain.Product, int, error) {
		return nil, 0, storeDown()
	}}
	svc := newTestService(t, &mockSemantic{}, prod)

	var first []string
	for i := 0; i < 5; i++ {
		resp, err := svc.Search(context.Background(), Request{
			Query: mustQuery(t, "", filter.Set{}, "", 10, 0, false),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids := resultIDs(resp)
		if first == nil {
			first = ids
			continue
		}
		if !equalIDs(ids, first...) {
			t.Fatalf("run %d order %v != %v", i, ids, first)
		}
	}
}

func TestSearch_DefaultOrderFeaturedFirst(t *testing.T) {
	prod := &mockProducts{filterSearchFn: func(_ context.Context, _ string, _ filter.Set, _ sortorder.Order, _ int) ([]domain.Product, int, error) {
		return nil, 0, storeDown()
	}}
	svc := newTestService(t, &mockSemantic{}, prod)

	resp, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "", filter.Set{}, "", 10, 0, false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// p2 is featured; the rest order by effective price 80, 95, 130.
	if !equalIDs(resultIDs(resp), "p2", "p1", "p3", "p4") {
		t.Fatalf("order = %v", resultIDs(resp))
	}
}

// An expired caller deadline at a tier boundary must jump straight to the
// fallback, skipping both remote tiers.
func TestSearch_DeadlineJumpsToFallback(t *testing.T) {
	sem := &mockSemantic{searchFn: func(_ context.Context, _ string, _ db.TagHint, _ int) ([]candidate.Candidate, error) {
		t.Fatal("semantic tier must not run after the deadline")
		return nil, nil
	}}
	prod := &mockProducts{filterSearchFn: func(_ context.Context, _ string, _ filter.Set, _ sortorder.Order, _ int) ([]domain.Product, int, error) {
		t.Fatal("structured tier must not run after the deadline")
		return nil, 0, nil
	}}
	svc := newTestService(t, sem, prod)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Millisecond))
	defer cancel()

	resp, err := svc.Search(ctx, Request{
		Query: mustQuery(t, "pegasus", filter.Set{}, "", 10, 0, true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Degraded || resp.Tier != tierFallback {
		t.Errorf("Tier = %q Degraded = %v", resp.Tier, resp.Degraded)
	}
	if !equalIDs(resultIDs(resp), "p1") {
		t.Errorf("results = %v, want [p1]", resultIDs(resp))
	}
}

func TestSearch_UnknownBrandIsInvalidFilter(t *testing.T) {
	svc := newTestService(t, &mockSemantic{}, &mockProducts{})

	_, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "", filter.Set{}, "", 10, 0, false),
		Brand: "Adadis",
	})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidFilter", err)
	}
}

// A brand name lookup that hits a downed store resolves through the snapshot
// vocabulary instead of failing.
func TestSearch_BrandResolutionDegrades(t *testing.T) {
	cat := testCatalog(t)
	var gotFilter filter.Set
	prod := &mockProducts{
		brandByNameFn: func(_ context.Context, _ string) (domain.Brand, error) {
			return domain.Brand{}, storeDown()
		},
		filterSearchFn: func(_ context.Context, _ string, f filter.Set, _ sortorder.Order, _ int) ([]domain.Product, int, error) {
			gotFilter = f
			return products(cat, "p1"), 1, nil
		},
	}
	svc := newTestService(t, &mockSemantic{}, prod)

	resp, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "", filter.Set{}, "", 10, 0, false),
		Brand: "Nike",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFilter.BrandID() == nil || *gotFilter.BrandID() != 1 {
		t.Fatalf("BrandID = %v, want 1 via snapshot vocabulary", gotFilter.BrandID())
	}
	if len(resp.Results) != 1 {
		t.Errorf("results = %v", resultIDs(resp))
	}
}

func TestSearch_EnrichesNames(t *testing.T) {
	cat := testCatalog(t)
	prod := &mockProducts{filterSearchFn: func(_ context.Context, _ string, _ filter.Set, _ sortorder.Order, _ int) ([]domain.Product, int, error) {
		return products(cat, "p4"), 1, nil
	}}
	svc := newTestService(t, &mockSemantic{}, prod)

	resp, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "", filter.Set{}, "", 10, 0, false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := resp.Results[0]
	if r.BrandName() != "Nike" || r.CategoryName() != "Hiking Boots" {
		t.Errorf("names = %q/%q", r.BrandName(), r.CategoryName())
	}
	if r.Relevance() != nil {
		t.Error("structured-only hit must carry no relevance score")
	}
}

func TestSearch_InvalidSizeRejected(t *testing.T) {
	svc := newTestService(t, &mockSemantic{}, &mockProducts{})
	f, _ := filter.New(nil, nil, nil, nil, "17", "", nil, nil)

	_, err := svc.Search(context.Background(), Request{
		Query: mustQuery(t, "", f, "", 10, 0, false),
	})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidFilter", err)
	}
}
