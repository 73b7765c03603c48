package search

import (
	"testing"

	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/candidate"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
)

func TestMergeRanked_DeduplicatesKeepingFirst(t *testing.T) {
	rows := []domain.Product{
		{ID: "a", Price: 10, IsActive: true},
		{ID: "b", Price: 20, IsActive: true},
		{ID: "a", Price: 99, IsActive: true},
	}
	merged, total := mergeRanked(nil, rows, mergeOptions{order: sortorder.Default, limit: 10})
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	for _, m := range merged {
		if m.product.ID == "a" && m.product.Price != 10 {
			t.Errorf("duplicate replaced the first occurrence: %v", m.product)
		}
	}
}

func TestMergeRanked_RestrictDropsNonCandidates(t *testing.T) {
	cands := []candidate.Candidate{
		candidate.New("b", 0.9),
		candidate.New("a", 0.4),
	}
	rows := []domain.Product{
		{ID: "a", IsActive: true},
		{ID: "b", IsActive: true},
		{ID: "c", IsActive: true},
	}
	merged, total := mergeRanked(cands, rows, mergeOptions{restrict: true, order: sortorder.Default, limit: 10})
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if merged[0].product.ID != "b" || merged[1].product.ID != "a" {
		t.Errorf("order = [%s %s], want candidate rank [b a]", merged[0].product.ID, merged[1].product.ID)
	}
}

func TestMergeRanked_PriceTieBreaksOnID(t *testing.T) {
	rows := []domain.Product{
		{ID: "z", Price: 50},
		{ID: "a", Price: 50},
	}
	merged, _ := mergeRanked(nil, rows, mergeOptions{order: sortorder.PriceAsc, limit: 10})
	if merged[0].product.ID != "a" {
		t.Errorf("first = %s, want a (id tie-break)", merged[0].product.ID)
	}
}

func TestPage_OffsetBeyondEnd(t *testing.T) {
	rows := []mergedRow{{product: domain.Product{ID: "a"}}}
	if got := page(rows, 5, 10); got != nil {
		t.Errorf("page = %v, want nil", got)
	}
}
