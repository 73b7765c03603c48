package query

import (
	"strings"
	"testing"

	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
)

func TestNew_Defaults(t *testing.T) {
	q, err := New("running shoes", filter.Set{}, "", 0, -5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "running shoes" {
		t.Errorf("Text() = %q", q.Text())
	}
	if q.Sort() != sortorder.Default {
		t.Errorf("Sort() = %q, want default", q.Sort())
	}
	if q.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", q.Limit(), DefaultLimit)
	}
	if q.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", q.Offset())
	}
	if !q.UseSemantic() {
		t.Error("UseSemantic() = false")
	}
}

func TestNew_EmptyQueryIsValid(t *testing.T) {
	q, err := New("   ", filter.Set{}, sortorder.PriceAsc, 0, 0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "" {
		t.Errorf("Text() = %q, want empty", q.Text())
	}
	if q.UseSemantic() {
		t.Error("UseSemantic() must be false without text")
	}
}

func TestNew_LimitClamped(t *testing.T) {
	q, err := New("x", filter.Set{}, "", MaxLimit+100, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want %d", q.Limit(), MaxLimit)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxQueryLength+1), filter.Set{}, "", 10, 0, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "too long") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_InvalidSort(t *testing.T) {
	_, err := New("x", filter.Set{}, "alphabetical", 10, 0, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "sort") {
		t.Errorf("error = %q", err)
	}
}
