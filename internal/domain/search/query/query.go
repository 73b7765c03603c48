// Package query holds the validated search request.
package query

import (
	"fmt"
	"strings"

	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed free-text query length.
	MaxQueryLength = 512
	DefaultLimit   = 10
	MaxLimit       = 50
)

// Query is a validated search request. Either free text, filters, or both
// may be present; a fully empty query is still valid and returns the
// default-ordered catalog page.
type Query struct {
	text        string
	filters     filter.Set
	sort        sortorder.Order
	limit       int
	offset      int
	useSemantic bool
}

// New validates and normalizes search parameters.
// Defaults: sort=default, limit=10. Limit is clamped to MaxLimit, offset
// floors at zero.
func New(text string, filters filter.Set, sort sortorder.Order, limit, offset int, useSemantic bool) (Query, error) {
	text = strings.TrimSpace(text)
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if sort == "" {
		sort = sortorder.Default
	}
	if !sort.IsValid() {
		return Query{}, fmt.Errorf("invalid sort order: %q", sort)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Query{
		text:        text,
		filters:     filters,
		sort:        sort,
		limit:       limit,
		offset:      offset,
		useSemantic: useSemantic,
	}, nil
}

// Text returns the free-text portion of the query, empty for pure-filter
// requests.
func (q *Query) Text() string { return q.text }

// Filters returns the structured filter set.
func (q *Query) Filters() filter.Set { return q.filters }

// Sort returns the requested ordering.
func (q *Query) Sort() sortorder.Order { return q.sort }

// Limit returns the maximum results per page.
func (q *Query) Limit() int { return q.limit }

// Offset returns the pagination offset.
func (q *Query) Offset() int { return q.offset }

// UseSemantic reports whether the semantic tier should be attempted. It is
// only meaningful when Text is non-empty.
func (q *Query) UseSemantic() bool { return q.useSemantic && q.text != "" }

// WithFilters returns a copy of the query with the filter set replaced.
func (q Query) WithFilters(f filter.Set) Query {
	q.filters = f
	return q
}
