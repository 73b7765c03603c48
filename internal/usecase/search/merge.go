package search

import (
	"sort"

	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/candidate"
	"github.com/supportly/prodex/internal/domain/search/sortorder"
)

// mergedRow pairs a product with the relevance score it earned through the
// semantic tier, nil for structured-only hits.
type mergedRow struct {
	product   domain.Product
	relevance *float64
}

type mergeOptions struct {
	// restrict keeps only rows whose ids appear in the candidate set and
	// orders them by candidate rank. Structured filtering acts as a
	// filter, not a reranker.
	restrict bool
	order    sortorder.Order
	offset   int
	limit    int
}

// mergeRanked deduplicates, orders, and paginates one result set. It returns
// the page plus the pre-pagination match count. Pagination is always the
// last step, applied only after full ordering.
func mergeRanked(cands []candidate.Candidate, rows []domain.Product, opts mergeOptions) ([]mergedRow, int) {
	byID := make(map[string]domain.Product, len(rows))
	seen := make(map[string]struct{}, len(rows))
	deduped := make([]domain.Product, 0, len(rows))
	for _, p := range rows {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		byID[p.ID] = p
		deduped = append(deduped, p)
	}

	var merged []mergedRow
	if opts.restrict {
		// Candidate rank drives both membership and order.
		merged = make([]mergedRow, 0, len(cands))
		for _, c := range cands {
			p, ok := byID[c.ID()]
			if !ok {
				continue
			}
			score := c.Score()
			merged = append(merged, mergedRow{product: p, relevance: &score})
		}
	} else {
		merged = make([]mergedRow, 0, len(deduped))
		for _, p := range deduped {
			merged = append(merged, mergedRow{product: p})
		}
	}

	orderRows(merged, opts.restrict, opts.order)

	total := len(merged)
	return page(merged, opts.offset, opts.limit), total
}

// orderRows sorts in place. With candidates and no explicit sort the
// candidate rank is already the order. An explicit price sort overrides
// every other key; the default key is featured desc, relevance desc,
// effective price asc. Ties always break on product id.
func orderRows(rows []mergedRow, restricted bool, order sortorder.Order) {
	switch {
	case order.Explicit():
		desc := order == sortorder.PriceDesc
		sort.SliceStable(rows, func(i, j int) bool {
			pi, pj := rows[i].product.EffectivePrice(), rows[j].product.EffectivePrice()
			if pi != pj {
				if desc {
					return pi > pj
				}
				return pi < pj
			}
			return rows[i].product.ID < rows[j].product.ID
		})
	case restricted:
		// keep candidate rank
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			fi, fj := rows[i].product.IsFeatured, rows[j].product.IsFeatured
			if fi != fj {
				return fi
			}
			pi, pj := rows[i].product.EffectivePrice(), rows[j].product.EffectivePrice()
			if pi != pj {
				return pi < pj
			}
			return rows[i].product.ID < rows[j].product.ID
		})
	}
}

func page(rows []mergedRow, offset, limit int) []mergedRow {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
