// Package lexicon holds the controlled vocabulary of the catalog: brand and
// category names, attribute sizes and colors, and the generic domain terms
// that mark a query as being about footwear at all. The fallback tier and the
// query augmentation heuristic both consult it.
package lexicon

import (
	"strings"

	"github.com/supportly/prodex/internal/domain"
)

// AugmentTerm is appended to very short queries that lack any domain term.
const AugmentTerm = "shoes"

// genericTerms mark a query as footwear-related without naming a brand or
// category.
var genericTerms = []string{
	"shoes", "shoe", "sneakers", "sneaker", "boots", "boot",
	"sandals", "footwear", "trainers", "cleats", "loafers",
}

// Entities is the outcome of lexical detection over a free-text query.
type Entities struct {
	BrandID      *int64
	BrandName    string
	CategoryID   *int64
	CategoryName string
	// Generic is true when the text contains a generic domain term, which
	// turns a detected brand/category into an "all items of" intent.
	Generic bool
}

// Lexicon is an immutable vocabulary built once from catalog data.
type Lexicon struct {
	brands     map[string]int64
	categories map[string]int64
	sizes      map[string]struct{}
	colors     map[string]struct{}
}

// New builds a lexicon from the catalog's brands, categories, and the union
// of product attribute vocabularies. Name lookup is case-insensitive.
func New(brands []domain.Brand, categories []domain.Category, products []domain.Product) *Lexicon {
	l := &Lexicon{
		brands:     make(map[string]int64, len(brands)),
		categories: make(map[string]int64, len(categories)),
		sizes:      make(map[string]struct{}),
		colors:     make(map[string]struct{}),
	}
	for _, b := range brands {
		l.brands[strings.ToLower(b.Name)] = b.ID
	}
	for _, c := range categories {
		l.categories[strings.ToLower(c.Name)] = c.ID
	}
	for _, p := range products {
		for _, s := range p.Attributes.Sizes {
			l.sizes[strings.ToLower(s)] = struct{}{}
		}
		for _, c := range p.Attributes.Colors {
			l.colors[strings.ToLower(c)] = struct{}{}
		}
	}
	return l
}

// BrandID resolves a brand name case-insensitively.
func (l *Lexicon) BrandID(name string) (int64, bool) {
	id, ok := l.brands[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// CategoryID resolves a category name case-insensitively.
func (l *Lexicon) CategoryID(name string) (int64, bool) {
	id, ok := l.categories[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// KnownSize reports whether the size appears anywhere in the catalog.
func (l *Lexicon) KnownSize(size string) bool {
	_, ok := l.sizes[strings.ToLower(strings.TrimSpace(size))]
	return ok
}

// KnownColor reports whether the color appears anywhere in the catalog.
func (l *Lexicon) KnownColor(color string) bool {
	_, ok := l.colors[strings.ToLower(strings.TrimSpace(color))]
	return ok
}

// HasDomainTerm reports whether the text mentions a generic footwear term.
func HasDomainTerm(text string) bool {
	padded := pad(text)
	for _, term := range genericTerms {
		if strings.Contains(padded, " "+term+" ") {
			return true
		}
	}
	return false
}

// NeedsAugment reports whether a query is short enough (two tokens or fewer)
// and generic enough to benefit from appending AugmentTerm before embedding.
func NeedsAugment(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if len(strings.Fields(text)) > 2 {
		return false
	}
	return !strings.Contains(strings.ToLower(text), AugmentTerm)
}

// Detect scans the text for a known brand name, a known category name, and a
// generic domain term. Longer names win so "new balance" is not shadowed by a
// single-token brand.
func (l *Lexicon) Detect(text string) Entities {
	padded := pad(text)

	var out Entities
	out.Generic = HasDomainTerm(text)

	if name, id, ok := longestMatch(padded, l.brands); ok {
		out.BrandName = name
		out.BrandID = &id
	}
	if name, id, ok := longestMatch(padded, l.categories); ok {
		out.CategoryName = name
		out.CategoryID = &id
	}
	return out
}

func longestMatch(padded string, vocab map[string]int64) (string, int64, bool) {
	var (
		bestName string
		bestID   int64
		found    bool
	)
	for name, id := range vocab {
		if len(name) <= len(bestName) {
			continue
		}
		if strings.Contains(padded, " "+name+" ") {
			bestName, bestID, found = name, id, true
		}
	}
	return bestName, bestID, found
}

// pad lowercases the text, strips punctuation, and collapses whitespace so
// vocabulary terms match on word boundaries.
func pad(text string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '\'':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)
	return " " + strings.Join(strings.Fields(mapped), " ") + " "
}
