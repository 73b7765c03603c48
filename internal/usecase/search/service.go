package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/supportly/prodex/internal/db"
	"github.com/supportly/prodex/internal/domain"
	"github.com/supportly/prodex/internal/domain/search/candidate"
	"github.com/supportly/prodex/internal/domain/search/filter"
	"github.com/supportly/prodex/internal/domain/search/query"
	"github.com/supportly/prodex/internal/domain/search/result"
	"github.com/supportly/prodex/internal/metrics"
)

// Tier labels for logs and metrics.
const (
	tierSemantic   = "semantic"
	tierStructured = "structured"
	tierFallback   = "fallback"
)

// Service walks the degradation ladder for every query: semantic candidate
// generation, structured filtering, and the in-memory fallback. It never
// returns an error for a well-formed query; tier failures become ladder
// transitions.
type Service struct {
	semantic SemanticRepo
	products ProductsRepo
	fallback FallbackRepo
	tierWait time.Duration
	logger   *zap.Logger
}

// New creates the search orchestrator. tierWait bounds each remote tier
// attempt; zero disables the per-tier timeout.
func New(semantic SemanticRepo, products ProductsRepo, fallback FallbackRepo, tierWait time.Duration, logger *zap.Logger) *Service {
	return &Service{
		semantic: semantic,
		products: products,
		fallback: fallback,
		tierWait: tierWait,
		logger:   logger,
	}
}

// Search executes one query through the ladder. The only errors it returns
// are validation failures (domain.ErrInvalidFilter); availability problems
// degrade instead.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	f, err := s.resolveFilters(ctx, req)
	if err != nil {
		return nil, err
	}
	q := req.Query.WithFilters(f)

	cands := s.semanticTier(ctx, &q, req)
	resp := s.filterTier(ctx, &q, cands)

	metrics.SearchRequestsTotal.WithLabelValues(resp.Tier).Inc()
	metrics.SearchDuration.WithLabelValues(resp.Tier).Observe(time.Since(start).Seconds())

	s.logger.Info("Search completed",
		zap.String("tier", resp.Tier),
		zap.Bool("degraded", resp.Degraded),
		zap.Int("results", len(resp.Results)),
		zap.Int("total", resp.Total),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// semanticTier attempts candidate generation. It returns nil when the tier
// is skipped, empty, or unavailable; the ladder continues either way.
func (s *Service) semanticTier(ctx context.Context, q *query.Query, req Request) []candidate.Candidate {
	if !q.UseSemantic() || deadlineExceeded(ctx) {
		return nil
	}

	tctx, cancel := s.tierContext(ctx)
	defer cancel()

	hint := db.TagHint{Brand: req.Brand, Category: req.Category}
	cands, err := s.semantic.Search(tctx, q.Text(), hint, q.Limit())
	if err != nil {
		metrics.SearchTierTransitionsTotal.WithLabelValues(tierSemantic, "index_unavailable").Inc()
		s.logger.Warn("Semantic tier unavailable, continuing structured-only",
			zap.String("query", q.Text()),
			zap.Error(err),
		)
		return nil
	}
	return cands
}

// filterTier runs the exact-filter stage against the structured store,
// stepping down to the in-memory fallback on unavailability. When candidates
// exist the fallback stays restricted to the candidate id set so semantic
// narrowing is never thrown away.
func (s *Service) filterTier(ctx context.Context, q *query.Query, cands []candidate.Candidate) *Response {
	if deadlineExceeded(ctx) {
		metrics.SearchTierTransitionsTotal.WithLabelValues(tierStructured, "deadline").Inc()
		return s.fallbackTier(ctx, q, cands, "deadline exceeded")
	}

	tctx, cancel := s.tierContext(ctx)
	defer cancel()

	if len(cands) > 0 {
		rows, err := s.products.FilterByIDs(tctx, q.Filters(), candidate.IDs(cands))
		if err != nil {
			metrics.SearchTierTransitionsTotal.WithLabelValues(tierStructured, "store_unavailable").Inc()
			s.logger.Warn("Structured tier unavailable, falling back within candidate set", zap.Error(err))
			return s.fallbackTier(ctx, q, cands, "store unavailable")
		}
		merged, total := mergeRanked(cands, rows, mergeOptions{
			restrict: true,
			order:    q.Sort(),
			offset:   q.Offset(),
			limit:    q.Limit(),
		})
		return s.respond(merged, total, tierSemantic+"+"+tierStructured, false)
	}

	rows, total, err := s.products.FilterSearch(tctx, q.Text(), q.Filters(), q.Sort(), q.Offset()+q.Limit())
	if err != nil {
		metrics.SearchTierTransitionsTotal.WithLabelValues(tierStructured, "store_unavailable").Inc()
		s.logger.Warn("Structured tier unavailable, falling back unrestricted", zap.Error(err))
		return s.fallbackTier(ctx, q, nil, "store unavailable")
	}
	merged, _ := mergeRanked(nil, rows, mergeOptions{
		order:  q.Sort(),
		offset: q.Offset(),
		limit:  q.Limit(),
	})
	return s.respond(merged, total, tierStructured, false)
}

// fallbackTier is the terminal rung. It cannot fail.
func (s *Service) fallbackTier(ctx context.Context, q *query.Query, cands []candidate.Candidate, cause string) *Response {
	metrics.SearchTierTransitionsTotal.WithLabelValues(tierFallback, "entered").Inc()

	var (
		restrictTo []string
		text       string
		tier       = tierFallback
	)
	if len(cands) > 0 {
		restrictTo = candidate.IDs(cands)
		tier = tierSemantic + "+" + tierFallback
	} else {
		text = q.Text()
	}

	rows := s.fallback.Search(ctx, text, q.Filters(), restrictTo)
	merged, total := mergeRanked(cands, rows, mergeOptions{
		restrict: len(cands) > 0,
		order:    q.Sort(),
		offset:   q.Offset(),
		limit:    q.Limit(),
	})

	s.logger.Info("Fallback tier served the query",
		zap.String("cause", cause),
		zap.Int("total", total),
	)
	return s.respond(merged, total, tier, true)
}

// resolveFilters turns brand/category names into id filters. Both lookups
// run concurrently; on store unavailability the snapshot vocabulary answers
// instead. A name neither source knows is an invalid filter value.
func (s *Service) resolveFilters(ctx context.Context, req Request) (filter.Set, error) {
	f := req.Query.Filters()

	lex := s.fallback.Lexicon()
	if req.Query.Filters().Size() != "" && !lex.KnownSize(req.Query.Filters().Size()) {
		return filter.Set{}, domain.NewInvalidFilter("size", req.Query.Filters().Size())
	}
	if req.Query.Filters().Color() != "" && !lex.KnownColor(req.Query.Filters().Color()) {
		return filter.Set{}, domain.NewInvalidFilter("color", req.Query.Filters().Color())
	}

	if req.Brand == "" && req.Category == "" {
		return f, nil
	}

	var brandID, categoryID *int64
	g, gctx := errgroup.WithContext(ctx)

	if req.Brand != "" {
		g.Go(func() error {
			id, err := s.resolveName(gctx, "brand", req.Brand)
			if err != nil {
				return err
			}
			brandID = &id
			return nil
		})
	}
	if req.Category != "" {
		g.Go(func() error {
			id, err := s.resolveName(gctx, "category", req.Category)
			if err != nil {
				return err
			}
			categoryID = &id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return filter.Set{}, err
	}

	if brandID != nil {
		f = f.WithBrand(*brandID)
	}
	if categoryID != nil {
		f = f.WithCategory(*categoryID)
	}
	return f, nil
}

func (s *Service) resolveName(ctx context.Context, kind, name string) (int64, error) {
	var (
		id  int64
		err error
	)
	switch kind {
	case "brand":
		var b domain.Brand
		b, err = s.products.BrandByName(ctx, name)
		id = b.ID
	default:
		var c domain.Category
		c, err = s.products.CategoryByName(ctx, name)
		id = c.ID
	}
	if err == nil {
		return id, nil
	}

	if errors.Is(err, domain.ErrStoreUnavailable) {
		s.logger.Warn("Name lookup degraded to snapshot vocabulary",
			zap.String("kind", kind),
			zap.String("name", name),
			zap.Error(err),
		)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("resolve %s: %w", kind, err)
	}

	lex := s.fallback.Lexicon()
	if kind == "brand" {
		if lid, ok := lex.BrandID(name); ok {
			return lid, nil
		}
	} else {
		if lid, ok := lex.CategoryID(name); ok {
			return lid, nil
		}
	}
	return 0, domain.NewInvalidFilter(kind, name)
}

func (s *Service) respond(merged []mergedRow, total int, tier string, degraded bool) *Response {
	results := make([]result.Ranked, len(merged))
	for i, m := range merged {
		results[i] = result.New(
			m.product,
			s.fallback.BrandName(m.product.BrandID),
			s.fallback.CategoryName(m.product.CategoryID),
			m.relevance,
		)
	}
	return &Response{
		Results:  results,
		Total:    total,
		Tier:     tier,
		Degraded: degraded,
	}
}

func (s *Service) tierContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.tierWait <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.tierWait)
}

// deadlineExceeded reports whether the caller-supplied deadline has already
// passed at a tier boundary.
func deadlineExceeded(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return true
	}
	return false
}
