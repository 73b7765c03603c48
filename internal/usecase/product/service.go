package product

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/supportly/prodex/internal/domain"
)

// Service answers single-product reads: detail lookups, variant listings
// and availability checks. It prefers the structured store and degrades
// to the snapshot for reads where staleness is acceptable.
type Service struct {
	store    StoreRepo
	snapshot SnapshotRepo
	logger   *zap.Logger
}

func NewService(store StoreRepo, snapshot SnapshotRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, snapshot: snapshot, logger: logger}
}

// Detail returns one product with its brand and category names resolved.
// When the store is unreachable the snapshot serves the read and the
// result is marked degraded. A product absent from both sources is
// domain.ErrNotFound.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	p, brand, category, err := s.store.GetProduct(ctx, id)
	if err == nil {
		return Detail{Product: p, BrandName: brand, CategoryName: category}, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return Detail{}, domain.ErrNotFound
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		return Detail{}, err
	}

	s.logger.Warn("product detail from snapshot, store unavailable",
		zap.String("product_id", id),
		zap.Error(err))
	p, ok := s.snapshot.Product(ctx, id)
	if !ok {
		return Detail{}, domain.ErrNotFound
	}
	return Detail{
		Product:      p,
		BrandName:    s.snapshot.BrandName(p.BrandID),
		CategoryName: s.snapshot.CategoryName(p.CategoryID),
		Degraded:     true,
	}, nil
}

// Variants lists the inventory records of a product, one per (size, color)
// pair. Snapshot records back the store here because a stale listing is
// still useful for presentation.
func (s *Service) Variants(ctx context.Context, productID string) ([]domain.InventoryRecord, error) {
	recs, err := s.store.ProductInventory(ctx, productID)
	if err == nil {
		return recs, nil
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		return nil, err
	}
	s.logger.Warn("variant listing from snapshot, store unavailable",
		zap.String("product_id", productID),
		zap.Error(err))
	return s.snapshot.Inventory(ctx, productID), nil
}

// relatedFallbackLimit caps the snapshot's same-category approximation,
// which has no curated relation rows to bound it.
const relatedFallbackLimit = 10

// Related lists products linked to the given one. The store holds the
// curated relation table; when it is unreachable the snapshot substitutes
// same-category products, filtered to relationType when one is asked for.
func (s *Service) Related(ctx context.Context, productID, relationType string) ([]domain.RelatedProduct, error) {
	recs, err := s.store.Related(ctx, productID, relationType)
	if err == nil {
		return recs, nil
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		return nil, err
	}
	s.logger.Warn("related products from snapshot, store unavailable",
		zap.String("product_id", productID),
		zap.Error(err))

	recs = s.snapshot.Related(ctx, productID, relatedFallbackLimit)
	if relationType == "" {
		return recs, nil
	}
	kept := recs[:0]
	for _, rec := range recs {
		if rec.RelationType == relationType {
			kept = append(kept, rec)
		}
	}
	return kept, nil
}

// Check reports the stock state of one variant. A missing record is a known
// out-of-stock answer with Exists false. A store failure is StockUnknown:
// snapshot quantities are too stale to promise stock, so the check never
// falls back to them.
func (s *Service) Check(ctx context.Context, productID, size, color string) (domain.Availability, error) {
	rec, err := s.store.VariantInventory(ctx, productID, size, color)
	switch {
	case err == nil:
		state := domain.StockOutOfStock
		if rec.Quantity > 0 {
			state = domain.StockInStock
		}
		return domain.Availability{State: state, Exists: true, Quantity: rec.Quantity}, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.Availability{State: domain.StockOutOfStock}, nil
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.logger.Warn("availability unknown, store unavailable",
			zap.String("product_id", productID),
			zap.String("size", size),
			zap.String("color", color),
			zap.Error(err))
		return domain.Availability{State: domain.StockUnknown}, nil
	default:
		return domain.Availability{}, err
	}
}
