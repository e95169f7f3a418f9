package recommend

import (
	"context"
	"log/slog"
	"time"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
)

// Catalog fetches product display metadata for enriching score lists into
// UI-ready payloads. Only active products are returned.
type Catalog interface {
	ProductsByID(ctx context.Context, ids []string) (map[string]models.Product, error)
}

// FallbackObserver counts recommendation requests that degraded to a fallback
// path. Satisfied by the metrics collector.
type FallbackObserver interface {
	ObserveFallback()
}

// Service is the outward-facing recommendation layer: it blends CF scores
// with rule-based ones and enriches results with catalog metadata.
//
// Service methods never propagate store failures to callers; they log and
// degrade to rule-based results or an empty list, since the storefront must
// always render something.
type Service struct {
	engine   *Engine
	catalog  Catalog
	cfg      Config
	logger   *slog.Logger
	observer FallbackObserver
}

// NewService wires the engine to the catalog.
func NewService(engine *Engine, catalog Catalog, cfg Config, logger *slog.Logger) *Service {
	return &Service{engine: engine, catalog: catalog, cfg: cfg, logger: logger}
}

// SetFallbackObserver registers an observer notified whenever a request
// degrades. A nil observer (the default) disables the notifications.
func (s *Service) SetFallbackObserver(o FallbackObserver) {
	s.observer = o
}

func (s *Service) observeFallback() {
	if s.observer != nil {
		s.observer.ObserveFallback()
	}
}

// Train rebuilds the engine indices. Exposed for the warm-up endpoint and the
// retrain scheduler.
func (s *Service) Train(ctx context.Context) (models.TrainStats, error) {
	return s.engine.Train(ctx)
}

// LastTrainedAt reports the engine's current index build time, if any.
func (s *Service) LastTrainedAt() *time.Time {
	return s.engine.LastTrainedAt()
}

// ForProduct returns hybrid recommendations related to one product. The CF
// list is blended with same-category/popularity candidates; if the CF path
// fails the rule-based list is returned alone.
func (s *Service) ForProduct(ctx context.Context, productID string, limit int) []models.RecommendedProduct {
	rule, ruleErr := s.engine.RuleBasedCandidates(ctx, productID, limit)
	if ruleErr != nil {
		s.logger.Error("rule-based recommendation failed", "product_id", productID, "error", ruleErr)
	}

	ml, mlErr := s.engine.SimilarProducts(ctx, productID, limit)
	if mlErr != nil {
		s.logger.Error("collaborative recommendation failed, falling back to rule-based",
			"product_id", productID, "error", mlErr)
		s.observeFallback()
		return s.enrich(ctx, truncate(rule, limit))
	}

	combined := CombineScores(ml, rule, s.cfg.MLWeight, s.cfg.RuleWeight)
	return s.enrich(ctx, truncate(combined, limit))
}

// ForCustomer returns personalized recommendations for a customer, degrading
// to popular products when the CF path fails.
func (s *Service) ForCustomer(ctx context.Context, customerID string, limit int) []models.RecommendedProduct {
	scores, err := s.engine.PersonalizedRecommendations(ctx, customerID, limit)
	if err != nil {
		s.logger.Error("personalized recommendation failed, falling back to popular",
			"customer_id", customerID, "error", err)
		s.observeFallback()
		scores, err = s.engine.PopularProducts(ctx, limit)
		if err != nil {
			s.logger.Error("popular fallback failed", "error", err)
			return nil
		}
	}
	return s.enrich(ctx, scores)
}

// ForCart returns frequently-bought-together suggestions for a cart.
func (s *Service) ForCart(ctx context.Context, cartIDs []string, limit int) []models.RecommendedProduct {
	scores, err := s.engine.FrequentlyBoughtTogether(ctx, cartIDs, limit)
	if err != nil {
		s.logger.Error("frequently-bought-together failed", "cart_size", len(cartIDs), "error", err)
		s.observeFallback()
		return nil
	}
	return s.enrich(ctx, scores)
}

// Popular returns the popularity-ranked fallback list.
func (s *Service) Popular(ctx context.Context, limit int) []models.RecommendedProduct {
	scores, err := s.engine.PopularProducts(ctx, limit)
	if err != nil {
		s.logger.Error("popular products failed", "error", err)
		return nil
	}
	return s.enrich(ctx, scores)
}

// enrich joins scores with catalog metadata. Scores whose product no longer
// exists or is inactive are silently dropped, preserving the score order.
func (s *Service) enrich(ctx context.Context, scores []models.ProductScore) []models.RecommendedProduct {
	if len(scores) == 0 {
		return nil
	}

	ids := make([]string, 0, len(scores))
	for _, score := range scores {
		ids = append(ids, score.ProductID)
	}

	products, err := s.catalog.ProductsByID(ctx, ids)
	if err != nil {
		s.logger.Error("failed to enrich recommendations", "error", err)
		return nil
	}

	enriched := make([]models.RecommendedProduct, 0, len(scores))
	for _, score := range scores {
		product, ok := products[score.ProductID]
		if !ok || !product.Active {
			continue
		}
		enriched = append(enriched, models.RecommendedProduct{
			Product: product,
			Score:   score.Score,
			Reason:  score.Reason,
			Method:  score.Method,
		})
	}
	return enriched
}
