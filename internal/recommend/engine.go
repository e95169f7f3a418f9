// Package recommend implements the collaborative-filtering recommender: a
// co-purchase graph, a recent-window popularity index and a category index,
// built in memory from order history and queried for item, customer and cart
// recommendations.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
)

// Store is the read side of the order/catalog database the engine trains from.
// Implementations only return orders in fulfilled-ish states (processing,
// shipped, delivered).
type Store interface {
	// FulfilledOrders returns all orders with their line items.
	FulfilledOrders(ctx context.Context) ([]models.Order, error)
	// ProductActivitySince returns per-product order counts and summed
	// quantities for orders created at or after since.
	ProductActivitySince(ctx context.Context, since time.Time) ([]models.ProductActivity, error)
	// ActiveProducts returns the purchasable catalog with category ids.
	ActiveProducts(ctx context.Context) ([]models.Product, error)
	// CustomerRecentOrders returns a customer's most recent orders.
	CustomerRecentOrders(ctx context.Context, customerID string, limit int) ([]models.Order, error)
}

// Config holds the recommender tunables. Like the forecast weights these are
// heuristic defaults, surfaced here instead of being buried as literals.
type Config struct {
	PopularityWindowDays int     // trailing window for the popularity index
	OrderCountWeight     float64 // popularity blend: distinct orders
	QuantityWeight       float64 // popularity blend: quantity sold
	CoPurchaseSaturation float64 // co-purchase count at which score reaches 1
	PartnerSaturation    float64 // partner count saturation for personalization
	QuantitySaturation   float64 // purchased quantity saturation for personalization
	CategoryBaseScore    float64 // base score for same-category candidates
	CategoryPopWeight    float64 // popularity contribution for same-category candidates
	PopularFillWeight    float64 // popularity multiplier for popular fill candidates
	CustomerOrderLimit   int     // how many recent orders to read per customer
	MLWeight             float64 // hybrid blend weight for CF-derived scores
	RuleWeight           float64 // hybrid blend weight for rule-based scores
}

// DefaultConfig returns the recommender defaults.
func DefaultConfig() Config {
	return Config{
		PopularityWindowDays: 30,
		OrderCountWeight:     0.7,
		QuantityWeight:       0.3,
		CoPurchaseSaturation: 10,
		PartnerSaturation:    5,
		QuantitySaturation:   10,
		CategoryBaseScore:    0.3,
		CategoryPopWeight:    0.4,
		PopularFillWeight:    0.5,
		CustomerOrderLimit:   20,
		MLWeight:             0.6,
		RuleWeight:           0.4,
	}
}

// snapshot is one fully built set of indices. Train builds a fresh snapshot
// and swaps it in atomically, so readers never observe a half-rebuilt index.
type snapshot struct {
	graph           *PairGraph
	popularity      map[string]float64
	popularRanking  []string // product ids by descending popularity
	categories      map[string][]string
	productCategory map[string]string
	stats           models.TrainStats
}

// Engine is the collaborative-filtering recommender. All read methods lazily
// train on first use; Train may also be called explicitly (warm-up, cron).
type Engine struct {
	store  Store
	cfg    Config
	logger *slog.Logger

	current atomic.Pointer[snapshot]
	trainMu sync.Mutex
}

// NewEngine constructs an untrained Engine.
func NewEngine(store Store, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{store: store, cfg: cfg, logger: logger}
}

// LastTrainedAt reports when the current indices were built, or nil when the
// engine has not trained yet in this process.
func (e *Engine) LastTrainedAt() *time.Time {
	snap := e.current.Load()
	if snap == nil {
		return nil
	}
	t := snap.stats.TrainedAt
	return &t
}

// Train rebuilds all indices from the store and swaps them in. It is
// idempotent and safe to call at any time; concurrent callers serialize.
func (e *Engine) Train(ctx context.Context) (models.TrainStats, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()

	orders, err := e.store.FulfilledOrders(ctx)
	if err != nil {
		return models.TrainStats{}, fmt.Errorf("failed to load orders: %w", err)
	}

	since := start.AddDate(0, 0, -e.cfg.PopularityWindowDays)
	activity, err := e.store.ProductActivitySince(ctx, since)
	if err != nil {
		return models.TrainStats{}, fmt.Errorf("failed to load product activity: %w", err)
	}

	products, err := e.store.ActiveProducts(ctx)
	if err != nil {
		return models.TrainStats{}, fmt.Errorf("failed to load products: %w", err)
	}

	graph := NewPairGraph()
	for _, order := range orders {
		ids := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			ids = append(ids, item.ProductID)
		}
		graph.AddOrder(ids)
	}

	popularity := buildPopularity(activity, e.cfg)
	ranking := rankByScore(popularity)

	categories := make(map[string][]string)
	productCategory := make(map[string]string, len(products))
	for _, p := range products {
		if p.CategoryID == "" {
			continue
		}
		categories[p.CategoryID] = append(categories[p.CategoryID], p.ID)
		productCategory[p.ID] = p.CategoryID
	}

	stats := models.TrainStats{
		Orders:          len(orders),
		Products:        len(products),
		CoPurchasePairs: graph.Pairs(),
		Categories:      len(categories),
		TrainedAt:       start,
		Duration:        time.Since(start).String(),
	}

	e.current.Store(&snapshot{
		graph:           graph,
		popularity:      popularity,
		popularRanking:  ranking,
		categories:      categories,
		productCategory: productCategory,
		stats:           stats,
	})

	e.logger.Info("recommendation indices rebuilt",
		"orders", stats.Orders,
		"products", stats.Products,
		"co_purchase_pairs", stats.CoPurchasePairs,
		"categories", stats.Categories,
		"duration", stats.Duration)

	return stats, nil
}

// ensureTrained is the single guard every read path funnels through: it
// returns the current snapshot, training first if none exists yet.
func (e *Engine) ensureTrained(ctx context.Context) (*snapshot, error) {
	if snap := e.current.Load(); snap != nil {
		return snap, nil
	}
	if _, err := e.Train(ctx); err != nil {
		return nil, err
	}
	return e.current.Load(), nil
}

// SimilarProducts returns item-based "customers who bought this also bought"
// recommendations. The queried product never appears in its own results.
func (e *Engine) SimilarProducts(ctx context.Context, productID string, limit int) ([]models.ProductScore, error) {
	if limit <= 0 {
		return nil, nil
	}

	snap, err := e.ensureTrained(ctx)
	if err != nil {
		return nil, err
	}

	scores := make([]models.ProductScore, 0, limit)
	present := map[string]bool{productID: true}

	for _, neighbor := range snap.graph.Neighbors(productID) {
		if present[neighbor.ProductID] {
			continue
		}
		present[neighbor.ProductID] = true
		scores = append(scores, models.ProductScore{
			ProductID: neighbor.ProductID,
			Score:     saturate(float64(neighbor.Count), e.cfg.CoPurchaseSaturation),
			Reason:    fmt.Sprintf("bought together in %d orders", neighbor.Count),
			Method:    models.MethodCollaborative,
		})
	}

	// Fill remaining slots with same-category products.
	if len(scores) < limit {
		for _, id := range snap.categories[snap.productCategory[productID]] {
			if len(scores) >= limit {
				break
			}
			if present[id] {
				continue
			}
			present[id] = true
			scores = append(scores, models.ProductScore{
				ProductID: id,
				Score:     e.cfg.CategoryBaseScore + snap.popularity[id]*e.cfg.CategoryPopWeight,
				Reason:    "same category",
				Method:    models.MethodContent,
			})
		}
	}

	// Finally fall back to globally popular products.
	if len(scores) < limit {
		for _, id := range snap.popularRanking {
			if len(scores) >= limit {
				break
			}
			if present[id] {
				continue
			}
			present[id] = true
			scores = append(scores, models.ProductScore{
				ProductID: id,
				Score:     snap.popularity[id] * e.cfg.PopularFillWeight,
				Reason:    "popular with other customers",
				Method:    models.MethodPopularity,
			})
		}
	}

	sortScores(scores)
	return truncate(scores, limit), nil
}

// PersonalizedRecommendations recommends products for a customer based on
// their purchase history. Customers without history get popular products.
func (e *Engine) PersonalizedRecommendations(ctx context.Context, customerID string, limit int) ([]models.ProductScore, error) {
	if limit <= 0 {
		return nil, nil
	}

	snap, err := e.ensureTrained(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := e.store.CustomerRecentOrders(ctx, customerID, e.cfg.CustomerOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer orders: %w", err)
	}

	if len(orders) == 0 {
		return e.popularFromSnapshot(snap, limit), nil
	}

	// Weight each purchased product by how much of it the customer bought.
	purchasedQty := make(map[string]int)
	for _, order := range orders {
		for _, item := range order.Items {
			purchasedQty[item.ProductID] += item.Quantity
		}
	}

	type candidate struct {
		score   float64
		reasons []string
	}
	candidates := make(map[string]*candidate)

	for productID, qty := range purchasedQty {
		weight := saturate(float64(qty), e.cfg.QuantitySaturation)
		for _, neighbor := range snap.graph.Neighbors(productID) {
			if _, bought := purchasedQty[neighbor.ProductID]; bought {
				continue
			}
			c := candidates[neighbor.ProductID]
			if c == nil {
				c = &candidate{}
				candidates[neighbor.ProductID] = c
			}
			c.score += weight * saturate(float64(neighbor.Count), e.cfg.PartnerSaturation)
			reason := fmt.Sprintf("related to your purchase history (%d co-orders)", neighbor.Count)
			if !contains(c.reasons, reason) {
				c.reasons = append(c.reasons, reason)
			}
		}
	}

	scores := make([]models.ProductScore, 0, len(candidates))
	for id, c := range candidates {
		scores = append(scores, models.ProductScore{
			ProductID: id,
			Score:     c.score,
			Reason:    joinReasons(c.reasons),
			Method:    models.MethodHybrid,
		})
	}
	sortScores(scores)

	// Top up with popular products the customer has not bought yet.
	if len(scores) < limit {
		present := make(map[string]bool, len(scores))
		for _, s := range scores {
			present[s.ProductID] = true
		}
		for _, id := range snap.popularRanking {
			if len(scores) >= limit {
				break
			}
			if present[id] {
				continue
			}
			if _, bought := purchasedQty[id]; bought {
				continue
			}
			scores = append(scores, models.ProductScore{
				ProductID: id,
				Score:     snap.popularity[id] * e.cfg.PopularFillWeight,
				Reason:    "popular with other customers",
				Method:    models.MethodPopularity,
			})
		}
	}

	return truncate(scores, limit), nil
}

// FrequentlyBoughtTogether suggests bundle additions for a cart. Products
// already in the cart are never returned.
func (e *Engine) FrequentlyBoughtTogether(ctx context.Context, cartIDs []string, limit int) ([]models.ProductScore, error) {
	if limit <= 0 || len(cartIDs) == 0 {
		return nil, nil
	}

	snap, err := e.ensureTrained(ctx)
	if err != nil {
		return nil, err
	}

	inCart := make(map[string]bool, len(cartIDs))
	for _, id := range cartIDs {
		inCart[id] = true
	}

	// Union partner counts across cart items sharing a partner.
	summed := make(map[string]int)
	for _, id := range cartIDs {
		for _, neighbor := range snap.graph.Neighbors(id) {
			if inCart[neighbor.ProductID] {
				continue
			}
			summed[neighbor.ProductID] += neighbor.Count
		}
	}

	scores := make([]models.ProductScore, 0, len(summed))
	for id, count := range summed {
		scores = append(scores, models.ProductScore{
			ProductID: id,
			Score:     saturate(float64(count), e.cfg.CoPurchaseSaturation),
			Reason:    fmt.Sprintf("frequently bought with items in your cart (%d co-orders)", count),
			Method:    models.MethodAssociation,
		})
	}

	sortScores(scores)
	return truncate(scores, limit), nil
}

// PopularProducts is the no-history fallback: the popularity index, ranked.
func (e *Engine) PopularProducts(ctx context.Context, limit int) ([]models.ProductScore, error) {
	if limit <= 0 {
		return nil, nil
	}

	snap, err := e.ensureTrained(ctx)
	if err != nil {
		return nil, err
	}
	return e.popularFromSnapshot(snap, limit), nil
}

// RuleBasedCandidates produces the non-CF candidate list the hybrid blend
// layer mixes in: same-category products plus overall popular ones.
func (e *Engine) RuleBasedCandidates(ctx context.Context, productID string, limit int) ([]models.ProductScore, error) {
	if limit <= 0 {
		return nil, nil
	}

	snap, err := e.ensureTrained(ctx)
	if err != nil {
		return nil, err
	}

	scores := make([]models.ProductScore, 0, limit)
	present := map[string]bool{productID: true}

	for _, id := range snap.categories[snap.productCategory[productID]] {
		if len(scores) >= limit {
			break
		}
		if present[id] {
			continue
		}
		present[id] = true
		scores = append(scores, models.ProductScore{
			ProductID: id,
			Score:     e.cfg.CategoryBaseScore + snap.popularity[id]*e.cfg.CategoryPopWeight,
			Reason:    "same category",
			Method:    models.MethodContent,
		})
	}

	for _, id := range snap.popularRanking {
		if len(scores) >= limit {
			break
		}
		if present[id] {
			continue
		}
		present[id] = true
		scores = append(scores, models.ProductScore{
			ProductID: id,
			Score:     snap.popularity[id] * e.cfg.PopularFillWeight,
			Reason:    "popular with other customers",
			Method:    models.MethodPopularity,
		})
	}

	sortScores(scores)
	return truncate(scores, limit), nil
}

func (e *Engine) popularFromSnapshot(snap *snapshot, limit int) []models.ProductScore {
	scores := make([]models.ProductScore, 0, limit)
	for _, id := range snap.popularRanking {
		if len(scores) >= limit {
			break
		}
		scores = append(scores, models.ProductScore{
			ProductID: id,
			Score:     snap.popularity[id],
			Reason:    fmt.Sprintf("popular in the last %d days", e.cfg.PopularityWindowDays),
			Method:    models.MethodPopularity,
		})
	}
	return scores
}

// buildPopularity normalizes recent order counts and quantities against the
// maximum observed so the top product scores at or near 1.
func buildPopularity(activity []models.ProductActivity, cfg Config) map[string]float64 {
	popularity := make(map[string]float64, len(activity))
	if len(activity) == 0 {
		return popularity
	}

	var maxOrders, maxQty int
	for _, a := range activity {
		if a.OrderCount > maxOrders {
			maxOrders = a.OrderCount
		}
		if a.TotalQuantity > maxQty {
			maxQty = a.TotalQuantity
		}
	}

	for _, a := range activity {
		var orderScore, qtyScore float64
		if maxOrders > 0 {
			orderScore = float64(a.OrderCount) / float64(maxOrders)
		}
		if maxQty > 0 {
			qtyScore = float64(a.TotalQuantity) / float64(maxQty)
		}
		popularity[a.ProductID] = cfg.OrderCountWeight*orderScore + cfg.QuantityWeight*qtyScore
	}

	return popularity
}

func rankByScore(popularity map[string]float64) []string {
	ids := make([]string, 0, len(popularity))
	for id := range popularity {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if popularity[ids[i]] != popularity[ids[j]] {
			return popularity[ids[i]] > popularity[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// saturate maps a count onto [0, 1], reaching 1 at the saturation point.
func saturate(value, saturation float64) float64 {
	if saturation <= 0 {
		return 0
	}
	s := value / saturation
	if s > 1 {
		return 1
	}
	return s
}

func sortScores(scores []models.ProductScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}

func truncate(scores []models.ProductScore, limit int) []models.ProductScore {
	if len(scores) > limit {
		return scores[:limit]
	}
	return scores
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinReasons(reasons []string) string {
	switch len(reasons) {
	case 0:
		return ""
	case 1:
		return reasons[0]
	default:
		joined := reasons[0]
		for _, r := range reasons[1:] {
			joined += "; " + r
		}
		return joined
	}
}
