package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
)

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	products map[string]models.Product
	err      error
}

func (f *fakeCatalog) ProductsByID(ctx context.Context, ids []string) (map[string]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func activeProduct(id, name string) models.Product {
	return models.Product{ID: id, Name: name, Active: true}
}

func TestForProductBlendsAndEnriches(t *testing.T) {
	store := &fakeStore{
		orders: repeatOrders(8, "cement", "sand"),
	}
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sand": activeProduct("sand", "River Sand"),
	}}

	service := NewService(newTestEngine(store), catalog, DefaultConfig(), testLogger())
	got := service.ForProduct(context.Background(), "cement", 5)

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Name != "River Sand" {
		t.Errorf("Name = %s, want River Sand", got[0].Name)
	}
	// CF-only candidate: 0.8 co-purchase score weighted by the ML share.
	want := 0.8 * DefaultConfig().MLWeight
	if got[0].Score != want {
		t.Errorf("Score = %v, want %v", got[0].Score, want)
	}
}

func TestForCustomerFallsBackToPopular(t *testing.T) {
	store := &fakeStore{
		activity: []models.ProductActivity{
			{ProductID: "cement", OrderCount: 10, TotalQuantity: 100},
		},
		customerErr: errors.New("orders table unavailable"),
	}
	catalog := &fakeCatalog{products: map[string]models.Product{
		"cement": activeProduct("cement", "Portland Cement"),
	}}

	service := NewService(newTestEngine(store), catalog, DefaultConfig(), testLogger())
	got := service.ForCustomer(context.Background(), "builder-1", 5)

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 popular fallback result", len(got))
	}
	if got[0].ID != "cement" || got[0].Method != models.MethodPopularity {
		t.Errorf("fallback = %+v, want popular cement", got[0])
	}
}

func TestEnrichDropsInactiveAndMissing(t *testing.T) {
	store := &fakeStore{
		activity: []models.ProductActivity{
			{ProductID: "cement", OrderCount: 10, TotalQuantity: 100},
			{ProductID: "discontinued", OrderCount: 8, TotalQuantity: 80},
			{ProductID: "ghost", OrderCount: 6, TotalQuantity: 60},
		},
	}
	catalog := &fakeCatalog{products: map[string]models.Product{
		"cement":       activeProduct("cement", "Portland Cement"),
		"discontinued": {ID: "discontinued", Name: "Old Mix", Active: false},
		// "ghost" is absent from the catalog entirely.
	}}

	service := NewService(newTestEngine(store), catalog, DefaultConfig(), testLogger())
	got := service.Popular(context.Background(), 5)

	if len(got) != 1 {
		t.Fatalf("len = %d, want only the active catalog product", len(got))
	}
	if got[0].ID != "cement" {
		t.Errorf("ID = %s, want cement", got[0].ID)
	}
}

func TestServiceDegradesOnCatalogFailure(t *testing.T) {
	store := &fakeStore{
		activity: []models.ProductActivity{
			{ProductID: "cement", OrderCount: 10, TotalQuantity: 100},
		},
	}
	catalog := &fakeCatalog{err: errors.New("catalog unavailable")}

	service := NewService(newTestEngine(store), catalog, DefaultConfig(), testLogger())
	if got := service.Popular(context.Background(), 5); got != nil {
		t.Errorf("Popular with failing catalog = %v, want nil", got)
	}
}

func TestForCartEnrichesSuggestions(t *testing.T) {
	store := &fakeStore{
		orders: []models.Order{
			order("o1", "cement", "sand", "gravel"),
			order("o2", "cement", "gravel"),
		},
	}
	catalog := &fakeCatalog{products: map[string]models.Product{
		"gravel": activeProduct("gravel", "Crushed Gravel"),
	}}

	service := NewService(newTestEngine(store), catalog, DefaultConfig(), testLogger())
	got := service.ForCart(context.Background(), []string{"cement", "sand"}, 5)

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].ID != "gravel" || got[0].Method != models.MethodAssociation {
		t.Errorf("suggestion = %+v, want gravel via association", got[0])
	}
}

type countingObserver struct {
	fallbacks int
}

func (c *countingObserver) ObserveFallback() { c.fallbacks++ }

func TestServiceReportsFallbacks(t *testing.T) {
	store := &fakeStore{
		activity: []models.ProductActivity{
			{ProductID: "cement", OrderCount: 10, TotalQuantity: 100},
		},
		customerErr: errors.New("orders table unavailable"),
	}
	catalog := &fakeCatalog{products: map[string]models.Product{
		"cement": activeProduct("cement", "Portland Cement"),
	}}

	service := NewService(newTestEngine(store), catalog, DefaultConfig(), testLogger())
	observer := &countingObserver{}
	service.SetFallbackObserver(observer)

	service.ForCustomer(context.Background(), "builder-1", 5)
	if observer.fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", observer.fallbacks)
	}

	// The healthy path does not count.
	service.Popular(context.Background(), 5)
	if observer.fallbacks != 1 {
		t.Errorf("fallbacks after healthy request = %d, want 1", observer.fallbacks)
	}
}

func TestServiceTrainExposesStats(t *testing.T) {
	store := &fakeStore{orders: []models.Order{order("o1", "cement", "sand")}}
	service := NewService(newTestEngine(store), &fakeCatalog{}, DefaultConfig(), testLogger())

	if service.LastTrainedAt() != nil {
		t.Error("LastTrainedAt before training should be nil")
	}

	stats, err := service.Train(context.Background())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if stats.Orders != 1 || stats.CoPurchasePairs != 1 {
		t.Errorf("stats = %+v, want 1 order and 1 pair", stats)
	}
	if service.LastTrainedAt() == nil {
		t.Error("LastTrainedAt after training should be set")
	}
}
