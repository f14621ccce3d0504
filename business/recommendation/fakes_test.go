package recommendation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"myGreenCart/domain"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n float64) time.Time {
	return testNow.Add(-time.Duration(n * float64(24*time.Hour)))
}

func purchase(cartID, productID uint64, qty int, at time.Time) domain.PurchaseEvent {
	return domain.PurchaseEvent{CartID: cartID, ProductID: productID, Quantity: qty, OccurredAt: at}
}

// ---- purchases ----

type fakePurchases struct {
	mu     sync.Mutex
	events []domain.PurchaseEvent
	calls  int
	err    error
	// failWhen makes matching queries fail with errBoom.
	failWhen func(PurchaseFilter) bool
}

func (f *fakePurchases) Query(_ context.Context, filter PurchaseFilter) ([]domain.PurchaseEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failWhen != nil && f.failWhen(filter) {
		return nil, errBoom
	}

	out := make([]domain.PurchaseEvent, 0)
	for _, ev := range f.events {
		if filter.CartID != nil && ev.CartID != *filter.CartID {
			continue
		}
		if filter.ProductID != nil && ev.ProductID != *filter.ProductID {
			continue
		}
		if !filter.Since.IsZero() && ev.OccurredAt.Before(filter.Since) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (f *fakePurchases) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// ---- rejections ----

type fakeRejections struct {
	mu     sync.Mutex
	events []domain.RejectionEvent
}

func (f *fakeRejections) Query(_ context.Context, cartID uint64, productIDs []uint64, since time.Time) ([]domain.RejectionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := newProductSet(productIDs)
	out := make([]domain.RejectionEvent, 0)
	for _, r := range f.events {
		if r.CartID == cartID && want.has(r.ProductID) && !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRejections) Create(_ context.Context, ev *domain.RejectionEvent, expiredBefore time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.events {
		if r.CartID == ev.CartID && r.ProductID == ev.ProductID && r.RejectedBy == ev.RejectedBy {
			if !r.CreatedAt.Before(expiredBefore) {
				return ErrDuplicateRejection
			}
			f.events = append(f.events[:i], f.events[i+1:]...)
			break
		}
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = testNow
	}
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeRejections) Delete(_ context.Context, cartID, productID uint64, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.events {
		if r.CartID == cartID && r.ProductID == productID && r.RejectedBy == userID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return ErrRejectionNotFound
}

// ---- favorites, carts, catalog ----

type fakeFavorites map[uint][]uint64

func (f fakeFavorites) ProductIDs(_ context.Context, userID uint) (map[uint64]struct{}, error) {
	return newProductSet(f[userID]), nil
}

type fakeCarts struct {
	carts map[uint64]domain.Cart
	items map[uint64][]uint64
}

func (f *fakeCarts) GetCart(_ context.Context, cartID uint64) (domain.Cart, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return domain.Cart{}, ErrCartNotFound
	}
	return c, nil
}

func (f *fakeCarts) ItemProductIDs(_ context.Context, cartID uint64) ([]uint64, error) {
	return f.items[cartID], nil
}

type fakeCatalog struct {
	products map[uint64]domain.Product
	err      error
}

func (f *fakeCatalog) FindByIDs(_ context.Context, ids []uint64) (map[uint64]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uint64]domain.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// ---- store availability ----

type fakeStores struct {
	mu        sync.Mutex
	counts    map[string]int
	errs      map[string]error
	addresses []string
}

func (f *fakeStores) Count(_ context.Context, productName, address string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addresses = append(f.addresses, address)
	if err, ok := f.errs[productName]; ok {
		return 0, err
	}
	return f.counts[productName], nil
}

// ---- caches ----

type fakeTrendingCache struct {
	mu    sync.Mutex
	entry *domain.TrendingCacheEntry
	sets  int
}

func (f *fakeTrendingCache) GetTrending(context.Context) (*domain.TrendingCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entry == nil {
		return nil, nil
	}
	e := *f.entry
	return &e, nil
}

func (f *fakeTrendingCache) SetTrending(_ context.Context, entry domain.TrendingCacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entry = &entry
	f.sets++
	return nil
}

type fakeCoPurchaseCache struct {
	mu      sync.Mutex
	entries map[uint64]domain.CoPurchaseCacheEntry
	sets    int
}

func newFakeCoPurchaseCache() *fakeCoPurchaseCache {
	return &fakeCoPurchaseCache{entries: map[uint64]domain.CoPurchaseCacheEntry{}}
}

func (f *fakeCoPurchaseCache) GetCoPurchase(_ context.Context, src uint64) (*domain.CoPurchaseCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[src]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeCoPurchaseCache) SetCoPurchase(_ context.Context, entry domain.CoPurchaseCacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entry.SourceProductID] = entry
	f.sets++
	return nil
}

// ---- training ----

type fakeExamples struct {
	mu       sync.Mutex
	examples []domain.TrainingExample
	nextID   uint64
}

func (f *fakeExamples) Create(_ context.Context, ex *domain.TrainingExample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ex.ID = f.nextID
	f.examples = append(f.examples, *ex)
	return nil
}

func (f *fakeExamples) DeleteOne(_ context.Context, productID uint64, label int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.examples) - 1; i >= 0; i-- {
		ex := f.examples[i]
		if ex.ProductID == productID && ex.Label == label {
			f.examples = append(f.examples[:i], f.examples[i+1:]...)
			return nil
		}
	}
	return ErrExampleNotFound
}

func (f *fakeExamples) ListAll(context.Context) ([]domain.TrainingExample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TrainingExample(nil), f.examples...), nil
}

func (f *fakeExamples) count(productID uint64, label int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ex := range f.examples {
		if ex.ProductID == productID && ex.Label == label {
			n++
		}
	}
	return n
}

type fakeWeights struct {
	mu       sync.Mutex
	weights  map[string]float64
	replaces int
	err      error
}

func (f *fakeWeights) Load(context.Context) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]float64, len(f.weights))
	for k, v := range f.weights {
		out[k] = v
	}
	return out, nil
}

func (f *fakeWeights) ReplaceAll(_ context.Context, w map[string]float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.weights = make(map[string]float64, len(w))
	for k, v := range w {
		f.weights[k] = v
	}
	f.replaces++
	return nil
}

var errBoom = errors.New("boom")

// ---- fixture ----

type fixture struct {
	purchases  *fakePurchases
	rejections *fakeRejections
	favorites  fakeFavorites
	carts      *fakeCarts
	catalog    *fakeCatalog
	stores     *fakeStores
	trending   *fakeTrendingCache
	coPurchase *fakeCoPurchaseCache
	examples   *fakeExamples
	weights    *fakeWeights
}

func newFixture() *fixture {
	return &fixture{
		purchases:  &fakePurchases{},
		rejections: &fakeRejections{},
		favorites:  fakeFavorites{},
		carts: &fakeCarts{
			carts: map[uint64]domain.Cart{1: {ID: 1, Name: "home", Address: "Jl. Sudirman 1, Jakarta, Indonesia."}},
			items: map[uint64][]uint64{},
		},
		catalog:    &fakeCatalog{products: map[uint64]domain.Product{}},
		stores:     &fakeStores{counts: map[string]int{}, errs: map[string]error{}},
		trending:   &fakeTrendingCache{},
		coPurchase: newFakeCoPurchaseCache(),
		examples:   &fakeExamples{},
		weights:    &fakeWeights{},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Purchases:    f.purchases,
		Rejections:   f.rejections,
		Favorites:    f.favorites,
		Carts:        f.carts,
		Catalog:      f.catalog,
		Availability: f.stores,
		Trending:     f.trending,
		CoPurchase:   f.coPurchase,
		Examples:     f.examples,
		Weights:      f.weights,
	}
}

// product registers a catalog product with n nearby stores.
func (f *fixture) product(id uint64, name string, stores int) {
	f.catalog.products[id] = domain.Product{ID: id, ProductName: name, ImageURL: name + ".png"}
	f.stores.counts[name] = stores
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Location = time.UTC
	cfg.CountrySuffixes = []string{"Indonesia"}
	cfg.Iterations = 200
	cfg.LearningRate = 0.5
	return cfg
}

func (f *fixture) service() *RecommendationService {
	svc := NewRecommendationService(f.deps(), testConfig())
	svc.SetClock(func() time.Time { return testNow })
	return svc
}
