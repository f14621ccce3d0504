package recommendation

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"myGreenCart/domain"
	"myGreenCart/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators of the recommendation pipeline.
type Deps struct {
	Purchases    PurchaseHistoryStore
	Rejections   RejectionStore
	Favorites    FavoritesStore
	Carts        CartRepository
	Catalog      ProductCatalog
	Availability StoreAvailabilityService
	Trending     TrendingCache
	CoPurchase   CoPurchaseCache
	Examples     TrainingExampleStore
	Weights      WeightStore
}

// RecommendationService runs the candidate pipeline:
// generators -> merge -> availability -> features -> ranking.
type RecommendationService struct {
	purchases  PurchaseHistoryStore
	carts      CartRepository
	trending   TrendingCache
	coPurchase CoPurchaseCache

	availability *AvailabilityChecker
	extractor    *FeatureExtractor
	model        *Model

	cfg Config
	now func() time.Time
}

func NewRecommendationService(deps Deps, cfg Config) *RecommendationService {
	cfg = cfg.withDefaults()
	now := time.Now

	return &RecommendationService{
		purchases:    deps.Purchases,
		carts:        deps.Carts,
		trending:     deps.Trending,
		coPurchase:   deps.CoPurchase,
		availability: NewAvailabilityChecker(deps.Carts, deps.Catalog, deps.Availability, cfg),
		extractor:    NewFeatureExtractor(deps.Purchases, deps.Rejections, deps.Favorites, cfg),
		model:        NewModel(deps.Weights, deps.Examples, cfg),
		cfg:          cfg,
		now:          now,
	}
}

// Model exposes the ranking model shared with the recorder and the admin API.
func (s *RecommendationService) Model() *Model {
	return s.model
}

// Extractor exposes the feature extractor shared with the recorder.
func (s *RecommendationService) Extractor() *FeatureExtractor {
	return s.extractor
}

// Availability exposes the availability checker shared with the recorder.
func (s *RecommendationService) Availability() *AvailabilityChecker {
	return s.availability
}

// SetClock replaces the wall clock of the service and the components it owns.
func (s *RecommendationService) SetClock(now func() time.Time) {
	s.now = now
	s.extractor.now = now
}

func (s *RecommendationService) today() string {
	return s.now().In(s.cfg.Location).Format(dayLayout)
}

const dayLayout = "2006-01-02"

// ---- Progress ----

// ProgressEvent is emitted after each generator finishes.
type ProgressEvent struct {
	Stage string `json:"stage"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}

// ProgressFunc receives progress events. It is called from generator
// goroutines and must not block.
type ProgressFunc func(ProgressEvent)

// NonBlocking adapts a channel into a ProgressFunc that drops events when the
// channel is full.
func NonBlocking(ch chan<- ProgressEvent) ProgressFunc {
	return func(ev ProgressEvent) {
		select {
		case ch <- ev:
		default:
		}
	}
}

// ---- Serving ----

type RecommendRequest struct {
	CartID   uint64
	UserID   uint
	K        int
	Progress ProgressFunc
}

type generator struct {
	name string
	run  func(ctx context.Context, req RecommendRequest, cart cartItems, k int) ([]domain.CandidateScore, error)
}

func (s *RecommendationService) generators() []generator {
	return []generator{
		{name: domain.SourceCoPurchase, run: s.coPurchaseCandidates},
		{name: domain.SourceRepurchase, run: s.repurchaseCandidates},
		{name: domain.SourceTrending, run: s.trendingCandidates},
		{name: domain.SourceFrequency, run: s.frequencyCandidates},
	}
}

// Recommend returns ranked candidates for a cart. A generator that fails
// contributes nothing; the rest of the pipeline continues with what succeeded.
func (s *RecommendationService) Recommend(ctx context.Context, req RecommendRequest) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if req.K <= 0 {
		req.K = s.cfg.DefaultK
	}
	startedAt := time.Now()
	tid := TraceIDFromContext(ctx)

	itemIDs, err := s.carts.ItemProductIDs(ctx, req.CartID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	cart := cartItems{ids: itemIDs, set: newProductSet(itemIDs)}

	results := s.runGenerators(ctx, req, cart)

	candidates := mergeCandidates(results, cart.set)

	logger.Debug("reco_candidates_merged",
		"trace_id", tid,
		"cart_id", req.CartID,
		"in_cart", len(cart.ids),
		"candidate_count", len(candidates),
	)

	if len(candidates) == 0 {
		return []domain.Recommendation{}, nil
	}

	avail, err := s.availability.Lookup(ctx, req.CartID, candidates)
	if err != nil {
		return nil, err
	}
	available := avail.Filter(candidates)
	CandidatesDroppedTotal.WithLabelValues("unavailable").Add(float64(len(candidates) - len(available)))

	if len(available) == 0 {
		return []domain.Recommendation{}, nil
	}

	features, err := s.extractor.Extract(ctx, req.CartID, req.UserID, available, avail.Counts)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	scored := make([]Candidate, 0, len(available))
	for _, pid := range available {
		scored = append(scored, Candidate{ProductID: pid, Features: features[pid]})
	}

	ranked, err := s.model.Rank(ctx, scored)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Recommendation, 0, len(ranked))
	for _, rc := range ranked {
		p := avail.Products[rc.ProductID]
		out = append(out, domain.Recommendation{
			ProductID:   rc.ProductID,
			Name:        p.ProductName,
			Image:       p.ImageURL,
			Probability: rc.Probability,
		})
	}

	logger.Debug("reco_recommend",
		"trace_id", tid,
		"cart_id", req.CartID,
		"user_id", req.UserID,
		"k", req.K,
		"returned", len(out),
		"latency_ms", time.Since(startedAt).Milliseconds(),
	)

	return out, nil
}

// runGenerators fans the four generators out and returns their results in
// generator order. Failed generators leave a nil slot.
func (s *RecommendationService) runGenerators(ctx context.Context, req RecommendRequest, cart cartItems) [][]domain.CandidateScore {
	gens := s.generators()
	results := make([][]domain.CandidateScore, len(gens))
	var done atomic.Int32

	var g errgroup.Group
	for i, gen := range gens {
		g.Go(func() error {
			started := time.Now()
			res, err := gen.run(ctx, req, cart, req.K)
			GeneratorDuration.WithLabelValues(gen.name).Observe(time.Since(started).Seconds())

			ev := ProgressEvent{Stage: gen.name, Total: len(gens)}
			if err != nil {
				GeneratorFailuresTotal.WithLabelValues(gen.name).Inc()
				logger.Warn("reco_generator_failed",
					"trace_id", TraceIDFromContext(ctx),
					"generator", gen.name,
					"cart_id", req.CartID,
					"error", err,
				)
				ev.Error = err.Error()
			} else {
				results[i] = res
			}

			ev.Done = int(done.Add(1))
			if req.Progress != nil {
				req.Progress(ev)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// mergeCandidates flattens generator outputs to product ids. Earlier
// generators win on duplicates; in-cart products are dropped.
func mergeCandidates(results [][]domain.CandidateScore, inCart productSet) []uint64 {
	seen := make(productSet)
	out := make([]uint64, 0)
	for _, res := range results {
		for _, c := range res {
			if inCart.has(c.ProductID) || seen.has(c.ProductID) {
				continue
			}
			seen[c.ProductID] = struct{}{}
			out = append(out, c.ProductID)
		}
	}
	return out
}
