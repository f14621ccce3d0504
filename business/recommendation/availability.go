package recommendation

import (
	"context"
	"fmt"
	"strings"

	"myGreenCart/domain"
	"myGreenCart/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// AvailabilityChecker resolves how many stores near a cart sell each product.
type AvailabilityChecker struct {
	carts       CartRepository
	catalog     ProductCatalog
	stores      StoreAvailabilityService
	suffixes    []string
	concurrency int
}

func NewAvailabilityChecker(carts CartRepository, catalog ProductCatalog, stores StoreAvailabilityService, cfg Config) *AvailabilityChecker {
	cfg = cfg.withDefaults()
	return &AvailabilityChecker{
		carts:       carts,
		catalog:     catalog,
		stores:      stores,
		suffixes:    cfg.CountrySuffixes,
		concurrency: cfg.LookupConcurrency,
	}
}

// Availability is the outcome of one Lookup. Products whose lookup failed
// are absent from Counts.
type Availability struct {
	Counts   map[uint64]int
	Products map[uint64]domain.Product
}

// Filter keeps, in order, the products with at least one nearby store.
func (a Availability) Filter(productIDs []uint64) []uint64 {
	out := make([]uint64, 0, len(productIDs))
	for _, pid := range productIDs {
		if a.Counts[pid] > 0 {
			out = append(out, pid)
		}
	}
	return out
}

// Lookup queries store counts for every product concurrently. Catalog and
// per-product lookup failures are logged and leave the product without a
// count; only cart resolution errors are returned.
func (c *AvailabilityChecker) Lookup(ctx context.Context, cartID uint64, productIDs []uint64) (Availability, error) {
	out := Availability{
		Counts:   make(map[uint64]int, len(productIDs)),
		Products: map[uint64]domain.Product{},
	}

	cart, err := c.carts.GetCart(ctx, cartID)
	if err != nil {
		return out, fmt.Errorf("load cart: %w", err)
	}
	address := NormalizeAddress(cart.Address, c.suffixes)
	if address == "" {
		return out, ErrCartAddressMissing
	}

	products, err := c.catalog.FindByIDs(ctx, productIDs)
	if err != nil {
		logger.Warn("reco_catalog_lookup_failed",
			"trace_id", TraceIDFromContext(ctx),
			"cart_id", cartID,
			"error", err,
		)
		AvailabilityLookupsTotal.WithLabelValues("catalog_error").Add(float64(len(productIDs)))
		return out, nil
	}
	out.Products = products

	counts := make([]int, len(productIDs))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, pid := range productIDs {
		p, ok := products[pid]
		if !ok {
			counts[i] = -1
			AvailabilityLookupsTotal.WithLabelValues("unknown_product").Inc()
			continue
		}
		g.Go(func() error {
			n, err := c.stores.Count(ctx, p.ProductName, address)
			if err != nil {
				counts[i] = -1
				AvailabilityLookupsTotal.WithLabelValues("error").Inc()
				logger.Warn("reco_availability_lookup_failed",
					"trace_id", TraceIDFromContext(ctx),
					"product_id", pid,
					"error", err,
				)
				return nil
			}
			counts[i] = n
			AvailabilityLookupsTotal.WithLabelValues("ok").Inc()
			return nil
		})
	}
	_ = g.Wait()

	for i, pid := range productIDs {
		if counts[i] >= 0 {
			out.Counts[pid] = counts[i]
		}
	}
	return out, nil
}

const addressTrailingPunct = " \t,.;:-"

// NormalizeAddress trims a trailing country name and trailing punctuation.
func NormalizeAddress(address string, countrySuffixes []string) string {
	addr := strings.TrimRight(strings.TrimSpace(address), addressTrailingPunct)

	if idx := strings.LastIndex(addr, ","); idx >= 0 {
		last := strings.TrimSpace(addr[idx+1:])
		for _, suffix := range countrySuffixes {
			if strings.EqualFold(last, suffix) {
				addr = strings.TrimRight(addr[:idx], addressTrailingPunct)
				break
			}
		}
	}

	return addr
}
