package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"myGreenCart/pkg/logger"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

type ClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RequestsPerSec  float64
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Client asks the store availability service how many stores near an
// address sell a product. Calls are rate limited and go through a circuit
// breaker; an open breaker fails fast with gobreaker.ErrOpenState.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[int]
}

type countResponse struct {
	Count int `json:"count"`
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
		burst = max(1, int(cfg.RequestsPerSec))
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:    "store-availability",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("availability_breaker_state_changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
	}
}

// Count calls GET {base}/stores/count?product=...&address=... and returns
// the "count" field of the JSON body.
func (c *Client) Count(ctx context.Context, productName, normalizedAddress string) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("availability rate limit: %w", err)
	}

	return c.breaker.Execute(func() (int, error) {
		return c.count(ctx, productName, normalizedAddress)
	})
}

func (c *Client) count(ctx context.Context, productName, normalizedAddress string) (int, error) {
	q := url.Values{}
	q.Set("product", productName)
	q.Set("address", normalizedAddress)
	endpoint := c.baseURL + "/stores/count?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build availability request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("availability request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return 0, fmt.Errorf("availability service returned %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out countResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode availability response: %w", err)
	}
	if out.Count < 0 {
		out.Count = 0
	}
	return out.Count, nil
}

// State reports the breaker state for health output.
func (c *Client) State() string {
	return c.breaker.State().String()
}
