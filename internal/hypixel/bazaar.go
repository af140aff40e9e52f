package hypixel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/bazaar-watcher/internal/metrics"
)

const (
	// DefaultBazaarURL is the public Bazaar endpoint.
	DefaultBazaarURL = "https://api.hypixel.net/skyblock/bazaar"

	defaultTimeout = 10 * time.Second
)

// BazaarClient implements PriceSource using the Hypixel Bazaar API.
type BazaarClient struct {
	apiKey    string
	bazaarURL string
	client    *http.Client
	limiter   *rate.Limiter
	nowFunc   func() time.Time
}

// BazaarOption configures the BazaarClient.
type BazaarOption func(*BazaarClient)

// WithBazaarURL overrides the default Bazaar endpoint.
func WithBazaarURL(u string) BazaarOption {
	return func(c *BazaarClient) {
		c.bazaarURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) BazaarOption {
	return func(c *BazaarClient) {
		c.client = hc
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) BazaarOption {
	return func(c *BazaarClient) {
		c.client = &http.Client{Timeout: d}
	}
}

// WithRateLimit paces requests with a token bucket. Every request waits on
// the limiter first. A non-positive perSecond disables pacing.
func WithRateLimit(perSecond float64, burst int) BazaarOption {
	return func(c *BazaarClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) BazaarOption {
	return func(c *BazaarClient) {
		c.nowFunc = f
	}
}

// NewBazaarClient creates a new Bazaar API client.
func NewBazaarClient(apiKey string, opts ...BazaarOption) *BazaarClient {
	c := &BazaarClient{
		apiKey:    apiKey,
		bazaarURL: DefaultBazaarURL,
		client:    &http.Client{Timeout: defaultTimeout},
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SellPrice implements PriceSource.SellPrice.
func (c *BazaarClient) SellPrice(ctx context.Context, productID string) (float64, error) {
	q, err := c.Quote(ctx, productID)
	if err != nil {
		return 0, err
	}
	return q.SellPrice, nil
}

// Quote fetches the quick-status prices for productID. It does not retry.
func (c *BazaarClient) Quote(ctx context.Context, productID string) (*Quote, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	apiResp, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if !apiResp.Success {
		return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, causeOrUnknown(apiResp.Cause))
	}

	product, ok := apiResp.Products[productID]
	if !ok || product.QuickStatus == nil || product.QuickStatus.SellPrice == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	q := &Quote{
		ProductID: productID,
		SellPrice: *product.QuickStatus.SellPrice,
		FetchedAt: c.nowFunc(),
	}
	if product.QuickStatus.BuyPrice != nil {
		q.BuyPrice = *product.QuickStatus.BuyPrice
	}

	metrics.SellPrice.WithLabelValues(productID).Set(q.SellPrice)

	return q, nil
}

func (c *BazaarClient) fetch(ctx context.Context) (*bazaarAPIResponse, error) {
	start := time.Now()
	defer func() {
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.BazaarRequestsTotal.Inc()

	u, err := c.buildURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing bazaar request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp bazaarAPIResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Cause != "" {
			return nil, fmt.Errorf(
				"hypixel API error (status %d): %s",
				resp.StatusCode,
				errResp.Cause,
			)
		}
		return nil, fmt.Errorf("hypixel API error (status %d)", resp.StatusCode)
	}

	var apiResp bazaarAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing bazaar response: %w", err)
	}

	return &apiResp, nil
}

func (c *BazaarClient) buildURL() (string, error) {
	u, err := url.Parse(c.bazaarURL)
	if err != nil {
		return "", fmt.Errorf("parsing bazaar URL: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func causeOrUnknown(cause string) string {
	if cause == "" {
		return "no cause given"
	}
	return cause
}
