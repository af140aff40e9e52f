package hypixel_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bazaar-watcher/internal/hypixel"
	"github.com/donaldgifford/bazaar-watcher/internal/metrics"
)

const soulflowBody = `{
	"success": true,
	"lastUpdated": 1700000000000,
	"products": {
		"SOULFLOW": {
			"product_id": "SOULFLOW",
			"quick_status": {
				"productId": "SOULFLOW",
				"sellPrice": 41234.5,
				"sellVolume": 1200,
				"buyPrice": 42000.1,
				"buyVolume": 900
			}
		}
	}
}`

func TestBazaarClient_SellPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		product    string
		handler    http.HandlerFunc
		wantErr    bool
		errIs      error
		errContain string
		wantPrice  float64
	}{
		{
			name:    "successful fetch",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(soulflowBody))
			},
			wantPrice: 41234.5,
		},
		{
			name:    "success false",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"success": false, "cause": "Key throttle"}`))
			},
			wantErr:    true,
			errIs:      hypixel.ErrUnsuccessful,
			errContain: "Key throttle",
		},
		{
			name:    "success missing is treated as false",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"products": {}}`))
			},
			wantErr:    true,
			errIs:      hypixel.ErrUnsuccessful,
			errContain: "no cause given",
		},
		{
			name:    "product missing",
			product: "ENCHANTED_DIAMOND",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(soulflowBody))
			},
			wantErr:    true,
			errIs:      hypixel.ErrProductNotFound,
			errContain: "ENCHANTED_DIAMOND",
		},
		{
			name:    "quick_status missing",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"success": true, "products": {"SOULFLOW": {"product_id": "SOULFLOW"}}}`))
			},
			wantErr: true,
			errIs:   hypixel.ErrProductNotFound,
		},
		{
			name:    "sellPrice missing",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"success": true, "products": {"SOULFLOW": {"quick_status": {"buyPrice": 1}}}}`))
			},
			wantErr: true,
			errIs:   hypixel.ErrProductNotFound,
		},
		{
			name:    "403 with cause",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"success": false, "cause": "Invalid API key"}`))
			},
			wantErr:    true,
			errContain: "status 403): Invalid API key",
		},
		{
			name:    "500 without body",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr:    true,
			errContain: "status 500",
		},
		{
			name:    "invalid JSON",
			product: "SOULFLOW",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not valid json"))
			},
			wantErr:    true,
			errContain: "parsing bazaar response",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := hypixel.NewBazaarClient("test-key", hypixel.WithBazaarURL(srv.URL))
			price, err := c.SellPrice(context.Background(), tt.product)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				if tt.errContain != "" {
					assert.Contains(t, err.Error(), tt.errContain)
				}
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.wantPrice, price, 0.0001)
		})
	}
}

func TestBazaarClient_MissingAPIKey(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := hypixel.NewBazaarClient("", hypixel.WithBazaarURL(srv.URL))
	_, err := c.SellPrice(context.Background(), "SOULFLOW")

	require.Error(t, err)
	assert.True(t, errors.Is(err, hypixel.ErrMissingAPIKey))
	assert.False(t, called, "no request should be sent without a key")
}

func TestBazaarClient_Quote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(soulflowBody))
	}))
	defer srv.Close()

	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c := hypixel.NewBazaarClient("test-key",
		hypixel.WithBazaarURL(srv.URL),
		hypixel.WithNowFunc(func() time.Time { return fixed }),
	)

	q, err := c.Quote(context.Background(), "SOULFLOW")
	require.NoError(t, err)

	assert.Equal(t, "SOULFLOW", q.ProductID)
	assert.InDelta(t, 41234.5, q.SellPrice, 0.0001)
	assert.InDelta(t, 42000.1, q.BuyPrice, 0.0001)
	assert.Equal(t, fixed, q.FetchedAt)
	assert.InDelta(t, 41234.5, ptestutil.ToFloat64(metrics.SellPrice.WithLabelValues("SOULFLOW")), 0.0001)
}

func TestBazaarClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := hypixel.NewBazaarClient("test-key",
		hypixel.WithBazaarURL(srv.URL),
		hypixel.WithTimeout(50*time.Millisecond),
	)

	_, err := c.SellPrice(context.Background(), "SOULFLOW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing bazaar request")
}

func TestBazaarClient_NetworkError(t *testing.T) {
	t.Parallel()

	c := hypixel.NewBazaarClient("test-key", hypixel.WithBazaarURL("http://127.0.0.1:1")) // nothing listening
	_, err := c.SellPrice(context.Background(), "SOULFLOW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing bazaar request")
}

func TestBazaarClient_InvalidURL(t *testing.T) {
	t.Parallel()

	c := hypixel.NewBazaarClient("test-key", hypixel.WithBazaarURL("://not-a-valid-url"))
	_, err := c.SellPrice(context.Background(), "SOULFLOW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing bazaar URL")
}

func TestBazaarClient_RateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(soulflowBody))
	}))
	defer srv.Close()

	// One request per hour, burst of one: the second call must wait.
	c := hypixel.NewBazaarClient("test-key",
		hypixel.WithBazaarURL(srv.URL),
		hypixel.WithRateLimit(1.0/3600, 1),
	)

	_, err := c.SellPrice(context.Background(), "SOULFLOW")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.SellPrice(ctx, "SOULFLOW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestBazaarClient_PreservesExistingQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "x", r.URL.Query().Get("extra"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(soulflowBody))
	}))
	defer srv.Close()

	c := hypixel.NewBazaarClient("test-key", hypixel.WithBazaarURL(srv.URL+"?extra=x"))
	_, err := c.SellPrice(context.Background(), "SOULFLOW")
	require.NoError(t, err)
}

// compile-time interface check.
var _ hypixel.PriceSource = (*hypixel.BazaarClient)(nil)
