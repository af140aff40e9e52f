// Package main implements a mock Hypixel Bazaar and Discord webhook server
// for local development. The Bazaar endpoint replays a scripted price
// sequence so the alert edge can be exercised without an API key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type quickStatus struct {
	ProductID string  `json:"productId"`
	SellPrice float64 `json:"sellPrice"`
	BuyPrice  float64 `json:"buyPrice"`
}

type product struct {
	ProductID   string      `json:"product_id"`
	QuickStatus quickStatus `json:"quick_status"`
}

type bazaarResponse struct {
	Success     bool               `json:"success"`
	Cause       string             `json:"cause,omitempty"`
	LastUpdated int64              `json:"lastUpdated,omitempty"`
	Products    map[string]product `json:"products,omitempty"`
}

// priceScript hands out prices in order, wrapping at the end.
type priceScript struct {
	mu     sync.Mutex
	prices []float64
	next   int
}

func (p *priceScript) take() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.prices[p.next%len(p.prices)]
	p.next++
	return v
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	productID := flag.String("product", "SOULFLOW", "product id to serve")
	pricesFlag := flag.String("prices", "39000,40500,41000,39500,40200", "comma-separated sell price sequence")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	prices, err := parsePrices(*pricesFlag)
	if err != nil {
		logger.Error("invalid price sequence", "prices", *pricesFlag, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded price script", "product", *productID, "steps", len(prices))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /skyblock/bazaar", bazaarHandler(logger, *productID, &priceScript{prices: prices}))
	mux.HandleFunc("POST /webhook", webhookHandler(logger))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock bazaar server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func parsePrices(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no prices given")
	}
	return out, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func bazaarHandler(logger *slog.Logger, productID string, script *priceScript) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("key") == "" {
			logger.Warn("bazaar request missing key")
			w.WriteHeader(http.StatusForbidden)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(bazaarResponse{Success: false, Cause: "Invalid API key"})
			return
		}

		sell := script.take()
		resp := bazaarResponse{
			Success:     true,
			LastUpdated: time.Now().UnixMilli(),
			Products: map[string]product{
				productID: {
					ProductID: productID,
					QuickStatus: quickStatus{
						ProductID: productID,
						SellPrice: sell,
						BuyPrice:  sell * 1.02,
					},
				},
			},
		}

		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("bazaar", "product", productID, "sell", sell)
	}
}

func webhookHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Content == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		logger.Info("webhook received", "content", body.Content)
		w.WriteHeader(http.StatusNoContent)
	}
}
