// Package hypixel provides a Hypixel SkyBlock Bazaar API client abstracted
// behind an interface for testability.
package hypixel

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingAPIKey is returned before any request when no API key is set.
	ErrMissingAPIKey = errors.New("hypixel API key is not set")

	// ErrUnsuccessful is returned when the API body reports success=false.
	ErrUnsuccessful = errors.New("hypixel API returned an error")

	// ErrProductNotFound is returned when the product or its sell price is
	// absent from the Bazaar response.
	ErrProductNotFound = errors.New("product price not found in API response")
)

// Quote is a point-in-time quick-status snapshot for one Bazaar product.
type Quote struct {
	ProductID string
	SellPrice float64
	BuyPrice  float64
	FetchedAt time.Time
}

// PriceSource defines the interface for reading a product's sell price.
type PriceSource interface {
	SellPrice(ctx context.Context, productID string) (float64, error)
}
