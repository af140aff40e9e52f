// Package notify defines the notification interface and implementations
// for price alert delivery.
package notify

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// AlertPayload contains the data needed to send a price alert.
type AlertPayload struct {
	ID          string
	ProductID   string
	Price       float64
	TargetPrice float64
	TriggeredAt time.Time
}

// NewAlertPayload builds a payload with a fresh alert ID.
func NewAlertPayload(productID string, price, target float64, at time.Time) *AlertPayload {
	return &AlertPayload{
		ID:          uuid.NewString(),
		ProductID:   productID,
		Price:       price,
		TargetPrice: target,
		TriggeredAt: at,
	}
}

// Coins formats a coin amount rounded to a whole number with thousands
// separators, e.g. 40123.6 -> "40,124".
func Coins(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// Message returns the human-readable alert line.
func (a *AlertPayload) Message() string {
	return fmt.Sprintf(":bell: %s just hit **%s** coins!", a.ProductID, Coins(a.Price))
}

// Notifier defines the interface for sending price alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
}
