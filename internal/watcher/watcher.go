// Package watcher runs the edge-triggered price watch loop.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/bazaar-watcher/internal/hypixel"
	"github.com/donaldgifford/bazaar-watcher/internal/metrics"
	"github.com/donaldgifford/bazaar-watcher/internal/notify"
)

const (
	defaultProductID = "SOULFLOW"
	defaultTarget    = 40000
	defaultInterval  = 5 * time.Second
)

// Watcher polls one product's sell price and alerts once per excursion at
// or above the target price.
type Watcher struct {
	prices   hypixel.PriceSource
	notifier notify.Notifier
	log      *slog.Logger

	productID string
	target    float64
	interval  time.Duration
	nowFunc   func() time.Time

	// lastFetch is the unix-nano time of the last successful fetch. It is
	// the only field read from outside the loop goroutine.
	lastFetch atomic.Int64
}

// Option configures the Watcher.
type Option func(*Watcher)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithProductID sets the Bazaar product to watch.
func WithProductID(id string) Option {
	return func(w *Watcher) {
		w.productID = id
	}
}

// WithTargetPrice sets the alert threshold in coins.
func WithTargetPrice(target float64) Option {
	return func(w *Watcher) {
		w.target = target
	}
}

// WithInterval sets the sleep between ticks.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(w *Watcher) {
		w.nowFunc = f
	}
}

// New creates a Watcher with injected dependencies.
func New(prices hypixel.PriceSource, n notify.Notifier, opts ...Option) *Watcher {
	w := &Watcher{
		prices:    prices,
		notifier:  n,
		log:       slog.Default(),
		productID: defaultProductID,
		target:    defaultTarget,
		interval:  defaultInterval,
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run ticks until ctx is cancelled, sleeping the configured interval after
// each tick. The state lives for the duration of the call. It returns nil on
// cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watching price",
		"product", w.productID,
		"target", notify.Coins(w.target),
		"interval", w.interval.String(),
	)

	state := &State{}

	for ctx.Err() == nil {
		w.Tick(ctx, state)

		select {
		case <-ctx.Done():
		case <-time.After(w.interval):
		}
	}

	w.log.Info("watch loop stopped", "product", w.productID)
	return nil
}

// Tick performs one fetch/compare/alert step against state. Fetch and
// notification errors are logged and reported in the result, never returned.
func (w *Watcher) Tick(ctx context.Context, state *State) TickResult {
	start := time.Now()
	defer func() {
		metrics.TickDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.TicksTotal.Inc()

	price, err := w.prices.SellPrice(ctx, w.productID)
	if err != nil {
		metrics.FetchErrorsTotal.Inc()
		w.log.Error("error fetching price", "product", w.productID, "error", err)
		return TickResult{Outcome: OutcomeFetchFailed, FetchErr: err}
	}

	w.lastFetch.Store(w.nowFunc().UnixNano())

	w.log.Info("current sell price",
		"product", w.productID,
		"price", fmt.Sprintf("%.2f", price),
	)

	res := TickResult{Price: price, Outcome: state.next(price, w.target)}
	w.syncStateMetric(state)

	switch res.Outcome {
	case OutcomeAlerted:
		w.log.Info("threshold reached",
			"product", w.productID,
			"price", fmt.Sprintf("%.2f", price),
			"target", notify.Coins(w.target),
		)
		res.NotifyErr = w.alert(ctx, price)
	case OutcomeSuppressed:
		metrics.AlertsSuppressedTotal.Inc()
		w.log.Debug("alert already sent for this excursion", "product", w.productID)
	case OutcomeBelow, OutcomeFetchFailed:
	}

	return res
}

// alert sends the notification. A delivery failure does not re-arm the
// excursion; the alert counts as sent once attempted.
func (w *Watcher) alert(ctx context.Context, price float64) error {
	payload := notify.NewAlertPayload(w.productID, price, w.target, w.nowFunc())

	metrics.AlertsFiredTotal.Inc()

	if err := w.notifier.SendAlert(ctx, payload); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		w.log.Error("failed to send alert",
			"product", w.productID,
			"alert_id", payload.ID,
			"error", err,
		)
		return err
	}

	w.log.Info("alert sent", "product", w.productID, "alert_id", payload.ID)
	return nil
}

// LastFetch returns the time of the last successful price fetch, or the zero
// time if none has succeeded yet. Safe for concurrent use.
func (w *Watcher) LastFetch() time.Time {
	ns := w.lastFetch.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (w *Watcher) syncStateMetric(state *State) {
	if state.Alerted {
		metrics.AboveTarget.Set(1)
		return
	}
	metrics.AboveTarget.Set(0)
}
