package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	tracker    FetchTracker
	staleAfter time.Duration
	nowFunc    func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(tracker FetchTracker, staleAfter time.Duration) *HealthHandler {
	return &HealthHandler{
		tracker:    tracker,
		staleAfter: staleAfter,
		nowFunc:    time.Now,
	}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 if a price was fetched within staleAfter, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	last := h.tracker.LastFetch()
	if last.IsZero() || h.nowFunc().Sub(last) > h.staleAfter {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":     "ready",
		"last_fetch": last.UTC().Format(time.RFC3339),
	})
}
