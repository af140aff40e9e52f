package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, TicksTotal)
	assert.NotNil(t, TickDuration)
	assert.NotNil(t, AboveTarget)
	assert.NotNil(t, BazaarRequestsTotal)
	assert.NotNil(t, FetchErrorsTotal)
	assert.NotNil(t, FetchDuration)
	assert.NotNil(t, SellPrice)
	assert.NotNil(t, AlertsFiredTotal)
	assert.NotNil(t, AlertsSuppressedTotal)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, NotificationDuration)
}
