package rules

// AlertRules returns operational alerts for a running watcher. Price alerts
// themselves go out through the Discord webhook, not Prometheus.
func AlertRules() PrometheusRule {
	return newRule("bazaar-watcher-alerts", RuleGroup{
		Name: "bazaar-watcher-alerts",
		Rules: []Rule{
			{
				Alert:  "BazaarWatcherDown",
				Expr:   `absent(up{job="bazaar-watcher"})`,
				For:    "2m",
				Labels: map[string]string{"severity": "critical"},
				Annotations: map[string]string{
					"summary":     "Bazaar watcher is down",
					"description": "The bazaar-watcher job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert:  "BazaarWatcherStalled",
				Expr:   `bazaar_watcher:ticks:rate5m == 0`,
				For:    "5m",
				Labels: map[string]string{"severity": "critical"},
				Annotations: map[string]string{
					"summary":     "Watch loop is not ticking",
					"description": "No watch loop ticks have been recorded for 5 minutes.",
				},
			},
			{
				Alert:  "BazaarFetchFailing",
				Expr:   `bazaar_watcher:fetch_error_ratio:rate5m > 0.5`,
				For:    "10m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "Most Bazaar price fetches are failing",
					"description": "More than half of the price fetches failed over the last 10 minutes. Check the API key and Hypixel status.",
				},
			},
			{
				Alert:  "BazaarNotificationFailures",
				Expr:   `increase(` + metric("notification_failures_total") + `[15m]) > 0`,
				For:    "0m",
				Labels: map[string]string{"severity": "warning"},
				Annotations: map[string]string{
					"summary":     "Price alert delivery failed",
					"description": "A Discord webhook delivery failed; the excursion will not be re-alerted.",
				},
			},
		},
	})
}
