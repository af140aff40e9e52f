package rules

// RecordingRules returns pre-computed rate expressions used by the alert
// rules.
func RecordingRules() PrometheusRule {
	return newRule("bazaar-watcher-recording-rules", RuleGroup{
		Name: "bazaar-watcher-recording",
		Rules: []Rule{
			{
				Record: "bazaar_watcher:ticks:rate5m",
				Expr:   `rate(` + metric("ticks_total") + `[5m])`,
			},
			{
				Record: "bazaar_watcher:fetch_errors:rate5m",
				Expr:   `rate(` + metric("fetch_errors_total") + `[5m])`,
			},
			{
				Record: "bazaar_watcher:fetch_error_ratio:rate5m",
				Expr:   `bazaar_watcher:fetch_errors:rate5m / bazaar_watcher:ticks:rate5m`,
			},
		},
	})
}
