package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/bazaar-watcher/tools/rulegen/rules"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", AlertsEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp"}
	assert.Error(t, cfg.Validate())
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "bazaar-watcher-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	require.Len(t, group.Rules, 3)

	for _, rule := range group.Rules {
		assert.True(t, strings.HasPrefix(rule.Record, "bazaar_watcher:"), rule.Record)
		assert.NotEmpty(t, rule.Expr)
		assert.Empty(t, rule.Alert)
	}
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "bazaar-watcher-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]

	expectedAlerts := []string{
		"BazaarWatcherDown",
		"BazaarWatcherStalled",
		"BazaarFetchFailing",
		"BazaarNotificationFailures",
	}
	require.Len(t, group.Rules, len(expectedAlerts))

	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}
}

// Alert expressions may only reference recording rules defined alongside them.
func TestAlertRules_ReferenceRecordedSeries(t *testing.T) {
	t.Parallel()

	recorded := map[string]bool{}
	for _, r := range rules.RecordingRules().Spec.Groups[0].Rules {
		recorded[r.Record] = true
	}

	for _, r := range rules.AlertRules().Spec.Groups[0].Rules {
		for _, field := range strings.FieldsFunc(r.Expr, func(c rune) bool {
			return strings.ContainsRune(" ()[]{}<>=!/*+-", c)
		}) {
			if strings.HasPrefix(field, "bazaar_watcher:") {
				assert.True(t, recorded[field], "alert %s references unknown series %s", r.Alert, field)
			}
		}
	}
}

func TestRun_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{OutputDir: dir, RecordingEnabled: true, AlertsEnabled: true}
	require.NoError(t, run(cfg, false))

	data, err := os.ReadFile(filepath.Join(dir, "bazaar-watcher-alerts.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), generatedHeader))

	var cr rules.PrometheusRule
	require.NoError(t, yaml.Unmarshal(data, &cr))
	assert.Equal(t, "bazaar-watcher-alerts", cr.Metadata.Name)

	_, err = os.Stat(filepath.Join(dir, "bazaar-watcher-recording-rules.yaml"))
	require.NoError(t, err)
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	cfg := Config{OutputDir: dir, AlertsEnabled: true}
	require.NoError(t, run(cfg, true))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestRender_OnlyEnabled(t *testing.T) {
	t.Parallel()

	files, err := render(Config{OutputDir: "x", RecordingEnabled: true})
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Contains(t, files, "bazaar-watcher-recording-rules.yaml")
}

func TestCheckExprs_RejectsInvalidPromQL(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	cr.Spec.Groups[0].Rules[0].Expr = "rate(foo[5m"

	err := checkExprs(cr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BazaarWatcherDown")
}

func TestCheckExprs_GeneratedRulesParse(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkExprs(rules.RecordingRules()))
	require.NoError(t, checkExprs(rules.AlertRules()))
}
