// Package main generates Prometheus rule files for bazaar-watcher metrics.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/prometheus/promql/parser"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/bazaar-watcher/tools/rulegen/rules"
)

const generatedHeader = "# Code generated by rulegen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "render rules without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	files, err := render(cfg)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for name, data := range files {
		path := filepath.Join(cfg.OutputDir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("rulegen: wrote %s\n", path)
	}
	return nil
}

// render returns file name -> YAML contents for every enabled rule set.
func render(cfg Config) (map[string][]byte, error) {
	files := make(map[string][]byte)

	if cfg.RecordingEnabled {
		data, err := marshal(rules.RecordingRules())
		if err != nil {
			return nil, fmt.Errorf("rendering recording rules: %w", err)
		}
		files["bazaar-watcher-recording-rules.yaml"] = data
	}

	if cfg.AlertsEnabled {
		data, err := marshal(rules.AlertRules())
		if err != nil {
			return nil, fmt.Errorf("rendering alert rules: %w", err)
		}
		files["bazaar-watcher-alerts.yaml"] = data
	}

	return files, nil
}

// checkExprs parses every rule expression as PromQL.
func checkExprs(r rules.PrometheusRule) error {
	for _, g := range r.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if _, err := parser.ParseExpr(rule.Expr); err != nil {
				return fmt.Errorf("rule %s in group %s: %w", name, g.Name, err)
			}
		}
	}
	return nil
}

func marshal(r rules.PrometheusRule) ([]byte, error) {
	if err := checkExprs(r); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append([]byte(generatedHeader), data...), nil
}
