package cmd

import (
	"log/slog"

	"github.com/donaldgifford/bazaar-watcher/internal/config"
	"github.com/donaldgifford/bazaar-watcher/internal/hypixel"
	"github.com/donaldgifford/bazaar-watcher/internal/notify"
)

func newBazaarClient(cfg *config.Config) *hypixel.BazaarClient {
	return hypixel.NewBazaarClient(cfg.Hypixel.APIKey,
		hypixel.WithBazaarURL(cfg.Hypixel.BazaarURL),
		hypixel.WithTimeout(cfg.Hypixel.Timeout),
		hypixel.WithRateLimit(cfg.Hypixel.RateLimit.PerSecond, cfg.Hypixel.RateLimit.Burst),
	)
}

func newNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	return notify.New(cfg.Discord.WebhookURL, log, notify.WithTimeout(cfg.Discord.Timeout))
}
