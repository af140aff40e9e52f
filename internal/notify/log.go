package notify

import (
	"context"
	"fmt"
	"log/slog"
)

// LogNotifier implements Notifier by writing the alert to the log. It is
// used when no webhook is configured.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier that reports alerts locally.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// SendAlert logs the alert and always succeeds.
func (n *LogNotifier) SendAlert(_ context.Context, alert *AlertPayload) error {
	msg := fmt.Sprintf("[ALERT] %s just hit %s coins! (no webhook set)", alert.ProductID, Coins(alert.Price))
	n.log.Info(msg,
		"alert_id", alert.ID,
		"price", alert.Price,
		"target", alert.TargetPrice,
	)
	return nil
}

// New returns a DiscordNotifier when webhookURL is set and a LogNotifier
// otherwise.
func New(webhookURL string, log *slog.Logger, opts ...DiscordOption) Notifier {
	if webhookURL == "" {
		return NewLogNotifier(log)
	}
	return NewDiscordNotifier(webhookURL, opts...)
}
