package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/bazaar-watcher/internal/server"
	"github.com/donaldgifford/bazaar-watcher/internal/watcher"
	"github.com/donaldgifford/bazaar-watcher/pkg/logger"
)

func runCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Watch the price until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, load)
		},
	}
}

func runWatch(cmd *cobra.Command, load configLoader) error {
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})

	w := watcher.New(newBazaarClient(cfg), newNotifier(cfg, log),
		watcher.WithLogger(log),
		watcher.WithProductID(cfg.Watch.ProductID),
		watcher.WithTargetPrice(float64(cfg.Watch.TargetPrice)),
		watcher.WithInterval(cfg.Watch.Interval()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		// Ready while fetches keep succeeding within a few intervals.
		staleAfter := 3*cfg.Watch.Interval() + cfg.Hypixel.Timeout
		srv := server.New(w, staleAfter, log)
		if err := srv.Start(cfg.Metrics.Addr); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("metrics server shutdown", "error", err)
			}
		}()
	}

	return w.Run(ctx)
}
