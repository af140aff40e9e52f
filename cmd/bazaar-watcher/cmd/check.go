package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/bazaar-watcher/internal/notify"
)

func checkCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fetch the current price once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			q, err := newBazaarClient(cfg).Quote(cmd.Context(), cfg.Watch.ProductID)
			if err != nil {
				return fmt.Errorf("fetching price: %w", err)
			}

			relation := "below"
			if q.SellPrice >= float64(cfg.Watch.TargetPrice) {
				relation = "at or above"
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"%s sell=%.2f buy=%.2f (%s target %s)\n",
				q.ProductID, q.SellPrice, q.BuyPrice, relation,
				notify.Coins(float64(cfg.Watch.TargetPrice)),
			)
			return nil
		},
	}
}
