package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trade-journal-go/internal/database"
	"trade-journal-go/internal/store"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one full price refresh pass over all open trades",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := database.NewDatabase(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		st := store.NewStore(db, log)
		refresher := newRefresher(cfg, st, log)

		res, err := refresher.RefreshAll(context.Background())
		if err != nil {
			log.Error("Refresh pass failed", zap.Error(err))
			return err
		}

		fmt.Printf("updated: %d, errors: %d\n", res.Updated, res.Errors)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
