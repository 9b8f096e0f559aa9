package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trade-journal-go/internal/database"
	"trade-journal-go/internal/server"
	"trade-journal-go/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the journal API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := database.NewDatabase(cfg.Database.DSN)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		log.Info("Database connection successful and schema migrated.")

		st := store.NewStore(db, log)
		refresher := newRefresher(cfg, st, log)
		handler := server.NewHandler(log, st, refresher)

		srv := server.NewServer(cfg.Server.Port, handler, log)
		srv.Start()

		// Wait for a shutdown signal
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Error("Failed to stop server cleanly", zap.Error(err))
		}

		log.Info("Journal has been shut down.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
