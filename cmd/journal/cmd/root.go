package cmd

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/logger"
	"trade-journal-go/internal/market"
	"trade-journal-go/internal/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "A personal trading journal with live price tracking",
	Long: `Journal records trades and trade setups, derives per-trade
performance figures, and aggregates them into dashboard statistics
(win rate, profit factor, monthly buckets, equity curve).

It keeps a small cache of live prices for open trades, fetched from
Twelve Data, CoinGecko, and Yahoo Finance.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./configs", "directory containing config.yml")
}

// bootstrap loads .env, configuration and the logger. Provider API
// keys usually arrive through the environment.
func bootstrap() (config.Config, *zap.Logger, error) {
	_ = godotenv.Load() // a missing .env file is fine

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("could not load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return cfg, nil, fmt.Errorf("could not initialize logger: %w", err)
	}

	return cfg, log, nil
}

// newRefresher wires the three provider clients into a coordinator.
func newRefresher(cfg config.Config, st *store.Store, log *zap.Logger) *market.Refresher {
	quoters := map[market.ProviderFamily]market.Quoter{
		market.FamilyTwelveData: market.NewTwelveDataClient(cfg.Providers.TwelveDataBaseURL, cfg.Providers.TwelveDataApiKey, log),
		market.FamilyCoinGecko:  market.NewCoinGeckoClient(cfg.Providers.CoinGeckoBaseURL, log),
		market.FamilyYahoo:      market.NewYahooClient(log),
	}

	return market.NewRefresher(
		st,
		quoters,
		time.Duration(cfg.Prices.StalenessMinutes)*time.Minute,
		rate.Limit(cfg.Prices.RateLimit),
		cfg.Prices.RateLimitBurst,
		log,
	)
}
