package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal-go/internal/database"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

var statsProfiles []string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the KPI summary for the journal",
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

		profiles := make([]models.Profile, 0, len(statsProfiles))
		for _, p := range statsProfiles {
			profiles = append(profiles, models.Profile(p))
		}

		trades, err := st.ListTrades(profiles...)
		if err != nil {
			return err
		}

		enriched := journal.EnrichAll(trades, time.Now())
		kpis := journal.Summarize(enriched)

		fmt.Printf("Trades:          %d (%d closed)\n", kpis.TotalTrades, kpis.ClosedTrades)
		fmt.Printf("Win rate:        %.1f %%\n", kpis.WinRate)
		fmt.Printf("Avg win:         %.2f %%\n", kpis.AvgWinPct)
		fmt.Printf("Avg loss:        %.2f %%\n", kpis.AvgLossPct)
		fmt.Printf("Profit factor:   %.2f\n", kpis.ProfitFactor)
		fmt.Printf("Best trade:      %.2f %%\n", kpis.BestTradePct)
		fmt.Printf("Worst trade:     %.2f %%\n", kpis.WorstTradePct)
		fmt.Printf("Avg holding:     %d days\n", kpis.AvgHoldingDays)

		for _, m := range journal.MonthlyPerformance(enriched) {
			fmt.Printf("%-10s avg %+.2f %%  (%d trades, %d wins)\n",
				m.Month, m.AvgPct, m.TradeCount, m.WinCount)
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().StringSliceVar(&statsProfiles, "profile", nil, "filter by authoring profile (repeatable)")
	rootCmd.AddCommand(statsCmd)
}
