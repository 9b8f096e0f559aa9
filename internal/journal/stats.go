package journal

import (
	"sort"

	"trade-journal-go/internal/models"
)

// A trade counts as closed for statistics when a performance figure
// exists, independent of its status label. Status labels drift in
// imported data; the derived figure does not.

// KPISummary is the headline statistics block over a trade list.
type KPISummary struct {
	TotalTrades    int     `json:"total_trades"`
	ClosedTrades   int     `json:"closed_trades"`
	WinRate        float64 `json:"win_rate"`
	AvgWinPct      float64 `json:"avg_win_pct"`
	AvgLossPct     float64 `json:"avg_loss_pct"`
	ProfitFactor   float64 `json:"profit_factor"`
	BestTradePct   float64 `json:"best_trade_pct"`
	WorstTradePct  float64 `json:"worst_trade_pct"`
	AvgHoldingDays int     `json:"avg_holding_days"`
}

// MonthlyBucket is one month's aggregate performance.
type MonthlyBucket struct {
	Month      string  `json:"month"`
	AvgPct     float64 `json:"avg_pct"`
	TradeCount int     `json:"trade_count"`
	WinCount   int     `json:"win_count"`
}

// AssetClassRow is the per-asset-class performance breakdown.
type AssetClassRow struct {
	AssetClass models.AssetClass `json:"asset_class"`
	TradeCount int               `json:"trade_count"`
	WinCount   int               `json:"win_count"`
	WinRate    float64           `json:"win_rate"`
	AvgPct     float64           `json:"avg_pct"`
}

// EquityPoint is one step of the simulated depot curve.
type EquityPoint struct {
	Date          string            `json:"date"`
	CumulativePct float64           `json:"cumulative_pct"`
	Asset         string            `json:"asset"`
	Direction     *models.Direction `json:"direction"`
	TradePct      float64           `json:"trade_pct"`
}

// positionSize is the fixed fraction of the depot each trade is
// assumed to risk in the equity simulation.
const positionSize = 0.1

func closedTrades(trades []EnrichedTrade) []EnrichedTrade {
	closed := make([]EnrichedTrade, 0, len(trades))
	for _, t := range trades {
		if t.PerformancePct != nil {
			closed = append(closed, t)
		}
	}
	return closed
}

// Summarize computes the KPI block. Break-even trades (exactly 0%)
// count as closed but as neither winners nor losers.
func Summarize(trades []EnrichedTrade) KPISummary {
	closed := closedTrades(trades)

	s := KPISummary{
		TotalTrades:  len(trades),
		ClosedTrades: len(closed),
	}
	if len(closed) == 0 {
		return s
	}

	var winSum, lossSum float64
	var wins, losses int
	var holdSum int
	best, worst := *closed[0].PerformancePct, *closed[0].PerformancePct

	for _, t := range closed {
		p := *t.PerformancePct
		switch {
		case p > 0:
			wins++
			winSum += p
		case p < 0:
			losses++
			lossSum += p
		}
		if p > best {
			best = p
		}
		if p < worst {
			worst = p
		}
		holdSum += t.HoldingDays
	}

	s.WinRate = round1(float64(wins) / float64(len(closed)) * 100)
	if wins > 0 {
		s.AvgWinPct = round2(winSum / float64(wins))
	}
	if losses > 0 {
		s.AvgLossPct = round2(-lossSum / float64(losses))
	}
	if s.AvgLossPct > 0 {
		s.ProfitFactor = round2(s.AvgWinPct / s.AvgLossPct)
	}
	s.BestTradePct = best
	s.WorstTradePct = worst
	s.AvgHoldingDays = int(round0(float64(holdSum) / float64(len(closed))))

	return s
}

// MonthlyPerformance groups closed trades by the calendar month of
// their close date (open date while a performance-only row is still
// open). Only months actually present appear; trades whose grouping
// date does not parse are skipped.
func MonthlyPerformance(trades []EnrichedTrade) []MonthlyBucket {
	type acc struct {
		label string
		sum   float64
		count int
		wins  int
	}

	byMonth := map[string]*acc{}
	for _, t := range closedTrades(trades) {
		day, ok := parseDay(groupDate(&t))
		if !ok {
			continue
		}
		key := day.Format("2006-01")
		a := byMonth[key]
		if a == nil {
			a = &acc{label: day.Format("Jan 2006")}
			byMonth[key] = a
		}
		a.sum += *t.PerformancePct
		a.count++
		if *t.PerformancePct > 0 {
			a.wins++
		}
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		a := byMonth[k]
		buckets = append(buckets, MonthlyBucket{
			Month:      a.label,
			AvgPct:     round2(a.sum / float64(a.count)),
			TradeCount: a.count,
			WinCount:   a.wins,
		})
	}
	return buckets
}

// AssetClassPerformance breaks closed trades down by asset class.
// Classes with no trades emit no row. Rows are sorted by class name
// so repeated calls produce identical output.
func AssetClassPerformance(trades []EnrichedTrade) []AssetClassRow {
	type acc struct {
		sum   float64
		count int
		wins  int
	}

	byClass := map[models.AssetClass]*acc{}
	for _, t := range closedTrades(trades) {
		a := byClass[t.AssetClass]
		if a == nil {
			a = &acc{}
			byClass[t.AssetClass] = a
		}
		a.sum += *t.PerformancePct
		a.count++
		if *t.PerformancePct > 0 {
			a.wins++
		}
	}

	classes := make([]models.AssetClass, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	rows := make([]AssetClassRow, 0, len(classes))
	for _, c := range classes {
		a := byClass[c]
		rows = append(rows, AssetClassRow{
			AssetClass: c,
			TradeCount: a.count,
			WinCount:   a.wins,
			WinRate:    round1(float64(a.wins) / float64(a.count) * 100),
			AvgPct:     round2(a.sum / float64(a.count)),
		})
	}
	return rows
}

// EquityCurve simulates a depot starting at 100 where every closed
// trade risks a fixed 10% of the current depot value. The update is
// multiplicative: depot *= 1 + positionSize * (pct / 100). Trades are
// applied in ascending order of their grouping date.
func EquityCurve(trades []EnrichedTrade) []EquityPoint {
	closed := make([]EnrichedTrade, 0, len(trades))
	for _, t := range closedTrades(trades) {
		if _, ok := parseDay(groupDate(&t)); ok {
			closed = append(closed, t)
		}
	}

	// ISO date strings order chronologically when compared as strings.
	sort.SliceStable(closed, func(i, j int) bool {
		return groupDate(&closed[i]) < groupDate(&closed[j])
	})

	depot := 100.0
	points := make([]EquityPoint, 0, len(closed))
	for _, t := range closed {
		pct := *t.PerformancePct
		depot *= 1 + positionSize*(pct/100)

		day, _ := parseDay(groupDate(&t))
		points = append(points, EquityPoint{
			Date:          day.Format("02.01.06"),
			CumulativePct: round2(depot - 100),
			Asset:         t.Asset,
			Direction:     t.Trade.Direction,
			TradePct:      pct,
		})
	}
	return points
}
