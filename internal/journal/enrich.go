// Package journal contains the performance-derivation and aggregation
// pipeline: pure functions that turn raw trade rows into per-trade
// figures and dashboard statistics. Nothing in here touches the
// database or the network.
package journal

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"trade-journal-go/internal/models"
)

// EnrichedTrade is a Trade plus its derived figures. A nil figure
// means "not determinable from this row" and renders as "–" upstream.
type EnrichedTrade struct {
	models.Trade
	PerformancePct *float64 `json:"performance_pct"`
	RiskPct        *float64 `json:"risk_pct"`
	RiskReward     *float64 `json:"risk_reward"`
	HoldingDays    int      `json:"holding_days"`
}

// Remarks sometimes carry a performance figure from imported rows that
// never had price legs, e.g. "Performance: -4,63 %". Decimal comma is
// the common case in that data.
var remarkPerfPattern = regexp.MustCompile(`Performance:\s*([+-]?[0-9]+(?:[.,][0-9]+)?)\s*%`)

// Enrich derives performance, risk, risk/reward and holding duration
// for a single trade. It is total: any well-formed Trade value yields
// a result, malformed content only produces nil figures.
func Enrich(t models.Trade, now time.Time) EnrichedTrade {
	e := EnrichedTrade{Trade: t}

	e.PerformancePct = performancePct(&t)
	e.RiskPct = riskPct(&t)
	e.RiskReward = riskReward(&t, e.RiskPct)
	e.HoldingDays = holdingDays(&t, now)

	return e
}

// EnrichAll maps Enrich over a snapshot of trades.
func EnrichAll(trades []models.Trade, now time.Time) []EnrichedTrade {
	enriched := make([]EnrichedTrade, 0, len(trades))
	for _, t := range trades {
		enriched = append(enriched, Enrich(t, now))
	}
	return enriched
}

// performancePct computes the signed return of a closed position.
// LONG gains when the exit is above the entry, SHORT when it is below.
// Rows without price legs fall back to the remark pattern.
func performancePct(t *models.Trade) *float64 {
	if t.EntryPrice != nil && *t.EntryPrice > 0 && t.ExitPrice != nil && t.Direction != nil {
		var raw float64
		if *t.Direction == models.DirectionShort {
			raw = (*t.EntryPrice - *t.ExitPrice) / *t.EntryPrice * 100
		} else {
			raw = (*t.ExitPrice - *t.EntryPrice) / *t.EntryPrice * 100
		}
		v := round2(raw)
		return &v
	}

	if t.Remarks != nil {
		if m := remarkPerfPattern.FindStringSubmatch(*t.Remarks); m != nil {
			parsed, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
			if err == nil {
				v := round2(parsed)
				return &v
			}
		}
	}

	return nil
}

// riskPct is the unsigned percentage distance from entry to stop-loss.
func riskPct(t *models.Trade) *float64 {
	if t.StopLoss == nil || t.EntryPrice == nil || *t.EntryPrice <= 0 || t.Direction == nil {
		return nil
	}

	var raw float64
	if *t.Direction == models.DirectionShort {
		raw = (*t.StopLoss - *t.EntryPrice) / *t.EntryPrice * 100
	} else {
		raw = (*t.EntryPrice - *t.StopLoss) / *t.EntryPrice * 100
	}
	v := round2(math.Abs(raw))
	return &v
}

// riskReward relates the distance to the first available take-profit
// level to the stop distance. Without a positive risk there is no
// ratio.
func riskReward(t *models.Trade, risk *float64) *float64 {
	if risk == nil || *risk <= 0 {
		return nil
	}

	tp := firstTarget(t)
	if tp == nil {
		return nil
	}

	var raw float64
	if *t.Direction == models.DirectionShort {
		raw = (*t.EntryPrice - *tp) / *t.EntryPrice * 100
	} else {
		raw = (*tp - *t.EntryPrice) / *t.EntryPrice * 100
	}
	v := round2(math.Abs(raw) / *risk)
	return &v
}

// firstTarget picks the nearest configured take-profit level. TP1 is
// the primary target.
func firstTarget(t *models.Trade) *float64 {
	for _, tp := range []*float64{t.TP1, t.TP2, t.TP3, t.TP4} {
		if tp != nil {
			return tp
		}
	}
	return nil
}

// holdingDays counts calendar days from the open date to the close
// date, or to now while the trade is open. Clamped at zero; malformed
// dates yield zero rather than an error.
func holdingDays(t *models.Trade, now time.Time) int {
	start, ok := parseDay(t.OpenDate)
	if !ok {
		return 0
	}

	var end time.Time
	if t.CloseDate != nil && *t.CloseDate != "" {
		var okEnd bool
		end, okEnd = parseDay(*t.CloseDate)
		if !okEnd {
			return 0
		}
	} else {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// parseDay accepts an ISO calendar date, tolerating a trailing time
// part ("2024-03-01T09:30:00Z" and "2024-03-01" both parse).
func parseDay(s string) (time.Time, bool) {
	if len(s) > 10 {
		s = s[:10]
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// groupDate is the date a closed trade is bucketed under: the close
// date when present, otherwise the open date.
func groupDate(t *EnrichedTrade) string {
	if t.CloseDate != nil && *t.CloseDate != "" {
		return *t.CloseDate
	}
	return t.OpenDate
}

// round2 rounds to 2 decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal place, halves away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round0 rounds to the nearest integer, halves away from zero.
func round0(v float64) float64 {
	return math.Round(v)
}
