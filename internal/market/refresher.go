package market

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

// RefreshResult counts the outcome of one refresh pass.
type RefreshResult struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// Refresher keeps the active-price cache fresh within a staleness
// window and exposes a manual full refresh. Provider calls inside a
// pass run sequentially, paced by a rate limiter, so a pass never
// bursts against the external APIs no matter how many trades are open.
type Refresher struct {
	store     *store.Store
	quoters   map[ProviderFamily]Quoter
	staleness time.Duration
	limiter   *rate.Limiter
	logger    *zap.Logger

	// Serializes refresh passes so concurrent stale reads cannot
	// double-fetch. Upserts are idempotent per trade id, so this is
	// about wasted provider calls, not correctness.
	mu sync.Mutex
}

// NewRefresher creates a price refresh coordinator.
func NewRefresher(st *store.Store, quoters map[ProviderFamily]Quoter, staleness time.Duration, limit rate.Limit, burst int, logger *zap.Logger) *Refresher {
	return &Refresher{
		store:     st,
		quoters:   quoters,
		staleness: staleness,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger.Named("refresher"),
	}
}

// Prices returns the cached prices, first running a full refresh pass
// when any cache row has gone stale. Refresh failures are absorbed;
// the read still returns whatever the cache holds.
func (r *Refresher) Prices(ctx context.Context) ([]models.ActiveTradePrice, error) {
	stale, err := r.store.HasStalePrices(time.Now().Add(-r.staleness))
	if err != nil {
		return nil, err
	}

	if stale {
		res, err := r.RefreshAll(ctx)
		if err != nil {
			r.logger.Warn("Refresh pass aborted, serving cached prices", zap.Error(err))
		} else if res.Errors > 0 {
			r.logger.Warn("Refresh pass finished with errors",
				zap.Int("updated", res.Updated), zap.Int("errors", res.Errors))
		}
	}

	return r.store.ListPrices()
}

// RefreshAll runs a full refresh pass over every open trade,
// regardless of staleness. One symbol's failure never aborts the
// batch; failures only show up in the error count. The returned error
// is non-nil only when the pass itself cannot run (storage failure or
// cancelled context).
func (r *Refresher) RefreshAll(ctx context.Context) (RefreshResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res RefreshResult

	trades, err := r.store.ListOpenTrades()
	if err != nil {
		return res, err
	}

	for _, t := range trades {
		if err := r.limiter.Wait(ctx); err != nil {
			return res, err
		}

		mapping, ok := Resolve(t.Asset)
		if !ok {
			r.logger.Warn("No provider mapping for asset, skipping",
				zap.String("trade_id", t.ID), zap.String("asset", t.Asset))
			res.Errors++
			continue
		}

		quoter, ok := r.quoters[mapping.Family]
		if !ok {
			r.logger.Warn("No quoter configured for provider family",
				zap.String("family", string(mapping.Family)), zap.String("asset", t.Asset))
			res.Errors++
			continue
		}

		price, err := quoter.LookupPrice(ctx, mapping.ProviderID)
		if err != nil {
			r.logger.Warn("Price lookup failed",
				zap.String("asset", t.Asset),
				zap.String("provider_id", mapping.ProviderID),
				zap.Error(err))
			res.Errors++
			continue
		}

		if err := r.store.UpsertPrice(t.ID, t.Asset, price); err != nil {
			r.logger.Error("Failed to cache price",
				zap.String("trade_id", t.ID), zap.Error(err))
			res.Errors++
			continue
		}

		r.logger.Debug("Price updated",
			zap.String("asset", t.Asset), zap.Float64("price", price))
		res.Updated++
	}

	return res, nil
}
