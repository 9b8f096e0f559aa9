// Package store is the persistence boundary: CRUD for trades and
// setups plus the active-price cache. All validation of record shapes
// happens here or earlier; the computation pipeline never sees the
// database.
package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/pkg/id"
)

// Store wraps the gorm handle with the journal's record operations.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger.Named("store")}
}

// ListTrades returns all trades, newest open date first. With profiles
// given, only trades authored under one of them are returned.
func (s *Store) ListTrades(profiles ...models.Profile) ([]models.Trade, error) {
	var trades []models.Trade
	q := s.db.Order("open_date desc")
	if len(profiles) > 0 {
		q = q.Where("profile IN ?", profiles)
	}
	if err := q.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// ListOpenTrades returns trades without a close date. These are the
// rows the price refresh coordinator works on.
func (s *Store) ListOpenTrades() ([]models.Trade, error) {
	var trades []models.Trade
	err := s.db.Where("close_date IS NULL OR close_date = ''").Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open trades: %w", err)
	}
	return trades, nil
}

// CreateTrade inserts a trade, assigning a ULID when the caller did
// not provide an id.
func (s *Store) CreateTrade(t *models.Trade) error {
	if t.ID == "" {
		t.ID = id.New()
	}
	if err := s.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	s.logger.Info("Trade created", zap.String("id", t.ID), zap.String("asset", t.Asset))
	return nil
}

// UpdateTrade replaces the stored trade with the given values. When
// the update closes the trade, its cached live price is pruned in the
// same call.
func (s *Store) UpdateTrade(tradeID string, t models.Trade) error {
	t.ID = tradeID
	if err := s.db.Save(&t).Error; err != nil {
		return fmt.Errorf("failed to update trade %s: %w", tradeID, err)
	}
	if !t.IsOpen() {
		if err := s.DeletePrice(tradeID); err != nil {
			// The cache row is display-only; a failed prune must not
			// fail the trade update.
			s.logger.Warn("Failed to prune cached price for closed trade",
				zap.String("trade_id", tradeID), zap.Error(err))
		}
	}
	return nil
}

// DeleteTrade removes a trade and its cached price, if any.
func (s *Store) DeleteTrade(tradeID string) error {
	if err := s.db.Delete(&models.Trade{}, "id = ?", tradeID).Error; err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", tradeID, err)
	}
	if err := s.DeletePrice(tradeID); err != nil {
		s.logger.Warn("Failed to prune cached price for deleted trade",
			zap.String("trade_id", tradeID), zap.Error(err))
	}
	return nil
}

// ListSetups returns all setups, newest signal first, optionally
// filtered by authoring profile.
func (s *Store) ListSetups(profiles ...models.Profile) ([]models.TradeSetup, error) {
	var setups []models.TradeSetup
	q := s.db.Order("signal_at desc")
	if len(profiles) > 0 {
		q = q.Where("profile IN ?", profiles)
	}
	if err := q.Find(&setups).Error; err != nil {
		return nil, fmt.Errorf("failed to list setups: %w", err)
	}
	return setups, nil
}

// CreateSetup inserts a setup, assigning a ULID when needed.
func (s *Store) CreateSetup(setup *models.TradeSetup) error {
	if setup.ID == "" {
		setup.ID = id.New()
	}
	if err := s.db.Create(setup).Error; err != nil {
		return fmt.Errorf("failed to create setup: %w", err)
	}
	s.logger.Info("Setup created", zap.String("id", setup.ID), zap.String("asset", setup.Asset))
	return nil
}

// UpdateSetup replaces the stored setup with the given values.
func (s *Store) UpdateSetup(setupID string, setup models.TradeSetup) error {
	setup.ID = setupID
	if err := s.db.Save(&setup).Error; err != nil {
		return fmt.Errorf("failed to update setup %s: %w", setupID, err)
	}
	return nil
}

// DeleteSetup removes a setup.
func (s *Store) DeleteSetup(setupID string) error {
	if err := s.db.Delete(&models.TradeSetup{}, "id = ?", setupID).Error; err != nil {
		return fmt.Errorf("failed to delete setup %s: %w", setupID, err)
	}
	return nil
}

// UpsertPrice writes the cached live price for a trade, one row per
// trade id.
func (s *Store) UpsertPrice(tradeID, asset string, price float64) error {
	row := models.ActiveTradePrice{
		TradeID:      tradeID,
		Asset:        asset,
		CurrentPrice: price,
		UpdatedAt:    time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trade_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"asset", "current_price", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert price for trade %s: %w", tradeID, err)
	}
	return nil
}

// ListPrices returns all cached prices, most recently updated first.
func (s *Store) ListPrices() ([]models.ActiveTradePrice, error) {
	var prices []models.ActiveTradePrice
	if err := s.db.Order("updated_at desc").Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("failed to list cached prices: %w", err)
	}
	return prices, nil
}

// HasStalePrices reports whether any cache row was last updated before
// the given cutoff.
func (s *Store) HasStalePrices(olderThan time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.ActiveTradePrice{}).
		Where("updated_at < ?", olderThan).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check price staleness: %w", err)
	}
	return count > 0, nil
}

// DeletePrice removes the cached price for a trade, if present.
func (s *Store) DeletePrice(tradeID string) error {
	err := s.db.Delete(&models.ActiveTradePrice{}, "trade_id = ?", tradeID).Error
	if err != nil {
		return fmt.Errorf("failed to delete cached price for trade %s: %w", tradeID, err)
	}
	return nil
}
