package models

import "time"

// ActiveTradePrice is a cached live price for an open trade. There is
// at most one row per trade; the refresh coordinator upserts it and
// the presentation layer reads it to show unrealized P&L.
type ActiveTradePrice struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TradeID      string    `gorm:"uniqueIndex;not null" json:"trade_id"`
	Asset        string    `gorm:"not null" json:"asset"`
	CurrentPrice float64   `gorm:"not null" json:"current_price"`
	UpdatedAt    time.Time `json:"updated_at"`
}
