package models

import "time"

// AssetClass identifies the market segment an asset belongs to.
type AssetClass string

const (
	AssetClassIndex     AssetClass = "Index"
	AssetClassCommodity AssetClass = "Commodity"
	AssetClassCrypto    AssetClass = "Crypto"
	AssetClassStock     AssetClass = "Stock"
	AssetClassFX        AssetClass = "FX"
)

// Direction is the side of a position.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// TradeStatus is an informational lifecycle label. Whether a trade is
// open or closed is determined by the close date, not by this field.
type TradeStatus string

const (
	StatusActive     TradeStatus = "Active"
	StatusStoppedOut TradeStatus = "StoppedOut"
	StatusInvalid    TradeStatus = "Invalid"
	StatusClosed     TradeStatus = "Closed"

	// Legacy labels still present in older rows.
	StatusSuccessful TradeStatus = "Successful"
	StatusBreakeven  TradeStatus = "Breakeven"
)

// Profile tags the analyst who authored a record. Used only as a
// filter dimension.
type Profile string

const (
	ProfileSwing    Profile = "swing"
	ProfileIntraday Profile = "intraday"
	ProfilePosition Profile = "position"
)

// Trade is a recorded position. Optional fields are pointers so that
// legacy or incomplete rows round-trip as NULL instead of zero values.
// Dates are stored as ISO calendar-date strings ("2006-01-02"); the
// enricher parses them and fails closed on garbage.
type Trade struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	TradeCode *string `json:"trade_code"`

	OpenDate   string     `gorm:"not null;index" json:"open_date"`
	Asset      string     `gorm:"not null" json:"asset"`
	AssetClass AssetClass `gorm:"not null" json:"asset_class"`
	Direction  *Direction `json:"direction"`
	EntryPrice *float64   `json:"entry_price"`

	StopLoss *float64 `json:"stop_loss"`
	TP1      *float64 `json:"tp1"`
	TP2      *float64 `json:"tp2"`
	TP3      *float64 `json:"tp3"`
	TP4      *float64 `json:"tp4"`

	Status    TradeStatus `gorm:"not null" json:"status"`
	CloseDate *string     `json:"close_date"`
	ExitPrice *float64    `json:"exit_price"`

	Remarks *string `json:"remarks"`
	Profile Profile `gorm:"index" json:"profile"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen reports whether the trade has no close date yet.
func (t *Trade) IsOpen() bool {
	return t.CloseDate == nil || *t.CloseDate == ""
}
