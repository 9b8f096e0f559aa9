package models

import "time"

// SetupStatus is the lifecycle of a published trade idea.
type SetupStatus string

const (
	SetupActive    SetupStatus = "Active"
	SetupTriggered SetupStatus = "Triggered"
	SetupExpired   SetupStatus = "Expired"
)

// TradeSetup is a published trading idea that has not (yet) become a
// committed position. Setups are read-mostly display records; no
// derived fields are computed for them.
type TradeSetup struct {
	ID string `gorm:"primaryKey" json:"id"`

	Asset      string     `gorm:"not null" json:"asset"`
	AssetClass AssetClass `gorm:"not null" json:"asset_class"`
	SignalAt   time.Time  `gorm:"not null;index" json:"signal_at"`

	PriceAtSignal *float64  `json:"price_at_signal"`
	Direction     Direction `gorm:"not null" json:"direction"`

	EntryZoneLow  *float64 `json:"entry_zone_low"`
	EntryZoneHigh *float64 `json:"entry_zone_high"`
	StopLoss      *float64 `json:"stop_loss"`
	TP1           *float64 `json:"tp1"`
	TP2           *float64 `json:"tp2"`
	TP3           *float64 `json:"tp3"`
	TP4           *float64 `json:"tp4"`

	RiskRewardMin *float64 `json:"risk_reward_min"`
	RiskRewardMax *float64 `json:"risk_reward_max"`

	Timeframe        string      `json:"timeframe"`
	ExpectedDuration string      `json:"expected_duration"`
	Status           SetupStatus `gorm:"not null" json:"status"`

	Remarks  *string `json:"remarks"`
	ChartURL *string `json:"chart_url"`
	Profile  Profile `gorm:"index" json:"profile"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
