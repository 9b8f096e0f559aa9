package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// setupStore creates a Store over a fresh in-memory database.
func setupStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Trade{}, &models.TradeSetup{}, &models.ActiveTradePrice{})
	require.NoError(t, err)

	return NewStore(db, zap.NewNop())
}

func s(v string) *string { return &v }

func newTrade(asset string, profile models.Profile) models.Trade {
	return models.Trade{
		OpenDate:   "2024-03-01",
		Asset:      asset,
		AssetClass: models.AssetClassCrypto,
		Status:     models.StatusActive,
		Profile:    profile,
	}
}

func TestCreateTrade_AssignsID(t *testing.T) {
	st := setupStore(t)

	trade := newTrade("BTC", models.ProfileSwing)
	require.NoError(t, st.CreateTrade(&trade))
	assert.NotEmpty(t, trade.ID)

	trades, err := st.ListTrades()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "BTC", trades[0].Asset)
}

func TestListTrades_ProfileFilter(t *testing.T) {
	st := setupStore(t)

	a := newTrade("BTC", models.ProfileSwing)
	b := newTrade("ETH", models.ProfileIntraday)
	c := newTrade("SOL", models.ProfilePosition)
	require.NoError(t, st.CreateTrade(&a))
	require.NoError(t, st.CreateTrade(&b))
	require.NoError(t, st.CreateTrade(&c))

	all, err := st.ListTrades()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := st.ListTrades(models.ProfileSwing, models.ProfilePosition)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
	for _, trade := range filtered {
		assert.NotEqual(t, models.ProfileIntraday, trade.Profile)
	}
}

func TestListTrades_OrderedByOpenDateDesc(t *testing.T) {
	st := setupStore(t)

	older := newTrade("BTC", models.ProfileSwing)
	older.OpenDate = "2024-01-01"
	newer := newTrade("ETH", models.ProfileSwing)
	newer.OpenDate = "2024-05-01"
	require.NoError(t, st.CreateTrade(&older))
	require.NoError(t, st.CreateTrade(&newer))

	trades, err := st.ListTrades()
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "ETH", trades[0].Asset)
}

func TestListOpenTrades(t *testing.T) {
	st := setupStore(t)

	open := newTrade("BTC", models.ProfileSwing)
	closed := newTrade("ETH", models.ProfileSwing)
	closed.CloseDate = s("2024-04-01")
	closed.Status = models.StatusClosed
	require.NoError(t, st.CreateTrade(&open))
	require.NoError(t, st.CreateTrade(&closed))

	trades, err := st.ListOpenTrades()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "BTC", trades[0].Asset)
}

func TestUpdateTrade_ClosingPrunesCachedPrice(t *testing.T) {
	st := setupStore(t)

	trade := newTrade("BTC", models.ProfileSwing)
	require.NoError(t, st.CreateTrade(&trade))
	require.NoError(t, st.UpsertPrice(trade.ID, "BTC", 64000))

	trade.CloseDate = s("2024-04-01")
	trade.Status = models.StatusClosed
	require.NoError(t, st.UpdateTrade(trade.ID, trade))

	prices, err := st.ListPrices()
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestDeleteTrade_RemovesCachedPrice(t *testing.T) {
	st := setupStore(t)

	trade := newTrade("BTC", models.ProfileSwing)
	require.NoError(t, st.CreateTrade(&trade))
	require.NoError(t, st.UpsertPrice(trade.ID, "BTC", 64000))

	require.NoError(t, st.DeleteTrade(trade.ID))

	trades, err := st.ListTrades()
	require.NoError(t, err)
	assert.Empty(t, trades)

	prices, err := st.ListPrices()
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestSetupCRUD(t *testing.T) {
	st := setupStore(t)

	setup := models.TradeSetup{
		Asset:      "EURUSD",
		AssetClass: models.AssetClassFX,
		SignalAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Direction:  models.DirectionLong,
		Timeframe:  "H4",
		Status:     models.SetupActive,
		Profile:    models.ProfileSwing,
	}
	require.NoError(t, st.CreateSetup(&setup))
	assert.NotEmpty(t, setup.ID)

	setup.Status = models.SetupTriggered
	require.NoError(t, st.UpdateSetup(setup.ID, setup))

	setups, err := st.ListSetups(models.ProfileSwing)
	require.NoError(t, err)
	require.Len(t, setups, 1)
	assert.Equal(t, models.SetupTriggered, setups[0].Status)

	require.NoError(t, st.DeleteSetup(setup.ID))
	setups, err = st.ListSetups()
	require.NoError(t, err)
	assert.Empty(t, setups)
}

func TestUpsertPrice_OneRowPerTrade(t *testing.T) {
	st := setupStore(t)

	require.NoError(t, st.UpsertPrice("T1", "BTC", 64000))
	require.NoError(t, st.UpsertPrice("T1", "BTC", 65000))

	prices, err := st.ListPrices()
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, 65000.0, prices[0].CurrentPrice)
}

func TestHasStalePrices(t *testing.T) {
	st := setupStore(t)

	stale, err := st.HasStalePrices(time.Now().Add(-5 * time.Minute))
	require.NoError(t, err)
	assert.False(t, stale, "empty cache has nothing stale")

	require.NoError(t, st.UpsertPrice("T1", "BTC", 64000))

	stale, err = st.HasStalePrices(time.Now().Add(-5 * time.Minute))
	require.NoError(t, err)
	assert.False(t, stale, "a fresh row is not stale")

	stale, err = st.HasStalePrices(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, stale, "a cutoff in the future makes every row stale")
}
