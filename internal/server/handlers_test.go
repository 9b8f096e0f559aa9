package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/market"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

func setupAPI(t *testing.T) (*http.ServeMux, *store.Store) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	err = db.AutoMigrate(&models.Trade{}, &models.TradeSetup{}, &models.ActiveTradePrice{})
	require.NoError(t, err)

	st := store.NewStore(db, zap.NewNop())
	refresher := market.NewRefresher(st, nil, 5*time.Minute, rate.Inf, 1, zap.NewNop())

	mux := http.NewServeMux()
	NewHandler(zap.NewNop(), st, refresher).Register(mux)
	return mux, st
}

func TestCreateAndListTrades(t *testing.T) {
	mux, _ := setupAPI(t)

	body := `{
		"open_date": "2024-01-10",
		"asset": "NAS100",
		"asset_class": "Index",
		"direction": "LONG",
		"entry_price": 18000,
		"status": "Active",
		"profile": "swing"
	}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/trades", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/trades", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var trades []journal.EnrichedTrade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trades))
	require.Len(t, trades, 1)
	assert.Equal(t, "NAS100", trades[0].Asset)
	assert.NotEmpty(t, trades[0].ID)
	assert.Nil(t, trades[0].PerformancePct, "open trade has no performance yet")
}

func TestCreateTrade_RejectsBadPayload(t *testing.T) {
	mux, _ := setupAPI(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/trades", strings.NewReader(`{"asset": ""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{"open_date": "2024-01-10", "asset": "X", "asset_class": "Bonds", "status": "Active"}`
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/trades", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats_ProfileFilter(t *testing.T) {
	mux, st := setupAPI(t)

	exit1, entry := 110.0, 100.0
	direction := models.DirectionLong
	closeDate := "2024-02-01"
	win := models.Trade{
		OpenDate: "2024-01-10", Asset: "BTC", AssetClass: models.AssetClassCrypto,
		Direction: &direction, EntryPrice: &entry, ExitPrice: &exit1,
		CloseDate: &closeDate, Status: models.StatusClosed, Profile: models.ProfileSwing,
	}
	require.NoError(t, st.CreateTrade(&win))

	other := models.Trade{
		OpenDate: "2024-01-12", Asset: "ETH", AssetClass: models.AssetClassCrypto,
		Status: models.StatusActive, Profile: models.ProfileIntraday,
	}
	require.NoError(t, st.CreateTrade(&other))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats?profile=swing", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.KPIs.TotalTrades)
	assert.Equal(t, 1, stats.KPIs.ClosedTrades)
	assert.Equal(t, 100.0, stats.KPIs.WinRate)
	require.Len(t, stats.EquityCurve, 1)
	assert.Equal(t, 1.0, stats.EquityCurve[0].CumulativePct)
}

func TestRefreshEndpoint_NoOpenTrades(t *testing.T) {
	mux, _ := setupAPI(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/prices/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res market.RefreshResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 0, res.Errors)
}

func TestHealth(t *testing.T) {
	mux, _ := setupAPI(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
