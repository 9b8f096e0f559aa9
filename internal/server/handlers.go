package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/market"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

// Handler holds dependencies for the API endpoints.
type Handler struct {
	log       *zap.Logger
	store     *store.Store
	refresher *market.Refresher
}

// NewHandler creates a new Handler.
func NewHandler(log *zap.Logger, st *store.Store, refresher *market.Refresher) *Handler {
	return &Handler{log: log, store: st, refresher: refresher}
}

// Register wires all API routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/trades", h.listTrades)
	mux.HandleFunc("POST /api/trades", h.createTrade)
	mux.HandleFunc("PUT /api/trades/{id}", h.updateTrade)
	mux.HandleFunc("DELETE /api/trades/{id}", h.deleteTrade)

	mux.HandleFunc("GET /api/setups", h.listSetups)
	mux.HandleFunc("POST /api/setups", h.createSetup)
	mux.HandleFunc("PUT /api/setups/{id}", h.updateSetup)
	mux.HandleFunc("DELETE /api/setups/{id}", h.deleteSetup)

	mux.HandleFunc("GET /api/stats", h.stats)
	mux.HandleFunc("GET /api/prices", h.prices)
	mux.HandleFunc("POST /api/prices/refresh", h.refreshPrices)

	mux.HandleFunc("GET /api/health", h.health)
}

// profileFilter reads repeated ?profile= query parameters.
func profileFilter(r *http.Request) []models.Profile {
	values := r.URL.Query()["profile"]
	profiles := make([]models.Profile, 0, len(values))
	for _, v := range values {
		profiles = append(profiles, models.Profile(v))
	}
	return profiles
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) listTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.ListTrades(profileFilter(r)...)
	if err != nil {
		h.log.Error("Failed to list trades", zap.Error(err))
		http.Error(w, "Failed to list trades", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, journal.EnrichAll(trades, time.Now()))
}

func (h *Handler) createTrade(w http.ResponseWriter, r *http.Request) {
	var trade models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "Invalid trade payload", http.StatusBadRequest)
		return
	}
	if err := validateTrade(&trade); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.CreateTrade(&trade); err != nil {
		h.log.Error("Failed to create trade", zap.Error(err))
		http.Error(w, "Failed to create trade", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, trade)
}

func (h *Handler) updateTrade(w http.ResponseWriter, r *http.Request) {
	var trade models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "Invalid trade payload", http.StatusBadRequest)
		return
	}
	if err := validateTrade(&trade); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateTrade(r.PathValue("id"), trade); err != nil {
		h.log.Error("Failed to update trade", zap.Error(err))
		http.Error(w, "Failed to update trade", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTrade(r.PathValue("id")); err != nil {
		h.log.Error("Failed to delete trade", zap.Error(err))
		http.Error(w, "Failed to delete trade", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSetups(w http.ResponseWriter, r *http.Request) {
	setups, err := h.store.ListSetups(profileFilter(r)...)
	if err != nil {
		h.log.Error("Failed to list setups", zap.Error(err))
		http.Error(w, "Failed to list setups", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, setups)
}

func (h *Handler) createSetup(w http.ResponseWriter, r *http.Request) {
	var setup models.TradeSetup
	if err := json.NewDecoder(r.Body).Decode(&setup); err != nil {
		http.Error(w, "Invalid setup payload", http.StatusBadRequest)
		return
	}
	if err := h.store.CreateSetup(&setup); err != nil {
		h.log.Error("Failed to create setup", zap.Error(err))
		http.Error(w, "Failed to create setup", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, setup)
}

func (h *Handler) updateSetup(w http.ResponseWriter, r *http.Request) {
	var setup models.TradeSetup
	if err := json.NewDecoder(r.Body).Decode(&setup); err != nil {
		http.Error(w, "Invalid setup payload", http.StatusBadRequest)
		return
	}
	if err := h.store.UpdateSetup(r.PathValue("id"), setup); err != nil {
		h.log.Error("Failed to update setup", zap.Error(err))
		http.Error(w, "Failed to update setup", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteSetup(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSetup(r.PathValue("id")); err != nil {
		h.log.Error("Failed to delete setup", zap.Error(err))
		http.Error(w, "Failed to delete setup", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatsResponse bundles the dashboard aggregates into one payload.
type StatsResponse struct {
	KPIs         journal.KPISummary      `json:"kpis"`
	Monthly      []journal.MonthlyBucket `json:"monthly"`
	AssetClasses []journal.AssetClassRow `json:"asset_classes"`
	EquityCurve  []journal.EquityPoint   `json:"equity_curve"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.ListTrades(profileFilter(r)...)
	if err != nil {
		h.log.Error("Failed to list trades for statistics", zap.Error(err))
		http.Error(w, "Failed to calculate statistics", http.StatusInternalServerError)
		return
	}

	enriched := journal.EnrichAll(trades, time.Now())
	h.writeJSON(w, StatsResponse{
		KPIs:         journal.Summarize(enriched),
		Monthly:      journal.MonthlyPerformance(enriched),
		AssetClasses: journal.AssetClassPerformance(enriched),
		EquityCurve:  journal.EquityCurve(enriched),
	})
}

func (h *Handler) prices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.refresher.Prices(r.Context())
	if err != nil {
		h.log.Error("Failed to read cached prices", zap.Error(err))
		http.Error(w, "Failed to read prices", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, prices)
}

func (h *Handler) refreshPrices(w http.ResponseWriter, r *http.Request) {
	res, err := h.refresher.RefreshAll(r.Context())
	if err != nil {
		h.log.Error("Refresh pass failed", zap.Error(err))
		http.Error(w, "Failed to refresh prices", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, res)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// validateTrade checks the invariants the storage layer relies on.
// Everything beyond this (status transitions, target ordering) is the
// author's judgement, not a validation rule.
func validateTrade(t *models.Trade) error {
	if t.Asset == "" {
		return fmt.Errorf("asset is required")
	}
	if t.OpenDate == "" {
		return fmt.Errorf("open date is required")
	}
	switch t.AssetClass {
	case models.AssetClassIndex, models.AssetClassCommodity, models.AssetClassCrypto,
		models.AssetClassStock, models.AssetClassFX:
	default:
		return fmt.Errorf("unknown asset class %q", t.AssetClass)
	}
	if t.Direction != nil && *t.Direction != models.DirectionLong && *t.Direction != models.DirectionShort {
		return fmt.Errorf("unknown direction %q", *t.Direction)
	}
	if t.EntryPrice != nil && *t.EntryPrice <= 0 {
		return fmt.Errorf("entry price must be positive")
	}
	return nil
}
