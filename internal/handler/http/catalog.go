package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/girojeri/backend/internal/models"
	"go.uber.org/zap"
)

type CatalogService interface {
	// ListVehicles returns all vehicles
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	// ListHolidays returns all holidays
	ListHolidays(ctx context.Context) ([]models.Holiday, error)
	// AddHoliday registers new holiday
	AddHoliday(ctx context.Context, holiday *models.Holiday) (*models.Holiday, error)
	// ListPricingRules returns all pricing rules
	ListPricingRules(ctx context.Context) ([]models.PricingRule, error)
	// SetPricingRule creates or updates pricing rule
	SetPricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
}

// CatalogHandler represents HTTP handler for vehicle catalog and admin data
type CatalogHandler struct {
	svc    CatalogService
	logger *zap.Logger
}

// NewCatalogHandler creates new CatalogHandler instance
func NewCatalogHandler(svc CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:    svc,
		logger: logger,
	}
}

type vehicleResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	Price    float64 `json:"price"`
}

// ListVehicles returns the vehicle catalog
// 200 — list of vehicles;
// 500 — internal error.
func (ch *CatalogHandler) ListVehicles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicles, err := ch.svc.ListVehicles(r.Context())
		if err != nil {
			ch.logger.Error("list vehicles", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]vehicleResponse, 0, len(vehicles))
		for _, v := range vehicles {
			resp = append(resp, vehicleResponse{
				ID:       v.ID,
				Name:     v.Name,
				Capacity: v.Capacity,
				Price:    v.Price,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type holidayRequest struct {
	Date   string `json:"date"`
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type holidayResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ListHolidays returns all holidays
// 200 — list of holidays;
// 500 — internal error.
func (ch *CatalogHandler) ListHolidays() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		holidays, err := ch.svc.ListHolidays(r.Context())
		if err != nil {
			ch.logger.Error("list holidays", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]holidayResponse, 0, len(holidays))
		for _, h := range holidays {
			resp = append(resp, holidayResponse{
				ID:     h.ID,
				Date:   h.Date.Format("2006-01-02"),
				Name:   h.Name,
				Active: h.Active,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

// CreateHoliday registers new holiday
// 200 — holiday created;
// 400 — missing or malformed fields;
// 500 — internal error.
func (ch *CatalogHandler) CreateHoliday() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req holidayRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Date == "" || req.Name == "" {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		holiday := models.Holiday{
			Date:   date,
			Name:   req.Name,
			Active: true,
		}
		if req.Active != nil {
			holiday.Active = *req.Active
		}

		created, err := ch.svc.AddHoliday(r.Context(), &holiday)
		if err != nil {
			ch.logger.Error("create holiday", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		resp := holidayResponse{
			ID:     created.ID,
			Date:   created.Date.Format("2006-01-02"),
			Name:   created.Name,
			Active: created.Active,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type pricingRuleRequest struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type pricingRuleResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ListPricingRules returns all pricing rules
// 200 — list of rules;
// 500 — internal error.
func (ch *CatalogHandler) ListPricingRules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules, err := ch.svc.ListPricingRules(r.Context())
		if err != nil {
			ch.logger.Error("list pricing rules", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]pricingRuleResponse, 0, len(rules))
		for _, rule := range rules {
			resp = append(resp, pricingRuleResponse{
				ID:    rule.ID,
				Name:  rule.Name,
				Value: rule.Value,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

// SavePricingRule creates or updates pricing rule
// 200 — rule saved;
// 400 — missing name;
// 500 — internal error.
func (ch *CatalogHandler) SavePricingRule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pricingRuleRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Name == "" {
			http.Error(w, "missing rule name", http.StatusBadRequest)
			return
		}

		rule := models.PricingRule{
			Name:  req.Name,
			Value: req.Value,
		}

		saved, err := ch.svc.SetPricingRule(r.Context(), &rule)
		if err != nil {
			ch.logger.Error("save pricing rule", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		resp := pricingRuleResponse{
			ID:    saved.ID,
			Name:  saved.Name,
			Value: saved.Value,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
