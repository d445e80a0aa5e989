package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/girojeri/backend/internal/models"
	"github.com/girojeri/backend/internal/service"
	"go.uber.org/zap"
)

type PricingService interface {
	// Quote prices a booking
	Quote(ctx context.Context, in service.QuoteInput) (*service.Quote, error)
}

// PricingHandler represents HTTP handler for pricing quotes
type PricingHandler struct {
	svc    PricingService
	logger *zap.Logger
}

// NewPricingHandler creates new PricingHandler instance
func NewPricingHandler(svc PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		svc:    svc,
		logger: logger,
	}
}

type quoteVehicleRequest struct {
	VehicleID string `json:"vehicleId"`
	Quantity  int    `json:"quantity"`
}

type quoteRequest struct {
	ServiceID   string                `json:"serviceId"`
	ScheduledAt time.Time             `json:"scheduledAt"`
	PeopleCount int                   `json:"peopleCount"`
	Vehicles    []quoteVehicleRequest `json:"vehicles"`
}

type quoteResponse struct {
	BaseTotal         float64 `json:"baseTotal"`
	PricingMultiplier float64 `json:"pricingMultiplier"`
	AdjustmentType    string  `json:"adjustmentType"`
	FinalTotal        float64 `json:"finalTotal"`
}

// QuotePricing prices a booking request
// 200 — quote computed;
// 400 — missing serviceId or scheduledAt;
// 404 — service not found;
// 500 — internal error.
func (ph *PricingHandler) QuotePricing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.ServiceID == "" || req.ScheduledAt.IsZero() {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		in := service.QuoteInput{
			ServiceID:   req.ServiceID,
			ScheduledAt: req.ScheduledAt,
			PeopleCount: req.PeopleCount,
		}
		for _, v := range req.Vehicles {
			in.Vehicles = append(in.Vehicles, models.OrderVehicle{
				VehicleID: v.VehicleID,
				Quantity:  v.Quantity,
			})
		}

		quote, err := ph.svc.Quote(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrServiceNotFound):
				http.Error(w, "service not found", http.StatusNotFound)
			default:
				ph.logger.Error("quote pricing", zap.Error(err))
				http.Error(w, "failed to quote pricing", http.StatusInternalServerError)
			}
			return
		}

		resp := quoteResponse{
			BaseTotal:         quote.BaseTotal,
			PricingMultiplier: quote.PricingMultiplier,
			AdjustmentType:    quote.AdjustmentType,
			FinalTotal:        quote.FinalTotal,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
