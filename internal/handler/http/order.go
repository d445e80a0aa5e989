package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/girojeri/backend/internal/middleware"
	"github.com/girojeri/backend/internal/models"
	"github.com/girojeri/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderService interface {
	// Create registers new order awaiting payment
	Create(ctx context.Context, in service.CreateOrderInput) (*models.Order, error)
	// Accept runs one acceptance attempt of the dispute
	Accept(ctx context.Context, orderID, agencyID string) error
	// GetOrder returns order by id
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	// ListAvailable returns orders currently open for dispute
	ListAvailable(ctx context.Context) ([]models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc    OrderService
	logger *zap.Logger
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		svc:    svc,
		logger: logger,
	}
}

type orderVehicleRequest struct {
	VehicleID         string  `json:"vehicleId"`
	Quantity          int     `json:"quantity"`
	UnitPriceSnapshot float64 `json:"unitPriceSnapshot"`
	LineTotal         float64 `json:"lineTotal"`
}

type createOrderRequest struct {
	ClientID          string                `json:"clientId"`
	ServiceID         string                `json:"serviceId"`
	PickupLocation    string                `json:"pickupLocation"`
	ScheduledAt       time.Time             `json:"scheduledAt"`
	Adults            int                   `json:"adults"`
	Children          int                   `json:"children"`
	BaseTotal         float64               `json:"baseTotal"`
	PricingMultiplier float64               `json:"pricingMultiplier"`
	FinalTotal        float64               `json:"finalTotal"`
	PlatformAmount    float64               `json:"platformAmount"`
	AgencyAmount      float64               `json:"agencyAmount"`
	CommissionPercent float64               `json:"commissionPercent"`
	Vehicles          []orderVehicleRequest `json:"vehicles"`
}

type orderResponse struct {
	ID                string     `json:"id"`
	ClientID          string     `json:"clientId"`
	ServiceID         string     `json:"serviceId"`
	PickupLocation    string     `json:"pickupLocation"`
	ScheduledAt       time.Time  `json:"scheduledAt"`
	Adults            int        `json:"adults"`
	Children          int        `json:"children"`
	Status            string     `json:"status"`
	AgencyID          *string    `json:"agencyId"`
	AcceptExpiresAt   *time.Time `json:"acceptExpiresAt"`
	AcceptedAt        *time.Time `json:"acceptedAt"`
	BaseTotal         float64    `json:"baseTotal"`
	PricingMultiplier float64    `json:"pricingMultiplier"`
	FinalTotal        float64    `json:"finalTotal"`
	PlatformAmount    float64    `json:"platformAmount"`
	AgencyAmount      float64    `json:"agencyAmount"`
	CommissionPercent float64    `json:"commissionPercent"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func newOrderResponse(order models.Order) orderResponse {
	return orderResponse{
		ID:                order.ID,
		ClientID:          order.ClientID,
		ServiceID:         order.ServiceID,
		PickupLocation:    order.PickupLocation,
		ScheduledAt:       order.ScheduledAt,
		Adults:            order.Adults,
		Children:          order.Children,
		Status:            order.Status,
		AgencyID:          order.AgencyID,
		AcceptExpiresAt:   order.AcceptExpiresAt,
		AcceptedAt:        order.AcceptedAt,
		BaseTotal:         order.BaseTotal,
		PricingMultiplier: order.PricingMultiplier,
		FinalTotal:        order.FinalTotal,
		PlatformAmount:    order.PlatformAmount,
		AgencyAmount:      order.AgencyAmount,
		CommissionPercent: order.CommissionPercent,
		CreatedAt:         order.CreatedAt,
	}
}

type acceptOrderRequest struct {
	AgencyID string `json:"agencyId"`
}

type acceptOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateOrder registers new order
// 200 — pedido criado;
// 400 — missing required fields;
// 500 — internal error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.ClientID == "" || req.ServiceID == "" || req.PickupLocation == "" || req.ScheduledAt.IsZero() {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		in := service.CreateOrderInput{
			ClientID:          req.ClientID,
			ServiceID:         req.ServiceID,
			PickupLocation:    req.PickupLocation,
			ScheduledAt:       req.ScheduledAt,
			Adults:            req.Adults,
			Children:          req.Children,
			BaseTotal:         req.BaseTotal,
			PricingMultiplier: req.PricingMultiplier,
			FinalTotal:        req.FinalTotal,
			PlatformAmount:    req.PlatformAmount,
			AgencyAmount:      req.AgencyAmount,
			CommissionPercent: req.CommissionPercent,
		}
		for _, v := range req.Vehicles {
			in.Vehicles = append(in.Vehicles, models.OrderVehicle{
				VehicleID:         v.VehicleID,
				Quantity:          v.Quantity,
				UnitPriceSnapshot: v.UnitPriceSnapshot,
				LineTotal:         v.LineTotal,
			})
		}

		order, err := oh.svc.Create(r.Context(), in)
		if err != nil {
			oh.logger.Error("create order", zap.Error(err))
			http.Error(w, "failed to create order", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(newOrderResponse(*order)); err != nil {
			return
		}
	}
}

// AcceptOrder runs an agency acceptance attempt of the dispute
// 200 — corrida confirmada, this agency won;
// 400 — missing agencyId or order is not open for acceptance;
// 403 — agencyId does not match the authenticated agency;
// 404 — order not found;
// 409 — order already accepted by another agency;
// 410 — acceptance window expired;
// 500 — internal error.
func (oh *OrderHandler) AcceptOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		var req acceptOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.AgencyID == "" {
			http.Error(w, "missing agencyId", http.StatusBadRequest)
			return
		}

		// an agency may only dispute under its own id
		if payload, ok := middleware.PayloadFromContext(r.Context()); ok && payload.AgencyID != req.AgencyID {
			http.Error(w, "agencyId does not match the authenticated agency", http.StatusForbidden)
			return
		}

		if err := oh.svc.Accept(r.Context(), orderID, req.AgencyID); err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderTaken):
				http.Error(w, "Corrida indisponível. Já foi aceita.", http.StatusConflict)
			case errors.Is(err, models.ErrOrderExpired):
				http.Error(w, "Tempo expirado. Sem aceite.", http.StatusGone)
			case errors.Is(err, models.ErrAcceptFailed):
				http.Error(w, "failed to accept order", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		resp := acceptOrderResponse{
			Success: true,
			Message: "Corrida confirmada.",
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

// GetOrder returns one order so the client can track its booking
// 200 — order found;
// 404 — order not found;
// 500 — internal error.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		order, err := oh.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				oh.logger.Error("get order", zap.String("order", orderID), zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(newOrderResponse(*order)); err != nil {
			return
		}
	}
}

// ListAvailableOrders returns orders currently open for dispute
// 200 — list of open orders;
// 204 — no open orders;
// 401 — agency is not authenticated;
// 500 — internal error.
func (oh *OrderHandler) ListAvailableOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.svc.ListAvailable(r.Context())
		if err != nil {
			oh.logger.Error("list available orders", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			resp = append(resp, newOrderResponse(order))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
