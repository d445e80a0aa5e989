package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/girojeri/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentService interface {
	// ProcessWebhook handles one payment provider notification
	ProcessWebhook(ctx context.Context, notification models.PaymentNotification) error
	// ListByOrder returns payment facts recorded for an order
	ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
}

// PaymentHandler represents HTTP handler for the payment provider webhook
type PaymentHandler struct {
	svc    PaymentService
	logger *zap.Logger
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(svc PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		svc:    svc,
		logger: logger,
	}
}

type webhookRequest struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	PaymentID string `json:"paymentId"`
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PaymentWebhook consumes the payment provider callback. An approved payment
// opens the dispute for the order; anything else is recorded and ignored.
// The provider gets 200 in both branches so well-formed payloads are not retried.
// 200 — processed;
// 400 — missing orderId or status;
// 500 — internal error.
func (ph *PaymentHandler) PaymentWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid webhook payload", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.OrderID == "" || req.Status == "" {
			http.Error(w, "invalid webhook payload", http.StatusBadRequest)
			return
		}

		notification := models.PaymentNotification{
			OrderID:   req.OrderID,
			Status:    req.Status,
			PaymentID: req.PaymentID,
		}

		if err := ph.svc.ProcessWebhook(r.Context(), notification); err != nil {
			ph.logger.Error("process payment webhook", zap.String("order", req.OrderID), zap.Error(err))
			http.Error(w, "failed to process webhook", http.StatusInternalServerError)
			return
		}

		resp := webhookResponse{Success: true}
		if req.Status == "approved" {
			resp.Message = "Payment validated and dispute started."
		} else {
			resp.Message = "Payment rejected ignored."
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type paymentResponse struct {
	ID                string    `json:"id"`
	OrderID           string    `json:"orderId"`
	Status            string    `json:"status"`
	Amount            float64   `json:"amount"`
	ExternalPaymentID string    `json:"externalPaymentId"`
	CreatedAt         time.Time `json:"createdAt"`
}

// OrderPayments returns payment facts recorded for an order
// 200 — list of payment facts;
// 204 — no payment facts recorded;
// 500 — internal error.
func (ph *PaymentHandler) OrderPayments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		payments, err := ph.svc.ListByOrder(r.Context(), orderID)
		if err != nil {
			ph.logger.Error("list order payments", zap.String("order", orderID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(payments) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]paymentResponse, 0, len(payments))
		for _, payment := range payments {
			resp = append(resp, paymentResponse{
				ID:                payment.ID,
				OrderID:           payment.OrderID,
				Status:            payment.Status,
				Amount:            payment.Amount,
				ExternalPaymentID: payment.ExternalPaymentID,
				CreatedAt:         payment.CreatedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
