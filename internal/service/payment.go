package service

import (
	"context"
	"errors"
	"time"

	"github.com/girojeri/backend/internal/clock"
	"github.com/girojeri/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultExternalPaymentID = "mock_payment"

// PaymentRepository is interface for interacting with payment facts
type PaymentRepository interface {
	// CreatePayment records a payment fact for an order
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	// GetPaymentsByOrderID returns payment facts recorded for an order
	GetPaymentsByOrderID(ctx context.Context, orderID string) ([]models.Payment, error)
}

// OrderBroadcaster publishes newly available orders to connected agencies
type OrderBroadcaster interface {
	Publish(order models.Order)
}

// PaymentService processes payment provider callbacks
type PaymentService struct {
	orders       OrderRepository
	payments     PaymentRepository
	broadcaster  OrderBroadcaster
	clock        clock.Clock
	acceptWindow time.Duration
	logger       *zap.Logger
}

// NewPaymentService creates new PaymentService instance
func NewPaymentService(orders OrderRepository, payments PaymentRepository, broadcaster OrderBroadcaster,
	clk clock.Clock, acceptWindow time.Duration, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		orders:       orders,
		payments:     payments,
		broadcaster:  broadcaster,
		clock:        clk,
		acceptWindow: acceptWindow,
		logger:       logger,
	}
}

// ProcessWebhook handles one payment provider notification. An approved
// payment opens the dispute: the order moves to AGUARDANDO_ACEITE with the
// acceptance deadline stamped, the payment fact is recorded and the order is
// broadcast to every connected agency. Any other payment status only records
// a zero amount rejected fact and leaves the order untouched.
func (ps *PaymentService) ProcessWebhook(ctx context.Context, notification models.PaymentNotification) error {
	if notification.Status != "approved" {
		payment := models.Payment{
			ID:                uuid.NewString(),
			OrderID:           notification.OrderID,
			Status:            models.PaymentStatusRejected,
			Amount:            0,
			ExternalPaymentID: externalPaymentID(notification),
		}
		if _, err := ps.payments.CreatePayment(ctx, &payment); err != nil {
			ps.logger.Error("record rejected payment", zap.String("order", notification.OrderID), zap.Error(err))
			return err
		}
		return nil
	}

	deadline := ps.clock.Now().Add(ps.acceptWindow)

	order, err := ps.orders.StartAcceptance(ctx, notification.OrderID, deadline)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			// either the order does not exist, or a duplicate delivery of
			// this webhook already opened the dispute
			cur, getErr := ps.orders.GetOrderByID(ctx, notification.OrderID)
			if getErr != nil {
				if errors.Is(getErr, models.ErrDataNotFound) {
					return models.ErrOrderNotFound
				}
				return getErr
			}
			ps.logger.Info("duplicate payment webhook ignored",
				zap.String("order", cur.ID),
				zap.String("status", cur.Status))
			return nil
		}
		ps.logger.Error("start acceptance", zap.String("order", notification.OrderID), zap.Error(err))
		return err
	}

	payment := models.Payment{
		ID:                uuid.NewString(),
		OrderID:           order.ID,
		Status:            models.PaymentStatusApproved,
		Amount:            order.FinalTotal,
		ExternalPaymentID: externalPaymentID(notification),
	}
	if _, err := ps.payments.CreatePayment(ctx, &payment); err != nil {
		ps.logger.Error("record approved payment", zap.String("order", order.ID), zap.Error(err))
		return err
	}

	// notify all connected agencies that the dispute is open
	ps.broadcaster.Publish(*order)

	ps.logger.Info("dispute started",
		zap.String("order", order.ID),
		zap.Time("accept_expires_at", deadline))

	return nil
}

// ListByOrder returns payment facts recorded for an order, newest first
func (ps *PaymentService) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	return ps.payments.GetPaymentsByOrderID(ctx, orderID)
}

func externalPaymentID(notification models.PaymentNotification) string {
	if notification.PaymentID != "" {
		return notification.PaymentID
	}
	return defaultExternalPaymentID
}
