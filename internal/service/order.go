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

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order with its vehicle lines
	CreateOrder(ctx context.Context, order *models.Order, vehicles []models.OrderVehicle) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// ConfirmOrder atomically assigns the order to the agency, returns affected rows
	ConfirmOrder(ctx context.Context, orderID, agencyID string, now time.Time) (int64, error)
	// StartAcceptance moves the order to AGUARDANDO_ACEITE and stamps the deadline
	StartAcceptance(ctx context.Context, orderID string, deadline time.Time) (*models.Order, error)
	// GetAvailableOrders returns orders currently open for dispute
	GetAvailableOrders(ctx context.Context, now time.Time) ([]models.Order, error)
}

// OrderService implements OrderService interface
type OrderService struct {
	repo   OrderRepository
	clock  clock.Clock
	logger *zap.Logger
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, clk clock.Clock, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// CreateOrderInput carries the booking data with the pricing snapshot
// computed upstream
type CreateOrderInput struct {
	ClientID          string
	ServiceID         string
	PickupLocation    string
	ScheduledAt       time.Time
	Adults            int
	Children          int
	BaseTotal         float64
	PricingMultiplier float64
	FinalTotal        float64
	PlatformAmount    float64
	AgencyAmount      float64
	CommissionPercent float64
	Vehicles          []models.OrderVehicle
}

// Create registers new order awaiting payment
func (os *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	order := models.Order{
		ID:                uuid.NewString(),
		ClientID:          in.ClientID,
		ServiceID:         in.ServiceID,
		PickupLocation:    in.PickupLocation,
		ScheduledAt:       in.ScheduledAt,
		Adults:            in.Adults,
		Children:          in.Children,
		Status:            models.OrderStatusAwaitingPayment,
		BaseTotal:         in.BaseTotal,
		PricingMultiplier: in.PricingMultiplier,
		FinalTotal:        in.FinalTotal,
		PlatformAmount:    in.PlatformAmount,
		AgencyAmount:      in.AgencyAmount,
		CommissionPercent: in.CommissionPercent,
	}
	if order.Adults == 0 {
		order.Adults = 1
	}

	for i := range in.Vehicles {
		in.Vehicles[i].OrderID = order.ID
	}

	return os.repo.CreateOrder(ctx, &order, in.Vehicles)
}

// Accept runs one acceptance attempt of the dispute. The conditional update
// goes first, without any prior read: a read-check-then-write sequence would
// open a race window between two agencies, while the single atomic update
// lets the database decide who got there first. A zero match count is then
// classified by reading the order back.
func (os *OrderService) Accept(ctx context.Context, orderID, agencyID string) error {
	now := os.clock.Now()

	matched, err := os.repo.ConfirmOrder(ctx, orderID, agencyID, now)
	if err != nil {
		os.logger.Error("confirm order", zap.String("order", orderID), zap.Error(err))
		return err
	}

	if matched > 0 {
		// this agency won the dispute
		return nil
	}

	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.ErrOrderNotFound
		}
		return err
	}

	if order.Status == models.OrderStatusConfirmed {
		return models.ErrOrderTaken
	}
	if order.AcceptExpiresAt != nil && order.AcceptExpiresAt.Before(now) {
		return models.ErrOrderExpired
	}

	// any other unmet predicate, e.g. order still awaiting payment
	return models.ErrAcceptFailed
}

// GetOrder returns order by id
func (os *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

// ListAvailable returns orders currently open for dispute
func (os *OrderService) ListAvailable(ctx context.Context) ([]models.Order, error) {
	return os.repo.GetAvailableOrders(ctx, os.clock.Now())
}
