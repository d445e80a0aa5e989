package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/girojeri/backend/internal/clock"
	"github.com/girojeri/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// memOrderRepo is an in-memory order store whose conditional update is atomic
// under a mutex, mirroring the database guarantee the service relies on
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newMemOrderRepo(orders ...*models.Order) *memOrderRepo {
	repo := &memOrderRepo{orders: make(map[string]*models.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (r *memOrderRepo) CreateOrder(_ context.Context, order *models.Order, _ []models.OrderVehicle) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return nil, models.ErrConflictData
	}
	order.CreatedAt = time.Now()
	cp := *order
	r.orders[order.ID] = &cp
	return order, nil
}

func (r *memOrderRepo) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *memOrderRepo) ConfirmOrder(_ context.Context, orderID, agencyID string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return 0, nil
	}
	if order.Status != models.OrderStatusAwaitingAcceptance || order.AgencyID != nil ||
		order.AcceptExpiresAt == nil || !order.AcceptExpiresAt.After(now) {
		return 0, nil
	}
	order.Status = models.OrderStatusConfirmed
	order.AgencyID = &agencyID
	acceptedAt := now
	order.AcceptedAt = &acceptedAt
	return 1, nil
}

func (r *memOrderRepo) StartAcceptance(_ context.Context, orderID string, deadline time.Time) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.Status != models.OrderStatusAwaitingPayment {
		return nil, models.ErrDataNotFound
	}
	order.Status = models.OrderStatusAwaitingAcceptance
	order.AcceptExpiresAt = &deadline
	cp := *order
	return &cp, nil
}

func (r *memOrderRepo) GetAvailableOrders(_ context.Context, now time.Time) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []models.Order
	for _, order := range r.orders {
		if order.Status == models.OrderStatusAwaitingAcceptance && order.AgencyID == nil &&
			order.AcceptExpiresAt != nil && order.AcceptExpiresAt.After(now) {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func openOrder(id string, expiresAt time.Time) *models.Order {
	return &models.Order{
		ID:              id,
		ClientID:        "client-1",
		ServiceID:       "service-1",
		Status:          models.OrderStatusAwaitingAcceptance,
		AcceptExpiresAt: &expiresAt,
		FinalTotal:      350,
	}
}

func TestOrderService_AcceptHappyPath(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemOrderRepo(openOrder("order-1", now.Add(20*time.Minute)))
	svc := NewOrderService(repo, clock.NewFixed(now), zap.NewNop())

	ctx := context.Background()

	// agency A wins
	require.NoError(t, svc.Accept(ctx, "order-1", "agency-a"))

	// agency B loses with a distinguishable reason
	err := svc.Accept(ctx, "order-1", "agency-b")
	assert.ErrorIs(t, err, models.ErrOrderTaken)

	// repeated reads stay stable: CONFIRMADA with the winning agency
	for i := 0; i < 3; i++ {
		order, err := svc.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, order.Status)
		require.NotNil(t, order.AgencyID)
		assert.Equal(t, "agency-a", *order.AgencyID)
		require.NotNil(t, order.AcceptedAt)
		assert.Equal(t, now, *order.AcceptedAt)
	}
}

func TestOrderService_AcceptExpired(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemOrderRepo(openOrder("order-1", now.Add(-time.Minute)))
	svc := NewOrderService(repo, clock.NewFixed(now), zap.NewNop())

	err := svc.Accept(context.Background(), "order-1", "agency-a")
	assert.ErrorIs(t, err, models.ErrOrderExpired)

	// order is unchanged
	order, err := svc.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingAcceptance, order.Status)
	assert.Nil(t, order.AgencyID)
}

func TestOrderService_AcceptNotFound(t *testing.T) {
	repo := newMemOrderRepo()
	svc := NewOrderService(repo, clock.NewSystem(), zap.NewNop())

	for i := 0; i < 3; i++ {
		err := svc.Accept(context.Background(), "missing", "agency-a")
		assert.ErrorIs(t, err, models.ErrOrderNotFound)
	}
}

func TestOrderService_AcceptNotOpenYet(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	order := openOrder("order-1", now.Add(20*time.Minute))
	order.Status = models.OrderStatusAwaitingPayment
	order.AcceptExpiresAt = nil
	repo := newMemOrderRepo(order)
	svc := NewOrderService(repo, clock.NewFixed(now), zap.NewNop())

	err := svc.Accept(context.Background(), "order-1", "agency-a")
	assert.ErrorIs(t, err, models.ErrAcceptFailed)
}

// the core correctness property: any number of concurrent acceptance attempts
// produce exactly one winner, everyone else observes ErrOrderTaken
func TestOrderService_AcceptSingleWinnerUnderContention(t *testing.T) {
	const attempts = 32

	now := time.Now().UTC()
	repo := newMemOrderRepo(openOrder("order-1", now.Add(20*time.Minute)))
	svc := NewOrderService(repo, clock.NewSystem(), zap.NewNop())

	results := make([]error, attempts)

	g, ctx := errgroup.WithContext(context.Background())
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			<-start
			results[i] = svc.Accept(ctx, "order-1", fmt.Sprintf("agency-%d", i))
			return nil
		})
	}

	close(start)
	require.NoError(t, g.Wait())

	var wins, taken, other int
	var winner int
	for i, err := range results {
		switch {
		case err == nil:
			wins++
			winner = i
		case errors.Is(err, models.ErrOrderTaken):
			taken++
		default:
			other++
		}
	}

	assert.Equal(t, 1, wins, "exactly one attempt must win")
	assert.Equal(t, attempts-1, taken, "all losers must observe already taken")
	assert.Zero(t, other)

	order, err := svc.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	require.NotNil(t, order.AgencyID)
	assert.Equal(t, fmt.Sprintf("agency-%d", winner), *order.AgencyID)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
}

func TestOrderService_Create(t *testing.T) {
	repo := newMemOrderRepo()
	svc := NewOrderService(repo, clock.NewSystem(), zap.NewNop())

	order, err := svc.Create(context.Background(), CreateOrderInput{
		ClientID:          "client-1",
		ServiceID:         "service-1",
		PickupLocation:    "Pousada Vila Jeri",
		ScheduledAt:       time.Now().Add(48 * time.Hour),
		BaseTotal:         300,
		PricingMultiplier: 1.1,
		FinalTotal:        330,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderStatusAwaitingPayment, order.Status)
	assert.Equal(t, 1, order.Adults)
	assert.Nil(t, order.AgencyID)
	assert.Nil(t, order.AcceptExpiresAt)
}
