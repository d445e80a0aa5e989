package repository

import (
	"context"
	"errors"
	"time"

	"github.com/girojeri/backend/internal/models"
	"github.com/girojeri/backend/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (id, client_id, service_id, pickup_location, scheduled_at, adults, children, status,
											base_total, pricing_multiplier, final_total, platform_amount, agency_amount, commission_percent)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
						RETURNING created_at
`
	insertOrderVehicleQuery = `
						INSERT INTO order_vehicles (order_id, vehicle_id, quantity, unit_price_snapshot, line_total)
						VALUES ($1, $2, $3, $4, $5)
`
	selectOrderByIDQuery = `
						SELECT id, client_id, service_id, pickup_location, scheduled_at, adults, children, status,
							   agency_id, accept_expires_at, accepted_at,
							   base_total, pricing_multiplier, final_total, platform_amount, agency_amount, commission_percent, created_at
						FROM orders
						WHERE id = $1
`
	selectAvailableOrdersQuery = `
						SELECT id, client_id, service_id, pickup_location, scheduled_at, adults, children, status,
							   agency_id, accept_expires_at, accepted_at,
							   base_total, pricing_multiplier, final_total, platform_amount, agency_amount, commission_percent, created_at
						FROM orders
						WHERE status = 'AGUARDANDO_ACEITE' AND agency_id IS NULL AND accept_expires_at > $1
						ORDER BY accept_expires_at
`
	// the dispute is decided by this single conditional update: predicate and
	// write happen as one atomic operation, so at most one agency can match it
	confirmOrderQuery = `
						UPDATE orders
						SET status = 'CONFIRMADA', agency_id = $2, accepted_at = $3
						WHERE id = $1 AND status = 'AGUARDANDO_ACEITE' AND agency_id IS NULL AND accept_expires_at > $3
`
	// matches only orders still waiting for payment, which keeps a duplicate
	// webhook delivery from re-stamping the deadline
	startAcceptanceQuery = `
						UPDATE orders
						SET status = 'AGUARDANDO_ACEITE', accept_expires_at = $2
						WHERE id = $1 AND status = 'AGUARDANDO_PAGAMENTO'
						RETURNING id, client_id, service_id, pickup_location, scheduled_at, adults, children, status,
								  agency_id, accept_expires_at, accepted_at,
								  base_total, pricing_multiplier, final_total, platform_amount, agency_amount, commission_percent, created_at
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(&order.ID, &order.ClientID, &order.ServiceID, &order.PickupLocation, &order.ScheduledAt,
		&order.Adults, &order.Children, &order.Status,
		&order.AgencyID, &order.AcceptExpiresAt, &order.AcceptedAt,
		&order.BaseTotal, &order.PricingMultiplier, &order.FinalTotal,
		&order.PlatformAmount, &order.AgencyAmount, &order.CommissionPercent, &order.CreatedAt)
}

// CreateOrder inserts new order with its vehicle lines in one transaction
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order, vehicles []models.OrderVehicle) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.ID, order.ClientID, order.ServiceID, order.PickupLocation, order.ScheduledAt,
		order.Adults, order.Children, order.Status,
		order.BaseTotal, order.PricingMultiplier, order.FinalTotal,
		order.PlatformAmount, order.AgencyAmount, order.CommissionPercent).Scan(&order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for _, v := range vehicles {
		if _, err := tx.Exec(ctx, insertOrderVehicleQuery, order.ID, v.VehicleID, v.Quantity, v.UnitPriceSnapshot, v.LineTotal); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// ConfirmOrder atomically assigns the order to the agency. It matches only
// while the order is awaiting acceptance, unassigned and not expired, and
// returns the number of affected rows (0 or 1).
func (or *OrderRepository) ConfirmOrder(ctx context.Context, orderID, agencyID string, now time.Time) (int64, error) {
	cmd, err := or.db.Exec(ctx, confirmOrderQuery, orderID, agencyID, now)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}

// StartAcceptance moves the order to AGUARDANDO_ACEITE and stamps the
// acceptance deadline
func (or *OrderRepository) StartAcceptance(ctx context.Context, orderID string, deadline time.Time) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, startAcceptanceQuery, orderID, deadline), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetAvailableOrders returns orders currently open for dispute
func (or *OrderRepository) GetAvailableOrders(ctx context.Context, now time.Time) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectAvailableOrdersQuery, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
