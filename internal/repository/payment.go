package repository

import (
	"context"

	"github.com/girojeri/backend/internal/models"
	"github.com/girojeri/backend/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertPaymentQuery = `
						INSERT INTO payments (id, order_id, status, amount, external_payment_id)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id, order_id, status, amount, external_payment_id, created_at
`
	selectPaymentsByOrderIDQuery = `
						SELECT id, order_id, status, amount, external_payment_id, created_at FROM payments
						WHERE order_id = $1
						ORDER BY created_at DESC
`
)

// PaymentRepository implements PaymentRepository interface
type PaymentRepository struct {
	db *postgres.DB
}

// NewPaymentRepository creates new payment repository instance
func NewPaymentRepository(db *postgres.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePayment records a payment fact for an order
func (pr *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	err := pr.db.QueryRow(ctx, insertPaymentQuery,
		payment.ID, payment.OrderID, payment.Status, payment.Amount, payment.ExternalPaymentID).
		Scan(&payment.ID, &payment.OrderID, &payment.Status, &payment.Amount, &payment.ExternalPaymentID, &payment.CreatedAt)
	if err != nil {
		if errCode := pr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return payment, nil
}

// GetPaymentsByOrderID returns payment facts recorded for an order
func (pr *PaymentRepository) GetPaymentsByOrderID(ctx context.Context, orderID string) ([]models.Payment, error) {
	rows, err := pr.db.Query(ctx, selectPaymentsByOrderIDQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment

	for rows.Next() {
		payment := models.Payment{}
		err = rows.Scan(&payment.ID, &payment.OrderID, &payment.Status, &payment.Amount, &payment.ExternalPaymentID, &payment.CreatedAt)
		if err != nil {
			continue
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
