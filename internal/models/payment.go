package models

import "time"

// payment status
const (
	PaymentStatusApproved = "APPROVED"
	PaymentStatusRejected = "REJECTED"
)

// Payment is a payment fact recorded for an order
type Payment struct {
	ID                string
	OrderID           string
	Status            string
	Amount            float64
	ExternalPaymentID string
	CreatedAt         time.Time
}

// PaymentNotification is the payload delivered by the payment provider webhook
type PaymentNotification struct {
	OrderID   string
	Status    string
	PaymentID string
}
