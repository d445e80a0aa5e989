package models

import "time"

//AGUARDANDO_PAGAMENTO — pedido criado, aguardando o webhook de pagamento;
//AGUARDANDO_ACEITE — pagamento aprovado, agências disputam até accept_expires_at;
//CONFIRMADA — exatamente uma agência venceu a disputa;
//REJEITADA/CANCELADA — estados terminais de falha.

// order status
const (
	OrderStatusAwaitingPayment    = "AGUARDANDO_PAGAMENTO"
	OrderStatusAwaitingAcceptance = "AGUARDANDO_ACEITE"
	OrderStatusConfirmed          = "CONFIRMADA"
	OrderStatusRejected           = "REJEITADA"
	OrderStatusCanceled           = "CANCELADA"
)

// Order is one bookable ride/tour instance pending fulfillment by an agency.
// AgencyID stays nil until exactly one acceptance succeeds and is immutable after.
type Order struct {
	ID                string
	ClientID          string
	ServiceID         string
	PickupLocation    string
	ScheduledAt       time.Time
	Adults            int
	Children          int
	Status            string
	AgencyID          *string
	AcceptExpiresAt   *time.Time
	AcceptedAt        *time.Time
	BaseTotal         float64
	PricingMultiplier float64
	FinalTotal        float64
	PlatformAmount    float64
	AgencyAmount      float64
	CommissionPercent float64
	CreatedAt         time.Time
}

// OrderVehicle is a vehicle line of a private (PRIVATIVO) order,
// with the vehicle price snapshotted at creation time
type OrderVehicle struct {
	OrderID           string
	VehicleID         string
	Quantity          int
	UnitPriceSnapshot float64
	LineTotal         float64
}
