package models

import "time"

// service type
const (
	ServiceTypePrivate  = "PRIVATIVO"
	ServiceTypeShared   = "COMPARTILHADO"
	ServiceTypeTransfer = "TRANSLADO"
)

// Service is a bookable tour/transfer service
type Service struct {
	ID        string
	Name      string
	Type      string
	BasePrice float64
}

// Vehicle is a vehicle offered for private services
type Vehicle struct {
	ID       string
	Name     string
	Capacity int
	Price    float64
}

// Holiday is an admin-managed holiday used by the pricing rules
type Holiday struct {
	ID     string
	Date   time.Time
	Name   string
	Active bool
}

// PricingRule is an admin-managed percentage adjustment, e.g. FERIADO = 10
type PricingRule struct {
	ID    string
	Name  string
	Value float64
}
