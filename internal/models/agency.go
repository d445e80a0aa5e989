package models

import "time"

// Agency is an agency account able to dispute orders
type Agency struct {
	ID           string
	Login        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// TokenPayload is the verified content of an auth token
type TokenPayload struct {
	AgencyID string
}
