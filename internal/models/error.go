package models

import "errors"

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")

	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderTaken      = errors.New("order already accepted by another agency")
	ErrOrderExpired    = errors.New("order acceptance window expired")
	ErrAcceptFailed    = errors.New("order can not be accepted")
	ErrServiceNotFound = errors.New("service not found")
)
