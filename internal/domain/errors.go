package domain

import "errors"

// Sentinel errors shared by stores, services and handlers.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidID         = errors.New("invalid event id")
	ErrValidation        = errors.New("validation failed")
	ErrAlreadyRegistered = errors.New("email already registered for this event")
	ErrNotRegistered     = errors.New("email is not registered for this event")
)

// Sentinel errors for the admin auth gate.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
