// Sentinel errors shared by the service and HTTP layers. Callers match them
// with errors.Is; services may wrap them with extra context.
package domain

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input validation errors.
	ErrValidation = errors.New("validation failed")
	ErrEmailTaken = errors.New("email already in use")
	ErrInvalidID  = errors.New("invalid id")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
