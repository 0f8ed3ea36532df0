package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound               = errors.New("resource not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyExists     = errors.New("email already registered")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDuplicate              = errors.New("duplicate resource")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("access denied")
	ErrMissingIdentifier      = errors.New("no usable product identifier (EAN/ASIN/SKU)")
	ErrInvalidQuantity        = errors.New("quantity outside allowed range")
	ErrInvalidStateTransition = errors.New("operation not allowed in current state")
	ErrInsufficientStock      = errors.New("insufficient stock")
)
