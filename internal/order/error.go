package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order has no line items")

	// ErrInvalidTransition is returned by the status flips when the
	// order is no longer PENDING.
	ErrInvalidTransition = errors.New("order is not pending")
)
