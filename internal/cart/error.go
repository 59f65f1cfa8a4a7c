package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrInvalidUserID   = errors.New("user id is required")

	// -- Resource State --
	ErrCartEmpty = errors.New("cart is empty")

	// -- Database & Operation Failures --
	ErrFailedGetCartRows = errors.New("failed to get cart rows")
	ErrFailedAddLine     = errors.New("failed to add cart line")
	ErrFailedRetireLines = errors.New("failed to retire cart lines")
)
