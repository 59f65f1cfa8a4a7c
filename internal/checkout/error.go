package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is the "nothing to do" result: the user has no
	// active cart lines at the moment of checkout. Not a fault.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrStorageUnavailable wraps transient backend failures after
	// compensation has restored stock and the cart is intact.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ItemUnavailableError reports an item that disappeared from the
// catalog between cart-add and checkout.
type ItemUnavailableError struct {
	ItemID string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("item %s is no longer available", e.ItemID)
}
