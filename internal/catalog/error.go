package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("product not found")

	ErrInvalidQuantity = errors.New("invalid stock quantity")
)

// InsufficientStockError reports a conditional decrement that failed
// because the requested quantity exceeds what is currently available.
// Available is the stock observed at the moment of the failed mutation.
type InsufficientStockError struct {
	ItemID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for %s: requested %d, available %d",
		e.ItemID, e.Requested, e.Available,
	)
}
