package order

import "time"

type OrderStatus string

const (
	// StatusPending is the write-ahead intent: the order and its lines
	// are durable but stock has not necessarily been committed yet.
	StatusPending OrderStatus = "PENDING"
	// StatusPaid is the sole success terminal.
	StatusPaid OrderStatus = "PAID"
	// StatusCanceled marks an intent whose stock effects were compensated.
	StatusCanceled OrderStatus = "CANCELED"
)

// Order is immutable once created, except for the single status
// transition PENDING -> PAID|CANCELED. Total always equals the sum of
// UnitPrice*Quantity over Lines.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Total     int64       `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Lines     []Line      `json:"lines"`
}

// Line snapshots name and unit price at commit time; the catalog may
// change later, the order never does.
type Line struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}
