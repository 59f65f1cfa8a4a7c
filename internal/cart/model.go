package cart

import "time"

type LineStatus string

const (
	StatusActive   LineStatus = "ACTIVE"
	StatusInactive LineStatus = "INACTIVE"
)

// Line is one append-only cart addition. Lines never merge; the active
// cart for a user is the aggregate of all ACTIVE lines. A line that goes
// INACTIVE never comes back.
type Line struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	ItemID    string     `json:"item_id"`
	Quantity  int        `json:"quantity"`
	Status    LineStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// ItemQuantity is one aggregated cart entry, first-added order preserved.
type ItemQuantity struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// ActiveCart is the aggregate view of a user's active lines together
// with the identities of the lines it was computed from, so checkout can
// retire exactly those lines and nothing added afterwards.
type ActiveCart struct {
	Items   []ItemQuantity
	LineIDs []int64
}

func (c *ActiveCart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

// Aggregate folds raw lines into an ActiveCart, summing quantities per
// item while keeping first-seen item order.
func Aggregate(lines []Line) *ActiveCart {
	cart := &ActiveCart{}
	index := make(map[string]int, len(lines))

	for _, l := range lines {
		cart.LineIDs = append(cart.LineIDs, l.ID)
		if i, ok := index[l.ItemID]; ok {
			cart.Items[i].Quantity += l.Quantity
			continue
		}
		index[l.ItemID] = len(cart.Items)
		cart.Items = append(cart.Items, ItemQuantity{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	return cart
}
