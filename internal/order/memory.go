package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is the in-memory order ledger. Orders are stored by
// id; reads return copies so callers cannot mutate the ledger.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]*Order)}
}

func (r *MemoryRepository) Create(ctx context.Context, o *Order) error {
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *o
	cp.Lines = append([]Line(nil), o.Lines...)
	r.orders[o.ID] = &cp

	return nil
}

func (r *MemoryRepository) MarkPaid(ctx context.Context, orderID string) error {
	return r.transition(orderID, StatusPaid)
}

func (r *MemoryRepository) MarkCanceled(ctx context.Context, orderID string) error {
	return r.transition(orderID, StatusCanceled)
}

func (r *MemoryRepository) transition(orderID string, to OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != StatusPending {
		return ErrInvalidTransition
	}

	o.Status = to
	return nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []Order
	for _, o := range r.orders {
		if o.UserID == userID && o.Status == StatusPaid {
			orders = append(orders, copyOrder(o))
		}
	}

	// Newest first; ids break timestamp ties deterministically.
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})

	return orders, nil
}

func (r *MemoryRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []Order
	for _, o := range r.orders {
		if o.Status == StatusPending && o.CreatedAt.Before(cutoff) {
			orders = append(orders, copyOrder(o))
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	return orders, nil
}

func copyOrder(o *Order) Order {
	cp := *o
	cp.Lines = append([]Line(nil), o.Lines...)
	return cp
}
