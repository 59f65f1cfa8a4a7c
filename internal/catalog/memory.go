package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is a mutex-guarded in-memory catalog. It backs
// single-process deployments and the concurrency tests; the conditional
// check inside DecrementStock runs under the write lock, so it gives the
// same never-below-zero guarantee as the SQL variant.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[string]*Product
}

func NewMemoryRepository(products ...Product) *MemoryRepository {
	r := &MemoryRepository{products: make(map[string]*Product, len(products))}
	for _, p := range products {
		r.Put(p)
	}
	return r
}

// Put creates or replaces a product. Seeding helper for the external
// catalog-management side; not part of the Repository contract.
func (r *MemoryRepository) Put(p Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := p
	r.products[p.ID] = &cp
}

func (r *MemoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	return products, nil
}

func (r *MemoryRepository) Get(ctx context.Context, itemID string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) DecrementStock(ctx context.Context, itemID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[itemID]
	if !ok {
		return 0, ErrNotFound
	}
	if p.Stock < qty {
		return 0, &InsufficientStockError{
			ItemID:    itemID,
			Requested: qty,
			Available: p.Stock,
		}
	}

	p.Stock -= qty
	return p.Stock, nil
}

func (r *MemoryRepository) IncrementStock(ctx context.Context, itemID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[itemID]
	if !ok {
		return 0, ErrNotFound
	}

	p.Stock += qty
	return p.Stock, nil
}
