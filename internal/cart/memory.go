package cart

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps cart lines per user in insertion order. Lines
// are partitioned by user id, so the single mutex only contends when
// the same maps are touched concurrently.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	lines  map[string][]*Line
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{lines: make(map[string][]*Line)}
}

func (r *MemoryRepository) AddLine(ctx context.Context, userID, itemID string, qty int) (*Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	l := &Line{
		ID:        r.nextID,
		UserID:    userID,
		ItemID:    itemID,
		Quantity:  qty,
		Status:    StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	r.lines[userID] = append(r.lines[userID], l)

	cp := *l
	return &cp, nil
}

func (r *MemoryRepository) ActiveLines(ctx context.Context, userID string) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []Line
	for _, l := range r.lines[userID] {
		if l.Status == StatusActive {
			active = append(active, *l)
		}
	}

	return active, nil
}

func (r *MemoryRepository) Retire(ctx context.Context, userID string, lineIDs []int64) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}

	wanted := make(map[int64]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var retired int64
	for _, l := range r.lines[userID] {
		if _, ok := wanted[l.ID]; ok && l.Status == StatusActive {
			l.Status = StatusInactive
			retired++
		}
	}

	return retired, nil
}
