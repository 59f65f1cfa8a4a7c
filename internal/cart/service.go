package cart

import (
	"context"
	"errors"

	"chatshop-be/internal/catalog"
)

// ViewItem is one aggregated cart entry joined with the catalog.
// Unavailable marks items removed from the catalog since they were
// added; they keep their quantity but contribute nothing to the total.
type ViewItem struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
	Unavailable bool   `json:"unavailable,omitempty"`
}

type View struct {
	Items []ViewItem `json:"items"`
	Total int64      `json:"total"`
}

// Service defines the business logic for carts.
type Service interface {
	AddToCart(ctx context.Context, userID, itemID string, qty int) (*Line, error)
	GetActiveCart(ctx context.Context, userID string) (*ActiveCart, error)
	ViewCart(ctx context.Context, userID string) (*View, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

func NewService(repo Repository, catalogRepo catalog.Repository) Service {
	return &service{repo: repo, catalogRepo: catalogRepo}
}

// AddToCart appends a new active line. There is deliberately no stock
// check here: stock is enforced once, at checkout commit, so adding to
// the cart never contends with the catalog.
func (s *service) AddToCart(ctx context.Context, userID, itemID string, qty int) (*Line, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	// The item must exist right now; whether it still has stock is
	// checkout's problem.
	if _, err := s.catalogRepo.Get(ctx, itemID); err != nil {
		return nil, err
	}

	return s.repo.AddLine(ctx, userID, itemID, qty)
}

// GetActiveCart returns the aggregated active cart. An empty cart is a
// valid state, not an error.
func (s *service) GetActiveCart(ctx context.Context, userID string) (*ActiveCart, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	lines, err := s.repo.ActiveLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	return Aggregate(lines), nil
}

// ViewCart joins the active cart with current catalog names and prices
// and computes the running total.
func (s *service) ViewCart(ctx context.Context, userID string) (*View, error) {
	active, err := s.GetActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &View{Items: make([]ViewItem, 0, len(active.Items))}
	for _, it := range active.Items {
		item := ViewItem{ItemID: it.ItemID, Quantity: it.Quantity}

		p, err := s.catalogRepo.Get(ctx, it.ItemID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			item.Unavailable = true
		case err != nil:
			return nil, err
		default:
			item.Name = p.Name
			item.UnitPrice = p.Price
			item.Subtotal = p.Price * int64(it.Quantity)
			view.Total += item.Subtotal
		}

		view.Items = append(view.Items, item)
	}

	return view, nil
}
