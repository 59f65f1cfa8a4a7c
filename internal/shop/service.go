package shop

import (
	"context"
	"errors"

	"chatshop-be/internal/cart"
	"chatshop-be/internal/catalog"
	"chatshop-be/internal/checkout"
	"chatshop-be/internal/logger"
	"chatshop-be/internal/notify"
	"chatshop-be/internal/order"

	"go.uber.org/zap"
)

// Service is the surface the chat collaborator talks to: one method per
// intent. All invariants live below it, in the stores and the engine.
type Service interface {
	Browse(ctx context.Context) ([]catalog.Product, error)
	AddToCart(ctx context.Context, userID, itemID string, qty int) (*cart.Line, error)
	ViewCart(ctx context.Context, userID string) (*cart.View, error)
	Checkout(ctx context.Context, userID string) (*order.Order, error)
	ViewOrders(ctx context.Context, userID string) ([]order.Order, error)
}

type service struct {
	catalog  catalog.Repository
	carts    cart.Service
	orders   order.Repository
	engine   *checkout.Engine
	notifier *notify.Notifier
}

func NewService(
	catalogRepo catalog.Repository,
	cartSvc cart.Service,
	orderRepo order.Repository,
	engine *checkout.Engine,
	notifier *notify.Notifier,
) Service {
	return &service{
		catalog:  catalogRepo,
		carts:    cartSvc,
		orders:   orderRepo,
		engine:   engine,
		notifier: notifier,
	}
}

func (s *service) Browse(ctx context.Context) ([]catalog.Product, error) {
	return s.catalog.List(ctx)
}

func (s *service) AddToCart(ctx context.Context, userID, itemID string, qty int) (*cart.Line, error) {
	return s.carts.AddToCart(ctx, userID, itemID, qty)
}

func (s *service) ViewCart(ctx context.Context, userID string) (*cart.View, error) {
	return s.carts.ViewCart(ctx, userID)
}

// Checkout delegates to the engine and, on success, pushes the order
// notifications. A push failure never fails the checkout: the order is
// already committed.
func (s *service) Checkout(ctx context.Context, userID string) (*order.Order, error) {
	o, err := s.engine.Checkout(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, o); err != nil {
			logger.FromCtx(ctx).Warn("order notification failed",
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
		}
	}

	return o, nil
}

func (s *service) ViewOrders(ctx context.Context, userID string) ([]order.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Message categories the chat layer renders guidance from. Every
// failure the service can return maps to exactly one category.
const (
	CategoryOK                = "ok"
	CategoryNotFound          = "not_found"
	CategoryInvalidQuantity   = "invalid_quantity"
	CategoryInsufficientStock = "insufficient_stock"
	CategoryItemUnavailable   = "item_unavailable"
	CategoryEmptyCart         = "empty_cart"
	CategoryUnavailable       = "storage_unavailable"
	CategoryInternal          = "internal"
)

// Category classifies an error from any Service method so callers can
// pick a user-facing message without inspecting internals.
func Category(err error) string {
	var short *catalog.InsufficientStockError
	var gone *checkout.ItemUnavailableError

	switch {
	case err == nil:
		return CategoryOK
	case errors.Is(err, catalog.ErrNotFound):
		return CategoryNotFound
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidUserID),
		errors.Is(err, catalog.ErrInvalidQuantity):
		return CategoryInvalidQuantity
	case errors.As(err, &short):
		return CategoryInsufficientStock
	case errors.As(err, &gone):
		return CategoryItemUnavailable
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, order.ErrEmptyOrder):
		return CategoryEmptyCart
	case errors.Is(err, checkout.ErrStorageUnavailable):
		return CategoryUnavailable
	default:
		return CategoryInternal
	}
}
