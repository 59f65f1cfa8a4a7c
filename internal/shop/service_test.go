package shop

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"chatshop-be/internal/cart"
	"chatshop-be/internal/catalog"
	"chatshop-be/internal/checkout"
	"chatshop-be/internal/notify"
	"chatshop-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	catalog *catalog.MemoryRepository
	carts   *cart.MemoryRepository
	orders  *order.MemoryRepository
	pusher  *recordingPusher
	svc     Service
}

type recordingPusher struct {
	pushes []string
}

func (p *recordingPusher) Push(ctx context.Context, userID, text string) error {
	p.pushes = append(p.pushes, userID+": "+text)
	return nil
}

func newFixture(products ...catalog.Product) *fixture {
	f := &fixture{
		catalog: catalog.NewMemoryRepository(products...),
		carts:   cart.NewMemoryRepository(),
		orders:  order.NewMemoryRepository(),
		pusher:  &recordingPusher{},
	}

	engine := checkout.NewEngine(f.catalog, f.carts, f.orders)
	cartSvc := cart.NewService(f.carts, f.catalog)
	notifier := notify.NewNotifier(f.pusher, "owner-1", "NT$")
	f.svc = NewService(f.catalog, cartSvc, f.orders, engine, notifier)

	return f
}

func TestService_Flow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(
		catalog.Product{ID: "coffee001", Name: "Drip Coffee", Price: 680, Stock: 2},
		catalog.Product{ID: "tea001", Name: "Oolong Tea", Price: 450, Stock: 10},
	)

	t.Run("Browse", func(t *testing.T) {
		products, err := f.svc.Browse(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "coffee001", products[0].ID)
	})

	t.Run("AddAndViewCart", func(t *testing.T) {
		_, err := f.svc.AddToCart(ctx, "user-a", "coffee001", 2)
		require.NoError(t, err)

		view, err := f.svc.ViewCart(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, int64(1360), view.Total)
	})

	t.Run("CheckoutNotifiesOwnerAndBuyer", func(t *testing.T) {
		o, err := f.svc.Checkout(ctx, "user-a")
		require.NoError(t, err)
		assert.Equal(t, int64(1360), o.Total)

		require.Len(t, f.pusher.pushes, 2)
		assert.Contains(t, f.pusher.pushes[0], "owner-1: ")
		assert.Contains(t, f.pusher.pushes[0], o.ID)
		assert.Contains(t, f.pusher.pushes[1], "user-a: ")
		assert.Contains(t, f.pusher.pushes[1], "NT$1360")
	})

	t.Run("ViewOrders", func(t *testing.T) {
		orders, err := f.svc.ViewOrders(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.StatusPaid, orders[0].Status)
	})

	t.Run("EmptyCartCheckout", func(t *testing.T) {
		_, err := f.svc.Checkout(ctx, "user-a")
		assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	})
}

type failingPusher struct{}

func (failingPusher) Push(ctx context.Context, userID, text string) error {
	return errors.New("push failed")
}

func TestService_CheckoutSurvivesPushFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(catalog.Product{ID: "tea001", Name: "Oolong Tea", Price: 450, Stock: 10})

	engine := checkout.NewEngine(f.catalog, f.carts, f.orders)
	cartSvc := cart.NewService(f.carts, f.catalog)
	notifier := notify.NewNotifier(failingPusher{}, "owner-1", "NT$")
	svc := NewService(f.catalog, cartSvc, f.orders, engine, notifier)

	_, err := svc.AddToCart(ctx, "user-a", "tea001", 1)
	require.NoError(t, err)

	o, err := svc.Checkout(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, o.Status)
}

func TestCategory(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"Nil", nil, CategoryOK},
		{"NotFound", catalog.ErrNotFound, CategoryNotFound},
		{"WrappedNotFound", fmt.Errorf("add: %w", catalog.ErrNotFound), CategoryNotFound},
		{"InvalidQuantity", cart.ErrInvalidQuantity, CategoryInvalidQuantity},
		{"MissingUser", cart.ErrInvalidUserID, CategoryInvalidQuantity},
		{"InsufficientStock", &catalog.InsufficientStockError{ItemID: "coffee001", Available: 0}, CategoryInsufficientStock},
		{"ItemUnavailable", &checkout.ItemUnavailableError{ItemID: "ghost"}, CategoryItemUnavailable},
		{"EmptyCart", checkout.ErrEmptyCart, CategoryEmptyCart},
		{"EmptyOrder", order.ErrEmptyOrder, CategoryEmptyCart},
		{"Storage", fmt.Errorf("%w: boom", checkout.ErrStorageUnavailable), CategoryUnavailable},
		{"Unknown", errors.New("boom"), CategoryInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Category(tc.err))
		})
	}
}
