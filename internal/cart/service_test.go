package cart

import (
	"context"
	"errors"
	"testing"

	"chatshop-be/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddLine(ctx context.Context, userID, itemID string, qty int) (*Line, error) {
	args := m.Called(ctx, userID, itemID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Line), args.Error(1)
}

func (m *MockRepository) ActiveLines(ctx context.Context, userID string) ([]Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Line), args.Error(1)
}

func (m *MockRepository) Retire(ctx context.Context, userID string, lineIDs []int64) (int64, error) {
	args := m.Called(ctx, userID, lineIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockCatalogRepository is a mock for the catalog repository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) List(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockCatalogRepository) Get(ctx context.Context, itemID string) (*catalog.Product, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalogRepository) DecrementStock(ctx context.Context, itemID string, qty int) (int, error) {
	args := m.Called(ctx, itemID, qty)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogRepository) IncrementStock(ctx context.Context, itemID string, qty int) (int, error) {
	args := m.Called(ctx, itemID, qty)
	return args.Int(0), args.Error(1)
}

func TestService_AddToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		catalogRepo := new(MockCatalogRepository)
		svc := NewService(repo, catalogRepo)

		catalogRepo.On("Get", ctx, "coffee001").
			Return(&catalog.Product{ID: "coffee001", Name: "Drip Coffee", Price: 680, Stock: 2}, nil)
		repo.On("AddLine", ctx, "user-a", "coffee001", 2).
			Return(&Line{ID: 1, UserID: "user-a", ItemID: "coffee001", Quantity: 2, Status: StatusActive}, nil)

		line, err := svc.AddToCart(ctx, "user-a", "coffee001", 2)
		assert.NoError(t, err)
		require.NotNil(t, line)
		assert.Equal(t, int64(1), line.ID)
		repo.AssertExpectations(t)
	})

	t.Run("NoStockCheckOnAdd", func(t *testing.T) {
		// Adding more than available stock is allowed; checkout is the
		// only place stock is enforced.
		repo := new(MockRepository)
		catalogRepo := new(MockCatalogRepository)
		svc := NewService(repo, catalogRepo)

		catalogRepo.On("Get", ctx, "coffee001").
			Return(&catalog.Product{ID: "coffee001", Price: 680, Stock: 2}, nil)
		repo.On("AddLine", ctx, "user-a", "coffee001", 99).
			Return(&Line{ID: 2, Quantity: 99, Status: StatusActive}, nil)

		_, err := svc.AddToCart(ctx, "user-a", "coffee001", 99)
		assert.NoError(t, err)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockCatalogRepository))

		_, err := svc.AddToCart(ctx, "user-a", "coffee001", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = svc.AddToCart(ctx, "user-a", "coffee001", -3)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockCatalogRepository))

		_, err := svc.AddToCart(ctx, "", "coffee001", 1)
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		repo := new(MockRepository)
		catalogRepo := new(MockCatalogRepository)
		svc := NewService(repo, catalogRepo)

		catalogRepo.On("Get", ctx, "ghost").Return(nil, catalog.ErrNotFound)

		_, err := svc.AddToCart(ctx, "user-a", "ghost", 1)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		repo.AssertNotCalled(t, "AddLine", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_GetActiveCart(t *testing.T) {
	ctx := context.Background()

	t.Run("AggregatesLines", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCatalogRepository))

		repo.On("ActiveLines", ctx, "user-a").Return([]Line{
			{ID: 1, ItemID: "coffee001", Quantity: 1},
			{ID: 2, ItemID: "coffee001", Quantity: 1},
		}, nil)

		cart, err := svc.GetActiveCart(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, []int64{1, 2}, cart.LineIDs)
	})

	t.Run("EmptyCartIsNotAnError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCatalogRepository))

		repo.On("ActiveLines", ctx, "user-b").Return([]Line{}, nil)

		cart, err := svc.GetActiveCart(ctx, "user-b")
		require.NoError(t, err)
		assert.True(t, cart.Empty())
	})
}

func TestService_ViewCart(t *testing.T) {
	ctx := context.Background()

	t.Run("ComputesTotal", func(t *testing.T) {
		repo := new(MockRepository)
		catalogRepo := new(MockCatalogRepository)
		svc := NewService(repo, catalogRepo)

		repo.On("ActiveLines", ctx, "user-a").Return([]Line{
			{ID: 1, ItemID: "coffee001", Quantity: 2},
			{ID: 2, ItemID: "tea001", Quantity: 1},
		}, nil)
		catalogRepo.On("Get", ctx, "coffee001").
			Return(&catalog.Product{ID: "coffee001", Name: "Drip Coffee", Price: 680}, nil)
		catalogRepo.On("Get", ctx, "tea001").
			Return(&catalog.Product{ID: "tea001", Name: "Oolong Tea", Price: 450}, nil)

		view, err := svc.ViewCart(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, view.Items, 2)
		assert.Equal(t, int64(680*2), view.Items[0].Subtotal)
		assert.Equal(t, int64(680*2+450), view.Total)
	})

	t.Run("VanishedItemExcludedFromTotal", func(t *testing.T) {
		repo := new(MockRepository)
		catalogRepo := new(MockCatalogRepository)
		svc := NewService(repo, catalogRepo)

		repo.On("ActiveLines", ctx, "user-a").Return([]Line{
			{ID: 1, ItemID: "gone001", Quantity: 3},
			{ID: 2, ItemID: "tea001", Quantity: 1},
		}, nil)
		catalogRepo.On("Get", ctx, "gone001").Return(nil, catalog.ErrNotFound)
		catalogRepo.On("Get", ctx, "tea001").
			Return(&catalog.Product{ID: "tea001", Name: "Oolong Tea", Price: 450}, nil)

		view, err := svc.ViewCart(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, view.Items, 2)
		assert.True(t, view.Items[0].Unavailable)
		assert.Equal(t, int64(0), view.Items[0].Subtotal)
		assert.Equal(t, int64(450), view.Total)
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCatalogRepository))

		repo.On("ActiveLines", ctx, "user-a").Return(nil, errors.New("db error"))

		_, err := svc.ViewCart(ctx, "user-a")
		assert.Error(t, err)
	})
}
