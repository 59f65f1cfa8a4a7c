package catalog

import (
	"context"
	"database/sql"
	"errors"

	"chatshop-be/internal/logger"

	"go.uber.org/zap"
)

// Repository is the catalog store. DecrementStock is the atomic guard
// against oversell: it must fail without mutating when stock is short,
// regardless of what any earlier read observed.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, itemID string) (*Product, error)
	DecrementStock(ctx context.Context, itemID string, qty int) (int, error)
	IncrementStock(ctx context.Context, itemID string, qty int) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, name, price, description, stock
		FROM products
		ORDER BY item_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *repository) Get(ctx context.Context, itemID string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT item_id, name, price, description, stock
		FROM products
		WHERE item_id = $1
	`, itemID).Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Stock)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// DecrementStock deducts qty from the item's stock only if enough is
// available at the moment of mutation. The conditional UPDATE is the
// serialization point for concurrent checkouts competing on one item.
func (r *repository) DecrementStock(ctx context.Context, itemID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "DecrementStock"),
		zap.String("item_id", itemID),
		zap.Int("qty", qty),
	)

	var newStock int
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock - $1
		WHERE item_id = $2 AND stock >= $1
		RETURNING stock
	`, qty, itemID).Scan(&newStock)

	if errors.Is(err, sql.ErrNoRows) {
		// No row matched: either the item is gone or stock is short.
		p, getErr := r.Get(ctx, itemID)
		if getErr != nil {
			return 0, getErr
		}
		log.Warn("stock decrement rejected", zap.Int("available", p.Stock))
		return 0, &InsufficientStockError{
			ItemID:    itemID,
			Requested: qty,
			Available: p.Stock,
		}
	}
	if err != nil {
		log.Error("failed to decrement stock", zap.Error(err))
		return 0, err
	}

	log.Debug("stock decremented", zap.Int("new_stock", newStock))
	return newStock, nil
}

// IncrementStock returns qty to the item's stock. Used for restocks and
// for checkout compensation after a partial failure.
func (r *repository) IncrementStock(ctx context.Context, itemID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}

	var newStock int
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock + $1
		WHERE item_id = $2
		RETURNING stock
	`, qty, itemID).Scan(&newStock)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to increment stock",
			zap.String("item_id", itemID),
			zap.Error(err),
		)
		return 0, err
	}

	return newStock, nil
}
