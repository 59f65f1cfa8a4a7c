package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chatshop-be/internal/logger"

	"go.uber.org/zap"
)

// Repository is an append-only ledger: orders and their lines are never
// updated or deleted, the only mutation exposed is the status flip out
// of PENDING.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	MarkPaid(ctx context.Context, orderID string) error
	MarkCanceled(ctx context.Context, orderID string) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListStalePending(ctx context.Context, cutoff time.Time) ([]Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create inserts the order and its lines in one transaction so the
// write-ahead intent is all-or-nothing.
func (r *repository) Create(ctx context.Context, o *Order) error {
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.Int("line_count", len(o.Lines)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			order_id, user_id, total, status, created_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		o.ID,
		o.UserID,
		o.Total,
		o.Status,
		o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, line := range o.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (
				order_id, item_id, name_snapshot, qty, price_snapshot
			) VALUES ($1,$2,$3,$4,$5)
		`,
			o.ID,
			line.ItemID,
			line.Name,
			line.Quantity,
			line.UnitPrice,
		)
		if err != nil {
			log.Error("failed to insert order line",
				zap.Int("line_index", i),
				zap.String("item_id", line.ItemID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order created", zap.Int64("total", o.Total))

	return nil
}

func (r *repository) MarkPaid(ctx context.Context, orderID string) error {
	return r.transition(ctx, orderID, StatusPaid)
}

func (r *repository) MarkCanceled(ctx context.Context, orderID string) error {
	return r.transition(ctx, orderID, StatusCanceled)
}

// transition flips a PENDING order to a terminal status. The status
// predicate makes concurrent flips lose cleanly instead of clobbering.
func (r *repository) transition(ctx context.Context, orderID string, to OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1
		WHERE order_id = $2 AND status = $3
	`, to, orderID, StatusPending)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var current OrderStatus
		err := r.db.QueryRowContext(ctx,
			`SELECT status FROM orders WHERE order_id = $1`, orderID,
		).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		return ErrInvalidTransition
	}

	return nil
}

// ListByUser returns the user's PAID orders, newest first, lines loaded.
func (r *repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, user_id, total, status, created_at
		FROM orders
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC, order_id DESC
	`, userID, StatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// ListStalePending returns PENDING orders created before cutoff: crashed
// checkouts whose stock effects the recovery pass must settle.
func (r *repository) ListStalePending(ctx context.Context, cutoff time.Time) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, user_id, total, status, created_at
		FROM orders
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
	`, StatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func scanOrders(rows *sql.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) loadLines(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, name_snapshot, qty, price_snapshot
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return err
		}
		o.Lines = append(o.Lines, l)
	}

	return rows.Err()
}
