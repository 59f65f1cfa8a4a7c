package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatshop-be/internal/cart"
	"chatshop-be/internal/catalog"
	"chatshop-be/internal/logger"
	"chatshop-be/internal/order"

	"go.uber.org/zap"
)

// Engine converts a user's active cart into a paid order. It owns no
// data; it orchestrates the catalog, cart and order stores so that
// stock never goes negative, a cart is never double-spent, and any
// failure leaves the cart intact with stock fully restored.
type Engine struct {
	catalog catalog.Repository
	carts   cart.Repository
	orders  order.Repository
	locks   *userLocks
}

func NewEngine(catalogRepo catalog.Repository, cartRepo cart.Repository, orderRepo order.Repository) *Engine {
	return &Engine{
		catalog: catalogRepo,
		carts:   cartRepo,
		orders:  orderRepo,
		locks:   newUserLocks(),
	}
}

// Checkout runs the commit sequence, reordered per the write-ahead
// pattern: the PENDING order is durable before any stock moves, so a
// crash never leaves stock decremented without a traceable intent.
//
//  1. read the active cart (empty -> ErrEmptyCart)
//  2. fetch every product and re-validate stock against the current
//     values, not anything read during cart accumulation
//  3. create the order as PENDING with commit-time snapshots
//  4. decrement stock per item; the conditional decrement in the store
//     is the real oversell guard, step 2 is only a fast-fail
//  5. retire exactly the cart lines read in step 1
//  6. flip the order to PAID
//
// Failures in steps 4-6 re-increment whatever was decremented and
// cancel the order before surfacing, so checkout is always retryable.
// The whole sequence holds a per-user mutex: two concurrent checkouts
// for one user serialize, and the loser sees an already-empty cart.
func (e *Engine) Checkout(ctx context.Context, userID string) (*order.Order, error) {
	unlock := e.locks.lock(userID)
	defer unlock()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "engine"),
		zap.String("method", "Checkout"),
		zap.String("user_id", userID),
	)

	lines, err := e.carts.ActiveLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: read cart: %v", ErrStorageUnavailable, err)
	}

	active := cart.Aggregate(lines)
	if active.Empty() {
		log.Debug("checkout on empty cart")
		return nil, ErrEmptyCart
	}

	// Commit-time snapshot: current product rows decide availability,
	// prices and name snapshots. Nothing cached earlier is trusted.
	snapshots := make([]order.Line, 0, len(active.Items))
	var total int64
	for _, it := range active.Items {
		p, err := e.catalog.Get(ctx, it.ItemID)
		if errors.Is(err, catalog.ErrNotFound) {
			log.Info("checkout aborted, item gone", zap.String("item_id", it.ItemID))
			return nil, &ItemUnavailableError{ItemID: it.ItemID}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read product %s: %v", ErrStorageUnavailable, it.ItemID, err)
		}

		// Fast-fail only; the decrement below is the actual arbiter.
		if it.Quantity > p.Stock {
			log.Info("checkout aborted, stock short",
				zap.String("item_id", it.ItemID),
				zap.Int("requested", it.Quantity),
				zap.Int("available", p.Stock),
			)
			return nil, &catalog.InsufficientStockError{
				ItemID:    it.ItemID,
				Requested: it.Quantity,
				Available: p.Stock,
			}
		}

		snapshots = append(snapshots, order.Line{
			ItemID:    it.ItemID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
		total += p.Price * int64(it.Quantity)
	}

	o := &order.Order{
		ID:        order.NewOrderID(),
		UserID:    userID,
		Total:     total,
		Status:    order.StatusPending,
		CreatedAt: time.Now().UTC(),
		Lines:     snapshots,
	}
	if err := e.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("%w: write order intent: %v", ErrStorageUnavailable, err)
	}

	log = log.With(zap.String("order_id", o.ID))

	for i, line := range snapshots {
		if _, err := e.catalog.DecrementStock(ctx, line.ItemID, line.Quantity); err != nil {
			e.abort(ctx, o, snapshots[:i], log)

			var short *catalog.InsufficientStockError
			if errors.As(err, &short) {
				return nil, short
			}
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &ItemUnavailableError{ItemID: line.ItemID}
			}
			return nil, fmt.Errorf("%w: decrement %s: %v", ErrStorageUnavailable, line.ItemID, err)
		}
	}

	// Retire before the paid flip: if retirement cannot happen the
	// whole commit unwinds and the cart stays spendable.
	retired, err := e.carts.Retire(ctx, userID, active.LineIDs)
	if err != nil {
		e.abort(ctx, o, snapshots, log)
		return nil, fmt.Errorf("%w: retire cart: %v", ErrStorageUnavailable, err)
	}
	if retired == 0 {
		// Another checkout already spent these lines.
		e.abort(ctx, o, snapshots, log)
		log.Info("checkout lost cart race")
		return nil, ErrEmptyCart
	}

	if err := e.orders.MarkPaid(ctx, o.ID); err != nil {
		log.Error("failed to mark order paid", zap.Error(err))
		return nil, fmt.Errorf("%w: mark paid: %v", ErrStorageUnavailable, err)
	}
	o.Status = order.StatusPaid

	log.Info("checkout committed",
		zap.Int64("total", o.Total),
		zap.Int("line_count", len(o.Lines)),
	)

	return o, nil
}

// abort compensates a partially applied commit: re-increments every
// decremented line and cancels the pending order. Compensation failures
// are logged, not returned; the recovery pass settles leftovers.
func (e *Engine) abort(ctx context.Context, o *order.Order, decremented []order.Line, log *zap.Logger) {
	for _, line := range decremented {
		if _, err := e.catalog.IncrementStock(ctx, line.ItemID, line.Quantity); err != nil {
			log.Error("compensation failed to restore stock",
				zap.String("item_id", line.ItemID),
				zap.Int("qty", line.Quantity),
				zap.Error(err),
			)
		}
	}

	if err := e.orders.MarkCanceled(ctx, o.ID); err != nil {
		log.Error("failed to cancel order intent",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

// Recover settles PENDING orders older than olderThan: checkouts that
// crashed between the intent write and the paid flip. Their stock is
// re-incremented and the order canceled, so decremented stock never
// dangles without a paid order. Runs at startup before traffic.
func (e *Engine) Recover(ctx context.Context, olderThan time.Duration) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "engine"),
		zap.String("method", "Recover"),
	)

	cutoff := time.Now().UTC().Add(-olderThan)
	stale, err := e.orders.ListStalePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("%w: scan stale orders: %v", ErrStorageUnavailable, err)
	}

	for _, o := range stale {
		if err := e.orders.MarkCanceled(ctx, o.ID); err != nil {
			// Raced with a concurrent settle of the same order.
			log.Warn("skipping stale order",
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
			continue
		}
		for _, line := range o.Lines {
			if _, err := e.catalog.IncrementStock(ctx, line.ItemID, line.Quantity); err != nil {
				log.Error("recovery failed to restore stock",
					zap.String("order_id", o.ID),
					zap.String("item_id", line.ItemID),
					zap.Error(err),
				)
			}
		}
		log.Info("recovered stale checkout",
			zap.String("order_id", o.ID),
			zap.String("user_id", o.UserID),
		)
	}

	return nil
}
