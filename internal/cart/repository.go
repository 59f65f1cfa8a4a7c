package cart

import (
	"context"
	"database/sql"

	"chatshop-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	AddLine(ctx context.Context, userID, itemID string, qty int) (*Line, error)
	ActiveLines(ctx context.Context, userID string) ([]Line, error)
	Retire(ctx context.Context, userID string, lineIDs []int64) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddLine(ctx context.Context, userID, itemID string, qty int) (*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddLine"),
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
	)

	query := `
	INSERT INTO cart_lines (
		user_id,
		item_id,
		qty,
		status
	)
	VALUES ($1, $2, $3, $4)
	RETURNING
		id,
		user_id,
		item_id,
		qty,
		status,
		created_at
	`

	var l Line
	err := r.db.QueryRowContext(ctx, query, userID, itemID, qty, StatusActive).
		Scan(&l.ID, &l.UserID, &l.ItemID, &l.Quantity, &l.Status, &l.CreatedAt)
	if err != nil {
		log.Error("failed to add cart line", zap.Error(err))
		return nil, err
	}

	log.Info("cart line added",
		zap.Int64("line_id", l.ID),
		zap.Int("qty", qty),
	)

	return &l, nil
}

func (r *repository) ActiveLines(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, item_id, qty, status, created_at
		FROM cart_lines
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at, id
	`, userID, StatusActive)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query active cart lines",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.UserID, &l.ItemID, &l.Quantity, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// Retire flips the given lines to INACTIVE. The status predicate makes
// it idempotent: already-inactive lines are skipped, never an error, so
// a checkout retry after partial failure is safe. Returns the number of
// lines actually retired.
func (r *repository) Retire(ctx context.Context, userID string, lineIDs []int64) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_lines
		SET status = $1
		WHERE user_id = $2 AND id = ANY($3) AND status = $4
	`, StatusInactive, userID, pq.Array(lineIDs), StatusActive)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to retire cart lines",
			zap.String("user_id", userID),
			zap.Int("line_count", len(lineIDs)),
			zap.Error(err),
		)
		return 0, err
	}

	return res.RowsAffected()
}
