package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_AddLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "item_id", "qty", "status", "created_at"}).
			AddRow(1, "user-a", "coffee001", 2, "ACTIVE", time.Now())

		mock.ExpectQuery("INSERT INTO cart_lines").
			WithArgs("user-a", "coffee001", 2, StatusActive).
			WillReturnRows(rows)

		line, err := repo.AddLine(context.Background(), "user-a", "coffee001", 2)
		assert.NoError(t, err)
		require.NotNil(t, line)
		assert.Equal(t, int64(1), line.ID)
		assert.Equal(t, StatusActive, line.Status)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO cart_lines").
			WillReturnError(errors.New("db error"))

		_, err := repo.AddLine(context.Background(), "user-a", "coffee001", 2)
		assert.Error(t, err)
	})
}

func TestRepository_ActiveLines(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "item_id", "qty", "status", "created_at"}).
			AddRow(1, "user-a", "coffee001", 2, "ACTIVE", time.Now()).
			AddRow(2, "user-a", "tea001", 1, "ACTIVE", time.Now())

		mock.ExpectQuery("SELECT .* FROM cart_lines").
			WithArgs("user-a", StatusActive).
			WillReturnRows(rows)

		lines, err := repo.ActiveLines(context.Background(), "user-a")
		assert.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "coffee001", lines[0].ItemID)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM cart_lines").
			WithArgs("user-b", StatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "item_id", "qty", "status", "created_at"}))

		lines, err := repo.ActiveLines(context.Background(), "user-b")
		assert.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestRepository_Retire(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE cart_lines").
			WithArgs(StatusInactive, "user-a", sqlmock.AnyArg(), StatusActive).
			WillReturnResult(sqlmock.NewResult(0, 2))

		retired, err := repo.Retire(context.Background(), "user-a", []int64{1, 2})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), retired)
	})

	t.Run("AlreadyRetiredIsNoop", func(t *testing.T) {
		mock.ExpectExec("UPDATE cart_lines").
			WithArgs(StatusInactive, "user-a", sqlmock.AnyArg(), StatusActive).
			WillReturnResult(sqlmock.NewResult(0, 0))

		retired, err := repo.Retire(context.Background(), "user-a", []int64{1, 2})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), retired)
	})

	t.Run("NoLines", func(t *testing.T) {
		retired, err := repo.Retire(context.Background(), "user-a", nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), retired)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("UPDATE cart_lines").
			WillReturnError(errors.New("db error"))

		_, err := repo.Retire(context.Background(), "user-a", []int64{1})
		assert.Error(t, err)
	})
}
