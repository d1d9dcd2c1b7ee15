package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoomRepo(t *testing.T) (*RoomRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRoomRepo(db), mock
}

func roomRow(id uint64, number, typ string, capacity uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "library_id", "number", "type", "capacity", "created_at", "updated_at",
	}).AddRow(id, 1, 10, number, typ, capacity, now, now)
}

func TestUpdateCapacityRejectsShrinkBelowSeatCount(t *testing.T) {
	repo, mock := setupRoomRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM rooms\s+WHERE id = \?`).
		WithArgs(3, 1, 10).
		WillReturnRows(roomRow(3, "101", "AC", 6))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, "101", "AC").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	err := repo.UpdateCapacity(context.Background(), 1, 10, 3, 4)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCapacityGrows(t *testing.T) {
	repo, mock := setupRoomRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM rooms\s+WHERE id = \?`).
		WithArgs(3, 1, 10).
		WillReturnRows(roomRow(3, "101", "AC", 6))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, "101", "AC").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET capacity = ?`)).
		WithArgs(8, 3, 1, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCapacity(context.Background(), 1, 10, 3, 8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRoomWithSeats(t *testing.T) {
	repo, mock := setupRoomRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM rooms\s+WHERE id = \?`).
		WithArgs(3, 1, 10).
		WillReturnRows(roomRow(3, "101", "AC", 6))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, "101", "AC").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := repo.Delete(context.Background(), 1, 10, 3)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
