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

func setupMockDB(t *testing.T) (*SeatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSeatRepo(db), mock
}

var seatCols = []string{
	"id", "owner_id", "library_id", "label", "room_number", "room_type",
	"is_allocated", "member_id", "member_name", "member_expires_at",
	"updated_by", "created_at", "updated_at",
}

// freeSeatRow returns a result set holding one unallocated seat.
func freeSeatRow(id uint64, label string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(seatCols).
		AddRow(id, 1, 10, label, "101", "AC", false, nil, nil, nil, 1, now, now)
}

func allocatedSeatRow(id uint64, label string, memberID uint64, memberName string, exp time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(seatCols).
		AddRow(id, 1, 10, label, "101", "AC", true, memberID, memberName, exp, 1, now, now)
}

func TestAllocateAssignsFreeSeat(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()
	expiry := now.AddDate(0, 1, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats\s+WHERE id = \? AND owner_id = \? AND library_id = \?\s+FOR UPDATE`).
		WithArgs(5, 1, 10).
		WillReturnRows(freeSeatRow(5, "101-bed-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE seats\s+SET is_allocated = 1`).
		WithArgs(42, "Asha Verma", expiry, 7, now, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	conf, err := repo.Allocate(context.Background(), 1, 10, 5, 42, "Asha Verma", expiry, 7, now)
	require.NoError(t, err)
	assert.Equal(t, "101-bed-1", conf.SeatLabel)
	assert.Equal(t, "101", conf.RoomNumber)
	assert.Equal(t, "AC", conf.RoomType)
	assert.Equal(t, "Asha Verma", conf.MemberName)
	assert.True(t, conf.ExpiresAt.Equal(expiry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateSeatNotFound(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(99, 1, 10).
		WillReturnRows(sqlmock.NewRows(seatCols))
	mock.ExpectRollback()

	_, err := repo.Allocate(context.Background(), 1, 10, 99, 42, "Asha Verma", now.AddDate(0, 1, 0), 7, now)
	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateSeatAlreadyTaken(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 1, 10).
		WillReturnRows(allocatedSeatRow(5, "101-bed-1", 30, "Ravi Kumar", now.AddDate(0, 2, 0)))
	mock.ExpectRollback()

	_, err := repo.Allocate(context.Background(), 1, 10, 5, 42, "Asha Verma", now.AddDate(0, 1, 0), 7, now)
	assert.ErrorIs(t, err, ErrSeatAllocated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateMemberAlreadySeated(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 1, 10).
		WillReturnRows(freeSeatRow(5, "101-bed-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Allocate(context.Background(), 1, 10, 5, 42, "Asha Verma", now.AddDate(0, 1, 0), 7, now)
	assert.ErrorIs(t, err, ErrMemberHasSeat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateExpiredMember(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 1, 10).
		WillReturnRows(freeSeatRow(5, "101-bed-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	_, err := repo.Allocate(context.Background(), 1, 10, 5, 42, "Asha Verma", now.Add(-time.Hour), 7, now)
	assert.ErrorIs(t, err, ErrMemberExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A competing transaction can flip is_allocated between our read and our
// write; the guarded UPDATE then touches zero rows and the allocation
// fails instead of double-booking.
func TestAllocateLostRace(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()
	expiry := now.AddDate(0, 1, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 1, 10).
		WillReturnRows(freeSeatRow(5, "101-bed-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE seats\s+SET is_allocated = 1`).
		WithArgs(42, "Asha Verma", expiry, 7, now, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Allocate(context.Background(), 1, 10, 5, 42, "Asha Verma", expiry, 7, now)
	assert.ErrorIs(t, err, ErrSeatAllocated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeallocateClearsMember(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 1, 10).
		WillReturnRows(allocatedSeatRow(5, "101-bed-1", 42, "Asha Verma", now.AddDate(0, 1, 0)))
	mock.ExpectExec(`UPDATE seats\s+SET is_allocated = 0, member_id = NULL`).
		WithArgs(7, now, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	memberID, label, err := repo.Deallocate(context.Background(), 1, 10, 5, 7, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), memberID)
	assert.Equal(t, "101-bed-1", label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeallocateFreeSeat(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 1, 10).
		WillReturnRows(freeSeatRow(5, "101-bed-1"))
	mock.ExpectRollback()

	_, _, err := repo.Deallocate(context.Background(), 1, 10, 5, 7, now)
	assert.ErrorIs(t, err, ErrSeatNotAllocated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Labels continue the room's sequence after the highest existing index.
func TestAddSeatsContinuesLabelSequence(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, "101", "AC").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms`)).
		WithArgs(1, 10, "101", "AC").
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}))
	mock.ExpectExec(`INSERT INTO seats`).
		WillReturnResult(sqlmock.NewResult(3, 3))
	mock.ExpectCommit()

	labels, err := repo.AddSeats(context.Background(), 1, 10, 3, "AC", "101", 7, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"101-bed-3", "101-bed-4", "101-bed-5"}, labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSeatsRespectsRoomCapacity(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(1, 10, "101", "AC").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT capacity FROM rooms`)).
		WithArgs(1, 10, "101", "AC").
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(4))
	mock.ExpectRollback()

	_, err := repo.AddSeats(context.Background(), 1, 10, 2, "AC", "101", 7, now)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSeatsRejectsNonPositiveCount(t *testing.T) {
	repo, _ := setupMockDB(t)
	_, err := repo.AddSeats(context.Background(), 1, 10, 0, "AC", "101", 7, time.Now().UTC())
	assert.Error(t, err)
}

func TestDeleteSeatMissing(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seats`)).
		WithArgs(99, 1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 1, 10, 99)
	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByLibraryPagination(t *testing.T) {
	repo, mock := setupMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(seatCols).
		AddRow(11, 1, 10, "101-bed-1", "101", "AC", false, nil, nil, nil, 1, now, now).
		AddRow(12, 1, 10, "101-bed-2", "101", "AC", false, nil, nil, nil, 1, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM seats\s+WHERE owner_id = \? AND library_id = \? AND id > \?`).
		WithArgs(1, 10, 10, 2).
		WillReturnRows(rows)

	page, err := repo.ListByLibrary(context.Background(), 1, 10, "", 10, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, uint64(12), page.NextCursor)
	assert.True(t, page.HasMore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
