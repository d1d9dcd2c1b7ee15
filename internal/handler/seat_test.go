package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/seat-management/internal/repository"
)

func newSeatHandler(t *testing.T) (*SeatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSeatHandler(
		repository.NewSeatRepo(db),
		repository.NewMemberRepo(db),
		repository.NewLibraryRepo(db),
	), mock
}

// newRequest builds an authenticated echo context for a library-scoped
// route, the way JWTAuth leaves it.
func newRequest(method, body string, libraryID, seatID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.Set("role", "OWNER")
	if seatID != "" {
		c.SetParamNames("libraryID", "id")
		c.SetParamValues(libraryID, seatID)
	} else {
		c.SetParamNames("libraryID")
		c.SetParamValues(libraryID)
	}
	return c, rec
}

func expectLibraryLookup(mock sqlmock.Sqlmock, libraryID, ownerID uint64) {
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT (.+) FROM libraries\s+WHERE id = \? AND owner_id = \?`).
		WithArgs(libraryID, ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "address", "created_at", "updated_at"}).
			AddRow(libraryID, ownerID, "Central Study Hall", nil, now, now))
}

func expectMemberLookup(mock sqlmock.Sqlmock, memberID uint64, name string, expiresAt time.Time) {
	now := time.Now().UTC()
	cols := []string{
		"id", "owner_id", "library_id", "full_name", "phone", "email", "address",
		"photo_url", "document_url", "plan_id", "plan_name", "admitted_at", "expires_at",
		"total_amount", "paid_amount", "discount", "advance_amount", "due_amount",
		"created_at", "updated_at",
	}
	mock.ExpectQuery(`SELECT (.+) FROM members`).
		WithArgs(memberID, 7, 10).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			memberID, 7, 10, name, "9876543210", nil, nil,
			nil, nil, nil, nil, now, expiresAt,
			600000, 600000, 0, 0, 0, now, now,
		))
}

func TestAllotReturnsConfirmation(t *testing.T) {
	h, mock := newSeatHandler(t)
	expiry := time.Now().UTC().AddDate(0, 3, 0)

	expectLibraryLookup(mock, 10, 7)
	expectMemberLookup(mock, 42, "Asha Verma", expiry)

	now := time.Now().UTC()
	seatCols := []string{
		"id", "owner_id", "library_id", "label", "room_number", "room_type",
		"is_allocated", "member_id", "member_name", "member_expires_at",
		"updated_by", "created_at", "updated_at",
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 7, 10).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(5, 7, 10, "101-bed-1", "101", "AC", false, nil, nil, nil, 7, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(7, 10, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE seats\s+SET is_allocated = 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newRequest(http.MethodPost, `{"member_id":42}`, "10", "5")
	require.NoError(t, h.Allot(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var conf repository.AllocationConfirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
	assert.Equal(t, "101-bed-1", conf.SeatLabel)
	assert.Equal(t, "Asha Verma", conf.MemberName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllotExpiredMemberIs422(t *testing.T) {
	h, mock := newSeatHandler(t)
	expired := time.Now().UTC().AddDate(0, -1, 0)

	expectLibraryLookup(mock, 10, 7)
	expectMemberLookup(mock, 42, "Asha Verma", expired)

	now := time.Now().UTC()
	seatCols := []string{
		"id", "owner_id", "library_id", "label", "room_number", "room_type",
		"is_allocated", "member_id", "member_name", "member_expires_at",
		"updated_by", "created_at", "updated_at",
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WithArgs(5, 7, 10).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(5, 7, 10, "101-bed-1", "101", "AC", false, nil, nil, nil, 7, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM seats`)).
		WithArgs(7, 10, 42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	c, rec := newRequest(http.MethodPost, `{"member_id":42}`, "10", "5")
	require.NoError(t, h.Allot(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllotUnknownLibraryIs404(t *testing.T) {
	h, mock := newSeatHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM libraries`).
		WithArgs(10, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "address", "created_at", "updated_at"}))

	c, rec := newRequest(http.MethodPost, `{"member_id":42}`, "10", "5")
	require.NoError(t, h.Allot(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllotMissingMemberIDIs400(t *testing.T) {
	h, mock := newSeatHandler(t)
	expectLibraryLookup(mock, 10, 7)

	c, rec := newRequest(http.MethodPost, `{}`, "10", "5")
	require.NoError(t, h.Allot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddSeatsValidation(t *testing.T) {
	h, mock := newSeatHandler(t)
	expectLibraryLookup(mock, 10, 7)

	c, rec := newRequest(http.MethodPost, `{"count":0,"room_number":"101"}`, "10", "")
	require.NoError(t, h.AddSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRepoStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{repository.ErrSeatNotFound, http.StatusNotFound},
		{repository.ErrMemberNotFound, http.StatusNotFound},
		{repository.ErrLibraryNotFound, http.StatusNotFound},
		{repository.ErrSeatAllocated, http.StatusConflict},
		{repository.ErrSeatNotAllocated, http.StatusConflict},
		{repository.ErrMemberHasSeat, http.StatusConflict},
		{repository.ErrCapacityExceeded, http.StatusConflict},
		{repository.ErrMemberExpired, http.StatusUnprocessableEntity},
		{repository.ErrMemberLimit, http.StatusPaymentRequired},
		{errUnauthorized, http.StatusUnauthorized},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, _ := repoStatus(tt.err)
		assert.Equal(t, tt.code, code, "mapping for %v", tt.err)
	}
}
