package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/seat-management/internal/model"
)

func setupMemberRepo(t *testing.T) (*MemberRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMemberRepo(db), mock
}

var memberCols = []string{
	"id", "owner_id", "library_id", "full_name", "phone", "email", "address",
	"photo_url", "document_url", "plan_id", "plan_name", "admitted_at", "expires_at",
	"total_amount", "paid_amount", "discount", "advance_amount", "due_amount",
	"created_at", "updated_at",
}

// The stored due column is always derived from total, paid and discount;
// whatever the caller put in DueAmount is overwritten before the INSERT.
func TestCreateRecomputesDue(t *testing.T) {
	repo, mock := setupMemberRepo(t)
	now := time.Now().UTC()

	m := &model.Member{
		OwnerID:     1,
		LibraryID:   10,
		FullName:    "  Asha Verma ",
		Phone:       "9876543210",
		AdmittedAt:  now,
		ExpiresAt:   now.AddDate(0, 6, 0),
		TotalAmount: 600000,
		PaidAmount:  200000,
		Discount:    50000,
		DueAmount:   999999, // client-supplied garbage
	}

	mock.ExpectExec(`INSERT INTO members`).
		WithArgs(
			m.OwnerID, m.LibraryID, "Asha Verma", m.Phone, nil, nil,
			nil, nil, nil, nil, m.AdmittedAt, m.ExpiresAt,
			int64(600000), int64(200000), int64(50000), int64(0), int64(350000),
		).
		WillReturnResult(sqlmock.NewResult(77, 1))

	require.NoError(t, repo.Create(context.Background(), m))
	assert.Equal(t, uint64(77), m.ID)
	assert.Equal(t, int64(350000), m.DueAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingMember(t *testing.T) {
	repo, mock := setupMemberRepo(t)
	now := time.Now().UTC()

	m := &model.Member{
		ID:        404,
		OwnerID:   1,
		LibraryID: 10,
		FullName:  "Ravi Kumar",
		Phone:     "9000000000",
		ExpiresAt: now.AddDate(0, 1, 0),
	}
	mock.ExpectExec(`UPDATE members`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), m), ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScopesToTenant(t *testing.T) {
	repo, mock := setupMemberRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(memberCols).AddRow(
		42, 1, 10, "Asha Verma", "9876543210", nil, nil,
		nil, nil, nil, nil, now, now.AddDate(0, 6, 0),
		600000, 200000, 50000, 0, 350000,
		now, now,
	)
	mock.ExpectQuery(`SELECT (.+) FROM members\s+WHERE id = \? AND owner_id = \? AND library_id = \?`).
		WithArgs(42, 1, 10).
		WillReturnRows(rows)

	m, err := repo.GetByID(context.Background(), 1, 10, 42)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", m.FullName)
	assert.Equal(t, int64(350000), m.DueAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := setupMemberRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM members`).
		WithArgs(42, 2, 10).
		WillReturnRows(sqlmock.NewRows(memberCols))

	_, err := repo.GetByID(context.Background(), 2, 10, 42)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpiredOnly(t *testing.T) {
	repo, mock := setupMemberRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(memberCols).AddRow(
		42, 1, 10, "Asha Verma", "9876543210", nil, nil,
		nil, nil, nil, nil, now.AddDate(0, -7, 0), now.AddDate(0, -1, 0),
		600000, 600000, 0, 0, 0,
		now, now,
	)
	mock.ExpectQuery(`SELECT (.+) FROM members\s+WHERE owner_id = \? AND library_id = \? AND id > \? AND expires_at < \?`).
		WithArgs(1, 10, 0, now, 50).
		WillReturnRows(rows)

	page, err := repo.List(context.Background(), 1, 10, true, now, 0, 50)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, uint64(42), page.Items[0].ID)
	assert.False(t, page.HasMore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	repo, mock := setupMemberRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM members`)).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	n, err := repo.Count(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
