package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/seat-management/internal/model"
)

func setupFinanceRepo(t *testing.T) (*FinanceRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFinanceRepo(db, NewMemberRepo(db)), mock
}

// A payment bumps the member's balance and writes the ledger row in one
// transaction; if the member is missing nothing is written at all.
func TestRecordPayment(t *testing.T) {
	repo, mock := setupFinanceRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE members\s+SET paid_amount = paid_amount \+ \?`).
		WithArgs(int64(100000), 42, 1, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO finance_records`).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	rec, err := repo.RecordPayment(context.Background(), 1, 10, 42, 100000, nil, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), rec.ID)
	assert.Equal(t, model.RecordPayment, rec.Kind)
	require.NotNil(t, rec.MemberID)
	assert.Equal(t, uint64(42), *rec.MemberID)

	// receipt number is a server-issued UUID
	_, err = uuid.Parse(rec.ReceiptNo)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentUnknownMemberRollsBack(t *testing.T) {
	repo, mock := setupFinanceRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE members\s+SET paid_amount = paid_amount \+ \?`).
		WithArgs(int64(100000), 99, 1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.RecordPayment(context.Background(), 1, 10, 99, 100000, nil, 7)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	repo, _ := setupFinanceRepo(t)
	_, err := repo.RecordPayment(context.Background(), 1, 10, 42, 0, nil, 7)
	assert.Error(t, err)
}

func TestRecordExpense(t *testing.T) {
	repo, mock := setupFinanceRepo(t)

	mock.ExpectExec(`INSERT INTO finance_records`).
		WillReturnResult(sqlmock.NewResult(12, 1))

	rec, err := repo.RecordExpense(context.Background(), 1, 10, 45000, "water cooler repair", 7)
	require.NoError(t, err)
	assert.Equal(t, model.RecordExpense, rec.Kind)
	assert.Nil(t, rec.MemberID)
	require.NotNil(t, rec.Note)
	assert.Equal(t, "water cooler repair", *rec.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}
