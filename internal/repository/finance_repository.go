package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/seat-management/internal/model"
)

// FinanceRepo persists financial records of a library. Recording a member
// payment writes the finance row and bumps the member's paid/due columns
// inside one transaction so the ledger and the member balance cannot
// diverge.
type FinanceRepo struct {
	db      *sql.DB
	members *MemberRepo
}

// NewFinanceRepo constructs a FinanceRepo bound to the given database and
// member repository.
func NewFinanceRepo(db *sql.DB, members *MemberRepo) *FinanceRepo {
	return &FinanceRepo{db: db, members: members}
}

// RecordPayment inserts a PAYMENT record for a member and applies the
// amount to the member's balance transactionally. A server-issued UUID
// becomes the receipt number.
func (r *FinanceRepo) RecordPayment(ctx context.Context, ownerID, libraryID, memberID uint64, amount int64, note *string, actorID uint64) (*model.FinanceRecord, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := r.members.ApplyPaymentTx(ctx, tx, ownerID, libraryID, memberID, amount); err != nil {
		return nil, err
	}

	rec := &model.FinanceRecord{
		OwnerID:   ownerID,
		LibraryID: libraryID,
		Kind:      model.RecordPayment,
		MemberID:  &memberID,
		Amount:    amount,
		Note:      note,
		ReceiptNo: uuid.NewString(),
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
	}
	const q = `INSERT INTO finance_records
	           (owner_id, library_id, kind, member_id, amount, note, receipt_no, created_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		rec.OwnerID, rec.LibraryID, rec.Kind, rec.MemberID, rec.Amount, rec.Note, rec.ReceiptNo, rec.CreatedBy)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rec.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return rec, nil
}

// RecordExpense inserts an EXPENSE record. Expenses touch no member
// balance, so no transaction is needed beyond the single insert.
func (r *FinanceRepo) RecordExpense(ctx context.Context, ownerID, libraryID uint64, amount int64, note string, actorID uint64) (*model.FinanceRecord, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	note = strings.TrimSpace(note)
	rec := &model.FinanceRecord{
		OwnerID:   ownerID,
		LibraryID: libraryID,
		Kind:      model.RecordExpense,
		Amount:    amount,
		ReceiptNo: uuid.NewString(),
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
	}
	if note != "" {
		rec.Note = &note
	}
	const q = `INSERT INTO finance_records
	           (owner_id, library_id, kind, member_id, amount, note, receipt_no, created_by)
	           VALUES (?, ?, ?, NULL, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rec.OwnerID, rec.LibraryID, rec.Kind, rec.Amount, rec.Note, rec.ReceiptNo, rec.CreatedBy)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rec.ID = uint64(id)
	return rec, nil
}

// List returns finance records of a library, newest first, optionally
// filtered by kind (empty kind matches all).
func (r *FinanceRepo) List(ctx context.Context, ownerID, libraryID uint64, kind string, limit int) ([]model.FinanceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT id, owner_id, library_id, kind, member_id, amount, note, receipt_no, created_by, created_at
	      FROM finance_records
	      WHERE owner_id = ? AND library_id = ?`
	args := []interface{}{ownerID, libraryID}
	if kind != "" {
		q += ` AND kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.FinanceRecord, 0)
	for rows.Next() {
		var rec model.FinanceRecord
		var memberID sql.NullInt64
		var note sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.OwnerID, &rec.LibraryID, &rec.Kind, &memberID, &rec.Amount,
			&note, &rec.ReceiptNo, &rec.CreatedBy, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if memberID.Valid {
			id := uint64(memberID.Int64)
			rec.MemberID = &id
		}
		if note.Valid {
			n := note.String
			rec.Note = &n
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
