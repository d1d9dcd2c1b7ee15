package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hostelhub/seat-management/internal/model"
)

// MemberRepo provides CRUD access to members. Every statement filters by
// owner_id and library_id; the due amount column is recomputed from
// total/paid/discount on every write and never taken from the caller.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo constructs a MemberRepo with the given DB handle.
func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberColumns = `id, owner_id, library_id, full_name, phone, email, address,
	       photo_url, document_url, plan_id, plan_name, admitted_at, expires_at,
	       total_amount, paid_amount, discount, advance_amount, due_amount,
	       created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	var email, address, photo, doc, planName sql.NullString
	var planID sql.NullInt64
	err := row.Scan(
		&m.ID, &m.OwnerID, &m.LibraryID, &m.FullName, &m.Phone, &email, &address,
		&photo, &doc, &planID, &planName, &m.AdmittedAt, &m.ExpiresAt,
		&m.TotalAmount, &m.PaidAmount, &m.Discount, &m.AdvanceAmount, &m.DueAmount,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		v := email.String
		m.Email = &v
	}
	if address.Valid {
		v := address.String
		m.Address = &v
	}
	if photo.Valid {
		v := photo.String
		m.PhotoURL = &v
	}
	if doc.Valid {
		v := doc.String
		m.DocumentURL = &v
	}
	if planID.Valid {
		v := uint64(planID.Int64)
		m.PlanID = &v
	}
	if planName.Valid {
		v := planName.String
		m.PlanName = &v
	}
	return &m, nil
}

// Create inserts a member and populates its generated ID. The due column
// is derived here, not copied from the input.
func (r *MemberRepo) Create(ctx context.Context, m *model.Member) error {
	m.FullName = strings.TrimSpace(m.FullName)
	m.DueAmount = m.ComputeDue()
	const q = `INSERT INTO members
	           (owner_id, library_id, full_name, phone, email, address,
	            photo_url, document_url, plan_id, plan_name, admitted_at, expires_at,
	            total_amount, paid_amount, discount, advance_amount, due_amount)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		m.OwnerID, m.LibraryID, m.FullName, m.Phone, m.Email, m.Address,
		m.PhotoURL, m.DocumentURL, m.PlanID, m.PlanName, m.AdmittedAt, m.ExpiresAt,
		m.TotalAmount, m.PaidAmount, m.Discount, m.AdvanceAmount, m.DueAmount,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID retrieves a member scoped to the calling owner and library.
func (r *MemberRepo) GetByID(ctx context.Context, ownerID, libraryID, memberID uint64) (*model.Member, error) {
	const q = `SELECT ` + memberColumns + `
	           FROM members
	           WHERE id = ? AND owner_id = ? AND library_id = ?`
	m, err := scanMember(r.db.QueryRowContext(ctx, q, memberID, ownerID, libraryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// Update rewrites a member's mutable fields. The due column is recomputed
// from the new total/paid/discount values.
func (r *MemberRepo) Update(ctx context.Context, m *model.Member) error {
	m.FullName = strings.TrimSpace(m.FullName)
	m.DueAmount = m.ComputeDue()
	const q = `UPDATE members
	           SET full_name = ?, phone = ?, email = ?, address = ?,
	               photo_url = ?, document_url = ?, plan_id = ?, plan_name = ?,
	               admitted_at = ?, expires_at = ?,
	               total_amount = ?, paid_amount = ?, discount = ?, advance_amount = ?,
	               due_amount = ?
	           WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		m.FullName, m.Phone, m.Email, m.Address,
		m.PhotoURL, m.DocumentURL, m.PlanID, m.PlanName,
		m.AdmittedAt, m.ExpiresAt,
		m.TotalAmount, m.PaidAmount, m.Discount, m.AdvanceAmount,
		m.DueAmount,
		m.ID, m.OwnerID, m.LibraryID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// Delete removes a member record. Seats, attendance and finance rows keep
// their member references; there is no cascade clean-up.
func (r *MemberRepo) Delete(ctx context.Context, ownerID, libraryID, memberID uint64) error {
	const q = `DELETE FROM members WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, memberID, ownerID, libraryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// Count returns the number of members in a library. Used for the
// free-tier cap check before registration.
func (r *MemberRepo) Count(ctx context.Context, ownerID, libraryID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM members WHERE owner_id = ? AND library_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID, libraryID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MemberPage is one page of a cursor-paginated member listing.
type MemberPage struct {
	Items      []model.Member `json:"items"`
	NextCursor uint64         `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

// List returns members of a library ordered by ID starting after the
// afterID cursor. When expiredOnly is set, only members whose plan expiry
// lies strictly before now are returned.
func (r *MemberRepo) List(ctx context.Context, ownerID, libraryID uint64, expiredOnly bool, now time.Time, afterID uint64, limit int) (*MemberPage, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + memberColumns + `
	      FROM members
	      WHERE owner_id = ? AND library_id = ? AND id > ?`
	args := []interface{}{ownerID, libraryID, afterID}
	if expiredOnly {
		q += ` AND expires_at < ?`
		args = append(args, now)
	}
	q += ` ORDER BY id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &MemberPage{Items: []model.Member{}}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(page.Items) > 0 {
		page.NextCursor = page.Items[len(page.Items)-1].ID
	}
	page.HasMore = len(page.Items) == limit
	return page, nil
}

// ApplyPaymentTx increments a member's paid amount inside an existing
// transaction and rewrites the derived due column in the same statement.
// MySQL applies SET assignments left to right, so due sees the updated
// paid_amount.
func (r *MemberRepo) ApplyPaymentTx(ctx context.Context, tx *sql.Tx, ownerID, libraryID, memberID uint64, amount int64) error {
	const q = `UPDATE members
	           SET paid_amount = paid_amount + ?,
	               due_amount = total_amount - paid_amount - discount
	           WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := tx.ExecContext(ctx, q, amount, memberID, ownerID, libraryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMemberNotFound
	}
	return nil
}
