package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hostelhub/seat-management/internal/model"
)

// SeatRepo provides methods to work with seats in the database. All state
// transitions (allocate, deallocate, add, delete) go through this type;
// the allocation path runs inside a single transaction so the seat-level
// and member-level uniqueness checks and the write commit atomically.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle so handlers can join repository calls
// under one transaction when an operation spans tables.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// AllocationConfirmation is returned to the caller after a successful
// allocation. It mirrors what the front desk shows on the receipt.
type AllocationConfirmation struct {
	SeatLabel  string    `json:"seat_label"`
	RoomNumber string    `json:"room_number"`
	RoomType   string    `json:"room_type"`
	MemberName string    `json:"member_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

const seatColumns = `id, owner_id, library_id, label, room_number, room_type,
	       is_allocated, member_id, member_name, member_expires_at,
	       updated_by, created_at, updated_at`

func scanSeat(row interface{ Scan(...any) error }) (*model.Seat, error) {
	var s model.Seat
	var memberID sql.NullInt64
	var memberName sql.NullString
	var memberExp sql.NullTime
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.LibraryID, &s.Label, &s.RoomNumber, &s.RoomType,
		&s.IsAllocated, &memberID, &memberName, &memberExp,
		&s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if memberID.Valid {
		id := uint64(memberID.Int64)
		s.MemberID = &id
	}
	if memberName.Valid {
		n := memberName.String
		s.MemberName = &n
	}
	if memberExp.Valid {
		t := memberExp.Time
		s.MemberExpiresAt = &t
	}
	return &s, nil
}

// Allocate assigns a free seat to a member. Preconditions are checked in
// order, each failing with its own sentinel so the caller can surface a
// distinct message:
//
//  1. seat exists for this owner and library   -> ErrSeatNotFound
//  2. seat is not already allocated            -> ErrSeatAllocated
//  3. member holds no other seat here          -> ErrMemberHasSeat
//  4. member expiry is not in the past         -> ErrMemberExpired
//
// The seat row is locked with FOR UPDATE and the member-uniqueness count
// runs under the same transaction, so two concurrent allocations for the
// same member serialize: exactly one commits, the other observes the
// committed row and fails precondition 3. The final UPDATE re-asserts
// is_allocated = 0 as a guard; zero affected rows is treated as a lost
// race and reported as ErrSeatAllocated.
func (r *SeatRepo) Allocate(ctx context.Context, ownerID, libraryID, seatID, memberID uint64, memberName string, memberExpiry time.Time, actorID uint64, now time.Time) (*AllocationConfirmation, error) {
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

	const sel = `SELECT ` + seatColumns + `
	             FROM seats
	             WHERE id = ? AND owner_id = ? AND library_id = ?
	             FOR UPDATE`
	seat, err := scanSeat(tx.QueryRowContext(ctx, sel, seatID, ownerID, libraryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	if seat.IsAllocated {
		return nil, ErrSeatAllocated
	}

	// Uniqueness check runs inside the same transaction as the write.
	const dup = `SELECT COUNT(*) FROM seats
	             WHERE owner_id = ? AND library_id = ? AND member_id = ?
	             FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, dup, ownerID, libraryID, memberID).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrMemberHasSeat
	}

	if model.IsExpired(memberExpiry, now) {
		return nil, ErrMemberExpired
	}

	const upd = `UPDATE seats
	             SET is_allocated = 1, member_id = ?, member_name = ?,
	                 member_expires_at = ?, updated_by = ?, updated_at = ?
	             WHERE id = ? AND is_allocated = 0`
	res, err := tx.ExecContext(ctx, upd, memberID, memberName, memberExpiry, actorID, now, seatID)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, ErrSeatAllocated
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &AllocationConfirmation{
		SeatLabel:  seat.Label,
		RoomNumber: seat.RoomNumber,
		RoomType:   seat.RoomType,
		MemberName: memberName,
		ExpiresAt:  memberExpiry,
	}, nil
}

// Deallocate releases an allocated seat back to the free pool. The
// denormalized member name and expiry are cleared together with the
// member reference; a freed seat carries no occupant history. It returns
// the member ID that was released so callers can publish an event.
func (r *SeatRepo) Deallocate(ctx context.Context, ownerID, libraryID, seatID, actorID uint64, now time.Time) (uint64, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT ` + seatColumns + `
	             FROM seats
	             WHERE id = ? AND owner_id = ? AND library_id = ?
	             FOR UPDATE`
	seat, err := scanSeat(tx.QueryRowContext(ctx, sel, seatID, ownerID, libraryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrSeatNotFound
		}
		return 0, "", err
	}
	if !seat.IsAllocated || seat.MemberID == nil {
		return 0, "", ErrSeatNotAllocated
	}
	freed := *seat.MemberID

	const upd = `UPDATE seats
	             SET is_allocated = 0, member_id = NULL, member_name = NULL,
	                 member_expires_at = NULL, updated_by = ?, updated_at = ?
	             WHERE id = ? AND is_allocated = 1`
	res, err := tx.ExecContext(ctx, upd, actorID, now, seatID)
	if err != nil {
		return 0, "", err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return 0, "", ErrSeatNotAllocated
	}

	if err := tx.Commit(); err != nil {
		return 0, "", err
	}
	committed = true
	return freed, seat.Label, nil
}

// AddSeats creates count new seats in a room. Labels continue the room's
// sequence: "{roomNumber}-bed-{n+1}" through "{roomNumber}-bed-{n+count}"
// where n is the number of seats already present for that room and type.
// The count query and the inserts share one transaction, so concurrent
// additions to the same room cannot mint duplicate labels. When a room
// row exists for the number/type pair its capacity is enforced; rooms
// are optional and absent rooms impose no bound.
func (r *SeatRepo) AddSeats(ctx context.Context, ownerID, libraryID uint64, count int, roomType, roomNumber string, actorID uint64, now time.Time) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive: %d", count)
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

	const cur = `SELECT COUNT(*) FROM seats
	             WHERE owner_id = ? AND library_id = ? AND room_number = ? AND room_type = ?
	             FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, cur, ownerID, libraryID, roomNumber, roomType).Scan(&n); err != nil {
		return nil, err
	}

	const capQ = `SELECT capacity FROM rooms
	              WHERE owner_id = ? AND library_id = ? AND number = ? AND type = ?
	              FOR UPDATE`
	var capacity uint32
	switch err := tx.QueryRowContext(ctx, capQ, ownerID, libraryID, roomNumber, roomType).Scan(&capacity); {
	case err == nil:
		if n+count > int(capacity) {
			return nil, ErrCapacityExceeded
		}
	case errors.Is(err, sql.ErrNoRows):
		// no room row: grouping attributes only, no capacity bound
	default:
		return nil, err
	}

	query := `INSERT INTO seats
	          (owner_id, library_id, label, room_number, room_type, is_allocated, updated_by, created_at, updated_at)
	          VALUES `
	labels := make([]string, 0, count)
	args := make([]interface{}, 0, count*9)
	for i := 0; i < count; i++ {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, 0, ?, ?, ?)"
		label := fmt.Sprintf("%s-bed-%d", roomNumber, n+i+1)
		labels = append(labels, label)
		args = append(args, ownerID, libraryID, label, roomNumber, roomType, actorID, now, now)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return labels, nil
}

// GetByID retrieves a seat scoped to the calling owner and library.
func (r *SeatRepo) GetByID(ctx context.Context, ownerID, libraryID, seatID uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + `
	           FROM seats
	           WHERE id = ? AND owner_id = ? AND library_id = ?`
	seat, err := scanSeat(r.db.QueryRowContext(ctx, q, seatID, ownerID, libraryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return seat, nil
}

// SeatPage is one page of a cursor-paginated seat listing. HasMore is set
// when the page came back full; NextCursor is the last seat ID of the
// page and feeds the next call's afterID.
type SeatPage struct {
	Items      []model.Seat `json:"items"`
	NextCursor uint64       `json:"next_cursor"`
	HasMore    bool         `json:"has_more"`
}

// ListByLibrary returns seats of a library ordered by ID, starting after
// the afterID cursor. An empty roomNumber matches all rooms.
func (r *SeatRepo) ListByLibrary(ctx context.Context, ownerID, libraryID uint64, roomNumber string, afterID uint64, limit int) (*SeatPage, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + seatColumns + `
	      FROM seats
	      WHERE owner_id = ? AND library_id = ? AND id > ?`
	args := []interface{}{ownerID, libraryID, afterID}
	if roomNumber != "" {
		q += ` AND room_number = ?`
		args = append(args, roomNumber)
	}
	q += ` ORDER BY id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &SeatPage{Items: []model.Seat{}}
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, *s)
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

// Delete removes a seat unconditionally, allocated or not. Deleting an
// allocated seat is an explicit admin action; the occupant simply loses
// the reference, there is no cascade.
func (r *SeatRepo) Delete(ctx context.Context, ownerID, libraryID, seatID uint64) error {
	const q = `DELETE FROM seats WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, seatID, ownerID, libraryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// SeatForMember returns the seat currently allocated to a member, or
// ErrSeatNotFound when the member holds none.
func (r *SeatRepo) SeatForMember(ctx context.Context, ownerID, libraryID, memberID uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + `
	           FROM seats
	           WHERE owner_id = ? AND library_id = ? AND member_id = ?`
	seat, err := scanSeat(r.db.QueryRowContext(ctx, q, ownerID, libraryID, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return seat, nil
}
