package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hostelhub/seat-management/internal/model"
)

// RoomRepo provides CRUD access to rooms. Rooms bound how many seats may
// exist for a number/type pair; occupancy is derived by counting allocated
// seats at read time, so there is no counter to drift.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// RoomOccupancy pairs a room with its derived seat counts.
type RoomOccupancy struct {
	Room      model.Room `json:"room"`
	Seats     int        `json:"seats"`
	Allocated int        `json:"allocated"`
}

// Create inserts a room and populates its generated ID. Duplicate
// number/type pairs within a library are rejected with ErrConflict.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	room.Number = strings.TrimSpace(room.Number)
	room.Type = strings.ToUpper(strings.TrimSpace(room.Type))
	const dup = `SELECT COUNT(*) FROM rooms
	             WHERE owner_id = ? AND library_id = ? AND number = ? AND type = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, dup, room.OwnerID, room.LibraryID, room.Number, room.Type).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	const q = `INSERT INTO rooms (owner_id, library_id, number, type, capacity)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, room.OwnerID, room.LibraryID, room.Number, room.Type, room.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// GetByID retrieves a room scoped to the calling owner and library.
func (r *RoomRepo) GetByID(ctx context.Context, ownerID, libraryID, roomID uint64) (*model.Room, error) {
	const q = `SELECT id, owner_id, library_id, number, type, capacity, created_at, updated_at
	           FROM rooms
	           WHERE id = ? AND owner_id = ? AND library_id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, roomID, ownerID, libraryID).Scan(
		&room.ID, &room.OwnerID, &room.LibraryID, &room.Number, &room.Type,
		&room.Capacity, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListWithOccupancy returns all rooms of a library together with their
// derived total and allocated seat counts, ordered by room number.
func (r *RoomRepo) ListWithOccupancy(ctx context.Context, ownerID, libraryID uint64) ([]RoomOccupancy, error) {
	const q = `SELECT r.id, r.owner_id, r.library_id, r.number, r.type, r.capacity,
	                  r.created_at, r.updated_at,
	                  COUNT(s.id), COALESCE(SUM(s.is_allocated), 0)
	           FROM rooms r
	           LEFT JOIN seats s
	             ON s.owner_id = r.owner_id AND s.library_id = r.library_id
	            AND s.room_number = r.number AND s.room_type = r.type
	           WHERE r.owner_id = ? AND r.library_id = ?
	           GROUP BY r.id
	           ORDER BY r.number, r.type`
	rows, err := r.db.QueryContext(ctx, q, ownerID, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]RoomOccupancy, 0)
	for rows.Next() {
		var occ RoomOccupancy
		if err := rows.Scan(
			&occ.Room.ID, &occ.Room.OwnerID, &occ.Room.LibraryID, &occ.Room.Number,
			&occ.Room.Type, &occ.Room.Capacity, &occ.Room.CreatedAt, &occ.Room.UpdatedAt,
			&occ.Seats, &occ.Allocated,
		); err != nil {
			return nil, err
		}
		result = append(result, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateCapacity changes a room's capacity. Shrinking below the current
// seat count is rejected with ErrConflict.
func (r *RoomRepo) UpdateCapacity(ctx context.Context, ownerID, libraryID, roomID uint64, capacity uint32) error {
	room, err := r.GetByID(ctx, ownerID, libraryID, roomID)
	if err != nil {
		return err
	}
	const cnt = `SELECT COUNT(*) FROM seats
	             WHERE owner_id = ? AND library_id = ? AND room_number = ? AND room_type = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, cnt, ownerID, libraryID, room.Number, room.Type).Scan(&n); err != nil {
		return err
	}
	if n > int(capacity) {
		return ErrConflict
	}
	const q = `UPDATE rooms SET capacity = ? WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, capacity, roomID, ownerID, libraryID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room. Rooms that still have seats cannot be deleted.
func (r *RoomRepo) Delete(ctx context.Context, ownerID, libraryID, roomID uint64) error {
	room, err := r.GetByID(ctx, ownerID, libraryID, roomID)
	if err != nil {
		return err
	}
	const cnt = `SELECT COUNT(*) FROM seats
	             WHERE owner_id = ? AND library_id = ? AND room_number = ? AND room_type = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, cnt, ownerID, libraryID, room.Number, room.Type).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	const q = `DELETE FROM rooms WHERE id = ? AND owner_id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, roomID, ownerID, libraryID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrRoomNotFound
	}
	return nil
}
