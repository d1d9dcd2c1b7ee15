package model

import "time"

// Seat is the atomic unit of occupancy: one allocatable bed/desk inside a
// room of a library. Allocation state lives directly on the seat row; the
// member name and expiry are denormalized copies taken at allocation time
// and cleared again on release.
//
// Invariant: IsAllocated == true iff MemberID != nil.
//
// Fields:
//  ID              – primary key identifier.
//  OwnerID         – admin account the seat belongs to.
//  LibraryID       – tenant (library/hostel branch) the seat belongs to.
//  Label           – human-readable label, e.g. "101-bed-3".
//  RoomNumber      – room grouping attribute.
//  RoomType        – room class (e.g. AC, NON-AC, DORM).
//  IsAllocated     – whether a member currently occupies the seat.
//  MemberID        – occupying member, nil when free.
//  MemberName      – denormalized member name, nil when free.
//  MemberExpiresAt – denormalized plan expiry of the occupant, nil when free.
//  UpdatedBy       – user who performed the last state change.
type Seat struct {
	ID              uint64     // seats.id
	OwnerID         uint64     // seats.owner_id
	LibraryID       uint64     // seats.library_id
	Label           string     // seats.label
	RoomNumber      string     // seats.room_number
	RoomType        string     // seats.room_type
	IsAllocated     bool       // seats.is_allocated
	MemberID        *uint64    // seats.member_id (nullable)
	MemberName      *string    // seats.member_name (nullable)
	MemberExpiresAt *time.Time // seats.member_expires_at (nullable)
	UpdatedBy       uint64     // seats.updated_by
	CreatedAt       time.Time  // seats.created_at
	UpdatedAt       time.Time  // seats.updated_at
}

// Room groups seats of one library. Capacity bounds how many seats may be
// created for the room; occupancy is always derived from the seats table,
// never stored as a counter.
type Room struct {
	ID        uint64    // rooms.id
	OwnerID   uint64    // rooms.owner_id
	LibraryID uint64    // rooms.library_id
	Number    string    // rooms.number
	Type      string    // rooms.type
	Capacity  uint32    // rooms.capacity
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}
