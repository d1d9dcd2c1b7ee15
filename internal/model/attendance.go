package model

import "time"

// AttendanceEntry is one member's presence mark for one calendar date in a
// library. There is at most one row per (library, date, member); saving
// again for the same date overwrites the previous mark.
type AttendanceEntry struct {
	ID        uint64    // attendance.id
	OwnerID   uint64    // attendance.owner_id
	LibraryID uint64    // attendance.library_id
	MemberID  uint64    // attendance.member_id
	Date      string    // attendance.date (YYYY-MM-DD)
	Present   bool      // attendance.present
	CreatedAt time.Time // attendance.created_at
	UpdatedAt time.Time // attendance.updated_at
}
