// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// Queue names for seat lifecycle events.
const (
	SeatAllocatedQueue = "seat.allocated"
	SeatReleasedQueue  = "seat.released"
)

// SeatEvent is published when a seat is allocated or released. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type SeatEvent struct {
	SeatID     uint64 `json:"seat_id"`
	SeatLabel  string `json:"seat_label"`
	LibraryID  uint64 `json:"library_id"`
	MemberID   uint64 `json:"member_id"`
	MemberName string `json:"member_name,omitempty"`
	RoomNumber string `json:"room_number,omitempty"`
	RoomType   string `json:"room_type,omitempty"`
	ActorID    uint64 `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}
