// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to distinct user-facing responses: allocation conflicts become
// HTTP 409, business-rule rejections like an expired member become 422,
// and the free-tier member cap becomes 402.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no rows for the
// calling owner and library.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatAllocated is returned when allocation is attempted on a seat
// that already has an occupant.
var ErrSeatAllocated = errors.New("seat already allocated")

// ErrSeatNotAllocated is returned when deallocation is attempted on a
// seat that is already free. Releasing a free seat is rejected, not
// silently accepted.
var ErrSeatNotAllocated = errors.New("seat not allocated")

// ErrMemberHasSeat is returned when the member targeted by an allocation
// already occupies another seat in the same library.
var ErrMemberHasSeat = errors.New("member already has a seat")

// ErrMemberExpired is returned when the member's plan expiry lies in the
// past at allocation time.
var ErrMemberExpired = errors.New("member plan expired")

// ErrMemberNotFound is returned when a member lookup yields no rows.
var ErrMemberNotFound = errors.New("member not found")

// ErrCapacityExceeded is returned when adding seats would push a room
// past its configured capacity.
var ErrCapacityExceeded = errors.New("room capacity exceeded")

// ErrMemberLimit is returned when registering a member would exceed the
// free-tier cap and the owner has no active subscription.
var ErrMemberLimit = errors.New("member limit reached")

// ErrRoomNotFound is returned when a room lookup yields no rows.
var ErrRoomNotFound = errors.New("room not found")

// ErrPlanNotFound is returned when a plan lookup yields no rows.
var ErrPlanNotFound = errors.New("plan not found")

// ErrLibraryNotFound is returned when a library lookup yields no rows
// for the calling owner.
var ErrLibraryNotFound = errors.New("library not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a room that still has
// seats. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
