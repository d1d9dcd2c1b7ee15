package model

import "time"

// Library is the tenant boundary. An owner may operate several libraries;
// every member, seat, plan, attendance and finance query filters by both
// owner_id and library_id.
type Library struct {
	ID        uint64    // libraries.id
	OwnerID   uint64    // libraries.owner_id
	Name      string    // libraries.name
	Address   *string   // libraries.address (nullable)
	CreatedAt time.Time // libraries.created_at
	UpdatedAt time.Time // libraries.updated_at
}

// Subscription is the owner-level entitlement record. An owner with an
// active (unexpired) subscription is exempt from the free-tier member cap.
type Subscription struct {
	ID        uint64    // subscriptions.id
	OwnerID   uint64    // subscriptions.owner_id
	Plan      string    // subscriptions.plan
	ExpiresAt time.Time // subscriptions.expires_at
	CreatedAt time.Time // subscriptions.created_at
}
