package model

import "time"

// Member represents a registered member of a library. Billing amounts are
// stored in paise (minor currency units). DueAmount is always recomputed by
// the server as Total - Paid - Discount on every write; the stored value is
// never taken from the client.
//
// Fields:
//  ID            – primary key identifier.
//  OwnerID       – admin account owning this member record.
//  LibraryID     – tenant the member belongs to.
//  FullName      – member's display name.
//  Phone, Email  – contact fields (email optional).
//  Address       – postal address (optional).
//  PhotoURL      – profile image URL from file storage (optional).
//  DocumentURL   – identity document URL from file storage (optional).
//  PlanID        – plan the member is subscribed to (optional).
//  PlanName      – denormalized plan name at registration time.
//  AdmittedAt    – admission timestamp.
//  ExpiresAt     – plan expiry; allocations are refused once this is past.
//  TotalAmount   – plan total in paise.
//  PaidAmount    – amount paid so far in paise.
//  Discount      – discount granted in paise.
//  AdvanceAmount – advance held in paise.
//  DueAmount     – server-computed Total - Paid - Discount.
type Member struct {
	ID            uint64    // members.id
	OwnerID       uint64    // members.owner_id
	LibraryID     uint64    // members.library_id
	FullName      string    // members.full_name
	Phone         string    // members.phone
	Email         *string   // members.email (nullable)
	Address       *string   // members.address (nullable)
	PhotoURL      *string   // members.photo_url (nullable)
	DocumentURL   *string   // members.document_url (nullable)
	PlanID        *uint64   // members.plan_id (nullable)
	PlanName      *string   // members.plan_name (nullable)
	AdmittedAt    time.Time // members.admitted_at
	ExpiresAt     time.Time // members.expires_at
	TotalAmount   int64     // members.total_amount
	PaidAmount    int64     // members.paid_amount
	Discount      int64     // members.discount
	AdvanceAmount int64     // members.advance_amount
	DueAmount     int64     // members.due_amount
	CreatedAt     time.Time // members.created_at
	UpdatedAt     time.Time // members.updated_at
}

// ComputeDue returns the derived due amount. The stored due column is kept
// in sync with this on every write.
func (m *Member) ComputeDue() int64 {
	return m.TotalAmount - m.PaidAmount - m.Discount
}

// Plan is a subscription plan definition: a duration in months and a price
// in paise. Pure data, consumed when registering or renewing a member.
type Plan struct {
	ID             uint64    // plans.id
	OwnerID        uint64    // plans.owner_id
	LibraryID      uint64    // plans.library_id
	Name           string    // plans.name
	DurationMonths uint32    // plans.duration_months
	Amount         int64     // plans.amount
	CreatedAt      time.Time // plans.created_at
	UpdatedAt      time.Time // plans.updated_at
}
