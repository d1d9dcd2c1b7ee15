package model

import "time"

// Record kinds for financial entries.
const (
	RecordPayment = "PAYMENT"
	RecordExpense = "EXPENSE"
)

// FinanceRecord is a single financial entry of a library: a member payment
// or an expense. Amounts are in paise. Payments carry the member they were
// received from; expenses leave MemberID nil. ReceiptNo is a server-issued
// UUID so receipts stay unique across libraries.
type FinanceRecord struct {
	ID        uint64    // finance_records.id
	OwnerID   uint64    // finance_records.owner_id
	LibraryID uint64    // finance_records.library_id
	Kind      string    // finance_records.kind (PAYMENT | EXPENSE)
	MemberID  *uint64   // finance_records.member_id (nullable)
	Amount    int64     // finance_records.amount
	Note      *string   // finance_records.note (nullable)
	ReceiptNo string    // finance_records.receipt_no
	CreatedBy uint64    // finance_records.created_by
	CreatedAt time.Time // finance_records.created_at
}
