package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hostelhub/seat-management/internal/model"
)

// SubscriptionRepo reads and writes owner entitlements. The service layer
// caches HasActive results; this repository is the source of truth.
type SubscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo with the given DB handle.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// HasActive reports whether the owner holds a subscription whose expiry
// has not passed at the given instant.
func (r *SubscriptionRepo) HasActive(ctx context.Context, ownerID uint64, now time.Time) (bool, error) {
	const q = `SELECT COUNT(*) FROM subscriptions WHERE owner_id = ? AND expires_at >= ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID, now).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetForOwner returns the owner's most recent subscription row, or
// sql.ErrNoRows when none exists.
func (r *SubscriptionRepo) GetForOwner(ctx context.Context, ownerID uint64) (*model.Subscription, error) {
	const q = `SELECT id, owner_id, plan, expires_at, created_at
	           FROM subscriptions
	           WHERE owner_id = ?
	           ORDER BY expires_at DESC
	           LIMIT 1`
	var s model.Subscription
	err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&s.ID, &s.OwnerID, &s.Plan, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Record stores a subscription purchase or renewal reported by the
// payment provider webhook.
func (r *SubscriptionRepo) Record(ctx context.Context, ownerID uint64, plan string, expiresAt time.Time) error {
	if plan == "" {
		return errors.New("plan is required")
	}
	const q = `INSERT INTO subscriptions (owner_id, plan, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, ownerID, plan, expiresAt)
	return err
}
