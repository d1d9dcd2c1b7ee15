package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hostelhub/seat-management/internal/repository"
)

// entitlementTTL bounds how long a cached entitlement answer may lag
// behind a purchase or an expiry.
const entitlementTTL = 5 * time.Minute

// Entitlements answers "does this owner have an active subscription"
// with a Redis cache in front of the subscriptions table. A nil Redis
// client disables caching; every call then hits the database.
type Entitlements struct {
	subs *repository.SubscriptionRepo
	rdb  *redis.Client
}

// NewEntitlements constructs the service. subs must be non-nil; rdb may
// be nil.
func NewEntitlements(subs *repository.SubscriptionRepo, rdb *redis.Client) *Entitlements {
	if subs == nil {
		panic("nil subscription repository passed to NewEntitlements")
	}
	return &Entitlements{subs: subs, rdb: rdb}
}

func entitlementKey(ownerID uint64) string {
	return fmt.Sprintf("ent:%d", ownerID)
}

// HasActive reports whether the owner currently holds an active
// subscription. Cache errors are ignored; the database answer wins.
func (e *Entitlements) HasActive(ctx context.Context, ownerID uint64) (bool, error) {
	if e.rdb != nil {
		if v, err := e.rdb.Get(ctx, entitlementKey(ownerID)).Result(); err == nil {
			return v == "1", nil
		}
	}
	active, err := e.subs.HasActive(ctx, ownerID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if e.rdb != nil {
		v := "0"
		if active {
			v = "1"
		}
		_ = e.rdb.Set(ctx, entitlementKey(ownerID), v, entitlementTTL).Err()
	}
	return active, nil
}

// Invalidate drops the cached answer for an owner. Called after a
// subscription purchase is recorded so the new entitlement is visible
// immediately.
func (e *Entitlements) Invalidate(ctx context.Context, ownerID uint64) {
	if e.rdb != nil {
		_ = e.rdb.Del(ctx, entitlementKey(ownerID)).Err()
	}
}
