package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expiry  time.Time
		expired bool
	}{
		{"future expiry", now.AddDate(0, 1, 0), false},
		{"past expiry", now.Add(-time.Second), true},
		{"exactly now is still valid", now, false},
		{"same instant in another zone", now.In(time.FixedZone("IST", 5*3600+1800)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, IsExpired(tt.expiry, now))
		})
	}
}

func TestComputeDue(t *testing.T) {
	m := Member{TotalAmount: 600000, PaidAmount: 200000, Discount: 50000}
	assert.Equal(t, int64(350000), m.ComputeDue())

	// Overpayment yields a negative due, surfaced as a credit.
	m.PaidAmount = 700000
	assert.Equal(t, int64(-150000), m.ComputeDue())
}
