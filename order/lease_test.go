package order

import (
	"testing"
	"time"

	"numbot/clock"
)

// stepClock is a settable clock for expiry tests.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func TestLeasesLastWriteWins(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLeases(clock.NewFixed(now))

	l.Put(Lease{UserID: 1, InstanceID: "+10000000001", ExpiresAt: now.Add(time.Hour)})
	l.Put(Lease{UserID: 1, InstanceID: "+38097000000", ExpiresAt: now.Add(time.Hour)})

	got, ok := l.Get(1)
	if !ok {
		t.Fatal("expected active lease")
	}
	if got.InstanceID != "+38097000000" {
		t.Fatalf("expected newest lease to win, got %s", got.InstanceID)
	}
	if l.Len() != 1 {
		t.Fatalf("expected a single record per user, got %d", l.Len())
	}
}

func TestLeasesLazyExpiry(t *testing.T) {
	t.Parallel()

	clk := &stepClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLeases(clk)
	l.Put(Lease{UserID: 1, InstanceID: "+10000000001", ExpiresAt: clk.now.Add(time.Hour)})

	if _, ok := l.Get(1); !ok {
		t.Fatal("expected lease to be active before expiry")
	}

	// Exactly at expiresAt the lease is already treated as absent.
	clk.now = clk.now.Add(time.Hour)
	if _, ok := l.Get(1); ok {
		t.Fatal("expected lease to be absent at expiry, without any deletion call")
	}

	// The expired record was dropped on read.
	if l.Len() != 0 {
		t.Fatalf("expected opportunistic delete on read, got %d records", l.Len())
	}
}

func TestLeasesGetUnknownUser(t *testing.T) {
	t.Parallel()

	l := NewLeases(clock.NewSystem())
	if _, ok := l.Get(404); ok {
		t.Fatal("expected no lease for unknown user")
	}
}
