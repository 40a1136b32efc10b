package order

import (
	"sync"

	"numbot/clock"
)

// Leases maps a user to their single active lease. Writes always overwrite:
// the newest lease wins. Expiry is lazy; no background sweep exists, a read
// past ExpiresAt simply reports absence and drops the record opportunistically.
type Leases struct {
	mu     sync.Mutex
	clk    clock.Clock
	byUser map[int64]Lease
}

// NewLeases returns an empty lease store reading time from clk.
func NewLeases(clk clock.Clock) *Leases {
	return &Leases{clk: clk, byUser: make(map[int64]Lease)}
}

// Put records the lease for its user, replacing any previous one.
func (l *Leases) Put(lease Lease) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byUser[lease.UserID] = lease
}

// Get returns the user's lease when it is still active. A lease whose
// ExpiresAt is at or before the current time is treated as absent.
func (l *Leases) Get(userID int64) (Lease, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lease, ok := l.byUser[userID]
	if !ok {
		return Lease{}, false
	}
	if !lease.ExpiresAt.After(l.clk.Now()) {
		delete(l.byUser, userID)
		return Lease{}, false
	}
	return lease, true
}

// Len reports the number of lease records, expired ones included.
func (l *Leases) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byUser)
}
